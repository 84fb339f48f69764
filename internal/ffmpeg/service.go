package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/backmassage/gridmaster/internal/config"
)

// Result holds the outcome of a single external tool invocation.
type Result struct {
	Stdout string
	Stderr string
	Err    error
}

// OK reports whether the invocation exited cleanly.
func (r Result) OK() bool { return r.Err == nil }

// TranscodeService runs ffmpeg with the given operation arguments.
// Implementations own the invocation preamble (banner suppression, stdin,
// overwrite, loglevel); builders supply only the operation itself.
type TranscodeService interface {
	Run(ctx context.Context, args []string) Result
}

// ProbeService runs ffprobe with fully formed query arguments.
type ProbeService interface {
	Query(ctx context.Context, args []string) Result
}

// Exec invokes the real binaries. Every call gets its own deadline; a hung
// tool surfaces as that call's error instead of stalling the batch.
type Exec struct {
	FFmpeg  string
	FFprobe string
	Timeout time.Duration
	Verbose bool // tee ffmpeg stderr to os.Stderr in real time
}

// NewExec builds an executor from config.
func NewExec(cfg *config.Config) *Exec {
	return &Exec{
		FFmpeg:  cfg.FFmpegPath,
		FFprobe: cfg.FFprobePath,
		Timeout: cfg.ToolTimeout,
		Verbose: cfg.Verbose,
	}
}

// Run executes ffmpeg. Stderr is captured for diagnostics; when verbose it
// is tee'd to os.Stderr in real time as well.
func (e *Exec) Run(ctx context.Context, args []string) Result {
	full := make([]string, 0, len(args)+6)
	full = append(full, "-hide_banner", "-nostdin", "-y")
	if e.Verbose {
		full = append(full, "-loglevel", "info", "-stats")
	} else {
		full = append(full, "-loglevel", "error")
	}
	full = append(full, args...)
	return e.invoke(ctx, e.FFmpeg, full, e.Verbose)
}

// Query executes ffprobe. Probe output is never tee'd; stdout carries the
// answer and stderr only matters on failure.
func (e *Exec) Query(ctx context.Context, args []string) Result {
	return e.invoke(ctx, e.FFprobe, args, false)
}

func (e *Exec) invoke(ctx context.Context, bin string, args []string, tee bool) Result {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, bin, args...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	if tee {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%s timed out after %s: %w", bin, e.Timeout, context.DeadlineExceeded)
	}
	return Result{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}
