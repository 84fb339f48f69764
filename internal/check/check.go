// Package check provides system diagnostics (--check mode) and the fast
// preflight validation run before a batch: ffmpeg and ffprobe presence, the
// libx264 and libwebp encoders, the stacking and drawtext filters, and panel
// font availability.
package check

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/backmassage/gridmaster/internal/config"
	"github.com/backmassage/gridmaster/internal/panel"
)

// Sentinel errors returned by Preflight when a required tool or encoder is
// missing.
var (
	ErrFFmpegNotFound  = errors.New("ffmpeg not found")
	ErrFFprobeNotFound = errors.New("ffprobe not found")
	ErrNoX264          = errors.New("libx264 test encode failed")
	ErrNoWebP          = errors.New("libwebp test encode failed")
)

// testTimeout bounds every diagnostic invocation so a wedged binary cannot
// hang startup.
const testTimeout = 15 * time.Second

// RunCheck runs the informational --check flow: tool versions, encoder and
// filter availability, test encodes, and font resolution. It never stops on
// failure; every line is a finding.
func RunCheck(cfg *config.Config, log zerolog.Logger) {
	log.Info().Msg("=== System Check ===")

	checkTool(cfg.FFmpegPath, "ffmpeg", log)
	checkTool(cfg.FFprobePath, "ffprobe", log)
	checkEncoders(cfg.FFmpegPath, log)
	checkFilters(cfg.FFmpegPath, log)

	log.Info().Msg("Testing libx264 encode...")
	if runSilent(cfg.FFmpegPath, x264TestArgs()...) {
		log.Info().Msg("libx264 encode works")
	} else {
		log.Error().Msg("libx264 test encode failed")
	}

	log.Info().Msg("Testing libwebp encode...")
	if runSilent(cfg.FFmpegPath, webpTestArgs()...) {
		log.Info().Msg("libwebp encode works")
	} else {
		log.Error().Msg("libwebp test encode failed")
	}

	if font := panel.ResolveFontPath(cfg.FontPath, log); font != "" {
		log.Info().Str("font", font).Msg("panel font resolved")
	} else {
		log.Warn().Msg("no TrueType font found; panel text will use the built-in face")
	}
}

// checkTool verifies the binary resolves and logs its version line.
func checkTool(path, name string, log zerolog.Logger) {
	if err := resolveTool(path); err != nil {
		log.Error().Str("path", path).Msgf("%s not found", name)
		return
	}
	out, err := run(path, "-version")
	if err != nil {
		log.Warn().Err(err).Msgf("%s found but -version failed", name)
		return
	}
	version := strings.TrimSpace(string(out))
	if idx := strings.Index(version, "\n"); idx > 0 {
		version = version[:idx]
	}
	log.Info().Msg(version)
}

// checkEncoders scans the encoder list for the two the pipeline needs.
func checkEncoders(ffmpeg string, log zerolog.Logger) {
	out, err := run(ffmpeg, "-hide_banner", "-encoders")
	if err != nil {
		log.Warn().Err(err).Msg("could not list encoders")
		return
	}
	for _, enc := range []string{"libx264", "libwebp"} {
		if strings.Contains(string(out), enc) {
			log.Info().Msgf("encoder %s available", enc)
		} else {
			log.Error().Msgf("encoder %s missing", enc)
		}
	}
}

// checkFilters scans the filter list for everything the extraction and
// stacking stages use.
func checkFilters(ffmpeg string, log zerolog.Logger) {
	out, err := run(ffmpeg, "-hide_banner", "-filters")
	if err != nil {
		log.Warn().Err(err).Msg("could not list filters")
		return
	}
	for _, f := range []string{"scale", "pad", "hstack", "vstack", "drawtext"} {
		if strings.Contains(string(out), " "+f+" ") {
			log.Info().Msgf("filter %s available", f)
		} else {
			log.Warn().Msgf("filter %s missing", f)
		}
	}
}

// Preflight is the pre-batch validation: both tools must resolve, libx264
// must encode, and libwebp must encode when an animated artifact is
// requested. A missing drawtext filter only warns, because overlay failures
// degrade to clean clips at runtime.
func Preflight(cfg *config.Config, log zerolog.Logger) error {
	if err := resolveTool(cfg.FFmpegPath); err != nil {
		return ErrFFmpegNotFound
	}
	if err := resolveTool(cfg.FFprobePath); err != nil {
		return ErrFFprobeNotFound
	}
	if !runSilent(cfg.FFmpegPath, x264TestArgs()...) {
		return ErrNoX264
	}
	if cfg.WantArtifact(config.ArtifactPreview) || cfg.WantArtifact(config.ArtifactSheet) {
		if !runSilent(cfg.FFmpegPath, webpTestArgs()...) {
			return ErrNoWebP
		}
	}
	if cfg.Timestamps != config.TimestampsOff && !hasFilter(cfg.FFmpegPath, "drawtext") {
		log.Warn().Msg("drawtext filter unavailable; timestamp overlays will be skipped")
	}
	return nil
}

// --- internal helpers ---

// resolveTool accepts either a bare binary name (PATH lookup) or an
// explicit path.
func resolveTool(path string) error {
	if strings.ContainsRune(path, os.PathSeparator) {
		_, err := os.Stat(path)
		return err
	}
	_, err := exec.LookPath(path)
	return err
}

func hasFilter(ffmpeg, name string) bool {
	out, err := run(ffmpeg, "-hide_banner", "-filters")
	if err != nil {
		return false
	}
	return strings.Contains(string(out), " "+name+" ")
}

// x264TestArgs is a minimal segment-encoder test.
func x264TestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", "libx264",
		"-f", "null", "-",
	}
}

// webpTestArgs is a minimal animated-artifact encoder test.
func webpTestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", "libwebp", "-lossless", "0",
		"-f", "null", "-",
	}
}

// run executes the tool with a bounded context and returns its stdout.
func run(name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()
	return exec.CommandContext(ctx, name, args...).Output()
}

// runSilent runs a command and reports whether it exited zero. All output
// is discarded.
func runSilent(name string, args ...string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()
	return exec.CommandContext(ctx, name, args...).Run() == nil
}
