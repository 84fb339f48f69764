package segment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"github.com/backmassage/gridmaster/internal/config"
	"github.com/backmassage/gridmaster/internal/cutplan"
	"github.com/backmassage/gridmaster/internal/display"
	"github.com/backmassage/gridmaster/internal/ffmpeg"
	"github.com/backmassage/gridmaster/internal/probe"
	"github.com/backmassage/gridmaster/internal/term"
)

// ErrNoSegments means every extraction attempt failed, so the video cannot
// produce any artifact.
var ErrNoSegments = errors.New("no usable segments were extracted")

// Clip is one verified sample on disk.
type Clip struct {
	Index     int     // 1-based position in the plan
	Start     float64 // seek offset into the source, seconds
	Path      string  // clean clip
	SheetPath string  // overlay variant used on sheets; equals Path without one
}

// Extractor cuts verified sample clips out of a source video.
type Extractor struct {
	ts  ffmpeg.TranscodeService
	pr  *probe.Prober
	cfg *config.Config
	log zerolog.Logger
}

// New returns an Extractor using the given services.
func New(ts ffmpeg.TranscodeService, pr *probe.Prober, cfg *config.Config, log zerolog.Logger) *Extractor {
	return &Extractor{ts: ts, pr: pr, cfg: cfg, log: log}
}

// Extract cuts one clip per plan point into workDir and returns the clips
// that survived verification, in plan order. Per-clip failures are logged
// and skipped; an error is returned only when the whole run is wiped out or
// the context is canceled.
func (x *Extractor) Extract(ctx context.Context, src, base, workDir string, duration float64, plan *cutplan.Plan) ([]Clip, error) {
	starts := plan.StartTimes(duration)
	filter := plan.Layout.ScaleFilter()
	bar := x.newBar(len(starts))

	clips := make([]Clip, 0, len(starts))
	for i, startSec := range starts {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		clip, err := x.extractOne(ctx, src, base, workDir, duration, filter, i+1, startSec)
		if bar != nil {
			_ = bar.Add(1)
		}
		if err != nil {
			return nil, err
		}
		if clip != nil {
			clips = append(clips, *clip)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	x.log.Info().
		Int("extracted", len(clips)).
		Int("requested", len(starts)).
		Msg("segment extraction finished")
	if len(clips) == 0 {
		return nil, ErrNoSegments
	}
	return clips, nil
}

// extractOne handles a single cut point. A nil, nil return means the clip
// was skipped or failed recoverably; errors are reserved for cancellation
// and broken invocations.
func (x *Extractor) extractOne(ctx context.Context, src, base, workDir string, duration float64, filter string, idx int, startSec float64) (*Clip, error) {
	slog := x.log.With().Int("segment", idx).Logger()

	if startSec >= duration {
		slog.Warn().Float64("start", startSec).Msg("cut point at or beyond source duration, skipping")
		return nil, nil
	}
	length := math.Min(x.cfg.SegmentDuration, duration-startSec)
	if length <= minClipSeconds {
		slog.Warn().Float64("length", length).Msg("remaining window too small, skipping")
		return nil, nil
	}

	out := filepath.Join(workDir, clipName(base, idx, startSec))
	args, err := ffmpeg.Extract{
		Input:    src,
		Start:    startSec,
		Duration: length,
		Filter:   filter,
		CRF:      x.cfg.SegmentCRF,
		Preset:   x.cfg.SegmentPreset,
		Output:   out,
	}.Args()
	if err != nil {
		return nil, fmt.Errorf("segment %d: %w", idx, err)
	}

	res := x.ts.Run(ctx, args)
	if res.Err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		evt := slog.Error().Err(res.Err).Float64("start", startSec)
		if hint := ffmpeg.Hint(res.Stderr); hint != "" {
			evt = evt.Str("hint", hint)
		}
		evt.Msg("segment extraction failed")
		x.discard(out)
		return nil, nil
	}

	if err := x.verify(ctx, out); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Error().Err(err).Msg("segment failed verification")
		x.discard(out)
		return nil, nil
	}

	clip := Clip{Index: idx, Start: startSec, Path: out, SheetPath: out}
	if err := x.applyOverlay(ctx, &clip); err != nil {
		return nil, err
	}
	return &clip, nil
}

// applyOverlay stamps the clip according to the timestamp mode. Overlay
// failures fall back to the clean clip.
func (x *Extractor) applyOverlay(ctx context.Context, clip *Clip) error {
	if x.cfg.Timestamps == config.TimestampsOff {
		return nil
	}
	stamped, err := x.overlay(ctx, clip.Path, clip.Start)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		x.log.Warn().Err(err).Int("segment", clip.Index).Msg("timestamp overlay failed, using clean clip")
		return nil
	}
	clip.SheetPath = stamped
	if x.cfg.Timestamps == config.TimestampsAll {
		clip.Path = stamped
	}
	return nil
}

func (x *Extractor) newBar(total int) *progressbar.ProgressBar {
	if !x.cfg.ShowProgress || !term.IsTerminal(os.Stderr) {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Extracting"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerPadding: "░",
			BarStart:      "▐",
			BarEnd:        "▌",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}

func (x *Extractor) discard(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		x.log.Debug().Err(err).Str("path", path).Msg("could not remove failed clip")
	}
}

// clipName embeds the formatted source offset so workspace listings sort
// and read naturally.
func clipName(base string, idx int, startSec float64) string {
	stamp := strings.ReplaceAll(display.FormatTimestamp(startSec), ":", ".")
	return fmt.Sprintf("%s_start-%s_seg-%02d.mp4", base, stamp, idx)
}
