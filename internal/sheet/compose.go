package sheet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/backmassage/gridmaster/internal/config"
	"github.com/backmassage/gridmaster/internal/cutplan"
	"github.com/backmassage/gridmaster/internal/ffmpeg"
	"github.com/backmassage/gridmaster/internal/probe"
)

// downscaleCRF is the quality for the optional bounded-width re-encode of
// grid-4 landscape sheets, slightly above the segment CRF.
const downscaleCRF = 22

// Composer builds the single sheet video the animated sheet is encoded
// from.
type Composer struct {
	ts  ffmpeg.TranscodeService
	pr  *probe.Prober
	cfg *config.Config
	log zerolog.Logger
}

// NewComposer returns a Composer using the given services.
func NewComposer(ts ffmpeg.TranscodeService, pr *probe.Prober, cfg *config.Config, log zerolog.Logger) *Composer {
	return &Composer{ts: ts, pr: pr, cfg: cfg, log: log}
}

// Compose stacks the clips into rows of the layout's grid width, pads a
// short tail row with black filler, and stacks the panel clip on top of
// the rows. The finished sheet video lands in workDir; the returned path
// is the downscaled variant when the layout calls for one and the pass
// succeeds.
func (c *Composer) Compose(ctx context.Context, clips []string, panelClip, base, workDir string, layout cutplan.Layout, sourceFPS float64) (string, error) {
	if len(clips) == 0 {
		return "", errors.New("sheet: no clips to compose")
	}

	rows, err := c.stackRows(ctx, clips, workDir, layout, sourceFPS)
	if err != nil {
		return "", err
	}

	raw := filepath.Join(workDir, base+"_sheet_raw.mp4")
	inputs := append([]string{panelClip}, rows...)
	if err := c.stack(ctx, inputs, raw, true, 0, 0); err != nil {
		return "", fmt.Errorf("sheet: vertical stack: %w", err)
	}

	if !layout.Downscale {
		return raw, nil
	}
	down := filepath.Join(workDir, base+"_sheet_down.mp4")
	if err := c.downscale(ctx, raw, down); err != nil {
		c.log.Warn().Err(err).Msg("sheet downscale failed, keeping full size")
		return raw, nil
	}
	c.log.Debug().Int("width", cutplan.DownscaleWidth).Msg("sheet downscaled")
	return down, nil
}

// stackRows groups the clips into grid-width rows and hstacks each one,
// rescaling every member into the planned cell so mixed filler geometry
// cannot break the stack.
func (c *Composer) stackRows(ctx context.Context, clips []string, workDir string, layout cutplan.Layout, sourceFPS float64) ([]string, error) {
	grid := layout.GridWidth
	rows := make([]string, 0, layout.Rows(len(clips)))
	for r := 0; r*grid < len(clips); r++ {
		start := r * grid
		end := start + grid
		if end > len(clips) {
			end = len(clips)
		}
		group := clips[start:end:end]

		if missing := grid - len(group); missing > 0 {
			c.log.Warn().
				Int("row", r+1).
				Int("have", len(group)).
				Int("grid", grid).
				Msg("padding short sheet row with black filler")
			filler, err := c.synthFiller(ctx, group[0], workDir, layout, sourceFPS, r+1)
			if err != nil {
				return nil, fmt.Errorf("sheet: filler for row %d: %w", r+1, err)
			}
			for i := 0; i < missing; i++ {
				group = append(group, filler)
			}
		}

		out := filepath.Join(workDir, fmt.Sprintf("row_%02d.mp4", r+1))
		if err := c.stack(ctx, group, out, false, layout.CellW, layout.CellH); err != nil {
			return nil, fmt.Errorf("sheet: row %d: %w", r+1, err)
		}
		rows = append(rows, out)
	}
	return rows, nil
}

// synthFiller builds one black clip matching the row's first member,
// reused for every empty cell in that row. Probe failures fall back to the
// planned cell geometry.
func (c *Composer) synthFiller(ctx context.Context, sibling, workDir string, layout cutplan.Layout, sourceFPS float64, row int) (string, error) {
	geo, err := c.pr.ClipInfo(ctx, sibling)
	if err != nil {
		c.log.Warn().Err(err).
			Str("clip", filepath.Base(sibling)).
			Msg("filler geometry probe failed, using planned cell")
		geo = probe.ClipGeometry{Width: layout.CellW, Height: layout.CellH}
	}
	if geo.Rate <= 0 {
		geo.Rate = sourceFPS
	}
	if geo.Rate <= 0 {
		geo.Rate = 24
	}
	if geo.Duration <= 0 {
		geo.Duration = c.cfg.SegmentDuration
	}

	out := filepath.Join(workDir, fmt.Sprintf("filler_row%02d.mp4", row))
	args, err := ffmpeg.Synth{
		Color:    "black",
		Width:    geo.Width,
		Height:   geo.Height,
		Rate:     geo.Rate,
		Duration: geo.Duration,
		CRF:      c.cfg.SegmentCRF,
		Preset:   c.cfg.SegmentPreset,
		Output:   out,
	}.Args()
	if err != nil {
		return "", err
	}
	if res := c.ts.Run(ctx, args); res.Err != nil {
		_ = os.Remove(out)
		return "", res.Err
	}
	return out, nil
}

func (c *Composer) stack(ctx context.Context, inputs []string, out string, vertical bool, cellW, cellH int) error {
	args, err := ffmpeg.Stack{
		Inputs:   inputs,
		Vertical: vertical,
		CellW:    cellW,
		CellH:    cellH,
		CRF:      c.cfg.SegmentCRF,
		Preset:   c.cfg.SegmentPreset,
		Output:   out,
	}.Args()
	if err != nil {
		return err
	}
	res := c.ts.Run(ctx, args)
	if res.Err != nil {
		_ = os.Remove(out)
		if hint := ffmpeg.Hint(res.Stderr); hint != "" {
			return fmt.Errorf("%w (%s)", res.Err, hint)
		}
		return res.Err
	}
	return nil
}

func (c *Composer) downscale(ctx context.Context, in, out string) error {
	args, err := ffmpeg.Downscale{
		Input:  in,
		Width:  cutplan.DownscaleWidth,
		CRF:    downscaleCRF,
		Preset: c.cfg.SegmentPreset,
		Output: out,
	}.Args()
	if err != nil {
		return err
	}
	res := c.ts.Run(ctx, args)
	if res.Err != nil {
		_ = os.Remove(out)
		return res.Err
	}
	if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
		_ = os.Remove(out)
		return errors.New("downscaled sheet is empty")
	}
	return nil
}
