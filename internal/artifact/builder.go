package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/backmassage/gridmaster/internal/config"
	"github.com/backmassage/gridmaster/internal/cutplan"
	"github.com/backmassage/gridmaster/internal/ffmpeg"
	"github.com/backmassage/gridmaster/internal/naming"
	"github.com/backmassage/gridmaster/internal/panel"
	"github.com/backmassage/gridmaster/internal/probe"
	"github.com/backmassage/gridmaster/internal/segment"
	"github.com/backmassage/gridmaster/internal/sheet"
)

// Animated encode parameters. The preview trades encode time for size with
// the highest compression effort; the sheet is bigger and keeps the encode
// cheap.
const (
	animFPS            = 24
	previewQuality     = 80
	previewCompression = 6
	sheetQuality       = 75
)

// Input carries everything the builders need for one video.
type Input struct {
	Info    *probe.MediaInfo
	Clips   []segment.Clip
	Plan    *cutplan.Plan
	Set     naming.ArtifactSet
	Base    string
	WorkDir string
}

// Builder produces the run's artifacts from extracted clips.
type Builder struct {
	ts     ffmpeg.TranscodeService
	cfg    *config.Config
	log    zerolog.Logger
	panel  *panel.Renderer
	sheets *sheet.Composer
}

// NewBuilder wires a Builder and its panel renderer and sheet composer.
func NewBuilder(ts ffmpeg.TranscodeService, pr *probe.Prober, cfg *config.Config, log zerolog.Logger) *Builder {
	return &Builder{
		ts:     ts,
		cfg:    cfg,
		log:    log,
		panel:  panel.NewRenderer(ts, cfg, log),
		sheets: sheet.NewComposer(ts, pr, cfg, log),
	}
}

// Build dispatches one artifact kind.
func (b *Builder) Build(ctx context.Context, kind config.ArtifactType, in *Input) error {
	switch kind {
	case config.ArtifactPreview:
		return b.Preview(ctx, in)
	case config.ArtifactSheet:
		return b.AnimatedSheet(ctx, in)
	case config.ArtifactStatic:
		return b.StaticSheet(ctx, in)
	default:
		return fmt.Errorf("unknown artifact type %q", kind)
	}
}

// run executes one encode and guards against tool runs that exit zero but
// write nothing. Failed runs leave no output behind.
func (b *Builder) run(ctx context.Context, args []string, out string) error {
	res := b.ts.Run(ctx, args)
	if res.Err != nil {
		_ = os.Remove(out)
		if hint := ffmpeg.Hint(res.Stderr); hint != "" {
			return fmt.Errorf("%w (%s)", res.Err, hint)
		}
		return res.Err
	}
	if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
		_ = os.Remove(out)
		return fmt.Errorf("%s: empty output", filepath.Base(out))
	}
	return nil
}
