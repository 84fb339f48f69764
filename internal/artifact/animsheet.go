package artifact

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/backmassage/gridmaster/internal/ffmpeg"
)

// AnimatedSheet renders the info panel, loops it into a header clip,
// composes the grid video from the sheet-variant clips, and encodes the
// looping contact sheet.
func (b *Builder) AnimatedSheet(ctx context.Context, in *Input) error {
	img, err := b.panel.RenderImage(in.Info, in.Base, in.WorkDir, in.Plan.Layout.SheetWidth())
	if err != nil {
		return fmt.Errorf("animated sheet: %w", err)
	}
	panelClip, err := b.panel.Clip(ctx, img, in.Base, in.WorkDir, in.Info.FPS)
	if err != nil {
		return fmt.Errorf("animated sheet: %w", err)
	}

	clips := make([]string, len(in.Clips))
	for i, c := range in.Clips {
		clips[i] = c.SheetPath
	}
	video, err := b.sheets.Compose(ctx, clips, panelClip, in.Base, in.WorkDir, in.Plan.Layout, in.Info.FPS)
	if err != nil {
		return fmt.Errorf("animated sheet: %w", err)
	}

	out := in.Set.SheetPath()
	args, err := ffmpeg.Anim{
		Input:   video,
		Filter:  fmt.Sprintf("fps=%d,scale=iw:ih:flags=lanczos", animFPS),
		Quality: sheetQuality,
		Output:  out,
	}.Args()
	if err != nil {
		return err
	}
	if err := b.run(ctx, args, out); err != nil {
		return fmt.Errorf("animated sheet: encode: %w", err)
	}
	b.log.Info().Str("artifact", filepath.Base(out)).Msg("animated sheet created")
	return nil
}
