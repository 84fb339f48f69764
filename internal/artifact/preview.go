package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/gridmaster/internal/ffmpeg"
)

// Preview concatenates the preview-variant clips and encodes the looping
// thumbnail, scaled so the long edge matches the cell size.
func (b *Builder) Preview(ctx context.Context, in *Input) error {
	clips := make([]string, len(in.Clips))
	for i, c := range in.Clips {
		clips[i] = c.Path
	}
	list, err := writeConcatList(in.WorkDir, clips)
	if err != nil {
		return fmt.Errorf("preview: concat list: %w", err)
	}

	joined := filepath.Join(in.WorkDir, in.Base+"_preview_concat.mp4")
	args, err := ffmpeg.Concat{ListFile: list, Output: joined}.Args()
	if err != nil {
		return err
	}
	if err := b.run(ctx, args, joined); err != nil {
		return fmt.Errorf("preview: concat: %w", err)
	}

	out := in.Set.PreviewPath()
	args, err = ffmpeg.Anim{
		Input:       joined,
		Filter:      fmt.Sprintf("fps=%d,%s:flags=lanczos", animFPS, in.Plan.Layout.PreviewScale()),
		Quality:     previewQuality,
		Compression: previewCompression,
		Output:      out,
	}.Args()
	if err != nil {
		return err
	}
	if err := b.run(ctx, args, out); err != nil {
		return fmt.Errorf("preview: encode: %w", err)
	}
	b.log.Info().Str("artifact", filepath.Base(out)).Msg("animated preview created")
	return nil
}

// writeConcatList writes a concat demuxer list file, one quoted absolute
// path per clip.
func writeConcatList(workDir string, clips []string) (string, error) {
	var sb strings.Builder
	for _, p := range clips {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", err
		}
		safe := strings.ReplaceAll(filepath.ToSlash(abs), "'", `'\''`)
		fmt.Fprintf(&sb, "file '%s'\n", safe)
	}
	path := filepath.Join(workDir, "concat_preview.txt")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
