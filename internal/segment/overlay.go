package segment

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/backmassage/gridmaster/internal/display"
	"github.com/backmassage/gridmaster/internal/ffmpeg"
)

// overlay burns the HH:MM:SS source offset into the clip's top right corner
// and writes the result alongside the input with a ts_ prefix.
func (x *Extractor) overlay(ctx context.Context, clipPath string, startSec float64) (string, error) {
	out := filepath.Join(filepath.Dir(clipPath), "ts_"+filepath.Base(clipPath))
	args, err := ffmpeg.Overlay{
		Input:    clipPath,
		Label:    display.FormatTimestamp(startSec),
		FontFile: x.cfg.FontPath,
		CRF:      x.cfg.SegmentCRF,
		Preset:   x.cfg.SegmentPreset,
		Output:   out,
	}.Args()
	if err != nil {
		return "", err
	}

	res := x.ts.Run(ctx, args)
	if res.Err != nil {
		_ = os.Remove(out)
		if hint := ffmpeg.Hint(res.Stderr); hint != "" {
			return "", fmt.Errorf("%w (%s)", res.Err, hint)
		}
		return "", res.Err
	}
	return out, nil
}
