package segment

import (
	"context"
	"fmt"
	"os"
)

// Verification thresholds. Anything under a KiB is an encoder stub, and a
// near-zero probed duration means the container is present but unplayable.
const (
	minClipBytes   = 1024
	minClipSeconds = 0.01
)

// verify rejects clips that are missing, suspiciously small, or report no
// playable duration.
func (x *Extractor) verify(ctx context.Context, path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("clip missing after extraction: %w", err)
	}
	if fi.Size() < minClipBytes {
		return fmt.Errorf("clip too small (%d bytes)", fi.Size())
	}
	d, err := x.pr.ClipDuration(ctx, path)
	if err != nil {
		return err
	}
	if d <= minClipSeconds {
		return fmt.Errorf("clip reports no playable duration (%.3fs)", d)
	}
	return nil
}
