package probe

import (
	"errors"
	"fmt"
)

// Screening rejects sources the pipeline cannot handle before any work is
// done on them. A rejection is final for the file; the batch moves on.
var (
	ErrNoVideoStream    = errors.New("no video stream")
	ErrRotated          = errors.New("video carries a rotation tag")
	ErrTooShort         = errors.New("video too short")
	ErrUnsupportedCodec = errors.New("unsupported video codec")
)

// MinDuration is the shortest source worth sampling. Anything at or below
// this cannot yield a meaningful set of cut points.
const MinDuration = 10.0

// Codecs whose seek behavior breaks segment extraction.
var unsupportedCodecs = map[string]bool{
	"msmpeg4v3": true,
}

// Screen checks a probed source against the pipeline's preconditions.
// Returns nil when the file is workable.
func Screen(mi *MediaInfo) error {
	if mi.PrimaryVideo == nil {
		return ErrNoVideoStream
	}
	if r := mi.PrimaryVideo.Rotation; r != 0 {
		return fmt.Errorf("%w (%d degrees)", ErrRotated, r)
	}
	if d := mi.Format.Duration; d <= MinDuration {
		return fmt.Errorf("%w (%.2fs, need > %.0fs)", ErrTooShort, d, MinDuration)
	}
	if c := mi.PrimaryVideo.Codec; unsupportedCodecs[c] {
		return fmt.Errorf("%w (%s)", ErrUnsupportedCodec, c)
	}
	return nil
}
