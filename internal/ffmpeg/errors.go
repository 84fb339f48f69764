package ffmpeg

import "regexp"

// Pre-compiled regexes for classifying ffmpeg stderr output into operator
// hints. The pipeline never retries a failed tool call with different
// arguments; classification exists purely to make failure logs actionable.
var (
	reMissingEncoder = regexp.MustCompile(
		`(?i)Unknown encoder '(libwebp|libx264)'|` +
			`Encoder (libwebp|libx264) not found`)

	reMissingFilter = regexp.MustCompile(
		`(?i)No such filter: '?(drawtext|hstack|vstack|pad|scale)'?`)

	reFontProblem = regexp.MustCompile(
		`(?i)Could not load font|impossible to open font|fontconfig`)

	reCorruptInput = regexp.MustCompile(
		`(?i)Invalid data found when processing input|` +
			`moov atom not found|` +
			`could not find codec parameters`)

	reNoSpace = regexp.MustCompile(
		`(?i)No space left on device`)
)

// Hint maps known ffmpeg failure chatter to a short cause suitable for a
// log field. Returns "" when stderr matches nothing recognizable.
func Hint(stderr string) string {
	switch {
	case reMissingEncoder.MatchString(stderr):
		return "ffmpeg build lacks a required encoder (libx264/libwebp)"
	case reMissingFilter.MatchString(stderr):
		return "ffmpeg build lacks a required filter"
	case reFontProblem.MatchString(stderr):
		return "drawtext could not load the font"
	case reCorruptInput.MatchString(stderr):
		return "input looks corrupt or truncated"
	case reNoSpace.MatchString(stderr):
		return "destination volume is full"
	default:
		return ""
	}
}
