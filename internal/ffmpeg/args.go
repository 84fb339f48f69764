package ffmpeg

// This file defines one argument builder per external operation. Builders
// carry structured parameters, validate them, and emit the exact argument
// slice for [Exec.Run] / [Exec.Query]. The invocation preamble (-hide_banner,
// -nostdin, -y, -loglevel) is owned by the executor, not the builders.

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Timestamp overlay geometry (fixed).
const (
	overlayFontSize  = 20
	overlayInset     = 10
	overlayBoxBorder = 5
)

// fmtSeconds renders a time offset or duration with millisecond precision.
func fmtSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}

// fmtRate renders a frame rate without trailing zeros (24, 23.98).
func fmtRate(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Extract trims a scaled, stream-stripped segment out of a source video.
type Extract struct {
	Input    string
	Start    float64 // absolute seconds into the source
	Duration float64 // clamped segment length
	Filter   string  // scale/pad chain, decided by the caller's layout
	CRF      int
	Preset   string
	Output   string
}

// Args validates the operation and returns the ffmpeg argument slice.
// The seek sits before -i for fast keyframe-based input seeking.
func (x Extract) Args() ([]string, error) {
	if x.Input == "" || x.Output == "" {
		return nil, errors.New("extract: missing input or output path")
	}
	if x.Duration <= 0 {
		return nil, fmt.Errorf("extract: non-positive duration %v", x.Duration)
	}
	if x.Filter == "" {
		return nil, errors.New("extract: missing scale filter")
	}
	return []string{
		"-ss", fmtSeconds(x.Start),
		"-i", x.Input,
		"-t", fmtSeconds(x.Duration),
		"-vf", x.Filter,
		"-map", "0:v:0",
		"-c:v", "libx264",
		"-crf", strconv.Itoa(x.CRF),
		"-preset", x.Preset,
		"-an", "-sn", "-dn",
		"-map_metadata", "-1",
		"-map_chapters", "-1",
		x.Output,
	}, nil
}

// Overlay burns a timestamp label into a fixed corner of a segment.
type Overlay struct {
	Input    string
	Label    string // raw HH:MM:SS; escaping happens here
	FontFile string // optional; fontconfig default when empty
	CRF      int
	Preset   string
	Output   string
}

// Args returns the drawtext re-encode arguments.
func (o Overlay) Args() ([]string, error) {
	if o.Input == "" || o.Output == "" {
		return nil, errors.New("overlay: missing input or output path")
	}
	if o.Label == "" {
		return nil, errors.New("overlay: missing label")
	}
	var b strings.Builder
	b.WriteString("drawtext=")
	if o.FontFile != "" {
		fmt.Fprintf(&b, "fontfile=%s:", o.FontFile)
	}
	fmt.Fprintf(&b, "text='%s':fontcolor=white:fontsize=%d", EscapeDrawtext(o.Label), overlayFontSize)
	fmt.Fprintf(&b, ":x=(w-text_w)-%d:y=%d:box=1:boxcolor=black@0.4:boxborderw=%d",
		overlayInset, overlayInset, overlayBoxBorder)

	return []string{
		"-i", o.Input,
		"-vf", b.String(),
		"-c:v", "libx264",
		"-crf", strconv.Itoa(o.CRF),
		"-preset", o.Preset,
		"-an",
		o.Output,
	}, nil
}

// EscapeDrawtext escapes a value for embedding in a drawtext text='…' field.
// Labels here are timestamp-shaped, so backslashes, colons, and quotes cover it.
func EscapeDrawtext(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`:`, `\:`,
		`'`, `\\'`,
	)
	return r.Replace(s)
}

// Concat joins verified segments by stream copy using a concat list file.
type Concat struct {
	ListFile string // "file '<path>'" lines, one per segment
	Output   string
}

// Args returns the concat demuxer arguments.
func (c Concat) Args() ([]string, error) {
	if c.ListFile == "" || c.Output == "" {
		return nil, errors.New("concat: missing list file or output path")
	}
	return []string{
		"-f", "concat",
		"-safe", "0",
		"-i", c.ListFile,
		"-c", "copy",
		c.Output,
	}, nil
}

// Stack composes clips side by side (hstack) or top to bottom (vstack).
// When CellW/CellH are set, every input is rescaled to that exact size
// first; stacking requires uniform member geometry.
type Stack struct {
	Inputs   []string
	Vertical bool
	CellW    int
	CellH    int
	CRF      int
	Preset   string
	Output   string
}

// Args returns the filter_complex stacking arguments.
func (s Stack) Args() ([]string, error) {
	if len(s.Inputs) < 2 {
		return nil, fmt.Errorf("stack: need at least 2 inputs, got %d", len(s.Inputs))
	}
	if s.Output == "" {
		return nil, errors.New("stack: missing output path")
	}

	args := make([]string, 0, len(s.Inputs)*2+10)
	for _, in := range s.Inputs {
		if in == "" {
			return nil, errors.New("stack: empty input path")
		}
		args = append(args, "-i", in)
	}

	var fg strings.Builder
	labels := make([]string, len(s.Inputs))
	if s.CellW > 0 && s.CellH > 0 {
		for i := range s.Inputs {
			fmt.Fprintf(&fg, "[%d:v]scale=%d:%d:force_original_aspect_ratio=disable[s%d];",
				i, s.CellW, s.CellH, i)
			labels[i] = fmt.Sprintf("[s%d]", i)
		}
	} else {
		for i := range labels {
			labels[i] = fmt.Sprintf("[%d:v]", i)
		}
	}
	op := "hstack"
	if s.Vertical {
		op = "vstack"
	}
	fmt.Fprintf(&fg, "%s%s=inputs=%d[v]", strings.Join(labels, ""), op, len(s.Inputs))

	args = append(args,
		"-filter_complex", fg.String(),
		"-map", "[v]",
		"-c:v", "libx264",
		"-crf", strconv.Itoa(s.CRF),
		"-preset", s.Preset,
		s.Output,
	)
	return args, nil
}

// Synth generates a solid-color clip, used to pad short sheet rows.
type Synth struct {
	Color    string // e.g. "black"
	Width    int
	Height   int
	Rate     float64
	Duration float64
	CRF      int
	Preset   string
	Output   string
}

// Args returns the lavfi color-source arguments.
func (sy Synth) Args() ([]string, error) {
	if sy.Output == "" {
		return nil, errors.New("synth: missing output path")
	}
	if sy.Width <= 0 || sy.Height <= 0 || sy.Rate <= 0 || sy.Duration <= 0 {
		return nil, fmt.Errorf("synth: invalid geometry %dx%d@%v for %vs",
			sy.Width, sy.Height, sy.Rate, sy.Duration)
	}
	color := sy.Color
	if color == "" {
		color = "black"
	}
	src := fmt.Sprintf("color=c=%s:s=%dx%d:r=%s:d=%s",
		color, sy.Width, sy.Height, fmtRate(sy.Rate), fmtSeconds(sy.Duration))
	return []string{
		"-f", "lavfi",
		"-i", src,
		"-c:v", "libx264",
		"-crf", strconv.Itoa(sy.CRF),
		"-preset", sy.Preset,
		"-pix_fmt", "yuv420p",
		sy.Output,
	}, nil
}

// Anim encodes a clip into a looping animated WebP.
type Anim struct {
	Input       string
	Filter      string // optional fps/scale chain
	Quality     int
	Compression int // -compression_level when > 0
	Output      string
}

// Args returns the libwebp encode arguments.
func (a Anim) Args() ([]string, error) {
	if a.Input == "" || a.Output == "" {
		return nil, errors.New("anim: missing input or output path")
	}
	args := []string{"-i", a.Input}
	if a.Filter != "" {
		args = append(args, "-vf", a.Filter)
	}
	args = append(args,
		"-c:v", "libwebp",
		"-quality", strconv.Itoa(a.Quality),
		"-lossless", "0",
	)
	if a.Compression > 0 {
		args = append(args, "-compression_level", strconv.Itoa(a.Compression))
	}
	args = append(args,
		"-loop", "0",
		"-an",
		"-vsync", "0",
		a.Output,
	)
	return args, nil
}

// Loop turns a still image into a fixed-length clip (the animated sheet's
// info-panel header).
type Loop struct {
	Image    string
	Rate     float64
	Duration float64
	Output   string
}

// Args returns the image-loop encode arguments.
func (l Loop) Args() ([]string, error) {
	if l.Image == "" || l.Output == "" {
		return nil, errors.New("loop: missing image or output path")
	}
	if l.Rate <= 0 || l.Duration <= 0 {
		return nil, fmt.Errorf("loop: invalid rate %v or duration %v", l.Rate, l.Duration)
	}
	return []string{
		"-loop", "1",
		"-framerate", fmtRate(l.Rate),
		"-t", fmtSeconds(l.Duration),
		"-i", l.Image,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		l.Output,
	}, nil
}

// Frame grabs one still out of a segment clip.
type Frame struct {
	Input  string
	Offset float64 // seek within the clip; 0 is valid
	Output string
}

// Args returns the single-frame extraction arguments.
func (f Frame) Args() ([]string, error) {
	if f.Input == "" || f.Output == "" {
		return nil, errors.New("frame: missing input or output path")
	}
	if f.Offset < 0 {
		return nil, fmt.Errorf("frame: negative offset %v", f.Offset)
	}
	return []string{
		"-ss", fmtSeconds(f.Offset),
		"-i", f.Input,
		"-frames:v", "1",
		"-q:v", "2",
		f.Output,
	}, nil
}

// Downscale re-encodes a sheet to a bounded width, preserving aspect.
type Downscale struct {
	Input  string
	Width  int
	CRF    int
	Preset string
	Output string
}

// Args returns the downscale re-encode arguments.
func (d Downscale) Args() ([]string, error) {
	if d.Input == "" || d.Output == "" {
		return nil, errors.New("downscale: missing input or output path")
	}
	if d.Width <= 0 {
		return nil, fmt.Errorf("downscale: invalid width %d", d.Width)
	}
	return []string{
		"-i", d.Input,
		"-vf", fmt.Sprintf("scale=%d:-2", d.Width),
		"-c:v", "libx264",
		"-crf", strconv.Itoa(d.CRF),
		"-preset", d.Preset,
		d.Output,
	}, nil
}

// --- ffprobe queries ---

// ProbeArgs asks for the full format+stream JSON document.
func ProbeArgs(path string) []string {
	return []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}
}

// DurationArgs asks for just the container duration, as JSON.
func DurationArgs(path string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	}
}

// ClipInfoArgs asks for the first video stream's geometry and rate plus the
// container duration, as JSON. Used to synthesize matching filler clips.
func ClipInfoArgs(path string) []string {
	return []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	}
}
