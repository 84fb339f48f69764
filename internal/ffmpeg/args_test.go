package ffmpeg

import (
	"strings"
	"testing"
)

// assertContains fails unless args contains flag immediately followed by value.
func assertContains(t *testing.T, args []string, flag, value string) {
	t.Helper()
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag && args[i+1] == value {
			return
		}
	}
	t.Errorf("args missing %q %q in %v", flag, value, args)
}

func TestExtractArgs(t *testing.T) {
	x := Extract{
		Input:    "/in/movie.mkv",
		Start:    63.45,
		Duration: 1.5,
		Filter:   "scale=480:270",
		CRF:      23,
		Preset:   "medium",
		Output:   "/tmp/seg_003.mp4",
	}
	args, err := x.Args()
	if err != nil {
		t.Fatalf("Args() error: %v", err)
	}

	assertContains(t, args, "-ss", "63.450")
	assertContains(t, args, "-i", "/in/movie.mkv")
	assertContains(t, args, "-t", "1.500")
	assertContains(t, args, "-vf", "scale=480:270")
	assertContains(t, args, "-map", "0:v:0")
	assertContains(t, args, "-c:v", "libx264")
	assertContains(t, args, "-crf", "23")
	assertContains(t, args, "-preset", "medium")
	assertContains(t, args, "-map_metadata", "-1")
	assertContains(t, args, "-map_chapters", "-1")

	// Seek must precede the input for fast input seeking.
	if args[0] != "-ss" {
		t.Errorf("args[0] = %q, want -ss", args[0])
	}
	if args[len(args)-1] != "/tmp/seg_003.mp4" {
		t.Errorf("last arg = %q, want output path", args[len(args)-1])
	}
}

func TestExtractArgs_Invalid(t *testing.T) {
	if _, err := (Extract{Output: "o", Duration: 1, Filter: "f"}).Args(); err == nil {
		t.Error("Args() should reject missing input")
	}
	if _, err := (Extract{Input: "i", Output: "o", Filter: "f"}).Args(); err == nil {
		t.Error("Args() should reject zero duration")
	}
	if _, err := (Extract{Input: "i", Output: "o", Duration: 1}).Args(); err == nil {
		t.Error("Args() should reject missing filter")
	}
}

func TestOverlayArgs(t *testing.T) {
	o := Overlay{
		Input:    "/ws/seg_000.mp4",
		Label:    "00:01:03",
		FontFile: "/usr/share/fonts/LiberationSans-Regular.ttf",
		CRF:      23,
		Preset:   "medium",
		Output:   "/ws/ts_seg_000.mp4",
	}
	args, err := o.Args()
	if err != nil {
		t.Fatalf("Args() error: %v", err)
	}

	var vf string
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "-vf" {
			vf = args[i+1]
		}
	}
	if vf == "" {
		t.Fatal("no -vf in overlay args")
	}
	for _, want := range []string{
		"drawtext=",
		"fontfile=/usr/share/fonts/LiberationSans-Regular.ttf",
		`text='00\:01\:03'`,
		"fontsize=20",
		"x=(w-text_w)-10",
		"boxcolor=black@0.4",
		"boxborderw=5",
	} {
		if !strings.Contains(vf, want) {
			t.Errorf("filter %q missing %q", vf, want)
		}
	}
	assertContains(t, args, "-c:v", "libx264")
}

func TestOverlayArgs_NoFont(t *testing.T) {
	o := Overlay{Input: "in", Label: "00:00:05", CRF: 23, Preset: "medium", Output: "out"}
	args, err := o.Args()
	if err != nil {
		t.Fatalf("Args() error: %v", err)
	}
	for _, a := range args {
		if strings.Contains(a, "fontfile=") {
			t.Errorf("filter should omit fontfile when unset: %q", a)
		}
	}
}

func TestEscapeDrawtext(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"00:12:34", `00\:12\:34`},
		{"plain", "plain"},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		if got := EscapeDrawtext(tt.in); got != tt.want {
			t.Errorf("EscapeDrawtext(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConcatArgs(t *testing.T) {
	c := Concat{ListFile: "/ws/concat.txt", Output: "/ws/joined.mp4"}
	args, err := c.Args()
	if err != nil {
		t.Fatalf("Args() error: %v", err)
	}
	assertContains(t, args, "-f", "concat")
	assertContains(t, args, "-safe", "0")
	assertContains(t, args, "-i", "/ws/concat.txt")
	assertContains(t, args, "-c", "copy")
}

func TestStackArgs_HorizontalWithRescale(t *testing.T) {
	s := Stack{
		Inputs: []string{"/ws/a.mp4", "/ws/b.mp4", "/ws/c.mp4"},
		CellW:  480,
		CellH:  270,
		CRF:    23,
		Preset: "medium",
		Output: "/ws/row_0.mp4",
	}
	args, err := s.Args()
	if err != nil {
		t.Fatalf("Args() error: %v", err)
	}

	var fg string
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "-filter_complex" {
			fg = args[i+1]
		}
	}
	want := "[0:v]scale=480:270:force_original_aspect_ratio=disable[s0];" +
		"[1:v]scale=480:270:force_original_aspect_ratio=disable[s1];" +
		"[2:v]scale=480:270:force_original_aspect_ratio=disable[s2];" +
		"[s0][s1][s2]hstack=inputs=3[v]"
	if fg != want {
		t.Errorf("filtergraph = %q, want %q", fg, want)
	}
	assertContains(t, args, "-map", "[v]")
}

func TestStackArgs_VerticalNoRescale(t *testing.T) {
	s := Stack{
		Inputs:   []string{"/ws/panel.mp4", "/ws/row_0.mp4"},
		Vertical: true,
		CRF:      23,
		Preset:   "medium",
		Output:   "/ws/sheet.mp4",
	}
	args, err := s.Args()
	if err != nil {
		t.Fatalf("Args() error: %v", err)
	}
	var fg string
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "-filter_complex" {
			fg = args[i+1]
		}
	}
	if fg != "[0:v][1:v]vstack=inputs=2[v]" {
		t.Errorf("filtergraph = %q", fg)
	}
}

func TestStackArgs_RejectsSingleInput(t *testing.T) {
	s := Stack{Inputs: []string{"only.mp4"}, Output: "out.mp4"}
	if _, err := s.Args(); err == nil {
		t.Error("Args() should reject a single-input stack")
	}
}

func TestSynthArgs(t *testing.T) {
	sy := Synth{
		Width:    480,
		Height:   270,
		Rate:     23.98,
		Duration: 1.5,
		CRF:      23,
		Preset:   "medium",
		Output:   "/ws/filler_1.mp4",
	}
	args, err := sy.Args()
	if err != nil {
		t.Fatalf("Args() error: %v", err)
	}
	assertContains(t, args, "-f", "lavfi")
	assertContains(t, args, "-i", "color=c=black:s=480x270:r=23.98:d=1.500")
	assertContains(t, args, "-pix_fmt", "yuv420p")
}

func TestAnimArgs(t *testing.T) {
	a := Anim{
		Input:       "/ws/joined.mp4",
		Filter:      "fps=24,scale=480:-2:flags=lanczos",
		Quality:     80,
		Compression: 6,
		Output:      "/out/x_preview.webp",
	}
	args, err := a.Args()
	if err != nil {
		t.Fatalf("Args() error: %v", err)
	}
	assertContains(t, args, "-vf", "fps=24,scale=480:-2:flags=lanczos")
	assertContains(t, args, "-c:v", "libwebp")
	assertContains(t, args, "-quality", "80")
	assertContains(t, args, "-compression_level", "6")
	assertContains(t, args, "-loop", "0")
	assertContains(t, args, "-lossless", "0")
}

func TestAnimArgs_NoFilterNoCompression(t *testing.T) {
	a := Anim{Input: "in.mp4", Quality: 75, Output: "out.webp"}
	args, err := a.Args()
	if err != nil {
		t.Fatalf("Args() error: %v", err)
	}
	for _, arg := range args {
		if arg == "-vf" || arg == "-compression_level" {
			t.Errorf("unexpected %q in %v", arg, args)
		}
	}
	assertContains(t, args, "-quality", "75")
}

func TestLoopArgs(t *testing.T) {
	l := Loop{Image: "/ws/panel.png", Rate: 23.98, Duration: 1.5, Output: "/ws/panel.mp4"}
	args, err := l.Args()
	if err != nil {
		t.Fatalf("Args() error: %v", err)
	}
	assertContains(t, args, "-loop", "1")
	assertContains(t, args, "-framerate", "23.98")
	assertContains(t, args, "-t", "1.500")
	assertContains(t, args, "-i", "/ws/panel.png")
	assertContains(t, args, "-pix_fmt", "yuv420p")
}

func TestFrameArgs(t *testing.T) {
	f := Frame{Input: "/ws/seg_002.mp4", Offset: 0.75, Output: "/ws/frame_002.png"}
	args, err := f.Args()
	if err != nil {
		t.Fatalf("Args() error: %v", err)
	}
	assertContains(t, args, "-ss", "0.750")
	assertContains(t, args, "-frames:v", "1")
	assertContains(t, args, "-q:v", "2")
}

func TestDownscaleArgs(t *testing.T) {
	d := Downscale{Input: "/ws/sheet.mp4", Width: 1280, CRF: 22, Preset: "medium", Output: "/ws/sheet_small.mp4"}
	args, err := d.Args()
	if err != nil {
		t.Fatalf("Args() error: %v", err)
	}
	assertContains(t, args, "-vf", "scale=1280:-2")
	assertContains(t, args, "-crf", "22")
}

func TestProbeArgs(t *testing.T) {
	args := ProbeArgs("/media/in.mkv")
	assertContains(t, args, "-print_format", "json")
	if args[len(args)-1] != "/media/in.mkv" {
		t.Errorf("last arg = %q, want path", args[len(args)-1])
	}

	dur := DurationArgs("/ws/seg_000.mp4")
	assertContains(t, dur, "-show_entries", "format=duration")
	assertContains(t, dur, "-of", "json")

	ci := ClipInfoArgs("/ws/seg_000.mp4")
	assertContains(t, ci, "-select_streams", "v:0")
	assertContains(t, ci, "-show_entries", "stream=width,height,r_frame_rate")
}

func TestHint(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   string
	}{
		{"missing webp", "Unknown encoder 'libwebp'", "ffmpeg build lacks a required encoder (libx264/libwebp)"},
		{"missing drawtext", "No such filter: 'drawtext'", "ffmpeg build lacks a required filter"},
		{"font", "[drawtext] Could not load font", "drawtext could not load the font"},
		{"corrupt", "x.mp4: Invalid data found when processing input", "input looks corrupt or truncated"},
		{"disk full", "av_interleaved_write_frame(): No space left on device", "destination volume is full"},
		{"unknown", "completely novel failure", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hint(tt.stderr); got != tt.want {
				t.Errorf("Hint() = %q, want %q", got, tt.want)
			}
		})
	}
}
