package sheet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/backmassage/gridmaster/internal/config"
	"github.com/backmassage/gridmaster/internal/cutplan"
	"github.com/backmassage/gridmaster/internal/ffmpeg"
	"github.com/backmassage/gridmaster/internal/probe"
)

const fillerProbeJSON = `{
	"streams": [{"width": 480, "height": 270, "r_frame_rate": "30000/1001"}],
	"format": {"duration": "1.500000"}
}`

type fakeTranscoder struct {
	calls   []string
	failFor []string
}

func (f *fakeTranscoder) Run(_ context.Context, args []string) ffmpeg.Result {
	joined := strings.Join(args, " ")
	f.calls = append(f.calls, joined)
	for _, s := range f.failFor {
		if strings.Contains(joined, s) {
			return ffmpeg.Result{Stderr: "simulated failure", Err: errors.New("exit status 1")}
		}
	}
	_ = os.WriteFile(args[len(args)-1], []byte("stub output"), 0o644)
	return ffmpeg.Result{}
}

type fakeProbe struct {
	fail bool
}

func (f *fakeProbe) Query(_ context.Context, _ []string) ffmpeg.Result {
	if f.fail {
		return ffmpeg.Result{Err: errors.New("probe boom")}
	}
	return ffmpeg.Result{Stdout: fillerProbeJSON}
}

func testComposer(ft *fakeTranscoder, fp *fakeProbe) *Composer {
	cfg := config.DefaultConfig()
	return NewComposer(ft, probe.New(fp), &cfg, zerolog.Nop())
}

func stubClips(t *testing.T, dir string, n int) []string {
	t.Helper()
	clips := make([]string, n)
	for i := range clips {
		clips[i] = filepath.Join(dir, fmt.Sprintf("seg-%02d.mp4", i+1))
		if err := os.WriteFile(clips[i], []byte("clip"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return clips
}

func findCall(t *testing.T, calls []string, substr string) string {
	t.Helper()
	for _, c := range calls {
		if strings.Contains(c, substr) {
			return c
		}
	}
	t.Fatalf("no call matching %q in %d calls", substr, len(calls))
	return ""
}

func TestCompose_FullRows(t *testing.T) {
	dir := t.TempDir()
	ft := &fakeTranscoder{}
	c := testComposer(ft, &fakeProbe{})
	layout := cutplan.NewLayout(3, false, false)

	out, err := c.Compose(context.Background(), stubClips(t, dir, 6), filepath.Join(dir, "panel.mp4"), "vid", dir, layout, 29.97)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(out) != "vid_sheet_raw.mp4" {
		t.Errorf("sheet path = %q, grid-3 should not downscale", out)
	}
	if len(ft.calls) != 3 {
		t.Fatalf("calls = %d, want 2 rows + 1 vertical stack", len(ft.calls))
	}

	row := findCall(t, ft.calls, "row_01.mp4")
	if !strings.Contains(row, "scale=480:270:force_original_aspect_ratio=disable") {
		t.Errorf("row stack should rescale members into the cell: %s", row)
	}
	if !strings.Contains(row, "hstack=inputs=3") {
		t.Errorf("row stack filter: %s", row)
	}

	vstack := findCall(t, ft.calls, "vstack=inputs=3")
	if strings.Contains(vstack, "scale=") {
		t.Errorf("vertical stack must not rescale its members: %s", vstack)
	}
	if !strings.HasPrefix(vstack, "-i "+filepath.Join(dir, "panel.mp4")) {
		t.Errorf("panel clip must be the first vertical input: %s", vstack)
	}
}

func TestCompose_TailRowPadded(t *testing.T) {
	dir := t.TempDir()
	ft := &fakeTranscoder{}
	c := testComposer(ft, &fakeProbe{})
	layout := cutplan.NewLayout(3, false, false)

	if _, err := c.Compose(context.Background(), stubClips(t, dir, 7), filepath.Join(dir, "panel.mp4"), "vid", dir, layout, 24); err != nil {
		t.Fatal(err)
	}
	// 1 filler synth, 3 row stacks, 1 vertical stack.
	if len(ft.calls) != 5 {
		t.Fatalf("calls = %d, want 5", len(ft.calls))
	}

	synth := findCall(t, ft.calls, "lavfi")
	if !strings.Contains(synth, "color=c=black:s=480x270:r=29.97:d=1.500") {
		t.Errorf("filler should match the probed sibling clip: %s", synth)
	}

	tail := findCall(t, ft.calls, "row_03.mp4")
	filler := filepath.Join(dir, "filler_row03.mp4")
	if got := strings.Count(tail, "-i "+filler); got != 2 {
		t.Errorf("tail row should reuse the filler for both empty cells, got %d: %s", got, tail)
	}
}

func TestCompose_FillerProbeFallback(t *testing.T) {
	dir := t.TempDir()
	ft := &fakeTranscoder{}
	c := testComposer(ft, &fakeProbe{fail: true})
	layout := cutplan.NewLayout(3, false, false)

	if _, err := c.Compose(context.Background(), stubClips(t, dir, 4), filepath.Join(dir, "panel.mp4"), "vid", dir, layout, 25); err != nil {
		t.Fatal(err)
	}
	synth := findCall(t, ft.calls, "lavfi")
	if !strings.Contains(synth, "color=c=black:s=480x270:r=25:d=1.500") {
		t.Errorf("unprobeable filler should use the planned cell and source rate: %s", synth)
	}
}

func TestCompose_Downscale(t *testing.T) {
	dir := t.TempDir()
	ft := &fakeTranscoder{}
	c := testComposer(ft, &fakeProbe{})
	layout := cutplan.NewLayout(4, false, false)

	out, err := c.Compose(context.Background(), stubClips(t, dir, 8), filepath.Join(dir, "panel.mp4"), "vid", dir, layout, 24)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(out) != "vid_sheet_down.mp4" {
		t.Errorf("grid-4 landscape should return the downscaled sheet, got %q", out)
	}
	down := findCall(t, ft.calls, "scale=1280:-2")
	if !strings.Contains(down, "-crf 22") {
		t.Errorf("downscale quality: %s", down)
	}
}

func TestCompose_DownscaleFailureKeepsRaw(t *testing.T) {
	dir := t.TempDir()
	ft := &fakeTranscoder{failFor: []string{"scale=1280"}}
	c := testComposer(ft, &fakeProbe{})
	layout := cutplan.NewLayout(4, false, false)

	out, err := c.Compose(context.Background(), stubClips(t, dir, 8), filepath.Join(dir, "panel.mp4"), "vid", dir, layout, 24)
	if err != nil {
		t.Fatalf("downscale failure must not fail the sheet: %v", err)
	}
	if filepath.Base(out) != "vid_sheet_raw.mp4" {
		t.Errorf("failed downscale should keep the full-size sheet, got %q", out)
	}
}

func TestCompose_RowFailure(t *testing.T) {
	dir := t.TempDir()
	ft := &fakeTranscoder{failFor: []string{"row_01.mp4"}}
	c := testComposer(ft, &fakeProbe{})
	layout := cutplan.NewLayout(3, false, false)

	_, err := c.Compose(context.Background(), stubClips(t, dir, 6), filepath.Join(dir, "panel.mp4"), "vid", dir, layout, 24)
	if err == nil || !strings.Contains(err.Error(), "row 1") {
		t.Errorf("row stack failure should abort the sheet, got %v", err)
	}
}

func TestCompose_NoClips(t *testing.T) {
	c := testComposer(&fakeTranscoder{}, &fakeProbe{})
	layout := cutplan.NewLayout(3, false, false)
	if _, err := c.Compose(context.Background(), nil, "panel.mp4", "vid", t.TempDir(), layout, 24); err == nil {
		t.Error("Compose() with no clips should fail")
	}
}
