package panel

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/backmassage/gridmaster/internal/config"
	"github.com/backmassage/gridmaster/internal/display"
	"github.com/backmassage/gridmaster/internal/ffmpeg"
	"github.com/backmassage/gridmaster/internal/probe"
)

// Panel geometry. The key column is fixed; values wrap inside the
// remaining width.
const (
	fontSize    = 16
	linePadding = 5
	sideMargin  = 20
	keyValueGap = 15
	keyColumn   = 110
	edgePadding = 10

	valueMissing = "N/A"

	// fallbackRate stands in when the source frame rate is unknown.
	fallbackRate = 24.0
)

var textColor = color.NRGBA{R: 230, G: 230, B: 230, A: 255}

// Field is one key/value row of the info panel.
type Field struct {
	Key   string
	Value string
}

// Fields assembles the panel rows in display order. The MD5 row appears
// only when a hash was computed.
func Fields(mi *probe.MediaInfo) []Field {
	fields := []Field{
		{"File", filepath.Base(mi.Format.Filename)},
		{"Title", orMissing(mi.Format.Title())},
		{"Size", sizeLabel(mi.Format.Size)},
		{"Resolution", mi.Resolution()},
		{"Duration", display.FormatTimestamp(mi.Format.Duration)},
		{"Video", videoDetails(mi)},
		{"Audio", audioDetails(mi)},
	}
	if mi.MD5 != "" {
		fields = append(fields, Field{"MD5", mi.MD5})
	}
	return fields
}

// videoDetails summarizes the primary video stream, e.g.
// "H264 (High) @ 1250 kbps, 29.97 fps".
func videoDetails(mi *probe.MediaInfo) string {
	v := mi.PrimaryVideo
	if v == nil {
		return valueMissing
	}
	return fmt.Sprintf("%s (%s) @ %d kbps, %s fps",
		strings.ToUpper(v.Codec), orMissing(v.Profile), kbps(mi.VideoBitRate()), fmtFPS(mi.FPS))
}

// audioDetails summarizes the default audio stream, e.g.
// "AAC (LC, 2ch) @ 192 kbps".
func audioDetails(mi *probe.MediaInfo) string {
	a := mi.PrimaryAudio()
	if a == nil {
		return "No Audio Stream"
	}
	return fmt.Sprintf("%s (%s, %dch) @ %d kbps",
		strings.ToUpper(a.Codec), orMissing(a.Profile), a.Channels, kbps(a.BitRate))
}

func sizeLabel(bytes int64) string {
	if bytes <= 0 {
		return valueMissing
	}
	return fmt.Sprintf("%.2f MB", float64(bytes)/(1024*1024))
}

func orMissing(s string) string {
	if s == "" {
		return valueMissing
	}
	return s
}

func kbps(bps int64) int64 {
	return int64(math.Round(float64(bps) / 1000))
}

// fmtFPS prints a frame rate with at least one decimal: "25.0", "29.97".
func fmtFPS(fps float64) string {
	s := strconv.FormatFloat(fps, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Renderer draws the info panel image and encodes its looping video form.
// The face is resolved once per run from the configured font path.
type Renderer struct {
	ts   ffmpeg.TranscodeService
	cfg  *config.Config
	log  zerolog.Logger
	face font.Face
}

// NewRenderer returns a Renderer with the panel face loaded.
func NewRenderer(ts ffmpeg.TranscodeService, cfg *config.Config, log zerolog.Logger) *Renderer {
	return &Renderer{ts: ts, cfg: cfg, log: log, face: loadFace(cfg.FontPath, log)}
}

// RenderImage draws the metadata panel sized to the sheet width and writes
// it as a PNG into workDir. The panel height follows from the wrapped line
// count, so callers must read it back from the file.
func (r *Renderer) RenderImage(mi *probe.MediaInfo, base, workDir string, width int) (string, error) {
	valueWidth := width - keyColumn - keyValueGap - 2*sideMargin
	if valueWidth <= 0 {
		return "", fmt.Errorf("panel: width %d leaves no room for values", width)
	}

	metrics := r.face.Metrics()
	ascent := metrics.Ascent.Ceil()
	lineHeight := (metrics.Ascent + metrics.Descent).Ceil() + linePadding

	fields := Fields(mi)
	wrapped := make([][]string, len(fields))
	totalLines := 0
	for i, f := range fields {
		wrapped[i] = wrapValue(r.face, f.Value, valueWidth)
		totalLines += len(wrapped[i])
	}
	height := 2*edgePadding + totalLines*lineHeight
	if height%2 != 0 {
		height++ // the looped clip encodes yuv420p, which needs even dimensions
	}

	img := imaging.New(width, height, color.NRGBA{A: 255})
	d := &font.Drawer{Dst: img, Src: image.NewUniform(textColor), Face: r.face}

	y := edgePadding
	for i, f := range fields {
		d.Dot = fixed.P(sideMargin, y+ascent)
		d.DrawString(f.Key + ":")
		for _, line := range wrapped[i] {
			d.Dot = fixed.P(sideMargin+keyColumn+keyValueGap, y+ascent)
			d.DrawString(line)
			y += lineHeight
		}
	}

	out := filepath.Join(workDir, base+"_info.png")
	if err := imaging.Save(img, out); err != nil {
		return "", fmt.Errorf("panel: save %s: %w", filepath.Base(out), err)
	}
	r.log.Debug().
		Str("panel", filepath.Base(out)).
		Int("width", width).
		Int("height", height).
		Msg("info panel rendered")
	return out, nil
}

// Clip loops the panel image into a segment-length video at the source
// frame rate, so it can head the vertical stack.
func (r *Renderer) Clip(ctx context.Context, imagePath, base, workDir string, fps float64) (string, error) {
	if fps <= 0 {
		fps = fallbackRate
	}
	out := filepath.Join(workDir, base+"_info_video.mp4")
	args, err := ffmpeg.Loop{
		Image:    imagePath,
		Rate:     fps,
		Duration: r.cfg.SegmentDuration,
		Output:   out,
	}.Args()
	if err != nil {
		return "", err
	}
	if res := r.ts.Run(ctx, args); res.Err != nil {
		_ = os.Remove(out)
		return "", fmt.Errorf("panel clip: %w", res.Err)
	}
	return out, nil
}
