package artifact

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/backmassage/gridmaster/internal/config"
	"github.com/backmassage/gridmaster/internal/ffmpeg"
)

// Frame extraction and placeholder drawing parameters.
const (
	frameMinBytes     = 100
	frameFallbackSeek = 0.1
	placeholderInset  = 2
	jpegQuality       = 85
)

var (
	canvasColor      = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
	placeholderFill  = color.NRGBA{R: 60, A: 255}  // dark red error tile
	placeholderEdge  = color.NRGBA{R: 120, A: 255} // red outline
	placeholderColor = color.NRGBA{R: 180, G: 180, B: 180, A: 255}
)

// StaticSheet extracts one still per clip and pastes them onto a canvas
// under the info panel. Grid slots whose segment produced no clip or no
// frame get a labeled placeholder tile at their exact position.
func (b *Builder) StaticSheet(ctx context.Context, in *Input) error {
	frames := b.extractFrames(ctx, in)
	if len(frames) == 0 {
		return errors.New("static sheet: no frames could be extracted")
	}

	panelPath, err := b.panel.RenderImage(in.Info, in.Base, in.WorkDir, in.Plan.Layout.SheetWidth())
	if err != nil {
		return fmt.Errorf("static sheet: %w", err)
	}
	header, err := imaging.Open(panelPath)
	if err != nil {
		return fmt.Errorf("static sheet: open panel: %w", err)
	}

	layout := in.Plan.Layout
	slots := len(in.Plan.Points)
	headerH := header.Bounds().Dy()
	canvas := imaging.New(layout.SheetWidth(), headerH+layout.Rows(slots)*layout.CellH, canvasColor)
	canvas = imaging.Paste(canvas, header, image.Pt(0, 0))

	for i := 1; i <= slots; i++ {
		x := ((i - 1) % layout.GridWidth) * layout.CellW
		y := headerH + (i-1)/layout.GridWidth*layout.CellH
		path, ok := frames[i]
		if !ok {
			drawPlaceholder(canvas, x, y, layout.CellW, layout.CellH,
				"Missing", fmt.Sprintf("Frame %d", i))
			continue
		}
		frame, err := imaging.Open(path)
		if err != nil {
			b.log.Error().Err(err).Str("frame", filepath.Base(path)).Msg("frame unreadable")
			drawPlaceholder(canvas, x, y, layout.CellW, layout.CellH,
				"Error", fmt.Sprintf("Frame %d", i))
			continue
		}
		if fb := frame.Bounds(); fb.Dx() != layout.CellW || fb.Dy() != layout.CellH {
			b.log.Warn().
				Str("frame", filepath.Base(path)).
				Str("have", fmt.Sprintf("%dx%d", fb.Dx(), fb.Dy())).
				Str("want", fmt.Sprintf("%dx%d", layout.CellW, layout.CellH)).
				Msg("resizing off-size frame")
			frame = imaging.Resize(frame, layout.CellW, layout.CellH, imaging.Lanczos)
		}
		canvas = imaging.Paste(canvas, frame, image.Pt(x, y))
	}

	out := in.Set.StaticPath(b.cfg.StillExt())
	if err := saveStatic(canvas, out, b.cfg.SheetFormat); err != nil {
		_ = os.Remove(out)
		return fmt.Errorf("static sheet: save: %w", err)
	}
	b.log.Info().
		Str("artifact", filepath.Base(out)).
		Int("frames", len(frames)).
		Int("slots", slots).
		Msg("static sheet created")
	return nil
}

// extractFrames grabs one still per clip, keyed by the clip's plan index.
// The midpoint of the segment is tried first, then a spot near its start;
// clips yielding no valid frame are left out.
func (b *Builder) extractFrames(ctx context.Context, in *Input) map[int]string {
	frames := make(map[int]string, len(in.Clips))
	mid := b.cfg.SegmentDuration / 2
	for _, clip := range in.Clips {
		if ctx.Err() != nil {
			break
		}
		name := strings.TrimSuffix(filepath.Base(clip.Path), filepath.Ext(clip.Path))
		out := filepath.Join(in.WorkDir, "frame_"+name+".png")
		if b.grabFrame(ctx, clip.Path, out, mid) || b.grabFrame(ctx, clip.Path, out, frameFallbackSeek) {
			frames[clip.Index] = out
			continue
		}
		b.log.Error().Str("clip", filepath.Base(clip.Path)).Msg("no usable frame for static sheet")
	}
	return frames
}

func (b *Builder) grabFrame(ctx context.Context, clip, out string, offset float64) bool {
	args, err := ffmpeg.Frame{Input: clip, Offset: offset, Output: out}.Args()
	if err != nil {
		return false
	}
	if res := b.ts.Run(ctx, args); res.Err != nil {
		_ = os.Remove(out)
		return false
	}
	fi, err := os.Stat(out)
	if err != nil || fi.Size() <= frameMinBytes {
		_ = os.Remove(out)
		return false
	}
	return true
}

// drawPlaceholder fills a grid cell with the dark error tile and centers
// the label lines on it.
func drawPlaceholder(canvas *image.NRGBA, x, y, w, h int, lines ...string) {
	tile := image.Rect(x+placeholderInset, y+placeholderInset, x+w-placeholderInset, y+h-placeholderInset)
	draw.Draw(canvas, tile, image.NewUniform(placeholderFill), image.Point{}, draw.Src)
	outlineRect(canvas, tile, placeholderEdge)

	face := basicfont.Face7x13
	m := face.Metrics()
	lineH := (m.Ascent + m.Descent).Ceil() + 2
	d := &font.Drawer{Dst: canvas, Src: image.NewUniform(placeholderColor), Face: face}
	ty := y + (h-lineH*len(lines))/2 + m.Ascent.Ceil()
	for _, line := range lines {
		tw := font.MeasureString(face, line).Ceil()
		d.Dot = fixed.P(x+(w-tw)/2, ty)
		d.DrawString(line)
		ty += lineH
	}
}

func outlineRect(canvas *image.NRGBA, r image.Rectangle, c color.Color) {
	for px := r.Min.X; px < r.Max.X; px++ {
		canvas.Set(px, r.Min.Y, c)
		canvas.Set(px, r.Max.Y-1, c)
	}
	for py := r.Min.Y; py < r.Max.Y; py++ {
		canvas.Set(r.Min.X, py, c)
		canvas.Set(r.Max.X-1, py, c)
	}
}

// saveStatic writes the sheet in the configured raster format. PNGs get the
// smallest-size compression level; JPEGs a fixed quality.
func saveStatic(img image.Image, path string, format config.SheetFormat) error {
	if format == config.SheetPNG {
		return imaging.Save(img, path, imaging.PNGCompressionLevel(png.BestCompression))
	}
	return imaging.Save(img, path, imaging.JPEGQuality(jpegQuality))
}
