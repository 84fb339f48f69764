package cutplan

import "fmt"

// Segment cells are 16:9 at 480x270; vertical sources keep the same pixel
// dimensions rotated. Grid-4 landscape sheets get one extra downscale pass.
const (
	cellLong  = 480
	cellShort = 270

	// DownscaleWidth bounds grid-4 landscape sheets, which would otherwise
	// come out 1920 wide.
	DownscaleWidth = 1280
)

// Layout captures every geometry decision for one video's sheets.
type Layout struct {
	GridWidth int
	CellW     int
	CellH     int
	Vertical  bool // source orientation
	BlackBars bool // pad vertical sources into landscape cells
	Landscape bool // effective orientation after black-bar handling
	Downscale bool
}

// NewLayout derives the sheet geometry from the grid width, the source
// orientation, and the black-bar setting.
func NewLayout(gridWidth int, vertical, blackBars bool) Layout {
	l := Layout{
		GridWidth: gridWidth,
		Vertical:  vertical,
		BlackBars: blackBars,
		Landscape: !vertical || blackBars,
	}
	if l.Landscape {
		l.CellW, l.CellH = cellLong, cellShort
	} else {
		l.CellW, l.CellH = cellShort, cellLong
	}
	l.Downscale = gridWidth == 4 && l.Landscape
	return l
}

// SheetWidth is the pixel width of one stacked row, and therefore of the
// info panel above it.
func (l Layout) SheetWidth() int {
	return l.GridWidth * l.CellW
}

// Rows reports how many grid rows the given number of segments fills.
func (l Layout) Rows(segments int) int {
	return (segments + l.GridWidth - 1) / l.GridWidth
}

// ScaleFilter is the -vf chain applied during segment extraction. Vertical
// sources are either rotated into tall cells or padded into landscape cells
// with black bars.
func (l Layout) ScaleFilter() string {
	switch {
	case l.Vertical && l.BlackBars:
		return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=black",
			cellLong, cellShort, cellLong, cellShort)
	case l.Vertical:
		return fmt.Sprintf("scale=%d:%d", cellShort, cellLong)
	default:
		return fmt.Sprintf("scale=%d:%d", cellLong, cellShort)
	}
}

// PreviewScale is the scale term used when encoding the standalone animated
// preview, keeping the long edge at the cell size.
func (l Layout) PreviewScale() string {
	if l.Landscape {
		return fmt.Sprintf("scale=%d:-2", cellLong)
	}
	return fmt.Sprintf("scale=-2:%d", cellLong)
}
