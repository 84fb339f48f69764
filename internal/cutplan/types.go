package cutplan

import "github.com/backmassage/gridmaster/internal/config"

// Plan holds the complete sampling decision for a single video: where to
// cut, and how the cuts are arranged on the sheets. It is produced once per
// video and consumed by the extraction and composition stages.
type Plan struct {
	Points []float64 // ascending fractions of the source duration
	Layout Layout
}

// Build produces the Plan for one source video.
func Build(cfg *config.Config, vertical bool) (*Plan, error) {
	pts, err := Points(cfg.SegmentCount, cfg.Blacklist)
	if err != nil {
		return nil, err
	}
	return &Plan{
		Points: pts,
		Layout: NewLayout(cfg.GridWidth, vertical, cfg.BlackBars),
	}, nil
}

// StartTimes converts the fractional points into seek offsets in seconds
// for a source of the given duration.
func (p *Plan) StartTimes(duration float64) []float64 {
	out := make([]float64, len(p.Points))
	for i, pt := range p.Points {
		out[i] = pt * duration
	}
	return out
}
