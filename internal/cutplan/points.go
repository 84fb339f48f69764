package cutplan

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Sampling window and adjustment policy. The window starts just past the
// opening (titles, fade-in) and stops short of the end (credits). Blacklist
// collisions get a bounded number of window adjustments before planning
// fails for the video.
const (
	startFraction = 0.05
	endFraction   = 0.98
	boundaryNudge = 0.01
	windowShrink  = 0.005
	adjustBudget  = 2
	innerMargin   = 0.001
)

// ErrNoViablePoints means the window collapsed or the blacklist was too
// dense to place the requested number of distinct cut points.
var ErrNoViablePoints = errors.New("no viable cut points")

// Points computes n ascending fractional cut positions in (0,1). The first
// and last positions sit on the window boundaries; the rest are spread
// evenly between them, rounded to three decimals. Positions listed in
// blacklist (compared at the same precision) are avoided by nudging the
// boundaries inward, then by shrinking the whole window, drawing both kinds
// of adjustment from one shared budget.
func Points(n int, blacklist []float64) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("cut point count must be at least 2, got %d", n)
	}

	bl := make(map[int]bool, len(blacklist))
	for _, b := range blacklist {
		bl[milli(b)] = true
	}

	start, end := startFraction, endFraction
	budget := adjustBudget
	for budget > 0 {
		pts := make(map[int]float64, n)
		if !bl[milli(start)] {
			p := round3(start)
			pts[milli(p)] = p
		}
		if !bl[milli(end)] {
			p := round3(end)
			pts[milli(p)] = p
		}

		// Both boundaries must survive before inner points can be spread.
		if len(pts) < 2 {
			start += boundaryNudge
			end -= boundaryNudge
			if start >= end {
				return nil, fmt.Errorf("%w: window collapsed nudging blacklisted boundaries", ErrNoViablePoints)
			}
			budget--
			continue
		}

		lo, hi := round3(start), round3(end)
		inner := n - len(pts)
		step := (hi - lo) / float64(inner+1)
		for i := 1; i <= inner; i++ {
			p := round3(lo + step*float64(i))
			// Keep inner points strictly inside the boundaries.
			p = round3(math.Max(lo+innerMargin, math.Min(hi-innerMargin, p)))
			if !bl[milli(p)] {
				pts[milli(p)] = p
			}
		}

		if len(pts) < n {
			start += windowShrink
			end -= windowShrink
			if start >= end {
				return nil, fmt.Errorf("%w: window collapsed avoiding blacklisted positions", ErrNoViablePoints)
			}
			budget--
			continue
		}

		out := make([]float64, 0, len(pts))
		for _, p := range pts {
			out = append(out, p)
		}
		sort.Float64s(out)
		return out, nil
	}
	return nil, fmt.Errorf("%w: gave up after %d window adjustments", ErrNoViablePoints, adjustBudget)
}

// milli maps a fraction onto the three-decimal comparison grid, absorbing
// float drift from repeated window adjustments.
func milli(f float64) int {
	return int(math.Round(f * 1000))
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
