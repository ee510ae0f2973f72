package bucket

import (
	"fmt"
	"math"

	"vizr-mcp/internal/calendar"
)

// TrendPoint is one vertex of the linear target line.
type TrendPoint struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

// TrendPoints draws a straight line from 0 at the start interval to target at the end
// interval, with one point per interval start. Start and end in the same interval is a
// degenerate range.
func TrendPoints(start, end string, interval calendar.Interval, target float64) ([]TrendPoint, error) {
	cal := calendar.Default

	if math.IsNaN(target) || math.IsInf(target, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTarget, target)
	}
	interval, err := interval.Canonical()
	if err != nil {
		return nil, err
	}
	startDate, err := parseBound(cal, "start", start)
	if err != nil {
		return nil, err
	}
	endDate, err := parseBound(cal, "end", end)
	if err != nil {
		return nil, err
	}

	totalIntervals := cal.DiffInIntervals(startDate, endDate, interval)
	if totalIntervals <= 0 {
		return nil, fmt.Errorf("%w: %s..%s spans %d %s intervals", ErrDegenerateRange, start, end, totalIntervals, interval)
	}

	alignedStart := cal.AlignToIntervalStart(startDate, interval)
	starts := cal.EnumerateIntervalStarts(startDate, endDate, interval)
	points := make([]TrendPoint, 0, len(starts))
	for _, d := range starts {
		period := cal.DiffInIntervals(alignedStart, d, interval)

		var y float64
		switch period {
		case 0:
			y = 0
		case totalIntervals:
			// exact, not period*slope
			y = target
		default:
			y = float64(period) * (target / float64(totalIntervals))
		}
		points = append(points, TrendPoint{X: cal.Format(d), Y: y})
	}
	return points, nil
}
