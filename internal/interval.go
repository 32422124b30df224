package internal

import (
	"fmt"
	"time"
)

// Interval is the closed range [Start, End].
type Interval struct {
	Start time.Time
	End   time.Time
}

// MonthWindow spans from the first instant of the month before ref up to
// the last second of the month after ref, in ref's location.
func MonthWindow(ref time.Time) Interval {
	loc := ref.Location()
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)
	return Interval{
		Start: first.AddDate(0, -1, 0),
		End:   first.AddDate(0, 2, 0).Add(-time.Second),
	}
}

func (iv Interval) IsZero() bool {
	return iv.Start.IsZero() && iv.End.IsZero()
}

func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && !t.After(iv.End)
}

// Overlaps reports whether [start, end] shares at least one instant with iv.
func (iv Interval) Overlaps(start, end time.Time) bool {
	return !end.Before(iv.Start) && !start.After(iv.End)
}

func (iv Interval) String() string {
	return fmt.Sprintf("%s..%s", iv.Start.Format(time.RFC3339), iv.End.Format(time.RFC3339))
}
