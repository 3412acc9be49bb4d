package timeslot

import (
	"sort"
	"time"
)

// Default planning window for a single day.
var (
	DayStart      = At(9, 0, 0)
	DayEnd        = At(21, 0, 0)
	FallbackStart = At(19, 0, 0)
	FallbackEnd   = At(20, 30, 0)
)

// Interval is the half-open range [Start, End).
type Interval struct {
	Start Clock
	End   Clock
}

// Overlaps reports whether the two ranges share any instant. Touching ends do not count.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// OverlapsAny reports whether i collides with any of the existing intervals.
func (i Interval) OverlapsAny(existing []Interval) bool {
	for _, e := range existing {
		if i.Overlaps(e) {
			return true
		}
	}
	return false
}

// FindFreeSlot returns the earliest interval of length d starting at or after
// dayStart that avoids every existing interval and ends by dayEnd. When none
// fits, the fixed 19:00-20:30 evening slot is returned.
func FindFreeSlot(existing []Interval, dayStart, dayEnd Clock, d time.Duration) Interval {
	used := make([]Interval, len(existing))
	copy(used, existing)
	sort.SliceStable(used, func(a, b int) bool { return used[a].Start.Before(used[b].Start) })

	fits := func(start Clock) (Clock, bool) {
		end := start.Add(d)
		return end, !end.After(dayEnd) && end.Sub(start) == d
	}

	candidate := dayStart
	for _, u := range used {
		end, ok := fits(candidate)
		if !ok {
			break
		}
		if !end.After(u.Start) {
			return Interval{Start: candidate, End: end}
		}
		if candidate.Before(u.End) {
			candidate = u.End
		}
	}
	if end, ok := fits(candidate); ok {
		return Interval{Start: candidate, End: end}
	}
	return Interval{Start: FallbackStart, End: FallbackEnd}
}
