// README: Auto-scheduler request/result types and the fixed daily slot template.
package schedule

import (
	"errors"

	"github.com/cow-planmate/Ai/internal/modules/plan"
	"github.com/cow-planmate/Ai/internal/timeslot"
)

var (
	ErrBadDays        = errors.New("schedule: days must be between 1 and 7")
	ErrBadDestination = errors.New("schedule: destination is required")
)

// MaxDays bounds the trip length one request may generate.
const MaxDays = 7

// Request asks for a days-long itinerary starting at StartDate.
type Request struct {
	Days        int
	StartDate   plan.Date
	Destination string
	PlanContext plan.Context
}

// Result carries the actions for the backend to apply, TimeTables first.
type Result struct {
	TimeTables  []plan.Action `json:"timeTables"`
	PlaceBlocks []plan.Action `json:"placeBlocks"`
}

type slotKind int

const (
	slotMorning slotKind = iota
	slotLunch
	slotDinner
	slotLodging
)

func (k slotKind) String() string {
	switch k {
	case slotMorning:
		return "morning"
	case slotLunch:
		return "lunch"
	case slotDinner:
		return "dinner"
	}
	return "lodging"
}

type slot struct {
	kind     slotKind
	window   timeslot.Interval
	category plan.Category
}

var (
	morningSlot = slot{slotMorning, timeslot.Interval{Start: timeslot.At(9, 0, 0), End: timeslot.At(11, 0, 0)}, plan.Sightseeing}
	lunchSlot   = slot{slotLunch, timeslot.Interval{Start: timeslot.At(12, 0, 0), End: timeslot.At(14, 0, 0)}, plan.Dining}
	dinnerSlot  = slot{slotDinner, timeslot.Interval{Start: timeslot.At(18, 0, 0), End: timeslot.At(20, 0, 0)}, plan.Dining}
	lodgingSlot = slot{slotLodging, timeslot.Interval{Start: timeslot.At(21, 0, 0), End: timeslot.At(23, 59, 0)}, plan.Lodging}
)
