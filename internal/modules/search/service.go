// README: Place search tools the chat model can invoke; turns search hits into place blocks.
package search

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/cow-planmate/Ai/internal/maps"
	"github.com/cow-planmate/Ai/internal/modules/plan"
	"github.com/cow-planmate/Ai/internal/timeslot"
	"github.com/cow-planmate/Ai/internal/types"
)

// DefaultDuration is the visit length when the model does not give one.
const DefaultDuration = 90 * time.Minute

// ErrNoPlaces reports that a search produced nothing usable.
var ErrNoPlaces = errors.New("search: no places found")

// PlaceSearcher is the place-search collaborator.
type PlaceSearcher interface {
	Search(ctx context.Context, query string, bias *types.Point, index int) (maps.Place, error)
}

type Service struct {
	places PlaceSearcher
}

func NewService(places PlaceSearcher) *Service {
	return &Service{places: places}
}

var (
	lodgingKeywords = []string{"숙소", "호텔", "게스트하우스", "모텔", "펜션", "stay"}
	diningKeywords  = []string{"맛집", "식당", "카페", "음식", "저녁", "점심", "회집", "회 "}
)

// DetectCategory infers the block category from the words in a query.
func DetectCategory(query string) plan.Category {
	q := strings.ToLower(query)
	for _, k := range lodgingKeywords {
		if strings.Contains(q, k) {
			return plan.Lodging
		}
	}
	for _, k := range diningKeywords {
		if strings.Contains(q, k) {
			return plan.Dining
		}
	}
	return plan.Sightseeing
}

// Find runs one search. Transport failures are logged and reported the same
// way as an empty result.
func (s *Service) Find(ctx context.Context, query string, bias *types.Point, index int) (maps.Place, bool) {
	p, err := s.places.Search(ctx, query, bias, index)
	if err != nil {
		if !errors.Is(err, maps.ErrPlaceNotFound) {
			log.Printf("[SEARCH] %q failed: %v", query, err)
		}
		return maps.Place{}, false
	}
	return p, true
}

// NewBlock builds an unsaved block for a search hit.
func NewBlock(p maps.Place, cat plan.Category, slot timeslot.Interval, timeTableID types.Identifier, date plan.Date) plan.PlaceBlock {
	return plan.PlaceBlock{
		BlockID:      types.Pending(1),
		PlaceName:    p.Name,
		PlaceRating:  p.Rating,
		PlaceAddress: p.Address,
		PlaceLink:    p.Link,
		StartTime:    slot.Start,
		EndTime:      slot.End,
		XLocation:    p.Location.Lng,
		YLocation:    p.Location.Lat,
		PlaceID:      p.PlaceID,
		Category:     cat,
		TimeTableID:  timeTableID,
		Date:         date,
	}
}

// CreateBlock searches a single place and slots it into the first free gap of
// the given TimeTable. It returns ErrNoPlaces when the search has no hit.
func (s *Service) CreateBlock(ctx context.Context, pc plan.Context, query string, timeTableID types.Identifier, d time.Duration) (plan.PlaceBlock, error) {
	if d <= 0 {
		d = DefaultDuration
	}
	p, ok := s.Find(ctx, query, nil, 0)
	if !ok {
		return plan.PlaceBlock{}, ErrNoPlaces
	}
	existing := plan.Intervals(pc.BlocksIn(timeTableID))
	slot := timeslot.FindFreeSlot(existing, timeslot.DayStart, timeslot.DayEnd, d)
	return NewBlock(p, DetectCategory(query), slot, timeTableID, dateFor(pc, timeTableID)), nil
}

// CreateBlocks searches several places and lays them end to end from the
// first free gap. A later block that would collide with an existing one moves
// past it. Queries without a hit are skipped; placement stops once a block
// would end after the day window. Repeating a query asks for the next match
// rather than the same one.
func (s *Service) CreateBlocks(ctx context.Context, pc plan.Context, queries []string, timeTableID types.Identifier, d time.Duration) ([]plan.PlaceBlock, error) {
	if d <= 0 {
		d = DefaultDuration
	}
	existing := plan.Intervals(pc.BlocksIn(timeTableID))
	start := timeslot.FindFreeSlot(existing, timeslot.DayStart, timeslot.DayEnd, d).Start
	date := dateFor(pc, timeTableID)

	seen := map[string]int{}
	var blocks []plan.PlaceBlock
	for _, q := range queries {
		idx := seen[q]
		seen[q]++
		p, ok := s.Find(ctx, q, nil, idx)
		if !ok {
			continue
		}
		slot, ok := timeslot.Interval{Start: start, End: start.Add(d)}, true
		if len(blocks) > 0 {
			slot, ok = nextFree(existing, start, d)
		}
		if !ok || slot.End.After(timeslot.DayEnd) || slot.End.Sub(slot.Start) != d {
			break
		}
		blocks = append(blocks, NewBlock(p, DetectCategory(q), slot, timeTableID, date))
		start = slot.End
	}
	if len(blocks) == 0 {
		return nil, ErrNoPlaces
	}
	return blocks, nil
}

// nextFree returns the first d-long interval at or after start that avoids
// existing and ends by the day window.
func nextFree(existing []timeslot.Interval, start timeslot.Clock, d time.Duration) (timeslot.Interval, bool) {
	for {
		slot := timeslot.Interval{Start: start, End: start.Add(d)}
		if slot.End.After(timeslot.DayEnd) || slot.End.Sub(slot.Start) != d {
			return timeslot.Interval{}, false
		}
		moved := false
		for _, e := range existing {
			if slot.Overlaps(e) && e.End.After(start) {
				start, moved = e.End, true
			}
		}
		if !moved {
			return slot, true
		}
	}
}

func dateFor(pc plan.Context, id types.Identifier) plan.Date {
	for _, tt := range pc.TimeTables {
		if tt.ID == id {
			return tt.Date
		}
	}
	return ""
}
