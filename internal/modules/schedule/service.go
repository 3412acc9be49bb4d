package schedule

import (
	"context"
	"log"
	"strings"

	"github.com/cow-planmate/Ai/internal/maps"
	"github.com/cow-planmate/Ai/internal/modules/plan"
	"github.com/cow-planmate/Ai/internal/modules/search"
	"github.com/cow-planmate/Ai/internal/types"
)

// PlaceFinder runs one place search; ok is false when nothing matched.
type PlaceFinder interface {
	Find(ctx context.Context, query string, bias *types.Point, index int) (maps.Place, bool)
}

// Geocoder resolves a destination name to coordinates for search biasing.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (types.Point, error)
}

// Service builds multi-day itineraries from a fixed slot template.
type Service struct {
	places PlaceFinder
	geo    Geocoder
}

// NewService accepts a nil geocoder; searches are then unbiased.
func NewService(places PlaceFinder, geo Geocoder) *Service {
	return &Service{places: places, geo: geo}
}

// Generate fills every free template slot of each day. Slots that collide
// with an existing block, or whose search finds nothing, are left out.
func (s *Service) Generate(ctx context.Context, req Request) (Result, error) {
	if req.Days < 1 || req.Days > MaxDays {
		return Result{}, ErrBadDays
	}
	dest := strings.TrimSpace(req.Destination)
	if dest == "" {
		return Result{}, ErrBadDestination
	}
	start, err := plan.ParseDate(req.StartDate)
	if err != nil {
		return Result{}, err
	}

	pc := req.PlanContext
	bias := s.bias(ctx, dest, pc.TravelName)

	var lodging *maps.Place
	if req.Days > 1 {
		lodging = s.pickLodging(ctx, pc, start, dest, bias)
	}

	res := Result{TimeTables: []plan.Action{}, PlaceBlocks: []plan.Action{}}
	for d := 0; d < req.Days; d++ {
		date := start.AddDays(d)
		ttID := types.Pending(d + 1)
		if tt, ok := pc.TimeTableOn(date); ok && !tt.ID.IsZero() {
			ttID = tt.ID
		} else {
			res.TimeTables = append(res.TimeTables, plan.CreateTimeTable(plan.TimeTable{ID: ttID, Date: date}))
		}

		blocks := s.fillDay(ctx, dayPlan{
			number:   d + 1,
			date:     date,
			ttID:     ttID,
			dest:     dest,
			bias:     bias,
			lastDay:  d == req.Days-1,
			lodging:  lodging,
			existing: pc.BlocksOn(date),
		})
		for _, b := range blocks {
			res.PlaceBlocks = append(res.PlaceBlocks, plan.CreateBlock(b))
		}
	}
	return res, nil
}

type dayPlan struct {
	number   int
	date     plan.Date
	ttID     types.Identifier
	dest     string
	bias     *types.Point
	lastDay  bool
	lodging  *maps.Place
	existing []plan.PlaceBlock
}

func (s *Service) fillDay(ctx context.Context, day dayPlan) []plan.PlaceBlock {
	taken := plan.Intervals(day.existing)
	var out []plan.PlaceBlock
	for _, sl := range []slot{morningSlot, lunchSlot, dinnerSlot, lodgingSlot} {
		if sl.kind == slotLodging && (day.lastDay || day.lodging == nil) {
			continue
		}
		if sl.window.OverlapsAny(taken) {
			log.Printf("[AUTO_SCHEDULE] %s %s slot already occupied, skipping", day.date, sl.kind)
			continue
		}

		var p maps.Place
		if sl.kind == slotLodging {
			p = *day.lodging
		} else {
			q := slotQuery(sl.kind, day.dest, day.number)
			found, ok := s.places.Find(ctx, q, day.bias, day.number-1)
			if !ok {
				log.Printf("[AUTO_SCHEDULE] no place for %q, leaving %s %s empty", q, day.date, sl.kind)
				continue
			}
			p = found
		}
		out = append(out, search.NewBlock(p, sl.category, sl.window, day.ttID, day.date))
	}
	return out
}

// slotQuery alternates the dinner theme by day parity.
func slotQuery(k slotKind, dest string, dayNumber int) string {
	switch k {
	case slotMorning:
		return dest + " 관광지"
	case slotLunch:
		return dest + " 맛집"
	case slotDinner:
		if dayNumber%2 == 0 {
			return dest + " 회 맛집"
		}
		return dest + " 고기 맛집"
	}
	return dest + " 호텔"
}

// pickLodging reuses a day-one block in the lodging window, or searches once.
func (s *Service) pickLodging(ctx context.Context, pc plan.Context, first plan.Date, dest string, bias *types.Point) *maps.Place {
	for _, b := range pc.BlocksOn(first) {
		iv, ok := b.Interval()
		if !ok || !iv.Overlaps(lodgingSlot.window) {
			continue
		}
		log.Printf("[AUTO_SCHEDULE] reusing day-one lodging %q", b.PlaceName)
		return &maps.Place{
			Name:     b.PlaceName,
			Address:  b.PlaceAddress,
			Rating:   b.PlaceRating,
			PlaceID:  b.PlaceID,
			Location: types.Point{Lat: b.YLocation, Lng: b.XLocation},
			Link:     b.PlaceLink,
		}
	}
	p, ok := s.places.Find(ctx, slotQuery(slotLodging, dest, 1), bias, 0)
	if !ok {
		log.Printf("[AUTO_SCHEDULE] no lodging found near %s", dest)
		return nil
	}
	return &p
}

// bias geocodes the destination, then the plan's travel name. Failure means
// unbiased searches.
func (s *Service) bias(ctx context.Context, names ...string) *types.Point {
	if s.geo == nil {
		return nil
	}
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		pt, err := s.geo.Geocode(ctx, n)
		if err == nil {
			return &pt
		}
		log.Printf("[AUTO_SCHEDULE] geocode %q: %v", n, err)
	}
	return nil
}
