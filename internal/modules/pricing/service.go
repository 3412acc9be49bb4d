// README: Pricing service groups blocks by day and totals meal and lodging estimates.
package pricing

import (
	"context"
	"log"
	"sort"

	"github.com/samber/lo"

	"github.com/cow-planmate/Ai/internal/modules/plan"
	"github.com/cow-planmate/Ai/internal/types"
)

type Service struct {
	estimator Estimator
}

func NewService(e Estimator) *Service {
	return &Service{estimator: e}
}

// Estimate prices every dining and lodging block. Days are ordered by date
// and include days with no priced blocks; blocks whose TimeTable is unknown
// are logged and skipped.
func (s *Service) Estimate(ctx context.Context, req Request) (Response, error) {
	if req.Headcount < 1 {
		return Response{}, ErrBadHeadcount
	}
	headcount := int64(req.Headcount)

	dateOf := make(map[types.Identifier]plan.Date, len(req.TimeTables))
	for _, tt := range req.TimeTables {
		dateOf[tt.ID] = tt.Date
	}
	dates := lo.Uniq(lo.Map(req.TimeTables, func(tt TimeTable, _ int) plan.Date { return tt.Date }))
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })

	byDate := map[plan.Date][]Block{}
	for _, b := range req.PlaceBlocks {
		d, ok := dateOf[b.TimeTableID]
		if !ok {
			log.Printf("[PRICE] block %s has unknown timeTableId %s", b.BlockID, b.TimeTableID)
			continue
		}
		byDate[d] = append(byDate[d], b)
	}

	resp := Response{DailyCosts: make([]DailyCost, 0, len(dates))}
	trip := &resp.TripSummary
	for i, d := range dates {
		day := DailyCost{
			Date:                 string(d),
			DayNumber:            i + 1,
			FoodDetails:          []FoodCost{},
			AccommodationDetails: []LodgingCost{},
		}
		for _, b := range byDate[d] {
			p := Place{Name: b.PlaceName, Address: b.PlaceAddress, Rating: b.PlaceRating, Category: b.PlaceCategory}
			switch b.PlaceCategory {
			case plan.Dining:
				m := s.estimator.EstimateMeal(ctx, p)
				total := m.PricePerPerson * headcount
				day.FoodDetails = append(day.FoodDetails, FoodCost{
					PlaceName:      b.PlaceName,
					PricePerPerson: m.PricePerPerson,
					TotalPrice:     total,
					MenuExamples:   m.MenuExamples,
				})
				day.DailyTotalFood += total
			case plan.Lodging:
				r := s.estimator.EstimateRoom(ctx, p, req.Headcount)
				day.AccommodationDetails = append(day.AccommodationDetails, LodgingCost{
					PlaceName:      b.PlaceName,
					RoomType:       r.RoomType,
					PriceRange:     Range{Min: r.Min, Max: r.Max},
					PricePerPerson: Range{Min: r.Min / headcount, Max: r.Max / headcount},
				})
				day.DailyTotalAccommodationMin += r.Min
				day.DailyTotalAccommodationMax += r.Max
			}
		}
		day.DailyTotalMin = day.DailyTotalFood + day.DailyTotalAccommodationMin
		day.DailyTotalMax = day.DailyTotalFood + day.DailyTotalAccommodationMax
		resp.DailyCosts = append(resp.DailyCosts, day)

		trip.TotalFoodCost += day.DailyTotalFood
		trip.TotalAccommodationMin += day.DailyTotalAccommodationMin
		trip.TotalAccommodationMax += day.DailyTotalAccommodationMax
	}

	trip.GroupTotalCost = Range{
		Min: trip.TotalFoodCost + trip.TotalAccommodationMin,
		Max: trip.TotalFoodCost + trip.TotalAccommodationMax,
	}
	trip.PerPersonCost = Range{
		Min: trip.GroupTotalCost.Min / headcount,
		Max: trip.GroupTotalCost.Max / headcount,
	}
	return resp, nil
}
