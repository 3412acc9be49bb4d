// README: Trip cost estimation request/response types and fallback prices.
package pricing

import (
	"encoding/json"
	"errors"

	"github.com/cow-planmate/Ai/internal/modules/plan"
	"github.com/cow-planmate/Ai/internal/types"
)

var ErrBadHeadcount = errors.New("pricing: headcount must be at least 1")

// Fallbacks used whenever the estimator has no usable answer.
const (
	FallbackMealPrice   int64 = 15000
	FallbackRoomMin     int64 = 50000
	FallbackRoomMax     int64 = 100000
	FallbackRoomType          = "기본 객실"
)

// Place is the part of a block the estimator looks at.
type Place struct {
	Name     string
	Address  string
	Rating   float64
	Category plan.Category
}

type MealEstimate struct {
	PricePerPerson int64
	MenuExamples   []string
}

type RoomEstimate struct {
	RoomType string
	Min      int64
	Max      int64
}

// TimeTable maps a day id to its date. Both "timetableId" and "timeTableId"
// are accepted.
type TimeTable struct {
	ID   types.Identifier
	Date plan.Date
}

func (t *TimeTable) UnmarshalJSON(data []byte) error {
	var raw struct {
		Lower *types.Identifier `json:"timetableId"`
		Upper *types.Identifier `json:"timeTableId"`
		Date  plan.Date         `json:"date"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.Date = raw.Date
	switch {
	case raw.Lower != nil:
		t.ID = *raw.Lower
	case raw.Upper != nil:
		t.ID = *raw.Upper
	}
	return nil
}

type Block struct {
	TimeTableID   types.Identifier `json:"timeTableId"`
	BlockID       types.Identifier `json:"blockId"`
	PlaceName     string           `json:"placeName"`
	PlaceAddress  string           `json:"placeAddress"`
	PlaceRating   float64          `json:"placeRating"`
	PlaceCategory plan.Category    `json:"placeCategory"`
}

type Request struct {
	Headcount   int         `json:"headcount"`
	TimeTables  []TimeTable `json:"timeTables"`
	PlaceBlocks []Block     `json:"placeBlocks"`
}

type Range struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

type FoodCost struct {
	PlaceName      string   `json:"placeName"`
	PricePerPerson int64    `json:"pricePerPerson"`
	TotalPrice     int64    `json:"totalPrice"`
	MenuExamples   []string `json:"menuExamples"`
}

type LodgingCost struct {
	PlaceName      string `json:"placeName"`
	RoomType       string `json:"roomType"`
	PriceRange     Range  `json:"priceRange"`
	PricePerPerson Range  `json:"pricePerPerson"`
}

type DailyCost struct {
	Date                       string        `json:"date"`
	DayNumber                  int           `json:"dayNumber"`
	FoodDetails                []FoodCost    `json:"foodDetails"`
	AccommodationDetails       []LodgingCost `json:"accommodationDetails"`
	DailyTotalFood             int64         `json:"dailyTotalFood"`
	DailyTotalAccommodationMin int64         `json:"dailyTotalAccommodationMin"`
	DailyTotalAccommodationMax int64         `json:"dailyTotalAccommodationMax"`
	DailyTotalMin              int64         `json:"dailyTotalMin"`
	DailyTotalMax              int64         `json:"dailyTotalMax"`
}

type TripSummary struct {
	TotalFoodCost         int64 `json:"totalFoodCost"`
	TotalAccommodationMin int64 `json:"totalAccommodationMin"`
	TotalAccommodationMax int64 `json:"totalAccommodationMax"`
	PerPersonCost         Range `json:"perPersonCost"`
	GroupTotalCost        Range `json:"groupTotalCost"`
}

type Response struct {
	DailyCosts  []DailyCost `json:"dailyCosts"`
	TripSummary TripSummary `json:"tripSummary"`
}
