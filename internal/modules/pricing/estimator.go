package pricing

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/cow-planmate/Ai/internal/ai"
	"github.com/cow-planmate/Ai/internal/cache"
)

// Estimator prices single places. Implementations fall back to fixed prices
// instead of failing.
type Estimator interface {
	EstimateMeal(ctx context.Context, p Place) MealEstimate
	EstimateRoom(ctx context.Context, p Place, headcount int) RoomEstimate
}

// LLMEstimator asks the model for a JSON guess and caches answers it could use.
type LLMEstimator struct {
	llm   ai.LLMProvider
	cache cache.Cache
}

// NewLLMEstimator accepts a nil provider (every estimate is then the
// fallback) and a nil cache.
func NewLLMEstimator(llm ai.LLMProvider, c cache.Cache) *LLMEstimator {
	if c == nil {
		c = cache.Noop{}
	}
	return &LLMEstimator{llm: llm, cache: c}
}

type mealAnswer struct {
	EstimatedPrice float64  `json:"estimatedPrice"`
	MenuExamples   []string `json:"menuExamples"`
}

type roomType struct {
	Type       string    `json:"type"`
	PriceRange []float64 `json:"priceRange"`
}

type roomAnswer struct {
	Recommended string     `json:"recommendedRoomTypeForHeadcount"`
	RoomTypes   []roomType `json:"roomTypes"`
}

func mealKey(p Place) string {
	return cache.Key("price", p.Name, p.Address, strconv.Itoa(int(p.Category)))
}

func roomKey(p Place, headcount int) string {
	return cache.Key("price", p.Name, p.Address, strconv.Itoa(int(p.Category)), strconv.Itoa(headcount))
}

func (e *LLMEstimator) EstimateMeal(ctx context.Context, p Place) MealEstimate {
	key := mealKey(p)
	var cached MealEstimate
	if cache.GetJSON(ctx, e.cache, key, &cached) {
		return cached
	}

	fallback := MealEstimate{PricePerPerson: FallbackMealPrice, MenuExamples: []string{}}
	var ans mealAnswer
	prompt := fmt.Sprintf("식당명: %s, 주소: %s, 평점: %.1f\n위 정보를 바탕으로 1인당 예상 식사 비용을 추론해.\n"+
		`반드시 JSON만 출력: {"estimatedPrice": 숫자, "menuExamples": ["메뉴1"]}`, p.Name, p.Address, p.Rating)
	if !e.ask(ctx, prompt, &ans) || ans.EstimatedPrice <= 0 {
		return fallback
	}

	est := MealEstimate{
		PricePerPerson: int64(math.Round(ans.EstimatedPrice)),
		MenuExamples:   lo.Compact(ans.MenuExamples),
	}
	if est.MenuExamples == nil {
		est.MenuExamples = []string{}
	}
	cache.SetJSON(ctx, e.cache, key, est)
	return est
}

func (e *LLMEstimator) EstimateRoom(ctx context.Context, p Place, headcount int) RoomEstimate {
	key := roomKey(p, headcount)
	var cached RoomEstimate
	if cache.GetJSON(ctx, e.cache, key, &cached) {
		return cached
	}

	fallback := RoomEstimate{RoomType: FallbackRoomType, Min: FallbackRoomMin, Max: FallbackRoomMax}
	var ans roomAnswer
	prompt := fmt.Sprintf("숙소명: %s, 주소: %s, 평점: %.1f, 인원: %d\n위 정보를 바탕으로 적절한 객실과 가격 범위를 추론해.\n"+
		`반드시 JSON만 출력: {"recommendedRoomTypeForHeadcount": "타입명", "roomTypes": [{"type": "타입명", "priceRange": [최소, 최대]}]}`,
		p.Name, p.Address, p.Rating, headcount)
	if !e.ask(ctx, prompt, &ans) {
		return fallback
	}

	usable := lo.Filter(ans.RoomTypes, func(r roomType, _ int) bool {
		return len(r.PriceRange) >= 2 && r.PriceRange[0] > 0 && r.PriceRange[1] >= r.PriceRange[0]
	})
	if len(usable) == 0 {
		return fallback
	}
	pick, ok := lo.Find(usable, func(r roomType) bool {
		return r.Type == ans.Recommended
	})
	if !ok {
		pick = usable[0]
	}

	est := RoomEstimate{
		RoomType: pick.Type,
		Min:      int64(math.Round(pick.PriceRange[0])),
		Max:      int64(math.Round(pick.PriceRange[1])),
	}
	if strings.TrimSpace(est.RoomType) == "" {
		est.RoomType = FallbackRoomType
	}
	cache.SetJSON(ctx, e.cache, key, est)
	return est
}

// ask runs one JSON-mode call and decodes the reply into dst.
func (e *LLMEstimator) ask(ctx context.Context, prompt string, dst any) bool {
	if e.llm == nil {
		return false
	}
	resp, err := e.llm.Generate(ctx, ai.Request{Prompt: prompt, JSON: true})
	if err != nil {
		log.Printf("[PRICE] model call failed: %v", err)
		return false
	}
	if err := ai.DecodeInto(resp.Text, dst); err != nil {
		log.Printf("[PRICE] unusable model answer %q: %v", resp.Text, err)
		return false
	}
	return true
}
