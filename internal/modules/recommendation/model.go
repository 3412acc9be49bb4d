// README: Weather-based outfit recommendation request/response types.
package recommendation

import "errors"

var (
	// ErrBadRequest covers malformed dates and out-of-range trip lengths.
	ErrBadRequest = errors.New("recommendation: bad request")
	// ErrForecast is a forecast failure with no seasonal substitute.
	ErrForecast = errors.New("recommendation: forecast unavailable")
)

// MaxDays bounds the trip length.
const MaxDays = 16

const msgGiveUp = "날씨 정보가 복잡하여 AI 추천 생성에 실패했습니다. 기본 옷차림을 준비해주세요."

type Request struct {
	City      string `json:"city"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// DailyWeather is the per-day weather line shown next to the recommendation.
type DailyWeather struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	TempMin     float64 `json:"temp_min"`
	TempMax     float64 `json:"temp_max"`
	FeelsLike   float64 `json:"feels_like"`
}

type Response struct {
	Weather        []DailyWeather `json:"weather"`
	Recommendation string         `json:"recommendation"`
}
