package recommendation

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cow-planmate/Ai/internal/ai"
	"github.com/cow-planmate/Ai/internal/weather"
)

// Forecaster is the weather collaborator.
type Forecaster interface {
	Forecast(ctx context.Context, city string, date time.Time) (weather.Forecast, error)
}

type Service struct {
	weather Forecaster
	llm     ai.LLMProvider
}

// NewService accepts a nil provider; recommendations are then rule-based.
func NewService(w Forecaster, llm ai.LLMProvider) *Service {
	return &Service{weather: w, llm: llm}
}

// Recommend fetches each trip day's weather and writes one outfit
// recommendation for the whole trip.
func (s *Service) Recommend(ctx context.Context, req Request) (Response, error) {
	start, err := time.Parse("2006-01-02", strings.TrimSpace(req.StartDate))
	if err != nil {
		return Response{}, fmt.Errorf("%w: 잘못된 날짜 형식입니다: %q. 'YYYY-MM-DD' 형식을 사용해야 합니다.", ErrBadRequest, req.StartDate)
	}
	end, err := time.Parse("2006-01-02", strings.TrimSpace(req.EndDate))
	if err != nil {
		return Response{}, fmt.Errorf("%w: 잘못된 날짜 형식입니다: %q. 'YYYY-MM-DD' 형식을 사용해야 합니다.", ErrBadRequest, req.EndDate)
	}
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 || days > MaxDays {
		return Response{}, fmt.Errorf("%w: 여행 기간은 1일에서 %d일 사이여야 합니다. (요청: %d일)", ErrBadRequest, MaxDays, days)
	}

	city := strings.TrimSpace(req.City)
	daily := make([]DailyWeather, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		dw, err := s.day(ctx, city, date)
		if err != nil {
			return Response{}, err
		}
		daily = append(daily, dw)
	}

	return Response{Weather: daily, Recommendation: s.recommend(ctx, city, req, daily)}, nil
}

func (s *Service) day(ctx context.Context, city string, date time.Time) (DailyWeather, error) {
	label := date.Format("2006-01-02")
	fc, err := s.weather.Forecast(ctx, city, date)
	if err != nil {
		if !weather.IsAlternative(err) {
			return DailyWeather{}, fmt.Errorf("%w: %s 날씨 정보를 가져올 수 없습니다: %v", ErrForecast, label, err)
		}
		temp, desc := seasonal(date.Month())
		return DailyWeather{Date: label, Description: desc, TempMin: temp, TempMax: temp, FeelsLike: temp}, nil
	}

	sum := fc.Summary
	desc := sum.Description
	if desc == "" {
		desc = "날씨 정보 없음"
	}
	return DailyWeather{
		Date:        label,
		Description: desc,
		TempMin:     sum.Temp - 3,
		TempMax:     sum.Temp + 3,
		FeelsLike:   sum.FeelsLike,
	}, nil
}

func (s *Service) recommend(ctx context.Context, city string, req Request, daily []DailyWeather) string {
	if s.llm != nil {
		resp, err := s.llm.Generate(ctx, ai.Request{Prompt: outfitPrompt(city, req, daily)})
		switch {
		case err != nil:
			log.Printf("[RECOMMEND] model call failed: %v", err)
		case strings.TrimSpace(resp.Text) != "":
			return strings.TrimSpace(resp.Text)
		}
	}
	if len(daily) == 0 {
		return msgGiveUp
	}
	first := daily[0]
	return ruleBased(conditions{
		Temp:        (first.TempMin + first.TempMax) / 2,
		Description: first.Description,
		Humidity:    60,
	})
}

func outfitPrompt(city string, req Request, daily []DailyWeather) string {
	var b strings.Builder
	b.WriteString("당신은 여행 패션 전문가입니다. 다음 여행 정보를 바탕으로 적절한 옷차림을 종합적으로 추천해주세요.\n\n")
	fmt.Fprintf(&b, "여행지: %s\n여행 기간: %s ~ %s\n날씨 예보:\n", city, req.StartDate, req.EndDate)
	for _, d := range daily {
		fmt.Fprintf(&b, "- %s: %s, 기온 %.1f°C ~ %.1f°C, 체감 %.1f°C\n", d.Date, d.Description, d.TempMin, d.TempMax, d.FeelsLike)
	}
	b.WriteString("\n종합 추천, 남성 옷차림, 여성 옷차림, 날짜별 팁, 필수 준비물 순서로 친근한 한국어로 답하고 마크다운 강조는 쓰지 마세요.\n")
	return b.String()
}
