package recommendation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cow-planmate/Ai/internal/ai"
	"github.com/cow-planmate/Ai/internal/weather"
)

type fakeForecaster struct {
	byDate map[string]weather.Summary
	errs   map[string]error
	calls  []string
}

func (f *fakeForecaster) Forecast(_ context.Context, city string, date time.Time) (weather.Forecast, error) {
	key := date.Format("2006-01-02")
	f.calls = append(f.calls, city+"@"+key)
	if err, ok := f.errs[key]; ok {
		return weather.Forecast{}, err
	}
	return weather.Forecast{Summary: f.byDate[key]}, nil
}

type fakeLLM struct {
	text   string
	err    error
	prompt string
}

func (f *fakeLLM) Generate(_ context.Context, req ai.Request) (*ai.Response, error) {
	f.prompt = req.Prompt
	if f.err != nil {
		return nil, f.err
	}
	return &ai.Response{Text: f.text}, nil
}

func TestRecommendWithModel(t *testing.T) {
	fc := &fakeForecaster{byDate: map[string]weather.Summary{
		"2025-11-21": {Temp: 10, FeelsLike: 8, Description: "맑음"},
		"2025-11-22": {Temp: 7, FeelsLike: 5, Description: "약한 비"},
	}}
	llm := &fakeLLM{text: "  따뜻하게 입으세요.  "}
	resp, err := NewService(fc, llm).Recommend(context.Background(), Request{City: "Seoul", StartDate: "2025-11-21", EndDate: "2025-11-22"})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if resp.Recommendation != "따뜻하게 입으세요." {
		t.Fatalf("unexpected recommendation %q", resp.Recommendation)
	}
	if len(resp.Weather) != 2 {
		t.Fatalf("expected 2 days, got %d", len(resp.Weather))
	}
	d := resp.Weather[1]
	if d.Date != "2025-11-22" || d.TempMin != 4 || d.TempMax != 10 || d.FeelsLike != 5 || d.Description != "약한 비" {
		t.Fatalf("unexpected day %+v", d)
	}
	if !strings.Contains(llm.prompt, "- 2025-11-22: 약한 비, 기온 4.0°C ~ 10.0°C, 체감 5.0°C") {
		t.Fatalf("prompt missing weather line:\n%s", llm.prompt)
	}
}

func TestRecommendSeasonalSubstitute(t *testing.T) {
	fc := &fakeForecaster{errs: map[string]error{
		"2026-07-10": &weather.ForecastError{Reason: "too far", Alternative: true},
		"2026-01-10": &weather.ForecastError{Reason: "too far", Alternative: true},
	}}
	svc := NewService(fc, nil)

	resp, err := svc.Recommend(context.Background(), Request{City: "Busan", StartDate: "2026-07-10", EndDate: "2026-07-10"})
	if err != nil {
		t.Fatal(err)
	}
	d := resp.Weather[0]
	if d.TempMin != 28 || d.TempMax != 28 || d.Description != "더운 여름 날씨" {
		t.Fatalf("unexpected summer default %+v", d)
	}
	if !strings.HasPrefix(resp.Recommendation, "👔 추천 옷차림:\n반팔 티셔츠와 반바지") {
		t.Fatalf("expected hot-weather rules, got %q", resp.Recommendation)
	}

	resp, err = svc.Recommend(context.Background(), Request{City: "Busan", StartDate: "2026-01-10", EndDate: "2026-01-10"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Weather[0].TempMin != 5 || resp.Weather[0].Description != "추운 겨울 날씨" {
		t.Fatalf("unexpected winter default %+v", resp.Weather[0])
	}
}

func TestRecommendHardForecastError(t *testing.T) {
	fc := &fakeForecaster{errs: map[string]error{
		"2025-11-22": &weather.ForecastError{Reason: "도시를 찾을 수 없습니다: Atlantis"},
	}}
	_, err := NewService(fc, nil).Recommend(context.Background(), Request{City: "Atlantis", StartDate: "2025-11-21", EndDate: "2025-11-23"})
	if !errors.Is(err, ErrForecast) {
		t.Fatalf("expected ErrForecast, got %v", err)
	}
	if !strings.Contains(err.Error(), "2025-11-22 날씨 정보를 가져올 수 없습니다") {
		t.Fatalf("error should name the date: %v", err)
	}
	if len(fc.calls) != 2 {
		t.Fatalf("should stop at the failing day, made %d calls", len(fc.calls))
	}
}

func TestRecommendValidation(t *testing.T) {
	svc := NewService(&fakeForecaster{}, nil)
	tests := []Request{
		{City: "Seoul", StartDate: "2025/11/21", EndDate: "2025-11-22"},
		{City: "Seoul", StartDate: "2025-11-21", EndDate: ""},
		{City: "Seoul", StartDate: "2025-11-22", EndDate: "2025-11-21"},
		{City: "Seoul", StartDate: "2025-11-01", EndDate: "2025-11-17"},
	}
	for _, req := range tests {
		if _, err := svc.Recommend(context.Background(), req); !errors.Is(err, ErrBadRequest) {
			t.Errorf("%+v: expected ErrBadRequest, got %v", req, err)
		}
	}
	if _, err := svc.Recommend(context.Background(), Request{City: "Seoul", StartDate: "2025-11-01", EndDate: "2025-11-16"}); err != nil {
		t.Fatalf("16 days should be accepted: %v", err)
	}
}

func TestRecommendFallsBackOnModelError(t *testing.T) {
	fc := &fakeForecaster{byDate: map[string]weather.Summary{"2025-11-21": {Temp: 15, FeelsLike: 14, Description: "light rain"}}}
	resp, err := NewService(fc, &fakeLLM{err: errors.New("quota")}).Recommend(context.Background(), Request{City: "Seoul", StartDate: "2025-11-21", EndDate: "2025-11-21"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resp.Recommendation, "니트나 맨투맨에 자켓") || !strings.Contains(resp.Recommendation, "우산") {
		t.Fatalf("expected rule-based rainy recommendation, got %q", resp.Recommendation)
	}
}

func TestRuleBased(t *testing.T) {
	tests := []struct {
		name string
		in   conditions
		want []string
	}{
		{"hot", conditions{Temp: 30}, []string{"반팔 티셔츠와 반바지", "물병"}},
		{"band boundary", conditions{Temp: 23}, []string{"반팔 티셔츠와 청바지"}},
		{"mild", conditions{Temp: 20.5}, []string{"긴팔 티셔츠, 얇은 니트"}},
		{"cool", conditions{Temp: 17}, []string{"가디건 또는 자켓"}},
		{"cold", conditions{Temp: 5}, []string{"두꺼운 코트"}},
		{"freezing", conditions{Temp: -3}, []string{"패딩과 방한 장비", "핫팩"}},
		{"snow", conditions{Temp: -3, Description: "Snow"}, []string{"미끄럼 방지 신발을 신으세요"}},
		{"humid", conditions{Temp: 25, Humidity: 80}, []string{"통풍이 잘 되는 옷"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ruleBased(tt.in)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Fatalf("missing %q in:\n%s", w, got)
				}
			}
			if !strings.Contains(got, "\n\n🎒 필수 준비물:\n") || !strings.Contains(got, "\n\n💡 여행 팁:\n") {
				t.Fatalf("unexpected layout:\n%s", got)
			}
		})
	}

	if strings.Contains(ruleBased(conditions{Temp: 25, Humidity: 79}), "통풍") {
		t.Fatal("humidity advice starts at 80")
	}
}
