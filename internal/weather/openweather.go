// README: OpenWeatherMap 5-day forecast client reduced to one summary per day.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org"
	// MaxDaysAhead is the furthest day the free forecast covers.
	MaxDaysAhead = 4
)

// ForecastError is a forecast failure. Alternative marks failures where
// seasonal estimates are an acceptable substitute.
type ForecastError struct {
	Reason      string
	Alternative bool
}

func (e *ForecastError) Error() string { return e.Reason }

// IsAlternative reports whether err allows a seasonal substitute.
func IsAlternative(err error) bool {
	var fe *ForecastError
	return errors.As(err, &fe) && fe.Alternative
}

// Entry is one 3-hourly forecast point.
type Entry struct {
	Time        time.Time
	Temp        float64
	FeelsLike   float64
	Description string
	Humidity    int
	WindSpeed   float64
}

// Summary condenses a day's entries.
type Summary struct {
	Temp        float64
	FeelsLike   float64
	Humidity    int
	Description string
	WindSpeed   float64
}

type Forecast struct {
	Entries []Entry
	Summary Summary
}

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	now     func() time.Time
}

type Option func(*Client)

// WithBaseURL points the client at another host, e.g. an httptest server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithClock fixes "today" for the forecast window check.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type apiResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	} `json:"list"`
	City struct {
		Timezone int `json:"timezone"`
	} `json:"city"`
}

// Forecast returns the forecast for city on the calendar day of date.
func (c *Client) Forecast(ctx context.Context, city string, date time.Time) (Forecast, error) {
	today := truncateDay(c.now())
	target := truncateDay(date)
	diff := int(target.Sub(today).Hours() / 24)
	if diff < 0 {
		return Forecast{}, &ForecastError{Reason: "과거 날짜의 날씨는 조회할 수 없습니다."}
	}
	if diff > MaxDaysAhead {
		return Forecast{}, &ForecastError{Reason: "무료 API는 5일 이내 예보만 제공합니다.", Alternative: true}
	}
	if c.apiKey == "" {
		return Forecast{}, &ForecastError{Reason: "OPENWEATHER_API_KEY가 설정되지 않았습니다."}
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	q.Set("lang", "kr")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/data/2.5/forecast?"+q.Encode(), nil)
	if err != nil {
		return Forecast{}, fmt.Errorf("weather: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Forecast{}, &ForecastError{Reason: fmt.Sprintf("날씨 정보 가져오기 실패: %v", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Forecast{}, &ForecastError{Reason: "도시를 찾을 수 없습니다: " + city}
	case resp.StatusCode != http.StatusOK:
		return Forecast{}, &ForecastError{Reason: fmt.Sprintf("API 오류: %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Forecast{}, &ForecastError{Reason: fmt.Sprintf("날씨 정보 가져오기 실패: %v", err)}
	}
	var data apiResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return Forecast{}, &ForecastError{Reason: fmt.Sprintf("날씨 정보 가져오기 실패: %v", err)}
	}

	zone := time.FixedZone("", data.City.Timezone)
	want := target.Format("2006-01-02")
	var entries []Entry
	for _, item := range data.List {
		at := time.Unix(item.Dt, 0).In(zone)
		if at.Format("2006-01-02") != want {
			continue
		}
		e := Entry{
			Time:      at,
			Temp:      math.Round(item.Main.Temp),
			FeelsLike: math.Round(item.Main.FeelsLike),
			Humidity:  item.Main.Humidity,
			WindSpeed: item.Wind.Speed,
		}
		if len(item.Weather) > 0 {
			e.Description = item.Weather[0].Description
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return Forecast{}, &ForecastError{Reason: "해당 날짜의 예보를 찾을 수 없습니다."}
	}
	return Forecast{Entries: entries, Summary: summarize(entries)}, nil
}

// summarize averages temperatures and humidity, picks the most frequent
// description (the first to reach the top count wins a tie) and takes the
// first entry's wind.
func summarize(entries []Entry) Summary {
	var temp, feels float64
	var humidity int
	counts := map[string]int{}
	best, bestN := "", 0
	for _, e := range entries {
		temp += e.Temp
		feels += e.FeelsLike
		humidity += e.Humidity
		counts[e.Description]++
		if n := counts[e.Description]; n > bestN {
			best, bestN = e.Description, n
		}
	}
	n := float64(len(entries))
	return Summary{
		Temp:        math.Round(temp / n),
		FeelsLike:   math.Round(feels / n),
		Humidity:    int(math.Round(float64(humidity) / n)),
		Description: best,
		WindSpeed:   entries[0].WindSpeed,
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
