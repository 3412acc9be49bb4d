// README: Plan snapshot types shared by chat, search, scheduling and pricing.
package plan

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cow-planmate/Ai/internal/timeslot"
	"github.com/cow-planmate/Ai/internal/types"
)

var (
	ErrBadDate    = errors.New("plan: malformed date")
	ErrUnresolved = errors.New("plan: pending timetable has no persisted match")
)

// Category classifies a place block.
type Category int

const (
	Sightseeing Category = 0
	Lodging     Category = 1
	Dining      Category = 2
)

func (c Category) String() string {
	switch c {
	case Lodging:
		return "lodging"
	case Dining:
		return "dining"
	}
	return "sightseeing"
}

const dateLayout = "2006-01-02"

// Date is a calendar day in canonical "YYYY-MM-DD" form. The backend sends
// either that string or a [Y, M, D] array; both decode to the same value.
type Date string

func DateOf(t time.Time) Date { return Date(t.Format(dateLayout)) }

// ParseDate canonicalizes a string or [Y, M, D] sequence.
func ParseDate(v any) (Date, error) {
	switch d := v.(type) {
	case Date:
		return ParseDate(string(d))
	case string:
		s := d
		if len(s) > len(dateLayout) && s[len(dateLayout)] == 'T' {
			s = s[:len(dateLayout)]
		}
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrBadDate, d)
		}
		return DateOf(t), nil
	case []any:
		if len(d) < 3 {
			break
		}
		var ymd [3]int
		for i := 0; i < 3; i++ {
			f, ok := d[i].(float64)
			if !ok || f != math.Trunc(f) {
				return "", fmt.Errorf("%w: %v", ErrBadDate, v)
			}
			ymd[i] = int(f)
		}
		t := time.Date(ymd[0], time.Month(ymd[1]), ymd[2], 0, 0, 0, 0, time.UTC)
		if t.Year() != ymd[0] || int(t.Month()) != ymd[1] || t.Day() != ymd[2] {
			return "", fmt.Errorf("%w: %v", ErrBadDate, v)
		}
		return DateOf(t), nil
	}
	return "", fmt.Errorf("%w: %v (type %T)", ErrBadDate, v, v)
}

func (d Date) Time() (time.Time, error) {
	return time.Parse(dateLayout, string(d))
}

func (d Date) AddDays(n int) Date {
	t, err := d.Time()
	if err != nil {
		return d
	}
	return DateOf(t.AddDate(0, 0, n))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = ""
		return nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if s, ok := raw.(string); ok && s == "" {
		*d = ""
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// TimeTable is one calendar day of a plan.
type TimeTable struct {
	ID   types.Identifier `json:"timeTableId"`
	Date Date             `json:"date"`
}

// PlaceBlock is one scheduled visit. Times carry no date; Date is optional and
// falls back to the owning TimeTable's date.
type PlaceBlock struct {
	BlockID      types.Identifier `json:"blockId"`
	PlaceName    string           `json:"placeName"`
	PlaceTheme   string           `json:"placeTheme"`
	PlaceRating  float64          `json:"placeRating"`
	PlaceAddress string           `json:"placeAddress"`
	PlaceLink    string           `json:"placeLink"`
	StartTime    timeslot.Clock   `json:"blockStartTime"`
	EndTime      timeslot.Clock   `json:"blockEndTime"`
	XLocation    float64          `json:"xLocation"`
	YLocation    float64          `json:"yLocation"`
	PlaceID      string           `json:"placeId"`
	Category     Category         `json:"placeCategoryId"`
	TimeTableID  types.Identifier `json:"timeTableId"`
	Date         Date             `json:"date,omitempty"`
}

// Interval reports the block's time range; ok is false when either end is unset.
func (b PlaceBlock) Interval() (timeslot.Interval, bool) {
	if b.StartTime.IsZero() || b.EndTime.IsZero() {
		return timeslot.Interval{}, false
	}
	return timeslot.Interval{Start: b.StartTime, End: b.EndTime}, true
}

// Payload renders the block as an action target mapping.
func (b PlaceBlock) Payload() map[string]any {
	m := map[string]any{
		"blockId":         b.BlockID.Wire(),
		"placeName":       b.PlaceName,
		"placeTheme":      b.PlaceTheme,
		"placeRating":     b.PlaceRating,
		"placeAddress":    b.PlaceAddress,
		"placeLink":       b.PlaceLink,
		"blockStartTime":  b.StartTime.String(),
		"blockEndTime":    b.EndTime.String(),
		"xLocation":       b.XLocation,
		"yLocation":       b.YLocation,
		"placeId":         b.PlaceID,
		"placeCategoryId": int(b.Category),
		"timeTableId":     b.TimeTableID.Wire(),
	}
	if b.Date != "" {
		m["date"] = string(b.Date)
	}
	return m
}

// Intervals collects the time ranges of blocks that have both ends set.
func Intervals(blocks []PlaceBlock) []timeslot.Interval {
	out := make([]timeslot.Interval, 0, len(blocks))
	for _, b := range blocks {
		if iv, ok := b.Interval(); ok {
			out = append(out, iv)
		}
	}
	return out
}
