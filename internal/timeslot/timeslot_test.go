// README: Tests for wall-clock parsing, overlap and free-slot search.
package timeslot

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"hh:mm:ss", "09:30:15", "09:30:15"},
		{"hh:mm", "18:05", "18:05:00"},
		{"two parts", []any{float64(10), float64(0)}, "10:00:00"},
		{"three parts", []any{float64(10), float64(0), float64(30)}, "10:00:30"},
		{"nanos ignored", []any{float64(23), float64(59), float64(0), float64(999)}, "23:59:00"},
		{"int slice", []int{7, 45}, "07:45:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%v) error: %v", tt.in, err)
			}
			if got.String() != tt.want {
				t.Fatalf("Parse(%v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	bad := []any{"", "9 o'clock", "25:00", []any{float64(9)}, []any{"9", "00"}, []any{float64(9), float64(61)}, 930, nil, []any{1.0, 2.0, 3.0, 4.0, 5.0}}
	for _, v := range bad {
		_, err := Parse(v)
		if err == nil {
			t.Fatalf("Parse(%v) expected error", v)
		}
		if !strings.Contains(err.Error(), "type") {
			t.Fatalf("error should name the value type, got %q", err)
		}
		if !errors.Is(err, ErrBadTime) {
			t.Fatalf("error should wrap ErrBadTime, got %v", err)
		}
	}
}

func TestClockJSON(t *testing.T) {
	var payload struct {
		Start Clock `json:"start"`
		End   Clock `json:"end"`
		None  Clock `json:"none"`
	}
	if err := json.Unmarshal([]byte(`{"start":[9,0],"end":"10:30","none":null}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Start != At(9, 0, 0) || payload.End != At(10, 30, 0) || !payload.None.IsZero() {
		t.Fatalf("unexpected decode: %+v", payload)
	}
	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"start":"09:00:00","end":"10:30:00","none":null}` {
		t.Fatalf("unexpected encode: %s", out)
	}

	if err := json.Unmarshal([]byte(`{"start":"noon"}`), &payload); err == nil {
		t.Fatal("expected error for malformed time")
	}
}

func TestClockAddSaturates(t *testing.T) {
	got := At(23, 0, 0).Add(2 * time.Hour)
	if got.String() != "23:59:59" {
		t.Fatalf("got %s", got)
	}
}

func TestOverlaps(t *testing.T) {
	morning := Interval{At(9, 0, 0), At(11, 0, 0)}
	tests := []struct {
		name  string
		other Interval
		want  bool
	}{
		{"touching end", Interval{At(11, 0, 0), At(12, 0, 0)}, false},
		{"touching start", Interval{At(8, 0, 0), At(9, 0, 0)}, false},
		{"partial", Interval{At(10, 30, 0), At(12, 0, 0)}, true},
		{"inside", Interval{At(9, 30, 0), At(10, 15, 0)}, true},
		{"covering", Interval{At(8, 0, 0), At(12, 0, 0)}, true},
		{"disjoint", Interval{At(18, 0, 0), At(20, 0, 0)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := morning.Overlaps(tt.other); got != tt.want {
				t.Fatalf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := tt.other.Overlaps(morning); got != tt.want {
				t.Fatalf("Overlaps not symmetric")
			}
		})
	}
}

func TestFindFreeSlot(t *testing.T) {
	tests := []struct {
		name     string
		existing []Interval
		d        time.Duration
		want     Interval
	}{
		{
			name: "empty day",
			d:    90 * time.Minute,
			want: Interval{At(9, 0, 0), At(10, 30, 0)},
		},
		{
			name:     "after morning block",
			existing: []Interval{{At(9, 0, 0), At(10, 30, 0)}},
			d:        90 * time.Minute,
			want:     Interval{At(10, 30, 0), At(12, 0, 0)},
		},
		{
			name: "gap between blocks, unsorted input",
			existing: []Interval{
				{At(14, 0, 0), At(16, 0, 0)},
				{At(9, 0, 0), At(12, 0, 0)},
			},
			d:    2 * time.Hour,
			want: Interval{At(12, 0, 0), At(14, 0, 0)},
		},
		{
			name:     "gap too small",
			existing: []Interval{{At(9, 0, 0), At(10, 0, 0)}, {At(11, 0, 0), At(12, 0, 0)}},
			d:        90 * time.Minute,
			want:     Interval{At(12, 0, 0), At(13, 30, 0)},
		},
		{
			name:     "full day falls back",
			existing: []Interval{{At(9, 0, 0), At(20, 0, 0)}},
			d:        90 * time.Minute,
			want:     Interval{FallbackStart, FallbackEnd},
		},
		{
			name:     "gap past day end falls back",
			existing: []Interval{{At(9, 0, 0), At(20, 0, 0)}, {At(22, 0, 0), At(23, 0, 0)}},
			d:        90 * time.Minute,
			want:     Interval{FallbackStart, FallbackEnd},
		},
		{
			name:     "gap ending exactly at day end",
			existing: []Interval{{At(9, 0, 0), At(19, 30, 0)}, {At(21, 0, 0), At(22, 0, 0)}},
			d:        90 * time.Minute,
			want:     Interval{At(19, 30, 0), At(21, 0, 0)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindFreeSlot(tt.existing, DayStart, DayEnd, tt.d)
			if got != tt.want {
				t.Fatalf("FindFreeSlot = %s-%s, want %s-%s", got.Start, got.End, tt.want.Start, tt.want.End)
			}
		})
	}
}
