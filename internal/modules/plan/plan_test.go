package plan

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/cow-planmate/Ai/internal/timeslot"
	"github.com/cow-planmate/Ai/internal/types"
)

const samplePlan = `{
  "TravelName": "서울",
  "TimeTables": [
    {"timeTableId": 144, "date": "2025-11-22"},
    {"timeTableId": 153, "date": [2025, 11, 23]}
  ],
  "TimeTablePlaceBlocks": [
    {"blockId": 1, "placeName": "경복궁", "blockStartTime": [9, 30], "blockEndTime": "10:15:00", "timeTableId": 144, "date": [2025, 11, 22], "placeCategoryId": 0},
    {"blockId": 2, "placeName": "호텔", "blockStartTime": "21:00:00", "blockEndTime": "23:59:00", "timeTableId": 153, "placeCategoryId": 1}
  ]
}`

func TestContextDecode(t *testing.T) {
	var c Context
	if err := json.Unmarshal([]byte(samplePlan), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.TravelName != "서울" || len(c.TimeTables) != 2 || len(c.Blocks) != 2 {
		t.Fatalf("unexpected context: %+v", c)
	}
	if c.TimeTables[1].Date != "2025-11-23" {
		t.Fatalf("array date not canonicalized: %q", c.TimeTables[1].Date)
	}
	if c.Blocks[0].StartTime != timeslot.At(9, 30, 0) {
		t.Fatalf("array time not parsed: %s", c.Blocks[0].StartTime)
	}
	if c.Blocks[1].Category != Lodging {
		t.Fatalf("category = %v", c.Blocks[1].Category)
	}
}

func TestContextDecodeFromString(t *testing.T) {
	wrapped, _ := json.Marshal(samplePlan)
	var c Context
	if err := json.Unmarshal(wrapped, &c); err != nil {
		t.Fatalf("unmarshal string form: %v", err)
	}
	if len(c.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(c.Blocks))
	}
	if !strings.Contains(c.Snapshot(), "경복궁") {
		t.Fatalf("snapshot should echo the caller's plan: %s", c.Snapshot())
	}
}

func TestContextDecodeRejectsBadTime(t *testing.T) {
	var c Context
	err := json.Unmarshal([]byte(`{"TimeTablePlaceBlocks":[{"blockStartTime":"half past nine"}]}`), &c)
	if err == nil || !strings.Contains(err.Error(), "half past nine") {
		t.Fatalf("expected descriptive error, got %v", err)
	}
}

func TestBlocksOn(t *testing.T) {
	var c Context
	if err := json.Unmarshal([]byte(samplePlan), &c); err != nil {
		t.Fatal(err)
	}
	if got := c.BlocksOn("2025-11-22"); len(got) != 1 || got[0].PlaceName != "경복궁" {
		t.Fatalf("BlocksOn day1 = %+v", got)
	}
	// Second block has no date of its own; it is matched through timetable 153.
	if got := c.BlocksOn("2025-11-23"); len(got) != 1 || got[0].PlaceName != "호텔" {
		t.Fatalf("BlocksOn day2 = %+v", got)
	}
	if got := c.BlocksIn(types.Persisted(144)); len(got) != 1 {
		t.Fatalf("BlocksIn = %+v", got)
	}
	if tt, ok := c.TimeTableOn("2025-11-23"); !ok || tt.ID != types.Persisted(153) {
		t.Fatalf("TimeTableOn = %+v %v", tt, ok)
	}
}

func TestParseDate(t *testing.T) {
	good := map[string]any{
		"2025-01-01": "2025-01-01",
		"2025-01-02": []any{float64(2025), float64(1), float64(2)},
		"2025-03-04": "2025-03-04T00:00:00",
	}
	for want, in := range good {
		got, err := ParseDate(in)
		if err != nil || string(got) != want {
			t.Errorf("ParseDate(%v) = %q, %v; want %q", in, got, err, want)
		}
	}
	for _, in := range []any{"01/02/2025", []any{float64(2025), float64(2), float64(30)}, 20250101} {
		if _, err := ParseDate(in); !errors.Is(err, ErrBadDate) {
			t.Errorf("ParseDate(%v) expected ErrBadDate, got %v", in, err)
		}
	}
	if got := Date("2025-12-31").AddDays(1); got != "2026-01-01" {
		t.Errorf("AddDays = %s", got)
	}
}

func TestPayload(t *testing.T) {
	b := PlaceBlock{
		BlockID:     types.Pending(1),
		PlaceName:   "남산타워",
		StartTime:   timeslot.At(9, 0, 0),
		EndTime:     timeslot.At(11, 0, 0),
		Category:    Sightseeing,
		TimeTableID: types.Pending(2),
		Date:        "2025-11-22",
	}
	p := b.Payload()
	if p["blockId"] != int64(-1) || p["timeTableId"] != int64(-2) {
		t.Fatalf("ids not in wire form: %v", p)
	}
	if p["blockStartTime"] != "09:00:00" || p["date"] != "2025-11-22" {
		t.Fatalf("unexpected payload: %v", p)
	}
	b.Date = ""
	if _, ok := b.Payload()["date"]; ok {
		t.Fatal("date should be omitted when unset")
	}
}

func TestResolvePending(t *testing.T) {
	blocks := []PlaceBlock{
		{PlaceName: "a", TimeTableID: types.Pending(1), Date: "2025-11-22"},
		{PlaceName: "b", TimeTableID: types.Persisted(9), Date: "2025-11-23"},
		{PlaceName: "c", TimeTableID: types.Pending(2), Date: "2025-11-23"},
	}
	persisted := []TimeTable{
		{ID: types.Persisted(144), Date: "2025-11-22"},
		{ID: types.Persisted(153), Date: "2025-11-23"},
	}
	got, err := ResolvePending(blocks, persisted)
	if err != nil {
		t.Fatalf("ResolvePending: %v", err)
	}
	want := []types.Identifier{types.Persisted(144), types.Persisted(9), types.Persisted(153)}
	for i, b := range got {
		if b.TimeTableID != want[i] {
			t.Errorf("block %s: timetable %s, want %s", b.PlaceName, b.TimeTableID, want[i])
		}
	}
	if blocks[0].TimeTableID != types.Pending(1) {
		t.Fatal("input must not be mutated")
	}

	_, err = ResolvePending([]PlaceBlock{{PlaceName: "x", TimeTableID: types.Pending(3), Date: "2030-01-01"}}, persisted)
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("expected ErrUnresolved, got %v", err)
	}
}
