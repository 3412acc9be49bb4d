package plan

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cow-planmate/Ai/internal/types"
)

// Context is the caller's read-only snapshot of a plan. It is never written
// back; every desired change leaves as an action.
type Context struct {
	TravelName string       `json:"TravelName"`
	TimeTables []TimeTable  `json:"TimeTables"`
	Blocks     []PlaceBlock `json:"TimeTablePlaceBlocks"`

	raw json.RawMessage
}

type contextFields Context

// UnmarshalJSON accepts the snapshot as an object or as a string holding the
// JSON object, which is how some callers forward it.
func (c *Context) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = Context{}
		return nil
	}
	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return err
		}
		if inner == "" {
			*c = Context{}
			return nil
		}
		return c.UnmarshalJSON([]byte(inner))
	}
	var f contextFields
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("plan context: %w", err)
	}
	*c = Context(f)
	c.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (c Context) MarshalJSON() ([]byte, error) {
	if len(c.raw) > 0 {
		return c.raw, nil
	}
	return json.Marshal(contextFields(c))
}

// Snapshot returns the plan as the caller sent it, for prompt assembly.
func (c Context) Snapshot() string {
	b, err := c.MarshalJSON()
	if err != nil {
		return "{}"
	}
	return string(b)
}

// TimeTableOn finds the day with the given date.
func (c Context) TimeTableOn(d Date) (TimeTable, bool) {
	for _, tt := range c.TimeTables {
		if tt.Date == d {
			return tt, true
		}
	}
	return TimeTable{}, false
}

// TimeTableAt returns the n-th day (1-based) in the order the caller sent them.
func (c Context) TimeTableAt(n int) (TimeTable, bool) {
	if n < 1 || n > len(c.TimeTables) {
		return TimeTable{}, false
	}
	return c.TimeTables[n-1], true
}

// BlocksOn returns existing blocks for a date. Blocks without their own date
// are matched through their TimeTable.
func (c Context) BlocksOn(d Date) []PlaceBlock {
	var out []PlaceBlock
	for _, b := range c.Blocks {
		bd := b.Date
		if bd == "" {
			bd = c.dateOf(b.TimeTableID)
		}
		if bd != "" && bd == d {
			out = append(out, b)
		}
	}
	return out
}

// BlocksIn returns existing blocks owned by one TimeTable.
func (c Context) BlocksIn(id types.Identifier) []PlaceBlock {
	var out []PlaceBlock
	for _, b := range c.Blocks {
		if b.TimeTableID == id {
			out = append(out, b)
		}
	}
	return out
}

func (c Context) dateOf(id types.Identifier) Date {
	if id.IsZero() {
		return ""
	}
	for _, tt := range c.TimeTables {
		if tt.ID == id {
			return tt.Date
		}
	}
	return ""
}
