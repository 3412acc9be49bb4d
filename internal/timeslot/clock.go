// README: Wall-clock time of day without a date; accepts the encodings the planner backend emits.
package timeslot

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const day = 24 * time.Hour

// ErrBadTime wraps every parse failure.
var ErrBadTime = errors.New("timeslot: bad time")

// Clock is a time of day measured from midnight. The zero value is "unset".
type Clock struct {
	offset time.Duration
	set    bool
}

// At builds a Clock; out-of-range components are the caller's bug.
func At(hour, minute, second int) Clock {
	return Clock{offset: time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute + time.Duration(second)*time.Second, set: true}
}

func (c Clock) IsZero() bool { return !c.set }

// Add moves the clock forward, saturating at 23:59:59 so a block never wraps past midnight.
func (c Clock) Add(d time.Duration) Clock {
	off := c.offset + d
	if off >= day {
		off = day - time.Second
	}
	if off < 0 {
		off = 0
	}
	return Clock{offset: off, set: true}
}

func (c Clock) Before(o Clock) bool       { return c.offset < o.offset }
func (c Clock) After(o Clock) bool        { return c.offset > o.offset }
func (c Clock) Sub(o Clock) time.Duration { return c.offset - o.offset }

func (c Clock) String() string {
	if !c.set {
		return ""
	}
	s := int(c.offset / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s/60)%60, s%60)
}

func (c Clock) MarshalJSON() ([]byte, error) {
	if !c.set {
		return []byte("null"), nil
	}
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*c = Clock{}
		return nil
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Parse accepts "HH:MM:SS", "HH:MM", or a 2-4 element numeric sequence
// [H, M[, S[, ns]]]. The nanosecond element is ignored.
func Parse(v any) (Clock, error) {
	switch t := v.(type) {
	case Clock:
		if t.set {
			return t, nil
		}
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range []string{"15:04:05", "15:04"} {
			if ts, err := time.Parse(layout, s); err == nil {
				return At(ts.Hour(), ts.Minute(), ts.Second()), nil
			}
		}
	case []any:
		if c, ok := fromParts(t); ok {
			return c, nil
		}
	case []int:
		parts := make([]any, len(t))
		for i, n := range t {
			parts[i] = n
		}
		if c, ok := fromParts(parts); ok {
			return c, nil
		}
	}
	return Clock{}, fmt.Errorf("%w: unable to parse time value %v (type %T): expected \"HH:MM:SS\", \"HH:MM\" or [H, M[, S[, ns]]]", ErrBadTime, v, v)
}

func fromParts(parts []any) (Clock, bool) {
	if len(parts) < 2 || len(parts) > 4 {
		return Clock{}, false
	}
	hms := [3]int{}
	for i := 0; i < len(parts) && i < 3; i++ {
		n, ok := integral(parts[i])
		if !ok {
			return Clock{}, false
		}
		hms[i] = n
	}
	if hms[0] < 0 || hms[0] > 23 || hms[1] < 0 || hms[1] > 59 || hms[2] < 0 || hms[2] > 59 {
		return Clock{}, false
	}
	return At(hms[0], hms[1], hms[2]), true
}

func integral(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}
