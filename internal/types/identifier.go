// README: Shared value objects: row identifiers that may not exist yet, and coordinates.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Identifier is either a persisted row id or a pending token that stands in
// for a row the backend has not created yet. On the wire a pending token t is
// written as -t, which is what the planner backend expects.
type Identifier struct {
	value   int64
	pending bool
}

func Persisted(id int64) Identifier { return Identifier{value: id} }

// Pending panics on non-positive tokens; negative wire values are the only encoding.
func Pending(token int) Identifier {
	if token <= 0 {
		panic(fmt.Sprintf("types: pending token must be positive, got %d", token))
	}
	return Identifier{value: int64(token), pending: true}
}

func (id Identifier) IsPending() bool { return id.pending }
func (id Identifier) IsZero() bool    { return id == Identifier{} }

// ID returns the persisted id; ok is false for pending identifiers.
func (id Identifier) ID() (int64, bool) {
	if id.pending {
		return 0, false
	}
	return id.value, true
}

// Token returns the pending token; ok is false for persisted identifiers.
func (id Identifier) Token() (int, bool) {
	if !id.pending {
		return 0, false
	}
	return int(id.value), true
}

// Wire returns the integer the planner backend understands.
func (id Identifier) Wire() int64 {
	if id.pending {
		return -id.value
	}
	return id.value
}

func (id Identifier) String() string {
	if id.pending {
		return "pending:" + strconv.FormatInt(id.value, 10)
	}
	return strconv.FormatInt(id.value, 10)
}

// FromWire is the inverse of Wire.
func FromWire(n int64) Identifier {
	if n < 0 {
		return Identifier{value: -n, pending: true}
	}
	return Identifier{value: n}
}

// ParseIdentifier accepts the loosely typed numbers found in decoded JSON
// (float64 from LLM tool arguments, json.Number, ints, numeric strings).
func ParseIdentifier(v any) (Identifier, error) {
	switch n := v.(type) {
	case Identifier:
		return n, nil
	case int:
		return FromWire(int64(n)), nil
	case int64:
		return FromWire(n), nil
	case float64:
		if n != math.Trunc(n) {
			return Identifier{}, fmt.Errorf("identifier %v is not integral", n)
		}
		return FromWire(int64(n)), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil || f != math.Trunc(f) {
				return Identifier{}, fmt.Errorf("identifier %q is not integral", n.String())
			}
			i = int64(f)
		}
		return FromWire(i), nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return Identifier{}, fmt.Errorf("identifier %q is not a number", n)
		}
		return FromWire(i), nil
	}
	return Identifier{}, fmt.Errorf("identifier has unsupported type %T", v)
}

func (id Identifier) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(id.Wire(), 10)), nil
}

func (id *Identifier) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = Identifier{}
		return nil
	}
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseIdentifier(raw)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
