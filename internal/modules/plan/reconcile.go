package plan

import "fmt"

// ResolvePending rewrites blocks whose TimeTable reference is still pending so
// they point at the persisted TimeTable with the same date. Blocks that already
// reference a persisted id pass through unchanged.
func ResolvePending(blocks []PlaceBlock, persisted []TimeTable) ([]PlaceBlock, error) {
	byDate := make(map[Date]TimeTable, len(persisted))
	for _, tt := range persisted {
		if tt.ID.IsPending() || tt.ID.IsZero() {
			continue
		}
		byDate[tt.Date] = tt
	}

	out := make([]PlaceBlock, len(blocks))
	for i, b := range blocks {
		out[i] = b
		if !b.TimeTableID.IsPending() {
			continue
		}
		tt, ok := byDate[b.Date]
		if b.Date == "" || !ok {
			return nil, fmt.Errorf("%w: block %q (timetable %s, date %q)", ErrUnresolved, b.PlaceName, b.TimeTableID, b.Date)
		}
		out[i].TimeTableID = tt.ID
	}
	return out, nil
}
