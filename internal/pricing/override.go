package pricing

import (
	"time"

	"ms-booking/internal/models"
)

// MatchOverride returns the first entry (in input order) whose room matches
// and whose optional validity window overlaps [start, end]. Comparison is
// inclusive at calendar-day granularity; times are truncated. A nil window
// boundary leaves that side open, so an entry with no window at all always
// applies for its room.
//
// When several windows overlap the query the first one in input order wins.
// That keeps behavior stable against reordering of the remaining entries but
// is not a "most specific wins" rule.
func MatchOverride(entries []models.PriceOverride, roomID string, start, end time.Time) *models.PriceOverride {
	qs := truncateDay(start)
	qe := truncateDay(end)

	for i := range entries {
		e := &entries[i]
		if e.RoomID != roomID {
			continue
		}
		if e.StartDate != nil && truncateDay(*e.StartDate).After(qe) {
			continue
		}
		if e.EndDate != nil && qs.After(truncateDay(*e.EndDate)) {
			continue
		}
		return e
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
