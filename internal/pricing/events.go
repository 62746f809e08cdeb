package pricing

import (
	"time"

	"carpso-backend/internal/domain"
)

// EventCheck decides whether an event-tagged rule is currently active for
// a lot. Checks are registered per event tag so the resolver stays
// decoupled from specific event names.
type EventCheck func(lot domain.ParkingLot, now time.Time) bool

// EventTable maps event tags to their activity checks.
type EventTable map[string]EventCheck

// Active reports whether the named event applies right now. An event tag
// with no registered check is treated as active, so a rule tagged with an
// unknown event still applies on its other conditions alone.
func (t EventTable) Active(tag string, lot domain.ParkingLot, now time.Time) bool {
	if t == nil {
		return true
	}
	check, ok := t[tag]
	if !ok {
		return true
	}
	return check(lot, now)
}

// DefaultEventTable registers the built-in event checks. Concert Night runs
// Friday and Saturday evenings from 18:00 at the mall lot, the venue it is
// tied to.
func DefaultEventTable() EventTable {
	return EventTable{
		"Concert Night": func(lot domain.ParkingLot, now time.Time) bool {
			if lot.ID != "lot_C" {
				return false
			}
			wd := now.Weekday()
			return (wd == time.Friday || wd == time.Saturday) && now.Hour() >= 18
		},
	}
}
