// Package service decides which rate snapshot a run uses and prepares it for
// conversion.
package service

import (
	"fmt"
	"time"

	"fxconvert/internal/rates"
)

// Outcome classifies the result of the freshness decision.
type Outcome int

// Outcome values, from best to worst.
const (
	OutcomeUpdated Outcome = iota
	OutcomeCachedCurrent
	OutcomeCachedOutdated
	OutcomeUnavailable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUpdated:
		return "updated"
	case OutcomeCachedCurrent:
		return "cached_current"
	case OutcomeCachedOutdated:
		return "cached_outdated"
	case OutcomeUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Decision is the snapshot chosen for a run together with its status message.
// Active is nil only when Outcome is OutcomeUnavailable.
type Decision struct {
	Active  *rates.Snapshot
	Outcome Outcome
	Online  bool
	AgeDays int // whole days since the active snapshot was fetched
	Status  string
}

// Decide combines the connectivity result, the stored snapshot and the fetch
// result. A fetched snapshot always wins; otherwise the stored one is used,
// however old. Cached data older than staleAfterDays whole days is reported
// as outdated but remains usable.
func Decide(now time.Time, online bool, stored, fetched *rates.Snapshot, staleAfterDays int) Decision {
	d := Decision{Online: online}

	switch {
	case fetched != nil:
		d.Active = fetched
		d.Outcome = OutcomeUpdated
		d.Status = fmt.Sprintf("Data successfully updated, exchange rates as of %s.", fetched.Label())
		return d

	case stored != nil:
		d.Active = stored
		d.AgeDays = stored.AgeDays(now)
		prefix := "Data not updated"
		if !online {
			prefix = "No internet connection"
		}
		if d.AgeDays > staleAfterDays {
			d.Outcome = OutcomeCachedOutdated
			d.Status = fmt.Sprintf("%s, using outdated data (older than %d days) as of %s.", prefix, staleAfterDays, stored.Label())
		} else {
			d.Outcome = OutcomeCachedCurrent
			d.Status = fmt.Sprintf("%s, using current data as of %s.", prefix, stored.Label())
		}
		return d
	}

	d.Outcome = OutcomeUnavailable
	if online {
		d.Status = "No data available for display. Check internet connection."
	} else {
		d.Status = "No internet connection and no local data available."
	}
	return d
}
