// Package rates defines the exchange-rate snapshot shared by the store, the
// remote providers and the conversion engine.
package rates

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DisplayDateLayout is the layout used for the human-readable fetch date.
const DisplayDateLayout = "01/02/2006"

var (
	// ErrMissingField indicates that a required key is absent from a snapshot document.
	ErrMissingField = errors.New("missing required field")
	// ErrRatesNotMapping indicates that the rates field is not a code-to-number mapping.
	ErrRatesNotMapping = errors.New("the 'rates' field must be a mapping")
	// ErrEmptyRates indicates a snapshot without any rate.
	ErrEmptyRates = errors.New("snapshot has no rates")
	// ErrMissingBase indicates an empty base currency.
	ErrMissingBase = errors.New("snapshot has no base currency")
	// ErrBaseMismatch indicates the snapshot is quoted against an unexpected base.
	ErrBaseMismatch = errors.New("base currency mismatch")
)

// Snapshot is one consistent set of rates quoted against a single base currency.
type Snapshot struct {
	Base        string
	Date        string
	Rates       map[string]float64
	FetchedAt   time.Time
	DisplayDate string
}

// Validate checks the structural invariants of the snapshot. When expectedBase
// is non-empty the snapshot base must match it exactly.
func (s *Snapshot) Validate(expectedBase string) error {
	if s == nil {
		return ErrEmptyRates
	}
	if s.Base == "" {
		return ErrMissingBase
	}
	if len(s.Rates) == 0 {
		return ErrEmptyRates
	}
	if expectedBase != "" && s.Base != expectedBase {
		return fmt.Errorf("%w: base currency %s does not match expected %s", ErrBaseMismatch, s.Base, expectedBase)
	}
	return nil
}

// Stamp records the fetch time and derives the display date from it.
func (s *Snapshot) Stamp(now time.Time) {
	s.FetchedAt = now.Truncate(time.Second)
	s.DisplayDate = FormatDisplayDate(s.FetchedAt)
}

// Rate returns the rate for code and whether it is present.
func (s *Snapshot) Rate(code string) (float64, bool) {
	r, ok := s.Rates[code]
	return r, ok
}

// AgeDays returns the number of whole days elapsed since the snapshot was fetched.
func (s *Snapshot) AgeDays(now time.Time) int {
	if s.FetchedAt.IsZero() {
		// Snapshots without a fetch time are treated as arbitrarily old.
		return int(^uint(0) >> 1)
	}
	d := now.Sub(s.FetchedAt)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// IsStale reports whether the snapshot is at least days old.
func (s *Snapshot) IsStale(now time.Time, days int) bool {
	return s.AgeDays(now) >= days
}

// Label returns the display date, falling back to the provider date.
func (s *Snapshot) Label() string {
	if s.DisplayDate != "" {
		return s.DisplayDate
	}
	if !s.FetchedAt.IsZero() {
		return FormatDisplayDate(s.FetchedAt)
	}
	return s.Date
}

// FormatDisplayDate renders t in the local time zone using DisplayDateLayout.
func FormatDisplayDate(t time.Time) string {
	return t.Local().Format(DisplayDateLayout)
}

// ExpectedBaseFromURL derives the quoted base from the last path segment of a
// provider URL, e.g. ".../v4/latest/USD" yields "USD". It returns "" when the
// URL has no usable segment.
func ExpectedBaseFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	path := strings.TrimRight(u.Path, "/")
	idx := strings.LastIndex(path, "/")
	if idx < 0 || idx == len(path)-1 {
		return ""
	}
	return strings.ToUpper(path[idx+1:])
}
