package rates

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_Validate(t *testing.T) {
	tests := []struct {
		name     string
		snap     *Snapshot
		expected string
		wantErr  error
	}{
		{"valid", &Snapshot{Base: "USD", Rates: map[string]float64{"USD": 1}}, "", nil},
		{"valid with expected base", &Snapshot{Base: "USD", Rates: map[string]float64{"EUR": 0.9}}, "USD", nil},
		{"base mismatch", &Snapshot{Base: "EUR", Rates: map[string]float64{"USD": 1.1}}, "USD", ErrBaseMismatch},
		{"no base", &Snapshot{Rates: map[string]float64{"USD": 1}}, "", ErrMissingBase},
		{"empty rates", &Snapshot{Base: "USD", Rates: map[string]float64{}}, "", ErrEmptyRates},
		{"nil", nil, "", ErrEmptyRates},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.snap.Validate(tc.expected)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}
}

func TestSnapshot_AgeDays(t *testing.T) {
	now := time.Date(2025, 8, 25, 12, 0, 0, 0, time.UTC)

	s := &Snapshot{FetchedAt: now.Add(-10 * 24 * time.Hour)}
	assert.Equal(t, 10, s.AgeDays(now))
	assert.True(t, s.IsStale(now, 7))

	s = &Snapshot{FetchedAt: now.Add(-7*24*time.Hour + time.Minute)}
	assert.Equal(t, 6, s.AgeDays(now))
	assert.False(t, s.IsStale(now, 7))

	s = &Snapshot{FetchedAt: now.Add(-7 * 24 * time.Hour)}
	assert.True(t, s.IsStale(now, 7))

	s = &Snapshot{FetchedAt: now.Add(time.Hour)}
	assert.Equal(t, 0, s.AgeDays(now))

	s = &Snapshot{}
	assert.True(t, s.IsStale(now, 7))
}

func TestSnapshot_StampAndLabel(t *testing.T) {
	now := time.Date(2025, 8, 25, 12, 30, 45, 500, time.Local)
	s := &Snapshot{Base: "USD", Date: "2025-08-25"}
	assert.Equal(t, "2025-08-25", s.Label())

	s.Stamp(now)
	assert.Equal(t, now.Truncate(time.Second), s.FetchedAt)
	assert.Equal(t, "08/25/2025", s.DisplayDate)
	assert.Equal(t, "08/25/2025", s.Label())
}

func TestExpectedBaseFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://api.exchangerate-api.com/v4/latest/USD", "USD"},
		{"https://api.exchangerate-api.com/v4/latest/eur/", "EUR"},
		{"https://example.com", ""},
		{"https://example.com/", ""},
		{"http://::1]", ""},
	}
	for _, tc := range tests {
		t.Run(tc.url, func(t *testing.T) {
			require.Equal(t, tc.want, ExpectedBaseFromURL(tc.url))
		})
	}
}
