package rates

import (
	"encoding/json"
	"fmt"
	"time"
)

var requiredFields = []string{"rates", "base", "date"}

// document is the JSON shape shared by provider responses and the store file.
type document struct {
	Base        string             `json:"base"`
	Date        string             `json:"date"`
	Rates       map[string]float64 `json:"rates"`
	DateFetched string             `json:"date_fetched,omitempty"`
	Timestamp   int64              `json:"timestamp,omitempty"`
}

// Decode parses a snapshot document and validates it against expectedBase.
func Decode(data []byte, expectedBase string) (*Snapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	for _, field := range requiredFields {
		if _, ok := raw[field]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, field)
		}
	}

	var rateMap map[string]float64
	if string(raw["rates"]) == "null" {
		return nil, ErrRatesNotMapping
	}
	if err := json.Unmarshal(raw["rates"], &rateMap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRatesNotMapping, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	s := &Snapshot{
		Base:        doc.Base,
		Date:        doc.Date,
		Rates:       rateMap,
		DisplayDate: doc.DateFetched,
	}
	if doc.Timestamp > 0 {
		s.FetchedAt = time.Unix(doc.Timestamp, 0)
	}
	if err := s.Validate(expectedBase); err != nil {
		return nil, err
	}
	return s, nil
}

// Encode renders the snapshot in the store file shape.
func Encode(s *Snapshot) ([]byte, error) {
	doc := document{
		Base:        s.Base,
		Date:        s.Date,
		Rates:       s.Rates,
		DateFetched: s.Label(),
	}
	if !s.FetchedAt.IsZero() {
		doc.Timestamp = s.FetchedAt.Unix()
	}
	return json.Marshal(doc)
}
