package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"fxconvert/internal/rates"
)

var _ SnapshotSource = (*EndpointProvider)(nil)

// maxBodyBytes bounds how much of a provider response is read.
const maxBodyBytes = 4 << 20

// EndpointProvider fetches a full snapshot from a single URL returning
// {"base": ..., "date": ..., "rates": {...}}, e.g. exchangerate-api v4
// ".../latest/USD" or Frankfurter "/latest?base=USD".
type EndpointProvider struct {
	url          string
	expectedBase string
	client       *http.Client
	now          func() time.Time
}

// NewEndpointProvider creates an EndpointProvider. When expectedBase is empty it
// is derived from the last path segment of url.
func NewEndpointProvider(url, expectedBase string, timeout time.Duration) *EndpointProvider {
	if expectedBase == "" {
		expectedBase = rates.ExpectedBaseFromURL(url)
	}
	return &EndpointProvider{
		url:          url,
		expectedBase: expectedBase,
		client:       &http.Client{Timeout: timeout},
		now:          time.Now,
	}
}

// WithClock replaces the clock used to stamp fetched snapshots.
func (p *EndpointProvider) WithClock(now func() time.Time) *EndpointProvider {
	p.now = now
	return p
}

// Name returns the endpoint URL.
func (p *EndpointProvider) Name() string { return p.url }

// ExpectedBase returns the base currency the endpoint must quote against.
func (p *EndpointProvider) ExpectedBase() string { return p.expectedBase }

// FetchSnapshot retrieves, validates and stamps the snapshot served by the endpoint.
func (p *EndpointProvider) FetchSnapshot(ctx context.Context) (*rates.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("request creation failed for %s: %w", p.url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", p.url, err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s returned status %d: %s", p.url, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", p.url, err)
	}

	snap, err := rates.Decode(body, p.expectedBase)
	if err != nil {
		return nil, fmt.Errorf("invalid response from %s: %w", p.url, err)
	}
	if _, ok := snap.Rates[snap.Base]; !ok {
		snap.Rates[snap.Base] = 1
	}
	snap.Stamp(p.now())
	return snap, nil
}
