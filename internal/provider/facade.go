package provider

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"fxconvert/internal/rates"
)

var _ SnapshotSource = (*FallbackSource)(nil)

// ErrAllProvidersFailed is returned when every configured source failed.
var ErrAllProvidersFailed = errors.New("all providers failed")

// FallbackSource calls sources in order and returns the first valid snapshot.
type FallbackSource struct {
	sources []SnapshotSource
	log     *zap.SugaredLogger
}

// NewFallbackSource creates a FallbackSource over the given ordered sources.
func NewFallbackSource(logger *zap.SugaredLogger, sources ...SnapshotSource) *FallbackSource {
	return &FallbackSource{
		sources: sources,
		log:     logger,
	}
}

// Name identifies the chain.
func (p *FallbackSource) Name() string { return "fallback" }

// FetchSnapshot tries each source in order. Failures are logged and the next
// source is tried; the first success is returned without consulting the rest.
func (p *FallbackSource) FetchSnapshot(ctx context.Context) (*rates.Snapshot, error) {
	var errs []error
	for _, src := range p.sources {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		p.log.Infow("Attempting to fetch rates", "provider", src.Name())
		snap, err := src.FetchSnapshot(ctx)
		if err == nil {
			p.log.Infow("Fetched rates", "provider", src.Name(), "base", snap.Base, "rates", len(snap.Rates))
			return snap, nil
		}
		p.log.Warnw("Rate provider failed", "provider", src.Name(), "error", err)
		errs = append(errs, err)
	}

	return nil, fmt.Errorf("%w: %w", ErrAllProvidersFailed, errors.Join(errs...))
}
