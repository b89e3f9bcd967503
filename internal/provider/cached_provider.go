package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fxconvert/internal/rates"
)

var _ SnapshotSource = (*CachedSnapshotSource)(nil)

// CachedSnapshotSource wraps a SnapshotSource with a shared Redis cache, so
// several converter instances on one host reuse a recent fetch.
type CachedSnapshotSource struct {
	source SnapshotSource
	cache  *redis.Client
	ttl    time.Duration
	log    *zap.SugaredLogger
}

// NewCachedSnapshotSource creates a new CachedSnapshotSource.
func NewCachedSnapshotSource(source SnapshotSource, cache *redis.Client, ttl time.Duration, logger *zap.SugaredLogger) *CachedSnapshotSource {
	return &CachedSnapshotSource{
		source: source,
		cache:  cache,
		ttl:    ttl,
		log:    logger,
	}
}

// Name returns the wrapped source name.
func (p *CachedSnapshotSource) Name() string { return p.source.Name() }

func (p *CachedSnapshotSource) cacheKey() string {
	return fmt.Sprintf("snapshot_cache:{%s}", p.source.Name())
}

// FetchSnapshot returns the cached snapshot when present, otherwise fetches
// from the wrapped source and caches the result. Cache errors never fail the fetch.
func (p *CachedSnapshotSource) FetchSnapshot(ctx context.Context) (*rates.Snapshot, error) {
	if p.cache == nil {
		return p.source.FetchSnapshot(ctx)
	}

	key := p.cacheKey()

	payload, err := p.cache.HGet(ctx, key, "payload").Bytes()
	if err == nil {
		snap, decErr := rates.Decode(payload, "")
		if decErr == nil {
			p.log.Debugw("Snapshot cache hit", "key", key)
			return snap, nil
		}
		p.log.Warnw("Discarding unreadable cached snapshot", "key", key, "error", decErr)
	} else if !errors.Is(err, redis.Nil) {
		p.log.Warnw("Snapshot cache read failed", "key", key, "error", err)
	}

	snap, err := p.source.FetchSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	data, err := rates.Encode(snap)
	if err != nil {
		return snap, nil
	}
	pipe := p.cache.Pipeline()
	pipe.HSet(ctx, key, "payload", data, "fetched_at", snap.FetchedAt.UTC().Format(time.RFC3339))
	pipe.Expire(ctx, key, p.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		p.log.Warnw("Failed to update snapshot cache", "key", key, "error", err)
	}

	return snap, nil
}
