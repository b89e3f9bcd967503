package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fxconvert/internal/converter"
	"fxconvert/internal/rates"
	"fxconvert/internal/repository"
)

// Mock repository
type mockSnapshotRepo struct {
	loadFunc func(ctx context.Context) (*rates.Snapshot, error)
	saveFunc func(ctx context.Context, s *rates.Snapshot) error
	calls    []string
}

func (m *mockSnapshotRepo) Load(ctx context.Context) (*rates.Snapshot, error) {
	m.calls = append(m.calls, "load")
	return m.loadFunc(ctx)
}

func (m *mockSnapshotRepo) Save(ctx context.Context, s *rates.Snapshot) error {
	m.calls = append(m.calls, "save")
	if m.saveFunc == nil {
		return nil
	}
	return m.saveFunc(ctx, s)
}

// Mock source
type mockSource struct {
	fetchFunc func(ctx context.Context) (*rates.Snapshot, error)
}

func (m *mockSource) Name() string { return "mock" }

func (m *mockSource) FetchSnapshot(ctx context.Context) (*rates.Snapshot, error) {
	return m.fetchFunc(ctx)
}

type staticProber bool

func (p staticProber) HasConnectivity(context.Context) bool { return bool(p) }

func newTestService(repo repository.SnapshotRepository, src *mockSource, online bool) *RateService {
	return NewRateService(repo, src, staticProber(online), zap.NewNop().Sugar(), 7).
		WithClock(func() time.Time { return testNow })
}

func TestResolve_FetchedIsPersistedThenUsed(t *testing.T) {
	fetched := snapshotAged(0)
	var saved *rates.Snapshot
	repo := &mockSnapshotRepo{
		loadFunc: func(ctx context.Context) (*rates.Snapshot, error) { return snapshotAged(3), nil },
		saveFunc: func(ctx context.Context, s *rates.Snapshot) error {
			saved = s
			return nil
		},
	}
	src := &mockSource{fetchFunc: func(ctx context.Context) (*rates.Snapshot, error) { return fetched, nil }}

	d, err := newTestService(repo, src, true).Resolve(context.Background())
	require.NoError(t, err)
	assert.Same(t, fetched, d.Active)
	assert.Same(t, fetched, saved)
	assert.Equal(t, OutcomeUpdated, d.Outcome)
	assert.Equal(t, []string{"load", "save"}, repo.calls)
}

func TestResolve_FetchAttemptedWhenOffline(t *testing.T) {
	fetched := snapshotAged(0)
	repo := &mockSnapshotRepo{loadFunc: func(ctx context.Context) (*rates.Snapshot, error) { return nil, nil }}
	called := false
	src := &mockSource{fetchFunc: func(ctx context.Context) (*rates.Snapshot, error) {
		called = true
		return fetched, nil
	}}

	d, err := newTestService(repo, src, false).Resolve(context.Background())
	require.NoError(t, err)
	assert.True(t, called)
	assert.Same(t, fetched, d.Active)
}

func TestResolve_FallsBackToStored(t *testing.T) {
	stored := snapshotAged(10)
	repo := &mockSnapshotRepo{loadFunc: func(ctx context.Context) (*rates.Snapshot, error) { return stored, nil }}
	src := &mockSource{fetchFunc: func(ctx context.Context) (*rates.Snapshot, error) {
		return nil, errors.New("all providers failed")
	}}

	d, err := newTestService(repo, src, true).Resolve(context.Background())
	require.NoError(t, err)
	assert.Same(t, stored, d.Active)
	assert.Equal(t, OutcomeCachedOutdated, d.Outcome)
	assert.Contains(t, d.Status, "outdated")
	assert.Equal(t, []string{"load"}, repo.calls, "nothing must be saved without a fresh snapshot")
}

func TestResolve_CorruptedStoreIsNoCache(t *testing.T) {
	repo := &mockSnapshotRepo{loadFunc: func(ctx context.Context) (*rates.Snapshot, error) {
		return nil, fmt.Errorf("%w: missing required field: rates", repository.ErrCorrupted)
	}}
	src := &mockSource{fetchFunc: func(ctx context.Context) (*rates.Snapshot, error) {
		return nil, errors.New("offline")
	}}

	for _, online := range []bool{true, false} {
		d, err := newTestService(repo, src, online).Resolve(context.Background())
		assert.ErrorIs(t, err, ErrNoRateData)
		assert.Nil(t, d.Active)
		assert.Equal(t, OutcomeUnavailable, d.Outcome)
	}
}

func TestResolve_SaveFailureStillUsesFetched(t *testing.T) {
	fetched := snapshotAged(0)
	repo := &mockSnapshotRepo{
		loadFunc: func(ctx context.Context) (*rates.Snapshot, error) { return nil, nil },
		saveFunc: func(ctx context.Context, s *rates.Snapshot) error { return errors.New("disk full") },
	}
	src := &mockSource{fetchFunc: func(ctx context.Context) (*rates.Snapshot, error) { return fetched, nil }}

	d, err := newTestService(repo, src, true).Resolve(context.Background())
	require.NoError(t, err)
	assert.Same(t, fetched, d.Active)
}

func TestResolve_Interrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	repo := &mockSnapshotRepo{loadFunc: func(ctx context.Context) (*rates.Snapshot, error) { return snapshotAged(1), nil }}
	src := &mockSource{fetchFunc: func(ctx context.Context) (*rates.Snapshot, error) {
		cancel()
		return nil, ctx.Err()
	}}

	_, err := newTestService(repo, src, true).Resolve(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSelectCurrencies(t *testing.T) {
	s := &rates.Snapshot{Base: "USD", Rates: map[string]float64{"USD": 1, "RUB": 0}}
	got, err := SelectCurrencies(s, converter.DefaultCatalog)
	require.NoError(t, err)
	assert.Equal(t, []converter.Currency{{Code: "USD", Name: "US Dollar"}}, got)

	_, err = SelectCurrencies(&rates.Snapshot{Base: "USD", Rates: map[string]float64{"XYZ": 1}}, converter.DefaultCatalog)
	assert.ErrorIs(t, err, ErrNoCurrencies)
}
