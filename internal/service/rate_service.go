package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"fxconvert/internal/converter"
	"fxconvert/internal/provider"
	"fxconvert/internal/rates"
	"fxconvert/internal/repository"
)

var (
	// ErrNoRateData is returned when neither a fetch nor the store produced a snapshot.
	ErrNoRateData = errors.New("failed to load exchange rate data")
	// ErrNoCurrencies is returned when no catalog currency has a usable rate.
	ErrNoCurrencies = errors.New("no available currencies for conversion")
)

// ConnectivityChecker reports whether the network looks reachable.
type ConnectivityChecker interface {
	HasConnectivity(ctx context.Context) bool
}

// RateService resolves the active snapshot for a run.
type RateService struct {
	repo           repository.SnapshotRepository
	source         provider.SnapshotSource
	prober         ConnectivityChecker
	log            *zap.SugaredLogger
	now            func() time.Time
	staleAfterDays int
}

// NewRateService creates a new RateService.
func NewRateService(repo repository.SnapshotRepository, source provider.SnapshotSource, prober ConnectivityChecker, logger *zap.SugaredLogger, staleAfterDays int) *RateService {
	return &RateService{
		repo:           repo,
		source:         source,
		prober:         prober,
		log:            logger,
		now:            time.Now,
		staleAfterDays: staleAfterDays,
	}
}

// WithClock replaces the clock used for age calculations.
func (s *RateService) WithClock(now func() time.Time) *RateService {
	s.now = now
	return s
}

// Resolve probes connectivity, loads the stored snapshot, attempts a fetch and
// picks the active snapshot. A fetched snapshot is persisted before it is
// returned. The error is ErrNoRateData when nothing is usable, or the context
// error when the run was interrupted.
func (s *RateService) Resolve(ctx context.Context) (Decision, error) {
	online := s.prober.HasConnectivity(ctx)
	stored := s.loadStored(ctx)

	fetched, err := s.source.FetchSnapshot(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Decision{}, ctxErr
		}
		s.log.Warnw("No fresh rate data", "online", online, "error", err)
		fetched = nil
	}

	if fetched != nil {
		if err := s.repo.Save(ctx, fetched); err != nil {
			s.log.Errorw("Failed to save rates to local database", "error", err)
		}
	}

	d := Decide(s.now(), online, stored, fetched, s.staleAfterDays)
	s.log.Infow("Rate data resolved", "outcome", d.Outcome.String(), "online", d.Online, "age_days", d.AgeDays)
	if d.Active == nil {
		return d, ErrNoRateData
	}
	return d, nil
}

func (s *RateService) loadStored(ctx context.Context) *rates.Snapshot {
	stored, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrCorrupted) {
			s.log.Warnw("Ignoring local database", "error", err)
		} else {
			s.log.Warnw("Error loading local database", "error", err)
		}
		return nil
	}
	return stored
}

// SelectCurrencies returns the catalog currencies usable with the snapshot.
func SelectCurrencies(s *rates.Snapshot, catalog converter.Catalog) ([]converter.Currency, error) {
	currencies := converter.AvailableCurrencies(s, catalog)
	if len(currencies) == 0 {
		return nil, ErrNoCurrencies
	}
	return currencies, nil
}
