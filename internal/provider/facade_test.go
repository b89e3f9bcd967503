package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"fxconvert/internal/rates"
)

func fetchedSnapshot(base string) *rates.Snapshot {
	s := &rates.Snapshot{Base: base, Date: "2025-08-25", Rates: map[string]float64{base: 1, "RUB": 95}}
	s.Stamp(time.Now())
	return s
}

func TestFallbackSource_FetchSnapshot(t *testing.T) {
	logger := zap.NewNop().Sugar()

	t.Run("first succeeds", func(t *testing.T) {
		m1 := newMockSource("usd")
		m2 := newMockSource("eur")
		want := fetchedSnapshot("USD")

		m1.On("FetchSnapshot", mock.Anything).Return(want, nil)

		p := NewFallbackSource(logger, m1, m2)
		got, err := p.FetchSnapshot(context.Background())

		assert.NoError(t, err)
		assert.Same(t, want, got)
		m1.AssertExpectations(t)
		m2.AssertNotCalled(t, "FetchSnapshot", mock.Anything)
	})

	t.Run("first fails, second succeeds", func(t *testing.T) {
		m1 := newMockSource("usd")
		m2 := newMockSource("eur")
		want := fetchedSnapshot("EUR")

		m1.On("FetchSnapshot", mock.Anything).Return(nil, errors.New("m1 failed"))
		m2.On("FetchSnapshot", mock.Anything).Return(want, nil)

		p := NewFallbackSource(logger, m1, m2)
		got, err := p.FetchSnapshot(context.Background())

		assert.NoError(t, err)
		assert.Same(t, want, got)
		m1.AssertExpectations(t)
		m2.AssertExpectations(t)
	})

	t.Run("all fail", func(t *testing.T) {
		m1 := newMockSource("usd")
		m2 := newMockSource("eur")

		m1.On("FetchSnapshot", mock.Anything).Return(nil, errors.New("m1 failed"))
		m2.On("FetchSnapshot", mock.Anything).Return(nil, errors.New("m2 failed"))

		p := NewFallbackSource(logger, m1, m2)
		got, err := p.FetchSnapshot(context.Background())

		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrAllProvidersFailed)
		assert.Contains(t, err.Error(), "m1 failed")
		assert.Contains(t, err.Error(), "m2 failed")
		m1.AssertExpectations(t)
		m2.AssertExpectations(t)
	})

	t.Run("canceled context stops the scan", func(t *testing.T) {
		m1 := newMockSource("usd")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p := NewFallbackSource(logger, m1)
		_, err := p.FetchSnapshot(ctx)

		assert.ErrorIs(t, err, context.Canceled)
		m1.AssertNotCalled(t, "FetchSnapshot", mock.Anything)
	})
}
