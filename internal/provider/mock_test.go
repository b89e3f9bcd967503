package provider

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fxconvert/internal/rates"
)

type MockSource struct {
	mock.Mock
	name string
}

func newMockSource(name string) *MockSource {
	return &MockSource{name: name}
}

func (m *MockSource) Name() string { return m.name }

func (m *MockSource) FetchSnapshot(ctx context.Context) (*rates.Snapshot, error) {
	args := m.Called(ctx)
	snap, _ := args.Get(0).(*rates.Snapshot)
	return snap, args.Error(1)
}
