// Package provider implements the remote rate sources and the connectivity probe.
package provider

import (
	"context"

	"fxconvert/internal/rates"
)

// SnapshotSource fetches a validated rate snapshot from a remote source.
type SnapshotSource interface {
	Name() string
	FetchSnapshot(ctx context.Context) (*rates.Snapshot, error)
}
