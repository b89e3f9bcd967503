// Package repository implements persistence of the last-known rate snapshot.
package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"fxconvert/internal/rates"
)

// ErrCorrupted indicates the store file exists but does not hold a valid snapshot.
var ErrCorrupted = errors.New("local database is corrupted")

// SnapshotRepository defines storage operations for the rate snapshot.
type SnapshotRepository interface {
	// Load returns (nil, nil) when nothing has been stored yet.
	Load(ctx context.Context) (*rates.Snapshot, error)
	Save(ctx context.Context, s *rates.Snapshot) error
}

// FileSnapshotRepository keeps a single snapshot in a JSON file.
type FileSnapshotRepository struct {
	path string
}

// NewFileSnapshotRepository creates a repository backed by the file at path.
func NewFileSnapshotRepository(path string) *FileSnapshotRepository {
	return &FileSnapshotRepository{path: path}
}

// Path returns the location of the store file.
func (r *FileSnapshotRepository) Path() string { return r.path }

// Load reads the stored snapshot. The file is never modified or removed,
// even when it fails validation.
func (r *FileSnapshotRepository) Load(ctx context.Context) (*rates.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	s, err := rates.Decode(data, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupted, err)
	}
	return s, nil
}

// Save overwrites the stored snapshot. The snapshot is validated first so an
// invalid one never reaches disk.
func (r *FileSnapshotRepository) Save(ctx context.Context, s *rates.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.Validate(""); err != nil {
		return fmt.Errorf("refusing to store invalid snapshot: %w", err)
	}
	data, err := rates.Encode(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := writeFileAtomically(r.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", r.path, err)
	}
	return nil
}

var _ SnapshotRepository = (*FileSnapshotRepository)(nil)
