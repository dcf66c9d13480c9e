// Package store keeps small JSON snapshots under string keys. The catalog
// uses it to remember user-added questions and exams between restarts.
package store

import (
	"context"
	"errors"
)

// ErrCorrupt is returned when a stored snapshot cannot be decoded.
var ErrCorrupt = errors.New("stored snapshot is corrupt")

// Store loads and saves whole JSON snapshots.
type Store interface {
	// Load decodes the snapshot at key into dst. found is false when nothing
	// has been saved yet; dst is left untouched in that case.
	Load(ctx context.Context, key string, dst any) (found bool, err error)
	// Save replaces the snapshot at key.
	Save(ctx context.Context, key string, v any) error
}
