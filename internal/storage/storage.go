// internal/storage/storage.go
package storage

import (
	"context"

	"github.com/oxcstats/soldierstats/pkg/core"
)

// Backend is the interface all archive implementations must satisfy. A backend
// receives every snapshot the session store publishes.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// StoreSnapshot archives one loaded save.
	StoreSnapshot(ctx context.Context, snap *core.Snapshot) error
}

// Exporter is an optional interface for backends that write one file per
// archived snapshot.
type Exporter interface {
	GetExportedFilePath() string
}
