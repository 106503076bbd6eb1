// internal/storage/memory/memory.go
package memory

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/oxcstats/soldierstats/internal/config"
	"github.com/oxcstats/soldierstats/pkg/core"
)

// Backend keeps the archived snapshots in memory and exports each one to JSON.
type Backend struct {
	cfg config.MemoryConfig

	snapshots      []*core.Snapshot
	lastExportPath string

	mu sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init creates the output directory.
func (b *Backend) Init() error {
	if b.cfg.OutputDir == "" {
		return nil
	}
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StoreSnapshot keeps the snapshot and writes its JSON export. With no output
// directory configured the snapshot is only kept in memory.
func (b *Backend) StoreSnapshot(ctx context.Context, snap *core.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.snapshots = append(b.snapshots, snap)

	if b.cfg.OutputDir == "" {
		return nil
	}
	return b.exportJSON(snap)
}

// Snapshots returns every archived snapshot in arrival order.
func (b *Backend) Snapshots() []*core.Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]*core.Snapshot, len(b.snapshots))
	copy(out, b.snapshots)
	return out
}

// GetExportedFilePath returns the path of the last written export.
func (b *Backend) GetExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
