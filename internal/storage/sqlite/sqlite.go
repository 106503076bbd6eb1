// Package sqlitestorage archives snapshots into a SQLite database, either a
// file or an in-memory database dumped to disk via VACUUM INTO after every
// archived snapshot. It wraps the GORM backend via composition.
package sqlitestorage

import (
	"context"
	"fmt"

	"github.com/oxcstats/soldierstats/internal/database"
	"github.com/oxcstats/soldierstats/internal/logging"
	gormstorage "github.com/oxcstats/soldierstats/internal/storage/gorm"
	"github.com/oxcstats/soldierstats/pkg/core"
	"github.com/rs/zerolog"
)

// Config holds configuration for the SQLite storage backend.
type Config struct {
	Path     string // Database file; empty keeps the database in memory
	DumpPath string // Path for VACUUM INTO dumps of an in-memory database
}

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	db  *database.Manager
	cfg Config
	log *logging.SlogManager
}

// New creates a new SQLite storage backend. The connection is opened by Init.
func New(cfg Config, logManager *logging.SlogManager, dbLog zerolog.Logger) *Backend {
	if logManager == nil {
		logManager = logging.NewSlogManager()
	}
	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{LogManager: logManager}),
		db:      database.NewManager(dbLog),
		cfg:     cfg,
		log:     logManager,
	}
}

// Init opens the database and migrates the schema.
func (b *Backend) Init() error {
	if err := b.db.ConnectSqlite(b.cfg.Path); err != nil {
		return err
	}
	b.Backend.SetDB(b.db.DB)
	return b.Backend.Init()
}

// StoreSnapshot archives the snapshot, then dumps an in-memory database to disk.
func (b *Backend) StoreSnapshot(ctx context.Context, snap *core.Snapshot) error {
	if err := b.Backend.StoreSnapshot(ctx, snap); err != nil {
		return err
	}

	if !b.db.InMemory || b.cfg.DumpPath == "" {
		return nil
	}
	if err := b.db.DumpMemoryToDisk(b.cfg.DumpPath); err != nil {
		b.log.Logger().ErrorContext(ctx, "Failed to dump archive to disk", "path", b.cfg.DumpPath, "error", err)
		return fmt.Errorf("dump %s: %w", b.cfg.DumpPath, err)
	}
	return nil
}

// Close closes the database connection.
func (b *Backend) Close() error {
	if err := b.Backend.Close(); err != nil {
		return err
	}
	return b.db.Close()
}
