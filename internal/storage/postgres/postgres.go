// Package postgres archives snapshots into PostgreSQL/PostGIS. It wraps the
// GORM backend and owns the connection.
package postgres

import (
	"github.com/oxcstats/soldierstats/internal/database"
	"github.com/oxcstats/soldierstats/internal/logging"
	gormstorage "github.com/oxcstats/soldierstats/internal/storage/gorm"
	"github.com/rs/zerolog"
)

// Backend wraps the GORM backend with a Postgres connection.
type Backend struct {
	*gormstorage.Backend
	db *database.Manager
}

// New creates a new Postgres storage backend. Connection settings come from
// the db.* config keys when Init runs.
func New(logManager *logging.SlogManager, dbLog zerolog.Logger) *Backend {
	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{LogManager: logManager}),
		db:      database.NewManager(dbLog),
	}
}

// Init connects, installs PostGIS and migrates the schema.
func (b *Backend) Init() error {
	if err := b.db.ConnectPostgres(); err != nil {
		return err
	}
	b.Backend.SetDB(b.db.DB)
	return b.Backend.Init()
}

// Close closes the database connection.
func (b *Backend) Close() error {
	if err := b.Backend.Close(); err != nil {
		return err
	}
	return b.db.Close()
}
