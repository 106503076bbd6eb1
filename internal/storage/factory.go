// internal/storage/factory.go
package storage

import (
	"fmt"
	"log/slog"

	"github.com/oxcstats/soldierstats/internal/config"
	"github.com/oxcstats/soldierstats/internal/logging"
	"github.com/oxcstats/soldierstats/internal/storage/memory"
	"github.com/oxcstats/soldierstats/internal/storage/postgres"
	sqlitestorage "github.com/oxcstats/soldierstats/internal/storage/sqlite"
	"github.com/oxcstats/soldierstats/internal/storage/websocket"
	"github.com/rs/zerolog"
)

// TypeNone disables archiving.
const TypeNone = "none"

// NewBackend creates a storage backend based on configuration. It returns a
// nil backend for TypeNone.
func NewBackend(cfg config.StorageConfig, logManager *logging.SlogManager, dbLog zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		return postgres.New(logManager, dbLog), nil
	case "sqlite":
		return sqlitestorage.New(sqlitestorage.Config{
			Path:     cfg.SQLite.Path,
			DumpPath: cfg.SQLite.DumpPath,
		}, logManager, dbLog), nil
	case "memory":
		return memory.New(cfg.Memory), nil
	case "websocket":
		var logger *slog.Logger
		if logManager != nil {
			logger = logManager.Logger()
		}
		return websocket.New(websocket.Config{
			URL:        cfg.WebSocket.URL,
			Secret:     cfg.WebSocket.Secret,
			AckTimeout: cfg.WebSocket.AckTimeout,
		}, logger), nil
	case TypeNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
