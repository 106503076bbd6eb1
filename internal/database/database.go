package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/oxcstats/soldierstats/internal/model"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// memoryDSN is a shared-cache in-memory database. Every connection of the
// pool sees the same data.
const memoryDSN = "file::memory:?cache=shared"

// Manager handles database connections and operations.
type Manager struct {
	DB             *gorm.DB
	SqlDB          *sql.DB
	IsValid        bool
	InMemory       bool
	SqliteFilePath string
	Logger         zerolog.Logger
}

// NewManager creates a new database manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		IsValid: false,
		Logger:  log,
	}
}

// ConnectPostgres opens and validates a Postgres connection using the db.*
// config keys.
func (m *Manager) ConnectPostgres() error {
	db, err := m.GetPostgresDB()
	if err != nil {
		m.IsValid = false
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := m.use(db); err != nil {
		return err
	}
	m.SqlDB.SetMaxOpenConns(10)
	m.Logger.Info().Msg("Connected to database")
	return nil
}

// ConnectSqlite opens a SQLite database at path. An empty path keeps the
// database in memory; DumpMemoryToDisk persists it.
func (m *Manager) ConnectSqlite(path string) error {
	db, err := m.GetSqliteDB(path)
	if err != nil {
		m.IsValid = false
		return fmt.Errorf("failed to get local SQLite DB: %w", err)
	}
	m.InMemory = path == ""
	if !m.InMemory {
		m.SqliteFilePath = path
	}
	return m.use(db)
}

func (m *Manager) use(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		m.IsValid = false
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		m.IsValid = false
		return fmt.Errorf("failed to validate connection: %w", err)
	}
	m.DB = db
	m.SqlDB = sqlDB
	m.IsValid = true
	return nil
}

// PostgresDSN builds the connection string from the db.* config keys.
func PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		viper.GetString("db.host"),
		viper.GetString("db.port"),
		viper.GetString("db.username"),
		viper.GetString("db.password"),
		viper.GetString("db.database"),
	)
}

// gormConfig is shared by both dialects. Snapshots are written inside their
// own transaction, so the per-statement default one is skipped.
func gormConfig(prepare bool) *gorm.Config {
	return &gorm.Config{
		PrepareStmt:            prepare,
		SkipDefaultTransaction: true,
		CreateBatchSize:        500,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}
}

// GetPostgresDB opens the Postgres archive.
func (m *Manager) GetPostgresDB() (*gorm.DB, error) {
	m.Logger.Debug().
		Str("host", viper.GetString("db.host")).
		Str("database", viper.GetString("db.database")).
		Msg("Connecting to Postgres archive")

	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  PostgresDSN(),
		PreferSimpleProtocol: true,
	}), gormConfig(false))
}

// SchemaVersion is written to PRAGMA user_version of every SQLite archive.
const SchemaVersion = 1

// sqlitePragmas tunes the connection. A file archive keeps WAL with normal
// syncs so a crash never loses a finished snapshot; an in-memory archive is
// only as durable as its next dump anyway.
func sqlitePragmas(inMemory bool) []string {
	pragmas := []string{
		fmt.Sprintf("PRAGMA user_version = %d;", SchemaVersion),
		"PRAGMA cache_size = -32000;",
		"PRAGMA temp_store = MEMORY;",
	}
	if inMemory {
		return append(pragmas, "PRAGMA journal_mode = MEMORY;", "PRAGMA synchronous = OFF;")
	}
	return append(pragmas, "PRAGMA journal_mode = WAL;", "PRAGMA synchronous = NORMAL;")
}

// GetSqliteDB opens the SQLite archive at path, or a shared in-memory
// database when path is empty.
func (m *Manager) GetSqliteDB(path string) (*gorm.DB, error) {
	dsn := path
	if path == "" {
		dsn = memoryDSN
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(true))
	if err != nil {
		return nil, err
	}
	m.Logger.Info().Str("dsn", dsn).Msg("Opened SQLite archive")

	for _, pragma := range sqlitePragmas(path == "") {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting %q: %w", pragma, err)
		}
	}

	return db, nil
}

// ErrNotConnected is returned by operations that need an open database.
var ErrNotConnected = errors.New("database not connected")

// Setup migrates the archive tables.
func (m *Manager) Setup() error {
	if m.DB == nil {
		return ErrNotConnected
	}
	dialect := m.DB.Dialector.Name()
	if err := Migrate(m.DB); err != nil {
		m.IsValid = false
		return err
	}
	m.Logger.Info().Str("dialect", dialect).Int("schemaVersion", SchemaVersion).Msg("Archive schema migrated")
	return nil
}

// DumpMemoryToDisk vacuums the in-memory database to the given file.
func (m *Manager) DumpMemoryToDisk(path string) error {
	start := time.Now()
	if err := DumpMemoryDBToDisk(m.DB, path); err != nil {
		return err
	}
	m.Logger.Debug().Str("path", path).Dur("duration", time.Since(start)).Msg("Dumped memory DB to disk")
	return nil
}

// Close closes the underlying connection pool.
func (m *Manager) Close() error {
	if m.SqlDB == nil {
		return nil
	}
	m.IsValid = false
	return m.SqlDB.Close()
}

// Migrate creates or updates every archive table. On Postgres the PostGIS
// extension is installed first so base locations get a geometry column.
func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(`CREATE Extension IF NOT EXISTS postgis;`).Error; err != nil {
			return fmt.Errorf("failed to create PostGIS extension: %w", err)
		}
	}

	if err := db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// DumpMemoryDBToDisk vacuums the in-memory database to a disk file.
func DumpMemoryDBToDisk(db *gorm.DB, sqliteFilePath string) error {
	if sqliteFilePath == "" {
		return errors.New("sqlite file path not set")
	}
	if db == nil {
		return ErrNotConnected
	}

	// VACUUM INTO refuses to overwrite
	if err := os.Remove(sqliteFilePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error removing existing DB file: %w", err)
	}

	if err := db.Exec("VACUUM INTO ?", sqliteFilePath).Error; err != nil {
		return fmt.Errorf("error dumping memory DB to disk: %w", err)
	}
	return nil
}
