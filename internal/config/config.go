package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// FileName is the name of the JSON config file looked up in the config directory.
const FileName = "soldier_stats.cfg.json"

// MemoryConfig holds JSON archive backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds SQLite archive backend settings
type SQLiteConfig struct {
	// Path is the database file. Empty keeps the database in memory and
	// relies on DumpPath for persistence.
	Path     string `json:"path" mapstructure:"path"`
	DumpPath string `json:"dumpPath" mapstructure:"dumpPath"`
}

// WebSocketConfig holds the snapshot push backend settings
type WebSocketConfig struct {
	URL        string        `json:"url" mapstructure:"url"`
	Secret     string        `json:"secret" mapstructure:"secret"`
	AckTimeout time.Duration `json:"ackTimeout" mapstructure:"ackTimeout"`
}

// StorageConfig selects and configures the archive backend
type StorageConfig struct {
	Type      string          `json:"type" mapstructure:"type"`
	Memory    MemoryConfig    `json:"memory" mapstructure:"memory"`
	SQLite    SQLiteConfig    `json:"sqlite" mapstructure:"sqlite"`
	WebSocket WebSocketConfig `json:"websocket" mapstructure:"websocket"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

// ExportConfig holds CSV export settings
type ExportConfig struct {
	CSVPath        string
	RecoveryColumn bool
}

// Load registers defaults and reads FileName from configDir. The defaults stay
// in place when the file cannot be read.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// Defaults lists every config key with its default value.
var Defaults = map[string]any{
	"logLevel": "info",
	"logsDir":  "./logs",

	"language":           "en-US",
	"translations.files": []string{},

	"parser.skipMalformed": true,

	"debug.jsonDump": false,
	"debug.jsonPath": "./data.json",

	"export.csvPath":        "./soldiers.csv",
	"export.recoveryColumn": false,

	"storage.type":                  "memory",
	"storage.memory.outputDir":      "./exports",
	"storage.memory.compressOutput": false,
	"storage.sqlite.path":           "./soldiers.db",
	"storage.sqlite.dumpPath":       "",
	"storage.websocket.url":         "ws://localhost:5000/api/v1/snapshots",
	"storage.websocket.secret":      "",
	"storage.websocket.ackTimeout":  "10s",

	"db.host":     "localhost",
	"db.port":     "5432",
	"db.username": "postgres",
	"db.password": "postgres",
	"db.database": "soldierstats",

	"influx.enabled":       false,
	"influx.host":          "localhost",
	"influx.port":          "8086",
	"influx.protocol":      "http",
	"influx.token":         "supersecrettoken",
	"influx.org":           "soldierstats",
	"influx.backupPath":    "./influx_backup.lp.gz",
	"influx.retentionDays": 0,

	"graylog.enabled": false,
	"graylog.address": "localhost:12201",

	"otel.enabled":      false,
	"otel.serviceName":  "soldier-stats",
	"otel.batchTimeout": "5s",
	"otel.endpoint":     "",
	"otel.insecure":     true,
}

// SetDefaults registers Defaults with viper. Load calls it; callers that run
// without a config file call it directly.
func SetDefaults() {
	for key, value := range Defaults {
		viper.SetDefault(key, value)
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetStringSlice returns a string list config value.
func GetStringSlice(key string) []string {
	return viper.GetStringSlice(key)
}

// GetStorageConfig returns the archive backend configuration.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			Path:     viper.GetString("storage.sqlite.path"),
			DumpPath: viper.GetString("storage.sqlite.dumpPath"),
		},
		WebSocket: WebSocketConfig{
			URL:        viper.GetString("storage.websocket.url"),
			Secret:     viper.GetString("storage.websocket.secret"),
			AckTimeout: viper.GetDuration("storage.websocket.ackTimeout"),
		},
	}
}

// GetOTelConfig returns the OpenTelemetry configuration.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetExportConfig returns the CSV export configuration.
func GetExportConfig() ExportConfig {
	return ExportConfig{
		CSVPath:        viper.GetString("export.csvPath"),
		RecoveryColumn: viper.GetBool("export.recoveryColumn"),
	}
}
