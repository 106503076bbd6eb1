package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oxcstats/soldierstats/internal/config"
	"github.com/oxcstats/soldierstats/internal/influx"
	"github.com/oxcstats/soldierstats/internal/logging"
	intOtel "github.com/oxcstats/soldierstats/internal/otel"
	"github.com/oxcstats/soldierstats/internal/parser"
	"github.com/oxcstats/soldierstats/internal/session"
	"github.com/oxcstats/soldierstats/internal/storage"
	"github.com/oxcstats/soldierstats/internal/translation"

	"github.com/rs/zerolog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// Build info, overridable with -ldflags "-X main.BuildDate=...".
var (
	CurrentVersion string = "0.1.0"
	BuildDate      string = "unknown"

	AppName string = "soldier_stats"
)

// Process-wide logging state, set up once per command by setupLogging.
var (
	LogFilePath string
	LogFile     *os.File

	SlogManager *logging.SlogManager
	Logger      *slog.Logger

	// OTelProvider is nil unless otel.enabled is set and the provider came up.
	OTelProvider *intOtel.Provider

	gelfWriter io.WriteCloser

	SessionStartTime = time.Now()
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run dispatches one command and returns the process exit code.
func run(args []string, out io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(out, "No arguments provided.")
		printUsage(out)
		return 2
	}

	name := strings.ToLower(args[0])
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(out, "Unknown command %q.\n", args[0])
		printUsage(out)
		return 2
	}
	if len(args)-1 < cmd.minArgs {
		fmt.Fprintf(out, "Usage: %s %s %s\n", AppName, name, cmd.usage)
		return 2
	}

	setupLogging()
	defer teardownLogging()

	Logger.Info("Starting up...", "version", CurrentVersion, "buildDate", BuildDate, "command", name)

	a, err := newApp(cmd.archive)
	if err != nil {
		Logger.Error("Failed to initialize", "error", err)
		fmt.Fprintln(out, "Error:", err)
		return 1
	}
	defer a.Close()

	ctx := logging.ContextWithAttrs(context.Background(), slog.String("command", name))
	if err := cmd.run(a, ctx, args[1:], out); err != nil {
		Logger.Error("Command failed", "command", name, "error", err)
		fmt.Fprintln(out, "Error:", err)
		return 1
	}
	return 0
}

// configDirs lists where the config file is looked up: the working directory,
// then the directory of the executable.
func configDirs() []string {
	dirs := []string{"."}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	return dirs
}

func loadConfig() error {
	var errs []error
	for _, dir := range configDirs() {
		err := config.Load(dir)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// setupLogging brings up logging in two stages: console first so config
// problems are visible, then the session log file with optional OTel and GELF.
func setupLogging() {
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(nil, "info", nil)
	Logger = SlogManager.Logger()

	config.SetDefaults()
	if err := loadConfig(); err != nil {
		Logger.Warn("No usable config file, running on defaults", "error", err)
	}

	var err error
	LogFile, LogFilePath, err = logging.OpenLogFile(config.GetString("logsDir"), AppName, SessionStartTime)
	if err != nil {
		Logger.Error("Session log file unavailable, logging to console", "error", err, "path", LogFilePath)
		LogFile = nil
	}

	var sink io.Writer
	if LogFile != nil {
		sink = LogFile
	}
	OTelProvider = newOTelProvider(sink)

	var opts []logging.SetupOption
	if config.GetBool("graylog.enabled") {
		addr := config.GetString("graylog.address")
		gelfWriter, err = logging.NewGelfWriter(addr)
		if err != nil {
			Logger.Error("Failed to connect to Graylog", "error", err, "address", addr)
		} else {
			opts = append(opts, logging.WithJSONWriter(gelfWriter))
		}
	}
	opts = append(opts, logging.WithContextProvider(currentSaveAttrs))

	var otelLogs *sdklog.LoggerProvider
	if OTelProvider != nil {
		otelLogs = OTelProvider.LoggerProvider()
	}
	SlogManager.Setup(sink, config.GetString("logLevel"), otelLogs, opts...)
	Logger = SlogManager.Logger()
	Logger.Debug("Log file", "path", LogFilePath)
}

// newOTelProvider starts the OTel provider when otel.enabled is set. Records
// go to sink and, when configured, the OTLP endpoint.
func newOTelProvider(sink io.Writer) *intOtel.Provider {
	cfg := config.GetOTelConfig()
	if !cfg.Enabled {
		return nil
	}
	p, err := intOtel.New(intOtel.Config{
		Enabled:      true,
		ServiceName:  cfg.ServiceName,
		BatchTimeout: cfg.BatchTimeout,
		LogWriter:    sink,
		Endpoint:     cfg.Endpoint,
		Insecure:     cfg.Insecure,
	})
	if err != nil {
		Logger.Error("OTel disabled", "error", err)
		return nil
	}
	return p
}

func teardownLogging() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if OTelProvider != nil {
		if err := OTelProvider.Shutdown(ctx); err != nil {
			Logger.Warn("Failed to shut down OTel provider", "error", err)
		}
	}
	if gelfWriter != nil {
		_ = gelfWriter.Close()
	}
	if LogFile != nil {
		_ = LogFile.Close()
	}
}

// currentStore is read by the log context provider.
var currentStore *session.Store

func currentSaveAttrs() []slog.Attr {
	if currentStore == nil {
		return nil
	}
	return currentStore.LogAttrs()
}

// zerologWriter is where infrastructure managers log: the session log file,
// or the console when it could not be opened.
func zerologWriter() io.Writer {
	if LogFile != nil {
		return LogFile
	}
	return nil
}

// app holds the services one command needs.
type app struct {
	store      *session.Store
	translator *translation.Translator
	backend    storage.Backend
	influx     *influx.Manager
	logger     *slog.Logger
}

// newApp wires the parser, translations and session store. Archiving
// commands also get the configured storage backend and, when enabled, the
// InfluxDB recorder.
func newApp(archive bool) (*app, error) {
	a := &app{logger: Logger}
	dbLog := logging.NewZerolog(zerologWriter(), config.GetString("logLevel"))

	a.translator = translation.New(config.GetString("language"), Logger)
	if files := config.GetStringSlice("translations.files"); len(files) > 0 {
		loaded := a.translator.LoadFiles(files)
		Logger.Info("Loaded translations", "language", a.translator.Language(), "files", loaded, "keys", a.translator.Len())
	}

	var opts []session.Option
	if OTelProvider != nil {
		opts = append(opts, session.WithMeter(OTelProvider.Meter(logging.InstrumentationName)))
	}
	if config.GetBool("debug.jsonDump") {
		opts = append(opts, session.WithDebugDump(config.GetString("debug.jsonPath")))
	}

	if archive {
		backendOpts, err := a.initArchiving(dbLog)
		if err != nil {
			a.Close()
			return nil, err
		}
		opts = append(opts, backendOpts...)
	}

	p := parser.NewParser(Logger, config.GetBool("parser.skipMalformed"))
	store, err := session.NewStore(p, Logger, opts...)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}
	a.store = store
	currentStore = store
	return a, nil
}

func (a *app) initArchiving(dbLog zerolog.Logger) ([]session.Option, error) {
	var opts []session.Option

	storageCfg := config.GetStorageConfig()
	backend, err := storage.NewBackend(storageCfg, SlogManager, dbLog)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage backend: %w", err)
	}
	if backend != nil {
		if err := backend.Init(); err != nil {
			return nil, fmt.Errorf("failed to initialize %s storage backend: %w", storageCfg.Type, err)
		}
		a.backend = backend
		opts = append(opts, session.WithArchiver(backend))
		Logger.Info("Storage backend initialized", "type", storageCfg.Type)
	}

	if influxCfg := influx.ConfigFromViper(); influxCfg.Enabled {
		m := influx.NewManager(dbLog, influxCfg)
		if err := m.Connect(context.Background()); err != nil {
			Logger.Warn("Failed to set up InfluxDB, load metrics disabled", "error", err)
		} else {
			a.influx = m
			opts = append(opts, session.WithRecorder(m))
		}
	}

	return opts, nil
}

// Close releases the storage backend and metrics writers.
func (a *app) Close() {
	if a.influx != nil {
		if err := a.influx.Close(); err != nil {
			a.logger.Warn("Failed to close InfluxDB manager", "error", err)
		}
	}
	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			a.logger.Warn("Failed to close storage backend", "error", err)
		}
	}
	if currentStore == a.store {
		currentStore = nil
	}
}
