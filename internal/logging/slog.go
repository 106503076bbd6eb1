package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// InstrumentationName identifies log records sent through the OTel bridge.
const InstrumentationName = "soldier-stats"

// console receives log output when no log file is configured. Command output
// goes to stdout, so logs stay on stderr.
var console io.Writer = os.Stderr

// SlogManager owns the application logger. Setup may be called again to
// switch sinks, e.g. from the console to the session log file once the
// config has been read.
type SlogManager struct {
	logger      *slog.Logger
	logProvider *sdklog.LoggerProvider
}

// NewSlogManager returns a manager whose Logger is slog.Default until Setup.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// SetupOption adds an optional sink or decorator to Setup.
type SetupOption func(*setupOptions)

type setupOptions struct {
	jsonSinks []io.Writer
	context   ContextProvider
}

// WithJSONWriter adds a JSON handler writing to w, e.g. a GELF writer. A nil
// writer is ignored.
func WithJSONWriter(w io.Writer) SetupOption {
	return func(o *setupOptions) {
		if w != nil {
			o.jsonSinks = append(o.jsonSinks, w)
		}
	}
}

// WithContextProvider attaches attributes from p to every record.
func WithContextProvider(p ContextProvider) SetupOption {
	return func(o *setupOptions) { o.context = p }
}

// parseLevel accepts the slog level names in any case, including offsets such
// as "warn+2". Anything else means info.
func parseLevel(level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// utcTime renders record times as RFC 3339 in UTC.
func utcTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.TimeKey {
		return a
	}
	if t, ok := a.Value.Any().(time.Time); ok {
		a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
	}
	return a
}

// Setup builds the logger: a text handler on file (the console when file is
// nil), a JSON handler per WithJSONWriter sink, and the OTel bridge when
// provider is set.
func (m *SlogManager) Setup(file io.Writer, level string, provider *sdklog.LoggerProvider, opts ...SetupOption) {
	var o setupOptions
	for _, opt := range opts {
		opt(&o)
	}

	handlerOpts := &slog.HandlerOptions{Level: parseLevel(level), ReplaceAttr: utcTime}

	text := file
	if text == nil {
		text = console
	}
	handlers := []slog.Handler{slog.NewTextHandler(text, handlerOpts)}
	for _, w := range o.jsonSinks {
		handlers = append(handlers, slog.NewJSONHandler(w, handlerOpts))
	}
	if provider != nil {
		handlers = append(handlers, otelslog.NewHandler(InstrumentationName, otelslog.WithLoggerProvider(provider)))
	}

	var h slog.Handler = NewMultiHandler(handlers...)
	if o.context != nil {
		h = NewContextHandler(h, o.context)
	}

	m.logProvider = provider
	m.logger = slog.New(h)
	m.logger.Info("Logging initialized", "level", handlerOpts.Level)
}

// Logger returns the configured logger, or slog.Default before Setup.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Flush forces pending OTel log records out.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider == nil {
		return nil
	}
	return m.logProvider.ForceFlush(ctx)
}

// WriteLog logs msg at the named level, tagged with the calling function.
// Components that only hold the manager use it. Before Setup it does nothing.
func (m *SlogManager) WriteLog(functionName, msg, level string) {
	if m.logger == nil {
		return
	}
	m.logger.Log(context.Background(), parseLevel(level), msg, "function", functionName)
}
