package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// captureConsole points the console sink at a buffer for the duration of the test.
func captureConsole(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	orig := console
	console = &buf
	t.Cleanup(func() { console = orig })
	return &buf
}

func TestSetup_Sinks(t *testing.T) {
	tests := []struct {
		name  string
		file  bool
		check func(t *testing.T, file, console string)
	}{
		{
			name: "file only",
			file: true,
			check: func(t *testing.T, file, console string) {
				assert.Contains(t, file, "Loaded save")
				assert.Empty(t, console)
			},
		},
		{
			name: "console fallback",
			check: func(t *testing.T, file, console string) {
				assert.Empty(t, file)
				assert.Contains(t, console, "Loaded save")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureConsole(t)

			var fileBuf bytes.Buffer
			m := NewSlogManager()
			if tt.file {
				m.Setup(&fileBuf, "info", nil)
			} else {
				m.Setup(nil, "info", nil)
			}
			m.Logger().Info("Loaded save", "soldiers", 6)

			tt.check(t, fileBuf.String(), out.String())
		})
	}
}

func TestSetup_Levels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{"debug", true, true},
		{"INFO", false, true},
		{"warn", false, false},
		{"", false, true},
		{"verbose", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			m := NewSlogManager()
			m.Setup(&buf, tt.level, nil)

			m.Logger().Debug("parsed stats")
			m.Logger().Info("assembled roster")

			assert.Equal(t, tt.wantDebug, strings.Contains(buf.String(), "parsed stats"))
			assert.Equal(t, tt.wantInfo, strings.Contains(buf.String(), "assembled roster"))
		})
	}
}

func TestSetup_WithJSONWriter(t *testing.T) {
	var fileBuf, jsonBuf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&fileBuf, "info", nil, WithJSONWriter(&jsonBuf), WithJSONWriter(nil))
	m.Logger().Info("to graylog", "soldiers", 6)

	assert.Contains(t, fileBuf.String(), "to graylog")

	lines := strings.Split(strings.TrimSpace(jsonBuf.String()), "\n")
	require.Len(t, lines, 2, "init line plus one record")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.Equal(t, "to graylog", entry["msg"])
	assert.Equal(t, float64(6), entry["soldiers"])
}

func TestSetup_WithContextProvider(t *testing.T) {
	var buf bytes.Buffer
	save := "none"
	m := NewSlogManager()
	m.Setup(&buf, "info", nil, WithContextProvider(func() []slog.Attr {
		return []slog.Attr{slog.String("save", save)}
	}))

	m.Logger().Info("before load")
	save = "Sample Campaign"
	m.Logger().InfoContext(ContextWithAttrs(context.Background(), slog.String("command", "csv")), "after load")

	out := buf.String()
	assert.Contains(t, out, "save=none")
	assert.Contains(t, out, `command=csv save="Sample Campaign"`)
}

func TestSetup_ReplacesLogger(t *testing.T) {
	var first, second bytes.Buffer
	m := NewSlogManager()

	m.Setup(&first, "info", nil)
	m.Setup(&second, "info", nil)
	m.Logger().Info("after switch")

	assert.NotContains(t, first.String(), "after switch")
	assert.Contains(t, second.String(), "after switch")
}

func TestSetup_WithOTelProvider(t *testing.T) {
	provider := sdklog.NewLoggerProvider()
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "info", provider)
	m.Logger().Info("otel integrated")

	assert.Contains(t, buf.String(), "otel integrated")
	assert.NoError(t, m.Flush(context.Background()))
}

func TestSlogManager_BeforeSetup(t *testing.T) {
	m := NewSlogManager()
	assert.Equal(t, slog.Default(), m.Logger())
	assert.NoError(t, m.Flush(context.Background()))
	m.WriteLog("fn", "dropped", "info")
}

func TestWriteLog(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"debug", "level=DEBUG"},
		{"info", "level=INFO"},
		{"WARN", "level=WARN"},
		{"error", "level=ERROR"},
		{"unknown", "level=INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			m := NewSlogManager()
			m.Setup(&buf, "debug", nil)

			m.WriteLog("sqlite:StoreSnapshot", "dump failed", tt.level)

			line := buf.String()[strings.Index(buf.String(), "\n")+1:]
			assert.Contains(t, line, tt.want)
			assert.Contains(t, line, "function=sqlite:StoreSnapshot")
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"Info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"warn+2", slog.LevelWarn + 2},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"trace", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}
