package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewZerolog_Levels(t *testing.T) {
	tests := []struct {
		level    string
		debug    bool
		infoSeen bool
	}{
		{"debug", true, true},
		{"INFO", false, true},
		{"error", false, false},
		{"", false, true},
		{"bogus", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewZerolog(&buf, tt.level)

			log.Debug().Msg("debug line")
			log.Info().Str("table", "soldiers").Msg("info line")

			out := buf.String()
			assert.Equal(t, tt.debug, bytes.Contains(buf.Bytes(), []byte("debug line")), out)
			assert.Equal(t, tt.infoSeen, bytes.Contains(buf.Bytes(), []byte("info line")), out)
		})
	}
}

func TestNewZerolog_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, "info")
	log.Info().Str("path", "soldiers.db").Msg("Opened SQLite archive")

	assert.Contains(t, buf.String(), "Opened SQLite archive")
	assert.Contains(t, buf.String(), "path=soldiers.db")
}

func TestNewZerolog_NilWriterUsesConsole(t *testing.T) {
	out := captureConsole(t)

	log := NewZerolog(nil, "info")
	log.Info().Msg("console line")

	assert.Contains(t, out.String(), "console line")
}
