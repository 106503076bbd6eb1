package parser

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oxcstats/soldierstats/internal/savefile"
	"github.com/oxcstats/soldierstats/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var samplePath = filepath.Join("testdata", "sample.sav")

func newTestParser() *Parser {
	p := NewParser(slog.Default(), true)
	return p
}

func loadSample(t *testing.T) (game, meta *savefile.Document) {
	t.Helper()
	game, meta, err := savefile.LoadBoth(samplePath)
	require.NoError(t, err)
	return game, meta
}

func sampleGame(t *testing.T) *GameState {
	t.Helper()
	game, _ := loadSample(t)
	g, err := newTestParser().ParseGame(game)
	require.NoError(t, err)
	return g
}

// mustNode parses a YAML snippet into the node of its single document.
func mustNode(t *testing.T, s string) *yaml.Node {
	t.Helper()
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(s), &doc))
	require.NotEmpty(t, doc.Content)
	return doc.Content[0]
}

func mustGame(t *testing.T, s string) *GameState {
	t.Helper()
	var g GameState
	require.NoError(t, yaml.Unmarshal([]byte(s), &g))
	return &g
}

func TestNewParser(t *testing.T) {
	p := newTestParser()
	require.NotNil(t, p)

	p = NewParser(nil, false)
	require.NotNil(t, p.logger)
	assert.False(t, p.skipMalformed)
}

func TestParseSaveInfo(t *testing.T) {
	_, meta := loadSample(t)

	info, err := newTestParser().ParseSaveInfo(meta)
	require.NoError(t, err)
	assert.Equal(t, "Sample Campaign", info.Name)
	assert.Equal(t, "Extended 7.9", info.Version)
	assert.Equal(t, "Extended", info.Engine)
	assert.Equal(t, "1999-06-14 09:12", info.Time)
	assert.Equal(t, []string{"xcom1", "x-com-files", "piratez"}, info.ModIDs())
}

func TestParseSaveInfo_NilDocument(t *testing.T) {
	_, err := newTestParser().ParseSaveInfo(nil)
	assert.Error(t, err)

	_, err = newTestParser().ParseGame(nil)
	assert.Error(t, err)
}

func TestParse_Sample(t *testing.T) {
	game, meta := loadSample(t)

	snap, err := newTestParser().Parse(game, meta, samplePath)
	require.NoError(t, err)

	assert.Equal(t, samplePath, snap.Source)
	assert.Equal(t, 2, snap.Difficulty)
	assert.Equal(t, "Sample Campaign", snap.Info.Name)
	assert.Len(t, snap.Roster, 6)
	assert.Len(t, snap.Missions, 25)
	assert.Len(t, snap.Bases, 2)
	assert.Empty(t, snap.Rejected)

	names := make([]string, 0, 4)
	for _, s := range snap.MissionParticipants(102) {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Ilyas Idrissi", "Valentin Makarov", "Ethan Ferguson", "Haruitike"}, names)

	ilyas, ok := snap.SoldierByID(1)
	require.True(t, ok)
	assert.Len(t, snap.SoldierMissions(ilyas), 22)
}

func TestParse_Deterministic(t *testing.T) {
	game, meta := loadSample(t)
	p := newTestParser()

	first, err := p.Parse(game, meta, samplePath)
	require.NoError(t, err)
	second, err := p.Parse(game, meta, samplePath)
	require.NoError(t, err)

	assert.Equal(t, first.Roster, second.Roster)
	assert.Equal(t, first.Participants, second.Participants)
	assert.Equal(t, first.Bases, second.Bases)
}

func TestParse_StrictModeAborts(t *testing.T) {
	game, meta, err := savefile.ReadBoth(strings.NewReader(`name: strict
---
difficulty: 0
bases:
  - name: Alpha
    soldiers:
      - {id: 1, name: Broken, initialStats: [1, 2, 3], currentStats: [1, 2, 3]}
`), "inline")
	require.NoError(t, err)

	_, err = NewParser(slog.Default(), false).Parse(game, meta, "inline")
	var schemaErr *core.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "soldier 1", schemaErr.Record)

	snap, err := NewParser(slog.Default(), true).Parse(game, meta, "inline")
	require.NoError(t, err)
	assert.Empty(t, snap.Roster)
	require.Len(t, snap.Rejected, 1)
}

func TestParseSaveInfo_ModEntries(t *testing.T) {
	tests := []struct {
		name string
		meta string
		want []string
	}{
		{
			name: "unquoted entries read as mappings",
			meta: "name: m\nmods:\n  - xcom1 ver: 1.0\n  - x-com-files ver: 3.4.1\n  - piratez\n",
			want: []string{"xcom1 ver: 1.0", "x-com-files ver: 3.4.1", "piratez"},
		},
		{
			name: "quoted entries",
			meta: "name: m\nmods:\n  - \"xcom1 ver: 1.0\"\n  - 'piratez ver: 2'\n",
			want: []string{"xcom1 ver: 1.0", "piratez ver: 2"},
		},
		{
			name: "nested entry skipped",
			meta: "name: m\nmods:\n  - [a, b]\n  - xcom1\n",
			want: []string{"xcom1"},
		},
		{
			name: "no mods",
			meta: "name: m\n",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game, meta, err := savefile.ReadBoth(strings.NewReader(tt.meta+"---\ndifficulty: 0\n"), "inline")
			require.NoError(t, err)

			info, err := newTestParser().ParseSaveInfo(meta)
			require.NoError(t, err)
			assert.Equal(t, tt.want, info.Mods)

			_, err = newTestParser().Parse(game, meta, "inline")
			assert.NoError(t, err)
		})
	}
}

func TestParseGame_MistypedFieldTolerated(t *testing.T) {
	game, meta, err := savefile.ReadBoth(strings.NewReader(`name: loose
time: {year: soon}
---
difficulty: 1
bases:
  - name: Alpha
    soldiers:
      - {id: 1, name: Kept, initialStats: `+seqStats+`, currentStats: `+seqStats+`}
    transfers:
      - {hours: 3, itemId: STR_RIFLE, itemQty: "5"}
`), "inline")
	require.NoError(t, err)

	g, err := newTestParser().ParseGame(game)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Difficulty)
	require.Len(t, g.Bases, 1)
	require.Len(t, g.Bases[0].Transfers, 1)
	assert.Equal(t, "STR_RIFLE", g.Bases[0].Transfers[0].ItemID)
	assert.Zero(t, g.Bases[0].Transfers[0].ItemQty)

	snap, err := newTestParser().Parse(game, meta, "inline")
	require.NoError(t, err)
	assert.Equal(t, "loose", snap.Info.Name)
	assert.Len(t, snap.Roster, 1)
}
