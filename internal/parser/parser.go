package parser

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/oxcstats/soldierstats/internal/savefile"
	"github.com/oxcstats/soldierstats/pkg/core"
	"gopkg.in/yaml.v3"
)

// Parser provides pure document -> core model conversion.
// It has zero external dependencies beyond a logger.
type Parser struct {
	logger *slog.Logger

	// skipMalformed drops soldiers that fail schema checks instead of
	// aborting the whole load.
	skipMalformed bool
}

// NewParser creates a new parser with only a logger dependency
func NewParser(logger *slog.Logger, skipMalformed bool) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		logger:        logger,
		skipMalformed: skipMalformed,
	}
}

// ParseGame decodes the game document into its raw schema. A field of the
// wrong type keeps its zero value and is logged; soldiers and mission ids are
// checked later, record by record.
func (p *Parser) ParseGame(doc *savefile.Document) (*GameState, error) {
	if doc == nil {
		return nil, errors.New("game document is nil")
	}
	var g GameState
	if err := p.decodeTolerant(doc, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// ParseSaveInfo decodes the metadata document. Mistyped fields are tolerated
// the same way as in ParseGame.
func (p *Parser) ParseSaveInfo(doc *savefile.Document) (core.SaveInfo, error) {
	var info core.SaveInfo
	if doc == nil {
		return info, errors.New("meta document is nil")
	}
	var m MetaInfo
	if err := p.decodeTolerant(doc, &m); err != nil {
		return info, err
	}
	info.Name = m.Name
	info.Version = m.Version
	info.Engine = m.Engine
	info.Mods = p.modEntries(m.Mods)
	if m.Time.Year > 0 {
		info.Time = core.FormatDeathTime(m.Time.Year, m.Time.Month, m.Time.Day, m.Time.Hour, m.Time.Minute)
	}
	return info, nil
}

// Parse assembles a complete snapshot from the two documents of a save stream.
// Nothing is returned on failure, so callers never see a partial model.
func (p *Parser) Parse(game, meta *savefile.Document, source string) (*core.Snapshot, error) {
	info, err := p.ParseSaveInfo(meta)
	if err != nil {
		return nil, fmt.Errorf("error parsing save info: %w", err)
	}

	g, err := p.ParseGame(game)
	if err != nil {
		return nil, fmt.Errorf("error parsing game state: %w", err)
	}

	missions, rejected := p.ParseMissions(g)

	roster, err := p.ParseRoster(g, missions)
	if err != nil {
		return nil, fmt.Errorf("error assembling roster: %w", err)
	}
	rejected = append(rejected, roster.Rejected...)

	bases, baseRejected, err := p.ParseBases(g, missions, roster)
	if err != nil {
		return nil, fmt.Errorf("error assembling bases: %w", err)
	}
	rejected = append(rejected, baseRejected...)

	snap := core.NewSnapshot(source, info, g.Difficulty, roster.Soldiers, missions, roster.Participants, bases, rejected)

	for _, id := range snap.DuplicateSoldierIDs() {
		p.logger.Warn("Duplicate soldier id in save, lookups resolve to first occurrence",
			"soldierID", id,
			"source", source)
	}

	p.logger.Debug("Parsed save",
		"source", source,
		"soldiers", len(snap.Roster),
		"missions", len(snap.Missions),
		"bases", len(snap.Bases),
		"rejected", len(snap.Rejected))

	return snap, nil
}

// decodeTolerant decodes doc into v. yaml.v3 keeps decoding past type
// mismatches and reports them all in one TypeError; those are logged and
// dropped. Any other error is returned.
func (p *Parser) decodeTolerant(doc *savefile.Document, v any) error {
	err := doc.Decode(v)
	var typeErr *yaml.TypeError
	if err == nil || !errors.As(err, &typeErr) {
		return err
	}
	for _, detail := range typeErr.Errors {
		p.logger.Warn("Ignoring mistyped field", "section", string(doc.Section), "detail", detail)
	}
	return nil
}

// modEntries flattens the mods list. An unquoted entry such as
// `- xcom1 ver: 1.0` is read by YAML as a one-pair mapping and is joined back
// into "xcom1 ver: 1.0".
func (p *Parser) modEntries(nodes []yaml.Node) []string {
	mods := make([]string, 0, len(nodes))
	for i := range nodes {
		n := &nodes[i]
		switch {
		case n.Kind == yaml.ScalarNode:
			mods = append(mods, n.Value)
		case n.Kind == yaml.MappingNode && len(n.Content) == 2 &&
			n.Content[0].Kind == yaml.ScalarNode && n.Content[1].Kind == yaml.ScalarNode:
			mods = append(mods, n.Content[0].Value+": "+n.Content[1].Value)
		default:
			p.logger.Warn("Skipping unreadable mod entry", "line", n.Line)
		}
	}
	return mods
}

// reject applies the malformed-record policy: it either records err and
// reports true (skip), or reports false and the caller aborts with err.
func (p *Parser) reject(rejected *[]error, err error) bool {
	if !p.skipMalformed {
		return false
	}
	p.logger.Warn("Skipping malformed record", "error", err)
	*rejected = append(*rejected, err)
	return true
}
