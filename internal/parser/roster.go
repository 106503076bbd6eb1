package parser

import (
	"github.com/oxcstats/soldierstats/pkg/core"
	"gopkg.in/yaml.v3"
)

// Roster is the assembled soldier list of one save.
type Roster struct {
	// Soldiers holds active-duty soldiers in base-list order, then the dead.
	Soldiers []core.Soldier

	// Participants maps a mission id to indices into Soldiers.
	Participants map[int][]int

	// Rejected holds soldiers skipped under the malformed-record policy.
	Rejected []error

	// baseSpans[i] is the [start, end) range of Soldiers that belong to the
	// i-th base of the game document.
	baseSpans []span
}

type span struct {
	start, end int
}

// BaseSoldiers returns the active-duty soldiers of the i-th base in document order.
func (r *Roster) BaseSoldiers(i int) []core.Soldier {
	if i < 0 || i >= len(r.baseSpans) {
		return nil
	}
	s := r.baseSpans[i]
	return r.Soldiers[s.start:s.end:s.end]
}

// ParseRoster builds the full roster and its participant index from the game
// state. The result depends only on the document, so repeated runs are identical.
func (p *Parser) ParseRoster(g *GameState, missions map[int]*core.Mission) (*Roster, error) {
	r := &Roster{baseSpans: make([]span, 0, len(g.Bases))}

	for _, b := range g.Bases {
		start := len(r.Soldiers)
		if err := p.appendSoldiers(r, b.Soldiers, b.Name, missions); err != nil {
			return nil, err
		}
		r.baseSpans = append(r.baseSpans, span{start: start, end: len(r.Soldiers)})
	}

	if err := p.appendSoldiers(r, g.DeadSoldiers, core.BaseKIA, missions); err != nil {
		return nil, err
	}

	r.Participants = BuildParticipants(r.Soldiers)

	p.logger.Debug("Assembled roster",
		"soldiers", len(r.Soldiers),
		"bases", len(g.Bases),
		"dead", len(g.DeadSoldiers),
		"rejected", len(r.Rejected))

	return r, nil
}

func (p *Parser) appendSoldiers(r *Roster, nodes []yaml.Node, base string, missions map[int]*core.Mission) error {
	for i := range nodes {
		soldier, err := p.ParseSoldier(&nodes[i], base, missions)
		if err != nil {
			if p.reject(&r.Rejected, err) {
				continue
			}
			return err
		}
		r.Soldiers = append(r.Soldiers, soldier)
	}
	return nil
}

// BuildParticipants inverts each soldier's resolved mission ids into a
// mission id -> roster index map. Participants keep roster order and a soldier
// appears at most once per mission.
func BuildParticipants(soldiers []core.Soldier) map[int][]int {
	participants := make(map[int][]int)
	for i := range soldiers {
		seen := make(map[int]struct{}, len(soldiers[i].Record.MissionIDs))
		for _, id := range soldiers[i].Record.MissionIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			participants[id] = append(participants[id], i)
		}
	}
	return participants
}
