package parser

import (
	"maps"
	"slices"

	"github.com/oxcstats/soldierstats/internal/geo"
	"github.com/oxcstats/soldierstats/pkg/core"
)

// ParseBases builds the base list. Active soldiers come from roster, which must
// have been assembled from the same game state; a nil roster is assembled here.
// Soldiers in transfers go through the same construction, tagged "In Transit".
func (p *Parser) ParseBases(g *GameState, missions map[int]*core.Mission, roster *Roster) ([]core.Base, []error, error) {
	if roster == nil {
		var err error
		if roster, err = p.ParseRoster(g, missions); err != nil {
			return nil, nil, err
		}
	}

	bases := make([]core.Base, 0, len(g.Bases))
	var rejected []error

	for i, b := range g.Bases {
		base := core.Base{
			Name:          b.Name,
			Location:      geo.PositionFromRadians(b.Lon, b.Lat),
			Facilities:    make([]core.Facility, 0, len(b.Facilities)),
			Storage:       make(map[string]int, len(b.Items)),
			Research:      make([]core.ResearchProject, 0, len(b.Research)),
			Manufacturing: make([]core.ManufacturingProject, 0, len(b.Productions)),
			Transfers:     make([]core.Transfer, 0, len(b.Transfers)),
			Soldiers:      slices.Clone(roster.BaseSoldiers(i)),
		}
		if base.Soldiers == nil {
			base.Soldiers = []core.Soldier{}
		}
		maps.Copy(base.Storage, b.Items)

		for _, f := range b.Facilities {
			base.Facilities = append(base.Facilities, core.Facility{
				Type:      f.Type,
				X:         f.X,
				Y:         f.Y,
				BuildTime: f.BuildTime,
			})
		}

		for _, r := range b.Research {
			base.Research = append(base.Research, core.ResearchProject{
				Project:  r.Project,
				Assigned: r.Assigned,
				Spent:    r.Spent,
				Cost:     r.Cost,
			})
		}

		for _, m := range b.Productions {
			base.Manufacturing = append(base.Manufacturing, core.ManufacturingProject{
				Item:     m.Item,
				Assigned: m.Assigned,
				Spent:    m.Spent,
				Amount:   m.Amount,
				Infinite: m.Infinite,
			})
		}

		for _, t := range b.Transfers {
			transfer, err := p.parseTransfer(t, missions)
			if err != nil {
				if p.reject(&rejected, err) {
					continue
				}
				return nil, nil, err
			}
			base.Transfers = append(base.Transfers, transfer)
		}

		bases = append(bases, base)
	}

	p.logger.Debug("Assembled bases", "bases", len(bases), "rejected", len(rejected))
	return bases, rejected, nil
}

// parseTransfer keeps the soldier and item payloads mutually exclusive: a
// soldier transfer ignores any item fields. A transfer carrying nothing is
// kept as is.
func (p *Parser) parseTransfer(t TransferEntry, missions map[int]*core.Mission) (core.Transfer, error) {
	transfer := core.Transfer{Hours: t.Hours}

	if t.Soldier.Kind != 0 {
		soldier, err := p.ParseSoldier(&t.Soldier, core.BaseInTransit, missions)
		if err != nil {
			return transfer, err
		}
		transfer.Soldier = &soldier
		return transfer, nil
	}

	transfer.ItemID = t.ItemID
	if t.ItemID != "" {
		transfer.ItemQty = t.ItemQty
	}
	transfer.Scientists = t.Scientists
	transfer.Engineers = t.Engineers
	return transfer, nil
}
