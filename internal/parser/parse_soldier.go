package parser

import (
	"errors"
	"fmt"

	"github.com/oxcstats/soldierstats/pkg/core"
	"gopkg.in/yaml.v3"
)

// ParseSoldier builds a Soldier from one raw soldier record and tags it with
// the given base name. A missing id or malformed stats block is a SchemaError.
func (p *Parser) ParseSoldier(node *yaml.Node, base string, missions map[int]*core.Mission) (core.Soldier, error) {
	var soldier core.Soldier

	var entry SoldierEntry
	if err := node.Decode(&entry); err != nil {
		return soldier, &core.SchemaError{
			Record: fmt.Sprintf("soldier at line %d", node.Line),
			Field:  "soldier",
			Reason: err.Error(),
		}
	}

	if entry.ID == nil {
		return soldier, &core.SchemaError{
			Record: fmt.Sprintf("soldier %q at line %d", entry.Name, node.Line),
			Field:  "id",
			Reason: "missing",
		}
	}
	record := fmt.Sprintf("soldier %d", *entry.ID)

	initial, err := p.ParseStats(&entry.InitialStats)
	if err != nil {
		return soldier, withRecord(err, record, "initialStats")
	}
	current, err := p.ParseStats(&entry.CurrentStats)
	if err != nil {
		return soldier, withRecord(err, record, "currentStats")
	}

	soldier.ID = *entry.ID
	soldier.Type = entry.Type
	soldier.Name = entry.Name
	soldier.Nationality = entry.Nationality
	soldier.Gender = entry.Gender
	soldier.Rank = entry.Rank
	soldier.Missions = entry.Missions
	soldier.Kills = entry.Kills
	soldier.Base = base
	if entry.Craft.Type != "" {
		soldier.Craft = fmt.Sprintf("%s-%d", entry.Craft.Type, entry.Craft.ID)
	}
	soldier.InitialStats = initial
	soldier.CurrentStats = current
	soldier.Equipment = parseEquipment(entry.EquipmentLayout)
	soldier.Death = parseDeath(entry.Death)
	soldier.Record = p.ParseServiceRecord(entry.Diary, missions)
	soldier.Recovery = entry.Recovery
	soldier.Training = entry.Training
	soldier.PsiTraining = entry.PsiTraining

	return soldier, nil
}

// withRecord attaches soldier context to a stats SchemaError.
func withRecord(err error, record, field string) error {
	var se *core.SchemaError
	if errors.As(err, &se) {
		out := *se
		out.Record = record
		out.Field = field + "." + se.Field
		return &out
	}
	return fmt.Errorf("%s: %s: %w", record, field, err)
}

func parseEquipment(layout []LayoutEntry) []core.EquipmentItem {
	items := make([]core.EquipmentItem, 0, len(layout))
	for _, l := range layout {
		item := core.EquipmentItem{
			ItemType: l.ItemType,
			Slot:     l.Slot,
			SlotX:    l.SlotX,
			SlotY:    l.SlotY,
			AmmoItem: l.AmmoItem,
		}
		if len(l.AmmoItemSlots) > 0 {
			item.AmmoSlots = append([]string(nil), l.AmmoItemSlots...)
		}
		if l.FuseTimer != nil {
			fuse := *l.FuseTimer
			item.FuseTimer = &fuse
		}
		items = append(items, item)
	}
	return items
}

// parseDeath normalizes a death record. A record without a time gets the
// Unknown marker instead of failing.
func parseDeath(d *DeathEntry) *core.DeathInfo {
	if d == nil {
		return nil
	}

	info := &core.DeathInfo{Time: core.DeathTimeUnknown}
	if d.Time != nil {
		info.Time = core.FormatDeathTime(d.Time.Year, d.Time.Month, d.Time.Day, d.Time.Hour, d.Time.Minute)
	}
	if d.Cause != nil {
		cause := &core.DeathCause{
			Race:       d.Cause.Race,
			Rank:       d.Cause.Rank,
			Weapon:     d.Cause.Weapon,
			WeaponAmmo: d.Cause.WeaponAmmo,
		}
		if d.Cause.Mission != nil {
			id := *d.Cause.Mission
			cause.MissionID = &id
		}
		info.Cause = cause
	}
	return info
}
