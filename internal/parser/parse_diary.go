package parser

import (
	"github.com/oxcstats/soldierstats/pkg/core"
)

// ParseServiceRecord builds a soldier's service record from its diary. A nil
// diary yields a zero record. Mission ids that are not in the index are dropped.
func (p *Parser) ParseServiceRecord(d *DiaryEntry, missions map[int]*core.Mission) core.ServiceRecord {
	rec := core.ServiceRecord{
		Commendations: []core.Commendation{},
		Kills:         []core.KillEntry{},
		MissionIDs:    []int{},
	}
	if d == nil {
		return rec
	}

	rec.MonthsService = d.MonthsService
	rec.TimesWoundedTotal = d.TimesWoundedTotal
	rec.DaysWoundedTotal = d.DaysWoundedTotal
	switch {
	case d.UnconciousTotal != nil:
		rec.UnconsciousTotal = *d.UnconciousTotal
	case d.UnconsciousTotal != nil:
		rec.UnconsciousTotal = *d.UnconsciousTotal
	}
	rec.ShotsFiredTotal = d.ShotsFiredCounterTotal
	rec.ShotsLandedTotal = d.ShotsLandedCounterTotal
	rec.ShotAtTotal = d.ShotAtCounterTotal
	rec.HitTotal = d.HitCounterTotal
	rec.StatGainTotal = d.StatGainTotal
	rec.LoadoutChangesTotal = d.LoadoutChangesTotal
	rec.ShotByFriendlyTotal = d.TotalShotByFriendlyCounter
	rec.ShotFriendlyTotal = d.TotalShotFriendlyCounter
	rec.RevivedUnitTotal = d.RevivedUnitTotal

	for _, c := range d.Commendations {
		rec.Commendations = append(rec.Commendations, core.Commendation{
			Name:            c.CommendationName,
			Noun:            c.Noun,
			DecorationLevel: c.DecorationLevel,
		})
	}

	for _, k := range d.KillList {
		rec.Kills = append(rec.Kills, core.KillEntry{
			Race:       k.Race,
			Rank:       k.Rank,
			Weapon:     k.Weapon,
			WeaponAmmo: k.WeaponAmmo,
			Faction:    k.Faction,
			Status:     k.Status,
			MissionID:  k.Mission,
			Turn:       k.Turn,
		})
	}

	// ids are kept once, first occurrence wins
	seen := make(map[int]struct{}, len(d.MissionIDList))
	for _, id := range d.MissionIDList {
		if _, ok := missions[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		rec.MissionIDs = append(rec.MissionIDs, id)
	}

	return rec
}
