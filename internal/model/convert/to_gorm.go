// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"encoding/json"

	"github.com/oxcstats/soldierstats/internal/geo"
	"github.com/oxcstats/soldierstats/internal/model"
	"github.com/oxcstats/soldierstats/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

// toJSON marshals v for a JSON column, falling back to empty when v is nil.
func toJSON(v any, empty string) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return datatypes.JSON(empty)
	}
	return datatypes.JSON(data)
}

// CoreToSaveArchive converts the snapshot header to a GORM model.SaveArchive.
// Child rows are built separately so they can be inserted in batches.
func CoreToSaveArchive(snap *core.Snapshot) model.SaveArchive {
	return model.SaveArchive{
		Source:        snap.Source,
		SaveName:      snap.Info.Name,
		Version:       snap.Info.Version,
		Engine:        snap.Info.Engine,
		GameTime:      snap.Info.Time,
		Difficulty:    snap.Difficulty,
		Mods:          toJSON(snap.Info.ModIDs(), "[]"),
		LoadedAt:      snap.LoadedAt,
		SoldierCount:  len(snap.Roster),
		MissionCount:  len(snap.Missions),
		BaseCount:     len(snap.Bases),
		RejectedCount: len(snap.Rejected),
	}
}

// CoreToBase converts a core.Base to a GORM model.Base. An unprojectable
// location is stored as an empty point.
func CoreToBase(b core.Base) model.Base {
	point, err := geo.PointFromPosition(b.Location)
	if err != nil {
		point = geom.NewEmptyPoint(geom.DimXY)
	}

	return model.Base{
		Name:          b.Name,
		Longitude:     b.Location.Longitude,
		Latitude:      b.Location.Latitude,
		Location:      point,
		Facilities:    toJSON(b.Facilities, "[]"),
		Storage:       toJSON(b.Storage, "{}"),
		Research:      toJSON(b.Research, "[]"),
		Manufacturing: toJSON(b.Manufacturing, "[]"),
		SoldierCount:  len(b.Soldiers),
	}
}

// CoreToSoldier converts a roster soldier to a GORM model.Soldier.
// index is the soldier's position in the roster.
func CoreToSoldier(index int, s core.Soldier) model.Soldier {
	out := model.Soldier{
		RosterIndex:   index,
		SoldierID:     s.ID,
		Type:          s.Type,
		Name:          s.Name,
		Nationality:   s.Nationality,
		Gender:        s.Gender,
		Rank:          s.Rank,
		Missions:      s.Missions,
		Kills:         s.Kills,
		Base:          s.Base,
		Craft:         s.Craft,
		InitialStats:  toJSON(s.InitialStats, "{}"),
		CurrentStats:  toJSON(s.CurrentStats, "{}"),
		Equipment:     toJSON(s.Equipment, "[]"),
		ServiceRecord: toJSON(s.Record, "{}"),
		DeathCause:    datatypes.JSON("null"),
		Recovery:      s.Recovery,
		Training:      s.Training,
		PsiTraining:   s.PsiTraining,
	}

	if s.Death != nil {
		out.Dead = true
		out.DeathTime = s.Death.Time
		if s.Death.Cause != nil {
			out.DeathCause = toJSON(s.Death.Cause, "null")
		}
	}

	return out
}

// CoreToMission converts a core.Mission to a GORM model.Mission.
func CoreToMission(m *core.Mission) model.Mission {
	return model.Mission{
		MissionID: m.ID,
		Name:      m.Name,
		MarkerID:  m.MarkerID,
		Date:      m.Date,
		Region:    m.Region,
		Country:   m.Country,
		Type:      m.Type,
		UFO:       m.UFO,
		Success:   m.Success,
		Score:     m.Score,
		Rating:    m.Rating,
		AlienRace: m.AlienRace,
		Daylight:  m.Daylight,
		Injuries:  toJSON(m.Injuries, "{}"),
	}
}

// Participations flattens the snapshot's participant index into rows, one per
// soldier per mission. Rows for missions missing from the index are skipped.
func Participations(snap *core.Snapshot) []model.Participation {
	var rows []model.Participation
	for missionID, indices := range snap.Participants {
		mission, ok := snap.Missions[missionID]
		if !ok {
			continue
		}
		for _, i := range indices {
			s := &snap.Roster[i]
			days, _ := mission.InjuryDays(s.ID)
			rows = append(rows, model.Participation{
				MissionID:      missionID,
				RosterIndex:    i,
				SoldierID:      s.ID,
				InjuryDays:     days,
				KilledInAction: s.Death.DiedOn(missionID),
			})
		}
	}
	return rows
}

// CoreToTransfer converts a transfer bound for baseName to a GORM model.Transfer.
func CoreToTransfer(baseName string, t core.Transfer) model.Transfer {
	out := model.Transfer{
		BaseName:   baseName,
		Hours:      t.Hours,
		Kind:       t.Kind().String(),
		ItemID:     t.ItemID,
		ItemQty:    t.ItemQty,
		Scientists: t.Scientists,
		Engineers:  t.Engineers,
	}
	if t.Soldier != nil {
		id := t.Soldier.ID
		out.SoldierID = &id
		out.SoldierName = t.Soldier.Name
	}
	return out
}
