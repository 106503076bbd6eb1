package convert

import (
	"encoding/json"
	"fmt"

	"github.com/oxcstats/soldierstats/internal/model"
	"github.com/oxcstats/soldierstats/pkg/core"
)

// fromJSON unmarshals a JSON column into v. Empty columns leave v untouched.
func fromJSON(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// SoldierToCore converts an archived GORM model.Soldier back to a core.Soldier.
func SoldierToCore(s model.Soldier) (core.Soldier, error) {
	out := core.Soldier{
		ID:          s.SoldierID,
		Type:        s.Type,
		Name:        s.Name,
		Nationality: s.Nationality,
		Gender:      s.Gender,
		Rank:        s.Rank,
		Missions:    s.Missions,
		Kills:       s.Kills,
		Base:        s.Base,
		Craft:       s.Craft,
		Recovery:    s.Recovery,
		Training:    s.Training,
		PsiTraining: s.PsiTraining,
	}

	if err := fromJSON(s.InitialStats, &out.InitialStats); err != nil {
		return out, fmt.Errorf("soldier %d: initialStats: %w", s.SoldierID, err)
	}
	if err := fromJSON(s.CurrentStats, &out.CurrentStats); err != nil {
		return out, fmt.Errorf("soldier %d: currentStats: %w", s.SoldierID, err)
	}
	if err := fromJSON(s.Equipment, &out.Equipment); err != nil {
		return out, fmt.Errorf("soldier %d: equipment: %w", s.SoldierID, err)
	}
	if err := fromJSON(s.ServiceRecord, &out.Record); err != nil {
		return out, fmt.Errorf("soldier %d: serviceRecord: %w", s.SoldierID, err)
	}

	if s.Dead {
		out.Death = &core.DeathInfo{Time: s.DeathTime}
		if err := fromJSON(s.DeathCause, &out.Death.Cause); err != nil {
			return out, fmt.Errorf("soldier %d: deathCause: %w", s.SoldierID, err)
		}
	}

	return out, nil
}

// MissionToCore converts an archived GORM model.Mission back to a core.Mission.
func MissionToCore(m model.Mission) (*core.Mission, error) {
	out := &core.Mission{
		ID:        m.MissionID,
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
		Injuries:  map[int]int{},
	}
	if err := fromJSON(m.Injuries, &out.Injuries); err != nil {
		return out, fmt.Errorf("mission %d: injuries: %w", m.MissionID, err)
	}
	return out, nil
}
