package parser

import (
	"fmt"
	"maps"

	"github.com/oxcstats/soldierstats/pkg/core"
)

// ParseMissions builds the mission index from missionStatistics. An absent list
// yields an empty index. Later duplicate ids overwrite earlier ones. Records
// without an id cannot be indexed and are returned as rejected.
func (p *Parser) ParseMissions(g *GameState) (map[int]*core.Mission, []error) {
	missions := make(map[int]*core.Mission, len(g.MissionStatistics))
	var rejected []error

	for i, entry := range g.MissionStatistics {
		if entry.ID == nil {
			rejected = append(rejected, &core.SchemaError{
				Record: fmt.Sprintf("missionStatistics[%d]", i),
				Field:  "id",
				Reason: "missing",
			})
			continue
		}

		m := parseMission(entry)
		if _, dup := missions[m.ID]; dup {
			p.logger.Debug("Duplicate mission id, keeping last", "missionID", m.ID)
		}
		missions[m.ID] = m
	}

	p.logger.Debug("Parsed mission index", "missions", len(missions), "rejected", len(rejected))
	return missions, rejected
}

func parseMission(entry MissionEntry) *core.Mission {
	injuries := make(map[int]int, len(entry.InjuryList))
	maps.Copy(injuries, entry.InjuryList)

	return &core.Mission{
		ID:        *entry.ID,
		Name:      entry.MarkerName,
		MarkerID:  entry.MarkerID,
		Date:      core.FormatDate(entry.Time.Day, entry.Time.Month, entry.Time.Year),
		Region:    entry.Region,
		Country:   entry.Country,
		Type:      entry.Type,
		UFO:       entry.UFO,
		Success:   entry.Success,
		Score:     entry.Score,
		Rating:    entry.Rating,
		AlienRace: entry.AlienRace,
		Daylight:  entry.Daylight,
		Injuries:  injuries,
	}
}
