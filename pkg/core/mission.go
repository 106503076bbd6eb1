// pkg/core/mission.go
package core

import (
	"fmt"
	"strings"
)

// Mission is one entry of the save's mission statistics.
type Mission struct {
	ID        int         `json:"id"`
	Name      string      `json:"name"`     // marker name, e.g. STR_UFO_CRASH_SITE
	MarkerID  int         `json:"markerId"`
	Date      string      `json:"date"`     // DD/MM/YYYY
	Region    string      `json:"region"`
	Country   string      `json:"country"`
	Type      string      `json:"type"`
	UFO       string      `json:"ufo"`
	Success   bool        `json:"success"`
	Score     int         `json:"score"`
	Rating    string      `json:"rating"`
	AlienRace string      `json:"alienRace"`
	Daylight  int         `json:"daylight"`
	Injuries  map[int]int `json:"injuries"` // soldier id -> days wounded
}

// InjuryDays reports how many days the given soldier was wounded on this mission.
func (m *Mission) InjuryDays(soldierID int) (int, bool) {
	days, ok := m.Injuries[soldierID]
	return days, ok
}

// Result returns "Success" or "Failure".
func (m *Mission) Result() string {
	if m.Success {
		return "Success"
	}
	return "Failure"
}

// FormatDate joins day, month and year into the mission date format.
func FormatDate(day, month, year int) string {
	return fmt.Sprintf("%02d/%02d/%04d", day, month, year)
}

// SaveInfo is the metadata document of a save stream.
type SaveInfo struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Engine  string   `json:"engine"`
	Time    string   `json:"time"`
	Mods    []string `json:"mods"`
}

// ModID extracts the mod identifier from a mod list entry of the form "<id> ver: <version>".
func ModID(entry string) string {
	id, _, _ := strings.Cut(entry, " ver:")
	return strings.TrimSpace(id)
}

// ModIDs returns the identifiers of every mod in the metadata mod list.
func (i SaveInfo) ModIDs() []string {
	ids := make([]string, 0, len(i.Mods))
	for _, m := range i.Mods {
		if id := ModID(m); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
