// pkg/core/snapshot.go
package core

import "time"

// Snapshot is the complete model built from one save file. It is never
// mutated after NewSnapshot returns, so readers need no locking.
type Snapshot struct {
	Source     string
	LoadedAt   time.Time
	Info       SaveInfo
	Difficulty int
	Roster     []Soldier
	Missions   map[int]*Mission
	Bases      []Base

	// Participants maps a mission id to indices into Roster.
	Participants map[int][]int

	// Rejected holds records skipped while assembling the model.
	Rejected []error

	soldierIndex map[int]int
	baseIndex    map[string]int
}

// NewSnapshot indexes the assembled parts. Duplicate soldier ids resolve to the
// first occurrence in roster order; duplicate base names to the first base.
func NewSnapshot(source string, info SaveInfo, difficulty int, roster []Soldier, missions map[int]*Mission, participants map[int][]int, bases []Base, rejected []error) *Snapshot {
	s := &Snapshot{
		Source:       source,
		LoadedAt:     time.Now(),
		Info:         info,
		Difficulty:   difficulty,
		Roster:       roster,
		Missions:     missions,
		Participants: participants,
		Bases:        bases,
		Rejected:     rejected,
		soldierIndex: make(map[int]int, len(roster)),
		baseIndex:    make(map[string]int, len(bases)),
	}
	if s.Missions == nil {
		s.Missions = map[int]*Mission{}
	}
	if s.Participants == nil {
		s.Participants = map[int][]int{}
	}
	for i := range roster {
		if _, dup := s.soldierIndex[roster[i].ID]; !dup {
			s.soldierIndex[roster[i].ID] = i
		}
	}
	for i := range bases {
		if _, dup := s.baseIndex[bases[i].Name]; !dup {
			s.baseIndex[bases[i].Name] = i
		}
	}
	return s
}

// DuplicateSoldierIDs returns ids that occur more than once in the roster, in first-seen order.
func (s *Snapshot) DuplicateSoldierIDs() []int {
	seen := make(map[int]int, len(s.Roster))
	var dups []int
	for _, soldier := range s.Roster {
		seen[soldier.ID]++
		if seen[soldier.ID] == 2 {
			dups = append(dups, soldier.ID)
		}
	}
	return dups
}

// SoldierByID returns the roster soldier with the given id.
func (s *Snapshot) SoldierByID(id int) (*Soldier, bool) {
	i, ok := s.soldierIndex[id]
	if !ok {
		return nil, false
	}
	return &s.Roster[i], true
}

// MissionByID returns the mission with the given id.
func (s *Snapshot) MissionByID(id int) (*Mission, bool) {
	m, ok := s.Missions[id]
	return m, ok
}

// MissionParticipants returns the soldiers who took part in a mission, in roster order.
func (s *Snapshot) MissionParticipants(missionID int) []*Soldier {
	idx := s.Participants[missionID]
	out := make([]*Soldier, 0, len(idx))
	for _, i := range idx {
		out = append(out, &s.Roster[i])
	}
	return out
}

// SoldierMissions resolves a soldier's service record against the mission index.
func (s *Snapshot) SoldierMissions(soldier *Soldier) []*Mission {
	out := make([]*Mission, 0, len(soldier.Record.MissionIDs))
	seen := make(map[int]struct{}, len(soldier.Record.MissionIDs))
	for _, id := range soldier.Record.MissionIDs {
		m, ok := s.Missions[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, m)
	}
	return out
}

// BaseByName returns the base with the given name.
func (s *Snapshot) BaseByName(name string) (*Base, bool) {
	i, ok := s.baseIndex[name]
	if !ok {
		return nil, false
	}
	return &s.Bases[i], true
}
