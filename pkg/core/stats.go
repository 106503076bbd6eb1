// pkg/core/stats.go
package core

import "fmt"

// StatCount is the number of abilities every soldier carries.
const StatCount = 10

// StatKeys lists the save-file keys of the ten abilities in canonical order.
var StatKeys = [StatCount]string{
	"tu",
	"stamina",
	"health",
	"bravery",
	"reactions",
	"firing",
	"throwing",
	"strength",
	"psiStrength",
	"psiSkill",
}

// legacyStatAliases maps misspelled keys written by old engine builds to their canonical key.
var legacyStatAliases = map[string]string{
	"strenght": "strength",
}

// Stats holds a soldier's ten abilities.
type Stats struct {
	TimeUnits   int `json:"tu"`
	Stamina     int `json:"stamina"`
	Health      int `json:"health"`
	Bravery     int `json:"bravery"`
	Reactions   int `json:"reactions"`
	Firing      int `json:"firing"`
	Throwing    int `json:"throwing"`
	Strength    int `json:"strength"`
	PsiStrength int `json:"psiStrength"`
	PsiSkill    int `json:"psiSkill"`
}

// StatsFromSequence builds Stats from positional values in canonical order.
// Values past the tenth (melee, mana on newer engines) are ignored.
func StatsFromSequence(values []int) (Stats, error) {
	if len(values) < StatCount {
		return Stats{}, &SchemaError{
			Field:  "stats",
			Reason: fmt.Sprintf("expected %d values, got %d", StatCount, len(values)),
		}
	}
	return Stats{
		TimeUnits:   values[0],
		Stamina:     values[1],
		Health:      values[2],
		Bravery:     values[3],
		Reactions:   values[4],
		Firing:      values[5],
		Throwing:    values[6],
		Strength:    values[7],
		PsiStrength: values[8],
		PsiSkill:    values[9],
	}, nil
}

// StatsFromMapping builds Stats from keyed values. All ten keys must be present.
func StatsFromMapping(m map[string]int) (Stats, error) {
	values := make([]int, StatCount)
	for i, key := range StatKeys {
		v, ok := m[key]
		if !ok {
			for alias, canonical := range legacyStatAliases {
				if canonical == key {
					v, ok = m[alias]
					break
				}
			}
		}
		if !ok {
			return Stats{}, &SchemaError{Field: "stats." + key, Reason: "missing"}
		}
		values[i] = v
	}
	return StatsFromSequence(values)
}

// Values returns the abilities in canonical order.
func (s Stats) Values() [StatCount]int {
	return [StatCount]int{
		s.TimeUnits,
		s.Stamina,
		s.Health,
		s.Bravery,
		s.Reactions,
		s.Firing,
		s.Throwing,
		s.Strength,
		s.PsiStrength,
		s.PsiSkill,
	}
}
