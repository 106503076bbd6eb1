package parser

import (
	"errors"
	"testing"

	"github.com/oxcstats/soldierstats/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seqStats = "[50, 40, 30, 30, 40, 50, 50, 20, 20, 0]"

func TestParseSoldier(t *testing.T) {
	p := newTestParser()
	missions := missionIndex(102, 103)

	tests := []struct {
		name    string
		input   string
		base    string
		check   func(t *testing.T, s core.Soldier)
		wantErr string
	}{
		{
			name: "active soldier",
			base: "Alpha",
			input: `
type: STR_SOLDIER
id: 7
name: Ilyas Idrissi
nationality: 3
gender: 1
rank: 3
craft: {type: STR_SKYRANGER, id: 1}
initialStats: ` + seqStats + `
currentStats: {tu: 60, stamina: 50, health: 40, bravery: 30, reactions: 45, firing: 70, throwing: 55, strength: 28, psiStrength: 33, psiSkill: 5}
missions: 22
kills: 31
recovery: 2.5
training: true
psiTraining: true
diary:
  daysWoundedTotal: 8
  missionIdList: [102, 104]
`,
			check: func(t *testing.T, s core.Soldier) {
				assert.Equal(t, 7, s.ID)
				assert.Equal(t, "STR_SOLDIER", s.Type)
				assert.Equal(t, "Ilyas Idrissi", s.Name)
				assert.Equal(t, 3, s.Nationality)
				assert.Equal(t, 1, s.Gender)
				assert.Equal(t, 3, s.Rank)
				assert.Equal(t, "Alpha", s.Base)
				assert.Equal(t, "STR_SKYRANGER-1", s.Craft)
				assert.Equal(t, 22, s.Missions)
				assert.Equal(t, 31, s.Kills)
				assert.Equal(t, 50, s.InitialStats.TimeUnits)
				assert.Equal(t, 60, s.CurrentStats.TimeUnits)
				assert.Equal(t, 5, s.CurrentStats.PsiSkill)
				assert.True(t, s.Wounded())
				assert.True(t, s.Training)
				assert.True(t, s.PsiTraining)
				assert.False(t, s.Dead())
				assert.Nil(t, s.Death)
				assert.Empty(t, s.Equipment)
				assert.Equal(t, 8, s.Record.DaysWoundedTotal)
				assert.Equal(t, []int{102}, s.Record.MissionIDs)
			},
		},
		{
			name: "independent stats",
			base: "Alpha",
			input: `
id: 1
initialStats: ` + seqStats + `
currentStats: ` + seqStats + `
`,
			check: func(t *testing.T, s core.Soldier) {
				assert.Equal(t, s.InitialStats, s.CurrentStats)
				s.CurrentStats.Health = 99
				assert.Equal(t, 30, s.InitialStats.Health)
			},
		},
		{
			name: "equipment with primed grenade",
			base: "Alpha",
			input: `
id: 2
initialStats: ` + seqStats + `
currentStats: ` + seqStats + `
equipmentLayout:
  - {itemType: STR_RIFLE, slot: STR_RIGHT_HAND, ammoItem: STR_RIFLE_CLIP}
  - {itemType: STR_GRENADE, slot: STR_BELT, fuseTimer: 0}
  - {itemType: STR_SMOKE_GRENADE, slot: STR_BELT, slotX: 2, slotY: 1}
  - {itemType: STR_AUTO_CANNON, slot: STR_BACK_PACK, ammoItemSlots: [STR_AC_AP_AMMO, STR_AC_HE_AMMO]}
`,
			check: func(t *testing.T, s core.Soldier) {
				require.Len(t, s.Equipment, 4)
				assert.Equal(t, "STR_RIFLE_CLIP", s.Equipment[0].AmmoItem)
				assert.False(t, s.Equipment[0].Primed())

				grenade := s.Equipment[1]
				require.NotNil(t, grenade.FuseTimer)
				assert.Equal(t, 0, *grenade.FuseTimer)
				assert.True(t, grenade.Primed())

				assert.Nil(t, s.Equipment[2].FuseTimer)
				assert.Equal(t, 2, s.Equipment[2].SlotX)
				assert.Equal(t, 1, s.Equipment[2].SlotY)

				assert.Equal(t, []string{"STR_AC_AP_AMMO", "STR_AC_HE_AMMO"}, s.Equipment[3].AmmoSlots)
			},
		},
		{
			name: "death with time",
			base: core.BaseKIA,
			input: `
id: 3
initialStats: ` + seqStats + `
currentStats: ` + seqStats + `
death:
  time: {minute: 5, hour: 7, day: 5, month: 2, year: 1999}
  cause: {race: STR_SECTOID, rank: STR_LIVE_SOLDIER, weapon: STR_PLASMA_PISTOL, weaponAmmo: STR_PLASMA_PISTOL_CLIP, mission: 102}
`,
			check: func(t *testing.T, s core.Soldier) {
				assert.Equal(t, core.BaseKIA, s.Base)
				require.NotNil(t, s.Death)
				assert.True(t, s.Dead())
				assert.Equal(t, "1999-02-05 07:05", s.Death.Time)
				require.NotNil(t, s.Death.Cause)
				assert.Equal(t, "STR_SECTOID", s.Death.Cause.Race)
				assert.Equal(t, "STR_PLASMA_PISTOL_CLIP", s.Death.Cause.WeaponAmmo)
				assert.True(t, s.Death.DiedOn(102))
				assert.False(t, s.Death.DiedOn(103))
			},
		},
		{
			name: "death without time",
			base: core.BaseKIA,
			input: `
id: 4
initialStats: ` + seqStats + `
currentStats: ` + seqStats + `
death:
  cause: {race: STR_FLOATER}
`,
			check: func(t *testing.T, s core.Soldier) {
				require.NotNil(t, s.Death)
				assert.Equal(t, core.DeathTimeUnknown, s.Death.Time)
				assert.Nil(t, s.Death.Cause.MissionID)
				assert.False(t, s.Death.DiedOn(102))
			},
		},
		{
			name: "empty death record",
			base: core.BaseKIA,
			input: `
id: 5
initialStats: ` + seqStats + `
currentStats: ` + seqStats + `
death: {}
`,
			check: func(t *testing.T, s core.Soldier) {
				require.NotNil(t, s.Death)
				assert.Equal(t, "Unknown", s.Death.Time)
				assert.Nil(t, s.Death.Cause)
			},
		},
		{
			name:    "missing id",
			input:   "name: Nobody\ninitialStats: " + seqStats + "\ncurrentStats: " + seqStats + "\n",
			wantErr: "id",
		},
		{
			name:    "missing current stats",
			input:   "id: 9\ninitialStats: " + seqStats + "\n",
			wantErr: "currentStats.stats",
		},
		{
			name:    "short initial stats",
			input:   "id: 9\ninitialStats: [1, 2]\ncurrentStats: " + seqStats + "\n",
			wantErr: "initialStats.stats",
		},
		{
			name:    "mapping stats missing key",
			input:   "id: 9\ninitialStats: " + seqStats + "\ncurrentStats: {tu: 1}\n",
			wantErr: "currentStats.stats.stamina",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ParseSoldier(mustNode(t, tt.input), tt.base, missions)
			if tt.wantErr != "" {
				var schemaErr *core.SchemaError
				require.True(t, errors.As(err, &schemaErr), "expected SchemaError, got %v", err)
				assert.Equal(t, tt.wantErr, schemaErr.Field)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}
