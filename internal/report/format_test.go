package report

import (
	"testing"

	"github.com/oxcstats/soldierstats/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func bracket(key string) string { return "<" + key + ">" }

func TestFormatInventory(t *testing.T) {
	tests := []struct {
		name  string
		items []core.EquipmentItem
		check func(t *testing.T, got map[string][]string)
	}{
		{
			name: "empty layout",
			check: func(t *testing.T, got map[string][]string) {
				assert.Empty(t, got)
			},
		},
		{
			name: "primed grenade with zero fuse",
			items: []core.EquipmentItem{
				{ItemType: "STR_GRENADE", Slot: "STR_BELT", FuseTimer: intPtr(0)},
				{ItemType: "STR_SMOKE_GRENADE", Slot: "STR_BELT"},
			},
			check: func(t *testing.T, got map[string][]string) {
				assert.Equal(t, []string{"  - STR_GRENADE | Active[0]", "  - STR_SMOKE_GRENADE"}, got["STR_BELT"])
			},
		},
		{
			name: "ammo slots win over single ammo",
			items: []core.EquipmentItem{
				{ItemType: "STR_RIFLE", Slot: "STR_RIGHT_HAND", AmmoItem: "STR_RIFLE_CLIP", AmmoSlots: []string{"STR_A", "STR_B"}},
				{ItemType: "STR_PISTOL", Slot: "STR_LEFT_HAND", AmmoItem: "STR_PISTOL_CLIP"},
			},
			check: func(t *testing.T, got map[string][]string) {
				assert.Equal(t, []string{"  - STR_RIFLE (Loaded with: STR_A, STR_B)"}, got["STR_RIGHT_HAND"])
				assert.Equal(t, []string{"  - STR_PISTOL (Loaded with: STR_PISTOL_CLIP)"}, got["STR_LEFT_HAND"])
			},
		},
		{
			name: "missing slot",
			items: []core.EquipmentItem{
				{ItemType: "STR_MEDIKIT", FuseTimer: intPtr(3), AmmoItem: "STR_X"},
			},
			check: func(t *testing.T, got map[string][]string) {
				assert.Equal(t, []string{"  - STR_MEDIKIT (Loaded with: STR_X) | Active[3]"}, got[UnslottedSlot])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, FormatInventory(tt.items))
		})
	}
}

func TestInventorySlots(t *testing.T) {
	inv := map[string][]string{"b": nil, "a": nil, "c": nil}
	assert.Equal(t, []string{"a", "b", "c"}, InventorySlots(inv))
}

func TestServiceRecordSummary(t *testing.T) {
	got := ServiceRecordSummary(core.ServiceRecord{
		MonthsService:     6,
		DaysWoundedTotal:  116,
		TimesWoundedTotal: 5,
		UnconsciousTotal:  2,
		ShotsFiredTotal:   410,
		ShotsLandedTotal:  205,
		ShotAtTotal:       88,
		HitTotal:          12,
	})
	assert.Equal(t, "Months of Service: 6\n"+
		"Days Wounded: 116 (Wounded 5 times)\n"+
		"Times Unconscious: 2\n"+
		"Shots Fired: 410 | Shots Landed: 205\n"+
		"Times Shot At: 88 | Times Hit: 12", got)
}

func TestDeathSummary(t *testing.T) {
	tests := []struct {
		name  string
		death *core.DeathInfo
		tr    Translate
		want  string
	}{
		{name: "alive"},
		{
			name:  "full cause",
			death: &core.DeathInfo{Time: "1999-02-05 07:05", Cause: &core.DeathCause{Race: "STR_SECTOID", Rank: "STR_LIVE_SOLDIER", Weapon: "STR_PLASMA_PISTOL", WeaponAmmo: "STR_PLASMA_PISTOL_CLIP"}},
			want:  "\n--- KIA ---\nDate: 1999-02-05 07:05\nKilled by: STR_SECTOID (STR_LIVE_SOLDIER)\nWeapon: STR_PLASMA_PISTOL (STR_PLASMA_PISTOL_CLIP)",
		},
		{
			name:  "no cause",
			death: &core.DeathInfo{Time: core.DeathTimeUnknown},
			want:  "\n--- KIA ---\nDate: Unknown\nKilled by: Unknown (Unknown)\nWeapon: Unknown (Unknown)",
		},
		{
			name:  "no cause translated",
			death: &core.DeathInfo{Time: core.DeathTimeUnknown},
			tr:    bracket,
			want:  "\n--- KIA ---\nDate: Unknown\nKilled by: <Unknown> (<Unknown>)\nWeapon: <Unknown> (Unknown)",
		},
		{
			name:  "translated",
			death: &core.DeathInfo{Time: "t", Cause: &core.DeathCause{Race: "R", Weapon: "W"}},
			tr:    bracket,
			want:  "\n--- KIA ---\nDate: t\nKilled by: <R> (<Unknown>)\nWeapon: <W> (Unknown)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeathSummary(tt.death, tt.tr))
		})
	}
}

func TestMissionDeathDetail(t *testing.T) {
	assert.Empty(t, MissionDeathDetail(nil, nil))
	assert.Equal(t, "KIA: Unknown (Unknown)", MissionDeathDetail(&core.DeathInfo{}, nil))
	assert.Equal(t, "KIA: <W> (<R>)", MissionDeathDetail(&core.DeathInfo{Cause: &core.DeathCause{Race: "R", Weapon: "W"}}, bracket))
	assert.Equal(t, "KIA: <Unknown> (<Unknown>)", MissionDeathDetail(&core.DeathInfo{}, bracket))
}

func TestParticipantStatus(t *testing.T) {
	m := &core.Mission{ID: 102, Injuries: map[int]int{2: 10, 4: 3}}

	tests := []struct {
		name    string
		soldier core.Soldier
		want    string
	}{
		{name: "survived", soldier: core.Soldier{ID: 1}, want: "Survived"},
		{name: "wounded", soldier: core.Soldier{ID: 2}, want: "Wounded (10 days)"},
		{
			name: "killed overrides wounded",
			soldier: core.Soldier{ID: 4, Death: &core.DeathInfo{Cause: &core.DeathCause{
				Race: "STR_SECTOID", Weapon: "STR_PLASMA_PISTOL", MissionID: intPtr(102),
			}}},
			want: "KIA (STR_PLASMA_PISTOL [STR_SECTOID])",
		},
		{
			name: "died on another mission",
			soldier: core.Soldier{ID: 1, Death: &core.DeathInfo{Cause: &core.DeathCause{
				Weapon: "STR_X", MissionID: intPtr(200),
			}}},
			want: "Survived",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParticipantStatus(m, &tt.soldier))
		})
	}
}

func TestMissionSummary(t *testing.T) {
	m := &core.Mission{ID: 7, Date: "05/02/1999", Name: "STR_UFO_CRASH_SITE", Region: "STR_EUROPE", Success: true}
	assert.Equal(t, "#7 05/02/1999 STR_UFO_CRASH_SITE (STR_EUROPE) - Success", MissionSummary(m, nil))
	assert.Equal(t, "#7 05/02/1999 <STR_UFO_CRASH_SITE> (<STR_EUROPE>) - Success", MissionSummary(m, bracket))
}

func TestBaseSoldierSummary(t *testing.T) {
	b := &core.Base{Soldiers: []core.Soldier{
		{ID: 1},
		{ID: 2, Recovery: 3},
		{ID: 3, PsiTraining: true},
		{ID: 5, Recovery: 5.5, Training: true},
	}}

	got := BaseSoldierSummary(b)
	assert.Equal(t, BaseSummary{Total: 4, Active: 2, Wounded: 2, Training: 1, PsiTraining: 1}, got)
	assert.Equal(t, "Soldiers: 4 (2 active, 2 wounded, 1 training, 1 psi training)", got.String())
}

func TestFacilityCounts(t *testing.T) {
	b := &core.Base{Facilities: []core.Facility{
		{Type: "STR_ACCESS_LIFT"},
		{Type: "STR_LIVING_QUARTERS"},
		{Type: "STR_LIVING_QUARTERS", BuildTime: 10},
	}}

	counts, building := FacilityCounts(b)
	assert.Equal(t, map[string]int{"STR_ACCESS_LIFT": 1, "STR_LIVING_QUARTERS": 2}, counts)
	assert.Equal(t, 1, building)
}

func TestTransferLabel(t *testing.T) {
	tests := []struct {
		name     string
		transfer core.Transfer
		want     string
	}{
		{name: "soldier", transfer: core.Transfer{Hours: 24, Soldier: &core.Soldier{Name: "Sam"}}, want: "Soldier: Sam (24h)"},
		{name: "item", transfer: core.Transfer{Hours: 12, ItemID: "E", ItemQty: 50}, want: "<E> x50 (12h)"},
		{name: "scientists", transfer: core.Transfer{Hours: 48, Scientists: 5}, want: "5 scientists (48h)"},
		{name: "both personnel", transfer: core.Transfer{Hours: 1, Scientists: 1, Engineers: 2}, want: "1 scientists, 2 engineers (1h)"},
		{name: "empty", transfer: core.Transfer{Hours: 3}, want: "Unknown (3h)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotEmpty(t, tt.want)
			assert.Equal(t, tt.want, TransferLabel(tt.transfer, bracket))
		})
	}
}
