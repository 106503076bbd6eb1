package parser

import (
	"testing"

	"github.com/oxcstats/soldierstats/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func missionIndex(ids ...int) map[int]*core.Mission {
	m := make(map[int]*core.Mission, len(ids))
	for _, id := range ids {
		m[id] = &core.Mission{ID: id}
	}
	return m
}

func mustDiary(t *testing.T, s string) *DiaryEntry {
	t.Helper()
	var d DiaryEntry
	require.NoError(t, yaml.Unmarshal([]byte(s), &d))
	return &d
}

func TestParseServiceRecord(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name     string
		diary    *DiaryEntry
		missions map[int]*core.Mission
		check    func(t *testing.T, rec core.ServiceRecord)
	}{
		{
			name:  "nil diary",
			diary: nil,
			check: func(t *testing.T, rec core.ServiceRecord) {
				assert.Zero(t, rec.DaysWoundedTotal)
				assert.NotNil(t, rec.Commendations)
				assert.NotNil(t, rec.Kills)
				assert.NotNil(t, rec.MissionIDs)
				assert.Empty(t, rec.MissionIDs)
			},
		},
		{
			name: "counters",
			diary: mustDiary(t, `
monthsService: 6
timesWoundedTotal: 5
daysWoundedTotal: 116
unconciousTotal: 2
shotsFiredCounterTotal: 410
shotsLandedCounterTotal: 205
shotAtCounterTotal: 88
hitCounterTotal: 12
statGainTotal: 74
loadoutChangesTotal: 9
totalShotByFriendlyCounter: 1
totalShotFriendlyCounter: 2
revivedUnitTotal: 3
`),
			check: func(t *testing.T, rec core.ServiceRecord) {
				assert.Equal(t, 6, rec.MonthsService)
				assert.Equal(t, 5, rec.TimesWoundedTotal)
				assert.Equal(t, 116, rec.DaysWoundedTotal)
				assert.Equal(t, 2, rec.UnconsciousTotal)
				assert.Equal(t, 410, rec.ShotsFiredTotal)
				assert.Equal(t, 205, rec.ShotsLandedTotal)
				assert.Equal(t, 88, rec.ShotAtTotal)
				assert.Equal(t, 12, rec.HitTotal)
				assert.Equal(t, 74, rec.StatGainTotal)
				assert.Equal(t, 9, rec.LoadoutChangesTotal)
				assert.Equal(t, 1, rec.ShotByFriendlyTotal)
				assert.Equal(t, 2, rec.ShotFriendlyTotal)
				assert.Equal(t, 3, rec.RevivedUnitTotal)
			},
		},
		{
			name:  "corrected unconscious spelling",
			diary: mustDiary(t, "unconsciousTotal: 4\n"),
			check: func(t *testing.T, rec core.ServiceRecord) {
				assert.Equal(t, 4, rec.UnconsciousTotal)
			},
		},
		{
			name: "commendations and kills",
			diary: mustDiary(t, `
commendations:
  - {commendationName: STR_MEDAL_BRAVERY, noun: STR_SECTOID, decorationLevel: 1}
killList:
  - {race: STR_SECTOID, rank: STR_LIVE_SOLDIER, weapon: STR_RIFLE, weaponAmmo: STR_RIFLE_CLIP, faction: 1, status: 1, mission: 102, turn: 3}
`),
			check: func(t *testing.T, rec core.ServiceRecord) {
				require.Len(t, rec.Commendations, 1)
				assert.Equal(t, core.Commendation{Name: "STR_MEDAL_BRAVERY", Noun: "STR_SECTOID", DecorationLevel: 1}, rec.Commendations[0])
				require.Len(t, rec.Kills, 1)
				assert.Equal(t, 102, rec.Kills[0].MissionID)
				assert.Equal(t, "STR_RIFLE_CLIP", rec.Kills[0].WeaponAmmo)
				assert.Equal(t, 3, rec.Kills[0].Turn)
			},
		},
		{
			name:     "unknown mission ids dropped",
			diary:    mustDiary(t, "missionIdList: [1, 2, 999, 3]\n"),
			missions: missionIndex(1, 2, 3),
			check: func(t *testing.T, rec core.ServiceRecord) {
				assert.Equal(t, []int{1, 2, 3}, rec.MissionIDs)
			},
		},
		{
			name:     "repeated mission ids kept once",
			diary:    mustDiary(t, "missionIdList: [3, 1, 3, 2, 1]\n"),
			missions: missionIndex(1, 2, 3),
			check: func(t *testing.T, rec core.ServiceRecord) {
				assert.Equal(t, []int{3, 1, 2}, rec.MissionIDs)
			},
		},
		{
			name:     "empty index drops everything",
			diary:    mustDiary(t, "missionIdList: [1, 2]\n"),
			missions: nil,
			check: func(t *testing.T, rec core.ServiceRecord) {
				assert.NotNil(t, rec.MissionIDs)
				assert.Empty(t, rec.MissionIDs)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, p.ParseServiceRecord(tt.diary, tt.missions))
		})
	}
}

func TestParseServiceRecord_SampleVeteran(t *testing.T) {
	g := sampleGame(t)
	p := newTestParser()
	missions, _ := p.ParseMissions(g)

	var diary *DiaryEntry
	for i := range g.Bases[0].Soldiers {
		var s SoldierEntry
		require.NoError(t, g.Bases[0].Soldiers[i].Decode(&s))
		if s.Name == "Ilyas Idrissi" {
			diary = s.Diary
		}
	}
	require.NotNil(t, diary)
	require.Len(t, diary.MissionIDList, 23)

	rec := p.ParseServiceRecord(diary, missions)
	assert.Equal(t, 116, rec.DaysWoundedTotal)
	assert.Len(t, rec.MissionIDs, 22)
	assert.NotContains(t, rec.MissionIDs, 999)
}
