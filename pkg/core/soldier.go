// pkg/core/soldier.go
package core

import "fmt"

// Sentinel base names for soldiers outside active duty.
const (
	BaseKIA       = "KIA"
	BaseInTransit = "In Transit"
)

// DeathTimeUnknown replaces the death time when the save carries none.
const DeathTimeUnknown = "Unknown"

// Soldier is one member of the roster.
type Soldier struct {
	ID           int             `json:"id"`
	Type         string          `json:"type"`
	Name         string          `json:"name"`
	Nationality  int             `json:"nationality"`
	Gender       int             `json:"gender"`
	Rank         int             `json:"rank"`
	Missions     int             `json:"missions"`
	Kills        int             `json:"kills"`
	Base         string          `json:"base"`
	Craft        string          `json:"craft"`
	InitialStats Stats           `json:"initialStats"`
	CurrentStats Stats           `json:"currentStats"`
	Equipment    []EquipmentItem `json:"equipment"`
	Death        *DeathInfo      `json:"death,omitempty"`
	Record       ServiceRecord   `json:"record"`
	Recovery     float64         `json:"recovery"` // days until fit for duty, 0 when healthy
	Training     bool            `json:"training"`
	PsiTraining  bool            `json:"psiTraining"`
}

// Wounded reports whether the soldier is still recovering.
func (s *Soldier) Wounded() bool {
	return s.Recovery > 0
}

// Dead reports whether the soldier carries a death record.
func (s *Soldier) Dead() bool {
	return s.Death != nil
}

// EquipmentItem is one item placement in a soldier's equipment layout.
type EquipmentItem struct {
	ItemType  string   `json:"itemType"`
	Slot      string   `json:"slot"`
	SlotX     int      `json:"slotX"`
	SlotY     int      `json:"slotY"`
	AmmoItem  string   `json:"ammoItem"`
	AmmoSlots []string `json:"ammoSlots,omitempty"`
	FuseTimer *int     `json:"fuseTimer,omitempty"` // nil when the item has no fuse; 0 is a primed item
}

// Primed reports whether the item has a fuse set.
func (e EquipmentItem) Primed() bool {
	return e.FuseTimer != nil
}

// DeathInfo describes how and when a soldier died.
type DeathInfo struct {
	Time  string      `json:"time"`
	Cause *DeathCause `json:"cause,omitempty"`
}

// DeathCause identifies the killer and weapon.
type DeathCause struct {
	Race       string `json:"race"`
	Rank       string `json:"rank"`
	Weapon     string `json:"weapon"`
	WeaponAmmo string `json:"weaponAmmo"`
	MissionID  *int   `json:"missionId,omitempty"`
}

// DiedOn reports whether the death happened on the given mission.
func (d *DeathInfo) DiedOn(missionID int) bool {
	return d != nil && d.Cause != nil && d.Cause.MissionID != nil && *d.Cause.MissionID == missionID
}

// FormatDeathTime renders a structured death time in the fixed display format.
func FormatDeathTime(year, month, day, hour, minute int) string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d", year, month, day, hour, minute)
}

// ServiceRecord is a soldier's diary.
type ServiceRecord struct {
	MonthsService       int            `json:"monthsService"`
	TimesWoundedTotal   int            `json:"timesWoundedTotal"`
	DaysWoundedTotal    int            `json:"daysWoundedTotal"`
	UnconsciousTotal    int            `json:"unconsciousTotal"`
	ShotsFiredTotal     int            `json:"shotsFiredTotal"`
	ShotsLandedTotal    int            `json:"shotsLandedTotal"`
	ShotAtTotal         int            `json:"shotAtTotal"`
	HitTotal            int            `json:"hitTotal"`
	StatGainTotal       int            `json:"statGainTotal"`
	LoadoutChangesTotal int            `json:"loadoutChangesTotal"`
	ShotByFriendlyTotal int            `json:"shotByFriendlyTotal"`
	ShotFriendlyTotal   int            `json:"shotFriendlyTotal"`
	RevivedUnitTotal    int            `json:"revivedUnitTotal"`
	Commendations       []Commendation `json:"commendations"`
	Kills               []KillEntry    `json:"kills"`
	MissionIDs          []int          `json:"missionIds"` // only ids present in the mission index
}

// Commendation is an award in a soldier's diary.
type Commendation struct {
	Name            string `json:"name"`
	Noun            string `json:"noun"`
	DecorationLevel int    `json:"decorationLevel"`
}

// KillEntry is one row of a soldier's kill list.
type KillEntry struct {
	Race       string `json:"race"`
	Rank       string `json:"rank"`
	Weapon     string `json:"weapon"`
	WeaponAmmo string `json:"weaponAmmo"`
	Faction    int    `json:"faction"`
	Status     int    `json:"status"`
	MissionID  int    `json:"missionId"`
	Turn       int    `json:"turn"`
}
