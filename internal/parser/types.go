package parser

import "gopkg.in/yaml.v3"

// The types below mirror the OpenXcom save schema. Every optional field
// decodes to its zero value when absent, since saves written under different
// mod configurations omit different keys.

// GameState is the game document of a save stream.
type GameState struct {
	Difficulty        int            `yaml:"difficulty"`
	Bases             []BaseEntry    `yaml:"bases"`
	MissionStatistics []MissionEntry `yaml:"missionStatistics"`
	DeadSoldiers      []yaml.Node    `yaml:"deadSoldiers"`
}

// MetaInfo is the metadata document of a save stream.
type MetaInfo struct {
	Name    string      `yaml:"name"`
	Version string      `yaml:"version"`
	Engine  string      `yaml:"engine"`
	Time    TimeEntry   `yaml:"time"`
	Mods    []yaml.Node `yaml:"mods"`
}

// TimeEntry is the engine's broken-down date/time record.
type TimeEntry struct {
	Second  int `yaml:"second"`
	Minute  int `yaml:"minute"`
	Hour    int `yaml:"hour"`
	Weekday int `yaml:"weekday"`
	Day     int `yaml:"day"`
	Month   int `yaml:"month"`
	Year    int `yaml:"year"`
}

// MissionEntry is one record of missionStatistics.
type MissionEntry struct {
	ID         *int        `yaml:"id"`
	MarkerName string      `yaml:"markerName"`
	MarkerID   int         `yaml:"markerId"`
	Time       TimeEntry   `yaml:"time"`
	Region     string      `yaml:"region"`
	Country    string      `yaml:"country"`
	Type       string      `yaml:"type"`
	UFO        string      `yaml:"ufo"`
	Success    bool        `yaml:"success"`
	Score      int         `yaml:"score"`
	Rating     string      `yaml:"rating"`
	AlienRace  string      `yaml:"alienRace"`
	Daylight   int         `yaml:"daylight"`
	InjuryList map[int]int `yaml:"injuryList"`
}

// BaseEntry is one element of the bases list.
type BaseEntry struct {
	Name        string            `yaml:"name"`
	Lon         float64           `yaml:"lon"`
	Lat         float64           `yaml:"lat"`
	Facilities  []FacilityEntry   `yaml:"facilities"`
	Items       map[string]int    `yaml:"items"`
	Soldiers    []yaml.Node       `yaml:"soldiers"`
	Research    []ResearchEntry   `yaml:"research"`
	Productions []ProductionEntry `yaml:"productions"`
	Transfers   []TransferEntry   `yaml:"transfers"`
}

// FacilityEntry is a placed base module.
type FacilityEntry struct {
	Type      string `yaml:"type"`
	X         int    `yaml:"x"`
	Y         int    `yaml:"y"`
	BuildTime int    `yaml:"buildTime"`
}

// ResearchEntry is a running research project.
type ResearchEntry struct {
	Project  string `yaml:"project"`
	Assigned int    `yaml:"assigned"`
	Spent    int    `yaml:"spent"`
	Cost     int    `yaml:"cost"`
}

// ProductionEntry is a running manufacturing order.
type ProductionEntry struct {
	Item     string `yaml:"item"`
	Assigned int    `yaml:"assigned"`
	Spent    int    `yaml:"spent"`
	Amount   int    `yaml:"amount"`
	Infinite bool   `yaml:"infinite"`
}

// TransferEntry is a shipment in flight. Soldier is kept as a raw node so it
// goes through the same construction as base soldiers; its Kind is zero when
// the transfer carries no soldier.
type TransferEntry struct {
	Hours      int       `yaml:"hours"`
	Soldier    yaml.Node `yaml:"soldier"`
	ItemID     string    `yaml:"itemId"`
	ItemQty    int       `yaml:"itemQty"`
	Scientists int       `yaml:"scientists"`
	Engineers  int       `yaml:"engineers"`
}

// SoldierEntry is one soldier record, from a base, a transfer or deadSoldiers.
type SoldierEntry struct {
	Type            string        `yaml:"type"`
	ID              *int          `yaml:"id"`
	Name            string        `yaml:"name"`
	Nationality     int           `yaml:"nationality"`
	Gender          int           `yaml:"gender"`
	Rank            int           `yaml:"rank"`
	Craft           CraftRef      `yaml:"craft"`
	InitialStats    yaml.Node     `yaml:"initialStats"`
	CurrentStats    yaml.Node     `yaml:"currentStats"`
	Missions        int           `yaml:"missions"`
	Kills           int           `yaml:"kills"`
	Recovery        float64       `yaml:"recovery"`
	Training        bool          `yaml:"training"`
	PsiTraining     bool          `yaml:"psiTraining"`
	Diary           *DiaryEntry   `yaml:"diary"`
	EquipmentLayout []LayoutEntry `yaml:"equipmentLayout"`
	Death           *DeathEntry   `yaml:"death"`
}

// CraftRef identifies the craft a soldier is assigned to.
type CraftRef struct {
	Type string `yaml:"type"`
	ID   int    `yaml:"id"`
}

// LayoutEntry is one item placement of an equipment layout.
type LayoutEntry struct {
	ItemType      string   `yaml:"itemType"`
	Slot          string   `yaml:"slot"`
	SlotX         int      `yaml:"slotX"`
	SlotY         int      `yaml:"slotY"`
	AmmoItem      string   `yaml:"ammoItem"`
	AmmoItemSlots []string `yaml:"ammoItemSlots"`
	FuseTimer     *int     `yaml:"fuseTimer"`
}

// DeathEntry is a soldier's death record.
type DeathEntry struct {
	Time  *TimeEntry  `yaml:"time"`
	Cause *CauseEntry `yaml:"cause"`
}

// CauseEntry describes the killer of a soldier.
type CauseEntry struct {
	Race       string `yaml:"race"`
	Rank       string `yaml:"rank"`
	Weapon     string `yaml:"weapon"`
	WeaponAmmo string `yaml:"weaponAmmo"`
	Mission    *int   `yaml:"mission"`
}

// DiaryEntry is a soldier's diary. unconciousTotal is the engine's own spelling.
type DiaryEntry struct {
	MonthsService              int                 `yaml:"monthsService"`
	TimesWoundedTotal          int                 `yaml:"timesWoundedTotal"`
	DaysWoundedTotal           int                 `yaml:"daysWoundedTotal"`
	UnconciousTotal            *int                `yaml:"unconciousTotal"`
	UnconsciousTotal           *int                `yaml:"unconsciousTotal"`
	ShotsFiredCounterTotal     int                 `yaml:"shotsFiredCounterTotal"`
	ShotsLandedCounterTotal    int                 `yaml:"shotsLandedCounterTotal"`
	ShotAtCounterTotal         int                 `yaml:"shotAtCounterTotal"`
	HitCounterTotal            int                 `yaml:"hitCounterTotal"`
	StatGainTotal              int                 `yaml:"statGainTotal"`
	LoadoutChangesTotal        int                 `yaml:"loadoutChangesTotal"`
	TotalShotByFriendlyCounter int                 `yaml:"totalShotByFriendlyCounter"`
	TotalShotFriendlyCounter   int                 `yaml:"totalShotFriendlyCounter"`
	RevivedUnitTotal           int                 `yaml:"revivedUnitTotal"`
	Commendations              []CommendationEntry `yaml:"commendations"`
	KillList                   []KillEntry         `yaml:"killList"`
	MissionIDList              []int               `yaml:"missionIdList"`
}

// CommendationEntry is one award in a diary.
type CommendationEntry struct {
	CommendationName string `yaml:"commendationName"`
	Noun             string `yaml:"noun"`
	DecorationLevel  int    `yaml:"decorationLevel"`
}

// KillEntry is one row of a diary's kill list.
type KillEntry struct {
	Race       string `yaml:"race"`
	Rank       string `yaml:"rank"`
	Weapon     string `yaml:"weapon"`
	WeaponAmmo string `yaml:"weaponAmmo"`
	Faction    int    `yaml:"faction"`
	Status     int    `yaml:"status"`
	Mission    int    `yaml:"mission"`
	Turn       int    `yaml:"turn"`
}
