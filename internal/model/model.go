package model

import (
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&SaveArchive{},
	&Base{},
	&Soldier{},
	&Mission{},
	&Participation{},
	&Transfer{},
}

////////////////////////
// ARCHIVE MODELS
////////////////////////

// SaveArchive is one archived load of a save file. Every other row belongs to one archive.
type SaveArchive struct {
	gorm.Model
	Source        string         `json:"source" gorm:"size:255;index:idx_save_archive_source"`
	SaveName      string         `json:"saveName" gorm:"size:127"`
	Version       string         `json:"version" gorm:"size:64"`
	Engine        string         `json:"engine" gorm:"size:64"`
	GameTime      string         `json:"gameTime" gorm:"size:32"`
	Difficulty    int            `json:"difficulty"`
	Mods          datatypes.JSON `json:"mods" gorm:"type:jsonb;default:'[]'"`
	LoadedAt      time.Time      `json:"loadedAt" gorm:"NOT NULL"`
	SoldierCount  int            `json:"soldierCount"`
	MissionCount  int            `json:"missionCount"`
	BaseCount     int            `json:"baseCount"`
	RejectedCount int            `json:"rejectedCount"`
	Bases         []Base         `gorm:"foreignkey:SaveArchiveID"`
	Soldiers      []Soldier      `gorm:"foreignkey:SaveArchiveID"`
	Missions      []Mission      `gorm:"foreignkey:SaveArchiveID"`
}

func (*SaveArchive) TableName() string {
	return "save_archives"
}

// Base is one player base. Location is stored in EPSG:3857.
type Base struct {
	ID            uint           `json:"id" gorm:"primarykey"`
	SaveArchiveID uint           `json:"saveArchiveId" gorm:"index:idx_base_save_archive_id"`
	SaveArchive   SaveArchive    `gorm:"foreignkey:SaveArchiveID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name          string         `json:"name" gorm:"size:64"`
	Longitude     float64        `json:"longitude"`
	Latitude      float64        `json:"latitude"`
	Location      geom.Point     `json:"location"`
	Facilities    datatypes.JSON `json:"facilities" gorm:"type:jsonb;default:'[]'"`
	Storage       datatypes.JSON `json:"storage" gorm:"type:jsonb;default:'{}'"`
	Research      datatypes.JSON `json:"research" gorm:"type:jsonb;default:'[]'"`
	Manufacturing datatypes.JSON `json:"manufacturing" gorm:"type:jsonb;default:'[]'"`
	SoldierCount  int            `json:"soldierCount"`
}

func (*Base) TableName() string {
	return "bases"
}

// Soldier is one roster entry. RosterIndex is part of the key because soldier
// ids are not guaranteed unique within a save.
type Soldier struct {
	SaveArchiveID uint           `json:"saveArchiveId" gorm:"primaryKey;autoIncrement:false"`
	RosterIndex   int            `json:"rosterIndex" gorm:"primaryKey;autoIncrement:false"`
	SaveArchive   SaveArchive    `gorm:"foreignkey:SaveArchiveID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	SoldierID     int            `json:"soldierId" gorm:"index:idx_soldier_soldier_id"`
	Type          string         `json:"type" gorm:"size:64"`
	Name          string         `json:"name" gorm:"size:127"`
	Nationality   int            `json:"nationality"`
	Gender        int            `json:"gender"`
	Rank          int            `json:"rank"`
	Missions      int            `json:"missions"`
	Kills         int            `json:"kills"`
	Base          string         `json:"base" gorm:"size:64;index:idx_soldier_base"`
	Craft         string         `json:"craft" gorm:"size:64"`
	InitialStats  datatypes.JSON `json:"initialStats" gorm:"type:jsonb"`
	CurrentStats  datatypes.JSON `json:"currentStats" gorm:"type:jsonb"`
	Equipment     datatypes.JSON `json:"equipment" gorm:"type:jsonb;default:'[]'"`
	ServiceRecord datatypes.JSON `json:"serviceRecord" gorm:"type:jsonb"`
	Dead          bool           `json:"dead" gorm:"default:false"`
	DeathTime     string         `json:"deathTime" gorm:"size:32"`
	DeathCause    datatypes.JSON `json:"deathCause" gorm:"type:jsonb"`
	Recovery      float64        `json:"recovery"`
	Training      bool           `json:"training"`
	PsiTraining   bool           `json:"psiTraining"`
}

func (*Soldier) TableName() string {
	return "soldiers"
}

// Mission is one mission statistics record.
type Mission struct {
	SaveArchiveID uint           `json:"saveArchiveId" gorm:"primaryKey;autoIncrement:false"`
	MissionID     int            `json:"missionId" gorm:"primaryKey;autoIncrement:false"`
	SaveArchive   SaveArchive    `gorm:"foreignkey:SaveArchiveID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name          string         `json:"name" gorm:"size:127"`
	MarkerID      int            `json:"markerId"`
	Date          string         `json:"date" gorm:"size:10"`
	Region        string         `json:"region" gorm:"size:64"`
	Country       string         `json:"country" gorm:"size:64"`
	Type          string         `json:"type" gorm:"size:64"`
	UFO           string         `json:"ufo" gorm:"size:64"`
	Success       bool           `json:"success"`
	Score         int            `json:"score"`
	Rating        string         `json:"rating" gorm:"size:64"`
	AlienRace     string         `json:"alienRace" gorm:"size:64"`
	Daylight      int            `json:"daylight"`
	Injuries      datatypes.JSON `json:"injuries" gorm:"type:jsonb;default:'{}'"`
}

func (*Mission) TableName() string {
	return "missions"
}

// Participation links a roster soldier to a mission they took part in.
type Participation struct {
	SaveArchiveID  uint        `json:"saveArchiveId" gorm:"primaryKey;autoIncrement:false"`
	MissionID      int         `json:"missionId" gorm:"primaryKey;autoIncrement:false"`
	RosterIndex    int         `json:"rosterIndex" gorm:"primaryKey;autoIncrement:false"`
	SaveArchive    SaveArchive `gorm:"foreignkey:SaveArchiveID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	SoldierID      int         `json:"soldierId" gorm:"index:idx_participation_soldier_id"`
	InjuryDays     int         `json:"injuryDays"`
	KilledInAction bool        `json:"killedInAction"`
}

func (*Participation) TableName() string {
	return "participations"
}

// Transfer is a shipment in flight to a base.
type Transfer struct {
	ID            uint        `json:"id" gorm:"primarykey"`
	SaveArchiveID uint        `json:"saveArchiveId" gorm:"index:idx_transfer_save_archive_id"`
	SaveArchive   SaveArchive `gorm:"foreignkey:SaveArchiveID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	BaseName      string      `json:"baseName" gorm:"size:64"`
	Hours         int         `json:"hours"`
	Kind          string      `json:"kind" gorm:"size:16"`
	SoldierID     *int        `json:"soldierId" gorm:"default:NULL"`
	SoldierName   string      `json:"soldierName" gorm:"size:127"`
	ItemID        string      `json:"itemId" gorm:"size:64"`
	ItemQty       int         `json:"itemQty"`
	Scientists    int         `json:"scientists"`
	Engineers     int         `json:"engineers"`
}

func (*Transfer) TableName() string {
	return "transfers"
}
