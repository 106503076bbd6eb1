// Package gormstorage archives snapshots into a relational database through
// GORM. The sqlite and postgres backends embed it and only add connection
// handling.
package gormstorage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oxcstats/soldierstats/internal/database"
	"github.com/oxcstats/soldierstats/internal/logging"
	"github.com/oxcstats/soldierstats/internal/model"
	"github.com/oxcstats/soldierstats/internal/model/convert"
	"github.com/oxcstats/soldierstats/pkg/core"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// batchSize bounds the rows per INSERT statement.
const batchSize = 500

// ErrNoDatabase is returned when the backend is used without a connection.
var ErrNoDatabase = errors.New("no database connection")

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB         *gorm.DB
	LogManager *logging.SlogManager
}

// Backend archives snapshots with GORM.
type Backend struct {
	deps          Dependencies
	lastArchiveID uint
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.LogManager == nil {
		deps.LogManager = logging.NewSlogManager()
	}
	return &Backend{deps: deps}
}

// SetDB injects the connection once the wrapping backend has opened it.
func (b *Backend) SetDB(db *gorm.DB) {
	b.deps.DB = db
}

// Init runs schema migration.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return ErrNoDatabase
	}
	if err := database.Migrate(b.deps.DB); err != nil {
		b.deps.LogManager.WriteLog("gorm:Init", fmt.Sprintf("Failed to migrate schema: %s", err), "ERROR")
		return fmt.Errorf("failed to setup DB: %w", err)
	}
	return nil
}

// Close is a no-op; the connection belongs to whoever opened it.
func (b *Backend) Close() error {
	return nil
}

// LastArchiveID returns the id of the most recently stored archive.
func (b *Backend) LastArchiveID() uint {
	return b.lastArchiveID
}

// StoreSnapshot writes the snapshot and every child row in one transaction.
func (b *Backend) StoreSnapshot(ctx context.Context, snap *core.Snapshot) error {
	if b.deps.DB == nil {
		return ErrNoDatabase
	}

	start := time.Now()
	archive := convert.CoreToSaveArchive(snap)

	err := b.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&archive).Error; err != nil {
			return fmt.Errorf("failed to insert save archive: %w", err)
		}

		bases := make([]model.Base, 0, len(snap.Bases))
		var transfers []model.Transfer
		for _, base := range snap.Bases {
			row := convert.CoreToBase(base)
			row.SaveArchiveID = archive.ID
			bases = append(bases, row)

			for _, t := range base.Transfers {
				tr := convert.CoreToTransfer(base.Name, t)
				tr.SaveArchiveID = archive.ID
				transfers = append(transfers, tr)
			}
		}
		if err := insertBatches(tx, bases, "bases"); err != nil {
			return err
		}
		if err := insertBatches(tx, transfers, "transfers"); err != nil {
			return err
		}

		soldiers := make([]model.Soldier, 0, len(snap.Roster))
		for i, s := range snap.Roster {
			row := convert.CoreToSoldier(i, s)
			row.SaveArchiveID = archive.ID
			soldiers = append(soldiers, row)
		}
		if err := insertBatches(tx, soldiers, "soldiers"); err != nil {
			return err
		}

		missions := make([]model.Mission, 0, len(snap.Missions))
		for _, m := range snap.Missions {
			row := convert.CoreToMission(m)
			row.SaveArchiveID = archive.ID
			missions = append(missions, row)
		}
		if err := insertBatches(tx, missions, "missions"); err != nil {
			return err
		}

		participations := convert.Participations(snap)
		for i := range participations {
			participations[i].SaveArchiveID = archive.ID
		}
		return insertBatches(tx, participations, "participations")
	})
	if err != nil {
		b.deps.LogManager.WriteLog("gorm:StoreSnapshot", fmt.Sprintf("Failed to archive %s: %s", snap.Source, err), "ERROR")
		return err
	}

	b.lastArchiveID = archive.ID
	b.deps.LogManager.Logger().Debug("Archived snapshot",
		"archiveID", archive.ID,
		"soldiers", len(snap.Roster),
		"missions", len(snap.Missions),
		"duration", time.Since(start))
	return nil
}

// insertBatches inserts rows in batches. GORM rejects empty slices, so those are skipped.
func insertBatches[T any](tx *gorm.DB, rows []T, table string) error {
	if len(rows) == 0 {
		return nil
	}
	if err := tx.Omit(clause.Associations).CreateInBatches(rows, batchSize).Error; err != nil {
		return fmt.Errorf("failed to insert %s: %w", table, err)
	}
	return nil
}

// Archives lists stored archives, newest first.
func (b *Backend) Archives(ctx context.Context) ([]model.SaveArchive, error) {
	if b.deps.DB == nil {
		return nil, ErrNoDatabase
	}
	var archives []model.SaveArchive
	err := b.deps.DB.WithContext(ctx).Order("id DESC").Find(&archives).Error
	return archives, err
}

// ArchiveRoster returns the roster of one archive in roster order.
func (b *Backend) ArchiveRoster(ctx context.Context, archiveID uint) ([]core.Soldier, error) {
	if b.deps.DB == nil {
		return nil, ErrNoDatabase
	}

	var rows []model.Soldier
	err := b.deps.DB.WithContext(ctx).
		Where("save_archive_id = ?", archiveID).
		Order("roster_index").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	roster := make([]core.Soldier, 0, len(rows))
	for _, row := range rows {
		s, err := convert.SoldierToCore(row)
		if err != nil {
			return nil, err
		}
		roster = append(roster, s)
	}
	return roster, nil
}

// ArchiveMissions returns the mission index of one archive.
func (b *Backend) ArchiveMissions(ctx context.Context, archiveID uint) (map[int]*core.Mission, error) {
	if b.deps.DB == nil {
		return nil, ErrNoDatabase
	}

	var rows []model.Mission
	if err := b.deps.DB.WithContext(ctx).Where("save_archive_id = ?", archiveID).Find(&rows).Error; err != nil {
		return nil, err
	}

	missions := make(map[int]*core.Mission, len(rows))
	for _, row := range rows {
		m, err := convert.MissionToCore(row)
		if err != nil {
			return nil, err
		}
		missions[m.ID] = m
	}
	return missions, nil
}

// MissionParticipants returns the soldier ids archived for one mission, in roster order.
func (b *Backend) MissionParticipants(ctx context.Context, archiveID uint, missionID int) ([]int, error) {
	if b.deps.DB == nil {
		return nil, ErrNoDatabase
	}

	var ids []int
	err := b.deps.DB.WithContext(ctx).
		Model(&model.Participation{}).
		Where("save_archive_id = ? AND mission_id = ?", archiveID, missionID).
		Order("roster_index").
		Pluck("soldier_id", &ids).Error
	return ids, err
}
