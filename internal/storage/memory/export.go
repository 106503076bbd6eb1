package memory

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/oxcstats/soldierstats/pkg/core"
)

// ExportFormatVersion is bumped whenever the export layout changes.
const ExportFormatVersion = 1

// ArchiveExport is the root JSON structure
type ArchiveExport struct {
	FormatVersion int            `json:"formatVersion"`
	Source        string         `json:"source"`
	LoadedAt      time.Time      `json:"loadedAt"`
	Save          core.SaveInfo  `json:"save"`
	Difficulty    int            `json:"difficulty"`
	Soldiers      []core.Soldier `json:"soldiers"`
	Missions      []MissionJSON  `json:"missions"`
	Bases         []core.Base    `json:"bases"`
	Rejected      []string       `json:"rejected"`
}

// MissionJSON is a mission together with the ids of the soldiers who took part.
type MissionJSON struct {
	*core.Mission
	Participants []int `json:"participants"`
}

// exportFileName derives the export file name from the save name, falling
// back to the source file name.
func exportFileName(snap *core.Snapshot, compress bool) string {
	name := snap.Info.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(snap.Source), filepath.Ext(snap.Source))
	}
	name = strings.NewReplacer(" ", "_", ":", "_", "/", "_", "\\", "_").Replace(name)
	timestamp := snap.LoadedAt.Format("20060102_150405")

	if compress {
		return fmt.Sprintf("%s_%s.json.gz", name, timestamp)
	}
	return fmt.Sprintf("%s_%s.json", name, timestamp)
}

// exportJSON writes the snapshot to a JSON file, gzipped when configured.
// Callers hold b.mu.
func (b *Backend) exportJSON(snap *core.Snapshot) error {
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, exportFileName(snap, b.cfg.CompressOutput))
	if err := writeExport(outputPath, b.cfg.CompressOutput, BuildExport(snap)); err != nil {
		return err
	}
	b.lastExportPath = outputPath
	return nil
}

// BuildExport lays out a snapshot for JSON. Missions are ordered by id and
// carry their participants' soldier ids.
func BuildExport(snap *core.Snapshot) ArchiveExport {
	export := ArchiveExport{
		FormatVersion: ExportFormatVersion,
		Source:        snap.Source,
		LoadedAt:      snap.LoadedAt,
		Save:          snap.Info,
		Difficulty:    snap.Difficulty,
		Soldiers:      snap.Roster,
		Missions:      make([]MissionJSON, 0, len(snap.Missions)),
		Bases:         snap.Bases,
		Rejected:      make([]string, 0, len(snap.Rejected)),
	}
	if export.Soldiers == nil {
		export.Soldiers = []core.Soldier{}
	}
	if export.Bases == nil {
		export.Bases = []core.Base{}
	}

	ids := make([]int, 0, len(snap.Missions))
	for id := range snap.Missions {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		participants := make([]int, 0, len(snap.Participants[id]))
		for _, s := range snap.MissionParticipants(id) {
			participants = append(participants, s.ID)
		}
		export.Missions = append(export.Missions, MissionJSON{
			Mission:      snap.Missions[id],
			Participants: participants,
		})
	}

	for _, err := range snap.Rejected {
		export.Rejected = append(export.Rejected, err.Error())
	}

	return export
}

// writeExport encodes data to path. A failed write removes the partial file.
func writeExport(path string, compress bool, data ArchiveExport) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if !compress {
		return json.NewEncoder(f).Encode(data)
	}

	gz := gzip.NewWriter(f)
	if err := json.NewEncoder(gz).Encode(data); err != nil {
		_ = gz.Close()
		return err
	}
	return gz.Close()
}
