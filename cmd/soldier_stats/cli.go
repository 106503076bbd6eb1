package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/oxcstats/soldierstats/internal/config"
	"github.com/oxcstats/soldierstats/internal/report"
	"github.com/oxcstats/soldierstats/internal/savefile"
	"github.com/oxcstats/soldierstats/internal/storage"
	"github.com/oxcstats/soldierstats/pkg/core"
)

type command struct {
	usage   string
	minArgs int
	archive bool
	run     func(a *app, ctx context.Context, args []string, out io.Writer) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"csv":     {usage: "<save> [out.csv|-]", minArgs: 1, run: (*app).exportCSV},
		"json":    {usage: "<save> [game|meta] [out.json]", minArgs: 1, run: (*app).dumpJSON},
		"soldier": {usage: "<save> <soldier id>", minArgs: 2, run: (*app).showSoldier},
		"mission": {usage: "<save> <mission id>", minArgs: 2, run: (*app).showMission},
		"bases":   {usage: "<save>", minArgs: 1, run: (*app).showBases},
		"archive": {usage: "<save>", minArgs: 1, archive: true, run: (*app).archiveSave},
	}
}

func printUsage(out io.Writer) {
	fmt.Fprintf(out, "Usage: %s <command> [args]\n\nCommands:\n", AppName)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s %s\n", name, commands[name].usage)
	}
}

// tr adapts the translator to the report package.
func (a *app) tr() report.Translate {
	if a.translator == nil {
		return nil
	}
	return a.translator.Get
}

func (a *app) load(ctx context.Context, path string) (*core.Snapshot, error) {
	snap, err := a.store.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if n := len(snap.Rejected); n > 0 {
		a.logger.WarnContext(ctx, "Skipped malformed records", "count", n)
	}
	if dups := snap.DuplicateSoldierIDs(); len(dups) > 0 {
		a.logger.WarnContext(ctx, "Duplicate soldier ids, lookups return the first", "ids", dups)
	}
	return snap, nil
}

func (a *app) exportCSV(ctx context.Context, args []string, out io.Writer) error {
	snap, err := a.load(ctx, args[0])
	if err != nil {
		return err
	}

	exportCfg := config.GetExportConfig()
	target := exportCfg.CSVPath
	if len(args) > 1 {
		target = args[1]
	}
	opts := report.CSVOptions{Recovery: exportCfg.RecoveryColumn}

	if target == "-" {
		return report.WriteCSV(out, snap.Roster, opts)
	}

	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	if err := report.WriteCSV(f, snap.Roster, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close csv file: %w", err)
	}

	a.logger.InfoContext(ctx, "Exported CSV", "path", target, "soldiers", len(snap.Roster))
	fmt.Fprintf(out, "Exported %d soldiers to %s\n", len(snap.Roster), target)
	return nil
}

func (a *app) dumpJSON(ctx context.Context, args []string, out io.Writer) error {
	section := savefile.SectionGame
	target := config.GetString("debug.jsonPath")

	rest := args[1:]
	if len(rest) > 0 {
		if s, err := savefile.ParseSection(rest[0]); err == nil {
			section = s
			rest = rest[1:]
		}
	}
	if len(rest) > 0 {
		target = rest[0]
	}

	doc, err := savefile.Load(args[0], section)
	if err != nil {
		return err
	}
	if err := savefile.DumpJSON(doc, target, strings.HasSuffix(target, ".gz")); err != nil {
		return err
	}

	a.logger.InfoContext(ctx, "Dumped document", "section", section, "path", target)
	fmt.Fprintf(out, "Wrote %s document to %s\n", section, target)
	return nil
}

func parseID(s, what string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q: %w", what, s, err)
	}
	return id, nil
}

func (a *app) showSoldier(ctx context.Context, args []string, out io.Writer) error {
	id, err := parseID(args[1], "soldier")
	if err != nil {
		return err
	}
	snap, err := a.load(ctx, args[0])
	if err != nil {
		return err
	}

	s, ok := snap.SoldierByID(id)
	if !ok {
		return fmt.Errorf("soldier %d not found", id)
	}
	tr := a.tr()

	fmt.Fprintf(out, "%s %s (#%d)\n", a.translator.RankString(s.Rank), s.Name, s.ID)
	fmt.Fprintf(out, "Base: %s", s.Base)
	if s.Craft != "" {
		fmt.Fprintf(out, " | Craft: %s", s.Craft)
	}
	fmt.Fprintf(out, "\nMissions: %d | Kills: %d\n", s.Missions, s.Kills)
	if s.Wounded() {
		fmt.Fprintf(out, "Recovery: %g days\n", s.Recovery)
	}

	fmt.Fprintln(out, "\nStats (initial):")
	current, initial := s.CurrentStats.Values(), s.InitialStats.Values()
	for i, key := range core.StatKeys {
		fmt.Fprintf(out, "  %-12s %3d (%d)\n", key, current[i], initial[i])
	}

	fmt.Fprintln(out, "\nService record:")
	fmt.Fprintln(out, report.ServiceRecordSummary(s.Record))
	for _, c := range s.Record.Commendations {
		fmt.Fprintf(out, "  * %s", tr.Get(c.Name))
		if c.Noun != "" {
			fmt.Fprintf(out, " (%s)", tr.Get(c.Noun))
		}
		fmt.Fprintf(out, " [%d]\n", c.DecorationLevel)
	}

	inventory := report.FormatInventory(s.Equipment)
	if len(inventory) > 0 {
		fmt.Fprintln(out, "\nInventory:")
		for _, slot := range report.InventorySlots(inventory) {
			fmt.Fprintf(out, "%s:\n", tr.Get(slot))
			for _, line := range inventory[slot] {
				fmt.Fprintln(out, line)
			}
		}
	}

	if missions := snap.SoldierMissions(s); len(missions) > 0 {
		fmt.Fprintln(out, "\nMissions:")
		for _, m := range missions {
			fmt.Fprintf(out, "  %s | %s\n", report.MissionSummary(m, tr), report.ParticipantStatus(m, s))
		}
	}

	if death := report.DeathSummary(s.Death, tr); death != "" {
		fmt.Fprintln(out, death)
	}
	return nil
}

func (a *app) showMission(ctx context.Context, args []string, out io.Writer) error {
	id, err := parseID(args[1], "mission")
	if err != nil {
		return err
	}
	snap, err := a.load(ctx, args[0])
	if err != nil {
		return err
	}

	m, ok := snap.MissionByID(id)
	if !ok {
		return fmt.Errorf("mission %d not found", id)
	}
	tr := a.tr()

	fmt.Fprintln(out, report.MissionSummary(m, tr))
	fmt.Fprintf(out, "Type: %s | Country: %s | UFO: %s\n", tr.Get(m.Type), tr.Get(m.Country), tr.Get(m.UFO))
	fmt.Fprintf(out, "Aliens: %s | Score: %d | Rating: %s\n", tr.Get(m.AlienRace), m.Score, tr.Get(m.Rating))

	participants := snap.MissionParticipants(m.ID)
	fmt.Fprintf(out, "\nParticipants (%d):\n", len(participants))
	for _, s := range participants {
		fmt.Fprintf(out, "  #%d %s - %s\n", s.ID, s.Name, report.ParticipantStatus(m, s))
		if s.Death.DiedOn(m.ID) {
			fmt.Fprintf(out, "      %s\n", report.MissionDeathDetail(s.Death, tr))
		}
	}
	return nil
}

func (a *app) showBases(ctx context.Context, args []string, out io.Writer) error {
	snap, err := a.load(ctx, args[0])
	if err != nil {
		return err
	}
	tr := a.tr()

	fmt.Fprintf(out, "%s (%d bases)\n", snap.Info.Name, len(snap.Bases))
	for i := range snap.Bases {
		b := &snap.Bases[i]
		fmt.Fprintf(out, "\n== %s ==\n", b.Name)
		fmt.Fprintf(out, "Location: %.4f, %.4f\n", b.Location.Latitude, b.Location.Longitude)
		fmt.Fprintln(out, report.BaseSoldierSummary(b))

		counts, building := report.FacilityCounts(b)
		types := make([]string, 0, len(counts))
		for t := range counts {
			types = append(types, t)
		}
		slices.Sort(types)
		fmt.Fprintf(out, "Facilities: %d (%d under construction)\n", len(b.Facilities), building)
		for _, t := range types {
			fmt.Fprintf(out, "  %s x%d\n", tr.Get(t), counts[t])
		}

		fmt.Fprintf(out, "Stored item types: %d | Research: %d | Manufacturing: %d\n",
			len(b.Storage), len(b.Research), len(b.Manufacturing))

		if len(b.Transfers) > 0 {
			fmt.Fprintln(out, "Transfers:")
			for _, t := range b.Transfers {
				fmt.Fprintf(out, "  %s\n", report.TransferLabel(t, tr))
			}
		}
	}
	return nil
}

// lastArchiver is implemented by the database backends.
type lastArchiver interface {
	LastArchiveID() uint
}

// pusher is implemented by the websocket backend.
type pusher interface {
	Sent() int
}

func (a *app) archiveSave(ctx context.Context, args []string, out io.Writer) error {
	snap, err := a.load(ctx, args[0])
	if err != nil {
		return err
	}

	switch b := a.backend.(type) {
	case nil:
		fmt.Fprintf(out, "Loaded %s; archiving is disabled (storage.type=%s)\n", snap.Info.Name, storage.TypeNone)
	case storage.Exporter:
		path := b.GetExportedFilePath()
		if path == "" {
			return fmt.Errorf("archiving %s failed, see log", snap.Info.Name)
		}
		fmt.Fprintf(out, "Archived %s to %s\n", snap.Info.Name, path)
	case lastArchiver:
		id := b.LastArchiveID()
		if id == 0 {
			return fmt.Errorf("archiving %s failed, see log", snap.Info.Name)
		}
		fmt.Fprintf(out, "Archived %s as archive %d\n", snap.Info.Name, id)
	case pusher:
		if b.Sent() == 0 {
			return fmt.Errorf("sending %s failed, see log", snap.Info.Name)
		}
		fmt.Fprintf(out, "Sent %s to the snapshot server\n", snap.Info.Name)
	default:
		fmt.Fprintf(out, "Archived %s\n", snap.Info.Name)
	}
	return nil
}
