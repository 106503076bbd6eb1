// Package report renders snapshot data as CSV and as the display strings used
// by the command line.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/oxcstats/soldierstats/pkg/core"
)

// CSVOptions controls optional export columns.
type CSVOptions struct {
	// Recovery appends the days-until-fit column.
	Recovery bool
}

// statColumns names the ten abilities in canonical order.
var statColumns = [core.StatCount]string{
	"TUs",
	"Stamina",
	"Health",
	"Bravery",
	"Reactions",
	"Firing",
	"Throwing",
	"Strength",
	"PsiStrength",
	"PsiSkill",
}

// Header returns the CSV header row.
func Header(opts CSVOptions) []string {
	header := make([]string, 0, 7+2*core.StatCount+1)
	header = append(header, "ID", "Base", "Type", "Name", "Rank", "Missions", "Kills")
	header = append(header, statColumns[:]...)
	for _, c := range statColumns {
		header = append(header, "Initial "+c)
	}
	if opts.Recovery {
		header = append(header, "Recovery")
	}
	return header
}

// Row returns the CSV row of one soldier: identity, current stats, then initial stats.
func Row(s *core.Soldier, opts CSVOptions) []string {
	row := make([]string, 0, 7+2*core.StatCount+1)
	row = append(row,
		strconv.Itoa(s.ID),
		s.Base,
		s.Type,
		s.Name,
		strconv.Itoa(s.Rank),
		strconv.Itoa(s.Missions),
		strconv.Itoa(s.Kills),
	)
	for _, v := range s.CurrentStats.Values() {
		row = append(row, strconv.Itoa(v))
	}
	for _, v := range s.InitialStats.Values() {
		row = append(row, strconv.Itoa(v))
	}
	if opts.Recovery {
		row = append(row, strconv.FormatFloat(s.Recovery, 'f', -1, 64))
	}
	return row
}

// WriteCSV writes the header and one row per roster soldier, in roster order.
func WriteCSV(w io.Writer, roster []core.Soldier, opts CSVOptions) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(opts)); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i := range roster {
		if err := cw.Write(Row(&roster[i], opts)); err != nil {
			return fmt.Errorf("failed to write csv row for soldier %d: %w", roster[i].ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
