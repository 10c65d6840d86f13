// Package render encodes ranking results as the downloadable views:
// ranking.csv, ranking.txt and detailed_results.html.
package render

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/okian/standings/internal/domain/ranking"
)

// Attachment file names of the views.
const (
	CSVFilename      = "ranking.csv"
	TextFilename     = "ranking.txt"
	DetailedFilename = "detailed_results.html"
)

// ErrWrite is returned when a view cannot be written out.
var ErrWrite = errors.New("render write failed")

// Header returns the column names shared by the CSV and text views.
func Header(t ranking.Table) []string {
	cols := make([]string, 0, Columns(t))
	cols = append(cols, "Username", "User")
	if t.ShowTeams {
		cols = append(cols, "Team")
	}
	for _, task := range t.Tasks {
		cols = append(cols, task.Name, "P")
	}
	return append(cols, "Global", "P")
}

// Columns is the number of columns of t's CSV view.
func Columns(t ranking.Table) int {
	n := 2 + 2*len(t.Tasks) + 2
	if t.ShowTeams {
		n++
	}
	return n
}

// Record returns the CSV fields of one row.
func Record(t ranking.Table, r ranking.Row) []string {
	rec := make([]string, 0, Columns(t))
	rec = append(rec, r.Username, r.DisplayName)
	if t.ShowTeams {
		rec = append(rec, r.TeamName)
	}
	for _, cell := range r.Tasks {
		rec = append(rec, ranking.FormatNumber(cell.Score), ranking.PartialMark(cell.Partial))
	}
	return append(rec, ranking.FormatNumber(r.Total), ranking.PartialMark(r.Partial))
}

// WriteCSV writes the header and one record per row.
func WriteCSV(w io.Writer, t ranking.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(t)); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	for _, r := range t.Rows {
		if err := cw.Write(Record(t, r)); err != nil {
			return fmt.Errorf("%w: %v", ErrWrite, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// WriteText writes the ranking as aligned columns. A partial score is
// printed with a trailing "*" instead of a separate column.
func WriteText(w io.Writer, t ranking.Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	cols := []string{"#", "Username", "User"}
	if t.ShowTeams {
		cols = append(cols, "Team")
	}
	for _, task := range t.Tasks {
		cols = append(cols, task.Name)
	}
	cols = append(cols, "Global")
	if err := writeLine(tw, cols); err != nil {
		return err
	}

	for _, r := range t.Rows {
		line := []string{fmt.Sprint(r.Rank), r.Username, r.DisplayName}
		if t.ShowTeams {
			line = append(line, r.TeamName)
		}
		for _, cell := range r.Tasks {
			line = append(line, ranking.FormatNumber(cell.Score)+ranking.PartialMark(cell.Partial))
		}
		line = append(line, ranking.FormatNumber(r.Total)+ranking.PartialMark(r.Partial))
		if err := writeLine(tw, line); err != nil {
			return err
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

func writeLine(w io.Writer, cols []string) error {
	for i, c := range cols {
		sep := "\t"
		if i == len(cols)-1 {
			sep = "\n"
		}
		if _, err := io.WriteString(w, c+sep); err != nil {
			return fmt.Errorf("%w: %v", ErrWrite, err)
		}
	}
	return nil
}
