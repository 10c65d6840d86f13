// Package types contains the JSON shapes of the interactive ranking view
package types

import (
	"github.com/okian/standings/internal/domain/ranking"
)

// Contest summarizes a loaded contest
type Contest struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Tasks          int    `json:"tasks"`
	Participations int    `json:"participations"`
}

// Task is one task column
type Task struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Title     string `json:"title,omitempty"`
	Precision int    `json:"score_precision"`
}

// Cell is a score on one task
type Cell struct {
	Score   float64 `json:"score"`
	Partial bool    `json:"partial"`
}

// RankingRow represents a ranking entry
type RankingRow struct {
	Rank     int     `json:"rank"`
	Username string  `json:"username"`
	User     string  `json:"user"`
	Team     string  `json:"team,omitempty"`
	Tasks    []Cell  `json:"tasks"`
	Total    float64 `json:"total"`
	Partial  bool    `json:"partial"`
}

// Ranking is the interactive ranking table
type Ranking struct {
	ContestID   int64        `json:"contest_id"`
	ContestName string       `json:"contest_name"`
	ShowTeams   bool         `json:"show_teams"`
	Tasks       []Task       `json:"tasks"`
	Rows        []RankingRow `json:"rows"`
}

// FromTable converts a ranking table to its JSON shape.
func FromTable(t ranking.Table) Ranking {
	out := Ranking{
		ContestID:   t.ContestID,
		ContestName: t.ContestName,
		ShowTeams:   t.ShowTeams,
		Tasks:       make([]Task, 0, len(t.Tasks)),
		Rows:        make([]RankingRow, 0, len(t.Rows)),
	}
	for _, h := range t.Tasks {
		out.Tasks = append(out.Tasks, Task{ID: h.ID, Name: h.Name, Title: h.Title, Precision: h.Precision})
	}
	for _, r := range t.Rows {
		row := RankingRow{
			Rank:     r.Rank,
			Username: r.Username,
			User:     r.DisplayName,
			Tasks:    make([]Cell, 0, len(r.Tasks)),
			Total:    r.Total,
			Partial:  r.Partial,
		}
		if t.ShowTeams {
			row.Team = r.TeamName
		}
		for _, c := range r.Tasks {
			row.Tasks = append(row.Tasks, Cell{Score: c.Score, Partial: c.Partial})
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}
