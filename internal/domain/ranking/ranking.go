// Package ranking builds the standings of a contest snapshot: the ranking
// table ordered by total score, and the detailed per-testcase report
// ordered by name.
package ranking

import (
	"fmt"
	"sort"

	"golang.org/x/text/language"

	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/internal/domain/scoring"
)

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithAggregator sets the aggregator used for task scores.
func WithAggregator(a *scoring.Aggregator) Option {
	return func(b *Builder) {
		if a != nil {
			b.agg = a
		}
	}
}

// WithDefaultLocale sets the collation locale for contests that declare
// none, or declare one that does not parse.
func WithDefaultLocale(tag language.Tag) Option {
	return func(b *Builder) {
		b.locale = tag
	}
}

// Builder derives ranking views from read-only contest snapshots. It holds
// no per-build state and is safe for concurrent use.
type Builder struct {
	agg    *scoring.Aggregator
	locale language.Tag
}

// NewBuilder creates a Builder with configuration options.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		agg:    scoring.NewAggregator(),
		locale: language.English,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// TaskHeader describes one task column.
type TaskHeader struct {
	ID        int64
	Name      string
	Title     string
	Precision int
}

// TaskCell is a participation's score on one task.
type TaskCell struct {
	Score   float64
	Partial bool
}

// Row is one ranked participation. Rows are built per request and never
// stored on the participation.
type Row struct {
	ParticipationID int64
	// Rank is shared by rows with equal totals.
	Rank        int
	Username    string
	DisplayName string
	TeamName    string
	Tasks       []TaskCell
	Total       float64
	Partial     bool
}

// Table is the ranking of a contest.
type Table struct {
	ContestID   int64
	ContestName string
	// Precision is the contest score precision used for totals.
	Precision int
	ShowTeams bool
	Tasks     []TaskHeader
	Rows      []Row
}

// BuildRanking scores every visible participation on every task and orders
// the rows by descending total. Equal totals are ordered by username, then
// by participation ID.
func (b *Builder) BuildRanking(c *model.Contest) (Table, error) {
	t := Table{
		ContestID:   c.ID,
		ContestName: c.Name,
		Precision:   c.ScorePrecision,
		ShowTeams:   c.HasTeams(),
		Tasks:       headers(c),
	}

	visible := c.Visible()
	t.Rows = make([]Row, 0, len(visible))
	for _, p := range visible {
		row, err := b.row(c, p)
		if err != nil {
			return Table{}, err
		}
		t.Rows = append(t.Rows, row)
	}

	sort.Slice(t.Rows, func(i, j int) bool {
		a, z := &t.Rows[i], &t.Rows[j]
		if a.Total != z.Total {
			return a.Total > z.Total
		}
		if a.Username != z.Username {
			return a.Username < z.Username
		}
		return a.ParticipationID < z.ParticipationID
	})
	assignRanks(t.Rows)

	return t, nil
}

func (b *Builder) row(c *model.Contest, p *model.Participation) (Row, error) {
	row := Row{
		ParticipationID: p.ID,
		Username:        p.User.Username,
		DisplayName:     p.User.DisplayName(),
		TeamName:        p.TeamName(),
		Tasks:           make([]TaskCell, 0, len(c.Tasks)),
	}

	sum := 0.0
	for i := range c.Tasks {
		res, err := b.agg.TaskScore(p, &c.Tasks[i])
		if err != nil {
			return Row{}, fmt.Errorf("participation %d: %w", p.ID, err)
		}
		row.Tasks = append(row.Tasks, TaskCell{Score: res.Score, Partial: res.Partial})
		sum += res.Score
		row.Partial = row.Partial || res.Partial
	}
	row.Total = scoring.Round(sum, c.ScorePrecision)

	return row, nil
}

// assignRanks gives competition ranks (1, 2, 2, 4) to sorted rows.
func assignRanks(rows []Row) {
	for i := range rows {
		if i > 0 && rows[i].Total == rows[i-1].Total {
			rows[i].Rank = rows[i-1].Rank
			continue
		}
		rows[i].Rank = i + 1
	}
}

func headers(c *model.Contest) []TaskHeader {
	out := make([]TaskHeader, 0, len(c.Tasks))
	for _, t := range c.Tasks {
		out = append(out, TaskHeader{
			ID:        t.ID,
			Name:      t.Name,
			Title:     t.Title,
			Precision: t.ScorePrecision,
		})
	}
	return out
}
