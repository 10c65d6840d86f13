package ranking

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/internal/domain/outcome"
	"github.com/okian/standings/internal/domain/scoring"
	"github.com/okian/standings/internal/domain/scoretype"
)

// DetailedReport is the per-testcase report of a contest, one block per
// visible participation.
type DetailedReport struct {
	ContestID   int64
	ContestName string
	// Language is the display language of outcome texts.
	Language  language.Tag
	Precision int
	// MaxScore is the best total a participation can get.
	MaxScore float64
	// PartialResults is set when any reported task is partial.
	PartialResults bool
	Participants   []ParticipantResult
}

// ParticipantResult holds the attempted tasks of one participation.
type ParticipantResult struct {
	ParticipationID int64
	Username        string
	FirstName       string
	LastName        string
	DisplayName     string
	TeamName        string
	Total           float64
	Partial         bool
	Tasks           []TaskResult
}

// TaskResult is the governing submission of one attempted task.
type TaskResult struct {
	TaskID    int64
	TaskName  string
	Title     string
	Precision int
	Score     float64
	MaxScore  float64
	Partial   bool
	Status    model.Status
	// Groups is only filled for scored results.
	Groups []GroupBlock
}

// GroupBlock is one testcase group of a scored result.
type GroupBlock struct {
	Index     int
	Score     float64
	MaxScore  float64
	Testcases []TestcaseLine
}

// TestcaseLine is one testcase with its display text.
type TestcaseLine struct {
	Index   string
	Outcome string
	Text    string
	Time    *float64
	Memory  *int64
}

// BuildDetailed builds the detailed report with outcome texts in lang.
// Participations are ordered by last name, then first name, under the
// contest locale's collation.
func (b *Builder) BuildDetailed(c *model.Contest, lang language.Tag) (DetailedReport, error) {
	tr := outcome.NewTranslator(lang)
	rep := DetailedReport{
		ContestID:   c.ID,
		ContestName: c.Name,
		Language:    tr.Language(),
		Precision:   c.ScorePrecision,
	}

	maxScores := make([]float64, len(c.Tasks))
	sum := 0.0
	for i := range c.Tasks {
		st, err := scoring.ScoreType(&c.Tasks[i])
		if err != nil {
			return DetailedReport{}, err
		}
		maxScores[i] = st.MaxScore()
		sum += maxScores[i]
	}
	rep.MaxScore = scoring.Round(sum, c.ScorePrecision)

	visible := c.Visible()
	b.sortByName(visible, b.localeOf(c))

	rep.Participants = make([]ParticipantResult, 0, len(visible))
	for _, p := range visible {
		pr := ParticipantResult{
			ParticipationID: p.ID,
			Username:        p.User.Username,
			FirstName:       p.User.FirstName,
			LastName:        p.User.LastName,
			DisplayName:     p.User.DisplayName(),
			TeamName:        p.TeamName(),
		}
		total := 0.0
		for i := range c.Tasks {
			t := &c.Tasks[i]
			res, err := b.agg.TaskScore(p, t)
			if err != nil {
				return DetailedReport{}, fmt.Errorf("participation %d: %w", p.ID, err)
			}
			total += res.Score
			if res.Submission == nil && res.Score == 0 {
				continue
			}
			tres, err := taskResult(t, res, maxScores[i], tr)
			if err != nil {
				return DetailedReport{}, fmt.Errorf("participation %d: %w", p.ID, err)
			}
			pr.Tasks = append(pr.Tasks, tres)
			pr.Partial = pr.Partial || res.Partial
		}
		pr.Total = scoring.Round(total, c.ScorePrecision)
		rep.PartialResults = rep.PartialResults || pr.Partial
		rep.Participants = append(rep.Participants, pr)
	}

	return rep, nil
}

func taskResult(t *model.Task, res scoring.Result, maxScore float64, tr *outcome.Translator) (TaskResult, error) {
	group, err := scoring.DetailFor(t)
	if err != nil {
		return TaskResult{}, err
	}

	out := TaskResult{
		TaskID:    t.ID,
		TaskName:  t.Name,
		Title:     t.Title,
		Precision: t.ScorePrecision,
		Score:     res.Score,
		MaxScore:  maxScore,
		Partial:   res.Partial,
		Status:    model.StatusCompiling,
	}
	if res.Submission == nil {
		return out, nil
	}
	sr := res.Submission.Result(t.ActiveDataset.ID)
	if sr == nil {
		return out, nil
	}
	out.Status = sr.Status
	if sr.Status != model.StatusScored {
		return out, nil
	}

	groups, err := group.Details(sr.ScoreDetails)
	if err != nil {
		return TaskResult{}, fmt.Errorf("task %s submission %d: %w", t.Name, res.Submission.ID, err)
	}
	out.Groups = make([]GroupBlock, 0, len(groups))
	for _, g := range groups {
		out.Groups = append(out.Groups, groupBlock(g, tr))
	}
	return out, nil
}

func groupBlock(g scoretype.GroupResult, tr *outcome.Translator) GroupBlock {
	block := GroupBlock{
		Index:     g.Index,
		Score:     g.Score,
		MaxScore:  g.MaxScore,
		Testcases: make([]TestcaseLine, 0, len(g.Testcases)),
	}
	for _, tc := range g.Testcases {
		block.Testcases = append(block.Testcases, TestcaseLine{
			Index:   tc.Index,
			Outcome: tc.Outcome,
			Text:    tr.Text(tc.Message),
			Time:    tc.Time,
			Memory:  tc.Memory,
		})
	}
	return block
}

func (b *Builder) localeOf(c *model.Contest) language.Tag {
	if c.Locale == "" {
		return b.locale
	}
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return b.locale
	}
	return tag
}

// sortByName orders participations by last name, then first name, ignoring
// case and accents. Username and ID break the remaining ties.
func (b *Builder) sortByName(ps []*model.Participation, tag language.Tag) {
	// Collators are not safe for concurrent use; one per build.
	col := collate.New(tag, collate.Loose)
	sort.SliceStable(ps, func(i, j int) bool {
		a, z := &ps[i].User, &ps[j].User
		if c := col.CompareString(a.LastName, z.LastName); c != 0 {
			return c < 0
		}
		if c := col.CompareString(a.FirstName, z.FirstName); c != 0 {
			return c < 0
		}
		if a.Username != z.Username {
			return a.Username < z.Username
		}
		return ps[i].ID < ps[j].ID
	})
}
