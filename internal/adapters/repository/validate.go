package repository

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/internal/domain/scoretype"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(contestReferences, model.Contest{})
	return v
}

// contestReferences checks what field tags cannot: unique IDs, submissions
// that point at a task of the contest and finite result scores.
func contestReferences(sl validator.StructLevel) {
	c, ok := sl.Current().Interface().(model.Contest)
	if !ok {
		return
	}

	tasks := make(map[int64]bool, len(c.Tasks))
	for i, t := range c.Tasks {
		if tasks[t.ID] {
			sl.ReportError(c.Tasks[i].ID, fmt.Sprintf("Tasks[%d].ID", i), "id", "unique_task", "")
		}
		tasks[t.ID] = true
	}

	parts := make(map[int64]bool, len(c.Participations))
	for i, p := range c.Participations {
		if parts[p.ID] {
			sl.ReportError(p.ID, fmt.Sprintf("Participations[%d].ID", i), "id", "unique_participation", "")
		}
		parts[p.ID] = true
		for j, s := range p.Submissions {
			if !tasks[s.TaskID] {
				sl.ReportError(s.TaskID, fmt.Sprintf("Participations[%d].Submissions[%d].TaskID", i, j), "task_id", "known_task", "")
			}
			for k, r := range s.Results {
				if math.IsNaN(r.Score) || math.IsInf(r.Score, 0) {
					sl.ReportError(r.Score, fmt.Sprintf("Participations[%d].Submissions[%d].Results[%d].Score", i, j, k), "score", "finite_score", "")
				}
			}
		}
	}
}

// Validate checks a decoded contest: field constraints, references between
// tasks, participations and submissions, and every task's score type.
func Validate(c *model.Contest) error {
	var msgs []string
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
		}
	}
	for i := range c.Tasks {
		if _, err := scoretype.Parse(c.Tasks[i].ActiveDataset.ScoreType); err != nil {
			msgs = append(msgs, fmt.Sprintf("task %s: %v", c.Tasks[i].Name, err))
		}
	}
	if len(msgs) > 0 {
		return fmt.Errorf("%w: contest %d: %s", ErrInvalidSnapshot, c.ID, strings.Join(msgs, "; "))
	}
	return nil
}
