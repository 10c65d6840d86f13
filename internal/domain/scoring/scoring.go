// Package scoring computes a participation's score on a task from the
// results of its submissions.
package scoring

import (
	"errors"
	"fmt"

	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/internal/domain/scoretype"
)

// Score modes select the governing submission of a task.
const (
	// ModeMax takes the best scored submission.
	ModeMax = "max"
	// ModeMaxTokenedLast takes the best among the last submission and
	// every tokened submission.
	ModeMaxTokenedLast = "max_tokened_last"
)

// Sentinel kinds for scoring errors.
var (
	ErrUnsupportedScoreType = errors.New("unsupported score type")
	ErrUnknownScoreMode     = errors.New("unknown score mode")
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithDefaultMode sets the score mode used by tasks that declare none.
func WithDefaultMode(mode string) Option {
	return func(a *Aggregator) {
		if mode != "" {
			a.defaultMode = mode
		}
	}
}

// Result is a participation's score on one task.
type Result struct {
	// Score is rounded to the task's precision.
	Score float64
	// Partial is set when a considered submission is not fully graded.
	Partial bool
	// Submission is the governing submission, or nil when there is none.
	Submission *model.Submission
}

// Aggregator computes task scores. It holds no per-contest state and is
// safe for concurrent use.
type Aggregator struct {
	defaultMode string
}

// NewAggregator creates an Aggregator with configuration options.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		defaultMode: ModeMax,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// TaskScore returns the score of p on t. A participation without
// submissions for the task scores 0 and is not partial.
func (a *Aggregator) TaskScore(p *model.Participation, t *model.Task) (Result, error) {
	subs := p.SubmissionsFor(t.ID)
	if len(subs) == 0 {
		return Result{}, nil
	}

	mode := t.ScoreMode
	if mode == "" {
		mode = a.defaultMode
	}

	var res Result
	switch mode {
	case ModeMax:
		res = selectMax(subs, t.ActiveDataset.ID)
	case ModeMaxTokenedLast:
		res = selectMaxTokenedLast(subs, t.ActiveDataset.ID)
	default:
		return Result{}, fmt.Errorf("%w: %q for task %s", ErrUnknownScoreMode, mode, t.Name)
	}
	res.Score = Round(res.Score, t.ScorePrecision)
	return res, nil
}

// ScoreType parses the score type of t's active dataset.
func ScoreType(t *model.Task) (scoretype.ScoreType, error) {
	st, err := scoretype.Parse(t.ActiveDataset.ScoreType)
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", t.Name, err)
	}
	return st, nil
}

// DetailFor returns the group policy of t, the only policy with
// per-testcase detail.
func DetailFor(t *model.Task) (scoretype.Group, error) {
	st, err := ScoreType(t)
	if err != nil {
		return scoretype.Group{}, err
	}
	switch v := st.(type) {
	case scoretype.Group:
		return v, nil
	default:
		return scoretype.Group{}, fmt.Errorf("%w: task %s uses %s", ErrUnsupportedScoreType, t.Name, st.Name())
	}
}

// selectMax picks the best scored result; ties go to the earliest
// submission. Without any scored result the latest submission governs.
func selectMax(subs []*model.Submission, datasetID int64) Result {
	var (
		res  Result
		best *model.Submission
	)
	for _, s := range subs {
		sr := s.Result(datasetID)
		if sr == nil || !sr.Status.Final() {
			res.Partial = true
			continue
		}
		if score := scoreOf(sr); best == nil || score > res.Score {
			best, res.Score = s, score
		}
	}
	if best == nil {
		best = subs[len(subs)-1]
	}
	res.Submission = best
	return res
}

// selectMaxTokenedLast considers the last submission and every tokened one.
// Any submission without a final result makes the score partial, since a
// token may still be played on it.
func selectMaxTokenedLast(subs []*model.Submission, datasetID int64) Result {
	last := subs[len(subs)-1]
	considered := make([]*model.Submission, 0, len(subs))
	for _, s := range subs[:len(subs)-1] {
		if s.Tokened {
			considered = append(considered, s)
		}
	}
	considered = append(considered, last)

	res := selectMax(considered, datasetID)
	if res.Submission == nil {
		res.Submission = last
	}
	for _, s := range subs {
		if sr := s.Result(datasetID); sr == nil || !sr.Status.Final() {
			res.Partial = true
			break
		}
	}
	return res
}

func scoreOf(sr *model.SubmissionResult) float64 {
	if sr.Status != model.StatusScored {
		return 0
	}
	return sr.Score
}
