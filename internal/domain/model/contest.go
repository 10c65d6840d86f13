// Package model contains the contest graph passed between layers.
//
// A Contest is a read-only snapshot: it is loaded once, in bulk, by the
// repository and handed to the ranking builders, which never mutate it.
package model

import (
	"sort"
	"time"
)

// Contest is a competition instance with its tasks and participations.
type Contest struct {
	ID             int64           `yaml:"id" json:"id" validate:"required"`
	Name           string          `yaml:"name" json:"name" validate:"required"`
	Description    string          `yaml:"description" json:"description"`
	ScorePrecision int             `yaml:"score_precision" json:"score_precision" validate:"min=0,max=10"`
	Locale         string          `yaml:"locale" json:"locale" validate:"omitempty,bcp47_language_tag"`
	Tasks          []Task          `yaml:"tasks" json:"tasks" validate:"dive"`
	Participations []Participation `yaml:"participations" json:"participations" validate:"dive"`
}

// Task is a gradable problem. Tasks keep the order declared by the contest.
type Task struct {
	ID             int64   `yaml:"id" json:"id" validate:"required"`
	Name           string  `yaml:"name" json:"name" validate:"required"`
	Title          string  `yaml:"title" json:"title"`
	ScorePrecision int     `yaml:"score_precision" json:"score_precision" validate:"min=0,max=10"`
	ScoreMode      string  `yaml:"score_mode" json:"score_mode" validate:"omitempty,oneof=max max_tokened_last"`
	ActiveDataset  Dataset `yaml:"active_dataset" json:"active_dataset"`
}

// Dataset is the set of testcases and the score type a task is judged with.
type Dataset struct {
	ID        int64               `yaml:"id" json:"id" validate:"required"`
	ScoreType ScoreTypeDescriptor `yaml:"score_type" json:"score_type"`
}

// ScoreTypeDescriptor names a scoring policy and its raw parameters,
// e.g. {name: GroupMin, parameters: [[40, 3], [60, 5]]}.
type ScoreTypeDescriptor struct {
	Name       string `yaml:"name" json:"name" validate:"required"`
	Parameters any    `yaml:"parameters" json:"parameters"`
}

// User identifies a person across contests.
type User struct {
	ID        int64  `yaml:"id" json:"id" validate:"required"`
	Username  string `yaml:"username" json:"username" validate:"required"`
	FirstName string `yaml:"first_name" json:"first_name"`
	LastName  string `yaml:"last_name" json:"last_name"`
	Email     string `yaml:"email" json:"email" validate:"omitempty,email"`
}

// Team groups participations under a shared name.
type Team struct {
	ID   int64  `yaml:"id" json:"id"`
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
}

// Participation is one user's enrollment in one contest.
type Participation struct {
	ID          int64        `yaml:"id" json:"id" validate:"required"`
	User        User         `yaml:"user" json:"user"`
	Team        *Team        `yaml:"team" json:"team"`
	Hidden      bool         `yaml:"hidden" json:"hidden"`
	Submissions []Submission `yaml:"submissions" json:"submissions" validate:"dive"`
}

// Submission is a solution sent by a participation for one task.
type Submission struct {
	ID        int64              `yaml:"id" json:"id" validate:"required"`
	TaskID    int64              `yaml:"task_id" json:"task_id" validate:"required"`
	Timestamp time.Time          `yaml:"timestamp" json:"timestamp"`
	Tokened   bool               `yaml:"tokened" json:"tokened"`
	Results   []SubmissionResult `yaml:"results" json:"results" validate:"dive"`
}

// SubmissionResult is the outcome of a submission on one dataset.
type SubmissionResult struct {
	DatasetID    int64        `yaml:"dataset_id" json:"dataset_id" validate:"required"`
	Status       Status       `yaml:"status" json:"status" validate:"required"`
	Score        float64      `yaml:"score" json:"score"`
	ScoreDetails ScoreDetails `yaml:"score_details" json:"score_details"`
}

// Result returns the result of s on the given dataset, or nil.
func (s *Submission) Result(datasetID int64) *SubmissionResult {
	for i := range s.Results {
		if s.Results[i].DatasetID == datasetID {
			return &s.Results[i]
		}
	}
	return nil
}

// DisplayName joins first and last name the way rankings print users.
func (u User) DisplayName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// TeamName returns the team name or "" when the participation has no team.
func (p *Participation) TeamName() string {
	if p.Team == nil {
		return ""
	}
	return p.Team.Name
}

// SubmissionsFor returns the submissions of p for taskID, ordered by
// timestamp then ID. The returned slice points into the snapshot.
func (p *Participation) SubmissionsFor(taskID int64) []*Submission {
	var out []*Submission
	for i := range p.Submissions {
		if p.Submissions[i].TaskID == taskID {
			out = append(out, &p.Submissions[i])
		}
	}
	sortSubmissions(out)
	return out
}

// HasTeams reports whether any participation, hidden or not, belongs to a team.
func (c *Contest) HasTeams() bool {
	for i := range c.Participations {
		if c.Participations[i].Team != nil {
			return true
		}
	}
	return false
}

// Visible returns pointers to the non-hidden participations in snapshot order.
func (c *Contest) Visible() []*Participation {
	out := make([]*Participation, 0, len(c.Participations))
	for i := range c.Participations {
		if !c.Participations[i].Hidden {
			out = append(out, &c.Participations[i])
		}
	}
	return out
}

func sortSubmissions(subs []*Submission) {
	sort.SliceStable(subs, func(i, j int) bool {
		if !subs[i].Timestamp.Equal(subs[j].Timestamp) {
			return subs[i].Timestamp.Before(subs[j].Timestamp)
		}
		return subs[i].ID < subs[j].ID
	})
}
