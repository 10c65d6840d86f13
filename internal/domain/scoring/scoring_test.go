package scoring_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/standings/internal/domain/model"
	scoring "github.com/okian/standings/internal/domain/scoring"
	"github.com/okian/standings/internal/domain/scoretype"
	. "github.com/smartystreets/goconvey/convey"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func task(mode string, precision int) *model.Task {
	return &model.Task{
		ID:             7,
		Name:           "graph",
		ScorePrecision: precision,
		ScoreMode:      mode,
		ActiveDataset: model.Dataset{
			ID:        70,
			ScoreType: model.ScoreTypeDescriptor{Name: "GroupMin", Parameters: []any{[]any{40, 2}, []any{60, 3}}},
		},
	}
}

func sub(id int64, minute int, status model.Status, score float64, tokened bool) model.Submission {
	return model.Submission{
		ID:        id,
		TaskID:    7,
		Timestamp: base.Add(time.Duration(minute) * time.Minute),
		Tokened:   tokened,
		Results:   []model.SubmissionResult{{DatasetID: 70, Status: status, Score: score}},
	}
}

func TestTaskScore(t *testing.T) {
	Convey("Given a default aggregator", t, func() {
		agg := scoring.NewAggregator()

		Convey("When the participation has no submission for the task", func() {
			p := &model.Participation{ID: 1}
			res, err := agg.TaskScore(p, task("", 0))

			Convey("Then it scores zero and is complete", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldEqual, 0.0)
				So(res.Partial, ShouldBeFalse)
				So(res.Submission, ShouldBeNil)
			})
		})

		Convey("When several submissions are scored", func() {
			p := &model.Participation{ID: 1, Submissions: []model.Submission{
				sub(3, 30, model.StatusScored, 60, false),
				sub(1, 10, model.StatusScored, 40, false),
				sub(2, 20, model.StatusScored, 60, false),
			}}
			res, err := agg.TaskScore(p, task("", 0))

			Convey("Then the earliest best submission governs", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldEqual, 60.0)
				So(res.Partial, ShouldBeFalse)
				So(res.Submission.ID, ShouldEqual, int64(2))
			})
		})

		Convey("When a submission is still being evaluated", func() {
			p := &model.Participation{ID: 1, Submissions: []model.Submission{
				sub(1, 10, model.StatusScored, 40, false),
				sub(2, 20, model.StatusEvaluating, 0, false),
			}}
			res, err := agg.TaskScore(p, task("", 0))

			Convey("Then the score is partial", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldEqual, 40.0)
				So(res.Partial, ShouldBeTrue)
			})
		})

		Convey("When a submission has no result on the active dataset", func() {
			s := sub(1, 10, model.StatusScored, 100, false)
			s.Results[0].DatasetID = 71
			p := &model.Participation{ID: 1, Submissions: []model.Submission{s}}
			res, err := agg.TaskScore(p, task("", 0))

			Convey("Then it counts as not yet graded", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldEqual, 0.0)
				So(res.Partial, ShouldBeTrue)
				So(res.Submission.ID, ShouldEqual, int64(1))
			})
		})

		Convey("When compilation failed", func() {
			p := &model.Participation{ID: 1, Submissions: []model.Submission{
				sub(1, 10, model.StatusCompilationFailed, 12, false),
			}}
			res, err := agg.TaskScore(p, task("", 0))

			Convey("Then it is final and scores zero", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldEqual, 0.0)
				So(res.Partial, ShouldBeFalse)
				So(res.Submission.ID, ShouldEqual, int64(1))
			})
		})

		Convey("When the score needs rounding", func() {
			p := &model.Participation{ID: 1, Submissions: []model.Submission{
				sub(1, 10, model.StatusScored, 33.336, false),
			}}
			res, err := agg.TaskScore(p, task("", 2))

			Convey("Then it is rounded to the task precision", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldEqual, 33.34)
			})
		})

		Convey("When the task declares an unknown mode", func() {
			p := &model.Participation{ID: 1, Submissions: []model.Submission{
				sub(1, 10, model.StatusScored, 1, false),
			}}
			_, err := agg.TaskScore(p, task("sum_all", 0))

			Convey("Then it reports ErrUnknownScoreMode", func() {
				So(errors.Is(err, scoring.ErrUnknownScoreMode), ShouldBeTrue)
			})
		})
	})

	Convey("Given tasks scored on the last and tokened submissions", t, func() {
		agg := scoring.NewAggregator(scoring.WithDefaultMode(scoring.ModeMaxTokenedLast))

		Convey("When the best submission is neither tokened nor last", func() {
			p := &model.Participation{ID: 1, Submissions: []model.Submission{
				sub(1, 10, model.StatusScored, 90, false),
				sub(2, 20, model.StatusScored, 50, true),
				sub(3, 30, model.StatusScored, 30, false),
			}}
			res, err := agg.TaskScore(p, task("", 0))

			Convey("Then the tokened one governs", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldEqual, 50.0)
				So(res.Submission.ID, ShouldEqual, int64(2))
			})
		})

		Convey("When an ignored submission is still evaluating", func() {
			p := &model.Participation{ID: 1, Submissions: []model.Submission{
				sub(1, 10, model.StatusEvaluating, 0, false),
				sub(2, 20, model.StatusScored, 20, false),
			}}
			res, err := agg.TaskScore(p, task("", 0))

			Convey("Then the score is partial because a token may still be played", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldEqual, 20.0)
				So(res.Submission.ID, ShouldEqual, int64(2))
				So(res.Partial, ShouldBeTrue)
			})
		})

		Convey("When every submission is final", func() {
			p := &model.Participation{ID: 1, Submissions: []model.Submission{
				sub(1, 10, model.StatusCompilationFailed, 0, false),
				sub(2, 20, model.StatusScored, 20, false),
			}}
			res, err := agg.TaskScore(p, task("", 0))

			Convey("Then the score is not partial", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldEqual, 20.0)
				So(res.Partial, ShouldBeFalse)
			})
		})

		Convey("When the task overrides the default mode", func() {
			p := &model.Participation{ID: 1, Submissions: []model.Submission{
				sub(1, 10, model.StatusScored, 90, false),
				sub(2, 20, model.StatusScored, 30, false),
			}}
			res, err := agg.TaskScore(p, task(scoring.ModeMax, 0))

			Convey("Then the task mode wins", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldEqual, 90.0)
			})
		})
	})
}

func TestDetailFor(t *testing.T) {
	Convey("Given a group task", t, func() {
		tk := task("", 0)

		Convey("Then DetailFor returns the group policy", func() {
			g, err := scoring.DetailFor(tk)
			So(err, ShouldBeNil)
			So(g.Kind, ShouldEqual, scoretype.GroupMin)
			So(g.MaxScore(), ShouldEqual, 100.0)
		})

		Convey("When the task uses Sum", func() {
			tk.ActiveDataset.ScoreType = model.ScoreTypeDescriptor{Name: "Sum", Parameters: 10}

			Convey("Then DetailFor reports ErrUnsupportedScoreType", func() {
				_, err := scoring.DetailFor(tk)
				So(errors.Is(err, scoring.ErrUnsupportedScoreType), ShouldBeTrue)
			})
		})

		Convey("When the score type is unknown", func() {
			tk.ActiveDataset.ScoreType = model.ScoreTypeDescriptor{Name: "Relative"}

			Convey("Then the parse error is surfaced", func() {
				_, err := scoring.DetailFor(tk)
				So(errors.Is(err, scoretype.ErrUnknownScoreType), ShouldBeTrue)
			})
		})
	})
}

func TestRound(t *testing.T) {
	Convey("Given values to round", t, func() {
		So(scoring.Round(2.5, 0), ShouldEqual, 2.0)
		So(scoring.Round(3.5, 0), ShouldEqual, 4.0)
		So(scoring.Round(0.125, 2), ShouldEqual, 0.12)
		So(scoring.Round(1.005, 2), ShouldEqual, 1.0)
		So(scoring.Round(79.999, 1), ShouldEqual, 80.0)
		So(scoring.Round(-0.4, 0), ShouldEqual, 0.0)
		So(scoring.Round(12.5, -1), ShouldEqual, 12.0)

		Convey("Then rounding twice equals rounding once", func() {
			for _, x := range []float64{0.1, 1.005, 2.675, 33.3333, 99.995, 1e6 / 3} {
				for p := 0; p <= 6; p++ {
					once := scoring.Round(x, p)
					So(scoring.Round(once, p), ShouldEqual, once)
				}
			}
		})
	})
}
