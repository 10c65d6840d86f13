package model_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/okian/standings/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v3"
)

func TestStatus(t *testing.T) {
	Convey("Given the result lifecycle", t, func() {
		Convey("Then statuses are ordered", func() {
			So(model.StatusCompiling, ShouldBeLessThan, model.StatusCompilationFailed)
			So(model.StatusEvaluating, ShouldBeLessThan, model.StatusEvaluated)
			So(model.StatusScoring, ShouldBeLessThan, model.StatusScored)
		})

		Convey("Then only scored and compilation failed are final", func() {
			So(model.StatusScored.Final(), ShouldBeTrue)
			So(model.StatusCompilationFailed.Final(), ShouldBeTrue)
			So(model.StatusScoring.Final(), ShouldBeFalse)
			So(model.StatusCompiling.Final(), ShouldBeFalse)
		})

		Convey("When parsing names", func() {
			s, err := model.ParseStatus(" scored ")
			So(err, ShouldBeNil)
			So(s, ShouldEqual, model.StatusScored)

			_, err = model.ParseStatus("JUDGING")
			So(errors.Is(err, model.ErrUnknownStatus), ShouldBeTrue)
		})

		Convey("When round tripping through JSON", func() {
			b, err := json.Marshal(model.StatusCompilationFailed)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `"COMPILATION_FAILED"`)

			var s model.Status
			So(json.Unmarshal(b, &s), ShouldBeNil)
			So(s, ShouldEqual, model.StatusCompilationFailed)
		})
	})
}

func TestScoreDetailsDecoding(t *testing.T) {
	Convey("Given score details in a YAML snapshot", t, func() {
		Convey("When they are stored as a JSON string", func() {
			var r model.SubmissionResult
			err := yaml.Unmarshal([]byte(`
dataset_id: 1
status: SCORED
score: 40
score_details: '[{"score": 40, "max_score": 40, "testcases": []}]'
`), &r)
			So(err, ShouldBeNil)
			So(r.Status, ShouldEqual, model.StatusScored)
			So(json.Valid(r.ScoreDetails), ShouldBeTrue)
			So(string(r.ScoreDetails), ShouldContainSubstring, `"max_score": 40`)
		})

		Convey("When they are stored inline", func() {
			var r model.SubmissionResult
			err := yaml.Unmarshal([]byte(`
dataset_id: 1
status: SCORED
score_details:
  - score: 10
    max_score: 20
    testcases:
      - idx: "000"
        text: ["Output is correct"]
`), &r)
			So(err, ShouldBeNil)

			var groups []map[string]any
			So(json.Unmarshal(r.ScoreDetails, &groups), ShouldBeNil)
			So(len(groups), ShouldEqual, 1)
			So(groups[0]["max_score"], ShouldEqual, 20.0)
		})

		Convey("When they are missing", func() {
			var r model.SubmissionResult
			So(yaml.Unmarshal([]byte("dataset_id: 1\nstatus: COMPILING\n"), &r), ShouldBeNil)
			So(r.ScoreDetails.Empty(), ShouldBeTrue)
		})
	})

	Convey("Given score details in JSON", t, func() {
		var r model.SubmissionResult
		err := json.Unmarshal([]byte(`{"dataset_id":1,"status":"SCORED","score_details":"[{\"score\":1}]"}`), &r)
		So(err, ShouldBeNil)
		So(string(r.ScoreDetails), ShouldEqual, `[{"score":1}]`)
	})
}

func TestParticipationHelpers(t *testing.T) {
	Convey("Given a participation with submissions out of order", t, func() {
		base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		p := model.Participation{
			ID:   1,
			User: model.User{ID: 1, Username: "ada", FirstName: "Ada", LastName: "Lovelace"},
			Submissions: []model.Submission{
				{ID: 3, TaskID: 7, Timestamp: base.Add(time.Minute)},
				{ID: 2, TaskID: 8, Timestamp: base},
				{ID: 1, TaskID: 7, Timestamp: base.Add(time.Minute)},
				{ID: 4, TaskID: 7, Timestamp: base},
			},
		}

		Convey("Then submissions for a task are ordered by time then ID", func() {
			subs := p.SubmissionsFor(7)
			So(len(subs), ShouldEqual, 3)
			So(subs[0].ID, ShouldEqual, int64(4))
			So(subs[1].ID, ShouldEqual, int64(1))
			So(subs[2].ID, ShouldEqual, int64(3))
		})

		Convey("Then the snapshot order is untouched", func() {
			_ = p.SubmissionsFor(7)
			So(p.Submissions[0].ID, ShouldEqual, int64(3))
		})

		Convey("Then the display name joins first and last name", func() {
			So(p.User.DisplayName(), ShouldEqual, "Ada Lovelace")
			So(model.User{FirstName: "Ada"}.DisplayName(), ShouldEqual, "Ada")
			So(model.User{LastName: "Lovelace"}.DisplayName(), ShouldEqual, "Lovelace")
		})
	})

	Convey("Given a contest with a hidden team member", t, func() {
		c := model.Contest{
			Participations: []model.Participation{
				{ID: 1, Hidden: true, Team: &model.Team{Name: "Ghosts"}},
				{ID: 2},
			},
		}

		Convey("Then hidden participations are not shown but still enable teams", func() {
			So(len(c.Visible()), ShouldEqual, 1)
			So(c.Visible()[0].ID, ShouldEqual, int64(2))
			So(c.HasTeams(), ShouldBeTrue)
		})

		Convey("When nobody has a team", func() {
			c.Participations[0].Team = nil

			Convey("Then teams are disabled", func() {
				So(c.HasTeams(), ShouldBeFalse)
			})
		})
	})
}
