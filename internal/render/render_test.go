package render_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/internal/domain/ranking"
	"github.com/okian/standings/internal/render"
	. "github.com/smartystreets/goconvey/convey"
)

func table() ranking.Table {
	return ranking.Table{
		ContestID:   1,
		ContestName: "finals",
		Tasks:       []ranking.TaskHeader{{ID: 1, Name: "task1"}, {ID: 2, Name: "task2"}},
		Rows: []ranking.Row{
			{
				ParticipationID: 1, Rank: 1, Username: "A", DisplayName: "A Name",
				Tasks: []ranking.TaskCell{{Score: 50}, {Score: 30}},
				Total: 80,
			},
			{
				ParticipationID: 2, Rank: 2, Username: "B", DisplayName: "B Name",
				Tasks:   []ranking.TaskCell{{Score: 12.5, Partial: true}, {Score: 0}},
				Total:   12.5,
				Partial: true,
			},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	Convey("Given a ranking table without teams", t, func() {
		tbl := table()
		var buf bytes.Buffer
		So(render.WriteCSV(&buf, tbl), ShouldBeNil)

		records, err := csv.NewReader(&buf).ReadAll()
		So(err, ShouldBeNil)

		Convey("Then the header lists every task with its partial column", func() {
			So(records[0], ShouldResemble, []string{"Username", "User", "task1", "P", "task2", "P", "Global", "P"})
		})

		Convey("Then each visible row is one record with plain numbers", func() {
			So(len(records), ShouldEqual, len(tbl.Rows)+1)
			So(records[1], ShouldResemble, []string{"A", "A Name", "50", "", "30", "", "80", ""})
			So(records[2], ShouldResemble, []string{"B", "B Name", "12.5", "*", "0", "", "12.5", "*"})
		})

		Convey("Then every record has the expected column count", func() {
			for _, rec := range records {
				So(len(rec), ShouldEqual, 2+2*len(tbl.Tasks)+2)
			}
		})
	})

	Convey("Given a ranking table with teams", t, func() {
		tbl := table()
		tbl.ShowTeams = true
		tbl.Rows[0].TeamName = "Latvia"
		var buf bytes.Buffer
		So(render.WriteCSV(&buf, tbl), ShouldBeNil)

		records, err := csv.NewReader(&buf).ReadAll()
		So(err, ShouldBeNil)
		So(records[0][2], ShouldEqual, "Team")
		So(records[1][2], ShouldEqual, "Latvia")
		So(records[2][2], ShouldEqual, "")
		So(render.Columns(tbl), ShouldEqual, 9)
		So(len(records[1]), ShouldEqual, 9)
	})

	Convey("Given a contest where only a hidden participation has a team", t, func() {
		c := &model.Contest{
			ID:   1,
			Name: "finals",
			Tasks: []model.Task{
				{ID: 1, Name: "alpha", ActiveDataset: model.Dataset{ID: 10}},
				{ID: 2, Name: "beta", ActiveDataset: model.Dataset{ID: 20}},
			},
			Participations: []model.Participation{
				{ID: 1, User: model.User{ID: 1, Username: "a"}},
				{ID: 2, User: model.User{ID: 2, Username: "ghost"}, Hidden: true, Team: &model.Team{ID: 1, Name: "Secret"}},
			},
		}
		tbl, err := ranking.NewBuilder().BuildRanking(c)
		So(err, ShouldBeNil)

		Convey("When the CSV is written", func() {
			var buf bytes.Buffer
			So(render.WriteCSV(&buf, tbl), ShouldBeNil)
			records, err := csv.NewReader(&buf).ReadAll()
			So(err, ShouldBeNil)

			Convey("Then the team column is present with empty cells", func() {
				So(len(records), ShouldEqual, 2)
				So(render.Header(tbl), ShouldResemble, []string{"Username", "User", "Team", "alpha", "P", "beta", "P", "Global", "P"})
				So(len(records[1]), ShouldEqual, 9)
				So(records[1][0], ShouldEqual, "a")
				So(records[1][2], ShouldEqual, "")
			})
		})
	})
}

func TestWriteText(t *testing.T) {
	Convey("Given a ranking table", t, func() {
		var buf bytes.Buffer
		So(render.WriteText(&buf, table()), ShouldBeNil)
		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

		Convey("Then there is a header and one line per row", func() {
			So(len(lines), ShouldEqual, 3)
			So(strings.Fields(lines[0]), ShouldResemble, []string{"#", "Username", "User", "task1", "task2", "Global"})
		})

		Convey("Then partial scores carry a marker", func() {
			So(lines[2], ShouldContainSubstring, "12.5*")
			So(lines[1], ShouldNotContainSubstring, "*")
		})
	})
}

func TestWriteDetailed(t *testing.T) {
	Convey("Given a detailed report", t, func() {
		tm := 0.25
		rep := ranking.DetailedReport{
			ContestName: "finals",
			Language:    language.English,
			MaxScore:    200,
			Participants: []ranking.ParticipantResult{{
				Username: "a", DisplayName: "Anna <Z>", Total: 80,
				Tasks: []ranking.TaskResult{
					{
						TaskName: "alpha", Score: 50, MaxScore: 100, Status: model.StatusScored,
						Groups: []ranking.GroupBlock{{Index: 1, Score: 50, MaxScore: 50, Testcases: []ranking.TestcaseLine{
							{Index: "0", Text: "Time limit", Time: &tm},
						}}},
					},
					{TaskName: "beta", Score: 0, MaxScore: 100, Partial: true, Status: model.StatusEvaluating},
				},
				Partial: true,
			}},
			PartialResults: true,
		}
		var buf bytes.Buffer
		So(render.WriteDetailed(&buf, rep), ShouldBeNil)
		out := buf.String()

		Convey("Then scores are printed as score/max", func() {
			So(out, ShouldContainSubstring, "Total: 80/200")
			So(out, ShouldContainSubstring, "alpha: 50/100")
		})

		Convey("Then testcase texts and statuses are shown", func() {
			So(out, ShouldContainSubstring, "Time limit")
			So(out, ShouldContainSubstring, "0.250 s")
			So(out, ShouldContainSubstring, model.StatusEvaluating.String())
		})

		Convey("Then user data is escaped", func() {
			So(out, ShouldContainSubstring, "Anna &lt;Z&gt;")
		})
	})
}
