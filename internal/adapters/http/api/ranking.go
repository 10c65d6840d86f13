package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/text/language"

	"github.com/okian/standings/internal/domain/ranking"
	"github.com/okian/standings/internal/domain/types"
	"github.com/okian/standings/internal/render"
)

// ContestsHandler lists served contests.
type ContestsHandler struct {
	deps Dependencies
}

// NewContestsHandler creates a new contests handler.
func NewContestsHandler(deps Dependencies) *ContestsHandler {
	return &ContestsHandler{deps: deps}
}

// HandleList handles GET /contests requests.
func (h *ContestsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_contests"
	list, err := h.deps.Contests(r.Context())
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	if list == nil {
		list = []types.Contest{}
	}
	writeJSON(w, http.StatusOK, list)
}

// RankingHandler serves the ranking table as JSON, CSV and text.
type RankingHandler struct {
	deps Dependencies
}

// NewRankingHandler creates a new ranking handler.
func NewRankingHandler(deps Dependencies) *RankingHandler {
	return &RankingHandler{deps: deps}
}

func (h *RankingHandler) table(w http.ResponseWriter, r *http.Request, op string) (ranking.Table, bool) {
	id, err := contestID(r, op)
	if err != nil {
		fail(w, r, err)
		return ranking.Table{}, false
	}
	t, err := h.deps.Ranking(r.Context(), id)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return ranking.Table{}, false
	}
	return t, true
}

// HandleJSON handles GET /contests/{id}/ranking requests.
func (h *RankingHandler) HandleJSON(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r, "api.get_ranking")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, types.FromTable(t))
}

// HandleCSV handles GET /contests/{id}/ranking.csv requests.
func (h *RankingHandler) HandleCSV(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_ranking_csv"
	t, ok := h.table(w, r, op)
	if !ok {
		return
	}
	writeAttachment(w, r, op, "text/csv; charset=utf-8", render.CSVFilename, func(out io.Writer) error {
		return render.WriteCSV(out, t)
	})
}

// HandleText handles GET /contests/{id}/ranking.txt requests.
func (h *RankingHandler) HandleText(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_ranking_txt"
	t, ok := h.table(w, r, op)
	if !ok {
		return
	}
	writeAttachment(w, r, op, "text/plain; charset=utf-8", render.TextFilename, func(out io.Writer) error {
		return render.WriteText(out, t)
	})
}

// DetailedHandler serves the detailed results page.
type DetailedHandler struct {
	deps Dependencies
}

// NewDetailedHandler creates a new detailed results handler.
func NewDetailedHandler(deps Dependencies) *DetailedHandler {
	return &DetailedHandler{deps: deps}
}

// HandleDetailed handles GET /contests/{id}/detailed_results.html?lang=xx requests.
func (h *DetailedHandler) HandleDetailed(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_detailed"
	id, err := contestID(r, op)
	if err != nil {
		fail(w, r, err)
		return
	}

	lang := language.Und
	if raw := r.URL.Query().Get("lang"); raw != "" {
		if lang, err = language.Parse(raw); err != nil {
			fail(w, r, WrapKind(op, ErrBadRequest, fmt.Errorf("lang %q: %w", raw, err)))
			return
		}
	}

	rep, err := h.deps.Detailed(r.Context(), id, lang)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeAttachment(w, r, op, "text/html; charset=utf-8", render.DetailedFilename, func(out io.Writer) error {
		return render.WriteDetailed(out, rep)
	})
}

// writeAttachment renders into a buffer first so that a render failure
// still produces a clean error response.
func writeAttachment(w http.ResponseWriter, r *http.Request, op, contentType, filename string, fn func(io.Writer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		fail(w, r, WrapKind(op, ErrRender, err))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
