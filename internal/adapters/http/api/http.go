// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"golang.org/x/text/language"

	"github.com/okian/standings/internal/domain/ranking"
	"github.com/okian/standings/internal/domain/types"
	"github.com/okian/standings/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Contests lists the served contests.
	Contests(ctx context.Context) ([]types.Contest, error)
	// Ranking builds the ranking table of a contest.
	Ranking(ctx context.Context, contestID int64) (ranking.Table, error)
	// Detailed builds the detailed report of a contest. An undetermined
	// lang selects the service default.
	Detailed(ctx context.Context, contestID int64, lang language.Tag) (ranking.DetailedReport, error)
}

// Server wires HTTP routes for the standings API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	contestsHandler *ContestsHandler
	rankingHandler  *RankingHandler
	detailedHandler *DetailedHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		contestsHandler: NewContestsHandler(deps),
		rankingHandler:  NewRankingHandler(deps),
		detailedHandler: NewDetailedHandler(deps),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r *mux.Router) {
	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)
	r.HandleFunc("/contests", MetricsMiddleware(s.contestsHandler.HandleList, "contests")).Methods(http.MethodGet)

	c := r.PathPrefix("/contests/{id:[0-9]+}").Subrouter()
	c.HandleFunc("/ranking", MetricsMiddleware(s.rankingHandler.HandleJSON, "ranking")).Methods(http.MethodGet)
	c.HandleFunc("/ranking.csv", MetricsMiddleware(s.rankingHandler.HandleCSV, "ranking_csv")).Methods(http.MethodGet)
	c.HandleFunc("/ranking.txt", MetricsMiddleware(s.rankingHandler.HandleText, "ranking_txt")).Methods(http.MethodGet)
	c.HandleFunc("/detailed_results.html", MetricsMiddleware(s.detailedHandler.HandleDetailed, "detailed")).Methods(http.MethodGet)
}

// Registrar attaches additional routes, such as API docs, to a router.
type Registrar func(ctx context.Context, r *mux.Router)

// Handler returns a router with every route registered. Request IDs are
// assigned outside the router so unmatched routes carry one too.
func (s *Server) Handler(ctx context.Context, extra ...Registrar) http.Handler {
	r := mux.NewRouter()
	s.Register(ctx, r)
	for _, register := range extra {
		register(ctx, r)
	}
	r.NotFoundHandler = MetricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", nil)
	}, "not_found")
	return RequestIDMiddleware(r)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail maps err to a status, logs server-side failures and writes the
// error body.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Named("api").Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path), logger.String("code", code), logger.Error(err))
	}
	writeError(w, status, code, err)
}

// contestID reads the {id} route variable.
func contestID(r *http.Request, op string) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewKind(op, ErrBadRequest)
	}
	return id, nil
}
