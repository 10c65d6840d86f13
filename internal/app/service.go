// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"runtime"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"

	repository "github.com/okian/standings/internal/adapters/repository"
	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/internal/domain/ranking"
	"github.com/okian/standings/internal/domain/scoring"
	"github.com/okian/standings/internal/domain/types"
	"github.com/okian/standings/pkg/logger"
	"github.com/okian/standings/pkg/metrics"
)

// Sentinel kinds for service errors.
var (
	ErrNotStarted = errors.New("service not started")
)

// Views reported in metrics.
const (
	viewRanking  = "ranking"
	viewDetailed = "detailed"
)

// Service implements the API dependencies for the standings service.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	builder *ranking.Builder

	// Configuration
	snapshotDir       string
	reloadInterval    time.Duration
	maxParticipations int
	defaultLocale     language.Tag
	defaultLanguage   language.Tag
	defaultScoreMode  string

	// State
	started   bool
	startedAt time.Time
	builds    int64
	failures  int64

	logger logger.Logger
	tracer trace.Tracer
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore sets the contest store. Without one, Start creates a snapshot
// store over the snapshot directory.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSnapshotDir sets the directory contest snapshots are loaded from.
func WithSnapshotDir(dir string) Option {
	return func(s *Service) {
		s.snapshotDir = dir
	}
}

// WithReloadInterval sets how often the snapshot directory is reloaded.
func WithReloadInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval >= 0 {
			s.reloadInterval = interval
		}
	}
}

// WithMaxParticipations caps the participations of a loaded contest.
func WithMaxParticipations(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxParticipations = n
		}
	}
}

// WithDefaultLocale sets the name collation locale for contests without one.
func WithDefaultLocale(tag language.Tag) Option {
	return func(s *Service) {
		if tag != language.Und {
			s.defaultLocale = tag
		}
	}
}

// WithDefaultLanguage sets the detailed report language used when a
// request names none.
func WithDefaultLanguage(tag language.Tag) Option {
	return func(s *Service) {
		if tag != language.Und {
			s.defaultLanguage = tag
		}
	}
}

// WithDefaultScoreMode sets the score mode of tasks that declare none.
func WithDefaultScoreMode(mode string) Option {
	return func(s *Service) {
		if mode != "" {
			s.defaultScoreMode = mode
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		defaultLocale:    language.English,
		defaultLanguage:  language.English,
		defaultScoreMode: scoring.ModeMax,
		tracer:           otel.Tracer("standings-service"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the contest snapshots and prepares the builders.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting standings service...")

	if s.store == nil {
		store := repository.NewSnapshotStore(ctx,
			repository.WithDir(s.snapshotDir),
			repository.WithReloadInterval(s.reloadInterval),
			repository.WithMaxParticipations(s.maxParticipations),
		)
		if _, err := store.Reload(ctx); err != nil {
			_ = store.Close()
			return err
		}
		s.store = store
	}

	s.builder = ranking.NewBuilder(
		ranking.WithAggregator(scoring.NewAggregator(scoring.WithDefaultMode(s.defaultScoreMode))),
		ranking.WithDefaultLocale(s.defaultLocale),
	)

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "standings service started",
		logger.Int("contests", s.store.Count(ctx)),
		logger.String("snapshotDir", s.snapshotDir),
		logger.String("defaultLocale", s.defaultLocale.String()),
		logger.String("defaultLanguage", s.defaultLanguage.String()),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping standings service...")

	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "standings service stopped")
}

// ready returns the store and builder of a started service.
func (s *Service) ready() (repository.Store, *ranking.Builder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.store, s.builder, nil
}

// Contests lists the served contests.
func (s *Service) Contests(ctx context.Context) ([]types.Contest, error) {
	store, _, err := s.ready()
	if err != nil {
		return nil, err
	}
	list, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.Contest, 0, len(list))
	for _, c := range list {
		out = append(out, types.Contest{
			ID:             c.ID,
			Name:           c.Name,
			Description:    c.Description,
			Tasks:          len(c.Tasks),
			Participations: len(c.Visible()),
		})
	}
	return out, nil
}

// Ranking builds the ranking table of a contest.
func (s *Service) Ranking(ctx context.Context, contestID int64) (ranking.Table, error) {
	ctx, span := s.tracer.Start(ctx, "standings.BuildRanking",
		trace.WithAttributes(attribute.Int64("contest.id", contestID)))
	defer span.End()

	start := time.Now()
	c, builder, err := s.contest(ctx, contestID)
	if err != nil {
		return ranking.Table{}, s.failed(ctx, span, viewRanking, contestID, err)
	}

	t, err := builder.BuildRanking(c)
	if err != nil {
		return ranking.Table{}, s.failed(ctx, span, viewRanking, contestID, err)
	}

	span.SetAttributes(attribute.Int("ranking.rows", len(t.Rows)), attribute.Int("ranking.tasks", len(t.Tasks)))
	metrics.UpdateVisibleParticipations(strconv.FormatInt(contestID, 10), len(t.Rows))
	s.done(ctx, viewRanking, contestID, start, len(t.Rows))
	return t, nil
}

// Detailed builds the detailed report of a contest in lang, or in the
// default language when lang is undetermined.
func (s *Service) Detailed(ctx context.Context, contestID int64, lang language.Tag) (ranking.DetailedReport, error) {
	if lang == language.Und {
		lang = s.defaultLanguage
	}
	ctx, span := s.tracer.Start(ctx, "standings.BuildDetailed",
		trace.WithAttributes(
			attribute.Int64("contest.id", contestID),
			attribute.String("report.language", lang.String()),
		))
	defer span.End()

	start := time.Now()
	c, builder, err := s.contest(ctx, contestID)
	if err != nil {
		return ranking.DetailedReport{}, s.failed(ctx, span, viewDetailed, contestID, err)
	}

	rep, err := builder.BuildDetailed(c, lang)
	if err != nil {
		return ranking.DetailedReport{}, s.failed(ctx, span, viewDetailed, contestID, err)
	}

	span.SetAttributes(
		attribute.Int("report.participants", len(rep.Participants)),
		attribute.Bool("report.partial", rep.PartialResults),
	)
	s.done(ctx, viewDetailed, contestID, start, len(rep.Participants))
	return rep, nil
}

func (s *Service) contest(ctx context.Context, id int64) (*model.Contest, *ranking.Builder, error) {
	store, builder, err := s.ready()
	if err != nil {
		return nil, nil, err
	}
	c, err := store.Contest(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return c, builder, nil
}

func (s *Service) done(ctx context.Context, view string, contestID int64, start time.Time, rows int) {
	elapsedMs := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordBuild(view)
	metrics.RecordBuildDuration(view, elapsedMs)

	s.mu.Lock()
	s.builds++
	s.mu.Unlock()

	s.log().Debug(ctx, "view built",
		logger.String("view", view),
		logger.Int64("contestID", contestID),
		logger.Int("rows", rows),
		logger.Float64("elapsedMs", elapsedMs),
	)
}

func (s *Service) failed(ctx context.Context, span trace.Span, view string, contestID int64, err error) error {
	kind := errorKind(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, kind)
	metrics.RecordBuildError(view, kind)

	s.mu.Lock()
	s.failures++
	s.mu.Unlock()

	s.log().Warn(ctx, "view build failed",
		logger.String("view", view),
		logger.Int64("contestID", contestID),
		logger.String("kind", kind),
		logger.Error(err),
	)
	return err
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l == nil {
		return logger.Get()
	}
	return l
}

// errorKind names the error class of a failed build.
func errorKind(err error) string {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return "not_found"
	case errors.Is(err, scoring.ErrUnsupportedScoreType):
		return "unsupported_score_type"
	case errors.Is(err, model.ErrCorruptScoreDetails):
		return "integrity_error"
	case errors.Is(err, ErrNotStarted):
		return "not_started"
	default:
		return "internal_error"
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"snapshotDir":     s.snapshotDir,
		"defaultLocale":   s.defaultLocale.String(),
		"defaultLanguage": s.defaultLanguage.String(),
		"builds":          s.builds,
		"failedBuilds":    s.failures,
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	goroutines := runtime.NumGoroutine()
	stats["goroutines"] = goroutines
	metrics.UpdateSystemMemoryUsage(mem.Alloc)
	metrics.UpdateSystemGoroutineCount(goroutines)

	if s.started {
		stats["contests"] = s.store.Count(context.Background())
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
	}

	return stats
}
