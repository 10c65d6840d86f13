package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/pkg/logger"
	"github.com/okian/standings/pkg/metrics"
)

// contests is an immutable set of contests keyed by ID.
type contests map[int64]*model.Contest

// SnapshotStore is an in-memory Store fed from snapshot files.
//
// Readers load the published set without locking. Writers copy the set,
// replace entries and publish the copy.
type SnapshotStore struct {
	mu                sync.Mutex // serializes writers
	dir               string
	reloadInterval    time.Duration
	maxParticipations int

	current atomic.Pointer[contests]

	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewSnapshotStore constructs a store with configuration options. When a
// directory and a reload interval are set, the directory is reloaded in the
// background until ctx ends or Close is called.
func NewSnapshotStore(ctx context.Context, opts ...Option) *SnapshotStore {
	s := &SnapshotStore{
		stopChan: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	empty := contests{}
	s.current.Store(&empty)
	metrics.UpdateContestsLoaded(0)

	if s.dir != "" && s.reloadInterval > 0 {
		s.startPeriodicReload(ctx)
	}

	return s
}

// startPeriodicReload reloads the snapshot directory at the configured interval.
func (s *SnapshotStore) startPeriodicReload(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.reloadInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				if _, err := s.Reload(ctx); err != nil {
					logger.Get().Error(ctx, "snapshot reload failed", logger.String("dir", s.dir), logger.Error(err))
				}
			}
		}
	}()
}

// Close stops the background reload.
func (s *SnapshotStore) Close() error {
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// Reload loads every snapshot file of the configured directory and
// publishes them. A directory with any invalid file is rejected as a
// whole and the published set is left untouched.
func (s *SnapshotStore) Reload(ctx context.Context) (int, error) {
	if s.dir == "" {
		return 0, nil
	}
	start := time.Now()
	loaded, err := LoadDir(s.dir)
	if err == nil {
		err = s.checkAll(loaded)
	}
	metrics.RecordSnapshotLoadDuration(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordSnapshotLoad("error")
		return 0, err
	}

	s.mu.Lock()
	next := make(contests, len(*s.current.Load())+len(loaded))
	for id, c := range *s.current.Load() {
		next[id] = c
	}
	for _, c := range loaded {
		next[c.ID] = c
	}
	s.publish(next)
	s.mu.Unlock()

	metrics.RecordSnapshotLoad("ok")
	logger.Get().Info(ctx, "snapshots loaded", logger.String("dir", s.dir), logger.Int("contests", len(loaded)))
	return len(loaded), nil
}

// Contest implements Store.Contest.
func (s *SnapshotStore) Contest(_ context.Context, id int64) (*model.Contest, error) {
	c, ok := (*s.current.Load())[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return c, nil
}

// List implements Store.List.
func (s *SnapshotStore) List(_ context.Context) ([]*model.Contest, error) {
	set := *s.current.Load()
	out := make([]*model.Contest, 0, len(set))
	for _, c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Put implements Store.Put.
func (s *SnapshotStore) Put(_ context.Context, c *model.Contest) error {
	if c == nil {
		return fmt.Errorf("%w: nil contest", ErrInvalidSnapshot)
	}
	if err := s.check(c); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cur := *s.current.Load()
	next := make(contests, len(cur)+1)
	for id, old := range cur {
		next[id] = old
	}
	next[c.ID] = c
	s.publish(next)
	return nil
}

// Count implements Store.Count.
func (s *SnapshotStore) Count(_ context.Context) int {
	return len(*s.current.Load())
}

// publish swaps in next (assumes mu is held).
func (s *SnapshotStore) publish(next contests) {
	s.current.Store(&next)
	metrics.UpdateContestsLoaded(len(next))
}

func (s *SnapshotStore) check(c *model.Contest) error {
	if err := Validate(c); err != nil {
		return err
	}
	if s.maxParticipations > 0 && len(c.Participations) > s.maxParticipations {
		return fmt.Errorf("%w: contest %d has %d participations, limit is %d",
			ErrTooLarge, c.ID, len(c.Participations), s.maxParticipations)
	}
	return nil
}

func (s *SnapshotStore) checkAll(cs []*model.Contest) error {
	seen := make(map[int64]bool, len(cs))
	var errs []error
	for _, c := range cs {
		if seen[c.ID] {
			errs = append(errs, fmt.Errorf("%w: contest %d loaded twice", ErrInvalidSnapshot, c.ID))
			continue
		}
		seen[c.ID] = true
		if err := s.check(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
