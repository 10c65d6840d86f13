package repository

import "time"

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithDir sets the directory snapshots are loaded from.
func WithDir(dir string) Option {
	return func(s *SnapshotStore) {
		s.dir = dir
	}
}

// WithReloadInterval sets how often the directory is reloaded. Zero
// disables reloading.
func WithReloadInterval(interval time.Duration) Option {
	return func(s *SnapshotStore) {
		if interval >= 0 {
			s.reloadInterval = interval
		}
	}
}

// WithMaxParticipations caps the participations of a single contest.
// Zero means no cap.
func WithMaxParticipations(n int) Option {
	return func(s *SnapshotStore) {
		if n >= 0 {
			s.maxParticipations = n
		}
	}
}
