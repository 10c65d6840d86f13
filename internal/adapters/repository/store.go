// Package repository defines the contest store interface and errors.
package repository

import (
	"context"

	"github.com/okian/standings/internal/domain/model"
)

// Store provides read access to contest snapshots.
//
// A returned *model.Contest is shared and must be treated as read-only.
// Updates replace whole contests; a snapshot is never mutated in place.
type Store interface {
	// Contest returns the contest with the given ID.
	// Returns ErrNotFound if the contest is unknown.
	Contest(ctx context.Context, id int64) (*model.Contest, error)

	// List returns every loaded contest ordered by ID.
	List(ctx context.Context) ([]*model.Contest, error)

	// Put validates c and replaces any contest with the same ID.
	Put(ctx context.Context, c *model.Contest) error

	// Count returns the number of loaded contests.
	Count(ctx context.Context) int
}
