package repository

import "errors"

// Sentinel kinds for contest store errors.
var (
	ErrNotFound        = errors.New("contest not found")
	ErrInvalidSnapshot = errors.New("invalid contest snapshot")
	ErrDecode          = errors.New("contest snapshot decode failed")
	ErrTooLarge        = errors.New("contest snapshot too large")
)
