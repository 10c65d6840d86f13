package export

import "errors"

// Sentinel errors of an export run.
var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrInvalidRanking   = errors.New("invalid ranking")
)
