package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrUnknownStatus       = errors.New("unknown submission result status")
	ErrCorruptScoreDetails = errors.New("corrupt score details")
)
