package config

import "errors"

// Load and validation failures. Load wraps every error in one of the first
// two kinds.
var (
	ErrInvalidConfig   = errors.New("invalid config")
	ErrLoadConfig      = errors.New("load config failed")
	ErrInvalidLanguage = errors.New("invalid language tag")
)
