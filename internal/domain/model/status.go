package model

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of a submission result. The order of the
// constants is the order of the lifecycle.
type Status int

// Submission result lifecycle.
const (
	StatusCompiling Status = iota + 1
	StatusCompilationFailed
	StatusEvaluating
	StatusEvaluated
	StatusScoring
	StatusScored
)

var statusNames = map[Status]string{
	StatusCompiling:         "COMPILING",
	StatusCompilationFailed: "COMPILATION_FAILED",
	StatusEvaluating:        "EVALUATING",
	StatusEvaluated:         "EVALUATED",
	StatusScoring:           "SCORING",
	StatusScored:            "SCORED",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Final reports whether no further grading will change the result.
// A compilation failure is final and worth zero points.
func (s Status) Final() bool {
	return s == StatusScored || s == StatusCompilationFailed
}

// ParseStatus accepts the upper-case lifecycle names, case-insensitively.
func ParseStatus(v string) (Status, error) {
	v = strings.ToUpper(strings.TrimSpace(v))
	for s, name := range statusNames {
		if name == v {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStatus, v)
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if _, ok := statusNames[s]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(b []byte) error {
	parsed, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
