// Package scoretype parses score-type descriptors into a closed set of
// scoring policies. Only the Group policy carries per-testcase structure.
package scoretype

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/okian/standings/internal/domain/model"
)

// Sentinel kinds for score type errors.
var (
	ErrUnknownScoreType = errors.New("unknown score type")
	ErrBadParameters    = errors.New("bad score type parameters")
)

// ScoreType is implemented by Sum and Group only.
type ScoreType interface {
	// Name returns the descriptor name, e.g. "Sum" or "GroupMin".
	Name() string
	// MaxScore is the best score a submission can get.
	MaxScore() float64

	sealed()
}

// Sum awards a fixed number of points per correct testcase.
type Sum struct {
	PointsPerTestcase float64
	Testcases         int
}

// Name implements ScoreType.
func (Sum) Name() string { return "Sum" }

// MaxScore implements ScoreType.
func (s Sum) MaxScore() float64 { return s.PointsPerTestcase * float64(s.Testcases) }

func (Sum) sealed() {}

// GroupKind selects how a group's testcase outcomes combine.
type GroupKind string

// Group score type kinds.
const (
	GroupMin       GroupKind = "GroupMin"
	GroupMul       GroupKind = "GroupMul"
	GroupThreshold GroupKind = "GroupThreshold"
)

// GroupParams describes one testcase group.
type GroupParams struct {
	MaxScore float64
	// Testcases is the number of testcases, or 0 when Selector is used.
	Testcases int
	// Selector is a testcase name pattern used instead of a count.
	Selector string
	// Threshold is only meaningful for GroupThreshold.
	Threshold float64
}

// Group organizes testcases into groups each worth a fixed maximum.
type Group struct {
	Kind   GroupKind
	Groups []GroupParams
}

// Name implements ScoreType.
func (g Group) Name() string { return string(g.Kind) }

// MaxScore implements ScoreType.
func (g Group) MaxScore() float64 {
	total := 0.0
	for _, p := range g.Groups {
		total += p.MaxScore
	}
	return total
}

func (Group) sealed() {}

// Parse builds the policy named by d.
func Parse(d model.ScoreTypeDescriptor) (ScoreType, error) {
	switch name := strings.TrimSpace(d.Name); name {
	case "Sum":
		return parseSum(d.Parameters)
	case string(GroupMin), string(GroupMul), string(GroupThreshold):
		return parseGroup(GroupKind(name), d.Parameters)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScoreType, d.Name)
	}
}

// parseSum accepts either a bare per-testcase value (testcase count 1)
// or [points, count].
func parseSum(params any) (Sum, error) {
	if v, ok := toFloat(params); ok {
		return Sum{PointsPerTestcase: v, Testcases: 1}, nil
	}
	list, ok := params.([]any)
	if !ok || len(list) != 2 {
		return Sum{}, fmt.Errorf("%w: Sum expects [points, testcases]", ErrBadParameters)
	}
	points, ok := toFloat(list[0])
	if !ok || points < 0 {
		return Sum{}, fmt.Errorf("%w: Sum points must be a non-negative number", ErrBadParameters)
	}
	count, ok := toFloat(list[1])
	if !ok || count < 0 || count != math.Trunc(count) {
		return Sum{}, fmt.Errorf("%w: Sum testcases must be a non-negative integer", ErrBadParameters)
	}
	return Sum{PointsPerTestcase: points, Testcases: int(count)}, nil
}

func parseGroup(kind GroupKind, params any) (Group, error) {
	list, ok := params.([]any)
	if !ok {
		return Group{}, fmt.Errorf("%w: %s expects a list of groups", ErrBadParameters, kind)
	}
	g := Group{Kind: kind, Groups: make([]GroupParams, 0, len(list))}
	for i, raw := range list {
		item, ok := raw.([]any)
		if !ok || len(item) < 2 {
			return Group{}, fmt.Errorf("%w: group %d expects [max_score, testcases, ...]", ErrBadParameters, i)
		}
		var p GroupParams
		if p.MaxScore, ok = toFloat(item[0]); !ok || p.MaxScore < 0 {
			return Group{}, fmt.Errorf("%w: group %d max score must be a non-negative number", ErrBadParameters, i)
		}
		switch sel := item[1].(type) {
		case string:
			p.Selector = sel
		default:
			count, ok := toFloat(sel)
			if !ok || count < 0 || count != math.Trunc(count) {
				return Group{}, fmt.Errorf("%w: group %d testcases must be a count or a pattern", ErrBadParameters, i)
			}
			p.Testcases = int(count)
		}
		if kind == GroupThreshold {
			if len(item) < 3 {
				return Group{}, fmt.Errorf("%w: group %d needs a threshold", ErrBadParameters, i)
			}
			if p.Threshold, ok = toFloat(item[2]); !ok {
				return Group{}, fmt.Errorf("%w: group %d threshold must be a number", ErrBadParameters, i)
			}
		}
		g.Groups = append(g.Groups, p)
	}
	return g, nil
}

// toFloat accepts the numeric shapes produced by both YAML and JSON decoders.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}
