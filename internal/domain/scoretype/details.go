package scoretype

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/okian/standings/internal/domain/model"
)

// GroupResult is the stored outcome of one testcase group.
type GroupResult struct {
	Index     int
	Score     float64
	MaxScore  float64
	Testcases []TestcaseResult
}

// TestcaseResult is the stored outcome of one testcase.
type TestcaseResult struct {
	Index string
	// Outcome is the grader's machine-readable outcome, e.g. "Correct" or "0.5".
	Outcome string
	// Message is the untranslated outcome message, e.g. "Output is correct".
	Message string
	// Args are the values substituted into Message's format verbs.
	Args   []string
	Time   *float64
	Memory *int64
}

type rawGroup struct {
	Idx           any           `json:"idx"`
	Score         *float64      `json:"score"`
	ScoreFraction *float64      `json:"score_fraction"`
	MaxScore      float64       `json:"max_score"`
	Testcases     []rawTestcase `json:"testcases"`
}

type rawTestcase struct {
	Idx     any             `json:"idx"`
	Outcome any             `json:"outcome"`
	Text    json.RawMessage `json:"text"`
	Time    *float64        `json:"time"`
	Memory  *int64          `json:"memory"`
}

// Details decodes the score details of a scored result. Details that do not
// decode are an integrity error: a scored result always carries them.
func (g Group) Details(raw model.ScoreDetails) ([]GroupResult, error) {
	if raw.Empty() {
		return nil, fmt.Errorf("%w: no details stored", model.ErrCorruptScoreDetails)
	}
	var groups []rawGroup
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrCorruptScoreDetails, err)
	}

	out := make([]GroupResult, 0, len(groups))
	for i, rg := range groups {
		gr := GroupResult{Index: i + 1, MaxScore: rg.MaxScore}
		switch {
		case rg.Score != nil:
			gr.Score = *rg.Score
		case rg.ScoreFraction != nil:
			gr.Score = *rg.ScoreFraction * rg.MaxScore
		}
		if n, ok := rg.Idx.(float64); ok {
			gr.Index = int(n)
		}
		gr.Testcases = make([]TestcaseResult, 0, len(rg.Testcases))
		for j, rt := range rg.Testcases {
			msg, args, err := parseText(rt.Text)
			if err != nil {
				return nil, fmt.Errorf("%w: group %d testcase %d: %v", model.ErrCorruptScoreDetails, i+1, j+1, err)
			}
			gr.Testcases = append(gr.Testcases, TestcaseResult{
				Index:   scalarString(rt.Idx, strconv.Itoa(j+1)),
				Outcome: scalarString(rt.Outcome, ""),
				Message: msg,
				Args:    args,
				Time:    rt.Time,
				Memory:  rt.Memory,
			})
		}
		out = append(out, gr)
	}
	return out, nil
}

// parseText accepts a plain message, a [message, args...] list, or that
// list encoded as a JSON string.
func parseText(raw json.RawMessage) (string, []string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil, nil
	}

	var list []any
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", nil, err
		}
		if len(s) == 0 || s[0] != '[' {
			return s, nil, nil
		}
		if err := json.Unmarshal([]byte(s), &list); err != nil {
			// A message that merely starts with a bracket.
			return s, nil, nil //nolint:nilerr // not a list, keep the text verbatim
		}
	case '[':
		if err := json.Unmarshal(raw, &list); err != nil {
			return "", nil, err
		}
	default:
		return "", nil, fmt.Errorf("unexpected text %s", raw)
	}

	if len(list) == 0 {
		return "", nil, nil
	}
	msg, ok := list[0].(string)
	if !ok {
		return "", nil, fmt.Errorf("message is %T, not a string", list[0])
	}
	args := make([]string, 0, len(list)-1)
	for _, a := range list[1:] {
		args = append(args, scalarString(a, ""))
	}
	return msg, args, nil
}

func scalarString(v any, fallback string) string {
	switch x := v.(type) {
	case nil:
		return fallback
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}
