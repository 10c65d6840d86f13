package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ScoreDetails holds the structured score details of a result as raw JSON.
// Its shape depends on the score type of the dataset, so decoding is left
// to the score type. Snapshots may carry the details either as a JSON
// string or as a nested YAML/JSON document.
type ScoreDetails []byte

// Empty reports whether no details were stored.
func (d ScoreDetails) Empty() bool {
	trimmed := bytes.TrimSpace(d)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *ScoreDetails) UnmarshalYAML(n *yaml.Node) error {
	switch {
	case n.Kind == yaml.ScalarNode && n.Tag == "!!null":
		*d = nil
		return nil
	case n.Kind == yaml.ScalarNode && n.Tag == "!!str":
		*d = ScoreDetails(n.Value)
		return nil
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptScoreDetails, err)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptScoreDetails, err)
	}
	*d = b
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. A JSON string is unwrapped so
// that details stored as text and details stored inline decode the same.
func (d *ScoreDetails) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrCorruptScoreDetails, err)
		}
		*d = ScoreDetails(s)
		return nil
	}
	if bytes.Equal(trimmed, []byte("null")) {
		*d = nil
		return nil
	}
	*d = append((*d)[:0], trimmed...)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d ScoreDetails) MarshalJSON() ([]byte, error) {
	if d.Empty() {
		return []byte("null"), nil
	}
	if !json.Valid(d) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrCorruptScoreDetails)
	}
	return d, nil
}
