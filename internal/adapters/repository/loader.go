package repository

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/standings/internal/domain/model"
)

// snapshotExts are the file extensions LoadDir picks up. JSON is decoded
// by the YAML decoder as a subset of YAML.
var snapshotExts = map[string]bool{".yaml": true, ".yml": true, ".json": true}

// DecodeSnapshot decodes one contest from r. Unknown fields are rejected.
func DecodeSnapshot(r io.Reader) (*model.Contest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c model.Contest
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrDecode)
		}
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &c, nil
}

// LoadFile decodes the contest stored at path.
func LoadFile(path string) (*model.Contest, error) {
	f, err := os.Open(path) //nolint:gosec // snapshot paths come from operator config
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer f.Close()

	c, err := DecodeSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return c, nil
}

// LoadDir decodes every snapshot file directly under dir, in name order.
func LoadDir(dir string) ([]*model.Contest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var out []*model.Contest
	for _, e := range entries {
		if e.IsDir() || !snapshotExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		c, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
