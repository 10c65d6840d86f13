package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// VerifyCSV checks a downloaded ranking.csv: every record has the header's
// column count, usernames are unique and the Global column never increases.
// It returns the number of data rows and columns.
func VerifyCSV(data []byte) (int, int, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrInvalidRanking, err)
	}
	if len(records) == 0 {
		return 0, 0, fmt.Errorf("%w: missing header", ErrInvalidRanking)
	}

	header := records[0]
	cols := len(header)
	global := cols - 2
	if global < 0 || header[global] != "Global" {
		return 0, 0, fmt.Errorf("%w: no Global column", ErrInvalidRanking)
	}

	seen := make(map[string]struct{}, len(records)-1)
	prev := 0.0
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) != cols {
			return 0, 0, fmt.Errorf("%w: line %d has %d columns, want %d", ErrInvalidRanking, line, len(rec), cols)
		}
		if _, dup := seen[rec[0]]; dup {
			return 0, 0, fmt.Errorf("%w: line %d repeats username %q", ErrInvalidRanking, line, rec[0])
		}
		seen[rec[0]] = struct{}{}

		total, err := strconv.ParseFloat(rec[global], 64)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: line %d total %q: %w", ErrInvalidRanking, line, rec[global], err)
		}
		if i > 0 && total > prev {
			return 0, 0, fmt.Errorf("%w: line %d total %s above previous row", ErrInvalidRanking, line, rec[global])
		}
		prev = total
	}
	return len(records) - 1, cols, nil
}
