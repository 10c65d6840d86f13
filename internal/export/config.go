package export

import "time"

// Config holds configuration for an export run.
type Config struct {
	BaseURL   string        // Base URL of the service
	ContestID int64         // Contest to export
	OutDir    string        // Directory the views are saved under
	Timeout   time.Duration // HTTP request timeout
	Language  string        // Language of the detailed results, empty for the service default
	Verbose   bool          // Log every saved file
}

// View is one downloadable view of a contest.
type View struct {
	Name string // file name, e.g. ranking.csv
	Path string // URL path below /contests/{id}/
}

// Stats holds export statistics.
type Stats struct {
	FilesSaved int
	BytesSaved int64
	Rows       int
	Columns    int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}
