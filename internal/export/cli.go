package export

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/standings/pkg/logger"
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "export_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.Init(logger.WithOutput(io.MultiWriter(os.Stdout, file))); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return file, nil
}

// ShowHelp prints usage information for the export tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Standings Export Tool
=====================

Downloads ranking.csv, ranking.txt and detailed_results.html of one contest,
checks the ranking is well formed and saves the files.

Usage:
  standings-export [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -contest int
        Contest ID to export (default 1)
  -out string
        Output directory (default "export")
  -lang string
        Language of the detailed results (default: service default)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file (default: export_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  standings-export -contest 3 -lang lv
  standings-export -url http://localhost:8080 -out /tmp/finals
`)
}
