package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/standings/internal/export"
)

// Default configuration constants.
const (
	defaultContestID = 1
	defaultTimeout   = 30 * time.Second
	defaultRunBudget = 5 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		contestID = flag.Int64("contest", defaultContestID, "Contest ID to export")
		outDir    = flag.String("out", "export", "Output directory")
		lang      = flag.String("lang", "", "Language of the detailed results (default: service default)")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile   = flag.String("log", "", "Log file (default: export_log_TIMESTAMP.log)")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		export.ShowHelp()
		return
	}

	closer, err := export.SetupLogging(*logFile, *verbose)
	if err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunBudget)
	defer cancel()

	config := &export.Config{
		BaseURL:   *baseURL,
		ContestID: *contestID,
		OutDir:    *outDir,
		Timeout:   *timeout,
		Language:  *lang,
		Verbose:   *verbose,
	}

	if _, err := export.Run(ctx, config); err != nil {
		_, _ = os.Stderr.WriteString("Export failed: " + err.Error() + "\n")
		_ = closer.Close()
		os.Exit(1)
	}
}
