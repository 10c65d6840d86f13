package export

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/standings/internal/render"
	"github.com/okian/standings/pkg/logger"
)

// Run downloads every view of the configured contest in parallel, verifies
// the ranking and saves the files under OutDir/contest-<id>.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{
		StartTime: time.Now(),
	}
	log := logger.Named("export")

	log.Info(ctx, "starting contest export",
		logger.String("baseURL", config.BaseURL),
		logger.Int64("contestID", config.ContestID),
		logger.String("outDir", config.OutDir),
		logger.Duration("timeout", config.Timeout))

	client := newHTTPClient(config.Timeout)

	if err := checkServiceHealth(ctx, client, config); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	files := make([][]byte, len(Views))
	g, gctx := errgroup.WithContext(ctx)
	for i, view := range Views {
		i, view := i, view
		g.Go(func() error {
			body, err := client.Download(gctx, viewURL(config, view))
			if err != nil {
				return fmt.Errorf("download %s: %w", view.Name, err)
			}
			files[i] = body
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows, cols, err := VerifyCSV(files[0])
	if err != nil {
		return nil, fmt.Errorf("result verification failed: %w", err)
	}
	stats.Rows, stats.Columns = rows, cols

	dir := filepath.Join(config.OutDir, "contest-"+strconv.FormatInt(config.ContestID, 10))
	if err := os.MkdirAll(dir, directoryPermission); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	for i, view := range Views {
		path := filepath.Join(dir, view.Name)
		if err := os.WriteFile(path, files[i], filePermission); err != nil {
			return nil, fmt.Errorf("failed to save %s: %w", view.Name, err)
		}
		stats.FilesSaved++
		stats.BytesSaved += int64(len(files[i]))
		if config.Verbose {
			log.Info(ctx, "view saved", logger.String("path", path), logger.Int("bytes", len(files[i])))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(ctx, stats)
	return stats, nil
}

func viewURL(config *Config, view View) string {
	u := config.BaseURL + "/contests/" + strconv.FormatInt(config.ContestID, 10) + "/" + view.Path
	if view.Name == render.DetailedFilename && config.Language != "" {
		u += "?lang=" + url.QueryEscape(config.Language)
	}
	return u
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	if _, err := client.Download(ctx, config.BaseURL+"/healthz"); err != nil {
		return err
	}
	logger.Named("export").Debug(ctx, "service is healthy")
	return nil
}

// displayFinalStats logs the final export statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Named("export").Info(ctx, "export completed",
		logger.Int("filesSaved", stats.FilesSaved),
		logger.Int64("bytesSaved", stats.BytesSaved),
		logger.Int("rows", stats.Rows),
		logger.Int("columns", stats.Columns),
		logger.Duration("duration", stats.Duration))
}
