package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.etcd.io/bbolt"

	"github.com/alorle/m3u8-grabber/config"
	"github.com/alorle/m3u8-grabber/internal/adapter/driven"
	"github.com/alorle/m3u8-grabber/internal/application"
	"github.com/alorle/m3u8-grabber/internal/memory"
	port "github.com/alorle/m3u8-grabber/internal/port/driven"
	"github.com/alorle/m3u8-grabber/logging"
	"github.com/alorle/m3u8-grabber/metrics"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: m3u8-grabber <config_file>")
		return
	}
	sitesPath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Printf("error loading settings: %v", err)
		return
	}

	if strings.EqualFold(cfg.Log.Level, "DEBUG") {
		cfg.Print()
	}

	// Create structured logger
	logger := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	logger.Info("starting m3u8-grabber",
		"sites_file", sitesPath,
		"output_dir", cfg.OutputDir,
		"db_path", cfg.DBPath,
		"log_level", cfg.Log.Level,
		"http_timeout", cfg.HTTP.Timeout,
	)

	// Run history: BoltDB when configured, process memory otherwise
	var history port.OutcomeRepository
	if cfg.DBPath != "" {
		db, err := bbolt.Open(cfg.DBPath, 0600, &bbolt.Options{Timeout: 1 * time.Second})
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Printf("error closing database: %v", err)
			}
		}()

		repo, err := driven.NewOutcomeBoltDBRepository(db)
		if err != nil {
			logger.Error("failed to create outcome repository", "error", err)
			return
		}
		history = repo
	} else {
		history = memory.NewOutcomeRepository()
	}

	// Create driven adapters; zero timeout leaves requests unbounded
	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout}
	sites := driven.NewSiteJSONSource(sitesPath)
	resolver := driven.NewStreamResolverHTTP(httpClient, cfg.HTTP.UserAgent, logger)
	fetcher := driven.NewPlaylistHTTPFetcher(httpClient, cfg.HTTP.UserAgent, logger)
	store := driven.NewPlaylistFileStore(cfg.OutputDir, logger)

	grabService := application.NewGrabService(sites, resolver, fetcher, store, history, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := grabService.Run(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Warn("run interrupted", "run_id", summary.RunID, "written", summary.Written, "removed", summary.Removed)
	case err != nil:
		logger.Error("error loading site config", "path", sitesPath, "error", err)
		return
	}

	for reason, count := range summary.Reasons {
		logger.Info("removed channels", "run_id", summary.RunID, "reason", reason, "count", count)
	}

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("failed to write metrics textfile", "path", cfg.MetricsTextfile, "error", err)
		}
	}
}
