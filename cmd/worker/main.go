package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/app"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/config"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/infra/gcs"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/jobs"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/jobs/inmemory"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/logger"
)

// worker analyzes a batch of GCS-hosted ledgers through the job queue and
// prints one JSON line per job.
func main() {
	listPath := flag.String("list", "", "File with one gs:// URI per line")
	noEnrich := flag.Bool("no-enrich", false, "Skip debit/credit enrichment")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New()
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log, err := logger.NewWithLevel(cfg.LogLevel)
	if err != nil {
		log = logger.New()
	}

	uris := flag.Args()
	if *listPath != "" {
		fromFile, err := readURIs(*listPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read URI list")
		}
		uris = append(uris, fromFile...)
	}
	if len(uris) == 0 {
		log.Fatal().Msg("Usage: worker [-list FILE] [-no-enrich] gs://bucket/ledger.csv ...")
	}

	ctx, cancel := context.WithCancel(logger.WithContext(context.Background(), log))
	defer cancel()

	categorizer, err := app.NewCategorizer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build categorizer")
	}

	storage, err := gcs.NewGCSStorageService(ctx, cfg.MaxUploadBytes)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}
	defer storage.Close()

	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(len(uris), jobStore, inmemory.WithWorkers(cfg.JobWorkers))

	if err := jobQueue.Start(ctx, jobs.NewAnalysisHandler(storage, categorizer)); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	ids := make([]string, 0, len(uris))
	for _, uri := range uris {
		job := &jobs.AnalysisJob{GCSURI: uri, Enrich: !*noEnrich}
		if err := jobQueue.PublishAnalysis(ctx, job); err != nil {
			log.Fatal().Err(err).Str("gcs_uri", uri).Msg("Failed to enqueue job")
		}
		ids = append(ids, job.JobID)
	}

	log.Info().Int("jobs", len(ids)).Int("workers", cfg.JobWorkers).Msg("Worker started, waiting for jobs...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	failed := waitForJobs(ctx, jobStore, ids, quit)

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during graceful shutdown")
	}

	enc := json.NewEncoder(os.Stdout)
	for _, id := range ids {
		job, err := jobStore.GetJob(context.Background(), id)
		if err != nil {
			continue
		}
		_ = enc.Encode(job)
	}

	log.Info().Int("failed", failed).Msg("Worker exited")
	if failed > 0 {
		os.Exit(2)
	}
}

// waitForJobs polls the store until every job is done or a signal arrives.
// It returns the number of jobs that did not complete.
func waitForJobs(ctx context.Context, store jobs.JobStore, ids []string, quit <-chan os.Signal) int {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		done, failed := 0, 0
		for _, id := range ids {
			job, err := store.GetJob(ctx, id)
			if err != nil {
				continue
			}
			if job.Done() {
				done++
				if job.Status == jobs.JobStatusFailed {
					failed++
				}
			}
		}
		if done == len(ids) {
			return failed
		}

		select {
		case <-quit:
			return len(ids) - done + failed
		case <-ctx.Done():
			return len(ids) - done + failed
		case <-ticker.C:
		}
	}
}

func readURIs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	var uris []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		uris = append(uris, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	return uris, nil
}
