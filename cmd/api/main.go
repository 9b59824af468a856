package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/api"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/app"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/categorize"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/config"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/infra/gcs"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/jobs"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/jobs/inmemory"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New()
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	port := flag.String("port", cfg.Port, "HTTP server port (or set PORT env)")
	bucket := flag.String("bucket", cfg.GCSBucket, "GCS bucket for ledger uploads (or set GCS_BUCKET env)")
	flag.Parse()
	cfg.Port = *port
	cfg.GCSBucket = *bucket

	log, err := logger.NewWithLevel(cfg.LogLevel)
	if err != nil {
		log = logger.New()
		log.Warn().Err(err).Msg("Invalid LOG_LEVEL, logging everything")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := logger.WithContext(context.Background(), log)

	categorizer, err := app.NewCategorizer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build categorizer")
	}

	var cl categorize.Classifier
	if cfg.DelegatedClassification {
		cl, err = app.NewClassifier(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Gemini classifier")
		}
		log.Info().Str("model", cfg.GeminiModel).Msg("Delegated classification enabled")
	}

	// Cloud Storage is optional: without credentials the GCS endpoints answer 503.
	var (
		storage   gcs.StorageService
		publisher jobs.Publisher
		jobQueue  *inmemory.Queue
	)
	jobStore := inmemory.NewStore()

	gcsService, err := gcs.NewGCSStorageService(ctx, cfg.MaxUploadBytes)
	if err != nil {
		log.Warn().Err(err).Msg("Cloud Storage unavailable - GCS analysis and uploads disabled")
	} else {
		defer gcsService.Close()
		storage = gcsService

		jobQueue = inmemory.NewQueue(cfg.JobQueueSize, jobStore, inmemory.WithWorkers(cfg.JobWorkers))
		publisher = jobQueue
	}

	if cfg.GCSBucket == "" {
		log.Warn().Msg("No GCS bucket configured - ledger uploads will be disabled")
	}

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	if jobQueue != nil {
		if err := jobQueue.Start(workerCtx, jobs.NewAnalysisHandler(gcsService, categorizer)); err != nil {
			log.Fatal().Err(err).Msg("Failed to start job workers")
		}
	}

	router := api.NewRouter(api.Deps{
		Categorizer:    categorizer,
		Classifier:     cl,
		Publisher:      publisher,
		JobStore:       jobStore,
		Storage:        storage,
		Bucket:         cfg.GCSBucket,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Concurrency:    categorize.DefaultConcurrency,
		Log:            log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	if jobQueue != nil {
		if err := jobQueue.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error stopping job queue")
		}
	}
	cancelWorker()

	log.Info().Msg("Server exited")
}
