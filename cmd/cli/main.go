package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/app"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/categorize"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/config"
	infraBQ "github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/infra/bigquery"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/infra/gcs"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/ledger"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/logger"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/pipeline"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New()
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log, err := logger.NewWithLevel(cfg.LogLevel)
	if err != nil {
		log = logger.New()
	}

	switch os.Args[1] {
	case "analyze":
		runAnalyze(log, cfg)
	case "categorize":
		runCategorize(log, cfg)
	case "upload":
		runUpload(log, cfg)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Financial Health Assessment CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  analyze     Analyze a ledger from a CSV file, GCS or BigQuery")
	fmt.Println("  categorize  Categorize a transaction description")
	fmt.Println("  upload      Upload a ledger CSV to GCS")
	fmt.Println("  help        Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runAnalyze(log zerolog.Logger, cfg *config.Config) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	filePath := fs.String("file", "", "Path to a local ledger CSV")
	gcsURI := fs.String("gcs-uri", "", "gs:// URI of a ledger CSV")
	bqTable := fs.String("bq-table", "", "BigQuery table as DATASET.TABLE or PROJECT.DATASET.TABLE")
	bqQuery := fs.String("bq-query", "", "BigQuery SQL returning ledger rows")
	project := fs.String("project", cfg.GCPProject, "GCP project for BigQuery (or set GCP_PROJECT env)")
	limit := fs.Int("limit", 0, "Maximum rows to read from a BigQuery table (0 = all)")
	noEnrich := fs.Bool("no-enrich", false, "Skip debit/credit enrichment")
	_ = fs.Parse(os.Args[2:])

	sources := 0
	for _, s := range []string{*filePath, *gcsURI, *bqTable, *bqQuery} {
		if s != "" {
			sources++
		}
	}
	if sources != 1 {
		log.Fatal().Msg("Usage: cli analyze (-file PATH | -gcs-uri URI | -bq-table DATASET.TABLE | -bq-query SQL) [-project ID] [-no-enrich]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	var (
		t   *ledger.Table
		err error
	)
	switch {
	case *filePath != "":
		t, err = readLocalCSV(*filePath)
	case *gcsURI != "":
		t, err = loadFromGCS(ctx, cfg, *gcsURI)
	default:
		t, err = loadFromBigQuery(ctx, *project, *bqTable, *bqQuery, *limit)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load ledger")
	}

	categorizer, err := app.NewCategorizer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build categorizer")
	}

	res := pipeline.Analyze(ctx, t, pipeline.Options{Enrich: !*noEnrich, Categorizer: categorizer})
	printJSON(res)
	if res.Failed() {
		os.Exit(2)
	}
}

func runCategorize(log zerolog.Logger, cfg *config.Config) {
	fs := flag.NewFlagSet("categorize", flag.ExitOnError)
	text := fs.String("text", "", "Transaction description")
	delegated := fs.Bool("delegated", cfg.DelegatedClassification, "Ask the Gemini classifier first (needs GEMINI_API_KEY)")
	_ = fs.Parse(os.Args[2:])

	if *text == "" {
		log.Fatal().Msg("Usage: cli categorize -text TEXT [-delegated]")
	}

	ctx := logger.WithContext(context.Background(), log)

	categorizer, err := app.NewCategorizer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build categorizer")
	}

	category := categorizer.Categorize(*text)
	if *delegated {
		cl, err := app.NewClassifier(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Gemini classifier")
		}
		if cl == nil {
			log.Warn().Msg("GEMINI_API_KEY not set, using keyword heuristic")
		} else {
			category = categorizer.CategorizeWith(ctx, cl, *text)
		}
	}

	printJSON(categorize.Labeled{Description: *text, Category: category})
}

func runUpload(log zerolog.Logger, cfg *config.Config) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	bucketName := fs.String("bucket", cfg.GCSBucket, "GCS bucket name (or set GCS_BUCKET env)")
	objectName := fs.String("object", "", "GCS object name (defaults to filename)")
	filePath := fs.String("file", "", "Path to local ledger CSV")
	_ = fs.Parse(os.Args[2:])

	if *bucketName == "" || *filePath == "" {
		log.Fatal().Msg("Usage: cli upload -file PATH [-bucket NAME] [-object NAME]")
	}
	if *objectName == "" {
		*objectName = filepath.Base(*filePath)
	}

	ctx := logger.WithContext(context.Background(), log)

	svc, err := gcs.NewGCSStorageService(ctx, cfg.MaxUploadBytes)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}
	defer svc.Close()

	log.Info().
		Str("bucket", *bucketName).
		Str("object", *objectName).
		Str("file", *filePath).
		Msg("Uploading ledger to GCS")

	uri, err := gcs.UploadFile(ctx, svc, *bucketName, *objectName, *filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Println(uri)
}

func readLocalCSV(path string) (*ledger.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()
	return ledger.ReadCSV(f)
}

func loadFromGCS(ctx context.Context, cfg *config.Config, uri string) (*ledger.Table, error) {
	svc, err := gcs.NewGCSStorageService(ctx, cfg.MaxUploadBytes)
	if err != nil {
		return nil, err
	}
	defer svc.Close()
	return gcs.LoadLedger(ctx, svc, uri)
}

func loadFromBigQuery(ctx context.Context, project, table, query string, limit int) (*ledger.Table, error) {
	if project == "" {
		return nil, errors.New("a GCP project is required for BigQuery (-project or GCP_PROJECT)")
	}

	src, err := infraBQ.NewLedgerSource(ctx, project)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if query != "" {
		return src.LoadQuery(ctx, query)
	}

	ref, err := infraBQ.ParseTableRef(table)
	if err != nil {
		return nil, err
	}
	return src.LoadTable(ctx, ref, limit)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
