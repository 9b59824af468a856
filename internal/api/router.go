// Package api assembles the HTTP router for the analysis service.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/api/handlers"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/api/middleware"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/categorize"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/infra/gcs"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/jobs"
)

// Deps are the collaborators the router wires into handlers. Optional
// fields may be nil; the matching endpoints then answer 503 or fall back to
// the heuristic.
type Deps struct {
	Categorizer *categorize.Categorizer
	Classifier  categorize.Classifier
	Publisher   jobs.Publisher
	JobStore    jobs.JobStore
	Storage     gcs.StorageService
	Bucket      string

	MaxUploadBytes int64
	Concurrency    int
	Log            zerolog.Logger
}

// NewRouter builds the chi router with the middleware chain applied.
func NewRouter(deps Deps) http.Handler {
	categorizer := deps.Categorizer
	if categorizer == nil {
		categorizer = categorize.New()
	}

	analyzeHandler := handlers.NewAnalyzeHandler(categorizer, deps.Publisher, deps.MaxUploadBytes, deps.Log)
	categoriesHandler := handlers.NewCategoriesHandler(categorizer, deps.Classifier, deps.Concurrency, deps.Log)
	ledgersHandler := handlers.NewLedgersHandler(deps.Storage, deps.Bucket, deps.MaxUploadBytes, deps.Log)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(deps.Log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Log))
	r.Use(middleware.CORS)

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "Not found")
	})

	r.Get("/health", handlers.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", analyzeHandler.Analyze)
		r.Post("/analyze/gcs", analyzeHandler.AnalyzeGCS)

		r.Get("/categories", categoriesHandler.ListCategories)
		r.Post("/categorize", categoriesHandler.Categorize)

		r.Post("/ledgers", ledgersHandler.UploadLedger)

		if deps.JobStore != nil {
			jobsHandler := handlers.NewJobsHandler(deps.JobStore, deps.Log)
			r.Get("/jobs", jobsHandler.ListJobs)
			r.Get("/jobs/{id}", jobsHandler.GetJob)
		}
	})

	return r
}
