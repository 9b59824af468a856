// Package handlers implements the HTTP endpoints of the analysis API.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/api/middleware"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/categorize"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/infra/gcs"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/jobs"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/ledger"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/pipeline"
)

// DefaultMaxUploadBytes bounds request bodies when no limit is configured.
const DefaultMaxUploadBytes = 10 << 20

// AnalyzeHandler runs ledger analyses synchronously or enqueues them.
type AnalyzeHandler struct {
	categorizer *categorize.Categorizer
	publisher   jobs.Publisher
	maxBytes    int64
	log         zerolog.Logger
}

// NewAnalyzeHandler creates a new analyze handler. publisher may be nil, in
// which case GCS analysis is unavailable.
func NewAnalyzeHandler(categorizer *categorize.Categorizer, publisher jobs.Publisher, maxBytes int64, log zerolog.Logger) *AnalyzeHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &AnalyzeHandler{
		categorizer: categorizer,
		publisher:   publisher,
		maxBytes:    maxBytes,
		log:         log,
	}
}

// tableRequest is the JSON form of a ledger.
type tableRequest struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Analyze handles POST /api/analyze
//
// The ledger is read from a multipart "file" field, a JSON table, or a raw
// text/csv body. Query parameter enrich=false skips debit/credit enrichment.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	t, err := h.readTable(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.WriteError(w, http.StatusRequestEntityTooLarge, "Ledger exceeds upload limit")
			return
		}
		h.log.Warn().Err(err).Msg("Failed to read ledger")
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := pipeline.Options{
		Enrich:      enrichRequested(r),
		Categorizer: h.categorizer,
	}
	res := pipeline.Analyze(r.Context(), t, opts)

	status := http.StatusOK
	if res.Failed() {
		status = http.StatusBadRequest
	}
	middleware.WriteJSON(w, status, res)
}

// AnalyzeGCS handles POST /api/analyze/gcs
func (h *AnalyzeHandler) AnalyzeGCS(w http.ResponseWriter, r *http.Request) {
	if h.publisher == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "GCS analysis is not configured")
		return
	}

	var req struct {
		GCSURI string `json:"gcs_uri"`
		Enrich *bool  `json:"enrich"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.GCSURI == "" {
		middleware.WriteError(w, http.StatusBadRequest, "gcs_uri is required")
		return
	}
	if _, _, err := gcs.ParseURI(req.GCSURI); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	job := &jobs.AnalysisJob{
		GCSURI: req.GCSURI,
		Enrich: req.Enrich == nil || *req.Enrich,
	}
	if err := h.publisher.PublishAnalysis(r.Context(), job); err != nil {
		h.log.Error().Err(err).Str("gcs_uri", req.GCSURI).Msg("Failed to enqueue analysis job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue analysis job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("gcs_uri", req.GCSURI).Msg("Analysis job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id":  job.JobID,
		"gcs_uri": job.GCSURI,
		"status":  string(job.Status),
	})
}

func (h *AnalyzeHandler) readTable(r *http.Request) (*ledger.Table, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		if err := r.ParseMultipartForm(h.maxBytes); err != nil {
			return nil, fmt.Errorf("invalid multipart form: %w", err)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("file is required: %w", err)
		}
		defer file.Close()
		return ledger.ReadCSV(file)

	case mediaType == "application/json":
		var req tableRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, fmt.Errorf("invalid request body: %w", err)
		}
		if len(req.Columns) == 0 {
			return nil, errors.New("columns are required")
		}
		return ledger.New(req.Columns, req.Rows), nil

	case mediaType == "text/csv" || mediaType == "text/plain":
		return ledger.ReadCSV(r.Body)

	default:
		return nil, fmt.Errorf("unsupported content type %q", r.Header.Get("Content-Type"))
	}
}

func enrichRequested(r *http.Request) bool {
	return !strings.EqualFold(r.URL.Query().Get("enrich"), "false")
}
