package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/api/middleware"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/infra/gcs"
)

// LedgersHandler stores uploaded ledger files in Cloud Storage.
type LedgersHandler struct {
	storage  gcs.StorageService
	bucket   string
	maxBytes int64
	log      zerolog.Logger
}

// NewLedgersHandler creates a new ledgers handler.
func NewLedgersHandler(storage gcs.StorageService, bucket string, maxBytes int64, log zerolog.Logger) *LedgersHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &LedgersHandler{
		storage:  storage,
		bucket:   bucket,
		maxBytes: maxBytes,
		log:      log,
	}
}

// UploadLedger handles POST /api/ledgers
//
// The multipart "file" field is written to
// uploads/YYYY/MM/DD/<uuid>-<filename>; the response carries its gs:// URI
// for POST /api/analyze/gcs.
func (h *LedgersHandler) UploadLedger(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil || h.bucket == "" {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Ledger uploads are not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	filename := cleanFilename(header.Filename)
	objectName := fmt.Sprintf("uploads/%s/%s", time.Now().Format("2006/01/02"), uuid.New().String()+"-"+filename)

	if err := h.storage.Upload(r.Context(), h.bucket, objectName, file); err != nil {
		h.log.Error().Err(err).Str("object", objectName).Msg("Failed to upload ledger")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	gcsURI := gcs.URI(h.bucket, objectName)
	h.log.Info().Str("gcs_uri", gcsURI).Int64("bytes", header.Size).Msg("Ledger uploaded")

	middleware.WriteJSON(w, http.StatusCreated, map[string]string{
		"gcs_uri":     gcsURI,
		"object_name": objectName,
		"filename":    filename,
	})
}

func cleanFilename(name string) string {
	if idx := strings.Index(name, "?"); idx > 0 {
		name = name[:idx]
	}
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "ledger.csv"
	}
	return name
}
