package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/api/middleware"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/categorize"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/domain"
)

// maxDescriptions caps one categorize request.
const maxDescriptions = 1000

// CategoriesHandler handles category-related endpoints.
type CategoriesHandler struct {
	categorizer *categorize.Categorizer
	classifier  categorize.Classifier
	concurrency int
	log         zerolog.Logger
}

// NewCategoriesHandler creates a new categories handler. classifier may be
// nil, in which case delegated requests use the heuristic.
func NewCategoriesHandler(categorizer *categorize.Categorizer, classifier categorize.Classifier, concurrency int, log zerolog.Logger) *CategoriesHandler {
	return &CategoriesHandler{
		categorizer: categorizer,
		classifier:  classifier,
		concurrency: concurrency,
		log:         log,
	}
}

// categoryInfo describes one category of the active taxonomy.
type categoryInfo struct {
	Name     domain.Category `json:"name"`
	Keywords []string        `json:"keywords"`
}

// ListCategories handles GET /api/categories
func (h *CategoriesHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	tax := h.categorizer.Taxonomy()

	categories := make([]categoryInfo, 0, len(domain.ClassifiableCategories))
	for _, c := range domain.ClassifiableCategories {
		kw := tax.Keywords[c]
		if kw == nil {
			kw = []string{}
		}
		categories = append(categories, categoryInfo{Name: c, Keywords: kw})
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
		"threshold":  tax.Threshold,
		"default":    categorize.DefaultCategory,
	})
}

// Categorize handles POST /api/categorize
func (h *CategoriesHandler) Categorize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Descriptions []string `json:"descriptions"`
		Delegated    bool     `json:"delegated"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Descriptions) > maxDescriptions {
		middleware.WriteError(w, http.StatusBadRequest, "Too many descriptions")
		return
	}

	var cl categorize.Classifier
	if req.Delegated {
		if h.classifier == nil {
			h.log.Debug().Msg("Delegated classification requested but not configured")
		} else {
			cl = h.classifier
		}
	}

	labeled := h.categorizer.CategorizeAll(r.Context(), cl, req.Descriptions, h.concurrency)
	middleware.WriteJSON(w, http.StatusOK, labeled)
}
