// Package classifier implements transaction classification backed by the
// Gemini API.
package classifier

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/domain"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/logger"
)

const (
	// FallbackModel is used when no model can be discovered.
	FallbackModel = "gemini-1.5-flash"

	DefaultRequestsPerSecond = 2.0
	DefaultCacheTTL          = time.Hour
)

// preferredModels are tried in order against the available model list.
var preferredModels = []string{
	"gemini-2.5-flash",
	"gemini-2.0-flash-exp",
	"gemini-1.5-pro",
	"gemini-pro",
}

// Config configures a GeminiClassifier.
type Config struct {
	// Model pins the model name; empty selects one from the available list.
	Model string
	// RequestsPerSecond caps outgoing calls; zero or less disables the limit.
	RequestsPerSecond float64
	// CacheTTL is how long a label is reused for the same description.
	CacheTTL time.Duration
}

// GeminiClassifier labels descriptions with a Gemini model. Labels are
// memoized per normalized description and calls are rate limited.
// It implements categorize.Classifier.
type GeminiClassifier struct {
	models  ModelService
	limiter *rate.Limiter
	labels  *cache.Cache

	mu    sync.Mutex
	model string
}

// New creates a classifier over an existing model service.
func New(models ModelService, cfg Config) *GeminiClassifier {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &GeminiClassifier{
		models:  models,
		limiter: rate.NewLimiter(limit, 1),
		labels:  cache.New(ttl, 2*ttl),
		model:   cfg.Model,
	}
}

// NewGemini creates a classifier talking to the Gemini API.
func NewGemini(ctx context.Context, apiKey string, cfg Config) (*GeminiClassifier, error) {
	models, err := NewGenAIModels(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("NewGemini: %w", err)
	}
	return New(models, cfg), nil
}

// Classify returns the model's label for text, cleaned of formatting. The
// label is not validated against the category set.
func (g *GeminiClassifier) Classify(ctx context.Context, text string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(text))
	if cached, ok := g.labels.Get(key); ok {
		return cached.(string), nil
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("Classify: rate limit: %w", err)
	}

	model := g.resolveModel(ctx)
	raw, err := g.models.GenerateText(ctx, model, BuildPrompt(text))
	if err != nil {
		return "", fmt.Errorf("Classify: %w", err)
	}

	label := cleanModelLabel(raw)
	if label == "" {
		return "", fmt.Errorf("Classify: empty response from model %s", model)
	}

	g.labels.Set(key, label, cache.DefaultExpiration)
	return label, nil
}

// resolveModel returns the pinned or previously selected model, listing the
// available models on first use. A failed listing is not remembered.
func (g *GeminiClassifier) resolveModel(ctx context.Context) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.model != "" {
		return g.model
	}

	log := logger.Component(ctx, "classifier")
	names, err := g.models.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Str("model", FallbackModel).Msg("could not list models, using fallback")
		return FallbackModel
	}

	g.model = selectModel(names)
	log.Info().Str("model", g.model).Int("available", len(names)).Msg("selected classification model")
	return g.model
}

// selectModel picks the first preferred model that is available, then any
// flash-class Gemini model, then the first listed, then FallbackModel.
func selectModel(available []string) string {
	set := make(map[string]bool, len(available))
	for _, name := range available {
		set[name] = true
	}
	for _, p := range preferredModels {
		if set[p] {
			return p
		}
	}
	for _, name := range available {
		if strings.Contains(name, "gemini") && strings.Contains(name, "flash") {
			return name
		}
	}
	if len(available) > 0 {
		return available[0]
	}
	return FallbackModel
}

// BuildPrompt renders the classification prompt for one description.
func BuildPrompt(description string) string {
	labels := make([]string, len(domain.ClassifiableCategories))
	for i, c := range domain.ClassifiableCategories {
		labels[i] = "'" + string(c) + "'"
	}
	return "You are a financial classifier. Classify the transaction description into one of: " +
		"[" + strings.Join(labels, ", ") + "]. " +
		"Return ONLY the category name.\n\n" +
		"Transaction: " + description
}

// cleanModelLabel strips Markdown fences and surrounding whitespace from a
// model answer. The label itself is returned verbatim; anything that is not
// exactly one of the category names is rejected downstream.
func cleanModelLabel(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
