// Package app builds the shared collaborators of the binaries from
// configuration.
package app

import (
	"context"
	"fmt"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/categorize"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/classifier"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/config"
)

// NewCategorizer builds the heuristic categorizer, loading the taxonomy file
// when one is configured.
func NewCategorizer(cfg *config.Config) (*categorize.Categorizer, error) {
	opts := []categorize.Option{categorize.WithTimeout(cfg.ClassifierTimeout)}

	if cfg.TaxonomyFile != "" {
		tax, err := categorize.LoadTaxonomy(cfg.TaxonomyFile)
		if err != nil {
			return nil, fmt.Errorf("NewCategorizer: %w", err)
		}
		opts = append(opts, categorize.WithTaxonomy(tax))
	}

	return categorize.New(opts...), nil
}

// NewClassifier returns the Gemini classifier, or nil when no API key is
// configured.
func NewClassifier(ctx context.Context, cfg *config.Config) (categorize.Classifier, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, nil
	}

	g, err := classifier.NewGemini(ctx, cfg.GeminiAPIKey, ClassifierConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("NewClassifier: %w", err)
	}
	return g, nil
}

// ClassifierConfig maps settings onto the Gemini classifier options.
func ClassifierConfig(cfg *config.Config) classifier.Config {
	return classifier.Config{
		Model:             cfg.GeminiModel,
		RequestsPerSecond: cfg.ClassifierRPS,
		CacheTTL:          cfg.ClassifierCacheTTL,
	}
}
