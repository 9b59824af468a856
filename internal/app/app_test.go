package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/config"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/domain"
)

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.FromEnv(func(string) (string, bool) { return "", false })
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	return cfg
}

func TestNewCategorizer(t *testing.T) {
	cfg := defaultConfig(t)

	c, err := NewCategorizer(cfg)
	if err != nil {
		t.Fatalf("NewCategorizer() error = %v", err)
	}
	if got := c.Categorize("Stripe payout"); got != domain.CategoryRevenue {
		t.Errorf("Categorize() = %s, want Revenue", got)
	}
}

func TestNewCategorizerWithTaxonomyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	data := "categories:\n  Revenue: [royalties]\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := defaultConfig(t)
	cfg.TaxonomyFile = path

	c, err := NewCategorizer(cfg)
	if err != nil {
		t.Fatalf("NewCategorizer() error = %v", err)
	}
	if kw := c.Taxonomy().Keywords[domain.CategoryRevenue]; len(kw) != 1 || kw[0] != "royalties" {
		t.Errorf("revenue keywords = %v", kw)
	}

	cfg.TaxonomyFile = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := NewCategorizer(cfg); err == nil {
		t.Error("expected error for missing taxonomy file")
	}
}

func TestNewClassifierWithoutKey(t *testing.T) {
	cl, err := NewClassifier(context.Background(), defaultConfig(t))
	if err != nil {
		t.Fatalf("NewClassifier() error = %v", err)
	}
	if cl != nil {
		t.Errorf("expected nil classifier without API key, got %T", cl)
	}
}

func TestClassifierConfig(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.GeminiModel = "gemini-2.5-flash"
	cfg.ClassifierRPS = 5
	cfg.ClassifierCacheTTL = time.Minute

	got := ClassifierConfig(cfg)
	if got.Model != "gemini-2.5-flash" || got.RequestsPerSecond != 5 || got.CacheTTL != time.Minute {
		t.Errorf("ClassifierConfig() = %+v", got)
	}
}
