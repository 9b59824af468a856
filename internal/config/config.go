// Package config loads runtime settings for the binaries from the
// environment, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all settings read from the environment.
type Config struct {
	// Core settings
	Port     string
	LogLevel string

	// Classification
	GeminiAPIKey            string
	GeminiModel             string
	ClassifierTimeout       time.Duration
	ClassifierRPS           float64
	ClassifierCacheTTL      time.Duration
	DelegatedClassification bool
	TaxonomyFile            string

	// Google Cloud
	GCPProject     string
	GCSBucket      string
	MaxUploadBytes int64

	// Jobs
	JobWorkers   int
	JobQueueSize int
}

// LookupFunc reads a single variable, reporting whether it was set.
type LookupFunc func(key string) (string, bool)

// Load reads .env from the current or parent directory when present, then
// builds a Config from the process environment. Malformed values are
// reported together.
func Load() (*Config, error) {
	if _, err := LoadDotEnv(); err != nil {
		return nil, err
	}
	return FromEnv(os.LookupEnv)
}

// LoadDotEnv loads the first .env file found in the current or parent
// directory. Variables already set in the environment win. It returns the
// path loaded, or "" when neither file exists.
func LoadDotEnv() (string, error) {
	for _, path := range []string{".env", "../.env"} {
		err := godotenv.Load(path)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("LoadDotEnv: %s: %w", path, err)
		}
	}
	return "", nil
}

// FromEnv builds a Config from lookup, applying defaults for unset keys.
func FromEnv(lookup LookupFunc) (*Config, error) {
	r := reader{lookup: lookup}

	cfg := &Config{
		Port:     r.str("PORT", "8080"),
		LogLevel: r.str("LOG_LEVEL", "info"),

		GeminiAPIKey:            r.str("GEMINI_API_KEY", ""),
		GeminiModel:             r.str("GEMINI_MODEL", ""),
		ClassifierTimeout:       r.duration("CLASSIFIER_TIMEOUT", 10*time.Second),
		ClassifierRPS:           r.float("CLASSIFIER_RPS", 2),
		ClassifierCacheTTL:      r.duration("CLASSIFIER_CACHE_TTL", time.Hour),
		DelegatedClassification: r.boolean("DELEGATED_CLASSIFICATION", false),
		TaxonomyFile:            r.str("TAXONOMY_FILE", ""),

		GCPProject:     r.str("GCP_PROJECT", ""),
		GCSBucket:      r.str("GCS_BUCKET", ""),
		MaxUploadBytes: r.int64("MAX_UPLOAD_BYTES", 10<<20),

		JobWorkers:   r.integer("JOB_WORKERS", 5),
		JobQueueSize: r.integer("JOB_QUEUE_SIZE", 100),
	}

	if err := errors.Join(r.errs...); err != nil {
		return nil, fmt.Errorf("FromEnv: %w", err)
	}
	return cfg, nil
}

// Validate reports every inconsistent setting at once.
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port))
	}
	if c.ClassifierTimeout <= 0 {
		errs = append(errs, fmt.Errorf("CLASSIFIER_TIMEOUT must be positive, got %s", c.ClassifierTimeout))
	}
	if c.ClassifierRPS <= 0 {
		errs = append(errs, fmt.Errorf("CLASSIFIER_RPS must be positive, got %g", c.ClassifierRPS))
	}
	if c.ClassifierCacheTTL < 0 {
		errs = append(errs, fmt.Errorf("CLASSIFIER_CACHE_TTL must not be negative, got %s", c.ClassifierCacheTTL))
	}
	if c.DelegatedClassification && c.GeminiAPIKey == "" {
		errs = append(errs, errors.New("DELEGATED_CLASSIFICATION requires GEMINI_API_KEY"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes))
	}
	if c.JobWorkers < 1 {
		errs = append(errs, fmt.Errorf("JOB_WORKERS must be at least 1, got %d", c.JobWorkers))
	}
	if c.JobQueueSize < 0 {
		errs = append(errs, fmt.Errorf("JOB_QUEUE_SIZE must not be negative, got %d", c.JobQueueSize))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// reader collects parse failures so they can be reported together.
type reader struct {
	lookup LookupFunc
	errs   []error
}

func (r *reader) raw(key string) (string, bool) {
	v, ok := r.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (r *reader) str(key, fallback string) string {
	if v, ok := r.raw(key); ok {
		return v
	}
	return fallback
}

func (r *reader) integer(key string, fallback int) int {
	v, ok := r.raw(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid integer %q", key, v))
		return fallback
	}
	return n
}

func (r *reader) int64(key string, fallback int64) int64 {
	v, ok := r.raw(key)
	if !ok {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid integer %q", key, v))
		return fallback
	}
	return n
}

func (r *reader) float(key string, fallback float64) float64 {
	v, ok := r.raw(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid number %q", key, v))
		return fallback
	}
	return f
}

func (r *reader) boolean(key string, fallback bool) bool {
	v, ok := r.raw(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid boolean %q", key, v))
		return fallback
	}
	return b
}

func (r *reader) duration(key string, fallback time.Duration) time.Duration {
	v, ok := r.raw(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid duration %q", key, v))
		return fallback
	}
	return d
}
