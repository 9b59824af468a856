// Package categorize assigns transaction descriptions to one of four
// categories, by fuzzy keyword matching or through an optional delegated
// classifier that falls back to the heuristic.
package categorize

import (
	"strings"
	"time"
	"unicode"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/domain"
)

// DefaultCategory is returned when no category is confident enough.
const DefaultCategory = domain.CategoryOperatingExpenses

// Categorizer classifies descriptions against a keyword taxonomy.
// It is safe for concurrent use.
type Categorizer struct {
	taxonomy Taxonomy
	timeout  time.Duration
}

// Option configures a Categorizer.
type Option func(*Categorizer)

// WithTaxonomy replaces the built-in keyword lists.
func WithTaxonomy(t Taxonomy) Option {
	return func(c *Categorizer) {
		c.taxonomy = t
	}
}

// WithTimeout bounds each delegated classification call.
func WithTimeout(d time.Duration) Option {
	return func(c *Categorizer) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New creates a Categorizer using the default taxonomy unless overridden.
func New(opts ...Option) *Categorizer {
	c := &Categorizer{
		taxonomy: DefaultTaxonomy(),
		timeout:  DefaultDelegateTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Taxonomy returns a copy of the keyword vocabulary in use.
func (c *Categorizer) Taxonomy() Taxonomy {
	kw := make(map[domain.Category][]string, len(c.taxonomy.Keywords))
	for cat, words := range c.taxonomy.Keywords {
		kw[cat] = append([]string(nil), words...)
	}
	return Taxonomy{Threshold: c.taxonomy.Threshold, Keywords: kw}
}

// Categorize returns the category whose keywords best match description.
// Categories are compared in a fixed order and a later category must score
// strictly higher to win. The best category is returned only when its score
// exceeds the taxonomy threshold; otherwise DefaultCategory.
func (c *Categorizer) Categorize(description string) domain.Category {
	query := fullProcess(description)
	if query == "" {
		return DefaultCategory
	}

	best := domain.CategoryUncategorized
	highest := 0
	for _, cat := range domain.ClassifiableCategories {
		score := bestKeywordScore(query, c.taxonomy.Keywords[cat])
		if score > highest {
			highest = score
			best = cat
		}
	}

	if highest > c.taxonomy.Threshold {
		return best
	}
	return DefaultCategory
}

func bestKeywordScore(query string, keywords []string) int {
	best := 0
	for _, kw := range keywords {
		choice := fullProcess(kw)
		if choice == "" {
			continue
		}
		if score := fuzzy.PartialRatio(query, choice); score > best {
			best = score
		}
	}
	return best
}

// fullProcess lower-cases s, replaces every non-alphanumeric rune with a
// space and trims the result.
func fullProcess(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.TrimSpace(mapped)
}
