package categorize

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/domain"
)

// DefaultThreshold is the fuzzy score a category must exceed to be chosen.
const DefaultThreshold = 60

// Taxonomy is the keyword vocabulary behind heuristic categorization.
type Taxonomy struct {
	Threshold int
	Keywords  map[domain.Category][]string
}

var defaultKeywords = map[domain.Category][]string{
	domain.CategoryRevenue: {
		"sales", "revenue", "income", "deposit", "credit", "payment received",
		"client payment", "invoice", "upwork", "stripe", "razorpay",
	},
	domain.CategoryOperatingExpenses: {
		"uber", "ola", "amazon", "aws", "google cloud", "salary", "payroll", "rent",
		"office", "wework", "electricity", "utility", "wifi", "internet", "software",
		"subscription", "marketing", "ads", "facebook", "linkedin", "travel", "food",
		"swiggy", "zomato",
	},
	domain.CategoryLoanRepayment: {
		"emi", "loan", "interest", "bank charges", "credit card payment", "repayment",
	},
	domain.CategoryPersonalOther: {
		"netflix", "spotify", "gym", "personal", "withdrawal", "atm", "cash",
	},
}

// DefaultTaxonomy returns a fresh copy of the built-in keyword lists.
func DefaultTaxonomy() Taxonomy {
	kw := make(map[domain.Category][]string, len(defaultKeywords))
	for c, words := range defaultKeywords {
		kw[c] = append([]string(nil), words...)
	}
	return Taxonomy{Threshold: DefaultThreshold, Keywords: kw}
}

// taxonomyFile is the YAML layout:
//
//	threshold: 65
//	categories:
//	  Revenue: [sales, invoice]
//	  Personal/Other: [netflix]
type taxonomyFile struct {
	Threshold  *int                `yaml:"threshold"`
	Categories map[string][]string `yaml:"categories"`
}

// LoadTaxonomy reads a YAML taxonomy from path. Categories the file omits
// keep their default keywords.
func LoadTaxonomy(path string) (Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("LoadTaxonomy: read %s: %w", path, err)
	}
	t, err := ParseTaxonomy(data)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("LoadTaxonomy: %s: %w", path, err)
	}
	return t, nil
}

// ParseTaxonomy decodes a YAML taxonomy over the defaults.
func ParseTaxonomy(data []byte) (Taxonomy, error) {
	var f taxonomyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Taxonomy{}, fmt.Errorf("ParseTaxonomy: decode: %w", err)
	}

	t := DefaultTaxonomy()
	if f.Threshold != nil {
		if *f.Threshold < 0 || *f.Threshold > 100 {
			return Taxonomy{}, fmt.Errorf("ParseTaxonomy: threshold %d outside [0, 100]", *f.Threshold)
		}
		t.Threshold = *f.Threshold
	}

	for name, words := range f.Categories {
		c, ok := domain.ParseCategory(name)
		if !ok || !c.IsClassifiable() {
			return Taxonomy{}, fmt.Errorf("ParseTaxonomy: unknown category %q", name)
		}
		cleaned := make([]string, 0, len(words))
		for _, w := range words {
			if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
				cleaned = append(cleaned, w)
			}
		}
		t.Keywords[c] = cleaned
	}
	return t, nil
}
