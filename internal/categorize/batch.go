package categorize

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/domain"
)

// DefaultConcurrency caps parallel delegated calls in CategorizeAll.
const DefaultConcurrency = 4

// Labeled pairs a description with its assigned category.
type Labeled struct {
	Description string          `json:"description"`
	Category    domain.Category `json:"category"`
}

// CategorizeAll labels every description, in input order. With a non-nil
// classifier each description goes through CategorizeWith, at most limit at
// a time; otherwise the heuristic is used directly. It never fails: a
// description the classifier cannot label falls back to the heuristic.
func (c *Categorizer) CategorizeAll(ctx context.Context, cl Classifier, descriptions []string, limit int) []Labeled {
	out := make([]Labeled, len(descriptions))
	if cl == nil {
		for i, d := range descriptions {
			out[i] = Labeled{Description: d, Category: c.Categorize(d)}
		}
		return out
	}

	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, d := range descriptions {
		g.Go(func() error {
			out[i] = Labeled{Description: d, Category: c.CategorizeWith(ctx, cl, d)}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
