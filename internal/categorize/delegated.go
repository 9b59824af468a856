package categorize

import (
	"context"
	"strings"
	"time"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/domain"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/logger"
)

// DefaultDelegateTimeout bounds a single delegated classification.
const DefaultDelegateTimeout = 10 * time.Second

// Classifier is an external capability that labels a transaction
// description. Implementations may call remote services.
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, text string) (string, error)

// Classify calls f.
func (f ClassifierFunc) Classify(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// TryDelegated asks cl for a label. A recognized label is returned as is and
// an unrecognized one is replaced by the heuristic result. ok is false when
// cl is nil, fails or exceeds the timeout, meaning no delegated result.
func (c *Categorizer) TryDelegated(ctx context.Context, cl Classifier, description string) (domain.Category, bool) {
	if cl == nil {
		return "", false
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	label, err := classifyWithin(callCtx, cl, description)
	if err != nil {
		log := logger.Component(ctx, "categorize")
		log.Warn().Err(err).Str("description", description).Msg("delegated classification failed")
		return "", false
	}

	cat, ok := domain.ParseCategory(strings.TrimSpace(label))
	if !ok || !cat.IsClassifiable() {
		return c.Categorize(description), true
	}
	return cat, true
}

// CategorizeWith prefers the delegated classifier and falls back to the
// heuristic when it yields nothing.
func (c *Categorizer) CategorizeWith(ctx context.Context, cl Classifier, description string) domain.Category {
	if cat, ok := c.TryDelegated(ctx, cl, description); ok {
		return cat
	}
	return c.Categorize(description)
}

type classifyResult struct {
	label string
	err   error
}

// classifyWithin returns when cl answers or ctx ends, whichever is first,
// so a classifier that ignores its context cannot stall the caller.
func classifyWithin(ctx context.Context, cl Classifier, text string) (string, error) {
	done := make(chan classifyResult, 1)
	go func() {
		label, err := cl.Classify(ctx, text)
		done <- classifyResult{label: label, err: err}
	}()

	select {
	case r := <-done:
		return r.label, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
