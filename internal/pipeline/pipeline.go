// Package pipeline runs the analysis core as an ordered sequence of steps
// and folds every outcome, including failures, into a Result.
package pipeline

import (
	"context"
	"fmt"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/categorize"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/logger"
)

// StepError identifies the step that failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("pipeline step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []PipelineStep
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...PipelineStep) *Pipeline {
	return &Pipeline{steps: steps}
}

// Steps returns the step names in execution order.
func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name()
	}
	return names
}

// Execute runs all steps sequentially, stopping at the first failure.
func (p *Pipeline) Execute(ctx context.Context, state *PipelineState) error {
	log := logger.Component(ctx, "pipeline")
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return &StepError{Step: step.Name(), Err: err}
		}
		if err := step.Execute(ctx, state); err != nil {
			return &StepError{Step: step.Name(), Err: err}
		}
		log.Debug().Str("step", step.Name()).Msg("step completed")
	}
	return nil
}

// Options controls which steps an analysis runs.
type Options struct {
	// Enrich splits Debit/Credit statements and annotates categories
	// before normalization.
	Enrich bool
	// Categorizer is used by the enrich step; nil means defaults.
	Categorizer *categorize.Categorizer
}

// DefaultOptions enables enrichment with the default taxonomy.
func DefaultOptions() Options {
	return Options{Enrich: true}
}

// NewAnalysisPipeline creates the standard analysis pipeline.
func NewAnalysisPipeline(opts Options) *Pipeline {
	var steps []PipelineStep
	if opts.Enrich {
		steps = append(steps, &EnrichStep{Categorizer: opts.Categorizer})
	}
	steps = append(steps,
		&NormalizeStep{},
		&PrepareStep{},
		&MetricsStep{},
		&ScoreStep{},
		&EstimateStep{},
	)
	return NewPipeline(steps...)
}
