package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/finance"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/ledger"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/logger"
)

const analysisFailedPrefix = "Analysis failed: "

// Analyze runs the analysis pipeline over t. It never returns an error and
// never panics: invalid input and unexpected failures are reported through
// Result.Error. t is not modified.
func Analyze(ctx context.Context, t *ledger.Table, opts Options) (res Result) {
	log := logger.Component(ctx, "pipeline")

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("analysis panicked")
			res = Result{Error: fmt.Sprintf("%s%v", analysisFailedPrefix, r)}
		}
	}()

	if t == nil {
		return Result{Error: analysisFailedPrefix + "no data"}
	}

	state := &PipelineState{Table: t}
	if err := NewAnalysisPipeline(opts).Execute(ctx, state); err != nil {
		msg := errorMessage(err)
		if isInputError(err) {
			log.Warn().Err(err).Msg("ledger rejected")
		} else {
			log.Error().Err(err).Msg("analysis failed")
		}
		return Result{Error: msg}
	}

	log.Info().
		Int("rows", len(state.Records)).
		Int("score", state.Score).
		Int("flags", len(state.Flags)).
		Msg("analysis completed")
	return resultFromState(state)
}

func isInputError(err error) bool {
	var schemaErr *finance.SchemaError
	return errors.As(err, &schemaErr) || errors.Is(err, finance.ErrNoValidRows)
}

// errorMessage maps a pipeline error to the user-facing message. Input
// errors keep their own text; anything else is prefixed.
func errorMessage(err error) string {
	var schemaErr *finance.SchemaError
	if errors.As(err, &schemaErr) {
		return schemaErr.Error()
	}
	if errors.Is(err, finance.ErrNoValidRows) {
		return finance.ErrNoValidRows.Error()
	}

	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return analysisFailedPrefix + stepErr.Err.Error()
	}
	return analysisFailedPrefix + err.Error()
}
