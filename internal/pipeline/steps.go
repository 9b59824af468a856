package pipeline

import (
	"context"
	"fmt"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/categorize"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/domain"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/finance"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/ledger"
)

// PipelineStep represents a single step in the analysis pipeline.
type PipelineStep interface {
	Name() string
	Execute(ctx context.Context, state *PipelineState) error
}

// PipelineState holds the shared state across all pipeline steps.
type PipelineState struct {
	Table       *ledger.Table
	Records     []domain.Record
	Metrics     finance.Metrics
	Score       int
	Flags       []finance.Flag
	CreditScore int
	TaxStatus   string
	Forecast    float64
}

// EnrichStep derives revenue and expense columns from bank-statement style
// Debit/Credit columns and annotates descriptions with a category.
type EnrichStep struct {
	Categorizer *categorize.Categorizer
}

func (s *EnrichStep) Name() string { return "enrich" }

func (s *EnrichStep) Execute(ctx context.Context, state *PipelineState) error {
	c := s.Categorizer
	if c == nil {
		c = categorize.New()
	}
	state.Table = c.EnrichTable(state.Table)
	return nil
}

// NormalizeStep maps raw column labels onto the canonical schema.
type NormalizeStep struct{}

func (s *NormalizeStep) Name() string { return "normalize" }

func (s *NormalizeStep) Execute(ctx context.Context, state *PipelineState) error {
	state.Table = finance.NormalizeColumns(state.Table)
	return nil
}

// PrepareStep validates the normalized table and builds typed records.
type PrepareStep struct{}

func (s *PrepareStep) Name() string { return "prepare" }

func (s *PrepareStep) Execute(ctx context.Context, state *PipelineState) error {
	records, err := finance.PrepareLedger(state.Table)
	if err != nil {
		return err
	}
	state.Records = records
	return nil
}

// MetricsStep computes the aggregate bundle.
type MetricsStep struct{}

func (s *MetricsStep) Name() string { return "metrics" }

func (s *MetricsStep) Execute(ctx context.Context, state *PipelineState) error {
	if len(state.Records) == 0 {
		return fmt.Errorf("MetricsStep: no records")
	}
	state.Metrics = finance.ComputeMetrics(state.Records)
	return nil
}

// ScoreStep derives the health score and risk flags.
type ScoreStep struct{}

func (s *ScoreStep) Name() string { return "score" }

func (s *ScoreStep) Execute(ctx context.Context, state *PipelineState) error {
	state.Score = finance.Score(state.Metrics)
	state.Flags = finance.RiskFlags(state.Metrics)
	return nil
}

// EstimateStep fills the forecast, credit score and tax status.
type EstimateStep struct{}

func (s *EstimateStep) Name() string { return "estimate" }

func (s *EstimateStep) Execute(ctx context.Context, state *PipelineState) error {
	state.Forecast = finance.ForecastNextMonth(state.Records)
	state.CreditScore = finance.CreditScore(state.Score, state.Metrics, state.Flags)
	state.TaxStatus = finance.TaxStatus(state.Metrics)
	return nil
}
