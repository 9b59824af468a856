package pipeline

import (
	"encoding/json"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/finance"
)

// Result is the outcome of one analysis. When Error is set every other
// field is meaningless and only the error is serialized.
type Result struct {
	Score             int                    `json:"score"`
	Metrics           finance.Metrics        `json:"metrics"`
	Flags             []finance.Flag         `json:"flags"`
	ChartsData        []finance.MonthlyPoint `json:"charts_data"`
	CreditScore       int                    `json:"credit_score"`
	TaxStatus         string                 `json:"tax_status"`
	ForecastNextMonth float64                `json:"forecast_next_month"`

	Error string `json:"error,omitempty"`
}

// Failed reports whether the analysis produced an error instead of figures.
func (r Result) Failed() bool {
	return r.Error != ""
}

// MarshalJSON emits {"error": ...} alone for failed results.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{Error: r.Error})
	}

	type alias Result
	a := alias(r)
	if a.Flags == nil {
		a.Flags = []finance.Flag{}
	}
	if a.ChartsData == nil {
		a.ChartsData = []finance.MonthlyPoint{}
	}
	return json.Marshal(a)
}

func resultFromState(state *PipelineState) Result {
	return Result{
		Score:             state.Score,
		Metrics:           state.Metrics.Rounded(),
		Flags:             state.Flags,
		ChartsData:        state.Metrics.Monthly,
		CreditScore:       state.CreditScore,
		TaxStatus:         state.TaxStatus,
		ForecastNextMonth: finance.Round2(state.Forecast),
	}
}
