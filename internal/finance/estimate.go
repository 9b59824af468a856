package finance

import (
	"gonum.org/v1/gonum/stat"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/domain"
)

// Tax status labels.
const (
	TaxCompliant     = "Compliant"
	TaxReviewNeeded  = "Review Needed"
	TaxAuditRiskLoss = "Audit Risk (High Loss)"
)

const (
	forecastWindow = 3

	creditBase        = 650
	creditMin         = 300
	creditMax         = 900
	creditFlagPenalty = 30
)

// ForecastNextMonth estimates next-period revenue as the mean of the last
// three records, or of all records when there are fewer.
func ForecastNextMonth(records []domain.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	start := 0
	if len(records) >= forecastWindow {
		start = len(records) - forecastWindow
	}
	tail := make([]float64, 0, len(records)-start)
	for _, r := range records[start:] {
		tail = append(tail, r.Revenue)
	}
	return stat.Mean(tail, nil)
}

// CreditScore is an indicative creditworthiness figure in [300, 900]. It is
// not a bureau score.
func CreditScore(score int, m Metrics, flags []Flag) int {
	credit := creditBase
	if score > 70 {
		credit += 100
	}
	if m.DebtBurdenRatio < 0.1 {
		credit += 50
	}
	if m.NetCashFlow > 0 {
		credit += 50
	}
	credit -= len(flags) * creditFlagPenalty
	return clamp(credit, creditMin, creditMax)
}

// TaxStatus is a coarse compliance hint, not a legal determination.
func TaxStatus(m Metrics) string {
	if m.ExpenseRatio > 1.0 {
		return TaxAuditRiskLoss
	}
	if m.TotalRevenue > 0 {
		return TaxCompliant
	}
	return TaxReviewNeeded
}
