package finance

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/domain"
)

// Metrics is the aggregate bundle derived from a prepared ledger. Values are
// kept at full precision; use Rounded for presentation.
type Metrics struct {
	RevGrowthPct       float64 `json:"rev_growth_pct"`
	ExpenseRatio       float64 `json:"expense_ratio"`
	NetCashFlow        float64 `json:"net_cash_flow"`
	WorkingCapital     float64 `json:"working_capital"`
	DebtBurdenRatio    float64 `json:"debt_burden_ratio"`
	CashFlowVolatility float64 `json:"cash_flow_volatility"`

	TotalRevenue       float64        `json:"-"`
	TotalExpenses      float64        `json:"-"`
	TotalLoanRepayment float64        `json:"-"`
	Monthly            []MonthlyPoint `json:"-"`
}

// MonthlyPoint is one calendar month of summed activity.
type MonthlyPoint struct {
	Month             string  `json:"Month"`
	Revenue           float64 `json:"Revenue"`
	OperatingExpenses float64 `json:"Operating Expenses"`
	NetCashFlow       float64 `json:"Net Cash Flow"`
}

// ComputeMetrics derives the aggregate bundle from date-sorted records.
func ComputeMetrics(records []domain.Record) Metrics {
	n := len(records)
	if n == 0 {
		return Metrics{}
	}

	revenue := make([]float64, n)
	expenses := make([]float64, n)
	loans := make([]float64, n)
	receivable := make([]float64, n)
	payable := make([]float64, n)
	netFlow := make([]float64, n)
	for i, r := range records {
		revenue[i] = r.Revenue
		expenses[i] = r.OperatingExpenses
		loans[i] = r.LoanRepayment
		receivable[i] = r.AccountsReceivable
		payable[i] = r.AccountsPayable
		netFlow[i] = r.NetCashFlow
	}

	m := Metrics{
		TotalRevenue:       floats.Sum(revenue),
		TotalExpenses:      floats.Sum(expenses),
		TotalLoanRepayment: floats.Sum(loans),
		NetCashFlow:        floats.Sum(netFlow),
		WorkingCapital:     stat.Mean(receivable, nil) - stat.Mean(payable, nil),
		Monthly:            monthlyTotals(records),
	}

	if n > 1 && revenue[0] != 0 {
		m.RevGrowthPct = (revenue[n-1] - revenue[0]) / revenue[0] * 100
	}
	if m.TotalRevenue != 0 {
		m.ExpenseRatio = m.TotalExpenses / m.TotalRevenue
		m.DebtBurdenRatio = m.TotalLoanRepayment / m.TotalRevenue
	}
	if n > 1 {
		m.CashFlowVolatility = stat.StdDev(netFlow, nil)
	}
	return m
}

// Rounded returns a copy with the headline metrics rounded to two decimals.
func (m Metrics) Rounded() Metrics {
	out := m
	out.RevGrowthPct = Round2(m.RevGrowthPct)
	out.ExpenseRatio = Round2(m.ExpenseRatio)
	out.NetCashFlow = Round2(m.NetCashFlow)
	out.WorkingCapital = Round2(m.WorkingCapital)
	out.DebtBurdenRatio = Round2(m.DebtBurdenRatio)
	out.CashFlowVolatility = Round2(m.CashFlowVolatility)
	return out
}

// monthlyTotals groups records by "YYYY-MM" in ascending month order.
func monthlyTotals(records []domain.Record) []MonthlyPoint {
	byMonth := make(map[string]*MonthlyPoint)
	for _, r := range records {
		key := r.Date.Format("2006-01")
		p, ok := byMonth[key]
		if !ok {
			p = &MonthlyPoint{Month: key}
			byMonth[key] = p
		}
		p.Revenue += r.Revenue
		p.OperatingExpenses += r.OperatingExpenses
		p.NetCashFlow += r.NetCashFlow
	}

	out := make([]MonthlyPoint, 0, len(byMonth))
	for _, p := range byMonth {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// Round2 rounds half away from zero to two decimal places. NaN reads as 0
// and infinities are returned unchanged. It rounds the shortest decimal form
// of x, so 2.675 becomes 2.68 even though the nearest float is below it.
func Round2(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	if math.IsInf(x, 0) {
		return x
	}
	f, _ := decimal.NewFromFloat(x).Round(2).Float64()
	return f
}
