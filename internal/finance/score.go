package finance

// Severity grades a risk flag.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
)

// Risk flag types.
const (
	FlagLiquidityRisk   = "Liquidity Risk"
	FlagHighExpenseRisk = "High Expense Risk"
	FlagDebtStress      = "Debt Stress"
)

// Flag is a named risk condition.
type Flag struct {
	Type     string   `json:"type"`
	Severity Severity `json:"severity"`
}

const (
	baseScore = 50
	minScore  = 0
	maxScore  = 100
)

type scoreRule struct {
	applies func(Metrics) bool
	delta   int
}

// Expense and debt bands are disjoint, so every rule is evaluated
// independently.
var scoreRules = []scoreRule{
	{func(m Metrics) bool { return m.RevGrowthPct > 0 }, 10},
	{func(m Metrics) bool { return m.RevGrowthPct > 15 }, 5},
	{func(m Metrics) bool { return m.ExpenseRatio < 0.5 }, 15},
	{func(m Metrics) bool { return m.ExpenseRatio > 0.9 }, -10},
	{func(m Metrics) bool { return m.NetCashFlow > 0 }, 15},
	{func(m Metrics) bool { return m.NetCashFlow <= 0 }, -10},
	{func(m Metrics) bool { return m.WorkingCapital > 0 }, 5},
	{func(m Metrics) bool { return m.DebtBurdenRatio < 0.1 }, 10},
	{func(m Metrics) bool { return m.DebtBurdenRatio > 0.3 }, -10},
}

type flagRule struct {
	applies func(Metrics) bool
	flag    Flag
}

var flagRules = []flagRule{
	{func(m Metrics) bool { return m.NetCashFlow < 0 }, Flag{FlagLiquidityRisk, SeverityHigh}},
	{func(m Metrics) bool { return m.ExpenseRatio > 0.8 }, Flag{FlagHighExpenseRisk, SeverityMedium}},
	{func(m Metrics) bool { return m.DebtBurdenRatio > 0.3 }, Flag{FlagDebtStress, SeverityHigh}},
}

// Score returns the health score in [0, 100].
func Score(m Metrics) int {
	score := baseScore
	for _, r := range scoreRules {
		if r.applies(m) {
			score += r.delta
		}
	}
	return clamp(score, minScore, maxScore)
}

// RiskFlags returns every flag whose condition holds, in a fixed order.
// It never returns nil.
func RiskFlags(m Metrics) []Flag {
	flags := []Flag{}
	for _, r := range flagRules {
		if r.applies(m) {
			flags = append(flags, r.flag)
		}
	}
	return flags
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
