package finance

import (
	"testing"
	"time"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/domain"
)

func TestForecastNextMonth(t *testing.T) {
	mk := func(revenues ...float64) []domain.Record {
		out := make([]domain.Record, len(revenues))
		for i, r := range revenues {
			out[i] = rec(date(2024, time.Month(i+1), 1), r, 0, 0)
		}
		return out
	}

	tests := []struct {
		name    string
		records []domain.Record
		want    float64
	}{
		{"no records", nil, 0},
		{"one record", mk(120), 120},
		{"two records", mk(100, 200), 150},
		{"uses last three", mk(1000, 10, 20, 30), 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ForecastNextMonth(tt.records); got != tt.want {
				t.Errorf("ForecastNextMonth() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreditScore(t *testing.T) {
	tests := []struct {
		name  string
		score int
		m     Metrics
		flags []Flag
		want  int
	}{
		{"top profile", 100, Metrics{NetCashFlow: 1}, nil, 850},
		{"loss making", 40, Metrics{ExpenseRatio: 1.2, NetCashFlow: -200}, make([]Flag, 2), 640},
		{"score of exactly 70 earns nothing", 70, Metrics{DebtBurdenRatio: 0.2}, nil, 650},
		{"floor", 0, Metrics{DebtBurdenRatio: 1}, make([]Flag, 20), 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CreditScore(tt.score, tt.m, tt.flags); got != tt.want {
				t.Errorf("CreditScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTaxStatus(t *testing.T) {
	tests := []struct {
		name string
		m    Metrics
		want string
	}{
		{"revenue present", Metrics{TotalRevenue: 10, ExpenseRatio: 0.5}, TaxCompliant},
		{"no revenue", Metrics{}, TaxReviewNeeded},
		{"expenses exceed revenue", Metrics{TotalRevenue: 1000, ExpenseRatio: 1.2}, TaxAuditRiskLoss},
		{"break even is compliant", Metrics{TotalRevenue: 1000, ExpenseRatio: 1.0}, TaxCompliant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TaxStatus(tt.m); got != tt.want {
				t.Errorf("TaxStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}
