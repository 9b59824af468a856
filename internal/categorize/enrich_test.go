package categorize

import (
	"reflect"
	"testing"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/ledger"
)

func bankStatement() *ledger.Table {
	return ledger.New(
		[]string{"Date", "Description", "Debit", "Credit"},
		[][]any{
			{"2024-01-01", "Client invoice", nil, 1000.0},
			{"2024-01-02", "Loan EMI", 200.0, nil},
			{"2024-01-03", "AWS bill", 50.0, nil},
		},
	)
}

func TestNeedsSplit(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		want    bool
	}{
		{"debit and credit", []string{"Date", "debit", " CREDIT "}, true},
		{"revenue already present", []string{"Date", "Debit", "Credit", "Revenue"}, false},
		{"credit only", []string{"Date", "Credit"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsSplit(ledger.New(tt.columns, nil)); got != tt.want {
				t.Errorf("NeedsSplit(%v) = %v, want %v", tt.columns, got, tt.want)
			}
		})
	}
}

func TestCategorizer_EnrichTable_SplitsDebits(t *testing.T) {
	in := bankStatement()
	out := New().EnrichTable(in)

	checks := map[string][]any{
		"Revenue":            {1000.0, 0.0, 0.0},
		"Operating Expenses": {0.0, 0.0, 50.0},
		"Loan Repayment":     {0.0, 200.0, 0.0},
		"Category":           {"Revenue", "Loan Repayment", "Operating Expenses"},
	}
	for col, want := range checks {
		if got := out.Column(col); !reflect.DeepEqual(got, want) {
			t.Errorf("%s = %v, want %v", col, got, want)
		}
	}

	if len(in.Columns) != 4 {
		t.Errorf("input table was modified: %v", in.Columns)
	}
}

func TestCategorizer_EnrichTable_TextDebitsPassThrough(t *testing.T) {
	in := ledger.New(
		[]string{"Date", "Description", "Debit", "Credit"},
		[][]any{{"2024-01-01", "Office rent", "1,500", ""}},
	)
	out := New().EnrichTable(in)

	if got := out.Column("Operating Expenses"); !reflect.DeepEqual(got, []any{"1,500"}) {
		t.Errorf("Operating Expenses = %v", got)
	}
	if got := out.Column("Revenue"); !reflect.DeepEqual(got, []any{""}) {
		t.Errorf("Revenue = %v", got)
	}
}

func TestCategorizer_EnrichTable_AnnotatesOnly(t *testing.T) {
	in := ledger.New(
		[]string{"Date", "Revenue", "Description"},
		[][]any{{"2024-01-01", 10.0, "Stripe payout"}},
	)
	out := New().EnrichTable(in)

	want := []string{"Date", "Revenue", "Description", "Category"}
	if !reflect.DeepEqual(out.Columns, want) {
		t.Errorf("Columns = %v, want %v", out.Columns, want)
	}
	if got := out.Value(0, 3); got != "Revenue" {
		t.Errorf("Category = %v, want Revenue", got)
	}
}

func TestCategorizer_EnrichTable_KeepsExistingCategory(t *testing.T) {
	in := ledger.New(
		[]string{"Date", "Revenue", "Description", "category"},
		[][]any{{"2024-01-01", 10.0, "Stripe payout", "Sales"}},
	)
	out := New().EnrichTable(in)

	if len(out.Columns) != 4 || out.Value(0, 3) != "Sales" {
		t.Errorf("existing category column changed: %v %v", out.Columns, out.Rows)
	}
}

func TestCategorizer_EnrichTable_NoDescription(t *testing.T) {
	in := ledger.New([]string{"Date", "Debit", "Credit"}, [][]any{{"2024-01-01", 75.0, 0.0}})
	out := New().EnrichTable(in)

	if got := out.Column("Operating Expenses"); !reflect.DeepEqual(got, []any{75.0}) {
		t.Errorf("Operating Expenses = %v, want [75]", got)
	}
	if out.Has("Category") {
		t.Error("Category column added without descriptions")
	}
}
