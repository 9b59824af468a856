package categorize

import (
	"fmt"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/domain"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/ledger"
)

const (
	columnDebit  = "Debit"
	columnCredit = "Credit"
)

// NeedsSplit reports whether t looks like a bank statement with Debit and
// Credit columns and no Revenue column.
func NeedsSplit(t *ledger.Table) bool {
	return t.IndexFold(columnDebit) >= 0 &&
		t.IndexFold(columnCredit) >= 0 &&
		t.IndexFold(domain.ColumnRevenue) < 0
}

// EnrichTable returns a copy of t prepared for analysis.
//
// For bank statements (see NeedsSplit) credits become Revenue and every
// non-zero debit is assigned to Loan Repayment or Operating Expenses by
// categorizing that row's description. When a Description column exists
// and no Category column does, each row's category is appended as
// Category. The input table is not modified.
func (c *Categorizer) EnrichTable(t *ledger.Table) *ledger.Table {
	out := t.Clone()
	descIdx := out.IndexFold(domain.ColumnDescription)

	labels := make([]domain.Category, out.Len())
	if descIdx >= 0 {
		for i := range labels {
			labels[i] = c.Categorize(descriptionAt(out, i, descIdx))
		}
	}

	if NeedsSplit(out) {
		debitIdx := out.IndexFold(columnDebit)
		creditIdx := out.IndexFold(columnCredit)

		revenue := make([]any, out.Len())
		expenses := make([]any, out.Len())
		loans := make([]any, out.Len())
		for i := 0; i < out.Len(); i++ {
			revenue[i] = fillZero(out.Value(i, creditIdx))
			expenses[i], loans[i] = 0.0, 0.0

			debit := fillZero(out.Value(i, debitIdx))
			if isZero(debit) {
				continue
			}
			cat := DefaultCategory
			if descIdx >= 0 {
				cat = labels[i]
			}
			if cat == domain.CategoryLoanRepayment {
				loans[i] = debit
			} else {
				expenses[i] = debit
			}
		}
		out.SetColumn(domain.ColumnRevenue, revenue)
		out.SetColumn(domain.ColumnOperatingExpenses, expenses)
		out.SetColumn(domain.ColumnLoanRepayment, loans)
	}

	if descIdx >= 0 && out.IndexFold(domain.ColumnCategory) < 0 {
		values := make([]any, len(labels))
		for i, l := range labels {
			values[i] = string(l)
		}
		out.SetColumn(domain.ColumnCategory, values)
	}
	return out
}

func descriptionAt(t *ledger.Table, row, col int) string {
	switch v := t.Value(row, col).(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func fillZero(v any) any {
	if v == nil {
		return 0.0
	}
	return v
}

func isZero(v any) bool {
	switch n := v.(type) {
	case float64:
		return n == 0
	case float32:
		return n == 0
	case int:
		return n == 0
	case int64:
		return n == 0
	case int32:
		return n == 0
	}
	return false
}
