// Package finance is the analysis core: it maps arbitrary ledger columns to
// the canonical schema, derives typed records and computes metrics, the
// health score, risk flags and auxiliary estimates. It performs no I/O.
package finance

import (
	"sort"
	"strings"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/domain"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/ledger"
)

// columnAliases maps each canonical column to lower-case label fragments
// that identify it in arbitrary exports.
var columnAliases = map[string][]string{
	domain.ColumnDate: {
		"date", "period", "month", "year", "time", "order date", "invoice date",
		"transaction date", "purchase date", "billing date",
	},
	domain.ColumnRevenue: {
		"revenue", "sales", "gross sales", "income", "turnover", "top line",
		"total sales", "net sales", "amount", "total amount",
	},
	domain.ColumnOperatingExpenses: {
		"operating expenses", "expenses", "opex", "costs", "expenditure", "cogs",
		"total expenses", "manufacturing price",
	},
	domain.ColumnLoanRepayment: {
		"loan", "repayment", "emi", "debt", "interest", "liabilities",
	},
	domain.ColumnAccountsReceivable: {
		"receivable", "ar", "debtors", "due from",
	},
	domain.ColumnAccountsPayable: {
		"payable", "ap", "creditors", "due to", "owed",
	},
}

// aliasesByLength holds columnAliases sorted longest first so that specific
// aliases ("total amount") win over generic ones ("amount").
var aliasesByLength = buildAliasIndex()

func buildAliasIndex() map[string][]string {
	index := make(map[string][]string, len(columnAliases))
	for target, aliases := range columnAliases {
		sorted := make([]string, len(aliases))
		copy(sorted, aliases)
		sort.SliceStable(sorted, func(i, j int) bool {
			return len(sorted[i]) > len(sorted[j])
		})
		index[target] = sorted
	}
	return index
}

// NormalizeColumns returns a copy of t whose labels are trimmed and, where
// possible, renamed to the canonical schema. A raw column is assigned to at
// most one canonical target; the first target to claim it keeps it.
// Columns that match nothing pass through unchanged. Running it on its own
// output is a no-op.
func NormalizeColumns(t *ledger.Table) *ledger.Table {
	out := t.Clone()
	for i, c := range out.Columns {
		out.Columns[i] = strings.TrimSpace(c)
	}

	claimed := make([]bool, len(out.Columns))
	for i, c := range out.Columns {
		if isCanonical(c) {
			claimed[i] = true
		}
	}

	renames := make(map[int]string)
	for _, target := range domain.CanonicalColumns {
		if out.Has(target) {
			continue
		}
		if idx := matchColumn(out.Columns, claimed, target); idx >= 0 {
			claimed[idx] = true
			renames[idx] = target
		}
	}

	for idx, target := range renames {
		out.Columns[idx] = target
	}
	return out
}

// matchColumn finds the unclaimed column for target: an exact
// case-insensitive label match first, then the longest alias contained in
// any label.
func matchColumn(columns []string, claimed []bool, target string) int {
	lowerTarget := strings.ToLower(target)
	for i, c := range columns {
		if !claimed[i] && strings.ToLower(c) == lowerTarget {
			return i
		}
	}

	for _, alias := range aliasesByLength[target] {
		for i, c := range columns {
			if claimed[i] {
				continue
			}
			lower := strings.ToLower(c)
			if lower == alias || strings.Contains(lower, alias) {
				return i
			}
		}
	}
	return -1
}

func isCanonical(label string) bool {
	for _, c := range domain.CanonicalColumns {
		if label == c {
			return true
		}
	}
	return false
}
