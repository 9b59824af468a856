package finance

import (
	"sort"
	"strings"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/domain"
	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/ledger"
)

var (
	quantityHints = []string{"quantity", "units", "qty"}
	priceHints    = []string{"price", "rate", "unit cost"}
)

// PrepareLedger turns a normalized table into typed records sorted by date.
//
// Revenue is derived from quantity and price columns when absent. Optional
// amount columns default to zero, text amounts are stripped of currency
// symbols and separators, and rows whose date cannot be parsed are dropped.
// The input table is not modified.
func PrepareLedger(t *ledger.Table) ([]domain.Record, error) {
	work := t.Clone()
	deriveRevenue(work)

	var missing []string
	for _, col := range []string{domain.ColumnDate, domain.ColumnRevenue} {
		if !work.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, newSchemaError(work.Columns, missing)
	}

	n := work.Len()
	amounts := make(map[string][]float64, len(domain.AmountColumns))
	for _, col := range domain.AmountColumns {
		amounts[col] = coerceAmounts(work.Column(col), n)
	}

	dateIdx := work.Index(domain.ColumnDate)
	descIdx := work.IndexFold(domain.ColumnDescription)

	records := make([]domain.Record, 0, n)
	for i := 0; i < n; i++ {
		date, ok := parseDate(work.Value(i, dateIdx))
		if !ok {
			continue
		}
		rec := domain.Record{
			Date:               date,
			Revenue:            amounts[domain.ColumnRevenue][i],
			OperatingExpenses:  amounts[domain.ColumnOperatingExpenses][i],
			LoanRepayment:      amounts[domain.ColumnLoanRepayment][i],
			AccountsReceivable: amounts[domain.ColumnAccountsReceivable][i],
			AccountsPayable:    amounts[domain.ColumnAccountsPayable][i],
		}
		if descIdx >= 0 {
			rec.Description = cellText(work.Value(i, descIdx))
		}
		rec.NetCashFlow = rec.Revenue - rec.OperatingExpenses - rec.LoanRepayment
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrNoValidRows
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, nil
}

// deriveRevenue fills Revenue as quantity times price when both can be
// located and Revenue is absent.
func deriveRevenue(t *ledger.Table) {
	if t.Has(domain.ColumnRevenue) {
		return
	}
	qty := findColumn(t.Columns, quantityHints)
	price := findColumn(t.Columns, priceHints)
	if qty < 0 || price < 0 {
		return
	}

	values := make([]any, t.Len())
	for i := range values {
		values[i] = toNumeric(t.Value(i, qty)) * toNumeric(t.Value(i, price))
	}
	t.SetColumn(domain.ColumnRevenue, values)
}

func findColumn(columns []string, hints []string) int {
	for i, c := range columns {
		lower := strings.ToLower(c)
		for _, h := range hints {
			if strings.Contains(lower, h) {
				return i
			}
		}
	}
	return -1
}
