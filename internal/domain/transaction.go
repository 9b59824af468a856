package domain

import (
	"time"
)

// Canonical column names recognized after normalization.
const (
	ColumnDate               = "Date"
	ColumnRevenue            = "Revenue"
	ColumnOperatingExpenses  = "Operating Expenses"
	ColumnLoanRepayment      = "Loan Repayment"
	ColumnAccountsReceivable = "Accounts Receivable"
	ColumnAccountsPayable    = "Accounts Payable"
	ColumnNetCashFlow        = "Net Cash Flow"
	ColumnDescription        = "Description"
	ColumnCategory           = "Category"
)

// CanonicalColumns lists the canonical schema in normalization order.
var CanonicalColumns = []string{
	ColumnDate,
	ColumnRevenue,
	ColumnOperatingExpenses,
	ColumnLoanRepayment,
	ColumnAccountsReceivable,
	ColumnAccountsPayable,
}

// AmountColumns are the canonical numeric columns. Everything except Revenue
// is optional and defaults to zero.
var AmountColumns = []string{
	ColumnRevenue,
	ColumnOperatingExpenses,
	ColumnLoanRepayment,
	ColumnAccountsReceivable,
	ColumnAccountsPayable,
}

// Record is one validated, typed ledger row.
// Records only exist for rows whose date parsed successfully.
type Record struct {
	Date               time.Time
	Revenue            float64
	OperatingExpenses  float64
	LoanRepayment      float64
	AccountsReceivable float64
	AccountsPayable    float64
	NetCashFlow        float64 // Revenue - OperatingExpenses - LoanRepayment
	Description        string
}
