package finance

import (
	"errors"
	"strings"
)

// ErrNoValidRows is returned when every row is dropped for an unparseable date.
var ErrNoValidRows = errors.New("No valid rows with dates found.")

// SchemaError reports that the required Date and Revenue columns are absent
// even after normalization and revenue derivation.
type SchemaError struct {
	// CreditProfile is set when the column labels suggest a credit or
	// customer profile export rather than a ledger.
	CreditProfile bool
	Missing       []string
}

func (e *SchemaError) Error() string {
	msg := "This dataset does not seem to contain time-series financial data."
	if e.CreditProfile {
		msg = "This dataset appears to be a credit or customer profile file."
	}
	return msg + "\n" +
		"FinHealth AI’s financial analysis requires time-based revenue or sales data.\n" +
		"Please upload a dataset containing at least: Date + Revenue (or Sales)."
}

func newSchemaError(columns []string, missing []string) *SchemaError {
	joined := strings.ToLower(strings.Join(columns, " "))
	return &SchemaError{
		CreditProfile: strings.Contains(joined, "credit") || strings.Contains(joined, "customer"),
		Missing:       missing,
	}
}
