package bigquery

import (
	"fmt"
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/ledger"
)

// valueIterator is the part of *bigquery.RowIterator used here.
type valueIterator interface {
	Next(dst interface{}) error
}

// readTable drains it into a ledger table. The schema is read after the
// first row because the iterator only knows it from then on.
func readTable(it valueIterator, schema func() bigquery.Schema, limit int) (*ledger.Table, error) {
	var rows [][]any
	for limit <= 0 || len(rows) < limit {
		var values []bigquery.Value
		err := it.Next(&values)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iter next: %w", err)
		}

		row := make([]any, len(values))
		for i, v := range values {
			row[i] = convertValue(v)
		}
		rows = append(rows, row)
	}

	fields := schema()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}
	return ledger.New(columns, rows), nil
}

// convertValue maps BigQuery cell values onto ledger cell types. DATE,
// DATETIME, TIMESTAMP and NUMERIC values are understood by the analysis
// core as they are; nested and binary values become text.
func convertValue(v bigquery.Value) any {
	switch c := v.(type) {
	case nil:
		return nil
	case string, bool, int64, float64:
		return c
	case civil.Date, civil.DateTime, time.Time, *big.Rat:
		return c
	case civil.Time:
		return c.String()
	case []byte:
		return string(c)
	default:
		return fmt.Sprint(c)
	}
}
