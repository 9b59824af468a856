// Package bigquery loads ledger tables from BigQuery tables and queries.
package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/ledger"
)

// LedgerSource reads ledgers out of BigQuery. It holds a shared client to
// avoid creating a new connection for each load.
type LedgerSource struct {
	client *bigquery.Client
}

// NewLedgerSource creates a source billed to projectID.
func NewLedgerSource(ctx context.Context, projectID string) (*LedgerSource, error) {
	if projectID == "" {
		return nil, fmt.Errorf("NewLedgerSource: project ID is empty")
	}
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewLedgerSource: creating client: %w", err)
	}
	return NewLedgerSourceWithClient(client), nil
}

// NewLedgerSourceWithClient wraps an existing client.
func NewLedgerSourceWithClient(client *bigquery.Client) *LedgerSource {
	return &LedgerSource{client: client}
}

// Close closes the BigQuery client connection.
func (s *LedgerSource) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// LoadTable reads up to limit rows of a table; limit <= 0 reads all rows.
func (s *LedgerSource) LoadTable(ctx context.Context, ref TableRef, limit int) (*ledger.Table, error) {
	dataset := s.client.Dataset(ref.Dataset)
	if ref.Project != "" {
		dataset = s.client.DatasetInProject(ref.Project, ref.Dataset)
	}

	it := dataset.Table(ref.Table).Read(ctx)
	t, err := readTable(it, func() bigquery.Schema { return it.Schema }, limit)
	if err != nil {
		return nil, fmt.Errorf("LoadTable: %s: %w", ref, err)
	}
	return t, nil
}

// LoadQuery runs a standard SQL query and returns its result set.
func (s *LedgerSource) LoadQuery(ctx context.Context, sql string, params ...bigquery.QueryParameter) (*ledger.Table, error) {
	q := s.client.Query(sql)
	q.Parameters = params

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("LoadQuery: query read: %w", err)
	}

	t, err := readTable(it, func() bigquery.Schema { return it.Schema }, 0)
	if err != nil {
		return nil, fmt.Errorf("LoadQuery: %w", err)
	}
	return t, nil
}
