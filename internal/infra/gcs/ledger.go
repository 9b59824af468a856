package gcs

import (
	"bytes"
	"context"
	"fmt"

	"github.com/shrujansacharya/Financial-Health-Assessment-Tool/internal/ledger"
)

// Fetcher downloads objects by URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// LoadLedger fetches a CSV ledger from uri and parses it.
func LoadLedger(ctx context.Context, f Fetcher, uri string) (*ledger.Table, error) {
	data, err := f.Fetch(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("LoadLedger: %w", err)
	}

	t, err := ledger.ReadCSV(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("LoadLedger: parse %s: %w", FilenameFromURI(uri), err)
	}
	return t, nil
}
