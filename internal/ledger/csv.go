package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrEmptyInput is returned by ReadCSV when the input has no header.
var ErrEmptyInput = errors.New("empty input")

// ReadCSV parses a CSV export into a Table. The first record is the header.
// A column whose non-empty cells all parse as numbers is stored as float64;
// any other column keeps its text. Empty cells become nil in both cases.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("ReadCSV: %w", ErrEmptyInput)
	}
	if err != nil {
		return nil, fmt.Errorf("ReadCSV: read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ReadCSV: read records: %w", err)
	}

	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		if isBlankRecord(rec) {
			continue
		}
		row := make([]any, len(header))
		for i := range header {
			row[i] = ""
			if i < len(rec) {
				row[i] = rec[i]
			}
		}
		rows = append(rows, row)
	}

	for col := range header {
		inferColumn(rows, col)
	}

	return &Table{Columns: header, Rows: rows}, nil
}

// inferColumn converts a text column to float64 cells when every non-empty
// cell is numeric, and turns empty cells into nil.
func inferColumn(rows [][]any, col int) {
	numeric := true
	for _, row := range rows {
		s := strings.TrimSpace(row[col].(string))
		if s == "" {
			continue
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			numeric = false
			break
		}
	}

	for _, row := range rows {
		s := strings.TrimSpace(row[col].(string))
		switch {
		case s == "":
			row[col] = nil
		case numeric:
			f, _ := strconv.ParseFloat(s, 64)
			row[col] = f
		}
	}
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
