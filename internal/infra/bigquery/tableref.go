package bigquery

import (
	"fmt"
	"strings"
)

// TableRef names a table as [project.]dataset.table.
type TableRef struct {
	Project string
	Dataset string
	Table   string
}

// ParseTableRef parses "dataset.table" or "project.dataset.table",
// optionally wrapped in backticks.
func ParseTableRef(s string) (TableRef, error) {
	trimmed := strings.Trim(strings.TrimSpace(s), "`")
	parts := strings.Split(trimmed, ".")
	for _, p := range parts {
		if p == "" {
			return TableRef{}, fmt.Errorf("ParseTableRef: invalid table reference %q", s)
		}
	}

	switch len(parts) {
	case 2:
		return TableRef{Dataset: parts[0], Table: parts[1]}, nil
	case 3:
		return TableRef{Project: parts[0], Dataset: parts[1], Table: parts[2]}, nil
	default:
		return TableRef{}, fmt.Errorf("ParseTableRef: invalid table reference %q", s)
	}
}

func (r TableRef) String() string {
	if r.Project == "" {
		return r.Dataset + "." + r.Table
	}
	return r.Project + "." + r.Dataset + "." + r.Table
}
