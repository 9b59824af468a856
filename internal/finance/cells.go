package finance

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
)

// numericValue returns the float value of a numeric cell. NaN reads as
// missing.
func numericValue(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case *big.Rat:
		if n == nil {
			return 0, false
		}
		f, _ = n.Float64()
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func isNumericCell(v any) bool {
	if v == nil {
		return true
	}
	_, ok := numericValue(v)
	if ok {
		return true
	}
	f, isFloat := v.(float64)
	return isFloat && math.IsNaN(f)
}

// cellText renders a cell the way a text column would hold it.
func cellText(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		if math.IsNaN(c) {
			return ""
		}
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		if c {
			return "True"
		}
		return "False"
	case time.Time:
		return c.Format(time.RFC3339)
	case *big.Rat:
		if c == nil {
			return ""
		}
		return c.FloatString(6)
	case fmt.Stringer:
		return c.String()
	}
	if f, ok := numericValue(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// stripAmount keeps only digits, '.' and '-'.
func stripAmount(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseDecimal parses s as a plain decimal number, returning false when s is
// not one.
func parseDecimal(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	return f, true
}

// coerceAmounts converts a column to numbers. A column holding any text is
// treated as text: every cell is stripped to [0-9.-] and parsed, with
// failures reading as 0. A missing column yields n zeros.
func coerceAmounts(values []any, n int) []float64 {
	out := make([]float64, n)
	if values == nil {
		return out
	}

	textual := false
	for _, v := range values {
		if !isNumericCell(v) {
			textual = true
			break
		}
	}

	for i, v := range values {
		if i >= n {
			break
		}
		if textual {
			f, _ := parseDecimal(stripAmount(cellText(v)))
			out[i] = f
			continue
		}
		f, _ := numericValue(v)
		out[i] = f
	}
	return out
}

// toNumeric converts a cell without stripping: numbers pass through,
// numeric strings parse, anything else reads as 0.
func toNumeric(v any) float64 {
	if f, ok := numericValue(v); ok {
		return f
	}
	if s, ok := v.(string); ok {
		f, _ := parseDecimal(strings.TrimSpace(s))
		return f
	}
	return 0
}

// parseDate interprets a cell as a calendar date or timestamp.
func parseDate(v any) (time.Time, bool) {
	switch c := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return c, !c.IsZero()
	case civil.Date:
		if !c.IsValid() {
			return time.Time{}, false
		}
		return c.In(time.UTC), true
	case civil.DateTime:
		if !c.IsValid() {
			return time.Time{}, false
		}
		return c.In(time.UTC), true
	case string:
		return parseDateString(c)
	case bool:
		return time.Time{}, false
	}

	if f, ok := numericValue(v); ok {
		return yearDate(f)
	}
	return time.Time{}, false
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if len(s) == 4 {
		if year, err := strconv.Atoi(s); err == nil {
			return yearDate(float64(year))
		}
	}
	for _, layout := range monthLabelLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
		return t, true
	}
	if t, err := dateparse.ParseIn(s, time.UTC, dateparse.PreferMonthFirst(false)); err == nil {
		return t, true
	}
	for _, layout := range numericDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// monthLabelLayouts read period labels such as "Jan 2024" as the first of
// the month.
var monthLabelLayouts = []string{
	"Jan 2006",
	"January 2006",
	"Jan-06",
	"Jan-2006",
	"January-2006",
	"Jan 06",
}

// numericDateLayouts cover dash separated dates, month first before day
// first.
var numericDateLayouts = []string{
	"01-02-2006",
	"02-01-2006",
	"1-2-2006",
	"2-1-2006",
}

// yearDate accepts a whole four-digit year and returns 1 January of it.
func yearDate(f float64) (time.Time, bool) {
	if f != math.Trunc(f) || f < 1000 || f > 9999 {
		return time.Time{}, false
	}
	return time.Date(int(f), time.January, 1, 0, 0, 0, 0, time.UTC), true
}
