// Package erp defines the ingestion boundary between the portal core and the
// upstream ERP data source. The ERP schema is third-party and read-only: rows
// arrive as loosely typed maps with mixed-case column names and fixed-width
// padded text fields, and are normalized exactly once here.
package erp

import (
	"strconv"
	"strings"
)

// Row is a single raw record from an ERP query.
type Row map[string]any

// lookup finds a value by key, falling back to a case-insensitive scan. The
// upstream layer is not consistent about column casing across queries.
func (r Row) lookup(key string) (any, bool) {
	if v, ok := r[key]; ok {
		return v, true
	}
	for k, v := range r {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// Float returns the row's value for key coerced to a float, or def when the
// key is absent or the value cannot be interpreted as a number.
func (r Row) Float(key string, def float64) float64 {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	return Float(v, def)
}

// Str returns the row's value for key as a whitespace-trimmed string, or ""
// when absent. Trimming matters: identifiers originate from fixed-width
// padded ERP fields and are used as map keys downstream.
func (r Row) Str(key string) string {
	v, ok := r.lookup(key)
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case []byte:
		return strings.TrimSpace(string(s))
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(s, 10)
	case int:
		return strconv.Itoa(s)
	default:
		return ""
	}
}

// Float coerces a heterogeneous nullable value to a float64, returning def
// for nil or unparseable input. It never panics; every numeric field that
// enters arithmetic goes through here.
func Float(v any, def float64) float64 {
	switch n := v.(type) {
	case nil:
		return def
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case []byte:
		return parseFloat(string(n), def)
	case string:
		return parseFloat(n, def)
	default:
		return def
	}
}

func parseFloat(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}
