package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// errorColumn is the single column of a row that captures a failed query.
const errorColumn = "error"

// StructuredRow is an ordered column-to-value mapping produced by the
// structured store. A failed query is represented as a single-entry
// {"error": message} row rather than an error value, so composition can
// continue with a best-effort answer.
type StructuredRow struct {
	columns []string
	values  map[string]any
}

// NewStructuredRow creates an empty row that will preserve the given
// column order when serialized.
func NewStructuredRow(columns []string) StructuredRow {
	return StructuredRow{
		columns: append([]string(nil), columns...),
		values:  make(map[string]any, len(columns)),
	}
}

// ErrorRow captures a structured-query failure as a data value.
func ErrorRow(msg string) StructuredRow {
	r := NewStructuredRow([]string{errorColumn})
	r.Set(errorColumn, msg)
	return r
}

// Set assigns a value to a column. Columns not declared at construction
// are appended at the end of the order.
func (r *StructuredRow) Set(column string, value any) {
	if _, ok := r.values[column]; !ok {
		found := false
		for _, c := range r.columns {
			if c == column {
				found = true
				break
			}
		}
		if !found {
			r.columns = append(r.columns, column)
		}
	}
	r.values[column] = value
}

// Get returns the value of a column.
func (r *StructuredRow) Get(column string) (any, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Columns returns the column order.
func (r *StructuredRow) Columns() []string {
	return append([]string(nil), r.columns...)
}

// IsError reports whether the row is an error capture.
func (r *StructuredRow) IsError() bool {
	_, ok := r.values[errorColumn]
	return ok && len(r.columns) == 1
}

// MarshalJSON renders the row as a JSON object in column order.
func (r StructuredRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("marshal column %q: %w", c, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.values[c])
		if err != nil {
			return nil, fmt.Errorf("marshal value of %q: %w", c, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Query is a parameterized read query against the structured store.
// Values are always bound via Args, never spliced into Text.
type Query struct {
	Text string
	Args []any
}
