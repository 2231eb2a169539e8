package types

import (
	"fmt"
	"time"
)

// QueryResult is the materialised output of one query: ordered column names
// and rows of scalar cells, one cell per column.
type QueryResult struct {
	Columns []string `json:"columns" yaml:"columns"`
	Rows    [][]any  `json:"rows" yaml:"rows"`
}

// Empty reports whether the result carries no rows. A nil result is empty.
func (r *QueryResult) Empty() bool {
	return r == nil || len(r.Rows) == 0
}

// Len returns the row count.
func (r *QueryResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// ColumnIndex returns the position of the named column or -1.
func (r *QueryResult) ColumnIndex(name string) int {
	if r == nil {
		return -1
	}
	for i, c := range r.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns every value of the named column in row order.
func (r *QueryResult) Column(name string) ([]any, error) {
	idx := r.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("column %q not in result", name)
	}

	values := make([]any, len(r.Rows))
	for i, row := range r.Rows {
		values[i] = row[idx]
	}
	return values, nil
}

// Normalize converts driver specific cell types into plain scalars.
func Normalize(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case float32:
		return float64(val)
	default:
		return val
	}
}

// FormatValue renders a cell for display.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.DateTime)
	default:
		return fmt.Sprintf("%v", val)
	}
}
