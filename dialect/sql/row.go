package sql

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Row is a single result row. It keeps the column order of the SELECT
// and maps each column name to its scanned value. Values are int64,
// float64, bool, string, []byte, time.Time or nil. Unsigned values above
// math.MaxInt64 are kept as uint64.
type Row struct {
	columns []string
	values  map[string]any
}

// NewRow returns a Row holding the given columns and values in order.
// It panics if the slices differ in length.
func NewRow(columns []string, values []any) *Row {
	if len(columns) != len(values) {
		panic(fmt.Sprintf("dialect/sql: NewRow: %d columns for %d values", len(columns), len(values)))
	}
	r := &Row{values: make(map[string]any, len(columns))}
	for i, c := range columns {
		r.set(c, values[i])
	}
	return r
}

func (r *Row) set(column string, v any) {
	if _, ok := r.values[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.values[column] = v
}

// Columns returns the column names in SELECT order.
func (r *Row) Columns() []string {
	return append([]string(nil), r.columns...)
}

// Len returns the number of columns.
func (r *Row) Len() int { return len(r.columns) }

// Get returns the value of column, or nil if the column is absent.
func (r *Row) Get(column string) any { return r.values[column] }

// Lookup returns the value of column and whether the column exists.
func (r *Row) Lookup(column string) (any, bool) {
	v, ok := r.values[column]
	return v, ok
}

// IsNull reports whether column is absent or NULL.
func (r *Row) IsNull(column string) bool { return r.values[column] == nil }

// Int64 returns column as an int64. Non-numeric values yield 0 and
// unsigned values above math.MaxInt64 yield math.MaxInt64.
func (r *Row) Int64(column string) int64 {
	switch v := r.values[column].(type) {
	case int64:
		return v
	case uint64:
		if v > math.MaxInt64 {
			return math.MaxInt64
		}
		return int64(v)
	case float64:
		return int64(v)
	case bool:
		if v {
			return 1
		}
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n
	case []byte:
		n, _ := strconv.ParseInt(string(v), 10, 64)
		return n
	}
	return 0
}

// Float64 returns column as a float64. Non-numeric values yield 0.
func (r *Row) Float64(column string) float64 {
	switch v := r.values[column].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	case []byte:
		f, _ := strconv.ParseFloat(string(v), 64)
		return f
	}
	return 0
}

// String returns column formatted as a string. NULL yields "".
func (r *Row) String(column string) string {
	switch v := r.values[column].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format(time.DateTime)
	default:
		return fmt.Sprint(v)
	}
}

// Bool returns column as a bool: true for non-zero numbers and for the
// strings accepted by strconv.ParseBool.
func (r *Row) Bool(column string) bool {
	switch v := r.values[column].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case uint64:
		return v != 0
	case float64:
		return v != 0
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return r.Int64(column) != 0
		}
		return b
	}
	return false
}

// Map returns a copy of the row as a plain map.
func (r *Row) Map() map[string]any {
	m := make(map[string]any, len(r.values))
	for k, v := range r.values {
		m[k] = v
	}
	return m
}

// MarshalJSON encodes the row as a JSON object in column order.
func (r *Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[c])
		if err != nil {
			return nil, fmt.Errorf("dialect/sql: marshal column %q: %w", c, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// scanRows reads every remaining row of rows.
func scanRows(rows ColumnScanner) ([]*Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	var out []*Row
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		for i := range values {
			values[i] = normalize(values[i], types[i])
		}
		out = append(out, NewRow(columns, values))
	}
	return out, rows.Err()
}

// normalize converts driver values into the Row value set. MySQL returns
// most columns as []byte when statements are prepared on the server.
func normalize(v any, ct *sql.ColumnType) any {
	switch v := v.(type) {
	case []byte:
		var name string
		if ct != nil {
			name = strings.ToUpper(ct.DatabaseTypeName())
		}
		switch {
		case isIntType(name):
			if n, err := strconv.ParseInt(string(v), 10, 64); err == nil {
				return n
			}
			if n, err := strconv.ParseUint(string(v), 10, 64); err == nil {
				return n
			}
		case isFloatType(name):
			if f, err := strconv.ParseFloat(string(v), 64); err == nil {
				return f
			}
		case isBinaryType(name):
			return v
		}
		return string(v)
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		if v > math.MaxInt64 {
			return v
		}
		return int64(v)
	case float32:
		return float64(v)
	default:
		return v
	}
}

func isIntType(name string) bool {
	name = strings.TrimPrefix(name, "UNSIGNED ")
	switch name {
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "INTEGER", "BIGINT", "YEAR":
		return true
	}
	return false
}

func isFloatType(name string) bool {
	switch name {
	case "DECIMAL", "NUMERIC", "FLOAT", "DOUBLE", "REAL":
		return true
	}
	return false
}

func isBinaryType(name string) bool {
	switch name {
	case "BINARY", "VARBINARY", "BLOB", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB", "BIT", "GEOMETRY":
		return true
	}
	return false
}
