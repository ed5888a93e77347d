package sql

import (
	"sort"
	"strings"
)

// Where is a WHERE clause for the table helpers: either Raw SQL or a Match
// of column values. A nil Where matches every row.
type Where interface {
	where() (string, Params)
}

type rawWhere struct {
	sql    string
	params Params
}

func (w rawWhere) where() (string, Params) { return w.sql, w.params }

// Raw returns a Where that is inserted verbatim. Its placeholders are bound
// from params. An empty sql means no WHERE clause.
func Raw(sql string, params Params) Where {
	return rawWhere{sql: sql, params: params}
}

type matchWhere map[string]Value

func (m matchWhere) where() (string, Params) {
	if len(m) == 0 {
		return "", nil
	}
	columns := make([]string, 0, len(m))
	for c := range m {
		columns = append(columns, c)
	}
	sort.Strings(columns)
	var (
		parts  = make([]string, 0, len(columns))
		params = make(Params, len(columns))
		used   = make(paramNames, len(columns))
	)
	for _, c := range columns {
		v := m[c]
		if v.IsNull() {
			parts = append(parts, QuoteIdentifier(c)+" IS NULL")
			continue
		}
		name := used.next("w_", c)
		parts = append(parts, QuoteIdentifier(c)+" = :"+name)
		params[name] = v
	}
	return strings.Join(parts, " AND "), params
}

// Match returns a Where testing each column for equality with its value,
// or IS NULL for Null values. Columns are conjoined with AND in sorted
// order.
func Match(values map[string]Value) Where {
	return matchWhere(values)
}

// BuildWhere returns the condition text (without the WHERE keyword) and
// its params. The text is empty when w selects every row.
func BuildWhere(w Where) (string, Params) {
	if w == nil {
		return "", Params{}
	}
	sql, params := w.where()
	if params == nil {
		params = Params{}
	}
	return sql, params
}

// whereClause returns " WHERE <cond>" or "".
func whereClause(w Where) (string, Params) {
	cond, params := BuildWhere(w)
	if strings.TrimSpace(cond) == "" {
		return "", params
	}
	return " WHERE " + cond, params
}
