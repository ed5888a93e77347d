package sql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// SelectOption configures Select.
type SelectOption func(*selectSpec)

type selectSpec struct {
	columns []string
	orderBy string
	limit   string
}

// Columns sets the selected columns. Default is *.
func Columns(columns ...string) SelectOption {
	return func(s *selectSpec) {
		s.columns = append(s.columns, columns...)
	}
}

// OrderBy sets the ORDER BY clause. The text is inserted verbatim and must
// not come from untrusted input.
func OrderBy(expr string) SelectOption {
	return func(s *selectSpec) {
		s.orderBy = expr
	}
}

// Limit sets the LIMIT clause, e.g. "10" or "20, 10". The text is inserted
// verbatim and must not come from untrusted input.
func Limit(expr string) SelectOption {
	return func(s *selectSpec) {
		s.limit = expr
	}
}

// SelectSQL renders the SELECT statement run by Select.
func SelectSQL(table string, where Where, opts ...SelectOption) (string, Params) {
	spec := &selectSpec{}
	for _, opt := range opts {
		opt(spec)
	}
	cols := "*"
	if len(spec.columns) > 0 {
		quoted := make([]string, len(spec.columns))
		for i, c := range spec.columns {
			quoted[i] = QuoteIdentifier(c)
		}
		cols = strings.Join(quoted, ", ")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", cols, QuoteIdentifier(table))
	clause, params := whereClause(where)
	b.WriteString(clause)
	if spec.orderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(spec.orderBy)
	}
	if spec.limit != "" {
		b.WriteString(" LIMIT ")
		b.WriteString(spec.limit)
	}
	return b.String(), params
}

// Select returns the rows of table matching where.
func (d *DB) Select(ctx context.Context, table string, where Where, opts ...SelectOption) ([]*Row, error) {
	query, params := SelectSQL(table, where, opts...)
	return d.GetAll(ctx, query, params)
}

// CountTable returns the number of rows of table matching where.
func (d *DB) CountTable(ctx context.Context, table string, where Where) (int64, error) {
	clause, params := whereClause(where)
	return d.CountRaw(ctx, "SELECT COUNT(*) AS cnt FROM "+QuoteIdentifier(table)+clause, params)
}

// CountRaw runs a counting statement and returns its first column as an
// integer. An empty result counts as 0.
func (d *DB) CountRaw(ctx context.Context, query string, params Params) (int64, error) {
	row, err := d.GetRow(ctx, query, params)
	if errors.Is(err, ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if row.Len() == 0 {
		return 0, nil
	}
	return row.Int64(row.columns[0]), nil
}

// DeleteFrom deletes the rows of table matching where and returns how many
// were removed. A nil where deletes every row.
func (d *DB) DeleteFrom(ctx context.Context, table string, where Where) (int64, error) {
	clause, params := whereClause(where)
	return d.DeleteRaw(ctx, "DELETE FROM "+QuoteIdentifier(table)+clause, params)
}

// Insert adds a row built from data and returns the generated id. Drivers
// that cannot report one yield 1.
func (d *DB) Insert(ctx context.Context, table string, data map[string]Value) (int64, error) {
	if len(data) == 0 {
		return 0, &ValidationError{Op: "insert", Table: table, Message: "insert data cannot be empty"}
	}
	columns := sortedColumns(data)
	var (
		names        = make([]string, len(columns))
		placeholders = make([]string, len(columns))
		params       = make(Params, len(columns))
		used         = make(paramNames, len(columns))
	)
	for i, c := range columns {
		p := used.next("", c)
		names[i] = QuoteIdentifier(c)
		placeholders[i] = ":" + p
		params[p] = data[c]
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		QuoteIdentifier(table), strings.Join(names, ", "), strings.Join(placeholders, ", "))
	res, err := d.Exec(ctx, query, params)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil || id == 0 {
		d.log.DebugContext(ctx, "last insert id unavailable", "table", table, "error", err)
		return 1, nil
	}
	return id, nil
}

// Update sets the columns in data on the rows of table matching where and
// returns the affected row count. A nil where updates every row.
func (d *DB) Update(ctx context.Context, table string, data map[string]Value, where Where) (int64, error) {
	if len(data) == 0 {
		return 0, &ValidationError{Op: "update", Table: table, Message: "update data cannot be empty"}
	}
	clause, whereParams := whereClause(where)
	columns := sortedColumns(data)
	var (
		set    = make([]string, len(columns))
		params = make(Params, len(columns)+len(whereParams))
		used   = make(paramNames, len(columns))
	)
	for i, c := range columns {
		p := used.next("set_", c)
		set[i] = QuoteIdentifier(c) + " = :" + p
		params[p] = data[c]
	}
	params = whereParams.Merge(params)
	query := "UPDATE " + QuoteIdentifier(table) + " SET " + strings.Join(set, ", ") + clause
	res, err := d.Exec(ctx, query, params)
	if err != nil {
		return 0, err
	}
	return rowsAffected(query, params, res)
}

func sortedColumns(data map[string]Value) []string {
	columns := make([]string, 0, len(data))
	for c := range data {
		columns = append(columns, c)
	}
	sort.Strings(columns)
	return columns
}
