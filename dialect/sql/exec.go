package sql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Query runs a row-returning statement. With no params the SQL is sent
// as is; otherwise it is prepared and params are bound to its placeholders.
// The caller must close the returned Rows.
func (d *DB) Query(ctx context.Context, query string, params Params) (_ *Rows, rerr error) {
	start := time.Now()
	defer func() { d.after(ctx, query, params, start, rerr, true) }()
	conn := d.conn()
	if len(params) == 0 {
		rows, err := conn.QueryContext(ctx, query)
		if err != nil {
			return nil, newQueryError("query failed", query, params, err)
		}
		return &Rows{rows}, nil
	}
	compiled, args, err := compile(query, params)
	if err != nil {
		return nil, newQueryError(err.Error(), query, params, nil)
	}
	stmt, err := conn.PrepareContext(ctx, compiled)
	if err != nil {
		return nil, newQueryError("prepare failed", query, params, err)
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, newQueryError("query failed", query, params, errors.Join(err, stmt.Close()))
	}
	return &Rows{rowsWithCloser{rows, stmt.Close}}, nil
}

// Exec runs a statement that returns no rows, following the same rules
// as Query.
func (d *DB) Exec(ctx context.Context, query string, params Params) (_ Result, rerr error) {
	start := time.Now()
	defer func() { d.after(ctx, query, params, start, rerr, false) }()
	conn := d.conn()
	if len(params) == 0 {
		res, err := conn.ExecContext(ctx, query)
		if err != nil {
			return nil, newQueryError("exec failed", query, params, err)
		}
		return res, nil
	}
	compiled, args, err := compile(query, params)
	if err != nil {
		return nil, newQueryError(err.Error(), query, params, nil)
	}
	stmt, err := conn.PrepareContext(ctx, compiled)
	if err != nil {
		return nil, newQueryError("prepare failed", query, params, err)
	}
	defer stmt.Close()
	res, err := stmt.ExecContext(ctx, args...)
	if err != nil {
		return nil, newQueryError("exec failed", query, params, err)
	}
	return res, nil
}

func (d *DB) after(ctx context.Context, query string, params Params, start time.Time, err error, isQuery bool) {
	d.rec.record(ctx, query, params, start, err, isQuery)
	attrs := []any{"sql", query, "params", len(params), "duration", time.Since(start)}
	if err != nil {
		d.log.DebugContext(ctx, "statement failed", append(attrs, "error", err)...)
		return
	}
	d.log.DebugContext(ctx, "statement", attrs...)
}

// Prepare prepares query on the active connection. Named placeholders are
// not rewritten; use ? placeholders.
func (d *DB) Prepare(ctx context.Context, query string) (*Stmt, error) {
	stmt, err := d.conn().PrepareContext(ctx, query)
	if err != nil {
		return nil, newQueryError("prepare failed", query, nil, err)
	}
	return stmt, nil
}

// GetAll runs query and returns every row.
func (d *DB) GetAll(ctx context.Context, query string, params Params) ([]*Row, error) {
	rows, err := d.Query(ctx, query, params)
	if err != nil {
		return nil, err
	}
	out, err := rows.All()
	if err != nil {
		return nil, newQueryError("reading rows failed", query, params, err)
	}
	return out, nil
}

// GetRow runs query and returns its first row, or ErrNoRows.
func (d *DB) GetRow(ctx context.Context, query string, params Params) (*Row, error) {
	rows, err := d.GetAll(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows[0], nil
}

// GetValue returns the first column of the first row, or ErrNoRows.
func (d *DB) GetValue(ctx context.Context, query string, params Params) (any, error) {
	row, err := d.GetRow(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if row.Len() == 0 {
		return nil, ErrNoRows
	}
	return row.Get(row.columns[0]), nil
}

// DeleteRaw runs a DELETE statement and returns the affected row count.
func (d *DB) DeleteRaw(ctx context.Context, query string, params Params) (int64, error) {
	res, err := d.Exec(ctx, query, params)
	if err != nil {
		return 0, err
	}
	return rowsAffected(query, params, res)
}

func rowsAffected(query string, params Params, res Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, newQueryError("reading affected rows failed", query, params, err)
	}
	return n, nil
}

// compile rewrites :name placeholders to ? and returns the driver args in
// placeholder order. Quoted strings, backtick identifiers, comments and
// :: casts are left alone.
func compile(query string, params Params) (string, []any, error) {
	var (
		b          strings.Builder
		names      []string
		positional int
	)
	b.Grow(len(query))
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			end := skipQuoted(query, i)
			b.WriteString(query[i:end])
			i = end - 1
		case c == '-' && strings.HasPrefix(query[i:], "-- "), c == '#':
			end := strings.IndexByte(query[i:], '\n')
			if end < 0 {
				end = len(query) - i
			}
			b.WriteString(query[i : i+end])
			i += end - 1
		case c == '/' && strings.HasPrefix(query[i:], "/*"):
			end := strings.Index(query[i+2:], "*/")
			if end < 0 {
				end = len(query) - i
			} else {
				end += 4
			}
			b.WriteString(query[i : i+end])
			i += end - 1
		case c == ':' && i+1 < len(query) && query[i+1] == ':':
			b.WriteString("::")
			i++
		case c == ':' && i+1 < len(query) && isNameStart(query[i+1]):
			j := i + 1
			for j < len(query) && isNameChar(query[j]) {
				j++
			}
			names = append(names, query[i+1:j])
			b.WriteByte('?')
			i = j - 1
		case c == '?':
			positional++
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	if len(names) > 0 && positional > 0 {
		return "", nil, errors.New("mixing named and positional placeholders")
	}
	args := make([]any, 0, len(names)+positional)
	for _, name := range names {
		v, ok := params[name]
		if !ok {
			v, ok = params[":"+name]
		}
		if !ok {
			return "", nil, fmt.Errorf("missing value for parameter :%s", name)
		}
		args = append(args, v.Arg())
	}
	if positional > 0 {
		byPos := make(map[int]Value, len(params))
		for k, v := range params {
			if n, ok := position(k); ok {
				byPos[n] = v
			}
		}
		for n := 1; n <= positional; n++ {
			v, ok := byPos[n]
			if !ok {
				return "", nil, fmt.Errorf("missing value for placeholder %d", n)
			}
			args = append(args, v.Arg())
		}
	}
	return b.String(), args, nil
}

// skipQuoted returns the index just past the quoted section starting at i.
// Doubled quotes and backslash escapes (except in identifiers) stay inside.
func skipQuoted(s string, i int) int {
	q := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			if q != '`' {
				j++
			}
		case q:
			if j+1 < len(s) && s[j+1] == q {
				j++
				continue
			}
			return j + 1
		}
	}
	return len(s)
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}
