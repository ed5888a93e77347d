package load

import (
	"context"
	"fmt"

	"github.com/syssam/recordgen/dialect/sql"
)

// Querier is the part of *sql.DB the introspector needs.
type Querier interface {
	GetAll(ctx context.Context, query string, params sql.Params) ([]*sql.Row, error)
}

var _ Querier = (*sql.DB)(nil)

// Introspect lists the tables of the connected database with SHOW TABLES
// and describes each one with DESC. Tables come back in server order.
func Introspect(ctx context.Context, db Querier) ([]*Table, error) {
	rows, err := db.GetAll(ctx, "SHOW TABLES", nil)
	if err != nil {
		return nil, fmt.Errorf("load: list tables: %w", err)
	}
	tables := make([]*Table, 0, len(rows))
	for _, row := range rows {
		cols := row.Columns()
		if len(cols) == 0 {
			continue
		}
		t, err := Describe(ctx, db, row.String(cols[0]))
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// Describe runs DESC for a single table.
func Describe(ctx context.Context, db Querier, name string) (*Table, error) {
	rows, err := db.GetAll(ctx, "DESC "+sql.QuoteIdentifier(name), nil)
	if err != nil {
		return nil, fmt.Errorf("load: describe %s: %w", name, err)
	}
	t := &Table{Name: name, Columns: make([]*Column, 0, len(rows))}
	for _, row := range rows {
		c := &Column{
			Field: row.String("Field"),
			Type:  row.String("Type"),
			Null:  row.String("Null"),
			Key:   row.String("Key"),
			Extra: row.String("Extra"),
		}
		if !row.IsNull("Default") {
			def := row.String("Default")
			c.Default = &def
		}
		t.Columns = append(t.Columns, c)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
