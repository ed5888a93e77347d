package gen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/syssam/recordgen/compiler/load"
)

// Graph holds the tables to generate and the configuration shared by all
// of them.
type Graph struct {
	*Config
	// Nodes are the generated types, in table order.
	Nodes []*Type
}

// Type represents one table and the information the emitters need about
// it.
type Type struct {
	// Name is the exported Go name derived from the table name.
	Name string
	// Table is the table name in the database.
	Table string
	// Fields holds all the columns, in table order. ID is one of them.
	Fields []*Field
	// ID is the primary key column: the PRI column, or the first one.
	ID *Field
	// File is the file name used for the type in every layer.
	File string
	fields map[string]*Field
}

// ReservedIdents are declared by the aggregate file of each layer.
var ReservedIdents = []string{"AllTables", "AllColumns", "AllModels", "AllRecords", "AllControllers"}

// NewGraph creates a Graph for the given tables. Tables that cannot be
// mapped to unique Go names fail with a SchemaError.
func NewGraph(c *Config, tables ...*load.Table) (*Graph, error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "config cannot be nil")
	}
	g := &Graph{Config: c}
	idents := make(map[string]string, len(ReservedIdents))
	for _, id := range ReservedIdents {
		idents[id] = "(reserved)"
	}
	files := make(map[string]string)
	for _, tbl := range tables {
		t, err := NewType(tbl)
		if err != nil {
			return nil, err
		}
		if prev, ok := files[t.File]; ok {
			return nil, NewSchemaError(t.Table, "", fmt.Sprintf("file name %s collides with table %s", t.File, prev), nil)
		}
		files[t.File] = t.Table
		for _, id := range t.Idents() {
			if prev, ok := idents[id]; ok {
				return nil, NewSchemaError(t.Table, "", fmt.Sprintf("Go name %s collides with table %s", id, prev), nil)
			}
			idents[id] = t.Table
		}
		g.Nodes = append(g.Nodes, t)
	}
	return g, nil
}

// NewType creates a type and its fields from a table description.
func NewType(tbl *load.Table) (*Type, error) {
	if err := tbl.Validate(); err != nil {
		return nil, NewSchemaError(tbl.Name, "", "", err)
	}
	name := pascal(tbl.Name)
	if name == "" {
		return nil, NewSchemaError(tbl.Name, "", "table name has no usable characters", nil)
	}
	t := &Type{
		Name:   name,
		Table:  tbl.Name,
		File:   fileName(tbl.Name),
		fields: make(map[string]*Field, len(tbl.Columns)),
	}
	pk := tbl.PrimaryKey()
	names := make(map[string]string, len(tbl.Columns))
	for _, c := range tbl.Columns {
		fname := pascal(c.Field)
		if fname == "" {
			return nil, NewSchemaError(tbl.Name, c.Field, "column name has no usable characters", nil)
		}
		if prev, ok := names[fname]; ok {
			return nil, NewSchemaError(tbl.Name, c.Field, fmt.Sprintf("Go name %s collides with column %s", fname, prev), nil)
		}
		names[fname] = c.Field
		f := &Field{
			Name:          fname,
			Column:        c.Field,
			SQLType:       c.Type,
			Kind:          TransposeSQLType(c.Type),
			Nullable:      c.Nullable(),
			AutoIncrement: c.AutoIncrement(),
			Default:       c.Default,
		}
		if c == pk {
			f.Nullable = false
			t.ID = f
		}
		t.Fields = append(t.Fields, f)
		t.fields[c.Field] = f
	}
	return t, nil
}

// Field returns the field of the given column, or nil.
func (t *Type) Field(column string) *Field { return t.fields[column] }

// GUID returns the guid column, or nil.
func (t *Type) GUID() *Field {
	for _, f := range t.Fields {
		if f.IsGUID() && f != t.ID {
			return f
		}
	}
	return nil
}

// Receiver returns the receiver name of methods on the extension type.
func (t *Type) Receiver() string { return strings.ToLower(t.Name[:1]) }

// SchemaName returns the row struct name, e.g. UsersSchema.
func (t *Type) SchemaName() string { return t.Name + "Schema" }

// TableConst returns the table name constant, e.g. UsersTable.
func (t *Type) TableConst() string { return t.Name + "Table" }

// ColumnsVar returns the column list variable, e.g. UsersColumns.
func (t *Type) ColumnsVar() string { return t.Name + "Columns" }

// ScanFunc returns the row scanner function, e.g. ScanUsersSchema.
func (t *Type) ScanFunc() string { return "Scan" + t.SchemaName() }

// AssignFunc returns the single column setter, e.g. AssignUsersColumn.
func (t *Type) AssignFunc() string { return "Assign" + t.Name + "Column" }

// ValuesFunc returns the function collecting the column values of a row
// struct, e.g. UsersValues.
func (t *Type) ValuesFunc() string { return t.Name + "Values" }

// ModelName returns the active-record struct name, e.g. UsersModel.
func (t *Type) ModelName() string { return t.Name + "Model" }

// ControllerName returns the controller struct name, e.g. UsersController.
func (t *Type) ControllerName() string { return t.Name + "Controller" }

// InsertColumns returns the fields written by Insert: every column but an
// auto-increment primary key.
func (t *Type) InsertColumns() []*Field {
	fields := make([]*Field, 0, len(t.Fields))
	for _, f := range t.Fields {
		if f == t.ID && f.AutoIncrement {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

// MutableFields returns every field but the primary key.
func (t *Type) MutableFields() []*Field {
	fields := make([]*Field, 0, len(t.Fields))
	for _, f := range t.Fields {
		if f != t.ID {
			fields = append(fields, f)
		}
	}
	return fields
}

// Idents returns the package-level identifiers the type declares across
// the generated layers.
func (t *Type) Idents() []string {
	ids := []string{
		t.TableConst(), t.ColumnsVar(), t.SchemaName(), t.ScanFunc(), t.AssignFunc(), t.ValuesFunc(),
		t.ModelName(), "New" + t.ModelName(), "Load" + t.ModelName(), "Load" + t.ModelName() + "ByGUID",
		"Resolve" + t.Name + "GUID",
		t.Name, "New" + t.Name, "Load" + t.Name,
		t.ControllerName(), "New" + t.ControllerName(),
	}
	for _, f := range t.Fields {
		ids = append(ids, f.Constant(t))
	}
	sort.Strings(ids)
	return ids
}
