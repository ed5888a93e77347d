package gen

import (
	"strings"

	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/schema"
	"github.com/dave/jennifer/jen"
)

// Kind is the scalar a column maps to in generated code.
type Kind uint8

// Column kinds.
const (
	KindString Kind = iota
	KindInt
	KindFloat
)

// String returns the Go type of the kind.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int64"
	case KindFloat:
		return "float64"
	default:
		return "string"
	}
}

// Field holds the information of a table column used by the emitters.
type Field struct {
	// Name is the exported Go name of the column.
	Name string
	// Column is the column name in the database.
	Column string
	// SQLType is the raw column type as reported by DESC.
	SQLType string
	// Kind is the scalar the column maps to.
	Kind Kind
	// Nullable columns are pointers in the generated structs.
	Nullable bool
	// AutoIncrement is set for columns filled by the database on insert.
	AutoIncrement bool
	// Default is the column default, if any.
	Default *string
}

// Constant returns the name of the column constant in the schema layer,
// e.g. UsersColumnName.
func (f *Field) Constant(t *Type) string { return t.Name + "Column" + f.Name }

// Getter returns the model getter name.
func (f *Field) Getter() string { return "Get" + f.Name }

// Setter returns the model setter name.
func (f *Field) Setter() string { return "Set" + f.Name }

// IsGUID reports whether the column holds the row GUID.
func (f *Field) IsGUID() bool {
	return strings.EqualFold(f.Column, "guid") && f.Kind == KindString
}

// GoType returns the Go type of the struct field.
func (f *Field) GoType() jen.Code {
	if f.Nullable {
		return jen.Op("*").Add(f.BaseType())
	}
	return f.BaseType()
}

// BaseType returns the Go type without the pointer of nullable columns.
func (f *Field) BaseType() jen.Code {
	return jen.Id(f.Kind.String())
}

// ValueFunc returns the name of the helper constructor turning the struct
// field into a bound value, e.g. "Int" or "TextPtr".
func (f *Field) ValueFunc() string {
	name := f.BaseValueFunc()
	if f.Nullable {
		name += "Ptr"
	}
	return name
}

// BaseValueFunc is ValueFunc for the non-pointer type.
func (f *Field) BaseValueFunc() string {
	switch f.Kind {
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	default:
		return "Text"
	}
}

// RowGetter returns the result row accessor reading the column.
func (f *Field) RowGetter() string {
	switch f.Kind {
	case KindInt:
		return "Int64"
	case KindFloat:
		return "Float64"
	default:
		return "String"
	}
}

// TransposeSQLType maps a MySQL column type to a Kind. Integers and
// booleans map to KindInt, fixed and floating point numbers to KindFloat
// and everything else to KindString.
func TransposeSQLType(raw string) Kind {
	t, err := mysql.ParseType(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return transposeBase(raw)
	}
	switch t.(type) {
	case *schema.IntegerType, *schema.BoolType:
		return KindInt
	case *schema.DecimalType, *schema.FloatType:
		return KindFloat
	case *schema.UnsupportedType:
		return transposeBase(raw)
	default:
		return KindString
	}
}

// transposeBase maps a type by the name before its first parenthesis.
func transposeBase(raw string) Kind {
	base, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(raw)), "(")
	base, _, _ = strings.Cut(base, " ")
	switch base {
	case "int", "integer", "bigint", "tinyint", "smallint", "mediumint", "bool", "boolean":
		return KindInt
	case "decimal", "numeric", "float", "double", "real":
		return KindFloat
	default:
		return KindString
	}
}
