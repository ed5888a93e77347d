package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/recordgen/compiler/gen"
)

// genSchema generates the dbschema file of a table. It declares the row
// struct and everything the other layers need to address its columns.
func genSchema(h gen.GeneratorHelper, t *gen.Type) *jen.File {
	f := h.NewFile(gen.LayerSchema)
	sqlPkg := h.PkgPath(gen.LayerSQL)

	f.Commentf("%s is the name of the %s table.", t.TableConst(), t.Table)
	f.Const().Id(t.TableConst()).Op("=").Lit(t.Table)

	f.Commentf("Columns of the %s table.", t.Table)
	f.Const().DefsFunc(func(defs *jen.Group) {
		for _, fd := range t.Fields {
			defs.Id(fd.Constant(t)).Op("=").Lit(fd.Column)
		}
	})

	f.Commentf("%s lists the columns of the %s table in table order.", t.ColumnsVar(), t.Table)
	f.Var().Id(t.ColumnsVar()).Op("=").Index().String().ValuesFunc(func(g *jen.Group) {
		for _, fd := range t.Fields {
			g.Id(fd.Constant(t))
		}
	})

	f.Commentf("%s holds one row of the %s table.", t.SchemaName(), t.Table)
	f.Type().Id(t.SchemaName()).StructFunc(func(g *jen.Group) {
		for _, fd := range t.Fields {
			g.Commentf("%s is the %s column (%s).", fd.Name, fd.Column, fd.SQLType)
			g.Id(fd.Name).Add(fd.GoType()).Tag(map[string]string{"db": fd.Column, "json": fd.Column})
		}
	})

	genScan(f, sqlPkg, t)
	genAssign(f, sqlPkg, t)
	genValues(f, sqlPkg, t)
	return f
}

// genScan generates Scan{Table}Schema.
func genScan(f *jen.File, sqlPkg string, t *gen.Type) {
	f.Commentf("%s reads a result row into a %s. Columns missing from the", t.ScanFunc(), t.SchemaName())
	f.Comment("row keep their zero value.")
	f.Func().Id(t.ScanFunc()).Params(jen.Id("row").Op("*").Qual(sqlPkg, "Row")).Id(t.SchemaName()).Block(
		jen.Var().Id("s").Id(t.SchemaName()),
		jen.For(jen.List(jen.Id("_"), jen.Id("c")).Op(":=").Range().Id("row").Dot("Columns").Call()).Block(
			jen.Id(t.AssignFunc()).Call(jen.Op("&").Id("s"), jen.Id("c"), jen.Id("row")),
		),
		jen.Return(jen.Id("s")),
	)
}

// genAssign generates Assign{Table}Column, the per-column conversion used
// by scanning and by the model setters.
func genAssign(f *jen.File, sqlPkg string, t *gen.Type) {
	f.Commentf("%s copies column from row into s. Unknown columns are ignored.", t.AssignFunc())
	f.Func().Id(t.AssignFunc()).Params(
		jen.Id("s").Op("*").Id(t.SchemaName()),
		jen.Id("column").String(),
		jen.Id("row").Op("*").Qual(sqlPkg, "Row"),
	).Block(
		jen.Switch(jen.Id("column")).BlockFunc(func(g *jen.Group) {
			for _, fd := range t.Fields {
				read := jen.Id("row").Dot(fd.RowGetter()).Call(jen.Id("column"))
				if !fd.Nullable {
					g.Case(jen.Id(fd.Constant(t))).Block(
						jen.Id("s").Dot(fd.Name).Op("=").Add(read),
					)
					continue
				}
				g.Case(jen.Id(fd.Constant(t))).Block(
					jen.If(jen.Id("row").Dot("IsNull").Call(jen.Id("column"))).Block(
						jen.Id("s").Dot(fd.Name).Op("=").Nil(),
						jen.Return(),
					),
					jen.Id("v").Op(":=").Add(read),
					jen.Id("s").Dot(fd.Name).Op("=").Op("&").Id("v"),
				)
			}
		}),
	)
}

// genValues generates {Table}Values.
func genValues(f *jen.File, sqlPkg string, t *gen.Type) {
	f.Commentf("%s returns the column values of s keyed by column name.", t.ValuesFunc())
	f.Func().Id(t.ValuesFunc()).Params(jen.Id("s").Op("*").Id(t.SchemaName())).Map(jen.String()).Qual(sqlPkg, "Value").Block(
		jen.Return(jen.Map(jen.String()).Qual(sqlPkg, "Value").Values(jen.DictFunc(func(d jen.Dict) {
			for _, fd := range t.Fields {
				d[jen.Id(fd.Constant(t))] = jen.Qual(sqlPkg, fd.ValueFunc()).Call(jen.Id("s").Dot(fd.Name))
			}
		}))),
	)
}
