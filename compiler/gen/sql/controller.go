package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/recordgen/compiler/gen"
)

// genController generates the controller file of a table: table-wide
// creation, lookup and deletion of distrib records.
func genController(h gen.GeneratorHelper, t *gen.Type) *jen.File {
	f := h.NewFile(gen.LayerController)
	var (
		sqlPkg     = h.PkgPath(gen.LayerSQL)
		schemaPkg  = h.PkgPath(gen.LayerSchema)
		distribPkg = h.PkgPath(gen.LayerDistrib)
		name       = t.ControllerName()
		recv       = jen.Id("c").Op("*").Id(name)
		record     = jen.Op("*").Qual(distribPkg, t.Name)
		records    = jen.Index().Op("*").Qual(distribPkg, t.Name)
		valueMap   = jen.Map(jen.String()).Qual(sqlPkg, "Value")
	)

	f.Commentf("%s creates, finds and deletes %s records.", name, t.Table)
	f.Type().Id(name).Struct(
		jen.Id("db").Op("*").Qual(sqlPkg, "DB"),
	)

	f.Commentf("New%s returns a controller bound to db.", name)
	f.Func().Id("New"+name).Params(jen.Id("db").Op("*").Qual(sqlPkg, "DB")).Op("*").Id(name).Block(
		jen.Return(jen.Op("&").Id(name).Values(jen.Dict{jen.Id("db"): jen.Id("db")})),
	)

	f.Comment("Create inserts a record built from data, keyed by column name, and")
	f.Comment("returns it. Unknown columns are ignored.")
	f.Func().Params(recv.Clone()).Id("Create").Params(ctx(), jen.Id("data").Add(valueMap.Clone())).
		Params(record.Clone(), jen.Error()).Block(
		jen.Id("r").Op(":=").Qual(distribPkg, "New"+t.Name).Call(jen.Id("c").Dot("db")),
		jen.For(jen.List(jen.Id("column"), jen.Id("value")).Op(":=").Range().Id("data")).Block(
			jen.Qual(schemaPkg, t.AssignFunc()).Call(
				jen.Op("&").Id("r").Dot(t.SchemaName()),
				jen.Id("column"),
				jen.Qual(sqlPkg, "NewRow").Call(
					jen.Index().String().Values(jen.Id("column")),
					jen.Index().Id("any").Values(jen.Id("value").Dot("Interface").Call()),
				),
			),
		),
		jen.If(jen.List(jen.Id("_"), jen.Err()).Op(":=").Id("r").Dot("Insert").Call(jen.Id("ctx")), jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Nil(), jen.Err()),
		),
		jen.Return(jen.Id("r"), jen.Nil()),
	)

	f.Commentf("GetAll returns every %s record.", t.Table)
	f.Func().Params(recv.Clone()).Id("GetAll").Params(ctx()).Params(records.Clone(), jen.Error()).Block(
		jen.List(jen.Id("rows"), jen.Err()).Op(":=").Id("c").Dot("db").Dot("Select").Call(
			jen.Id("ctx"),
			jen.Qual(schemaPkg, t.TableConst()),
			jen.Nil(),
			jen.Qual(sqlPkg, "Columns").Call(jen.Qual(schemaPkg, t.ColumnsVar()).Op("...")),
		),
		ifErr(jen.Nil(), jen.Err()),
		jen.Return(jen.Id("c").Dot("wrap").Call(jen.Id("rows")), jen.Nil()),
	)

	f.Commentf("GetByField returns the %s records whose field equals value. A Null", t.Table)
	f.Comment("value matches NULL.")
	f.Func().Params(recv.Clone()).Id("GetByField").Params(
		ctx(), jen.Id("field").String(), jen.Id("value").Qual(sqlPkg, "Value"),
	).Params(records.Clone(), jen.Error()).Block(
		jen.List(jen.Id("rows"), jen.Err()).Op(":=").Id("c").Dot("db").Dot("Select").Call(
			jen.Id("ctx"),
			jen.Qual(schemaPkg, t.TableConst()),
			jen.Qual(sqlPkg, "Match").Call(valueMap.Clone().Values(jen.Dict{jen.Id("field"): jen.Id("value")})),
			jen.Qual(sqlPkg, "Columns").Call(jen.Qual(schemaPkg, t.ColumnsVar()).Op("...")),
		),
		ifErr(jen.Nil(), jen.Err()),
		jen.Return(jen.Id("c").Dot("wrap").Call(jen.Id("rows")), jen.Nil()),
	)

	f.Comment("Delete removes the stored row of r and reports whether a row was")
	f.Comment("deleted. A nil r deletes nothing.")
	f.Func().Params(recv.Clone()).Id("Delete").Params(ctx(), jen.Id("r").Add(record.Clone())).Params(jen.Bool(), jen.Error()).Block(
		jen.If(jen.Id("r").Op("==").Nil()).Block(
			jen.Return(jen.False(), jen.Nil()),
		),
		jen.Return(jen.Id("r").Dot("Delete").Call(jen.Id("ctx"))),
	)

	f.Func().Params(recv.Clone()).Id("wrap").Params(jen.Id("rows").Index().Op("*").Qual(sqlPkg, "Row")).Add(records.Clone()).Block(
		jen.Id("out").Op(":=").Make(records.Clone(), jen.Lit(0), jen.Len(jen.Id("rows"))),
		jen.For(jen.List(jen.Id("_"), jen.Id("row")).Op(":=").Range().Id("rows")).Block(
			jen.Id("r").Op(":=").Qual(distribPkg, "New"+t.Name).Call(jen.Id("c").Dot("db")),
			jen.Id("r").Dot(t.SchemaName()).Op("=").Qual(schemaPkg, t.ScanFunc()).Call(jen.Id("row")),
			jen.Id("out").Op("=").Append(jen.Id("out"), jen.Id("r")),
		),
		jen.Return(jen.Id("out")),
	)
	return f
}
