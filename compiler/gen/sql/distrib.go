package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/recordgen/compiler/gen"
)

// genDistrib generates the distrib file of a table: the record type callers
// use, wrapping the model.
func genDistrib(h gen.GeneratorHelper, t *gen.Type) *jen.File {
	f := h.NewFile(gen.LayerDistrib)
	var (
		sqlPkg    = h.PkgPath(gen.LayerSQL)
		schemaPkg = h.PkgPath(gen.LayerSchema)
		modelPkg  = h.PkgPath(gen.LayerModel)
		db        = jen.Id("db").Op("*").Qual(sqlPkg, "DB")
		recv      = t.Receiver()
	)

	f.Commentf("%s is a row of the %s table.", t.Name, t.Table)
	f.Type().Id(t.Name).Struct(
		jen.Op("*").Qual(modelPkg, t.ModelName()),
	)

	f.Commentf("New%s returns an empty %s bound to db.", t.Name, t.Name)
	f.Func().Id("New"+t.Name).Params(db.Clone()).Op("*").Id(t.Name).Block(
		jen.Return(jen.Op("&").Id(t.Name).Values(jen.Qual(modelPkg, "New"+t.ModelName()).Call(jen.Id("db")))),
	)

	f.Commentf("Load%s returns the %s whose %s is id, or sql.ErrNoRows.", t.Name, t.Name, t.ID.Column)
	f.Func().Id("Load"+t.Name).Params(ctx(), db.Clone(), jen.Id("id").Add(t.ID.BaseType())).
		Params(jen.Op("*").Id(t.Name), jen.Error()).Block(
		jen.List(jen.Id("m"), jen.Err()).Op(":=").Qual(modelPkg, "Load"+t.ModelName()).Call(jen.Id("ctx"), jen.Id("db"), jen.Id("id")),
		ifErr(jen.Nil(), jen.Err()),
		jen.Return(jen.Op("&").Id(t.Name).Values(jen.Id("m")), jen.Nil()),
	)

	if guid := t.GUID(); guid != nil {
		f.Commentf("Load%sByGUID returns the %s whose %s is guid, or sql.ErrNoRows.", t.Name, t.Name, guid.Column)
		f.Func().Id("Load"+t.Name+"ByGUID").Params(ctx(), db.Clone(), jen.Id("guid").String()).
			Params(jen.Op("*").Id(t.Name), jen.Error()).Block(
			jen.List(jen.Id("m"), jen.Err()).Op(":=").Qual(modelPkg, "Load"+t.ModelName()+"ByGUID").Call(jen.Id("ctx"), jen.Id("db"), jen.Id("guid")),
			ifErr(jen.Nil(), jen.Err()),
			jen.Return(jen.Op("&").Id(t.Name).Values(jen.Id("m")), jen.Nil()),
		)
	}

	f.Commentf("Delete removes the stored row of %s and reports whether a row was", recv)
	f.Comment("deleted.")
	f.Func().Params(jen.Id(recv).Op("*").Id(t.Name)).Id("Delete").Params(ctx()).Params(jen.Bool(), jen.Error()).Block(
		jen.List(jen.Id("affected"), jen.Err()).Op(":=").Id(recv).Dot("DB").Call().Dot("DeleteFrom").Call(
			jen.Id("ctx"),
			jen.Qual(schemaPkg, t.TableConst()),
			jen.Qual(sqlPkg, "Match").Call(jen.Map(jen.String()).Qual(sqlPkg, "Value").Values(jen.Dict{
				jen.Qual(schemaPkg, t.ID.Constant(t)): jen.Qual(sqlPkg, t.ID.BaseValueFunc()).Call(jen.Id(recv).Dot(t.ID.Getter()).Call()),
			})),
		),
		ifErr(jen.False(), jen.Err()),
		jen.Return(jen.Id("affected").Op(">").Lit(0), jen.Nil()),
	)
	return f
}
