package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/recordgen/compiler/gen"
)

// model holds the qualified names shared by the model methods.
type model struct {
	t         *gen.Type
	sqlPkg    string
	schemaPkg string
}

func (m model) sql(name string) *jen.Statement    { return jen.Qual(m.sqlPkg, name) }
func (m model) schema(name string) *jen.Statement { return jen.Qual(m.schemaPkg, name) }

// column returns the qualified column constant of fd.
func (m model) column(fd *gen.Field) *jen.Statement { return m.schema(fd.Constant(m.t)) }

// field returns m.{Table}Schema.{Field}.
func (m model) field(fd *gen.Field) *jen.Statement {
	return jen.Id("m").Dot(m.t.SchemaName()).Dot(fd.Name)
}

// ctx returns the context parameter.
func ctx() *jen.Statement { return jen.Id("ctx").Qual("context", "Context") }

// ifErr returns "if err != nil { return results... }".
func ifErr(results ...jen.Code) *jen.Statement {
	return jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(results...))
}

// zero returns the zero value literal of a non-pointer field.
func zero(fd *gen.Field) jen.Code {
	switch fd.Kind {
	case gen.KindInt, gen.KindFloat:
		return jen.Lit(0)
	default:
		return jen.Lit("")
	}
}

// genModel generates the dbmodel file of a table.
func genModel(h gen.GeneratorHelper, t *gen.Type) *jen.File {
	f := h.NewFile(gen.LayerModel)
	m := model{t: t, sqlPkg: h.PkgPath(gen.LayerSQL), schemaPkg: h.PkgPath(gen.LayerSchema)}
	name := t.ModelName()
	recv := jen.Id("m").Op("*").Id(name)

	f.Commentf("%s is an active record of the %s table.", name, t.Table)
	f.Type().Id(name).Struct(
		m.schema(t.SchemaName()),
		jen.Id("db").Op("*").Add(m.sql("DB")),
	)

	f.Commentf("New%s returns an empty record bound to db.", name)
	f.Func().Id("New"+name).Params(jen.Id("db").Op("*").Add(m.sql("DB"))).Op("*").Id(name).Block(
		jen.Return(jen.Op("&").Id(name).Values(jen.Dict{jen.Id("db"): jen.Id("db")})),
	)

	f.Commentf("Load%s returns the record whose %s is id, or sql.ErrNoRows.", name, t.ID.Column)
	f.Func().Id("Load"+name).Params(ctx(), jen.Id("db").Op("*").Add(m.sql("DB")), jen.Id("id").Add(t.ID.BaseType())).
		Params(jen.Op("*").Id(name), jen.Error()).Block(
		jen.Id("m").Op(":=").Id("New"+name).Call(jen.Id("db")),
		jen.If(jen.Err().Op(":=").Id("m").Dot("Spawn").Call(jen.Id("ctx"), jen.Id("id")), jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Nil(), jen.Err()),
		),
		jen.Return(jen.Id("m"), jen.Nil()),
	)

	if guid := t.GUID(); guid != nil {
		genResolveGUID(f, m, guid)
	}

	f.Comment("DB returns the handle the record is bound to.")
	f.Func().Params(recv.Clone()).Id("DB").Params().Op("*").Add(m.sql("DB")).Block(
		jen.Return(jen.Id("m").Dot("db")),
	)

	for _, fd := range t.Fields {
		genAccessors(f, m, recv, fd)
	}
	genSpawn(f, m, recv)
	genInsert(f, m, recv)
	genSync(f, m, recv)
	genSave(f, m, recv)
	genUpdate(f, m, recv)
	genKey(f, m, recv)
	return f
}

// genResolveGUID generates Resolve{Table}GUID and Load{Table}ModelByGUID.
func genResolveGUID(f *jen.File, m model, guid *gen.Field) {
	t := m.t
	name := t.ModelName()
	fn := "Resolve" + t.Name + "GUID"
	f.Commentf("%s returns the %s of the record whose %s is guid, or", fn, t.ID.Column, guid.Column)
	f.Comment("sql.ErrNoRows.")
	f.Func().Id(fn).Params(ctx(), jen.Id("db").Op("*").Add(m.sql("DB")), jen.Id("guid").String()).
		Params(t.ID.BaseType(), jen.Error()).Block(
		jen.List(jen.Id("query"), jen.Id("params")).Op(":=").Add(m.sql("SelectSQL")).Call(
			m.schema(t.TableConst()),
			m.sql("Match").Call(jen.Map(jen.String()).Add(m.sql("Value")).Values(jen.Dict{
				m.column(guid): m.sql("Text").Call(jen.Id("guid")),
			})),
			m.sql("Columns").Call(m.column(t.ID)),
			m.sql("Limit").Call(jen.Lit("1")),
		),
		jen.List(jen.Id("row"), jen.Err()).Op(":=").Id("db").Dot("GetRow").Call(jen.Id("ctx"), jen.Id("query"), jen.Id("params")),
		ifErr(zero(t.ID), jen.Err()),
		jen.Return(jen.Id("row").Dot(t.ID.RowGetter()).Call(m.column(t.ID)), jen.Nil()),
	)

	f.Commentf("Load%sByGUID returns the record whose %s is guid, or sql.ErrNoRows.", name, guid.Column)
	f.Func().Id("Load"+name+"ByGUID").Params(ctx(), jen.Id("db").Op("*").Add(m.sql("DB")), jen.Id("guid").String()).
		Params(jen.Op("*").Id(name), jen.Error()).Block(
		jen.List(jen.Id("id"), jen.Err()).Op(":=").Id(fn).Call(jen.Id("ctx"), jen.Id("db"), jen.Id("guid")),
		ifErr(jen.Nil(), jen.Err()),
		jen.Return(jen.Id("Load"+name).Call(jen.Id("ctx"), jen.Id("db"), jen.Id("id"))),
	)
}

// genAccessors generates the getter and the persisting setter of a column.
func genAccessors(f *jen.File, m model, recv *jen.Statement, fd *gen.Field) {
	f.Commentf("%s returns the %s column.", fd.Getter(), fd.Column)
	f.Func().Params(recv.Clone()).Id(fd.Getter()).Params().Add(fd.GoType()).Block(
		jen.Return(m.field(fd)),
	)

	f.Commentf("%s writes v to the %s column of the stored row, then to m.", fd.Setter(), fd.Column)
	f.Func().Params(recv.Clone()).Id(fd.Setter()).Params(ctx(), jen.Id("v").Add(fd.GoType())).Error().Block(
		jen.List(jen.Id("_"), jen.Err()).Op(":=").Id("m").Dot("Update").Call(
			jen.Id("ctx"), m.column(fd), m.sql(fd.ValueFunc()).Call(jen.Id("v")),
		),
		jen.Return(jen.Err()),
	)
}

// genSpawn generates Spawn, loading a row by key.
func genSpawn(f *jen.File, m model, recv *jen.Statement) {
	t := m.t
	f.Commentf("Spawn loads the row whose %s is id into m, or returns sql.ErrNoRows.", t.ID.Column)
	f.Func().Params(recv.Clone()).Id("Spawn").Params(ctx(), jen.Id("id").Add(t.ID.BaseType())).Error().Block(
		jen.List(jen.Id("query"), jen.Id("params")).Op(":=").Add(m.sql("SelectSQL")).Call(
			m.schema(t.TableConst()),
			m.sql("Match").Call(jen.Map(jen.String()).Add(m.sql("Value")).Values(jen.Dict{
				m.column(t.ID): m.sql(t.ID.BaseValueFunc()).Call(jen.Id("id")),
			})),
			m.sql("Columns").Call(m.schema(t.ColumnsVar()).Op("...")),
			m.sql("Limit").Call(jen.Lit("1")),
		),
		jen.List(jen.Id("row"), jen.Err()).Op(":=").Id("m").Dot("db").Dot("GetRow").Call(jen.Id("ctx"), jen.Id("query"), jen.Id("params")),
		ifErr(jen.Err()),
		jen.Id("m").Dot(t.SchemaName()).Op("=").Add(m.schema(t.ScanFunc())).Call(jen.Id("row")),
		jen.Return(jen.Nil()),
	)
}

// genInsert generates Insert. An auto-increment key is left to the
// database and read back; an empty guid is filled first.
func genInsert(f *jen.File, m model, recv *jen.Statement) {
	t := m.t
	autoID := t.ID.AutoIncrement
	switch {
	case autoID && t.GUID() != nil:
		f.Commentf("Insert adds m as a new row, filling an empty %s with a new GUID, and", t.GUID().Column)
		f.Commentf("sets %s from the generated id. It returns the generated id.", t.ID.Column)
	case autoID:
		f.Commentf("Insert adds m as a new row and sets %s from the generated id. It", t.ID.Column)
		f.Comment("returns the generated id.")
	case t.GUID() != nil:
		f.Commentf("Insert adds m as a new row, filling an empty %s with a new GUID. It", t.GUID().Column)
		f.Comment("returns the id reported by the driver.")
	default:
		f.Comment("Insert adds m as a new row. It returns the id reported by the driver.")
	}
	f.Func().Params(recv.Clone()).Id("Insert").Params(ctx()).Params(jen.Int64(), jen.Error()).BlockFunc(func(g *jen.Group) {
		if guid := t.GUID(); guid != nil {
			if guid.Nullable {
				g.If(m.field(guid).Op("==").Nil().Op("||").Op("*").Add(m.field(guid)).Op("==").Lit("")).Block(
					jen.Id("guid").Op(":=").Add(m.sql("NewGUID")).Call(),
					m.field(guid).Op("=").Op("&").Id("guid"),
				)
			} else {
				g.If(m.field(guid).Op("==").Lit("")).Block(
					m.field(guid).Op("=").Add(m.sql("NewGUID")).Call(),
				)
			}
		}
		g.Id("values").Op(":=").Add(m.schema(t.ValuesFunc())).Call(jen.Op("&").Id("m").Dot(t.SchemaName()))
		if autoID {
			g.Id("delete").Call(jen.Id("values"), m.column(t.ID))
		}
		g.List(jen.Id("id"), jen.Err()).Op(":=").Id("m").Dot("db").Dot("Insert").Call(
			jen.Id("ctx"), m.schema(t.TableConst()), jen.Id("values"),
		)
		g.Add(ifErr(jen.Lit(0), jen.Err()))
		if autoID {
			switch t.ID.Kind {
			case gen.KindInt:
				g.Add(m.field(t.ID)).Op("=").Id("id")
			case gen.KindFloat:
				g.Add(m.field(t.ID)).Op("=").Float64().Call(jen.Id("id"))
			}
		}
		g.Return(jen.Id("id"), jen.Nil())
	})
}

// genSync generates SyncToDatabase, writing every non-key column.
func genSync(f *jen.File, m model, recv *jen.Statement) {
	t := m.t
	f.Commentf("SyncToDatabase writes every column of m but %s to the stored row and", t.ID.Column)
	f.Comment("returns the affected row count.")
	f.Func().Params(recv.Clone()).Id("SyncToDatabase").Params(ctx()).Params(jen.Int64(), jen.Error()).Block(
		jen.Id("values").Op(":=").Add(m.schema(t.ValuesFunc())).Call(jen.Op("&").Id("m").Dot(t.SchemaName())),
		jen.Id("delete").Call(jen.Id("values"), m.column(t.ID)),
		jen.Return(jen.Id("m").Dot("db").Dot("Update").Call(
			jen.Id("ctx"), m.schema(t.TableConst()), jen.Id("values"), jen.Id("m").Dot("key").Call(),
		)),
	)
}

// genSave generates Save, choosing between Insert and SyncToDatabase.
func genSave(f *jen.File, m model, recv *jen.Statement) {
	t := m.t
	f.Commentf("Save inserts m when %s is unset and syncs it otherwise. It returns", t.ID.Column)
	f.Comment("the result of Insert or SyncToDatabase.")
	f.Func().Params(recv.Clone()).Id("Save").Params(ctx()).Params(jen.Int64(), jen.Error()).Block(
		jen.If(m.field(t.ID).Op("==").Add(zero(t.ID))).Block(
			jen.Return(jen.Id("m").Dot("Insert").Call(jen.Id("ctx"))),
		),
		jen.Return(jen.Id("m").Dot("SyncToDatabase").Call(jen.Id("ctx"))),
	)
}

// genUpdate generates Update, the single-column write used by setters.
func genUpdate(f *jen.File, m model, recv *jen.Statement) {
	t := m.t
	f.Comment("Update writes value to column of the stored row and, when the statement")
	f.Comment("succeeds, to m. It returns the affected row count.")
	f.Func().Params(recv.Clone()).Id("Update").Params(
		ctx(), jen.Id("column").String(), jen.Id("value").Add(m.sql("Value")),
	).Params(jen.Int64(), jen.Error()).Block(
		jen.List(jen.Id("n"), jen.Err()).Op(":=").Id("m").Dot("db").Dot("Update").Call(
			jen.Id("ctx"),
			m.schema(t.TableConst()),
			jen.Map(jen.String()).Add(m.sql("Value")).Values(jen.Dict{jen.Id("column"): jen.Id("value")}),
			jen.Id("m").Dot("key").Call(),
		),
		ifErr(jen.Lit(0), jen.Err()),
		m.schema(t.AssignFunc()).Call(
			jen.Op("&").Id("m").Dot(t.SchemaName()),
			jen.Id("column"),
			m.sql("NewRow").Call(
				jen.Index().String().Values(jen.Id("column")),
				jen.Index().Id("any").Values(jen.Id("value").Dot("Interface").Call()),
			),
		),
		jen.Return(jen.Id("n"), jen.Nil()),
	)
}

// genKey generates key, the WHERE clause selecting the stored row.
func genKey(f *jen.File, m model, recv *jen.Statement) {
	t := m.t
	f.Func().Params(recv.Clone()).Id("key").Params().Add(m.sql("Where")).Block(
		jen.Return(m.sql("Match").Call(jen.Map(jen.String()).Add(m.sql("Value")).Values(jen.Dict{
			m.column(t.ID): m.sql(t.ID.BaseValueFunc()).Call(m.field(t.ID)),
		}))),
	)
}
