package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/recordgen/compiler/gen"
)

// genTables generates the tables.go file of a layer, indexing every table
// of the graph by name. The sql layer has none and gets nil.
func genTables(h gen.GeneratorHelper, l gen.Layer) *jen.File {
	f := h.NewFile(l)
	g := h.Graph()
	schemaPkg := h.PkgPath(gen.LayerSchema)
	// Inside dbschema the constants are local; Qual drops the qualifier.
	table := func(t *gen.Type) jen.Code { return jen.Qual(schemaPkg, t.TableConst()) }

	switch l {
	case gen.LayerSchema:
		f.Comment("AllTables lists every generated table.")
		f.Var().Id("AllTables").Op("=").Index().String().ValuesFunc(func(grp *jen.Group) {
			for _, t := range g.Nodes {
				grp.Add(table(t))
			}
		})
		f.Comment("AllColumns maps every generated table to its columns.")
		f.Var().Id("AllColumns").Op("=").Map(jen.String()).Index().String().Values(jen.DictFunc(func(d jen.Dict) {
			for _, t := range g.Nodes {
				d[table(t)] = jen.Qual(schemaPkg, t.ColumnsVar())
			}
		}))
	case gen.LayerModel, gen.LayerDistrib, gen.LayerController:
		name, doc, ctor := tablesIndex(l)
		f.Comment(doc)
		f.Var().Id(name).Op("=").Map(jen.String()).Func().Params(
			jen.Id("db").Op("*").Qual(h.PkgPath(gen.LayerSQL), "DB"),
		).Id("any").Values(jen.DictFunc(func(d jen.Dict) {
			for _, t := range g.Nodes {
				d[table(t)] = jen.Func().Params(
					jen.Id("db").Op("*").Qual(h.PkgPath(gen.LayerSQL), "DB"),
				).Id("any").Block(
					jen.Return(jen.Id(ctor(t)).Call(jen.Id("db"))),
				)
			}
		}))
	default:
		return nil
	}
	return f
}

// tablesIndex returns the variable name, its doc comment and the
// constructor naming of the tables index of l.
func tablesIndex(l gen.Layer) (string, string, func(*gen.Type) string) {
	switch l {
	case gen.LayerModel:
		return "AllModels", "AllModels maps every generated table to a constructor of its model.",
			func(t *gen.Type) string { return "New" + t.ModelName() }
	case gen.LayerDistrib:
		return "AllRecords", "AllRecords maps every generated table to a constructor of its record.",
			func(t *gen.Type) string { return "New" + t.Name }
	default:
		return "AllControllers", "AllControllers maps every generated table to a constructor of its controller.",
			func(t *gen.Type) string { return "New" + t.ControllerName() }
	}
}
