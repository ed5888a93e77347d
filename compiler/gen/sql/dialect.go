package sql

import (
	"context"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/recordgen/compiler/gen"
	dbsql "github.com/syssam/recordgen/dialect/sql"
)

// Generate is a convenience function rendering g with the MySQL dialect
// into g.Target.
//
//	graph, err := gen.NewGraph(cfg, tables...)
//	if err != nil {
//		return err
//	}
//	err = sql.Generate(ctx, graph)
func Generate(ctx context.Context, g *gen.Graph) error {
	_, err := GenerateWithMetrics(ctx, g)
	return err
}

// GenerateWithMetrics is like Generate and also returns the writer metrics.
func GenerateWithMetrics(ctx context.Context, g *gen.Graph) (gen.WriterMetrics, error) {
	if g == nil || g.Config == nil || g.Target == "" {
		return gen.WriterMetrics{}, gen.NewConfigError("Target", nil, "missing target directory in config")
	}
	generator := gen.NewJenniferGenerator(g, g.Target)
	generator.WithEmitter(NewDialect(generator))
	err := generator.Generate(ctx)
	return generator.Metrics(), err
}

// Dialect implements gen.Emitter for MySQL.
type Dialect struct {
	helper gen.GeneratorHelper
}

// NewDialect creates a new MySQL emitter.
// The helper parameter should be a *gen.JenniferGenerator.
func NewDialect(helper gen.GeneratorHelper) *Dialect {
	return &Dialect{helper: helper}
}

// Name returns the dialect name.
func (d *Dialect) Name() string {
	return dbsql.MySQL
}

// GenSchema generates dbschema/{table}.go: the row struct, the table and
// column constants, and the scanning helpers.
func (d *Dialect) GenSchema(t *gen.Type) *jen.File {
	return genSchema(d.helper, t)
}

// GenModel generates dbmodel/{table}.go: the active-record model.
func (d *Dialect) GenModel(t *gen.Type) *jen.File {
	return genModel(d.helper, t)
}

// GenDistrib generates distrib/{table}.go: the extension type with Delete.
func (d *Dialect) GenDistrib(t *gen.Type) *jen.File {
	return genDistrib(d.helper, t)
}

// GenController generates controller/{table}.go: the table-level finders.
func (d *Dialect) GenController(t *gen.Type) *jen.File {
	return genController(d.helper, t)
}

// GenTables generates the aggregate tables.go of a layer.
func (d *Dialect) GenTables(l gen.Layer) *jen.File {
	return genTables(d.helper, l)
}

// Sources returns the dialect/sql files copied to the sql layer.
func (d *Dialect) Sources() (map[string][]byte, error) {
	return dbsql.Sources()
}

var _ gen.Emitter = (*Dialect)(nil)
