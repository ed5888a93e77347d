package gen

import "github.com/dave/jennifer/jen"

// TypeEmitter generates the per-table files. Each method is called once per
// table, for each enabled layer.
type TypeEmitter interface {
	// GenSchema generates the row struct and column constants (dbschema/{table}.go).
	GenSchema(t *Type) *jen.File
	// GenModel generates the active-record model (dbmodel/{table}.go).
	GenModel(t *Type) *jen.File
	// GenDistrib generates the extension type (distrib/{table}.go).
	GenDistrib(t *Type) *jen.File
	// GenController generates the table-level finders (controller/{table}.go).
	GenController(t *Type) *jen.File
}

// GraphEmitter generates the files shared by all tables of a layer.
type GraphEmitter interface {
	// GenTables generates the aggregate file of a layer ({layer}/tables.go).
	GenTables(l Layer) *jen.File
	// Sources returns the database helper files written verbatim to the
	// sql layer, keyed by file name.
	Sources() (map[string][]byte, error)
}

// Emitter defines the interface for dialect-specific code generation.
//
// The generator owns planning and writing; the emitter only returns the
// files. Emitters live in their own packages and receive a GeneratorHelper,
// which keeps gen free of dialect imports:
//
//	import "github.com/syssam/recordgen/compiler/gen/sql"
//
//	generator := gen.NewJenniferGenerator(graph, outDir)
//	generator.WithEmitter(sql.NewDialect(generator))
type Emitter interface {
	// Name returns the emitter name (e.g. "mysql").
	Name() string
	TypeEmitter
	GraphEmitter
}

// GeneratorHelper provides helper methods for emitter implementations.
// JenniferGenerator implements it.
type GeneratorHelper interface {
	// NewFile creates a Jennifer file for a layer with the header comment.
	NewFile(l Layer) *jen.File
	// PkgPath returns the import path of a layer.
	PkgPath(l Layer) string
	// Graph returns the graph being generated.
	Graph() *Graph
}
