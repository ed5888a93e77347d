package gen

import (
	"errors"

	"github.com/dave/jennifer/jen"
)

// mockEmitter implements Emitter for testing. Every file declares one
// constant named after the type and layer.
type mockEmitter struct {
	helper     GeneratorHelper
	sources    map[string][]byte
	sourcesErr error
	broken     bool
}

func (m *mockEmitter) Name() string { return "mock" }

func (m *mockEmitter) file(l Layer, name string) *jen.File {
	f := m.helper.NewFile(l)
	if m.broken {
		f.Func().Id(name).Op("+++")
		return f
	}
	f.Const().Id(name).Op("=").Lit(string(l))
	return f
}

func (m *mockEmitter) GenSchema(t *Type) *jen.File     { return m.file(LayerSchema, t.SchemaName()) }
func (m *mockEmitter) GenModel(t *Type) *jen.File      { return m.file(LayerModel, t.ModelName()) }
func (m *mockEmitter) GenDistrib(t *Type) *jen.File    { return m.file(LayerDistrib, t.Name) }
func (m *mockEmitter) GenController(t *Type) *jen.File { return m.file(LayerController, t.ControllerName()) }
func (m *mockEmitter) GenTables(l Layer) *jen.File     { return m.file(l, "Tables") }

func (m *mockEmitter) Sources() (map[string][]byte, error) {
	if m.sourcesErr != nil {
		return nil, m.sourcesErr
	}
	if m.sources != nil {
		return m.sources, nil
	}
	return map[string][]byte{"db.go": []byte("package sql\n")}, nil
}

var (
	_ Emitter      = (*mockEmitter)(nil)
	_ TypeEmitter  = (*mockEmitter)(nil)
	_ GraphEmitter = (*mockEmitter)(nil)

	errSources = errors.New("sources unavailable")
)
