package sql

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/recordgen/compiler/gen"
	"github.com/syssam/recordgen/compiler/load"
)

const testPackage = "example.com/shop/gen"

// shopTables reads the users and audit_log tables of the shared snapshot.
func shopTables(t testing.TB) []*load.Table {
	t.Helper()
	f, err := os.Open("../../load/testdata/shop.yaml")
	require.NoError(t, err)
	defer f.Close()
	tables, err := load.ReadSnapshot(f)
	require.NoError(t, err)
	return tables
}

// newTestGraph builds the shop graph targeting a temporary directory.
func newTestGraph(t testing.TB, opts ...gen.Option) *gen.Graph {
	t.Helper()
	opts = append([]gen.Option{gen.WithPackage(testPackage), gen.WithTarget(t.TempDir())}, opts...)
	cfg, err := gen.NewConfig(opts...)
	require.NoError(t, err)
	g, err := gen.NewGraph(cfg, shopTables(t)...)
	require.NoError(t, err)
	return g
}

// newTestDialect returns a dialect over the shop graph and the users and
// audit_log types.
func newTestDialect(t testing.TB) (*Dialect, *gen.Type, *gen.Type) {
	t.Helper()
	g := newTestGraph(t)
	generator := gen.NewJenniferGenerator(g, g.Target)
	return NewDialect(generator), g.Nodes[0], g.Nodes[1]
}
