package gen_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/recordgen/compiler/gen"
	"github.com/syssam/recordgen/compiler/gen/sql"
	"github.com/syssam/recordgen/compiler/load"
)

func BenchmarkGenerate(b *testing.B) {
	f, err := os.Open("../load/testdata/shop.yaml")
	require.NoError(b, err)
	tables, err := load.ReadSnapshot(f)
	require.NoError(b, err)
	require.NoError(b, f.Close())

	graph, err := gen.NewGraph(&gen.Config{
		Package: "example.com/shop/gen",
		Target:  b.TempDir(),
	}, tables...)
	require.NoError(b, err)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		err := sql.Generate(context.Background(), graph)
		require.NoError(b, err)
	}
}
