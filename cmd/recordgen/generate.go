package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/syssam/recordgen/compiler/gen"
	sqlgen "github.com/syssam/recordgen/compiler/gen/sql"
	"github.com/syssam/recordgen/compiler/load"
)

func (a *app) generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [host] [user] [pass] [dbname]",
		Short: "Generate the record packages",
		Long: `Generate describes every table (or those given with --table) and writes
the generated packages under --out. Previously generated layer directories
are removed first; other files under --out are left alone.`,
		Args: cobra.MaximumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := a.loadTables(cmd.Context(), args)
			if err != nil {
				return err
			}
			return a.generate(cmd.Context(), tables)
		},
	}
	generateFlags(cmd)
	cmd.Flags().String("snapshot-in", "", "read tables from a YAML snapshot instead of the database")
	return cmd
}

// generateFlags registers the flags controlling the output.
func generateFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("out", "o", "generated", "output directory")
	cmd.Flags().StringP("package", "p", "", "import path of the output directory")
	cmd.Flags().Int("workers", 0, "files rendered in parallel (default GOMAXPROCS)")
	cmd.Flags().StringSliceP("table", "t", nil, "generate only this table (repeatable)")
}

// generate renders tables into --out.
func (a *app) generate(ctx context.Context, tables []*load.Table) error {
	cfg, err := gen.NewConfig(
		gen.WithPackage(a.v.GetString("package")),
		gen.WithTarget(a.v.GetString("out")),
		gen.WithWorkers(a.v.GetInt("workers")),
	)
	if err != nil {
		return errors.Wrap(err, "invalid generator options")
	}
	graph, err := gen.NewGraph(cfg, tables...)
	if err != nil {
		return errors.Wrap(err, "building graph")
	}
	metrics, err := sqlgen.GenerateWithMetrics(ctx, graph)
	if err != nil {
		return errors.Wrap(err, "generating code")
	}
	a.log.Info("generated",
		"target", cfg.Target,
		"tables", len(graph.Nodes),
		"files", metrics.FilesGenerated,
		"bytes", metrics.TotalBytes,
		"render", metrics.RenderTime,
		"format", metrics.FormatTime,
		"write", metrics.WriteTime,
	)
	return nil
}
