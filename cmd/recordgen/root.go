package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syssam/recordgen/compiler/load"
	"github.com/syssam/recordgen/dialect"
	"github.com/syssam/recordgen/dialect/sql"
)

// envPrefix prefixes the environment variables bound to flags, e.g.
// RECORDGEN_PACKAGE for --package.
const envPrefix = "RECORDGEN"

// app carries the state shared by the commands.
type app struct {
	v      *viper.Viper
	log    *slog.Logger
	stderr io.Writer
	// opts are appended to the connection options; tests replace the opener.
	opts []sql.Option
}

func newRootCmd() *cobra.Command {
	return newApp().rootCmd()
}

func newApp() *app {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &app{v: v, log: slog.Default(), stderr: os.Stderr}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "recordgen",
		Short: "Generate active-record packages from MySQL tables",
		Long: `recordgen describes the tables of a MySQL database, or reads them from a
YAML snapshot, and writes one Go file per table into the dbschema, dbmodel,
distrib and controller packages, plus a copy of the database helper in sql.

Connection parameters are taken from the positional arguments, then the
ini file given by --config, then the DB_* environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.v.BindPFlags(cmd.Flags()); err != nil {
				return errors.Wrap(err, "binding flags")
			}
			a.setupLogger()
			return nil
		},
	}
	root.SetErr(a.stderr)
	root.PersistentFlags().String("config", sql.DefaultConfigFile, "database ini file")
	root.PersistentFlags().Bool("verbose", false, "enable verbose output")
	root.PersistentFlags().Bool("debug", false, "enable debug output, including every statement")
	root.AddCommand(a.generateCmd(), a.snapshotCmd(), a.watchCmd())
	return root
}

func (a *app) setupLogger() {
	level := slog.LevelWarn
	switch {
	case a.v.GetBool("debug"):
		level = slog.LevelDebug
	case a.v.GetBool("verbose"):
		level = slog.LevelInfo
	}
	a.log = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
}

// connect opens the database named by the positional arguments
// [host] [user] [pass] [dbname]. Missing or empty arguments fall through to
// the config file and the environment.
func (a *app) connect(ctx context.Context, args []string) (*sql.DB, error) {
	arg := func(i int) *string {
		if i < len(args) && args[i] != "" {
			return &args[i]
		}
		return nil
	}
	opts := append([]sql.Option{
		sql.WithConfigFile(a.v.GetString("config")),
		sql.WithLogger(a.log),
	}, a.opts...)
	db, err := sql.Connect(ctx, arg(0), arg(3), arg(1), arg(2), opts...)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}
	return db, nil
}

// loadTables reads the tables from the --snapshot-in file when set, or
// from the database, and keeps those named by --table.
func (a *app) loadTables(ctx context.Context, args []string) ([]*load.Table, error) {
	var (
		tables []*load.Table
		err    error
	)
	if path := a.v.GetString("snapshot-in"); path != "" {
		tables, err = readSnapshot(path)
	} else {
		tables, err = a.introspect(ctx, args)
	}
	if err != nil {
		return nil, err
	}
	tables, err = load.Filter(tables, a.v.GetStringSlice("table")...)
	if err != nil {
		return nil, errors.Wrap(err, "selecting tables")
	}
	a.log.Info("loaded tables", "count", len(tables))
	return tables, nil
}

func (a *app) introspect(ctx context.Context, args []string) (_ []*load.Table, rerr error) {
	db, err := a.connect(ctx, args)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := db.Close(); err != nil && rerr == nil {
			rerr = errors.Wrap(err, "closing database")
		}
	}()
	if !dialect.Supported(db.Dialect()) {
		return nil, errors.Errorf("cannot describe tables of a %s database", db.Dialect())
	}
	tables, err := load.Introspect(ctx, db)
	if err != nil {
		return nil, errors.Wrap(err, "describing tables")
	}
	return tables, nil
}

func readSnapshot(path string) ([]*load.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening snapshot %s", path)
	}
	defer f.Close()
	tables, err := load.ReadSnapshot(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading snapshot %s", path)
	}
	return tables, nil
}
