package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/syssam/recordgen/compiler/load"
)

func (a *app) snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot [host] [user] [pass] [dbname]",
		Short: "Write the table definitions to a YAML file",
		Long: `Snapshot describes the tables of the database and writes them to --file.
The file can be committed and later passed to generate or watch with
--snapshot-in, so that generation needs no database.`,
		Args: cobra.MaximumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) (rerr error) {
			tables, err := a.introspect(cmd.Context(), args)
			if err != nil {
				return err
			}
			tables, err = load.Filter(tables, a.v.GetStringSlice("table")...)
			if err != nil {
				return errors.Wrap(err, "selecting tables")
			}
			path := a.v.GetString("file")
			f, err := os.Create(path)
			if err != nil {
				return errors.Wrapf(err, "creating %s", path)
			}
			defer func() {
				if err := f.Close(); err != nil && rerr == nil {
					rerr = errors.Wrapf(err, "closing %s", path)
				}
			}()
			if err := load.WriteSnapshot(f, tables); err != nil {
				return errors.Wrapf(err, "writing %s", path)
			}
			a.log.Info("wrote snapshot", "file", path, "tables", len(tables))
			return nil
		},
	}
	cmd.Flags().StringP("file", "f", "schema.yaml", "snapshot file to write")
	cmd.Flags().StringSliceP("table", "t", nil, "include only this table (repeatable)")
	return cmd
}
