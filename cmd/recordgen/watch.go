package main

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func (a *app) watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever a snapshot file changes",
		Long: `Watch generates from --snapshot-in once, then again every time the file
is written, until interrupted. Failed runs are logged and watching goes on.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.v.GetString("snapshot-in")
			if path == "" {
				return errors.New("watch: --snapshot-in is required")
			}
			rebuild := func(ctx context.Context) error {
				tables, err := a.loadTables(ctx, nil)
				if err != nil {
					return err
				}
				return a.generate(ctx, tables)
			}
			if err := rebuild(cmd.Context()); err != nil {
				return err
			}
			return a.watch(cmd.Context(), path, rebuild)
		},
	}
	generateFlags(cmd)
	cmd.Flags().String("snapshot-in", "", "snapshot file to watch")
	return cmd
}

// watch calls rebuild after every write to path until ctx is done. The
// parent directory is watched so that editors replacing the file by rename
// are noticed.
func (a *app) watch(ctx context.Context, path string, rebuild func(context.Context) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "starting watcher")
	}
	defer w.Close()
	target := filepath.Clean(path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return errors.Wrapf(err, "watching %s", path)
	}
	a.log.Info("watching", "file", target)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			a.log.Debug("snapshot changed", "file", ev.Name, "op", ev.Op.String())
			if err := rebuild(ctx); err != nil {
				a.log.Error("regeneration failed", "error", err)
				continue
			}
			a.log.Info("regenerated", "file", target)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.log.Warn("watcher error", "error", err)
		}
	}
}
