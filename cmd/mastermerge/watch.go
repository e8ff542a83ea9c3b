package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mastermerge/internal/logger"
	"mastermerge/internal/merge"
	"mastermerge/internal/ui"
	"mastermerge/internal/watch"
)

func newWatchCommand() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Merge now, then again whenever new input files arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closer, err := setup(withConsole(true))
			if err != nil {
				return err
			}
			defer closer.Close()

			runOnce := func(ctx context.Context) error {
				summary, err := merge.New(cfg, merge.Options{}).Run(ctx)
				if summary != nil && len(summary.Files) > 0 {
					fmt.Println(ui.RenderSummary(summary))
				}
				return err
			}

			// A missing master may be restored later, so keep watching
			if err := runOnce(cmd.Context()); err != nil {
				logger.Error("Initial merge run failed", "error", err)
			}

			w, err := watch.New(watch.Config{
				Directory: cfg.Paths.InputDirectory,
				Extension: cfg.Merge.Extension,
				Markers:   cfg.Merge.ProcessedMarkers,
				Debounce:  debounce,
			}, runOnce)
			if err != nil {
				logger.Fatal("Failed to start watcher", err)
				return err
			}

			if err := w.Start(cmd.Context()); err != nil {
				logger.Fatal("Watcher stopped", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 2*time.Second, "Quiet period after the last file event before merging")

	return cmd
}
