package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mastermerge/internal/config"
	"mastermerge/internal/logger"
	"mastermerge/internal/merge"
	"mastermerge/internal/ui"
)

func newRunCommand() *cobra.Command {
	var (
		dryRun   bool
		progress bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Merge all pending input files into the master workbook once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd.Context(), dryRun, progress)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be merged without writing any file")
	cmd.Flags().BoolVar(&progress, "progress", false, "Show a live progress view (overrides ui.progress)")

	return cmd
}

func runMerge(ctx context.Context, dryRun, progress bool) error {
	// The progress view owns the terminal, so logs go to the file only
	cfg, closer, err := setup(func(c *config.Config) bool {
		return !progress && !c.UI.Progress
	})
	if err != nil {
		return err
	}
	defer closer.Close()
	progress = progress || cfg.UI.Progress

	logger.Info("*****mastermerge started*****")

	opts := merge.Options{DryRun: dryRun}
	var summary *merge.Summary
	if progress {
		summary, err = ui.RunWithProgress(ctx, os.Stdout, func(ctx context.Context, obs merge.Observer) (*merge.Summary, error) {
			opts.Observer = obs
			return merge.New(cfg, opts).Run(ctx)
		})
	} else {
		summary, err = merge.New(cfg, opts).Run(ctx)
	}

	if summary != nil {
		fmt.Println(ui.RenderSummary(summary))
	}

	switch {
	case errors.Is(err, context.Canceled):
		logger.Warn("Merge run interrupted")
		return err
	case err != nil:
		logger.Fatal("Merge run aborted", err)
		return err
	}

	if failed := summary.Failed(); failed > 0 {
		return fmt.Errorf("%d input file(s) could not be merged", failed)
	}
	return nil
}
