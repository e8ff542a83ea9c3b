package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mastermerge/internal/logger"
	"mastermerge/internal/merge"
	"mastermerge/internal/ui"
)

func newScanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "List pending input files and the master sheet they would merge into",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closer, err := setup(withConsole(false))
			if err != nil {
				return err
			}
			defer closer.Close()

			plan, err := merge.New(cfg, merge.Options{}).Plan()
			if err != nil {
				logger.Fatal("Scan failed", err)
				return err
			}

			logger.Info("Scan completed", "inputs", len(plan.Inputs), "master", plan.Master, "sheet", plan.Sheet)
			fmt.Println(ui.RenderPlan(plan))
			return nil
		},
	}
}
