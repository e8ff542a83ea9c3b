package main

import (
	"io"

	"github.com/spf13/cobra"

	"mastermerge/internal/config"
	"mastermerge/internal/logger"
)

var configPath string

func newRootCommand() *cobra.Command {
	run := newRunCommand()

	rootCmd := &cobra.Command{
		Use:   "mastermerge",
		Short: "Merge reviewed rows from unreviewed product lists into the master workbook",
		Long: `mastermerge scans the input directory for unreviewed product workbooks,
appends every row carrying a "Qualified?" or "Notes" annotation to the
master workbook, and renames each input with an _added or _nothing marker.

Running without a subcommand is the same as "mastermerge run".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run.RunE,
	}
	rootCmd.Flags().AddFlagSet(run.Flags())

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the TOML config file")

	rootCmd.AddCommand(run)
	rootCmd.AddCommand(newScanCommand())
	rootCmd.AddCommand(newWatchCommand())

	return rootCmd
}

// setup loads the config and attaches the log file. console decides, from
// the loaded config, whether logs are echoed to stdout as well. The returned
// closer must be called once the command is done logging.
func setup(console func(*config.Config) bool) (*config.Config, io.Closer, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		return nil, nil, err
	}

	closer, err := logger.Setup(cfg.Log.File, cfg.Log.Level, console(cfg))
	if err != nil {
		return nil, nil, err
	}
	return cfg, closer, nil
}

func withConsole(on bool) func(*config.Config) bool {
	return func(*config.Config) bool { return on }
}
