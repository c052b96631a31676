package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/san-kum/carsim/internal/logging"
)

var (
	// settings resolves process-wide options from flags and CARSIM_* env.
	settings = viper.New()
	logger   = zap.NewNop()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "carsim",
		Short:        "two-axle vehicle dynamics simulator",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// drive owns the terminal and opens its own log file
			if cmd.Name() == "drive" {
				return nil
			}
			l, err := logging.New(settings.GetString("log-level"), settings.GetString("log-format"))
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("data", ".carsim", "data directory")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("log-format", logging.FormatConsole, "log format (json, console)")

	settings.SetEnvPrefix("CARSIM")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
	_ = settings.BindPFlags(flags)

	rootCmd.AddCommand(
		newRunCmd(),
		newDriveCmd(),
		newListCmd(),
		newPlotCmd(),
		newTrackCmd(),
		newExportJSONCmd(),
		newExportCSVCmd(),
		newPresetsCmd(),
		newBenchCmd(),
		newTuneCmd(),
		newSweepCmd(),
		newMonteCarloCmd(),
		newAnalyzeCmd(),
		newExportSVGCmd(),
	)
	return rootCmd
}

func dataDir() string { return settings.GetString("data") }
