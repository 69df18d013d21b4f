// Package cmd implements the stackfold command line interface.
package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stackfold/pkg/config"
	"github.com/stackfold/pkg/telemetry"
	"github.com/stackfold/pkg/utils"
)

var (
	// Global flags
	verbose bool
	cfgFile string

	cfg    *config.Config
	logger utils.Logger

	telemetryShutdown telemetry.ShutdownFunc
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "stackfold",
	Short: "Convert profiler outputs into collapsed flame-graph stacks",
	Long: `stackfold converts Java profiler outputs into the collapsed stack
format consumed by flamegraph.pl and similar tools.

It reads binary HPL sampling logs and textual HPROF dumps recorded in
CPU sampling mode, folds every sampled call stack into a single line
and aggregates identical stacks into sample counts. Diagnostics go to
stderr; the folded stacks go to stdout or a file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Diagnostics stay on stderr, folded output owns stdout.
		logLevel := utils.LevelInfo
		if verbose {
			logLevel = utils.LevelDebug
		}
		logger = utils.NewDefaultLogger(logLevel, os.Stderr)
		utils.SetGlobalLogger(logger)

		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded

		if lvl := cfg.Log.Level; lvl != "" && !verbose {
			logger = utils.NewDefaultLogger(utils.ParseLogLevel(lvl), os.Stderr)
			utils.SetGlobalLogger(logger)
		}

		shutdown, err := telemetry.Init(cmd.Context())
		if err != nil {
			logger.Warn("telemetry init failed: %v", err)
			shutdown = func(context.Context) error { return nil }
		}
		telemetryShutdown = shutdown

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if telemetryShutdown != nil {
			return telemetryShutdown(cmd.Context())
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("%v", err)
		} else {
			rootCmd.PrintErrln("Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: stackfold.yaml in ., ~/.config/stackfold, /etc/stackfold)")

	binName := BinName()
	rootCmd.Example = `  # Convert an HPL sampling log
  ` + binName + ` hpl recording.hpl > collapsed.txt

  # Convert an HPROF dump, dropping line numbers and thread names
  ` + binName + ` hprof --discard-lineno --discard-thread output.hprof.txt

  # Merge the collapsed outputs of several runs
  ` + binName + ` merge run1.txt run2.txt > merged.txt

  # Emit a flame graph tree as JSON instead of collapsed text
  ` + binName + ` hpl --format json recording.hpl > flame.json`
}

// GetLogger returns the configured logger.
func GetLogger() utils.Logger {
	return logger
}

// BinName returns the base name of the current executable.
func BinName() string {
	return filepath.Base(os.Args[0])
}
