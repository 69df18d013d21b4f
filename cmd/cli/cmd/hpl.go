package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stackfold/pkg/model"
)

var (
	hplFlags convertFlags

	hplSkipMissingFrame bool
	hplSkipSleepFrames  bool
	hplVersion          int
)

// hplCmd converts binary HPL sampling logs.
var hplCmd = &cobra.Command{
	Use:   "hpl FILE",
	Short: "Convert an HPL sampling log into collapsed stacks",
	Long: `Convert a binary HPL sampling log into collapsed flame-graph stacks.

The input may be a local file or a cos:// key served by the configured
object storage. Identical stacks are aggregated and the output lines
are sorted, so converting the same recording twice yields identical
output.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		foldCfg := hplFlags.foldConfig(cmd)

		if cmd.Flags().Changed("skip-trace-on-missing-frame") {
			foldCfg.SkipTraceOnMissingFrame = hplSkipMissingFrame
		}
		if cmd.Flags().Changed("skip-sleep-frames") {
			foldCfg.SkipSleepFrames = hplSkipSleepFrames
		}
		if cmd.Flags().Changed("hpl-version") {
			foldCfg.HPLVersion = hplVersion
		}

		return runConversion(cmd, model.FormatHPL, args[0], foldCfg, &hplFlags)
	},
}

func init() {
	rootCmd.AddCommand(hplCmd)

	hplFlags.register(hplCmd)
	hplCmd.Flags().BoolVar(&hplSkipMissingFrame, "skip-trace-on-missing-frame", false, "Drop traces referencing undeclared methods instead of failing")
	hplCmd.Flags().BoolVar(&hplSkipSleepFrames, "skip-sleep-frames", false, "Drop traces containing java.lang.Thread.sleep")
	hplCmd.Flags().IntVar(&hplVersion, "hpl-version", 2, "HPL stream version: 1 (legacy line numbers) or 2 (extended)")
}
