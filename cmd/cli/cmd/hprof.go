package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stackfold/pkg/model"
)

var (
	hprofFlags convertFlags

	hprofOnMissingTrace string
)

// hprofCmd converts textual HPROF dumps.
var hprofCmd = &cobra.Command{
	Use:   "hprof FILE",
	Short: "Convert an HPROF CPU-samples dump into collapsed stacks",
	Long: `Convert a textual JVM HPROF dump into collapsed flame-graph stacks.

Only dumps recorded with cpu=samples are supported; cpu=times dumps are
rejected. Output lines follow the order of the CPU samples section and
are not merged across trace ids.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		foldCfg := hprofFlags.foldConfig(cmd)

		if cmd.Flags().Changed("on-missing-trace") {
			foldCfg.MissingTracePolicy = hprofOnMissingTrace
		}

		return runConversion(cmd, model.FormatHPROF, args[0], foldCfg, &hprofFlags)
	},
}

func init() {
	rootCmd.AddCommand(hprofCmd)

	hprofFlags.register(hprofCmd)
	hprofCmd.Flags().StringVar(&hprofOnMissingTrace, "on-missing-trace", "error", "What to do when a sample references an unknown trace: error or drop")
}
