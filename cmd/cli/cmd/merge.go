package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/stackfold/internal/converter"
)

var mergeFlags convertFlags

// mergeCmd re-folds already-collapsed outputs into one aggregation.
var mergeCmd = &cobra.Command{
	Use:   "merge FILE...",
	Short: "Merge collapsed outputs of several runs",
	Long: `Merge one or more collapsed-stack files into a single sorted
aggregation, summing the counts of identical stacks. Merging a single
file is a no-op apart from sorting, so outputs can be merged safely in
any combination.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		readers := make([]io.Reader, 0, len(args))
		for _, path := range args {
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening %s: %w", path, err)
			}
			defer file.Close()
			readers = append(readers, file)
		}

		lines, stats, err := converter.Merge(cmd.Context(), readers)
		if err != nil {
			return err
		}

		out := os.Stdout
		if mergeFlags.outputPath != "" && mergeFlags.outputPath != "-" {
			file, err := os.Create(mergeFlags.outputPath)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer file.Close()
			out = file
		}

		if err := converter.Emit(cmd.Context(), out, converter.OutputFormat(mergeFlags.outputFormat), lines); err != nil {
			return err
		}

		logger.Info("merged %d files: %d unique stacks, %d samples",
			len(args), stats.UniqueStacks, stats.TotalSamples)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringVarP(&mergeFlags.outputPath, "output", "o", "", "Output file (default: stdout)")
	mergeCmd.Flags().StringVar(&mergeFlags.outputFormat, "format", "collapsed", "Output format: collapsed, json or json.gz")
}
