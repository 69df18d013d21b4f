package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stackfold/internal/repository"
	apperrors "github.com/stackfold/pkg/errors"
	"github.com/stackfold/pkg/model"
)

var (
	historyLimit int
	historyInput string
)

// historyCmd lists recorded conversion runs.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded conversion runs",
	Long: `List conversion runs recorded in the history database, newest first.

History recording is off by default; enable it in the configuration
file (history.enabled) to have every conversion recorded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.History.Enabled {
			return apperrors.New(apperrors.CodeConfigError, "history is disabled; set history.enabled in the config file")
		}

		history, err := repository.NewHistory(&cfg.History)
		if err != nil {
			return err
		}
		defer history.Close()

		var runs []*model.ConversionRun
		if historyInput != "" {
			runs, err = history.Runs.RunsForInput(cmd.Context(), historyInput)
		} else {
			runs, err = history.Runs.RecentRuns(cmd.Context(), historyLimit)
		}
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			logger.Info("no conversion runs recorded")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTIME\tFORMAT\tINPUT\tSTACKS\tSAMPLES\tSKIPPED\tMS\tFLAGS")
		for _, run := range runs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
				run.ID,
				run.CreatedAt.Format("2006-01-02 15:04:05"),
				run.Format,
				run.InputFile,
				run.UniqueStacks,
				run.TotalSamples,
				run.Skipped,
				run.DurationMs,
				run.Flags,
			)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to list")
	historyCmd.Flags().StringVarP(&historyInput, "input", "i", "", "Only list runs for this input file")
}
