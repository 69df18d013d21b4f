package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stackfold/internal/converter"
	"github.com/stackfold/internal/repository"
	"github.com/stackfold/internal/storage"
	"github.com/stackfold/pkg/config"
	"github.com/stackfold/pkg/model"
)

// convertFlags holds the flags shared by the hpl and hprof commands.
type convertFlags struct {
	discardLineno bool
	discardThread bool
	shortenPkgs   bool

	outputPath   string
	outputFormat string
}

func (f *convertFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.discardLineno, "discard-lineno", false, "Remove line numbers")
	cmd.Flags().BoolVar(&f.discardThread, "discard-thread", false, "Remove thread info")
	cmd.Flags().BoolVar(&f.shortenPkgs, "shorten-pkgs", false, "Shorten package names")
	cmd.Flags().StringVarP(&f.outputPath, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&f.outputFormat, "format", "collapsed", "Output format: collapsed, json or json.gz")
}

// foldConfig merges config-file defaults with the flags set on the
// command line; explicit flags win.
func (f *convertFlags) foldConfig(cmd *cobra.Command) *config.FoldConfig {
	merged := cfg.Fold

	if cmd.Flags().Changed("discard-lineno") {
		merged.DiscardLineNumbers = f.discardLineno
	}
	if cmd.Flags().Changed("discard-thread") {
		merged.DiscardThread = f.discardThread
	}
	if cmd.Flags().Changed("shorten-pkgs") {
		merged.ShortenPackages = f.shortenPkgs
	}

	return &merged
}

// flagSummary renders the effective folding options for the history
// record.
func flagSummary(foldCfg *config.FoldConfig) string {
	var parts []string
	if foldCfg.DiscardLineNumbers {
		parts = append(parts, "--discard-lineno")
	}
	if foldCfg.DiscardThread {
		parts = append(parts, "--discard-thread")
	}
	if foldCfg.ShortenPackages {
		parts = append(parts, "--shorten-pkgs")
	}
	if foldCfg.SkipTraceOnMissingFrame {
		parts = append(parts, "--skip-trace-on-missing-frame")
	}
	if foldCfg.SkipSleepFrames {
		parts = append(parts, "--skip-sleep-frames")
	}
	return strings.Join(parts, " ")
}

// runConversion executes one conversion through the Runner.
func runConversion(cmd *cobra.Command, format model.InputFormat, inputPath string, foldCfg *config.FoldConfig, flags *convertFlags) error {
	conv, err := converter.New(format, foldCfg, logger)
	if err != nil {
		return err
	}

	var store storage.Storage
	if strings.HasPrefix(inputPath, "cos://") {
		store, err = storage.New(&cfg.Storage)
		if err != nil {
			return err
		}
	}

	var runs repository.RunRepository
	if cfg.History.Enabled {
		history, err := repository.NewHistory(&cfg.History)
		if err != nil {
			logger.Warn("history store unavailable: %v", err)
		} else {
			runs = history.Runs
			defer history.Close()
		}
	}

	out := os.Stdout
	if flags.outputPath != "" && flags.outputPath != "-" {
		file, err := os.Create(flags.outputPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	runner := converter.NewRunner(conv, store, runs, logger)
	run, err := runner.Run(cmd.Context(), &converter.Request{
		InputPath:    inputPath,
		Format:       format,
		Output:       out,
		OutputFormat: converter.OutputFormat(flags.outputFormat),
		Flags:        flagSummary(foldCfg),
	})
	if err != nil {
		return err
	}

	logger.Info("converted %s: %d unique stacks, %d samples, %d traces skipped",
		inputPath, run.UniqueStacks, run.TotalSamples, run.Skipped)
	return nil
}
