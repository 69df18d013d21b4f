package converter

import (
	"sort"

	"github.com/stackfold/internal/fold"
	"github.com/stackfold/internal/parser/hpl"
	"github.com/stackfold/internal/parser/hprof"
	"github.com/stackfold/pkg/config"
	apperrors "github.com/stackfold/pkg/errors"
	"github.com/stackfold/pkg/model"
	"github.com/stackfold/pkg/utils"
)

// Factory builds a converter from the folding configuration.
type Factory func(cfg *config.FoldConfig, logger utils.Logger) Converter

var registry = map[model.InputFormat]Factory{
	model.FormatHPL: func(cfg *config.FoldConfig, logger utils.Logger) Converter {
		return NewHPLConverter(hplOptions(cfg), foldOptions(cfg), logger)
	},
	model.FormatHPROF: func(cfg *config.FoldConfig, logger utils.Logger) Converter {
		return NewHPROFConverter(hprofOptions(cfg), logger)
	},
	model.FormatCollapsed: func(cfg *config.FoldConfig, logger utils.Logger) Converter {
		return NewCollapsedConverter()
	},
}

// New creates the converter for the given input format.
func New(format model.InputFormat, cfg *config.FoldConfig, logger utils.Logger) (Converter, error) {
	factory, ok := registry[format]
	if !ok {
		return nil, apperrors.Newf(apperrors.CodeInvalidInput, "unsupported input format: %s", format)
	}
	if cfg == nil {
		cfg = &config.FoldConfig{}
	}
	return factory(cfg, logger), nil
}

// SupportedFormats lists the registered input formats.
func SupportedFormats() []model.InputFormat {
	formats := make([]model.InputFormat, 0, len(registry))
	for f := range registry {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

func foldOptions(cfg *config.FoldConfig) *fold.Options {
	return &fold.Options{
		DiscardLineNumbers:      cfg.DiscardLineNumbers,
		DiscardThread:           cfg.DiscardThread,
		ShortenPackages:         cfg.ShortenPackages,
		SkipTraceOnMissingFrame: cfg.SkipTraceOnMissingFrame,
		SkipSleepFrames:         cfg.SkipSleepFrames,
	}
}

func hplOptions(cfg *config.FoldConfig) *hpl.Options {
	version := hpl.V2
	if cfg.HPLVersion == 1 {
		version = hpl.V1
	}
	return &hpl.Options{Version: version}
}

func hprofOptions(cfg *config.FoldConfig) *hprof.Options {
	policy := hprof.MissingTracePolicy(cfg.MissingTracePolicy)
	if policy == "" {
		policy = hprof.MissingTraceError
	}
	return &hprof.Options{
		DiscardLineNumbers: cfg.DiscardLineNumbers,
		DiscardThread:      cfg.DiscardThread,
		ShortenPackages:    cfg.ShortenPackages,
		MissingTrace:       policy,
	}
}
