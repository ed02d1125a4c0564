package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/examtools/examdump-cli/internal/model"
	"github.com/examtools/examdump-cli/internal/normalize"
	"github.com/examtools/examdump-cli/internal/output"
	"github.com/examtools/examdump-cli/internal/pdftext"
	"github.com/examtools/examdump-cli/internal/pipeline"
	"github.com/examtools/examdump-cli/internal/runlog"
	"github.com/examtools/examdump-cli/pkg/anthropic"
)

var (
	extractInput   string
	extractOutput  string
	extractFormats []string
	extractMerge   string
	extractRules   string
	extractNoLLM   bool
	extractMax     int
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract questions from PDF exports",
	Long:  "Reads Questions_<n>.pdf exports from the input directory, extracts question records and community votes, optionally asks the model for answers, and writes the requested output formats.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		input := extractInput
		if input == "" {
			input = cfg.Paths.InputDir
		}
		outDir := extractOutput
		if outDir == "" {
			outDir = cfg.Paths.OutputDir
		}

		norm, err := loadNormalizer()
		if err != nil {
			return err
		}

		ledger := openLedger(ctx)
		var runID string
		if ledger != nil {
			defer ledger.Close() //nolint:errcheck
			if run, err := ledger.Start(ctx, input); err == nil {
				runID = run.ID
			} else {
				zap.L().Warn("run ledger unavailable", zap.Error(err))
			}
		}

		p := pipeline.New(pdftext.DirSource{Dir: input}, norm, pipeline.Options{
			MinDescriptionLen:  cfg.Extract.MinDescriptionLen,
			DuplicateThreshold: cfg.Extract.DuplicateThreshold,
			TieBreak:           pipeline.TieBreak(cfg.Extract.TieBreak),
			MaxQuestions:       extractMax,
		})

		res, err := p.Run(ctx)
		if err != nil {
			failRun(ctx, ledger, runID, err)
			return eris.Wrap(err, "extract")
		}

		if !extractNoLLM && cfg.Anthropic.Key != "" {
			analyzer := pipeline.NewAnalyzer(anthropic.NewClient(cfg.Anthropic.Key), analyzeOptions())
			var warns []model.Warning
			var stats model.RunStats
			res.Questions, warns, stats = analyzer.Run(ctx, res.Questions)
			res.Warnings = append(res.Warnings, warns...)
			res.Stats.Analyzed = stats.Analyzed
			res.Stats.Failed = stats.Failed
			res.Stats.Warnings = len(res.Warnings)
		} else if !extractNoLLM {
			zap.L().Warn("no Anthropic API key configured; skipping model answers")
		}

		doc := output.BuildDocument(res)
		if extractMerge != "" {
			prev, err := output.LoadDocument(extractMerge)
			if err != nil {
				failRun(ctx, ledger, runID, err)
				return eris.Wrap(err, "extract: load merge base")
			}
			doc = output.Merge(prev, doc)
		}

		if err := writeOutputs(doc, outDir, extractFormats); err != nil {
			failRun(ctx, ledger, runID, err)
			return err
		}

		if ledger != nil && runID != "" {
			if err := ledger.Complete(ctx, runID, res.Stats); err != nil {
				zap.L().Warn("failed to record run", zap.Error(err))
			}
		}

		zap.L().Info("extract complete",
			zap.String("output_dir", outDir),
			zap.Int("questions", len(doc.Questions)),
			zap.Int("warnings", len(doc.Warnings)),
		)
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractInput, "input", "", "input directory with Questions_<n>.pdf files (default from config)")
	extractCmd.Flags().StringVar(&extractOutput, "output", "", "output directory (default from config)")
	extractCmd.Flags().StringSliceVar(&extractFormats, "formats", []string{"json", "csv", "md", "summary"}, "output formats: json, csv, md, xlsx, summary")
	extractCmd.Flags().StringVar(&extractMerge, "merge", "", "previous questions.json to merge into; existing IDs are kept")
	extractCmd.Flags().StringVar(&extractRules, "rules", "", "YAML file of extra text repair rules")
	extractCmd.Flags().BoolVar(&extractNoLLM, "no-llm", false, "skip the model answer pass")
	extractCmd.Flags().IntVar(&extractMax, "max-questions", 0, "stop after this many questions (0 = no limit)")
	rootCmd.AddCommand(extractCmd)
}

func loadNormalizer() (*normalize.Normalizer, error) {
	rules := extractRules
	if rules == "" {
		rules = cfg.Paths.RulesFile
	}
	if rules == "" {
		return normalize.Default(), nil
	}
	return normalize.Load(rules)
}

func openLedger(ctx context.Context) *runlog.Ledger {
	ledger, err := runlog.Open(cfg.Ledger.Path)
	if err != nil {
		zap.L().Warn("run ledger unavailable", zap.Error(err))
		return nil
	}
	if err := ledger.Migrate(ctx); err != nil {
		zap.L().Warn("run ledger migration failed", zap.Error(err))
		ledger.Close() //nolint:errcheck
		return nil
	}
	return ledger
}

func failRun(ctx context.Context, ledger *runlog.Ledger, runID string, cause error) {
	if ledger == nil || runID == "" {
		return
	}
	if err := ledger.Fail(ctx, runID, cause.Error()); err != nil {
		zap.L().Warn("failed to record run failure", zap.Error(err))
	}
}

func analyzeOptions() pipeline.AnalyzeOptions {
	return pipeline.AnalyzeOptions{
		Model:             cfg.Anthropic.Model,
		MaxTokens:         cfg.Anthropic.MaxTokens,
		Concurrency:       cfg.Analyze.Concurrency,
		RequestsPerMinute: cfg.Analyze.RequestsPerMinute,
		RetryAttempts:     cfg.Analyze.RetryAttempts,
		Timeout:           time.Duration(cfg.Analyze.TimeoutSecs) * time.Second,
	}
}

func writeOutputs(doc *model.Document, dir string, formats []string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "extract: create output dir %s", dir)
	}
	for _, format := range formats {
		var err error
		switch format {
		case "json":
			err = output.WriteJSON(doc, filepath.Join(dir, "questions.json"))
		case "csv":
			err = output.WriteCSV(doc, filepath.Join(dir, "questions.csv"))
		case "md":
			err = output.WriteMarkdown(doc, filepath.Join(dir, "questions.md"))
		case "xlsx":
			err = output.WriteXLSX(doc, filepath.Join(dir, "questions.xlsx"))
		case "summary":
			err = output.WriteSummary(doc, filepath.Join(dir, "summary.txt"))
		default:
			return eris.Errorf("extract: unknown format %q", format)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
