package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/examtools/examdump-cli/internal/output"
	"github.com/examtools/examdump-cli/internal/pipeline"
	"github.com/examtools/examdump-cli/pkg/anthropic"
)

var analyzeForce bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <questions.json>",
	Short: "Fill in model answers for an existing document",
	Long:  "Loads a previously extracted questions.json, asks the model for an answer to each question that does not have one yet, and rewrites the file in place.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Anthropic.Key == "" {
			return eris.New("analyze: no Anthropic API key configured")
		}

		doc, err := output.LoadDocument(args[0])
		if err != nil {
			return err
		}

		pending := doc.Questions
		if !analyzeForce {
			pending = pending[:0:0]
			for _, q := range doc.Questions {
				if q.Answers.Claude == "" {
					pending = append(pending, q)
				}
			}
		}
		if len(pending) == 0 {
			zap.L().Info("all questions already answered")
			return nil
		}

		analyzer := pipeline.NewAnalyzer(anthropic.NewClient(cfg.Anthropic.Key), analyzeOptions())
		answered, warns, stats := analyzer.Run(ctx, pending)

		byID := map[string]int{}
		for i, q := range doc.Questions {
			byID[q.ID] = i
		}
		for _, q := range answered {
			if i, ok := byID[q.ID]; ok {
				doc.Questions[i] = q
			}
		}
		doc.Warnings = append(doc.Warnings, warns...)

		if err := output.WriteJSON(doc, args[0]); err != nil {
			return err
		}

		zap.L().Info("analyze complete",
			zap.Int("answered", stats.Analyzed),
			zap.Int("failed", stats.Failed),
		)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeForce, "force", false, "re-answer questions that already have a model answer")
	rootCmd.AddCommand(analyzeCmd)
}
