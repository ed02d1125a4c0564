package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/examtools/examdump-cli/internal/model"
	"github.com/examtools/examdump-cli/internal/resilience"
	"github.com/examtools/examdump-cli/pkg/anthropic"
)

// AnalyzeOptions tunes the model answer pass.
type AnalyzeOptions struct {
	Model             string
	MaxTokens         int64
	Concurrency       int
	RequestsPerMinute int
	RetryAttempts     int
	Timeout           time.Duration
}

func (o AnalyzeOptions) withDefaults() AnalyzeOptions {
	if o.Model == "" {
		o.Model = "claude-sonnet-4-5-20250929"
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = 1024
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 3
	}
	if o.RequestsPerMinute <= 0 {
		o.RequestsPerMinute = 50
	}
	if o.RetryAttempts <= 0 {
		o.RetryAttempts = 3
	}
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
	return o
}

const analyzeSystemPrompt = `You are an expert exam tutor. You are given one multiple-choice question with lettered options. Pick the single best option. Reply with the option letter on the first line, then a short explanation of your reasoning.`

// Analyzer asks the model for an answer to each extracted question.
type Analyzer struct {
	client anthropic.Client
	opts   AnalyzeOptions
}

// NewAnalyzer builds an Analyzer around an Anthropic client.
func NewAnalyzer(client anthropic.Client, opts AnalyzeOptions) *Analyzer {
	return &Analyzer{client: client, opts: opts.withDefaults()}
}

// Run answers every question in place and returns warnings for the ones
// that failed. A question failing never aborts the pass; its model
// answer is simply left empty.
func (a *Analyzer) Run(ctx context.Context, questions []model.QuestionRecord) ([]model.QuestionRecord, []model.Warning, model.RunStats) {
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(a.opts.RequestsPerMinute)), 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Concurrency)

	var mu sync.Mutex
	var warnings []model.Warning
	var stats model.RunStats

	for i := range questions {
		q := &questions[i]
		// A letter answer is meaningless without real options to choose
		// from, and an empty description cannot be answered at all.
		if len(q.Options) < 2 || q.Description == "" {
			continue
		}
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return nil //nolint:nilerr // shutdown, not a question failure
			}

			answer, reasoning, err := a.answerOne(gctx, q)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				stats.Failed++
				warnings = append(warnings, model.Warning{
					Kind:       model.WarnAnalysisFailed,
					QuestionID: q.ID,
					Source:     q.Metadata.Source,
					Page:       q.Metadata.Page,
					Detail:     err.Error(),
				})
				zap.L().Warn("analysis failed",
					zap.String("question", q.ID),
					zap.Error(err),
				)
				return nil
			}
			if answer == "" {
				stats.Failed++
				warnings = append(warnings, model.Warning{
					Kind:       model.WarnMalformedAnswer,
					QuestionID: q.ID,
					Source:     q.Metadata.Source,
					Page:       q.Metadata.Page,
					Detail:     "no option letter found in model response",
				})
				return nil
			}
			q.Answers.Claude = answer
			q.ClaudeReasoning = reasoning
			stats.Analyzed++
			return nil
		})
	}
	_ = g.Wait()

	return questions, warnings, stats
}

func (a *Analyzer) answerOne(ctx context.Context, q *model.QuestionRecord) (string, string, error) {
	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = a.opts.RetryAttempts
	retry.ShouldRetry = func(err error) bool {
		return anthropic.IsRetryable(err) || resilience.IsTransient(err)
	}
	retry.OnRetry = resilience.RetryLogger("anthropic", "answer question")

	resp, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		callCtx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
		return a.client.CreateMessage(callCtx, anthropic.MessageRequest{
			Model:     a.opts.Model,
			MaxTokens: a.opts.MaxTokens,
			System:    []anthropic.SystemBlock{{Text: analyzeSystemPrompt}},
			Messages: []anthropic.Message{
				{Role: "user", Content: buildPrompt(q)},
			},
		})
	})
	if err != nil {
		return "", "", err
	}

	resp.Usage.LogCost(a.opts.Model, "analyze")

	text := resp.Text()
	answer := parseAnswerLetter(text, q)
	reasoning := strings.TrimSpace(text)
	if len(reasoning) > 500 {
		reasoning = reasoning[:500]
	}
	return answer, reasoning, nil
}

func buildPrompt(q *model.QuestionRecord) string {
	var b strings.Builder
	if q.Context != "" {
		fmt.Fprintf(&b, "Background:\n%s\n\n", q.Context)
	}
	fmt.Fprintf(&b, "Question:\n%s\n\nOptions:\n", q.Description)
	for _, letter := range q.OptionLetters() {
		fmt.Fprintf(&b, "%s. %s\n", letter, q.Options[letter])
	}
	return b.String()
}

var (
	answerHeadRe   = regexp.MustCompile(`(?m)^\s*([A-F])\b`)
	answerStatedRe = regexp.MustCompile(`(?i)\b(?:answer|option)\s+(?:is\s+)?([A-F])\b`)
	answerBareRe   = regexp.MustCompile(`\b([A-F])\b`)
)

// parseAnswerLetter pulls the chosen option out of a model response.
// The letter must name one of the question's actual options; anything
// else is treated as malformed.
func parseAnswerLetter(text string, q *model.QuestionRecord) string {
	candidates := []string{}
	if m := answerHeadRe.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m[1])
	}
	if m := answerStatedRe.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m[1])
	}
	for _, m := range answerBareRe.FindAllStringSubmatch(text, 5) {
		candidates = append(candidates, m[1])
	}
	for _, c := range candidates {
		c = strings.ToUpper(c)
		if q.HasOption(c) {
			return c
		}
	}
	return ""
}
