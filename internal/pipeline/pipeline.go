package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/examtools/examdump-cli/internal/model"
	"github.com/examtools/examdump-cli/internal/normalize"
)

// Source supplies page text for a run. The production implementation
// reads PDF exports from a directory; tests substitute fixture pages.
type Source interface {
	Files() ([]string, error)
	Pages(path string) ([]model.PageText, error)
}

// Options tunes extraction.
type Options struct {
	MinDescriptionLen  int
	DuplicateThreshold float64
	TieBreak           TieBreak
	MaxQuestions       int
}

func (o Options) withDefaults() Options {
	if o.MinDescriptionLen <= 0 {
		o.MinDescriptionLen = 20
	}
	if o.DuplicateThreshold <= 0 {
		o.DuplicateThreshold = 0.8
	}
	if o.TieBreak == "" {
		o.TieBreak = TieBreakFirstSeen
	}
	return o
}

// Result is everything an extraction run produced.
type Result struct {
	Questions  []model.QuestionRecord
	Comments   []model.CommunityComment
	Warnings   []model.Warning
	Duplicates []model.DuplicatePair
	Stats      model.RunStats
}

// Pipeline turns PDF page text into structured question records.
type Pipeline struct {
	source Source
	norm   *normalize.Normalizer
	opts   Options
}

// New builds a Pipeline. A nil normalizer falls back to the built-in
// repair rules.
func New(source Source, norm *normalize.Normalizer, opts Options) *Pipeline {
	if norm == nil {
		norm = normalize.Default()
	}
	return &Pipeline{source: source, norm: norm, opts: opts.withDefaults()}
}

// Run extracts every question from the source. Individual bad files and
// pages degrade to warnings; Run only fails when nothing can be read at
// all or the context is canceled.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	files, err := p.source.Files()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, eris.New("pipeline: no question exports found")
	}

	res := &Result{}
	var parsed []*ParsedQuestion
	commentsByID := map[string][]model.CommunityComment{}
	assigner := NewAssigner()
	var last *ParsedQuestion

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "pipeline: canceled")
		}
		if p.opts.MaxQuestions > 0 && len(parsed) >= p.opts.MaxQuestions {
			break
		}

		pages, err := p.source.Pages(file)
		if err != nil {
			zap.L().Warn("skipping unreadable file",
				zap.String("file", file),
				zap.Error(err),
			)
			res.Warnings = append(res.Warnings, model.Warning{
				Kind:   model.WarnFileSkipped,
				Source: file,
				Detail: err.Error(),
			})
			continue
		}
		res.Stats.Files++

		for _, page := range pages {
			res.Stats.Pages++
			if strings.TrimSpace(page.Text) == "" {
				continue
			}

			segments := DetectSegments(page)
			if len(segments) == 0 {
				res.Warnings = append(res.Warnings, model.Warning{
					Kind:   model.WarnNoMarkers,
					Source: page.Source,
					Page:   page.PageNumber,
					Detail: "page has text but no question markers",
				})
				continue
			}

			for _, seg := range segments {
				switch seg.Kind {
				case model.SegmentQuestion:
					if p.opts.MaxQuestions > 0 && len(parsed) >= p.opts.MaxQuestions {
						continue
					}
					pq := ParseQuestion(seg)
					if pq == nil {
						continue
					}
					id, bumped := assigner.Next(seg.PageNumber)
					pq.Record.ID = id
					if bumped {
						res.Warnings = append(res.Warnings, model.Warning{
							Kind:       model.WarnDuplicateID,
							QuestionID: id,
							Source:     seg.Source,
							Page:       seg.PageNumber,
							Detail:     "page numbering repeats across files; sequence bumped",
						})
					}
					parsed = append(parsed, pq)
					last = pq

				case model.SegmentCommunity:
					comments := ParseComments(seg)
					if last == nil {
						res.Warnings = append(res.Warnings, model.Warning{
							Kind:   model.WarnOrphanComment,
							Source: seg.Source,
							Page:   seg.PageNumber,
							Detail: fmt.Sprintf("%d community comments with no preceding question", len(comments)),
						})
						continue
					}
					id := last.Record.ID
					for i := range comments {
						comments[i].QuestionID = id
					}
					commentsByID[id] = append(commentsByID[id], comments...)
				}
			}
		}
	}

	for _, pq := range parsed {
		p.finalize(pq, commentsByID[pq.Record.ID], res)
	}

	res.Duplicates = FindDuplicates(res.Questions, p.opts.DuplicateThreshold)

	res.Stats.Questions = len(res.Questions)
	res.Stats.Comments = len(res.Comments)
	res.Stats.Warnings = len(res.Warnings)
	res.Stats.Duplicates = len(res.Duplicates)

	zap.L().Info("extraction complete",
		zap.Int("files", res.Stats.Files),
		zap.Int("pages", res.Stats.Pages),
		zap.Int("questions", res.Stats.Questions),
		zap.Int("comments", res.Stats.Comments),
		zap.Int("warnings", res.Stats.Warnings),
	)

	return res, nil
}

// finalize aggregates votes, normalizes text, and scores one question.
func (p *Pipeline) finalize(pq *ParsedQuestion, comments []model.CommunityComment, res *Result) {
	votes := Aggregate(comments, p.opts.TieBreak)
	pq.Record.Answers.Community = votes.Community
	pq.Record.Answers.HighlyVoted = votes.HighlyVoted
	pq.Record.Answers.MostRecent = votes.MostRecent
	pq.Record.Metadata.Date = votes.LatestDate

	// Leak check must see the raw description, before the normalizer
	// scrubs marker glyphs.
	markerLeak := ContainsCommunityMarker(pq.Record.Description)

	pq.Record.Description = p.norm.Apply(pq.Record.Description)
	pq.Record.Context = p.norm.ApplyBlock(pq.Record.Context)
	for letter, text := range pq.Record.Options {
		pq.Record.Options[letter] = p.norm.Apply(text)
	}
	for i := range comments {
		comments[i].Content = p.norm.ApplyBlock(comments[i].Content)
		comments[i].Username = p.norm.Apply(comments[i].Username)
	}

	if len(pq.Record.Description) < p.opts.MinDescriptionLen {
		res.Warnings = append(res.Warnings, model.Warning{
			Kind:       model.WarnShortDescription,
			QuestionID: pq.Record.ID,
			Source:     pq.Record.Metadata.Source,
			Page:       pq.Record.Metadata.Page,
			Detail:     fmt.Sprintf("description is %d chars", len(pq.Record.Description)),
		})
	}
	if len(pq.Record.Options) < 2 {
		res.Warnings = append(res.Warnings, model.Warning{
			Kind:       model.WarnFewOptions,
			QuestionID: pq.Record.ID,
			Source:     pq.Record.Metadata.Source,
			Page:       pq.Record.Metadata.Page,
			Detail:     fmt.Sprintf("only %d options extracted", len(pq.Record.Options)),
		})
	}
	if pq.ContextTriggered && !pq.ContextCaptured {
		res.Warnings = append(res.Warnings, model.Warning{
			Kind:       model.WarnContextMissed,
			QuestionID: pq.Record.ID,
			Source:     pq.Record.Metadata.Source,
			Page:       pq.Record.Metadata.Page,
			Detail:     "case-study trigger seen but no context captured",
		})
	}

	pq.Record.Metadata.Confidence = Score(CollectSignals(pq, markerLeak))

	res.Questions = append(res.Questions, pq.Record)
	res.Comments = append(res.Comments, comments...)
}
