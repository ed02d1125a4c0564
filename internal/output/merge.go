package output

import (
	"time"

	"github.com/examtools/examdump-cli/internal/model"
)

// Merge folds newly extracted questions into a previous document.
// Records whose ID already exists in prev are skipped, so re-running
// extraction over the same exports leaves earlier results untouched.
// Comments and duplicate flags from the new run are carried for the
// surviving records only.
func Merge(prev, next *model.Document) *model.Document {
	existing := map[string]bool{}
	for _, q := range prev.Questions {
		existing[q.ID] = true
	}

	merged := &model.Document{
		Questions:         append([]model.QuestionRecord{}, prev.Questions...),
		CommunityComments: append([]model.CommunityComment{}, prev.CommunityComments...),
		Warnings:          append([]model.Warning{}, prev.Warnings...),
		Duplicates:        append([]model.DuplicatePair{}, prev.Duplicates...),
	}

	added := map[string]bool{}
	for _, q := range next.Questions {
		if existing[q.ID] {
			continue
		}
		merged.Questions = append(merged.Questions, q)
		added[q.ID] = true
	}
	for _, c := range next.CommunityComments {
		if added[c.QuestionID] {
			merged.CommunityComments = append(merged.CommunityComments, c)
		}
	}
	for _, w := range next.Warnings {
		if w.QuestionID == "" || added[w.QuestionID] {
			merged.Warnings = append(merged.Warnings, w)
		}
	}
	for _, d := range next.Duplicates {
		if added[d.FirstID] || added[d.SecondID] {
			merged.Duplicates = append(merged.Duplicates, d)
		}
	}

	merged.Metadata = model.DocumentMetadata{
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
		TotalQuestions: len(merged.Questions),
		Version:        SchemaVersion,
	}
	merged.Filters = buildFilters(merged.Questions)
	return merged
}
