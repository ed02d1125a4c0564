package output

import (
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/rotisserie/eris"

	"github.com/examtools/examdump-cli/internal/model"
	"github.com/examtools/examdump-cli/internal/pipeline"
)

// SchemaVersion identifies the document shape for downstream consumers.
const SchemaVersion = "2.0"

// BuildDocument assembles the canonical output document from a run.
func BuildDocument(res *pipeline.Result) *model.Document {
	return &model.Document{
		Metadata: model.DocumentMetadata{
			GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
			TotalQuestions: len(res.Questions),
			Version:        SchemaVersion,
		},
		Filters:           buildFilters(res.Questions),
		Questions:         res.Questions,
		CommunityComments: res.Comments,
		Warnings:          res.Warnings,
		Duplicates:        res.Duplicates,
	}
}

func buildFilters(questions []model.QuestionRecord) model.Filters {
	topics := map[string]bool{}
	sources := map[string]bool{}
	letters := map[string]bool{}
	for _, q := range questions {
		if q.Metadata.Topic != "" {
			topics[q.Metadata.Topic] = true
		}
		if q.Metadata.Source != "" {
			sources[q.Metadata.Source] = true
		}
		for _, l := range q.OptionLetters() {
			letters[l] = true
		}
	}
	return model.Filters{
		Topics:        sortedKeys(topics),
		Sources:       sortedKeys(sources),
		AnswerOptions: sortedKeys(letters),
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WriteJSON writes the document as indented JSON.
func WriteJSON(doc *model.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "output: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return eris.Wrapf(err, "output: encode %s", path)
	}
	return f.Close()
}

// LoadDocument reads a previously written JSON document.
func LoadDocument(path string) (*model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "output: read %s", path)
	}
	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(err, "output: parse %s", path)
	}
	return &doc, nil
}
