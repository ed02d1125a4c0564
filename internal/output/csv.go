package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/examtools/examdump-cli/internal/model"
)

// reportColumns is the fixed column set shared by the CSV, Markdown,
// and XLSX exports.
var reportColumns = []string{
	"Question No",
	"Question Description",
	"Answer Options",
	"Community Answer",
	"Highly Voted Answer",
	"Most Recent Answer",
	"Claude Answer",
	"Latest Date",
	"Topic",
	"Page Number",
	"Source",
}

const (
	maxCellDescription = 200
	maxCellOptions     = 300
)

// reportRow renders one question as the shared tabular row.
func reportRow(q *model.QuestionRecord) []string {
	return []string{
		q.Number,
		truncate(q.Description, maxCellDescription),
		truncate(formatOptions(q), maxCellOptions),
		q.Answers.Community,
		q.Answers.HighlyVoted,
		q.Answers.MostRecent,
		q.Answers.Claude,
		q.Metadata.Date,
		q.Metadata.Topic,
		fmt.Sprintf("%d", q.Metadata.Page),
		q.Metadata.Source,
	}
}

func formatOptions(q *model.QuestionRecord) string {
	parts := make([]string, 0, len(q.Options))
	for _, letter := range q.OptionLetters() {
		parts = append(parts, letter+": "+q.Options[letter])
	}
	return strings.Join(parts, "; ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// WriteCSV writes the question table as CSV.
func WriteCSV(doc *model.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "output: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(reportColumns); err != nil {
		return eris.Wrap(err, "output: write csv header")
	}
	for i := range doc.Questions {
		if err := w.Write(reportRow(&doc.Questions[i])); err != nil {
			return eris.Wrap(err, "output: write csv row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "output: flush csv")
	}
	return f.Close()
}
