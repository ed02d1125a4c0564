package output

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/examtools/examdump-cli/internal/model"
)

// WriteMarkdown writes the question table as a Markdown document with a
// short header of run statistics.
func WriteMarkdown(doc *model.Document, path string) error {
	var b strings.Builder

	b.WriteString("# Exam Question Bank\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", doc.Metadata.GeneratedAt)
	fmt.Fprintf(&b, "- Questions: %d\n", len(doc.Questions))
	fmt.Fprintf(&b, "- Community comments: %d\n", len(doc.CommunityComments))
	fmt.Fprintf(&b, "- Warnings: %d\n", len(doc.Warnings))
	fmt.Fprintf(&b, "- Possible duplicates: %d\n\n", len(doc.Duplicates))

	writeStats(&b, doc)

	b.WriteString("| " + strings.Join(reportColumns, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(reportColumns)) + "\n")
	for i := range doc.Questions {
		row := reportRow(&doc.Questions[i])
		for j, cell := range row {
			row[j] = escapeMarkdown(cell)
		}
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return eris.Wrapf(err, "output: write %s", path)
	}
	return nil
}

// writeStats renders per-topic and per-source counts, answer
// availability, and the confidence distribution.
func writeStats(b *strings.Builder, doc *model.Document) {
	if len(doc.Questions) == 0 {
		return
	}

	byTopic := map[string]int{}
	bySource := map[string]int{}
	var withCommunity, withClaude int
	buckets := [4]int{} // <0.25, <0.5, <0.75, rest
	for _, q := range doc.Questions {
		byTopic[q.Metadata.Topic]++
		bySource[q.Metadata.Source]++
		if q.Answers.Community != "" {
			withCommunity++
		}
		if q.Answers.Claude != "" {
			withClaude++
		}
		switch c := q.Metadata.Confidence; {
		case c < 0.25:
			buckets[0]++
		case c < 0.5:
			buckets[1]++
		case c < 0.75:
			buckets[2]++
		default:
			buckets[3]++
		}
	}

	b.WriteString("## Statistics\n\n")

	b.WriteString("### By topic\n\n")
	for _, topic := range sortedKeysInt(byTopic) {
		fmt.Fprintf(b, "- %s: %d\n", topic, byTopic[topic])
	}
	b.WriteString("\n### By source\n\n")
	for _, source := range sortedKeysInt(bySource) {
		fmt.Fprintf(b, "- %s: %d\n", source, bySource[source])
	}

	total := len(doc.Questions)
	b.WriteString("\n### Answers\n\n")
	fmt.Fprintf(b, "- Community answer: %d/%d\n", withCommunity, total)
	fmt.Fprintf(b, "- Claude answer: %d/%d\n", withClaude, total)

	b.WriteString("\n### Confidence\n\n")
	fmt.Fprintf(b, "- Below 0.25: %d\n", buckets[0])
	fmt.Fprintf(b, "- 0.25 to 0.50: %d\n", buckets[1])
	fmt.Fprintf(b, "- 0.50 to 0.75: %d\n", buckets[2])
	fmt.Fprintf(b, "- 0.75 and above: %d\n\n", buckets[3])
}

func sortedKeysInt(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
