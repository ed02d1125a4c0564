package output

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/examtools/examdump-cli/internal/model"
)

// WriteSummary writes a plain-text quality report for a document:
// coverage counts, confidence distribution, and the warnings that need
// human review.
func WriteSummary(doc *model.Document, path string) error {
	var b strings.Builder

	b.WriteString("EXTRACTION SUMMARY\n")
	b.WriteString("==================\n\n")
	fmt.Fprintf(&b, "Generated:           %s\n", doc.Metadata.GeneratedAt)
	fmt.Fprintf(&b, "Questions:           %d\n", len(doc.Questions))
	fmt.Fprintf(&b, "Community comments:  %d\n", len(doc.CommunityComments))
	fmt.Fprintf(&b, "Warnings:            %d\n", len(doc.Warnings))
	fmt.Fprintf(&b, "Possible duplicates: %d\n\n", len(doc.Duplicates))

	var withOptions, withCommunity, withClaude, lowConfidence int
	var confidenceSum float64
	for _, q := range doc.Questions {
		if len(q.Options) >= 2 {
			withOptions++
		}
		if q.Answers.Community != "" {
			withCommunity++
		}
		if q.Answers.Claude != "" {
			withClaude++
		}
		if q.Metadata.Confidence < 0.5 {
			lowConfidence++
		}
		confidenceSum += q.Metadata.Confidence
	}

	b.WriteString("COVERAGE\n")
	fmt.Fprintf(&b, "  with options:          %s\n", ratio(withOptions, len(doc.Questions)))
	fmt.Fprintf(&b, "  with community answer: %s\n", ratio(withCommunity, len(doc.Questions)))
	fmt.Fprintf(&b, "  with model answer:     %s\n", ratio(withClaude, len(doc.Questions)))
	if len(doc.Questions) > 0 {
		fmt.Fprintf(&b, "  mean confidence:       %.2f\n", confidenceSum/float64(len(doc.Questions)))
	}
	fmt.Fprintf(&b, "  low confidence (<0.5): %d\n\n", lowConfidence)

	if len(doc.Warnings) > 0 {
		b.WriteString("WARNINGS\n")
		byKind := map[string]int{}
		for _, w := range doc.Warnings {
			byKind[string(w.Kind)]++
		}
		kinds := make([]string, 0, len(byKind))
		for k := range byKind {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			fmt.Fprintf(&b, "  %-28s %d\n", kind, byKind[kind])
		}
		b.WriteString("\n")
	}

	if len(doc.Duplicates) > 0 {
		b.WriteString("POSSIBLE DUPLICATES\n")
		for _, d := range doc.Duplicates {
			fmt.Fprintf(&b, "  %s ~ %s (%.2f)\n", d.FirstID, d.SecondID, d.Similarity)
		}
		b.WriteString("\n")
	}

	var recs []string
	if lowConfidence > 0 {
		recs = append(recs, fmt.Sprintf("review the %d low-confidence questions against the source PDFs", lowConfidence))
	}
	if withClaude < len(doc.Questions) {
		recs = append(recs, fmt.Sprintf("run `analyze` to answer the %d questions without a model answer", len(doc.Questions)-withClaude))
	}
	if len(doc.Duplicates) > 0 {
		recs = append(recs, "check the flagged duplicate pairs; both records are kept in the output")
	}
	if len(recs) > 0 {
		b.WriteString("RECOMMENDATIONS\n")
		for _, r := range recs {
			fmt.Fprintf(&b, "  - %s\n", r)
		}
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return eris.Wrapf(err, "output: write %s", path)
	}
	return nil
}

func ratio(n, total int) string {
	if total == 0 {
		return "0/0"
	}
	return fmt.Sprintf("%d/%d (%.0f%%)", n, total, 100*float64(n)/float64(total))
}
