package pipeline

import (
	"strings"

	"github.com/examtools/examdump-cli/internal/model"
)

// Jaccard computes word-set similarity between two texts in [0, 1].
// Case-insensitive; word order and repetition are ignored.
func Jaccard(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for w := range setA {
		if setB[w] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func wordSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, ".,;:!?()[]\"'")
		if w != "" {
			set[w] = true
		}
	}
	return set
}

// FindDuplicates flags question pairs whose descriptions meet the
// similarity threshold. Both records stay in the output; the pairs are
// reported alongside so duplicates can be reviewed, never auto-merged.
func FindDuplicates(questions []model.QuestionRecord, threshold float64) []model.DuplicatePair {
	var pairs []model.DuplicatePair
	for i := 0; i < len(questions); i++ {
		for j := i + 1; j < len(questions); j++ {
			sim := Jaccard(questions[i].Description, questions[j].Description)
			if sim >= threshold {
				pairs = append(pairs, model.DuplicatePair{
					FirstID:    questions[i].ID,
					SecondID:   questions[j].ID,
					Similarity: sim,
				})
			}
		}
	}
	return pairs
}
