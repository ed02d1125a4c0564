package model

import "sort"

// Answers holds the answer letters attributed to a question, one per source.
// Empty string means the source produced no answer.
type Answers struct {
	Community   string `json:"community"`
	HighlyVoted string `json:"highly_voted"`
	MostRecent  string `json:"most_recent"`
	Claude      string `json:"claude"`
}

// QuestionMetadata carries provenance and scoring for a question.
type QuestionMetadata struct {
	Topic      string  `json:"topic"`
	Page       int     `json:"page"`
	Source     string  `json:"source"`
	Date       string  `json:"date"`
	Confidence float64 `json:"confidence"`
}

// QuestionRecord is one extracted exam question.
type QuestionRecord struct {
	ID              string            `json:"id"`
	Number          string            `json:"number"`
	Context         string            `json:"context,omitempty"`
	Description     string            `json:"description"`
	Options         map[string]string `json:"options"`
	Answers         Answers           `json:"answers"`
	ClaudeReasoning string            `json:"claude_reasoning,omitempty"`
	Metadata        QuestionMetadata  `json:"metadata"`
}

// OptionLetters returns the question's option letters in order.
func (q *QuestionRecord) OptionLetters() []string {
	letters := make([]string, 0, len(q.Options))
	for l := range q.Options {
		letters = append(letters, l)
	}
	sort.Strings(letters)
	return letters
}

// HasOption reports whether the given letter is one of the question's options.
func (q *QuestionRecord) HasOption(letter string) bool {
	_, ok := q.Options[letter]
	return ok
}

// CommunityAnswerCount counts the distinct community-derived answer slots
// that carry a letter. The Claude answer is excluded.
func (q *QuestionRecord) CommunityAnswerCount() int {
	n := 0
	for _, a := range []string{q.Answers.Community, q.Answers.HighlyVoted, q.Answers.MostRecent} {
		if a != "" {
			n++
		}
	}
	return n
}

// DuplicatePair records two questions whose descriptions are near-identical.
// Both records are kept in the output; this is a flag, not a merge.
type DuplicatePair struct {
	FirstID    string  `json:"first_id"`
	SecondID   string  `json:"second_id"`
	Similarity float64 `json:"similarity"`
}
