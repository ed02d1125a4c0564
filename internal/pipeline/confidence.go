package pipeline

// Signals are the observable extraction facts a confidence score is
// computed from. Scoring is a pure function of this struct.
type Signals struct {
	DescriptionLength int
	OptionCount       int
	CommunityAnswers  int
	HasNumber         bool
	HasTopic          bool
	ContextTriggered  bool
	ContextCaptured   bool
	MarkerLeak        bool
}

// Score weights:
//
//	0.40  substantial description (0.20 for a short one)
//	0.30  four or more options (0.15 for two or three)
//	0.20  two or more community answers (0.10 for one)
//	0.10  both number and topic present (0.05 for one)
//
// Penalties: -0.10 when a case-study trigger fired but no context was
// captured, -0.40 when community markers leaked into the description.
const (
	fullDescriptionLen = 50
	someDescriptionLen = 20
)

// Score computes an extraction confidence in [0, 1]. More complete
// extractions always score at least as high as less complete ones.
func Score(s Signals) float64 {
	score := 0.0

	switch {
	case s.DescriptionLength >= fullDescriptionLen:
		score += 0.40
	case s.DescriptionLength >= someDescriptionLen:
		score += 0.20
	}

	switch {
	case s.OptionCount >= 4:
		score += 0.30
	case s.OptionCount >= 2:
		score += 0.15
	}

	switch {
	case s.CommunityAnswers >= 2:
		score += 0.20
	case s.CommunityAnswers == 1:
		score += 0.10
	}

	switch {
	case s.HasNumber && s.HasTopic:
		score += 0.10
	case s.HasNumber || s.HasTopic:
		score += 0.05
	}

	if s.ContextTriggered && !s.ContextCaptured {
		score -= 0.10
	}
	if s.MarkerLeak {
		score -= 0.40
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}

// CollectSignals derives scoring signals from a parsed question after
// community attachment. markerLeak must be evaluated on the description
// before normalization scrubs the marker glyphs.
func CollectSignals(pq *ParsedQuestion, markerLeak bool) Signals {
	return Signals{
		DescriptionLength: len(pq.Record.Description),
		OptionCount:       len(pq.Record.Options),
		CommunityAnswers:  pq.Record.CommunityAnswerCount(),
		HasNumber:         pq.Record.Number != "",
		HasTopic:          pq.Record.Metadata.Topic != "" && pq.Record.Metadata.Topic != "General",
		ContextTriggered:  pq.ContextTriggered,
		ContextCaptured:   pq.ContextCaptured,
		MarkerLeak:        markerLeak,
	}
}
