package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fullSignals() Signals {
	return Signals{
		DescriptionLength: 120,
		OptionCount:       4,
		CommunityAnswers:  3,
		HasNumber:         true,
		HasTopic:          true,
	}
}

func TestScoreCompleteExtraction(t *testing.T) {
	assert.InDelta(t, 1.0, Score(fullSignals()), 1e-9)
}

func TestScoreBounds(t *testing.T) {
	assert.InDelta(t, 0.0, Score(Signals{MarkerLeak: true}), 1e-9)

	s := fullSignals()
	s.MarkerLeak = true
	got := Score(s)
	assert.GreaterOrEqual(t, got, 0.0)
	assert.LessOrEqual(t, got, 1.0)
}

func TestScoreMoreOptionsNeverLower(t *testing.T) {
	s := fullSignals()
	for count := 0; count <= 6; count++ {
		s.OptionCount = count
		lower := Score(s)
		s.OptionCount = count + 1
		assert.LessOrEqual(t, lower, Score(s), "options %d -> %d", count, count+1)
	}
}

func TestScoreLongerDescriptionNeverLower(t *testing.T) {
	s := fullSignals()
	prev := -1.0
	for _, n := range []int{0, 10, 20, 49, 50, 200} {
		s.DescriptionLength = n
		got := Score(s)
		assert.GreaterOrEqual(t, got, prev, "description length %d", n)
		prev = got
	}
}

func TestScoreCommunityAnswersContribute(t *testing.T) {
	s := fullSignals()
	s.CommunityAnswers = 0
	none := Score(s)
	s.CommunityAnswers = 1
	one := Score(s)
	s.CommunityAnswers = 2
	two := Score(s)

	assert.Less(t, none, one)
	assert.Less(t, one, two)
}

func TestScoreMarkerLeakPenalty(t *testing.T) {
	clean := fullSignals()
	leaked := fullSignals()
	leaked.MarkerLeak = true

	assert.InDelta(t, 0.4, Score(clean)-Score(leaked), 1e-9)
}

func TestScoreContextMissPenalty(t *testing.T) {
	s := fullSignals()
	s.ContextTriggered = true
	s.ContextCaptured = false
	missed := Score(s)

	s.ContextCaptured = true
	captured := Score(s)

	assert.InDelta(t, 0.1, captured-missed, 1e-9)
}
