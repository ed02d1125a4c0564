package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examtools/examdump-cli/internal/model"
)

func questionSegment(text string) model.Segment {
	return model.Segment{
		Source:     "Questions_1.pdf",
		PageNumber: 3,
		Kind:       model.SegmentQuestion,
		Text:       text,
	}
}

func TestParseQuestionBasic(t *testing.T) {
	pq := ParseQuestion(questionSegment(
		"Question #12 Topic 1\n" +
			"Your company wants to migrate its data warehouse to a managed service.\n" +
			"What should you do?\n" +
			"A. Use a managed warehouse\n" +
			"B. Build a custom cluster\n" +
			"C. Export to CSV archives\n" +
			"D. Keep the current system\n"))

	require.NotNil(t, pq)
	assert.Equal(t, "12", pq.Record.Number)
	assert.Equal(t, "Topic 1", pq.Record.Metadata.Topic)
	assert.Equal(t, 3, pq.Record.Metadata.Page)
	assert.Equal(t, "Questions_1.pdf", pq.Record.Metadata.Source)
	assert.Equal(t,
		"Your company wants to migrate its data warehouse to a managed service. What should you do?",
		pq.Record.Description)
	assert.Len(t, pq.Record.Options, 4)
	assert.Equal(t, "Use a managed warehouse", pq.Record.Options["A"])
	assert.Equal(t, "Keep the current system", pq.Record.Options["D"])
	assert.Equal(t, "dotted", pq.OptionStrategy)
}

func TestParseQuestionDefaultsTopicToGeneral(t *testing.T) {
	pq := ParseQuestion(questionSegment("Question #7\nsome body text here\nA. a\nB. b\n"))

	require.NotNil(t, pq)
	assert.Equal(t, "General", pq.Record.Metadata.Topic)
}

func TestParseQuestionParenthesizedOptions(t *testing.T) {
	pq := ParseQuestion(questionSegment(
		"Question #2 Topic 1\nwhich one?\nA) alpha\nB) beta\nC) gamma\n"))

	require.NotNil(t, pq)
	assert.Equal(t, "parenthesized", pq.OptionStrategy)
	assert.Equal(t, map[string]string{"A": "alpha", "B": "beta", "C": "gamma"}, pq.Record.Options)
}

func TestParseQuestionInlineOptions(t *testing.T) {
	pq := ParseQuestion(questionSegment(
		"Question #4 Topic 1\nwhich one?\nA. alpha B. beta C. gamma\n"))

	require.NotNil(t, pq)
	assert.Equal(t, "inline", pq.OptionStrategy)
	assert.Equal(t, "alpha", pq.Record.Options["A"])
	assert.Equal(t, "beta", pq.Record.Options["B"])
	assert.Equal(t, "gamma", pq.Record.Options["C"])
}

func TestParseQuestionOptionContinuationLines(t *testing.T) {
	pq := ParseQuestion(questionSegment(
		"Question #9 Topic 3\nlong options ahead\n" +
			"A. Create a new project and\nmigrate all resources into it\n" +
			"B. Do nothing\n"))

	require.NotNil(t, pq)
	assert.Equal(t, "Create a new project and migrate all resources into it", pq.Record.Options["A"])
}

func TestParseQuestionCaseStudyContext(t *testing.T) {
	pq := ParseQuestion(questionSegment(
		"Introductory Info\n" +
			"Case Study: Dress4Win\n" +
			"Company Overview\n" +
			"Dress4Win is a web-based company that helps its users organize their wardrobe.\n" +
			"Question #5 Topic 2\n" +
			"For this question, refer to the Dress4Win case study.\n" +
			"A. first\nB. second\n"))

	require.NotNil(t, pq)
	assert.True(t, pq.ContextTriggered)
	assert.True(t, pq.ContextCaptured)
	assert.Contains(t, pq.Record.Context, "Case Study: Dress4Win")
	assert.Contains(t, pq.Record.Context, "organize their wardrobe")
	assert.NotContains(t, pq.Record.Description, "Company Overview")
}

func TestParseQuestionIgnoresDebrisBeforeTrigger(t *testing.T) {
	pq := ParseQuestion(questionSegment(
		"stray header line\nCase Study: TerramEarth\nQuestion #1 Topic 1\nbody\nA. a\nB. b\n"))

	require.NotNil(t, pq)
	assert.True(t, pq.ContextTriggered)
	assert.Equal(t, "Case Study: TerramEarth", pq.Record.Context)
}

func TestParseQuestionNoMarker(t *testing.T) {
	assert.Nil(t, ParseQuestion(questionSegment("no marker in here\nA. a\nB. b\n")))
}

func TestParseQuestionSkipsCommunityLinesInDescription(t *testing.T) {
	pq := ParseQuestion(questionSegment(
		"Question #6 Topic 1\nreal description line\nSelected Answer: C\nA. a\nB. b\n"))

	require.NotNil(t, pq)
	assert.Equal(t, "real description line", pq.Record.Description)
}

func TestParseQuestionDuplicateOptionLetterKeepsLonger(t *testing.T) {
	pq := ParseQuestion(questionSegment(
		"Question #8 Topic 1\nbody\nA. Create a replicated deployment\nA. Create\nB. second\n"))

	require.NotNil(t, pq)
	assert.Equal(t, "Create a replicated deployment", pq.Record.Options["A"])
}
