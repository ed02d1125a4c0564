package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examtools/examdump-cli/internal/model"
)

func communitySegment(text string) model.Segment {
	return model.Segment{
		Source:     "Questions_1.pdf",
		PageNumber: 2,
		Kind:       model.SegmentCommunity,
		Text:       text,
	}
}

func TestParseCommentsGlyphHead(t *testing.T) {
	comments := ParseComments(communitySegment(
		"  cloud_guru Highly Voted 2 years, 3 months ago\n" +
			"Selected Answer: A\n" +
			"Managed services reduce operational load.\n" +
			"upvoted 12 times\n"))

	require.Len(t, comments, 1)
	c := comments[0]
	assert.Equal(t, "cloud_guru", c.Username)
	assert.Equal(t, "A", c.Answer)
	assert.Equal(t, model.VoteHighlyVoted, c.Kind)
	assert.Equal(t, 12, c.VoteCount)
	assert.Equal(t, "2 years, 3 months ago", c.Timestamp)
	assert.Contains(t, c.Content, "operational load")
}

func TestParseCommentsSplitsAtEachHead(t *testing.T) {
	comments := ParseComments(communitySegment(
		"  alice 2 years ago\nSelected Answer: A\nfirst comment\n" +
			"  bob 3 days ago\nI think the answer is B because pricing changed.\n"))

	require.Len(t, comments, 2)
	assert.Equal(t, "alice", comments[0].Username)
	assert.Equal(t, "A", comments[0].Answer)
	assert.Equal(t, "bob", comments[1].Username)
	assert.Equal(t, "B", comments[1].Answer)
	assert.Equal(t, "3 days ago", comments[1].Timestamp)
}

func TestParseCommentsStandaloneMarkers(t *testing.T) {
	comments := ParseComments(communitySegment(
		"Selected Answer: A\nHighly Voted: A\nMost Recent: B\n"))

	require.Len(t, comments, 3)
	assert.Equal(t, "A", comments[0].Answer)
	assert.Equal(t, model.VoteSelectedAnswer, comments[0].Kind)
	assert.Equal(t, "A", comments[1].Answer)
	assert.Equal(t, model.VoteHighlyVoted, comments[1].Kind)
	assert.Equal(t, "B", comments[2].Answer)
	assert.Equal(t, model.VoteMostRecent, comments[2].Kind)
}

func TestParseCommentsUsernameDateHead(t *testing.T) {
	comments := ParseComments(communitySegment(
		"examfan42 11 months ago\nSelected Answer: D\nbecause of quotas\n"))

	require.Len(t, comments, 1)
	assert.Equal(t, "examfan42", comments[0].Username)
	assert.Equal(t, "D", comments[0].Answer)
	assert.Equal(t, "11 months ago", comments[0].Timestamp)
}

func TestAggregatePlurality(t *testing.T) {
	comments := []model.CommunityComment{
		{Answer: "A"}, {Answer: "B"}, {Answer: "A"}, {Answer: ""},
	}
	votes := Aggregate(comments, TieBreakFirstSeen)
	assert.Equal(t, "A", votes.Community)
}

func TestAggregateTieFirstSeen(t *testing.T) {
	comments := []model.CommunityComment{
		{Answer: "C"}, {Answer: "B"}, {Answer: "B"}, {Answer: "C"},
	}
	votes := Aggregate(comments, TieBreakFirstSeen)
	assert.Equal(t, "C", votes.Community)
}

func TestAggregateTieAlphabetical(t *testing.T) {
	comments := []model.CommunityComment{
		{Answer: "C"}, {Answer: "B"}, {Answer: "B"}, {Answer: "C"},
	}
	votes := Aggregate(comments, TieBreakAlphabetical)
	assert.Equal(t, "B", votes.Community)
}

func TestAggregateBadges(t *testing.T) {
	comments := []model.CommunityComment{
		{Answer: "A", Kind: model.VoteHighlyVoted},
		{Answer: "C", Kind: model.VoteHighlyVoted},
		{Answer: "B", Kind: model.VoteMostRecent},
	}
	votes := Aggregate(comments, TieBreakFirstSeen)
	assert.Equal(t, "A", votes.HighlyVoted)
	assert.Equal(t, "B", votes.MostRecent)
}

func TestAggregateMostRecentFallsBackToNewestDated(t *testing.T) {
	comments := []model.CommunityComment{
		{Answer: "A", Timestamp: "2 years ago"},
		{Answer: "D", Timestamp: "3 days ago"},
		{Answer: "B", Timestamp: "10 months ago"},
	}
	votes := Aggregate(comments, TieBreakFirstSeen)
	assert.Equal(t, "D", votes.MostRecent)
	assert.Equal(t, "3 days ago", votes.LatestDate)
}

func TestAggregateEmpty(t *testing.T) {
	votes := Aggregate(nil, TieBreakFirstSeen)
	assert.Empty(t, votes.Community)
	assert.Empty(t, votes.HighlyVoted)
	assert.Empty(t, votes.MostRecent)
	assert.Empty(t, votes.LatestDate)
}

func TestRelativeAgeOrdering(t *testing.T) {
	assert.Less(t, relativeAge("3 days ago"), relativeAge("2 weeks ago"))
	assert.Less(t, relativeAge("2 weeks ago"), relativeAge("10 months ago"))
	assert.Less(t, relativeAge("10 months ago"), relativeAge("2 years ago"))
	assert.Less(t, relativeAge("1 year, 1 month ago"), relativeAge("2 years ago"))
	assert.Greater(t, relativeAge(""), relativeAge("20 years ago"))
}
