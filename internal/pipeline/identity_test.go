package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/examtools/examdump-cli/internal/model"
)

func TestAssignerPerPageSequence(t *testing.T) {
	a := NewAssigner()

	id, bumped := a.Next(3)
	assert.Equal(t, "Q3_1", id)
	assert.False(t, bumped)

	id, _ = a.Next(3)
	assert.Equal(t, "Q3_2", id)

	id, _ = a.Next(4)
	assert.Equal(t, "Q4_1", id)
}

func TestAssignerCollisionBump(t *testing.T) {
	a := NewAssigner()
	a.Reserve("Q1_1")

	id, bumped := a.Next(1)
	assert.Equal(t, "Q1_2", id)
	assert.True(t, bumped)
}

func TestAssignerIDsUnique(t *testing.T) {
	a := NewAssigner()
	seen := map[string]bool{}
	for page := 1; page <= 5; page++ {
		for i := 0; i < 10; i++ {
			id, _ := a.Next(page)
			assert.False(t, seen[id], "duplicate id %s", id)
			seen[id] = true
		}
	}
}

func TestJaccardIdentical(t *testing.T) {
	assert.InDelta(t, 1.0, Jaccard("migrate the data warehouse", "migrate the data warehouse"), 1e-9)
}

func TestJaccardDisjoint(t *testing.T) {
	assert.InDelta(t, 0.0, Jaccard("alpha beta gamma", "delta epsilon zeta"), 1e-9)
}

func TestJaccardIgnoresCaseAndPunctuation(t *testing.T) {
	assert.InDelta(t, 1.0, Jaccard("Migrate, the warehouse.", "migrate the warehouse"), 1e-9)
}

func TestJaccardEmpty(t *testing.T) {
	assert.InDelta(t, 1.0, Jaccard("", ""), 1e-9)
	assert.InDelta(t, 0.0, Jaccard("words here", ""), 1e-9)
}

func TestFindDuplicatesFlagsWithoutMerging(t *testing.T) {
	questions := []model.QuestionRecord{
		{ID: "Q1_1", Description: "migrate the on premises data warehouse to a managed service"},
		{ID: "Q2_1", Description: "migrate the on premises data warehouse to a managed service today"},
		{ID: "Q3_1", Description: "configure firewall rules for the internal subnet"},
	}

	pairs := FindDuplicates(questions, 0.8)
	assert.Len(t, pairs, 1)
	assert.Equal(t, "Q1_1", pairs[0].FirstID)
	assert.Equal(t, "Q2_1", pairs[0].SecondID)
	assert.GreaterOrEqual(t, pairs[0].Similarity, 0.8)
	// Flagging leaves both records in the set.
	assert.Len(t, questions, 3)
}

func TestFindDuplicatesBelowThreshold(t *testing.T) {
	questions := []model.QuestionRecord{
		{ID: "Q1_1", Description: "completely different first question about storage"},
		{ID: "Q2_1", Description: "another unrelated question about networking instead"},
	}
	assert.Empty(t, FindDuplicates(questions, 0.8))
}
