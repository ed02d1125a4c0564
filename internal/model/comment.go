package model

// VoteKind classifies a community comment by its voting marker.
type VoteKind string

const (
	VoteHighlyVoted    VoteKind = "highly_voted"
	VoteMostRecent     VoteKind = "most_recent"
	VoteSelectedAnswer VoteKind = "selected_answer"
	VotePlain          VoteKind = ""
)

// CommunityComment is one voting comment attached to a question.
type CommunityComment struct {
	QuestionID string   `json:"question_id"`
	Username   string   `json:"username,omitempty"`
	Content    string   `json:"content"`
	Answer     string   `json:"answer,omitempty"`
	Kind       VoteKind `json:"kind,omitempty"`
	VoteCount  int      `json:"vote_count,omitempty"`
	Timestamp  string   `json:"timestamp,omitempty"`
	PageNumber int      `json:"page_number"`
	Source     string   `json:"source"`
}
