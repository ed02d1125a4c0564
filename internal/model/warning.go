package model

// WarningKind identifies a class of extraction quality issue.
type WarningKind string

const (
	WarnNoMarkers        WarningKind = "no_question_markers"
	WarnShortDescription WarningKind = "short_description"
	WarnFewOptions       WarningKind = "few_options"
	WarnDuplicateID      WarningKind = "duplicate_id"
	WarnContextMissed    WarningKind = "context_not_captured"
	WarnOrphanComment    WarningKind = "orphan_community_comment"
	WarnAnalysisFailed   WarningKind = "analysis_failed"
	WarnMalformedAnswer  WarningKind = "malformed_answer"
	WarnFileSkipped      WarningKind = "file_skipped"
)

// Warning records a non-fatal extraction problem. Warnings never abort the
// run; they accompany the output so degraded records can be reviewed.
type Warning struct {
	Kind       WarningKind `json:"kind"`
	QuestionID string      `json:"question_id,omitempty"`
	Source     string      `json:"source,omitempty"`
	Page       int         `json:"page,omitempty"`
	Detail     string      `json:"detail"`
}
