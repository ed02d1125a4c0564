package model

// PageText holds the cleaned text of a single PDF page.
type PageText struct {
	Source     string `json:"source"`
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}

// SegmentKind classifies a span of page text.
type SegmentKind string

const (
	// SegmentQuestion covers a question marker through its options.
	SegmentQuestion SegmentKind = "question"
	// SegmentCommunity covers voting commentary that follows a question.
	SegmentCommunity SegmentKind = "community"
)

// Segment is a contiguous span of page text produced by boundary detection.
// Position is the running index of the segment within its page.
type Segment struct {
	Source     string      `json:"source"`
	PageNumber int         `json:"page_number"`
	Kind       SegmentKind `json:"kind"`
	Position   int         `json:"position"`
	Text       string      `json:"text"`
}
