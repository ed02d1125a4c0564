package model

// DocumentMetadata describes a generated question set.
type DocumentMetadata struct {
	GeneratedAt    string `json:"generated_at"`
	TotalQuestions int    `json:"total_questions"`
	Version        string `json:"version"`
}

// Filters lists the distinct values the web UI can filter on.
type Filters struct {
	Topics        []string `json:"topics"`
	Sources       []string `json:"sources"`
	AnswerOptions []string `json:"answer_options"`
}

// Document is the full structured output of an extraction run. It is the
// JSON shape consumed by the web UI and the input to every other exporter.
type Document struct {
	Metadata          DocumentMetadata   `json:"metadata"`
	Filters           Filters            `json:"filters"`
	Questions         []QuestionRecord   `json:"questions"`
	CommunityComments []CommunityComment `json:"community_comments"`
	Warnings          []Warning          `json:"warnings"`
	Duplicates        []DuplicatePair    `json:"duplicates"`
}
