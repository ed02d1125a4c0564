package model

import "time"

// RunStatus is the lifecycle state of an extraction run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunStats summarizes what an extraction run processed.
type RunStats struct {
	Files      int `json:"files"`
	Pages      int `json:"pages"`
	Questions  int `json:"questions"`
	Comments   int `json:"comments"`
	Warnings   int `json:"warnings"`
	Duplicates int `json:"duplicates"`
	Analyzed   int `json:"analyzed"`
	Failed     int `json:"failed"`
}

// Run is one entry in the extraction run ledger.
type Run struct {
	ID          string     `json:"id"`
	InputDir    string     `json:"input_dir"`
	Status      RunStatus  `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Stats       RunStats   `json:"stats"`
	Error       string     `json:"error,omitempty"`
}
