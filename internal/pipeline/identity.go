package pipeline

import "fmt"

// Assigner hands out stable question IDs of the form Q{page}_{seq},
// where seq is a per-page running index. IDs are unique across a run:
// collisions (repeated page numbers across files) get bumped suffixes.
type Assigner struct {
	seen    map[string]bool
	pageSeq map[int]int
}

// NewAssigner returns an empty Assigner.
func NewAssigner() *Assigner {
	return &Assigner{
		seen:    map[string]bool{},
		pageSeq: map[int]int{},
	}
}

// Next returns the ID for the next question on the given page. The
// bumped flag reports whether a collision forced a suffix past the
// natural sequence.
func (a *Assigner) Next(page int) (id string, bumped bool) {
	a.pageSeq[page]++
	id = fmt.Sprintf("Q%d_%d", page, a.pageSeq[page])
	for a.seen[id] {
		bumped = true
		a.pageSeq[page]++
		id = fmt.Sprintf("Q%d_%d", page, a.pageSeq[page])
	}
	a.seen[id] = true
	return id, bumped
}

// Reserve marks an existing ID as taken, so merges against a previous
// output never reuse its IDs.
func (a *Assigner) Reserve(id string) {
	a.seen[id] = true
}
