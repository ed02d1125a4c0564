package pipeline

import (
	"regexp"
	"strings"

	"github.com/examtools/examdump-cli/internal/model"
)

// questionMarkerRe anchors a question segment. The topic clause is
// optional; some exports omit it.
var questionMarkerRe = regexp.MustCompile(`(?i)Question\s*#\s*(\d+)(?:\s+Topic\s+(\d+))?`)

// Community comments in the export are rendered with a pair of icon-font
// glyphs (a comment bubble and a user silhouette) ahead of the username.
var commentGlyphRe = regexp.MustCompile(`\x{f147}\s*\x{f007}`)

var (
	voteBadgeRe    = regexp.MustCompile(`(?i)\b(Highly Voted|Most Recent)\b`)
	selectedRe     = regexp.MustCompile(`(?i)Selected Answer\s*:`)
	upvotedRe      = regexp.MustCompile(`(?i)\bupvoted\s+(\d+)\s+times?\b`)
	relativeDateRe = regexp.MustCompile(`(?i)\b(\d+)\s+(years?|months?|weeks?|days?|hours?|minutes?)(?:\s*,\s*\d+\s+(?:months?|weeks?|days?|hours?))?\s+ago\b`)
	userHeadRe     = regexp.MustCompile(`(?i)^\s*\S{3,30}\s+\d+\s+(years?|months?|weeks?|days?|hours?|minutes?)(\s*,\s*\d+\s+(months?|weeks?|days?|hours?))?\s+ago\b`)
)

// ContainsCommunityMarker reports whether text carries any community
// voting marker. Finalized question fields must never satisfy this.
func ContainsCommunityMarker(text string) bool {
	return commentGlyphRe.MatchString(text) ||
		voteBadgeRe.MatchString(text) ||
		selectedRe.MatchString(text) ||
		upvotedRe.MatchString(text)
}

// isCommentHead reports whether a line starts a new community comment.
func isCommentHead(line string) bool {
	return commentGlyphRe.MatchString(line) || userHeadRe.MatchString(line)
}

// isCommunityLine reports whether a line belongs to community content.
func isCommunityLine(line string) bool {
	return ContainsCommunityMarker(line) || userHeadRe.MatchString(line)
}

// DetectSegments splits a page into question and community segments.
//
// A question segment opens at each question marker and runs to the next
// marker or end of page, except that the first community marker inside
// it closes the question and opens a community segment. Community lines
// at the top of a page (a thread spilling over a page break) open a
// community segment directly. Other lines ahead of the first marker are
// case-study preamble, prepended to the first question segment. Pages
// with no markers and no community lines yield no segments.
func DetectSegments(page model.PageText) []model.Segment {
	lines := strings.Split(page.Text, "\n")

	var segments []model.Segment
	var preamble []string
	var current []string
	var kind model.SegmentKind

	flush := func() {
		if len(current) == 0 {
			return
		}
		text := strings.TrimSpace(strings.Join(current, "\n"))
		current = nil
		if text == "" {
			return
		}
		segments = append(segments, model.Segment{
			Source:     page.Source,
			PageNumber: page.PageNumber,
			Kind:       kind,
			Position:   len(segments),
			Text:       text,
		})
	}

	seenQuestion := false
	for _, line := range lines {
		switch {
		case questionMarkerRe.MatchString(line):
			flush()
			kind = model.SegmentQuestion
			if !seenQuestion && len(preamble) > 0 {
				current = append(current, preamble...)
				preamble = nil
			}
			seenQuestion = true
			current = append(current, line)

		case kind == model.SegmentCommunity && isCommentHead(line):
			flush()
			kind = model.SegmentCommunity
			current = append(current, line)

		case kind != model.SegmentCommunity && isCommunityLine(line):
			// Opens from inside a question, or at the top of a page when
			// a comment thread continues across the page break.
			flush()
			kind = model.SegmentCommunity
			current = append(current, line)

		case kind == model.SegmentCommunity:
			current = append(current, line)

		case seenQuestion:
			current = append(current, line)

		default:
			preamble = append(preamble, line)
		}
	}
	flush()

	return segments
}
