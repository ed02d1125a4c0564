package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/examtools/examdump-cli/internal/model"
)

var (
	selectedAnswerRe = regexp.MustCompile(`(?i)Selected Answer\s*:\s*([A-F])\b`)
	statedAnswerRe   = regexp.MustCompile(`(?i)\b(?:answer|ans)\s*(?:is|:)\s*([A-F])\b`)
	badgeAnswerRe    = regexp.MustCompile(`(?i)^\s*(?:Highly Voted|Most Recent)\s*:?\s*([A-F])\s*$`)

	// standaloneMarkerRe matches a marker line that is a whole comment by
	// itself, e.g. "Highly Voted: A" with no username around it.
	standaloneMarkerRe = regexp.MustCompile(`(?i)^\s*(?:Selected Answer|Highly Voted|Most Recent)\s*:?\s*[A-F]\s*$`)

	highlyVotedRe = regexp.MustCompile(`(?i)\bHighly Voted\b`)
	mostRecentRe  = regexp.MustCompile(`(?i)\bMost Recent\b`)

	ageUnitRe = regexp.MustCompile(`(?i)(\d+)\s+(years?|months?|weeks?|days?|hours?|minutes?)`)
)

// ParseComments splits a community segment into individual comments.
//
// A new comment starts at each comment head line (icon glyphs or a
// username followed by a relative date). A standalone marker line also
// starts a new comment, but only when the current block has no head;
// inside a real comment, "Selected Answer: X" stays with its author.
func ParseComments(seg model.Segment) []model.CommunityComment {
	lines := strings.Split(seg.Text, "\n")

	var blocks [][]string
	var current []string
	headSeen := false

	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, current)
		}
		current = nil
		headSeen = false
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		switch {
		case isCommentHead(line):
			flush()
			headSeen = true
		case standaloneMarkerRe.MatchString(line) && !headSeen && len(current) > 0:
			flush()
		}
		current = append(current, line)
	}
	flush()

	comments := make([]model.CommunityComment, 0, len(blocks))
	for _, block := range blocks {
		comments = append(comments, parseBlock(seg, block))
	}
	return comments
}

func parseBlock(seg model.Segment, block []string) model.CommunityComment {
	text := strings.Join(block, "\n")

	c := model.CommunityComment{
		Content:    strings.TrimSpace(text),
		PageNumber: seg.PageNumber,
		Source:     seg.Source,
	}

	switch {
	case highlyVotedRe.MatchString(text):
		c.Kind = model.VoteHighlyVoted
	case mostRecentRe.MatchString(text):
		c.Kind = model.VoteMostRecent
	case selectedAnswerRe.MatchString(text):
		c.Kind = model.VoteSelectedAnswer
	}

	if m := selectedAnswerRe.FindStringSubmatch(text); m != nil {
		c.Answer = strings.ToUpper(m[1])
	} else if m := statedAnswerRe.FindStringSubmatch(text); m != nil {
		c.Answer = strings.ToUpper(m[1])
	} else if m := badgeAnswerRe.FindStringSubmatch(block[0]); m != nil {
		c.Answer = strings.ToUpper(m[1])
	}

	if m := upvotedRe.FindStringSubmatch(text); m != nil {
		c.VoteCount, _ = strconv.Atoi(m[1])
	}

	c.Timestamp = relativeDateRe.FindString(text)
	c.Username = extractUsername(block[0])

	return c
}

// extractUsername pulls the author from a comment head line. The head
// renders as glyphs, username, optional badge, then the relative date.
func extractUsername(head string) string {
	head = commentGlyphRe.ReplaceAllString(head, "")
	head = voteBadgeRe.ReplaceAllString(head, "")
	if loc := relativeDateRe.FindStringIndex(head); loc != nil {
		head = head[:loc[0]]
	}
	if standaloneMarkerRe.MatchString(head) || selectedRe.MatchString(head) {
		return ""
	}
	fields := strings.Fields(head)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// relativeAge converts a relative date like "2 years, 3 months ago" to
// an approximate age in days. Smaller is more recent. Unparseable or
// missing timestamps report a very large age.
func relativeAge(timestamp string) float64 {
	if timestamp == "" {
		return 1 << 30
	}
	total := 0.0
	for _, m := range ageUnitRe.FindAllStringSubmatch(timestamp, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		switch strings.ToLower(strings.TrimSuffix(m[2], "s")) {
		case "year":
			total += float64(n) * 365
		case "month":
			total += float64(n) * 30
		case "week":
			total += float64(n) * 7
		case "day":
			total += float64(n)
		case "hour":
			total += float64(n) / 24
		case "minute":
			total += float64(n) / 1440
		}
	}
	if total == 0 && !strings.ContainsAny(timestamp, "0123456789") {
		return 1 << 30
	}
	return total
}

// TieBreak selects among answer letters tied for the plurality vote.
type TieBreak string

const (
	// TieBreakFirstSeen keeps the tied letter that appeared first in
	// document order.
	TieBreakFirstSeen TieBreak = "first_seen"
	// TieBreakAlphabetical keeps the alphabetically smallest tied letter.
	TieBreakAlphabetical TieBreak = "alphabetical"
)

// VoteSummary is the aggregate of one question's community comments.
type VoteSummary struct {
	Community   string
	HighlyVoted string
	MostRecent  string
	LatestDate  string
}

// Aggregate reduces a question's comments to its voted answers. The
// plurality of all expressed answers becomes the community answer, the
// first Highly Voted comment supplies the highly voted answer, and the
// Most Recent badge (or failing that, the newest dated comment with an
// answer) supplies the most recent answer.
func Aggregate(comments []model.CommunityComment, tie TieBreak) VoteSummary {
	var s VoteSummary

	counts := map[string]int{}
	firstSeen := map[string]int{}
	for i, c := range comments {
		if c.Answer == "" {
			continue
		}
		counts[c.Answer]++
		if _, ok := firstSeen[c.Answer]; !ok {
			firstSeen[c.Answer] = i
		}
	}

	best := ""
	for letter, n := range counts {
		if best == "" {
			best = letter
			continue
		}
		switch {
		case n > counts[best]:
			best = letter
		case n == counts[best]:
			if tie == TieBreakAlphabetical {
				if letter < best {
					best = letter
				}
			} else if firstSeen[letter] < firstSeen[best] {
				best = letter
			}
		}
	}
	s.Community = best

	for _, c := range comments {
		if c.Kind == model.VoteHighlyVoted && c.Answer != "" {
			s.HighlyVoted = c.Answer
			break
		}
	}

	for _, c := range comments {
		if c.Kind == model.VoteMostRecent && c.Answer != "" {
			s.MostRecent = c.Answer
			break
		}
	}
	if s.MostRecent == "" {
		bestAge := float64(1 << 30)
		for _, c := range comments {
			if c.Answer == "" || c.Timestamp == "" {
				continue
			}
			if age := relativeAge(c.Timestamp); age < bestAge {
				bestAge = age
				s.MostRecent = c.Answer
			}
		}
	}

	bestAge := float64(1 << 30)
	for _, c := range comments {
		if c.Timestamp == "" {
			continue
		}
		if age := relativeAge(c.Timestamp); age < bestAge {
			bestAge = age
			s.LatestDate = c.Timestamp
		}
	}

	return s
}
