package pipeline

import (
	"regexp"
	"strings"

	"github.com/examtools/examdump-cli/internal/model"
)

// contextTriggers mark case-study preamble that belongs with a question.
var contextTriggers = []string{
	"case study",
	"introductory info",
	"company overview",
	"solution concept",
	"existing technical environment",
	"business requirements",
	"technical requirements",
	"dress4win",
	"terramearth",
	"mountkirk games",
	"jencomart",
}

type option struct {
	letter string
	text   string
}

// optionStrategy is one way of reading answer options out of a segment.
// Strategies are tried in order; the first to find at least two options
// wins. Each is a pure function of the segment lines.
type optionStrategy struct {
	name    string
	extract func(lines []string) ([]option, int)
}

var (
	dottedOptionRe = regexp.MustCompile(`^\s*([A-F])\.\s+(.+)$`)
	parenOptionRe  = regexp.MustCompile(`^\s*([A-F])\)\s+(.+)$`)
	inlineOptionRe = regexp.MustCompile(`(?:^|\s)([A-F])\.\s+`)
)

var optionStrategies = []optionStrategy{
	{name: "dotted", extract: lineOptions(dottedOptionRe)},
	{name: "parenthesized", extract: lineOptions(parenOptionRe)},
	{name: "inline", extract: inlineOptions},
}

// lineOptions builds a strategy for one-option-per-line layouts. Lines
// between option starts are continuations of the previous option.
func lineOptions(re *regexp.Regexp) func(lines []string) ([]option, int) {
	return func(lines []string) ([]option, int) {
		var opts []option
		first := -1
		for i, line := range lines {
			m := re.FindStringSubmatch(line)
			if m != nil {
				if first == -1 {
					first = i
				}
				opts = append(opts, option{letter: m[1], text: strings.TrimSpace(m[2])})
				continue
			}
			if len(opts) > 0 && strings.TrimSpace(line) != "" && !isCommunityLine(line) {
				opts[len(opts)-1].text += " " + strings.TrimSpace(line)
			}
		}
		return opts, first
	}
}

// inlineOptions handles exports that cram all options onto one line.
func inlineOptions(lines []string) ([]option, int) {
	for i, line := range lines {
		locs := inlineOptionRe.FindAllStringSubmatchIndex(line, -1)
		if len(locs) < 2 {
			continue
		}
		var opts []option
		for j, loc := range locs {
			end := len(line)
			if j+1 < len(locs) {
				end = locs[j+1][0]
			}
			opts = append(opts, option{
				letter: line[loc[2]:loc[3]],
				text:   strings.TrimSpace(line[loc[1]:end]),
			})
		}
		return opts, i
	}
	return nil, -1
}

// ParsedQuestion is a question segment after field extraction, before
// community attachment and scoring.
type ParsedQuestion struct {
	Record           model.QuestionRecord
	ContextTriggered bool
	ContextCaptured  bool
	OptionStrategy   string
}

// ParseQuestion extracts the structured fields from a question segment.
// Returns nil if the segment carries no question marker.
func ParseQuestion(seg model.Segment) *ParsedQuestion {
	text := strings.ReplaceAll(seg.Text, `\n`, "\n")
	lines := strings.Split(text, "\n")

	marker := -1
	var number, topic string
	for i, line := range lines {
		if m := questionMarkerRe.FindStringSubmatch(line); m != nil {
			marker = i
			number = m[1]
			if m[2] != "" {
				topic = "Topic " + m[2]
			}
			break
		}
	}
	if marker == -1 {
		return nil
	}
	if topic == "" {
		topic = "General"
	}

	pq := &ParsedQuestion{
		Record: model.QuestionRecord{
			Number:  number,
			Options: map[string]string{},
			Metadata: model.QuestionMetadata{
				Topic:  topic,
				Page:   seg.PageNumber,
				Source: seg.Source,
			},
		},
	}

	pq.ContextTriggered, pq.Record.Context = extractContext(lines[:marker])
	pq.ContextCaptured = pq.Record.Context != ""

	body := lines[marker+1:]
	opts, firstOpt, strategy := extractOptions(body)
	pq.OptionStrategy = strategy
	for _, o := range opts {
		// On a repeated letter keep the longer text; rerendered headers
		// sometimes echo a truncated copy of an option.
		if prev, dup := pq.Record.Options[o.letter]; dup && len(prev) >= len(o.text) {
			continue
		}
		pq.Record.Options[o.letter] = o.text
	}

	descEnd := len(body)
	if firstOpt >= 0 {
		descEnd = firstOpt
	}
	var desc []string
	for _, line := range body[:descEnd] {
		if strings.TrimSpace(line) == "" || isCommunityLine(line) {
			continue
		}
		desc = append(desc, strings.TrimSpace(line))
	}
	pq.Record.Description = strings.Join(desc, " ")

	return pq
}

func extractOptions(lines []string) ([]option, int, string) {
	for _, s := range optionStrategies {
		opts, first := s.extract(lines)
		if len(opts) >= 2 {
			return opts, first, s.name
		}
	}
	return nil, -1, ""
}

// extractContext scans the lines ahead of the question marker for a
// case-study trigger. On a hit, everything from the trigger line down is
// kept verbatim as the question's context.
func extractContext(lines []string) (bool, string) {
	for i, line := range lines {
		lower := strings.ToLower(line)
		for _, trigger := range contextTriggers {
			if strings.Contains(lower, trigger) {
				block := strings.TrimSpace(strings.Join(lines[i:], "\n"))
				return true, block
			}
		}
	}
	return false, ""
}
