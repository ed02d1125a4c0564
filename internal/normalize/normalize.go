package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalizer applies an ordered list of text repairs to extracted fields.
// Apply is idempotent: running it on already-normalized text is a no-op.
type Normalizer struct {
	rules []compiledRule
}

type compiledRule struct {
	literal string
	re      *regexp.Regexp
	replace string
}

// PDF exports of the question bank render certain ligatures and glyphs
// through a broken font map. These literals restore the common casualties.
var defaultLiterals = [][2]string{
	{"ConKgure", "Configure"},
	{"conKgure", "configure"},
	{"ConKg", "Config"},
	{"conKg", "config"},
	{"speciKc", "specific"},
	{"signiKcant", "significant"},
	{"traOc", "traffic"},
	{"eOcient", "efficient"},
	{"solu\"on", "solution"},
	{"applica\"on", "application"},
	{"informa\"on", "information"},
	{"migra\"on", "migration"},
	{"authentica\"on", "authentication"},
	{"configura\"on", "configuration"},
	{"descrip\"on", "description"},
	{"encryp\"on", "encryption"},
	{"func\"on", "function"},
	{"op\"on", "option"},
	{"ques\"on", "question"},
	{"Data^ow", "Dataflow"},
	{"data^ow", "dataflow"},
	{"work^ow", "workflow"},
	{"ﬁ", "fi"},
	{"ﬂ", "fl"},
	{"â€™", "'"},
	{"â€œ", "\""},
	{"â€", "\""},
	{"â€“", "-"},
}

// privateUseRe matches private-use-area glyphs left behind by the PDF's
// icon font, including the voting markers.
var privateUseRe = regexp.MustCompile(`[\x{E000}-\x{F8FF}]`)

var (
	spaceRunRe  = regexp.MustCompile(`[ \t]+`)
	anySpaceRe  = regexp.MustCompile(`\s+`)
	blankLineRe = regexp.MustCompile(`\n{3,}`)
)

// Default returns a Normalizer carrying the built-in repair rules.
func Default() *Normalizer {
	n := &Normalizer{}
	for _, lit := range defaultLiterals {
		n.rules = append(n.rules, compiledRule{literal: lit[0], replace: lit[1]})
	}
	return n
}

// Apply normalizes a single-line field: repair rules, private-use scrub,
// NFC, then whitespace collapsed to single spaces.
func (n *Normalizer) Apply(s string) string {
	s = n.repair(s)
	s = anySpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ApplyBlock normalizes a multi-line field, preserving line breaks.
func (n *Normalizer) ApplyBlock(s string) string {
	s = n.repair(s)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRunRe.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	s = blankLineRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func (n *Normalizer) repair(s string) string {
	for _, r := range n.rules {
		if r.re != nil {
			s = r.re.ReplaceAllString(s, r.replace)
		} else {
			s = strings.ReplaceAll(s, r.literal, r.replace)
		}
	}
	s = privateUseRe.ReplaceAllString(s, "")
	return norm.NFC.String(s)
}
