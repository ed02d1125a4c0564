package pdftext

import (
	"regexp"
	"strings"
)

var (
	siteURLRe    = regexp.MustCompile(`https?://\S*examtopics\.com\S*`)
	pageFooterRe = regexp.MustCompile(`(?mi)^[ \t]*Page[ \t]+\d+(?:[ \t]+of[ \t]+\d+)?[ \t]*(?:\n|\z)`)
	bareNumberRe = regexp.MustCompile(`(?m)^[ \t]*\d{1,4}[ \t]*(?:\n|\z)`)
	hyphenWrapRe = regexp.MustCompile(`([a-z])-\n([a-z])`)
)

// CleanArtifacts strips per-page export debris from raw page text: the
// source site's URL banner, page footers, bare line numbers, and words
// broken across lines by hyphenation. Question content is left intact.
func CleanArtifacts(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = siteURLRe.ReplaceAllString(text, "")
	text = pageFooterRe.ReplaceAllString(text, "")
	text = bareNumberRe.ReplaceAllString(text, "")
	text = hyphenWrapRe.ReplaceAllString(text, "$1$2")

	// Collapse the blank lines left behind by the removals.
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, strings.TrimRight(line, " \t"))
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
