package pdftext

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/examtools/examdump-cli/internal/model"
)

// exportNameRe matches the per-page export files the question bank site
// produces, e.g. Questions_3.pdf.
var exportNameRe = regexp.MustCompile(`^Questions_(\d+)\.pdf$`)

// DiscoverFiles lists the question export PDFs in dir, sorted by the
// numeric suffix in the file name so page order follows document order.
func DiscoverFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "pdftext: read dir %s", dir)
	}

	type numbered struct {
		path string
		n    int
	}
	var files []numbered
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := exportNameRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		files = append(files, numbered{path: filepath.Join(dir, e.Name()), n: n})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].n < files[j].n })

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	return paths, nil
}

// FileNumber returns the numeric suffix of an export file name, or 0 if
// the name does not match the export pattern.
func FileNumber(path string) int {
	m := exportNameRe.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// ExtractPages decodes every page of the PDF at path into cleaned text.
// Pages that fail to decode are skipped with a warning log; the rest of
// the file is still processed.
func ExtractPages(path string) ([]model.PageText, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "pdftext: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	source := filepath.Base(path)
	var pages []model.PageText
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := pageText(page)
		if err != nil {
			zap.L().Warn("page decode failed",
				zap.String("file", source),
				zap.Int("page", i),
				zap.Error(err),
			)
			continue
		}

		pages = append(pages, model.PageText{
			Source:     source,
			PageNumber: i,
			Text:       CleanArtifacts(text),
		})
	}
	return pages, nil
}

// pageText rebuilds line-oriented text from positioned glyph runs. Runs
// are grouped into lines by Y coordinate, then ordered left to right.
func pageText(page pdf.Page) (_ string, err error) {
	defer func() {
		// The decoder panics on malformed content streams.
		if r := recover(); r != nil {
			err = eris.Errorf("pdftext: content stream: %v", r)
		}
	}()

	content := page.Content()
	if len(content.Text) == 0 {
		return "", nil
	}

	type line struct {
		y    float64
		runs []pdf.Text
	}
	const yTolerance = 2.0

	var lines []*line
	for _, t := range content.Text {
		var match *line
		for _, l := range lines {
			if t.Y >= l.y-yTolerance && t.Y <= l.y+yTolerance {
				match = l
				break
			}
		}
		if match == nil {
			match = &line{y: t.Y}
			lines = append(lines, match)
		}
		match.runs = append(match.runs, t)
	}

	// PDF coordinates grow upward, so higher Y comes first.
	sort.Slice(lines, func(i, j int) bool { return lines[i].y > lines[j].y })

	var b strings.Builder
	for i, l := range lines {
		sort.Slice(l.runs, func(a, c int) bool { return l.runs[a].X < l.runs[c].X })
		if i > 0 {
			b.WriteByte('\n')
		}
		prevEnd := -1.0
		for _, r := range l.runs {
			// Insert a space when runs are visually separated.
			if prevEnd >= 0 && r.X-prevEnd > 1.0 && !strings.HasPrefix(r.S, " ") {
				b.WriteByte(' ')
			}
			b.WriteString(r.S)
			prevEnd = r.X + r.W
		}
	}
	return b.String(), nil
}
