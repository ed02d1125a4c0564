package pdftext

import "github.com/examtools/examdump-cli/internal/model"

// DirSource reads question export PDFs from a directory. It satisfies
// the pipeline's page source.
type DirSource struct {
	Dir string
}

// Files lists the export PDFs in numeric order.
func (s DirSource) Files() ([]string, error) {
	return DiscoverFiles(s.Dir)
}

// Pages validates the file, then decodes every page to cleaned text.
func (s DirSource) Pages(path string) ([]model.PageText, error) {
	if err := Validate(path); err != nil {
		return nil, err
	}
	return ExtractPages(path)
}
