package pdftext

import (
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rotisserie/eris"
)

// Validate checks that the file at path is a structurally sound PDF with
// at least one page. Invalid files are reported so the caller can skip
// them instead of failing the whole run.
func Validate(path string) error {
	if err := api.ValidateFile(path, nil); err != nil {
		return eris.Wrapf(err, "pdftext: validate %s", path)
	}

	n, err := api.PageCountFile(path)
	if err != nil {
		return eris.Wrapf(err, "pdftext: page count %s", path)
	}
	if n == 0 {
		return eris.Errorf("pdftext: %s has no pages", path)
	}
	return nil
}
