package output

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/examtools/examdump-cli/internal/model"
)

// WriteXLSX writes the question table as a spreadsheet with a second
// sheet listing the community comments.
func WriteXLSX(doc *model.Document, path string) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet("Questions")
	if err != nil {
		return eris.Wrap(err, "output: add questions sheet")
	}
	writeRow(sheet, reportColumns)
	for i := range doc.Questions {
		writeRow(sheet, reportRow(&doc.Questions[i]))
	}

	comments, err := f.AddSheet("Community Comments")
	if err != nil {
		return eris.Wrap(err, "output: add comments sheet")
	}
	writeRow(comments, []string{"Question ID", "Username", "Answer", "Kind", "Upvotes", "Posted", "Content"})
	for _, c := range doc.CommunityComments {
		writeRow(comments, []string{
			c.QuestionID,
			c.Username,
			c.Answer,
			string(c.Kind),
			intString(c.VoteCount),
			c.Timestamp,
			truncate(c.Content, maxCellOptions),
		})
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "output: save %s", path)
	}
	return nil
}

func writeRow(sheet *xlsx.Sheet, cells []string) {
	row := sheet.AddRow()
	for _, c := range cells {
		row.AddCell().SetString(c)
	}
}

func intString(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
