package xlcodec

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// Comment is a cell note. Threaded comments are not read or written, so
// Threaded is always false.
type Comment struct {
	Cell     string `yaml:"cell" json:"cell" validate:"required"`
	Text     string `yaml:"text" json:"text"`
	Author   string `yaml:"author,omitempty" json:"author,omitempty"`
	Threaded bool   `yaml:"threaded" json:"threaded"`
}

// defaultCommentAuthor is stored when a comment is added without an author.
const defaultCommentAuthor = "Author"

// Comments lists the notes of a sheet in document order.
func (w *Workbook) Comments(sheet string) ([]Comment, error) {
	if err := w.checkSheet(sheet); err != nil {
		return nil, err
	}
	cmts, err := w.file.GetComments(sheet)
	if err != nil {
		return nil, documentError("read comments", err)
	}
	out := make([]Comment, 0, len(cmts))
	for _, c := range cmts {
		out = append(out, Comment{Cell: c.Cell, Text: commentText(c), Author: c.Author})
	}
	return out, nil
}

// commentText prefers the rich text runs and falls back to the plain text
// node.
func commentText(c excelize.Comment) string {
	if len(c.Paragraph) == 0 {
		return c.Text
	}
	var b strings.Builder
	for _, run := range c.Paragraph {
		b.WriteString(run.Text)
	}
	return b.String()
}

// AddComment attaches a note to a cell as a single text run, replacing the
// note the cell had.
func (w *Workbook) AddComment(sheet string, c Comment) error {
	if err := w.checkSheet(sheet); err != nil {
		return err
	}
	if err := checkRecord(c); err != nil {
		return err
	}
	cell, err := cellName(c.Cell)
	if err != nil {
		return err
	}
	existing, err := w.file.GetComments(sheet)
	if err != nil {
		return documentError("read comments", err)
	}
	for _, e := range existing {
		if e.Cell == cell {
			if err := w.file.DeleteComment(sheet, cell); err != nil {
				return documentError("replace comment", err)
			}
			break
		}
	}
	author := c.Author
	if author == "" {
		author = defaultCommentAuthor
	}
	return documentError("add comment", w.file.AddComment(sheet, excelize.Comment{
		Cell:      cell,
		Author:    author,
		Paragraph: []excelize.RichTextRun{{Text: c.Text}},
	}))
}
