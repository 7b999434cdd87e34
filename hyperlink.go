package xlcodec

import (
	"cmp"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Hyperlink is a clickable link anchored on one cell. An internal link
// targets a location inside the workbook ("Sheet2!A1"); any other link
// targets an external address.
type Hyperlink struct {
	Cell     string `yaml:"cell" json:"cell" validate:"required"`
	Target   string `yaml:"target" json:"target" validate:"required"`
	Tooltip  string `yaml:"tooltip,omitempty" json:"tooltip,omitempty"`
	Internal bool   `yaml:"internal" json:"internal"`
	Display  string `yaml:"display,omitempty" json:"display,omitempty"`
}

// Hyperlinks lists the links of a sheet in row-major cell order.
func (w *Workbook) Hyperlinks(sheet string) ([]Hyperlink, error) {
	if err := w.checkSheet(sheet); err != nil {
		return nil, err
	}
	part, err := w.sheetPart(sheet)
	if err != nil {
		return nil, err
	}
	links := make([]Hyperlink, 0, len(part.Hyperlinks))
	for _, h := range part.Hyperlinks {
		link := Hyperlink{
			Cell:    h.Ref,
			Tooltip: h.Tooltip,
			Display: h.Display,
		}
		if h.Target != "" {
			// Targets written by some producers keep one level of entity
			// escaping.
			link.Target = strings.ReplaceAll(h.Target, "&amp;", "&")
		} else {
			link.Target = h.Location
			link.Internal = true
		}
		links = append(links, link)
	}
	slices.SortStableFunc(links, func(a, b Hyperlink) int {
		ra, errA := ParseCellRef(a.Cell)
		rb, errB := ParseCellRef(b.Cell)
		if errA != nil || errB != nil {
			return 0
		}
		return cmp.Or(cmp.Compare(ra.Row, rb.Row), cmp.Compare(ra.Col, rb.Col))
	})
	return links, nil
}

// AddHyperlink attaches a link to a cell, replacing any link it had.
func (w *Workbook) AddHyperlink(sheet string, link Hyperlink) error {
	if err := w.checkSheet(sheet); err != nil {
		return err
	}
	if err := checkRecord(link); err != nil {
		return err
	}
	cell, err := cellName(link.Cell)
	if err != nil {
		return err
	}
	linkType := "External"
	if link.Internal {
		linkType = "Location"
	}
	var opts excelize.HyperlinkOpts
	if link.Tooltip != "" {
		opts.Tooltip = &link.Tooltip
	}
	if link.Display != "" {
		opts.Display = &link.Display
	}
	return documentError("add hyperlink", w.file.SetCellHyperLink(sheet, cell, link.Target, linkType, opts))
}
