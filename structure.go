package xlcodec

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// RowHeight returns the explicit height of a 1-based row. ok is false when
// the row carries no positive height.
func (w *Workbook) RowHeight(sheet string, row int) (height float64, ok bool, err error) {
	if err := w.checkSheet(sheet); err != nil {
		return 0, false, err
	}
	if err := checkRow(row); err != nil {
		return 0, false, err
	}
	part, err := w.sheetPart(sheet)
	if err != nil {
		return 0, false, err
	}
	for _, r := range part.Rows {
		if r.R == row && r.Ht > 0 {
			return r.Ht, true, nil
		}
	}
	return 0, false, nil
}

// SetRowHeight sets the height of a 1-based row in points. A non-positive
// height removes the explicit height.
func (w *Workbook) SetRowHeight(sheet string, row int, height float64) error {
	if err := w.checkSheet(sheet); err != nil {
		return err
	}
	if err := checkRow(row); err != nil {
		return err
	}
	if height > excelize.MaxRowHeight {
		return fmt.Errorf("%w: row height %v exceeds %d", ErrNumericOverflow, height, excelize.MaxRowHeight)
	}
	if height <= 0 {
		height = -1
	}
	return documentError("set row height", w.file.SetRowHeight(sheet, row, height))
}

// ColumnWidth returns the explicit width of a column given by letters. ok
// is false when no positive width covers the column.
func (w *Workbook) ColumnWidth(sheet, col string) (width float64, ok bool, err error) {
	if err := w.checkSheet(sheet); err != nil {
		return 0, false, err
	}
	n, err := ColumnNumber(col)
	if err != nil {
		return 0, false, err
	}
	part, err := w.sheetPart(sheet)
	if err != nil {
		return 0, false, err
	}
	for _, c := range part.Cols {
		if n >= c.Min && n <= c.Max && c.Width > 0 {
			return c.Width, true, nil
		}
	}
	return 0, false, nil
}

// SetColumnWidth sets the width of a column given by letters, in characters.
func (w *Workbook) SetColumnWidth(sheet, col string, width float64) error {
	if err := w.checkSheet(sheet); err != nil {
		return err
	}
	n, err := ColumnNumber(col)
	if err != nil {
		return err
	}
	if width <= 0 {
		return fmt.Errorf("%w: column width %v must be positive", ErrInvalidEnumValue, width)
	}
	if width > excelize.MaxColumnWidth {
		return fmt.Errorf("%w: column width %v exceeds %d", ErrNumericOverflow, width, excelize.MaxColumnWidth)
	}
	name := ColToName(n - 1)
	return documentError("set column width", w.file.SetColWidth(sheet, name, name, width))
}

func checkRow(row int) error {
	if row < 1 || row > maxRows {
		return fmt.Errorf("%w: row %d (want 1..%d)", ErrInvalidReference, row, maxRows)
	}
	return nil
}

// MergeCells merges a rectangular range.
func (w *Workbook) MergeCells(sheet, ref string) error {
	if err := w.checkSheet(sheet); err != nil {
		return err
	}
	area, err := w.area(ref)
	if err != nil {
		return err
	}
	return documentError("merge cells", w.file.MergeCell(sheet, area.First.CellName(), area.Last.CellName()))
}

// UnmergeCells removes the merge whose range equals ref, ignoring case and
// surrounding space. Nothing happens when no merge matches.
func (w *Workbook) UnmergeCells(sheet, ref string) error {
	if err := w.checkSheet(sheet); err != nil {
		return err
	}
	target := canonicalKey(ref)
	if canon, err := CanonicalRange(ref); err == nil {
		target = canonicalKey(canon)
	}
	merges, err := w.file.GetMergeCells(sheet, true)
	if err != nil {
		return documentError("read merged cells", err)
	}
	for _, m := range merges {
		if canonicalKey(m[0]) != target {
			continue
		}
		return documentError("unmerge cells", w.file.UnmergeCell(sheet, m.GetStartAxis(), m.GetEndAxis()))
	}
	return nil
}

// MergedRanges lists the merged ranges of a sheet in document order.
func (w *Workbook) MergedRanges(sheet string) ([]string, error) {
	if err := w.checkSheet(sheet); err != nil {
		return nil, err
	}
	merges, err := w.file.GetMergeCells(sheet, true)
	if err != nil {
		return nil, documentError("read merged cells", err)
	}
	out := make([]string, 0, len(merges))
	for _, m := range merges {
		out = append(out, m[0])
	}
	return out, nil
}

// area parses a single rectangular range.
func (w *Workbook) area(ref string) (AreaRef, error) {
	canon, err := w.rangeRef(ref)
	if err != nil {
		return AreaRef{}, err
	}
	return ParseAreaRef(canon)
}

// PaneSettings is the pane state of a sheet view. Split positions count
// columns and rows for frozen panes and twips for split panes.
type PaneSettings struct {
	Freeze      bool   `yaml:"freeze" json:"freeze"`
	Split       bool   `yaml:"split" json:"split"`
	XSplit      int    `yaml:"x_split" json:"x_split"`
	YSplit      int    `yaml:"y_split" json:"y_split"`
	TopLeftCell string `yaml:"top_left_cell,omitempty" json:"top_left_cell,omitempty"`
	ActivePane  string `yaml:"active_pane,omitempty" json:"active_pane,omitempty"`
}

// FreezePanes returns the top-left unfrozen cell, or "" when the sheet has
// no frozen panes.
func (w *Workbook) FreezePanes(sheet string) (string, error) {
	p, err := w.Panes(sheet)
	if err != nil || !p.Freeze {
		return "", err
	}
	if p.TopLeftCell == "" || p.TopLeftCell == "A1" {
		return "", nil
	}
	return p.TopLeftCell, nil
}

// SetFreezePanes freezes the rows above and the columns left of ref. An
// empty ref or A1 clears every pane.
func (w *Workbook) SetFreezePanes(sheet, ref string) error {
	if err := w.checkSheet(sheet); err != nil {
		return err
	}
	if ref == "" {
		return w.clearPanes(sheet)
	}
	c, err := ParseCellRef(ref)
	if err != nil {
		return err
	}
	xSplit, ySplit := c.Col, c.Row
	if xSplit == 0 && ySplit == 0 {
		return w.clearPanes(sheet)
	}
	// Only the two bottom quadrants are used: bottomLeft for frozen rows
	// alone, bottomRight whenever columns are frozen.
	active := "bottomRight"
	if xSplit == 0 {
		active = "bottomLeft"
	}
	cell := c.CellName()
	return documentError("set panes", w.file.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      xSplit,
		YSplit:      ySplit,
		TopLeftCell: cell,
		ActivePane:  active,
		Selection:   []excelize.Selection{{SQRef: cell, ActiveCell: cell, Pane: active}},
	}))
}

func (w *Workbook) clearPanes(sheet string) error {
	return documentError("clear panes", w.file.SetPanes(sheet, &excelize.Panes{}))
}

// Panes reports the pane state of a sheet. A pane that is not frozen but
// has a split position is reported as a split pane.
func (w *Workbook) Panes(sheet string) (PaneSettings, error) {
	if err := w.checkSheet(sheet); err != nil {
		return PaneSettings{}, err
	}
	p, err := w.file.GetPanes(sheet)
	if err != nil {
		return PaneSettings{}, documentError("read panes", err)
	}
	return PaneSettings{
		Freeze:      p.Freeze,
		Split:       !p.Freeze && (p.XSplit > 0 || p.YSplit > 0),
		XSplit:      p.XSplit,
		YSplit:      p.YSplit,
		TopLeftCell: p.TopLeftCell,
		ActivePane:  p.ActivePane,
	}, nil
}

// SetPanes writes pane state directly. Freeze takes precedence over Split;
// with neither set every pane is cleared.
func (w *Workbook) SetPanes(sheet string, s PaneSettings) error {
	if err := w.checkSheet(sheet); err != nil {
		return err
	}
	if !s.Freeze && !s.Split {
		return w.clearPanes(sheet)
	}
	if s.XSplit < 0 || s.YSplit < 0 {
		return fmt.Errorf("%w: negative split (%d, %d)", ErrInvalidReference, s.XSplit, s.YSplit)
	}
	panes := &excelize.Panes{
		Freeze:     s.Freeze,
		Split:      !s.Freeze,
		XSplit:     s.XSplit,
		YSplit:     s.YSplit,
		ActivePane: s.ActivePane,
	}
	if s.TopLeftCell != "" {
		cell, err := cellName(s.TopLeftCell)
		if err != nil {
			return err
		}
		panes.TopLeftCell = cell
	}
	return documentError("set panes", w.file.SetPanes(sheet, panes))
}
