package xlcodec

import (
	"fmt"
	"strconv"
	"strings"
)

// maxColumns is the widest column OOXML allows (XFD).
const maxColumns = 16384

// maxRows is the tallest sheet OOXML allows.
const maxRows = 1048576

// CellRef represents a single cell reference in a workbook.
type CellRef struct {
	Sheet string // sheet name (empty = current sheet)
	Row   int    // 0-based row index
	Col   int    // 0-based column index
}

// NewCellRef creates a CellRef with explicit sheet, row, col.
func NewCellRef(sheet string, row, col int) CellRef {
	return CellRef{Sheet: sheet, Row: row, Col: col}
}

// ParseCellRef parses a cell reference string like "A1", "Sheet1!B5", or "$A$1".
func ParseCellRef(s string) (CellRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CellRef{}, fmt.Errorf("%w: empty cell reference", ErrInvalidReference)
	}

	var sheet string
	cellPart := s

	if idx := strings.LastIndex(s, "!"); idx >= 0 {
		sheet = strings.Trim(s[:idx], "'")
		cellPart = s[idx+1:]
	}

	cellPart = strings.ReplaceAll(cellPart, "$", "")
	col, row, err := parseCellName(cellPart)
	if err != nil {
		return CellRef{}, fmt.Errorf("%w %q: %v", ErrInvalidReference, s, err)
	}

	return CellRef{Sheet: sheet, Row: row, Col: col}, nil
}

// parseCellName parses "A1" into col=0, row=0. Letters must come first.
func parseCellName(name string) (col, row int, err error) {
	if len(name) == 0 {
		return 0, 0, fmt.Errorf("empty cell name")
	}

	i := 0
	for i < len(name) && isAlpha(name[i]) {
		i++
	}
	if i == 0 {
		return 0, 0, fmt.Errorf("missing column letters")
	}
	if i == len(name) {
		return 0, 0, fmt.Errorf("missing row number")
	}

	col, err = NameToCol(name[:i])
	if err != nil {
		return 0, 0, err
	}

	rowNum := 0
	for _, ch := range name[i:] {
		if ch < '0' || ch > '9' {
			return 0, 0, fmt.Errorf("unexpected character %q", ch)
		}
		rowNum = rowNum*10 + int(ch-'0')
		if rowNum > maxRows {
			return 0, 0, fmt.Errorf("row number out of range")
		}
	}
	if rowNum < 1 {
		return 0, 0, fmt.Errorf("row number must be >= 1")
	}

	return col, rowNum - 1, nil // convert 1-based row to 0-based
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// String formats the CellRef as "Sheet1!A1" or "A1" if no sheet.
func (c CellRef) String() string {
	name := c.CellName()
	if c.Sheet != "" {
		return c.Sheet + "!" + name
	}
	return name
}

// CellName returns just the cell part like "A1" without sheet name.
func (c CellRef) CellName() string {
	return ColToName(c.Col) + strconv.Itoa(c.Row+1)
}

// ColToName converts a 0-based column index to a column name.
// 0→"A", 25→"Z", 26→"AA", 702→"AAA"
func ColToName(col int) string {
	result := ""
	col++ // convert to 1-based for algorithm
	for col > 0 {
		col-- // adjust for 0-indexed letter
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

// NameToCol converts a column name to a 0-based column index.
// "A"→0, "Z"→25, "AA"→26
func NameToCol(name string) (int, error) {
	n, err := ColumnNumber(name)
	if err != nil {
		return 0, err
	}
	return n - 1, nil
}

// ColumnNumber converts a column name to its 1-based number ("A"→1).
func ColumnNumber(name string) (int, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "" {
		return 0, fmt.Errorf("%w: empty column name", ErrInvalidReference)
	}
	col := 0
	for _, ch := range upper {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("%w: invalid column name %q", ErrInvalidReference, name)
		}
		col = col*26 + int(ch-'A') + 1
		if col > maxColumns {
			return 0, fmt.Errorf("%w: column %q out of range", ErrInvalidReference, name)
		}
	}
	return col, nil
}

// AreaRef represents a rectangular area defined by two cell references.
type AreaRef struct {
	First CellRef
	Last  CellRef
}

// ParseAreaRef parses "A1:C5" or a single cell "B2" (a one-cell area).
// Corners are reordered so First is always the top-left cell.
func ParseAreaRef(s string) (AreaRef, error) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, ":", 2)

	first, err := ParseCellRef(parts[0])
	if err != nil {
		return AreaRef{}, err
	}
	last := first
	if len(parts) == 2 {
		last, err = ParseCellRef(parts[1])
		if err != nil {
			return AreaRef{}, err
		}
	}
	if last.Sheet == "" {
		last.Sheet = first.Sheet
	}
	if first.Row > last.Row {
		first.Row, last.Row = last.Row, first.Row
	}
	if first.Col > last.Col {
		first.Col, last.Col = last.Col, first.Col
	}
	return AreaRef{First: first, Last: last}, nil
}

// String formats the area as "A1:C5", or "A1" when it spans one cell.
func (a AreaRef) String() string {
	if a.First.Row == a.Last.Row && a.First.Col == a.Last.Col {
		return a.First.CellName()
	}
	return a.First.CellName() + ":" + a.Last.CellName()
}

// Contains reports whether the cell lies inside the area.
func (a AreaRef) Contains(ref CellRef) bool {
	return ref.Row >= a.First.Row && ref.Row <= a.Last.Row &&
		ref.Col >= a.First.Col && ref.Col <= a.Last.Col
}

// CanonicalRange normalizes a space separated list of areas ("a1:b2 C3") into
// upper-case, corner-ordered form without absolute markers ("A1:B2 C3").
func CanonicalRange(s string) (string, error) {
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: empty range", ErrInvalidReference)
	}
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		area, err := ParseAreaRef(f)
		if err != nil {
			return "", err
		}
		out = append(out, area.String())
	}
	return strings.Join(out, " "), nil
}
