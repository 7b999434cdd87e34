package xlcodec

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Snapshot is every decoded feature of one sheet. It is meant for
// debugging and diffing documents; each field holds exactly what the
// matching read operation returns.
type Snapshot struct {
	Sheet              string                  `yaml:"sheet" json:"sheet"`
	MaxRow             int                     `yaml:"max_row" json:"max_row"`
	MaxColumn          int                     `yaml:"max_column" json:"max_column"`
	Cells              []CellEntry             `yaml:"cells,omitempty" json:"cells,omitempty"`
	RowHeights         []Dimension             `yaml:"row_heights,omitempty" json:"row_heights,omitempty"`
	ColumnWidths       []Dimension             `yaml:"column_widths,omitempty" json:"column_widths,omitempty"`
	MergedRanges       []string                `yaml:"merged_ranges,omitempty" json:"merged_ranges,omitempty"`
	FreezePanes        string                  `yaml:"freeze_panes,omitempty" json:"freeze_panes,omitempty"`
	ConditionalFormats []ConditionalFormatRule `yaml:"conditional_formats,omitempty" json:"conditional_formats,omitempty"`
	DataValidations    []DataValidationRule    `yaml:"data_validations,omitempty" json:"data_validations,omitempty"`
	Hyperlinks         []Hyperlink             `yaml:"hyperlinks,omitempty" json:"hyperlinks,omitempty"`
	Comments           []Comment               `yaml:"comments,omitempty" json:"comments,omitempty"`
	Images             []Image                 `yaml:"images,omitempty" json:"images,omitempty"`
}

// CellEntry is one non-blank or styled cell of a Snapshot.
type CellEntry struct {
	Cell   string      `yaml:"cell" json:"cell"`
	Value  CellValue   `yaml:"value" json:"value"`
	Format *CellFormat `yaml:"format,omitempty" json:"format,omitempty"`
	Border Border      `yaml:"border,omitempty" json:"border,omitempty"`
}

// Dimension is an explicit row height or column width. Key is the 1-based
// row number or the column letters.
type Dimension struct {
	Key  string  `yaml:"key" json:"key"`
	Size float64 `yaml:"size" json:"size"`
}

// Describe decodes every feature family of a sheet into a Snapshot.
func (w *Workbook) Describe(sheet string) (*Snapshot, error) {
	if err := w.checkSheet(sheet); err != nil {
		return nil, err
	}
	s := &Snapshot{Sheet: sheet}
	var err error
	if s.MaxRow, err = w.MaxRow(sheet); err != nil {
		return nil, err
	}
	if s.MaxColumn, err = w.MaxColumn(sheet); err != nil {
		return nil, err
	}
	if s.Cells, err = w.describeCells(sheet, s.MaxRow, s.MaxColumn); err != nil {
		return nil, err
	}

	part, err := w.sheetPart(sheet)
	if err != nil {
		return nil, err
	}
	for _, r := range part.Rows {
		if r.Ht > 0 {
			s.RowHeights = append(s.RowHeights, Dimension{Key: fmt.Sprint(r.R), Size: r.Ht})
		}
	}
	for _, c := range part.Cols {
		if c.Width <= 0 {
			continue
		}
		for n := c.Min; n <= c.Max; n++ {
			s.ColumnWidths = append(s.ColumnWidths, Dimension{Key: ColToName(n - 1), Size: c.Width})
		}
	}

	if s.MergedRanges, err = w.MergedRanges(sheet); err != nil {
		return nil, err
	}
	if s.FreezePanes, err = w.FreezePanes(sheet); err != nil {
		return nil, err
	}
	if s.ConditionalFormats, err = w.ConditionalFormats(sheet); err != nil {
		return nil, err
	}
	if s.DataValidations, err = w.DataValidations(sheet); err != nil {
		return nil, err
	}
	if s.Hyperlinks, err = w.Hyperlinks(sheet); err != nil {
		return nil, err
	}
	if s.Comments, err = w.Comments(sheet); err != nil {
		return nil, err
	}
	if s.Images, err = w.Images(sheet); err != nil {
		return nil, err
	}
	return s, nil
}

func (w *Workbook) describeCells(sheet string, rows, cols int) ([]CellEntry, error) {
	var cells []CellEntry
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			name := NewCellRef(sheet, r, c).CellName()
			v, err := w.ReadCell(sheet, name)
			if err != nil {
				return nil, err
			}
			format, err := w.ReadFormat(sheet, name)
			if err != nil {
				return nil, err
			}
			border, err := w.ReadBorder(sheet, name)
			if err != nil {
				return nil, err
			}
			if v.Type == TypeBlank && format.IsEmpty() && len(border) == 0 {
				continue
			}
			entry := CellEntry{Cell: name, Value: v}
			if !format.IsEmpty() {
				entry.Format = &format
			}
			if len(border) > 0 {
				entry.Border = border
			}
			cells = append(cells, entry)
		}
	}
	return cells, nil
}

// YAML renders the snapshot as a YAML document.
func (s *Snapshot) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// String returns a short human-readable summary:
//
//	Sheet: Data (12x4)
//	  B2 number 42
//	  3 merged ranges, 1 conditional format, 0 data validations
func (s *Snapshot) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sheet: %s (%dx%d)\n", s.Sheet, s.MaxRow, s.MaxColumn)
	if s.FreezePanes != "" {
		fmt.Fprintf(&b, "  frozen at %s\n", s.FreezePanes)
	}
	for _, c := range s.Cells {
		if c.Value.Type == TypeBlank {
			continue
		}
		fmt.Fprintf(&b, "  %s %s %s\n", c.Cell, c.Value.Type, c.Value)
	}
	fmt.Fprintf(&b, "  %s, %s, %s\n",
		plural(len(s.MergedRanges), "merged range"),
		plural(len(s.ConditionalFormats), "conditional format"),
		plural(len(s.DataValidations), "data validation"))
	fmt.Fprintf(&b, "  %s, %s, %s\n",
		plural(len(s.Hyperlinks), "hyperlink"),
		plural(len(s.Comments), "comment"),
		plural(len(s.Images), "image"))
	return b.String()
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
