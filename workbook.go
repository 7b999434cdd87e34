package xlcodec

import (
	"fmt"
	"io"
	"sync"

	"github.com/javajack/xlcodec/sheetpart"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// Workbook is a codec session over one excelize document. It holds
// configuration only; the document is the single source of truth and every
// read goes back to it.
//
// A Workbook is not safe for concurrent use.
type Workbook struct {
	file       *excelize.File
	opts       *Options
	predicates sync.Map // predicate source → compiled *vm.Program
}

// New creates an empty workbook with a single sheet.
func New(opts ...Option) (*Workbook, error) {
	w := Wrap(excelize.NewFile(), opts...)
	if name := w.opts.firstSheet; name != "" && name != defaultSheet {
		if err := w.file.SetSheetName(defaultSheet, name); err != nil {
			_ = w.file.Close()
			return nil, fmt.Errorf("rename first sheet: %w: %v", ErrInvalidReference, err)
		}
	}
	return w, nil
}

// Open opens an xlsx file from disk.
func Open(path string, opts ...Option) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w: %v", path, ErrUnderlyingIO, err)
	}
	return Wrap(f, opts...), nil
}

// OpenReader reads an xlsx document from r.
func OpenReader(r io.Reader, opts ...Option) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w: %v", ErrUnderlyingIO, err)
	}
	return Wrap(f, opts...), nil
}

// Wrap creates a session over an already open document.
func Wrap(f *excelize.File, opts ...Option) *Workbook {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Workbook{file: f, opts: o}
}

// File returns the underlying excelize document.
func (w *Workbook) File() *excelize.File {
	return w.file
}

// SheetNames returns the worksheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// AddSheet appends a new empty worksheet. The name must not already exist
// in any letter case.
func (w *Workbook) AddSheet(name string) error {
	if idx, err := w.file.GetSheetIndex(name); err == nil && idx >= 0 {
		return fmt.Errorf("add sheet: %w: sheet %q already exists", ErrInvalidReference, name)
	}
	if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("add sheet %q: %w: %v", name, ErrInvalidReference, err)
	}
	return nil
}

// Save writes the workbook to path.
func (w *Workbook) Save(path string) error {
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %q: %w: %v", path, ErrUnderlyingIO, err)
	}
	return nil
}

// Write writes the workbook to out.
func (w *Workbook) Write(out io.Writer) error {
	if err := w.file.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w: %v", ErrUnderlyingIO, err)
	}
	return nil
}

// Close releases resources held by the underlying document.
func (w *Workbook) Close() error {
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("close workbook: %w: %v", ErrUnderlyingIO, err)
	}
	return nil
}

// MaxRow returns the 1-based index of the last row holding data, or 0 for
// an empty sheet.
func (w *Workbook) MaxRow(sheet string) (int, error) {
	rows, err := w.rows(sheet)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// MaxColumn returns the 1-based index of the last column holding data in
// any row, or 0 for an empty sheet.
func (w *Workbook) MaxColumn(sheet string) (int, error) {
	rows, err := w.rows(sheet)
	if err != nil {
		return 0, err
	}
	widest := 0
	for _, row := range rows {
		widest = max(widest, len(row))
	}
	return widest, nil
}

func (w *Workbook) rows(sheet string) ([][]string, error) {
	if err := w.checkSheet(sheet); err != nil {
		return nil, err
	}
	rows, err := w.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, documentError("read rows", err)
	}
	return rows, nil
}

// checkSheet fails with ErrUnknownSheet unless the workbook has the sheet.
// Every operation calls it before touching the document.
func (w *Workbook) checkSheet(sheet string) error {
	if idx, err := w.file.GetSheetIndex(sheet); err != nil || idx < 0 {
		return unknownSheet(sheet)
	}
	return nil
}

// cellName validates an A1 reference and returns its canonical form.
func cellName(ref string) (string, error) {
	c, err := ParseCellRef(ref)
	if err != nil {
		return "", err
	}
	return c.CellName(), nil
}

// rangeRef canonicalizes a range string. With strict ranges enabled a range
// that is not already canonical is rejected.
func (w *Workbook) rangeRef(s string) (string, error) {
	canonical, err := CanonicalRange(s)
	if err != nil {
		return "", err
	}
	if w.opts.strictRanges && canonical != s {
		return "", fmt.Errorf("%w: range %q is not canonical (want %q)", ErrInvalidReference, s, canonical)
	}
	return canonical, nil
}

// sheetPart serializes the document and reads the sheet's part-level facts.
// It is used for details the document model does not report: explicit row
// and column dimensions, rule priorities, hyperlink targets and drawing
// anchors.
func (w *Workbook) sheetPart(sheet string) (*sheetpart.Sheet, error) {
	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w: %v", ErrUnderlyingIO, err)
	}
	pkg, err := sheetpart.ReadBytes(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("read package: %w: %v", ErrUnderlyingIO, err)
	}
	part, err := pkg.Sheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet part: %w: %v", ErrUnderlyingIO, err)
	}
	return part, nil
}
