package xlcodec

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ValueType discriminates a CellValue.
type ValueType string

const (
	TypeBlank    ValueType = "blank"
	TypeString   ValueType = "string"
	TypeNumber   ValueType = "number"
	TypeBoolean  ValueType = "boolean"
	TypeDate     ValueType = "date"
	TypeDateTime ValueType = "datetime"
	TypeFormula  ValueType = "formula"
	TypeError    ValueType = "error"
)

var valueTypes = []ValueType{
	TypeBlank, TypeString, TypeNumber, TypeBoolean,
	TypeDate, TypeDateTime, TypeFormula, TypeError,
}

// CellValue is the canonical form of a cell's content. Exactly one Type is
// active; Value carries the payload for that type:
//
//	blank     nil
//	string    string, line endings normalized to "\n"
//	number    float64
//	boolean   bool
//	date      "YYYY-MM-DD"
//	datetime  "YYYY-MM-DDTHH:MM:SS[.fff]"
//	formula   display text (mirrors Formula)
//	error     error token such as "#DIV/0!"
type CellValue struct {
	Type    ValueType `yaml:"type" json:"type"`
	Value   any       `yaml:"value,omitempty" json:"value,omitempty"`
	Formula string    `yaml:"formula,omitempty" json:"formula,omitempty"`
}

// Constructors for well-formed values.
func Blank() CellValue              { return CellValue{Type: TypeBlank} }
func String(s string) CellValue     { return CellValue{Type: TypeString, Value: s} }
func Number(f float64) CellValue    { return CellValue{Type: TypeNumber, Value: f} }
func Boolean(b bool) CellValue      { return CellValue{Type: TypeBoolean, Value: b} }
func Date(iso string) CellValue     { return CellValue{Type: TypeDate, Value: iso} }
func DateTime(iso string) CellValue { return CellValue{Type: TypeDateTime, Value: iso} }
func Error(token string) CellValue  { return CellValue{Type: TypeError, Value: token} }

// Formula builds a formula value. A leading "=" is dropped.
func Formula(body string) CellValue {
	body = stripFormulaPrefix(body)
	return CellValue{Type: TypeFormula, Value: body, Formula: body}
}

// String renders the value for display.
func (v CellValue) String() string {
	switch v.Type {
	case TypeBlank, "":
		return ""
	case TypeFormula:
		return "=" + v.Formula
	case TypeNumber:
		if f, ok := v.Value.(float64); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return fmt.Sprint(v.Value)
}

// ValueOf infers a CellValue from a Go value. Strings starting with "=" are
// formulas and strings shaped like an error token are errors. A time.Time at
// midnight is a date; any other time is a date-time.
func ValueOf(x any) (CellValue, error) {
	switch v := x.(type) {
	case nil:
		return Blank(), nil
	case CellValue:
		return v, nil
	case bool:
		return Boolean(v), nil
	case string:
		switch {
		case strings.HasPrefix(v, "="):
			return Formula(v), nil
		case isErrorToken(v):
			return Error(v), nil
		}
		return String(v), nil
	case time.Time:
		if isMidnight(v) {
			return Date(FormatISODate(v)), nil
		}
		return DateTime(FormatISODateTime(v)), nil
	}
	if f, ok := toFloat(x); ok {
		return Number(f), nil
	}
	return CellValue{}, fmt.Errorf("%w: %T", ErrUnsupportedValueType, x)
}

// toFloat converts any Go numeric kind to float64.
func toFloat(x any) (float64, bool) {
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// check validates the discriminant and payload without touching a document.
func (v CellValue) check() error {
	if !isValueType(v.Type) {
		return fmt.Errorf("%w: cell value type %q", ErrUnsupportedValueType, v.Type)
	}
	switch v.Type {
	case TypeBlank:
		return nil
	case TypeNumber:
		if v.Value == nil {
			return missingField("value")
		}
		f, ok := toFloat(v.Value)
		if !ok {
			return fmt.Errorf("%w: number payload %T", ErrUnsupportedValueType, v.Value)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: number %v", ErrUnsupportedValueType, f)
		}
	case TypeBoolean:
		if v.Value == nil {
			return missingField("value")
		}
		if _, ok := v.Value.(bool); !ok {
			return fmt.Errorf("%w: boolean payload %T", ErrUnsupportedValueType, v.Value)
		}
	case TypeFormula:
		if v.formulaBody() == "" {
			return missingField("formula")
		}
	default:
		if v.Value == nil {
			return missingField("value")
		}
		s, ok := v.Value.(string)
		if !ok {
			return fmt.Errorf("%w: %s payload %T", ErrUnsupportedValueType, v.Type, v.Value)
		}
		if v.Type != TypeString && strings.TrimSpace(s) == "" {
			return missingField("value")
		}
	}
	return nil
}

func isValueType(t ValueType) bool {
	for _, vt := range valueTypes {
		if vt == t {
			return true
		}
	}
	return false
}

// formulaBody returns the formula text, falling back to the display value.
func (v CellValue) formulaBody() string {
	body := v.Formula
	if body == "" {
		body, _ = v.Value.(string)
	}
	return stripFormulaPrefix(body)
}

// ReadCell decodes a cell. Formulas dominate; then typed numbers (dates
// when the number format is date-shaped); then the literal text, classified
// as error, boolean, blank or string.
func (w *Workbook) ReadCell(sheet, ref string) (CellValue, error) {
	if err := w.checkSheet(sheet); err != nil {
		return CellValue{}, err
	}
	cell, err := cellName(ref)
	if err != nil {
		return CellValue{}, err
	}

	formula, err := w.file.GetCellFormula(sheet, cell)
	if err != nil {
		return CellValue{}, documentError("read formula", err)
	}
	if body := stripFormulaPrefix(formula); body != "" {
		if token, ok := ErrorForFormula(body); ok {
			return Error(token), nil
		}
		return Formula(body), nil
	}

	typ, err := w.file.GetCellType(sheet, cell)
	if err != nil {
		return CellValue{}, documentError("read cell type", err)
	}
	raw, err := w.file.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return CellValue{}, documentError("read cell", err)
	}

	switch typ {
	case excelize.CellTypeBool:
		return Boolean(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeDate:
		if t, err := ParseISODateTime(raw); err == nil {
			return dateValue(t), nil
		}
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && raw != "" {
			return w.decodeNumber(sheet, cell, f)
		}
	}
	return decodeLiteral(raw), nil
}

// decodeNumber classifies a typed number by its cell's number format.
func (w *Workbook) decodeNumber(sheet, cell string, f float64) (CellValue, error) {
	code, err := w.numberFormat(sheet, cell)
	if err != nil {
		return CellValue{}, err
	}
	if LooksLikeDateFormat(code) {
		if t, ok := SerialToTime(f); ok {
			return dateValue(t), nil
		}
	}
	return Number(f), nil
}

func dateValue(t time.Time) CellValue {
	if isMidnight(t) {
		return Date(FormatISODate(t))
	}
	return DateTime(FormatISODateTime(t))
}

// decodeLiteral classifies stored text.
func decodeLiteral(raw string) CellValue {
	text := strings.ReplaceAll(strings.ReplaceAll(raw, "\r\n", "\n"), "\r", "\n")
	switch {
	case isErrorToken(text):
		return Error(text)
	case strings.EqualFold(text, "true"):
		return Boolean(true)
	case strings.EqualFold(text, "false"):
		return Boolean(false)
	case text == "":
		return Blank()
	}
	return String(text)
}

// numberFormat returns the number format code applied to a cell.
func (w *Workbook) numberFormat(sheet, cell string) (string, error) {
	styleID, err := w.file.GetCellStyle(sheet, cell)
	if err != nil {
		return "", documentError("read cell style", err)
	}
	if styleID == 0 {
		return generalNumFmt, nil
	}
	style, err := w.file.GetStyle(styleID)
	if err != nil {
		return "", documentError("read style", err)
	}
	return styleNumFmt(style), nil
}

func styleNumFmt(style *excelize.Style) string {
	if style.CustomNumFmt != nil && *style.CustomNumFmt != "" {
		return *style.CustomNumFmt
	}
	if code, ok := builtinNumFmts[style.NumFmt]; ok {
		return code
	}
	return generalNumFmt
}

// WriteCell encodes v into a cell. The whole payload is validated before the
// document is touched. Blank never creates a cell.
func (w *Workbook) WriteCell(sheet, ref string, v CellValue) error {
	if err := w.checkSheet(sheet); err != nil {
		return err
	}
	cell, err := cellName(ref)
	if err != nil {
		return err
	}
	if err := v.check(); err != nil {
		return err
	}

	switch v.Type {
	case TypeBlank:
		return nil
	case TypeString:
		s, _ := v.Value.(string)
		return documentError("write string", w.file.SetCellStr(sheet, cell, s))
	case TypeNumber:
		f, _ := toFloat(v.Value)
		return documentError("write number", w.file.SetCellFloat(sheet, cell, f, -1, 64))
	case TypeBoolean:
		return documentError("write boolean", w.file.SetCellBool(sheet, cell, v.Value.(bool)))
	case TypeFormula:
		return documentError("write formula", w.file.SetCellFormula(sheet, cell, v.formulaBody()))
	case TypeError:
		token := strings.TrimSpace(v.Value.(string))
		if formula, ok := FormulaForError(token); ok {
			return documentError("write error", w.file.SetCellFormula(sheet, cell, formula))
		}
		return documentError("write error", w.file.SetCellStr(sheet, cell, token))
	case TypeDate:
		t, err := parseDateInput(v.Value.(string), false)
		if err != nil {
			return err
		}
		return w.writeSerial(sheet, cell, t, w.opts.dateFormat)
	case TypeDateTime:
		t, err := parseDateInput(v.Value.(string), true)
		if err != nil {
			return err
		}
		return w.writeSerial(sheet, cell, t, w.opts.dateTimeFormat)
	}
	return fmt.Errorf("%w: cell value type %q", ErrUnsupportedValueType, v.Type)
}

// parseDateInput accepts either ISO form for both date types. A date keeps
// its calendar day only.
func parseDateInput(s string, withTime bool) (time.Time, error) {
	if withTime {
		if t, err := ParseISODateTime(s); err == nil {
			return t, nil
		}
		return ParseISODate(s)
	}
	if t, err := ParseISODate(s); err == nil {
		return t, nil
	}
	t, err := ParseISODateTime(s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// writeSerial stores t as a serial and stamps the number format, keeping the
// rest of the cell's style.
func (w *Workbook) writeSerial(sheet, cell string, t time.Time, code string) error {
	if err := w.file.SetCellFloat(sheet, cell, TimeToSerial(t), -1, 64); err != nil {
		return documentError("write date", err)
	}
	return w.stampNumberFormat(sheet, cell, code)
}

func (w *Workbook) stampNumberFormat(sheet, cell, code string) error {
	styleID, err := w.file.GetCellStyle(sheet, cell)
	if err != nil {
		return documentError("read cell style", err)
	}
	style, err := w.file.GetStyle(styleID)
	if err != nil {
		return documentError("read style", err)
	}
	setStyleNumFmt(style, code)
	newID, err := w.file.NewStyle(style)
	if err != nil {
		return documentError("register style", err)
	}
	return documentError("apply style", w.file.SetCellStyle(sheet, cell, cell, newID))
}

func setStyleNumFmt(style *excelize.Style, code string) {
	if id, ok := builtinNumFmtID(code); ok {
		style.NumFmt = id
		style.CustomNumFmt = nil
		return
	}
	style.NumFmt = 0
	style.CustomNumFmt = &code
}

// AppendRow writes values into the row after the last one holding data.
// Each value is a CellValue or any Go value ValueOf accepts.
func (w *Workbook) AppendRow(sheet string, values ...any) error {
	last, err := w.MaxRow(sheet)
	if err != nil {
		return err
	}
	decoded := make([]CellValue, len(values))
	for i, x := range values {
		if decoded[i], err = ValueOf(x); err != nil {
			return fmt.Errorf("append row: column %d: %w", i+1, err)
		}
		if err := decoded[i].check(); err != nil {
			return fmt.Errorf("append row: column %d: %w", i+1, err)
		}
	}
	for i, v := range decoded {
		ref := NewCellRef(sheet, last, i).CellName()
		if err := w.WriteCell(sheet, ref, v); err != nil {
			return fmt.Errorf("append row: %s: %w", ref, err)
		}
	}
	return nil
}

// ReadRange decodes every cell of an area, row by row.
func (w *Workbook) ReadRange(sheet, area string) ([][]CellValue, error) {
	if err := w.checkSheet(sheet); err != nil {
		return nil, err
	}
	a, err := ParseAreaRef(area)
	if err != nil {
		return nil, err
	}
	grid := make([][]CellValue, 0, a.Last.Row-a.First.Row+1)
	for row := a.First.Row; row <= a.Last.Row; row++ {
		line := make([]CellValue, 0, a.Last.Col-a.First.Col+1)
		for col := a.First.Col; col <= a.Last.Col; col++ {
			v, err := w.ReadCell(sheet, NewCellRef(sheet, row, col).CellName())
			if err != nil {
				return nil, err
			}
			line = append(line, v)
		}
		grid = append(grid, line)
	}
	return grid, nil
}
