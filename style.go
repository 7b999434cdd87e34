package xlcodec

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CellFormat is a sparse view of a cell's font, fill, alignment and number
// format. A nil field inherits the document default; ReadFormat never sets a
// field to its default value, so an untouched cell reads as the zero record.
type CellFormat struct {
	Bold          *bool    `yaml:"bold,omitempty" json:"bold,omitempty"`
	Italic        *bool    `yaml:"italic,omitempty" json:"italic,omitempty"`
	Underline     *string  `yaml:"underline,omitempty" json:"underline,omitempty"`
	Strikethrough *bool    `yaml:"strikethrough,omitempty" json:"strikethrough,omitempty"`
	FontName      *string  `yaml:"font_name,omitempty" json:"font_name,omitempty"`
	FontSize      *float64 `yaml:"font_size,omitempty" json:"font_size,omitempty"`
	FontColor     *string  `yaml:"font_color,omitempty" json:"font_color,omitempty"`
	FillType      *string  `yaml:"fill_type,omitempty" json:"fill_type,omitempty"`
	BgColor       *string  `yaml:"bg_color,omitempty" json:"bg_color,omitempty"`
	NumberFormat  *string  `yaml:"number_format,omitempty" json:"number_format,omitempty"`
	HAlign        *string  `yaml:"h_align,omitempty" json:"h_align,omitempty"`
	VAlign        *string  `yaml:"v_align,omitempty" json:"v_align,omitempty"`
	Wrap          *bool    `yaml:"wrap,omitempty" json:"wrap,omitempty"`
	Rotation      *int     `yaml:"rotation,omitempty" json:"rotation,omitempty"`
}

// IsEmpty reports whether no field is set.
func (f CellFormat) IsEmpty() bool {
	return f == CellFormat{}
}

var (
	underlineStyles = []string{"none", "single", "double"}

	// fillPatterns is indexed by the document model's pattern number.
	fillPatterns = []string{
		"none", "solid", "mediumGray", "darkGray", "lightGray",
		"darkHorizontal", "darkVertical", "darkDown", "darkUp", "darkGrid",
		"darkTrellis", "lightHorizontal", "lightVertical", "lightDown", "lightUp",
		"lightGrid", "lightTrellis", "gray125", "gray0625",
	}

	horizontalAligns = []string{
		"general", "left", "center", "right", "fill",
		"justify", "centerContinuous", "distributed",
	}
	verticalAligns = []string{"top", "center", "bottom", "justify", "distributed"}
)

// verticalText is the rotation value for stacked text.
const verticalText = 255

// defaultFont is the font of the workbook's base style.
type defaultFont struct {
	name string
	size float64
}

func (w *Workbook) defaultFont() defaultFont {
	base, err := w.file.GetStyle(0)
	if err != nil || base.Font == nil {
		name, _ := w.file.GetDefaultFont()
		return defaultFont{name: name, size: 11}
	}
	return defaultFont{name: base.Font.Family, size: base.Font.Size}
}

// ReadFormat decodes a cell's format, dropping every default value.
func (w *Workbook) ReadFormat(sheet, ref string) (CellFormat, error) {
	style, err := w.cellStyle(sheet, ref)
	if err != nil || style == nil {
		return CellFormat{}, err
	}
	return decodeFormat(style, w.defaultFont()), nil
}

// cellStyle returns the style of a cell, or nil when it uses the base style.
func (w *Workbook) cellStyle(sheet, ref string) (*excelize.Style, error) {
	if err := w.checkSheet(sheet); err != nil {
		return nil, err
	}
	cell, err := cellName(ref)
	if err != nil {
		return nil, err
	}
	id, err := w.file.GetCellStyle(sheet, cell)
	if err != nil {
		return nil, documentError("read cell style", err)
	}
	if id == 0 {
		return nil, nil
	}
	style, err := w.file.GetStyle(id)
	if err != nil {
		return nil, documentError("read style", err)
	}
	return style, nil
}

func decodeFormat(style *excelize.Style, def defaultFont) CellFormat {
	var out CellFormat
	if fnt := style.Font; fnt != nil {
		if fnt.Bold {
			out.Bold = ptr(true)
		}
		if fnt.Italic {
			out.Italic = ptr(true)
		}
		if fnt.Underline != "" && fnt.Underline != "none" {
			out.Underline = ptr(fnt.Underline)
		}
		if fnt.Strike {
			out.Strikethrough = ptr(true)
		}
		if fnt.Family != "" && fnt.Family != def.name {
			out.FontName = ptr(fnt.Family)
		}
		if fnt.Size > 0 && fnt.Size != def.size {
			out.FontSize = ptr(fnt.Size)
		}
		if c := displayColor(fnt.Color); c != "" && c != "#000000" {
			out.FontColor = ptr(c)
		}
	}

	if fill := style.Fill; fill.Type == "pattern" && fill.Pattern > 0 && fill.Pattern < len(fillPatterns) {
		out.FillType = ptr(fillPatterns[fill.Pattern])
		if len(fill.Color) > 0 && fill.Color[0] != "" {
			out.BgColor = ptr(displayColor(fill.Color[0]))
		}
	}

	if code := styleNumFmt(style); code != generalNumFmt {
		out.NumberFormat = ptr(code)
	}

	if a := style.Alignment; a != nil {
		if a.Horizontal != "" && a.Horizontal != "general" {
			out.HAlign = ptr(a.Horizontal)
		}
		if a.Vertical != "" && a.Vertical != "bottom" {
			out.VAlign = ptr(a.Vertical)
		}
		if a.WrapText {
			out.Wrap = ptr(true)
		}
		if a.TextRotation != 0 {
			out.Rotation = ptr(a.TextRotation)
		}
	}
	return out
}

// WriteFormat applies the set fields of f on top of the cell's current
// style. Fields are validated in declaration order; when one is rejected the
// fields before it are still applied and the error is returned.
func (w *Workbook) WriteFormat(sheet, ref string, f CellFormat) error {
	if err := w.checkSheet(sheet); err != nil {
		return err
	}
	cell, err := cellName(ref)
	if err != nil {
		return err
	}
	style, err := w.baseStyle(sheet, cell)
	if err != nil {
		return err
	}

	staged := 0
	applyErr := func() error {
		for _, step := range formatSteps(f) {
			if err := step(style); err != nil {
				return err
			}
			staged++
		}
		return nil
	}()
	if staged > 0 {
		if err := w.applyStyle(sheet, cell, style); err != nil {
			return err
		}
	}
	return applyErr
}

// baseStyle loads the cell's style as an editable value.
func (w *Workbook) baseStyle(sheet, cell string) (*excelize.Style, error) {
	id, err := w.file.GetCellStyle(sheet, cell)
	if err != nil {
		return nil, documentError("read cell style", err)
	}
	style, err := w.file.GetStyle(id)
	if err != nil {
		return nil, documentError("read style", err)
	}
	return style, nil
}

func (w *Workbook) applyStyle(sheet, cell string, style *excelize.Style) error {
	id, err := w.file.NewStyle(style)
	if err != nil {
		return fmt.Errorf("register style: %w: %v", ErrInvalidEnumValue, err)
	}
	return documentError("apply style", w.file.SetCellStyle(sheet, cell, cell, id))
}

type styleStep func(*excelize.Style) error

// formatSteps turns the set fields of f into edits, in declaration order.
func formatSteps(f CellFormat) []styleStep {
	var steps []styleStep
	if f.Bold != nil {
		steps = append(steps, func(s *excelize.Style) error { font(s).Bold = *f.Bold; return nil })
	}
	if f.Italic != nil {
		steps = append(steps, func(s *excelize.Style) error { font(s).Italic = *f.Italic; return nil })
	}
	if f.Underline != nil {
		steps = append(steps, func(s *excelize.Style) error {
			u, ok := lookupCanonical(underlineStyles, *f.Underline)
			if !ok {
				return invalidEnum("underline", *f.Underline)
			}
			if u == "none" {
				u = ""
			}
			font(s).Underline = u
			return nil
		})
	}
	if f.Strikethrough != nil {
		steps = append(steps, func(s *excelize.Style) error { font(s).Strike = *f.Strikethrough; return nil })
	}
	if f.FontName != nil {
		steps = append(steps, func(s *excelize.Style) error {
			name := strings.TrimSpace(*f.FontName)
			if name == "" {
				return missingField("font_name")
			}
			font(s).Family = name
			return nil
		})
	}
	if f.FontSize != nil {
		steps = append(steps, func(s *excelize.Style) error {
			if *f.FontSize < excelize.MinFontSize || *f.FontSize > excelize.MaxFontSize {
				return fmt.Errorf("%w: font_size %v", ErrInvalidEnumValue, *f.FontSize)
			}
			font(s).Size = *f.FontSize
			return nil
		})
	}
	if f.FontColor != nil {
		steps = append(steps, func(s *excelize.Style) error {
			rgb, err := NormalizeRGB(*f.FontColor)
			if err != nil {
				return err
			}
			fnt := font(s)
			fnt.Color = rgb
			fnt.ColorTheme = nil
			fnt.ColorTint = 0
			return nil
		})
	}
	if f.FillType != nil {
		steps = append(steps, func(s *excelize.Style) error {
			idx := indexCanonical(fillPatterns, *f.FillType)
			if idx < 0 {
				return invalidEnum("fill_type", *f.FillType)
			}
			if idx == 0 {
				s.Fill = excelize.Fill{}
				return nil
			}
			s.Fill.Type = "pattern"
			s.Fill.Pattern = idx
			return nil
		})
	}
	if f.BgColor != nil {
		steps = append(steps, func(s *excelize.Style) error {
			rgb, err := NormalizeRGB(*f.BgColor)
			if err != nil {
				return err
			}
			if s.Fill.Type != "pattern" || s.Fill.Pattern == 0 {
				s.Fill = excelize.Fill{Type: "pattern", Pattern: 1}
			}
			s.Fill.Color = []string{rgb}
			return nil
		})
	}
	if f.NumberFormat != nil {
		steps = append(steps, func(s *excelize.Style) error {
			code := *f.NumberFormat
			if code == "" {
				return missingField("number_format")
			}
			setStyleNumFmt(s, code)
			return nil
		})
	}
	if f.HAlign != nil {
		steps = append(steps, func(s *excelize.Style) error {
			h, ok := lookupCanonical(horizontalAligns, *f.HAlign)
			if !ok {
				return invalidEnum("h_align", *f.HAlign)
			}
			if h == "general" {
				h = ""
			}
			alignment(s).Horizontal = h
			return nil
		})
	}
	if f.VAlign != nil {
		steps = append(steps, func(s *excelize.Style) error {
			v, ok := lookupCanonical(verticalAligns, *f.VAlign)
			if !ok {
				return invalidEnum("v_align", *f.VAlign)
			}
			if v == "bottom" {
				v = ""
			}
			alignment(s).Vertical = v
			return nil
		})
	}
	if f.Wrap != nil {
		steps = append(steps, func(s *excelize.Style) error { alignment(s).WrapText = *f.Wrap; return nil })
	}
	if f.Rotation != nil {
		steps = append(steps, func(s *excelize.Style) error {
			r := *f.Rotation
			if (r < 0 || r > 180) && r != verticalText {
				return fmt.Errorf("%w: rotation %d (want 0..180 or 255)", ErrInvalidEnumValue, r)
			}
			alignment(s).TextRotation = r
			return nil
		})
	}
	return steps
}

func font(s *excelize.Style) *excelize.Font {
	if s.Font == nil {
		s.Font = &excelize.Font{}
	}
	return s.Font
}

func alignment(s *excelize.Style) *excelize.Alignment {
	if s.Alignment == nil {
		s.Alignment = &excelize.Alignment{}
	}
	return s.Alignment
}

func ptr[T any](v T) *T { return &v }
