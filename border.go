package xlcodec

import (
	"cmp"

	"github.com/xuri/excelize/v2"
)

// BorderEdge is one side of a cell border.
type BorderEdge struct {
	Style string `yaml:"style" json:"style"`
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// Border maps side keys to edges. Keys: top, bottom, left, right,
// diagonal_up, diagonal_down. The document keeps a single diagonal line;
// it always reads back under diagonal_up.
type Border map[string]BorderEdge

// Side keys of a Border.
const (
	SideTop          = "top"
	SideBottom       = "bottom"
	SideLeft         = "left"
	SideRight        = "right"
	SideDiagonalUp   = "diagonal_up"
	SideDiagonalDown = "diagonal_down"
)

// borderStyles is indexed by the document model's border style number.
var borderStyles = []string{
	"none", "thin", "medium", "dashed", "dotted", "thick", "double", "hair",
	"mediumDashed", "dashDot", "mediumDashDot", "dashDotDot",
	"mediumDashDotDot", "slantDashDot",
}

// borderSides maps side keys to the document model's border types.
var borderSides = map[string]string{
	SideTop:          "top",
	SideBottom:       "bottom",
	SideLeft:         "left",
	SideRight:        "right",
	SideDiagonalUp:   "diagonalUp",
	SideDiagonalDown: "diagonalDown",
}

const defaultBorderColor = "#000000"

// ReadBorder decodes a cell's border. Edges with no style are skipped.
func (w *Workbook) ReadBorder(sheet, ref string) (Border, error) {
	style, err := w.cellStyle(sheet, ref)
	if err != nil {
		return nil, err
	}
	out := Border{}
	if style == nil {
		return out, nil
	}
	for _, b := range style.Border {
		if b.Style <= 0 || b.Style >= len(borderStyles) {
			continue
		}
		edge := BorderEdge{Style: borderStyles[b.Style], Color: displayColor(b.Color)}
		if edge.Color == "" {
			edge.Color = defaultBorderColor
		}
		switch b.Type {
		case "diagonalUp", "diagonalDown":
			if _, seen := out[SideDiagonalUp]; !seen {
				out[SideDiagonalUp] = edge
			}
		default:
			out[b.Type] = edge
		}
	}
	return out, nil
}

// WriteBorder applies the given edges on top of the cell's current border.
// A "none" style removes the edge. Both diagonal keys write the single
// diagonal line. All edges are validated before the document is touched.
func (w *Workbook) WriteBorder(sheet, ref string, border Border) error {
	if err := w.checkSheet(sheet); err != nil {
		return err
	}
	cell, err := cellName(ref)
	if err != nil {
		return err
	}

	edges := make(map[string]excelize.Border, len(border))
	for side, edge := range border {
		typ, ok := borderSides[canonicalKey(side)]
		if !ok {
			return invalidEnum("border side", side)
		}
		idx := indexCanonical(borderStyles, edge.Style)
		if idx < 0 {
			return invalidEnum("border style", edge.Style)
		}
		rgb, err := NormalizeRGB(cmp.Or(edge.Color, defaultBorderColor))
		if err != nil {
			return err
		}
		edges[typ] = excelize.Border{Type: typ, Color: rgb, Style: idx}
	}

	style, err := w.baseStyle(sheet, cell)
	if err != nil {
		return err
	}
	style.Border = mergeBorders(style.Border, edges)
	return w.applyStyle(sheet, cell, style)
}

// mergeBorders overlays edits on the existing edges. The two diagonal
// types share one line, so setting either replaces both.
func mergeBorders(existing []excelize.Border, edits map[string]excelize.Border) []excelize.Border {
	_, diagonalEdit := edits["diagonalUp"]
	if _, ok := edits["diagonalDown"]; ok {
		diagonalEdit = true
	}
	var out []excelize.Border
	for _, b := range existing {
		if _, replaced := edits[b.Type]; replaced {
			continue
		}
		if diagonalEdit && (b.Type == "diagonalUp" || b.Type == "diagonalDown") {
			continue
		}
		out = append(out, b)
	}
	for _, typ := range []string{"left", "right", "top", "bottom", "diagonalUp", "diagonalDown"} {
		if b, ok := edits[typ]; ok && b.Style > 0 {
			out = append(out, b)
		}
	}
	return out
}
