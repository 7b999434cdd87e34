package sheetpart

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writePNG(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(t.TempDir(), "dot.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func readPackage(t *testing.T, f *excelize.File) *Package {
	t.Helper()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	pkg, err := ReadBytes(buf.Bytes())
	require.NoError(t, err)
	return pkg
}

func TestRead_SheetNames(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet("Data")
	require.NoError(t, err)

	pkg := readPackage(t, f)
	assert.Equal(t, []string{"Sheet1", "Data"}, pkg.SheetNames())

	_, err = pkg.Sheet("Missing")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestRead_NotAPackage(t *testing.T) {
	_, err := ReadBytes([]byte("not a zip"))
	assert.Error(t, err)
}

func TestSheet_Dimensions(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "x"))
	require.NoError(t, f.SetRowHeight("Sheet1", 3, 30))
	require.NoError(t, f.SetColWidth("Sheet1", "B", "B", 20))

	sheet, err := readPackage(t, f).Sheet("Sheet1")
	require.NoError(t, err)

	var row3 *Row
	for i := range sheet.Rows {
		if sheet.Rows[i].R == 3 {
			row3 = &sheet.Rows[i]
		}
		if sheet.Rows[i].R == 1 {
			assert.Zero(t, sheet.Rows[i].Ht, "row 1 has no explicit height")
		}
	}
	require.NotNil(t, row3)
	assert.Equal(t, 30.0, row3.Ht)
	assert.True(t, row3.CustomHeight)

	require.Len(t, sheet.Cols, 1)
	assert.Equal(t, 2, sheet.Cols[0].Min)
	assert.Equal(t, 2, sheet.Cols[0].Max)
	assert.Equal(t, 20.0, sheet.Cols[0].Width)
}

func TestSheet_ConditionalFormats(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	dxf, err := f.NewConditionalStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
	})
	require.NoError(t, err)
	require.NoError(t, f.SetConditionalFormat("Sheet1", "A1:A10", []excelize.ConditionalFormatOptions{
		{Type: "cell", Criteria: ">", Format: &dxf, Value: "5"},
	}))
	require.NoError(t, f.SetConditionalFormat("Sheet1", "B1:B10", []excelize.ConditionalFormatOptions{
		{Type: "data_bar", Criteria: "=", MinType: "num", MinValue: "0", MaxType: "num", MaxValue: "10", BarColor: "#638EC6"},
	}))

	sheet, err := readPackage(t, f).Sheet("Sheet1")
	require.NoError(t, err)
	require.Len(t, sheet.CondFormats, 2)

	first := sheet.CondFormats[0]
	assert.Equal(t, "A1:A10", first.SQRef)
	require.Len(t, first.Rules, 1)
	assert.Equal(t, "cellIs", first.Rules[0].Type)
	assert.Equal(t, "greaterThan", first.Rules[0].Operator)
	assert.Equal(t, 1, first.Rules[0].Priority)
	assert.Equal(t, []string{"5"}, first.Rules[0].Formulas)
	require.NotNil(t, first.Rules[0].DxfID)
	assert.Equal(t, dxf, *first.Rules[0].DxfID)

	bar := sheet.CondFormats[1].Rules[0]
	assert.Equal(t, "dataBar", bar.Type)
	assert.Equal(t, 2, bar.Priority)
	require.NotNil(t, bar.DataBar)
	assert.Equal(t, []Cfvo{{Type: "num", Val: "0"}, {Type: "num", Val: "10"}}, bar.DataBar.Cfvo)
	assert.Equal(t, []Color{{RGB: "FF638EC6"}}, bar.DataBar.Colors)
}

func TestSheet_Hyperlinks(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	tip := "Go there"
	require.NoError(t, f.SetCellHyperLink("Sheet1", "C1", "https://example.com/?a=1&b=2", "External",
		excelize.HyperlinkOpts{Tooltip: &tip}))
	require.NoError(t, f.SetCellHyperLink("Sheet1", "C2", "Sheet1!A1", "Location"))

	sheet, err := readPackage(t, f).Sheet("Sheet1")
	require.NoError(t, err)
	require.Len(t, sheet.Hyperlinks, 2)

	ext := sheet.Hyperlinks[0]
	assert.Equal(t, "C1", ext.Ref)
	assert.Equal(t, "https://example.com/?a=1&b=2", ext.Target)
	assert.Equal(t, "Go there", ext.Tooltip)
	assert.True(t, ext.External)

	loc := sheet.Hyperlinks[1]
	assert.Equal(t, "C2", loc.Ref)
	assert.Equal(t, "Sheet1!A1", loc.Location)
	assert.Empty(t, loc.Target)
	assert.False(t, loc.External)
}

func TestSheet_Anchors(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	img := writePNG(t)
	require.NoError(t, f.AddPicture("Sheet1", "B2", img, &excelize.GraphicOptions{
		OffsetX: 10, OffsetY: 5, Positioning: "oneCell",
	}))
	require.NoError(t, f.AddPicture("Sheet1", "D4", img, nil))

	sheet, err := readPackage(t, f).Sheet("Sheet1")
	require.NoError(t, err)
	require.Len(t, sheet.Anchors, 2)

	byKind := map[string]Anchor{}
	for _, a := range sheet.Anchors {
		byKind[a.Kind] = a
	}

	one := byKind["oneCell"]
	assert.Equal(t, 1, one.Col)
	assert.Equal(t, 1, one.Row)
	assert.Equal(t, int64(10*9525), one.ColOff)
	assert.Equal(t, int64(5*9525), one.RowOff)
	assert.Regexp(t, `^/xl/media/image\d+\.png$`, one.Media)

	two := byKind["twoCell"]
	assert.Equal(t, 3, two.Col)
	assert.Equal(t, 3, two.Row)
	assert.Zero(t, two.ColOff)
	assert.NotEmpty(t, two.Media)
}

func TestSheet_NoRelationships(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", 1))

	sheet, err := readPackage(t, f).Sheet("Sheet1")
	require.NoError(t, err)
	assert.Empty(t, sheet.Hyperlinks)
	assert.Empty(t, sheet.Anchors)
	assert.Empty(t, sheet.CondFormats)
}

func TestResolveTarget(t *testing.T) {
	assert.Equal(t, "xl/drawings/drawing1.xml", resolveTarget("xl/worksheets/sheet1.xml", "../drawings/drawing1.xml"))
	assert.Equal(t, "xl/worksheets/sheet1.xml", resolveTarget("xl/workbook.xml", "worksheets/sheet1.xml"))
	assert.Equal(t, "xl/workbook.xml", resolveTarget("", "/xl/workbook.xml"))
	assert.Equal(t, "xl/_rels/workbook.xml.rels", relsPartFor("xl/workbook.xml"))
}
