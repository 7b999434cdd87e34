package xlcodec

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestNew_FirstSheet(t *testing.T) {
	wb := newWorkbook(t)
	assert.Equal(t, []string{"Sheet1"}, wb.SheetNames())

	named := newWorkbook(t, WithFirstSheet("Report"))
	assert.Equal(t, []string{"Report"}, named.SheetNames())

	_, err := New(WithFirstSheet("bad/name"))
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestAddSheet(t *testing.T) {
	wb := newWorkbook(t)
	require.NoError(t, wb.AddSheet("Data"))
	assert.Equal(t, []string{"Sheet1", "Data"}, wb.SheetNames())

	assert.ErrorIs(t, wb.AddSheet("Data"), ErrInvalidReference)
	assert.ErrorIs(t, wb.AddSheet("a:b"), ErrInvalidReference)
}

func TestUnknownSheet(t *testing.T) {
	wb := newWorkbook(t)
	_, err := wb.ReadCell("Missing", "A1")
	require.ErrorIs(t, err, ErrUnknownSheet)
	assert.Contains(t, err.Error(), `"Missing"`)

	_, err = wb.MaxRow("Missing")
	assert.ErrorIs(t, err, ErrUnknownSheet)
}

func TestSaveOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")

	wb := newWorkbook(t)
	require.NoError(t, wb.WriteCell(sheet1, "A1", String("saved")))
	require.NoError(t, wb.Save(path))

	opened, err := Open(path)
	require.NoError(t, err)
	defer opened.Close()

	got, err := opened.ReadCell(sheet1, "A1")
	require.NoError(t, err)
	assert.Equal(t, String("saved"), got)

	_, err = Open(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.ErrorIs(t, err, ErrUnderlyingIO)

	_, err = OpenReader(bytes.NewReader([]byte("not a zip")))
	assert.ErrorIs(t, err, ErrUnderlyingIO)
}

func TestWrap(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 7))

	wb := Wrap(f)
	t.Cleanup(func() { _ = wb.Close() })
	assert.Same(t, f, wb.File())

	got, err := wb.ReadCell(sheet1, "B2")
	require.NoError(t, err)
	assert.Equal(t, Number(7), got)
}

func TestMaxRowColumn(t *testing.T) {
	wb := newWorkbook(t)
	n, err := wb.MaxRow(sheet1)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, wb.WriteCell(sheet1, "C4", Number(1)))
	require.NoError(t, wb.WriteCell(sheet1, "E2", String("x")))

	n, err = wb.MaxRow(sheet1)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = wb.MaxColumn(sheet1)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestStrictRanges(t *testing.T) {
	wb := newWorkbook(t, WithStrictRanges(true))
	err := wb.MergeCells(sheet1, "b2:a1")
	require.ErrorIs(t, err, ErrInvalidReference)
	assert.Contains(t, err.Error(), `"A1:B2"`)

	require.NoError(t, wb.MergeCells(sheet1, "A1:B2"))
}

func TestCaseInsensitiveSheetNames(t *testing.T) {
	wb := newWorkbook(t, WithFirstSheet("Report"))
	require.NoError(t, wb.AddConditionalFormat("report", ConditionalFormatRule{Range: "A1", RuleType: "uniqueValues"}))

	rules, err := wb.ConditionalFormats("REPORT")
	require.NoError(t, err)
	assert.Len(t, rules, 1)
}

func TestCheckRecord(t *testing.T) {
	err := checkRecord(Comment{})
	require.ErrorIs(t, err, ErrMissingRequiredField)
	assert.Contains(t, err.Error(), "cell")

	err = checkRecord(Image{Cell: "A1", Path: "x.png", Offset: []int{1, 2, 3}})
	require.ErrorIs(t, err, ErrInvalidEnumValue)
	assert.Contains(t, err.Error(), "offset")

	assert.NoError(t, checkRecord(Comment{Cell: "A1"}))
}

func TestCanonicalEnums(t *testing.T) {
	got, ok := normalizeEnum(validationOperators, "greater_than_or_equal")
	assert.True(t, ok)
	assert.Equal(t, "greaterThanOrEqual", got)

	got, ok = normalizeEnum(validationOperators, "NotBetween")
	assert.True(t, ok)
	assert.Equal(t, "notBetween", got)

	_, ok = normalizeEnum(validationOperators, "roughly")
	assert.False(t, ok)

	assert.Equal(t, "textLength", camelize("text-length"))
	assert.Equal(t, "whole", camelize(" whole "))
	assert.Equal(t, 2, indexCanonical(fillPatterns, "MEDIUMGRAY"))
}

func TestAddSheet_IgnoresCase(t *testing.T) {
	wb := newWorkbook(t)
	assert.ErrorIs(t, wb.AddSheet("sheet1"), ErrInvalidReference)
	assert.Equal(t, []string{"Sheet1"}, wb.SheetNames())
}
