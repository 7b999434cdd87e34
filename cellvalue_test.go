package xlcodec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadCell_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   CellValue
		want CellValue
	}{
		{"string", String("hello"), String("hello")},
		{"numeric text stays text", String("123"), String("123")},
		{"crlf normalized", String("a\r\nb"), String("a\nb")},
		{"number", Number(1200.5), Number(1200.5)},
		{"negative number", Number(-3), Number(-3)},
		{"boolean true", Boolean(true), Boolean(true)},
		{"boolean false", Boolean(false), Boolean(false)},
		{"date", Date("2024-03-31"), Date("2024-03-31")},
		{"datetime", DateTime("2024-03-31T17:45:00"), DateTime("2024-03-31T17:45:00")},
		{"datetime with millis", DateTime("2024-03-31T17:45:00.250"), DateTime("2024-03-31T17:45:00.25")},
		{"early date", Date("1900-01-01"), Date("1900-01-01")},
		{"formula", Formula("=SUM(A1:A3)"), Formula("SUM(A1:A3)")},
		{"error via formula", Error("#DIV/0!"), Error("#DIV/0!")},
		{"na error", Error("#N/A"), Error("#N/A")},
		{"error literal", Error("#REF!"), Error("#REF!")},
		{"true text reads as boolean", String("TRUE"), Boolean(true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb := newWorkbook(t)
			require.NoError(t, wb.WriteCell(sheet1, "B2", tt.in))

			got, err := wb.ReadCell(sheet1, "B2")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			got, err = reopen(t, wb).ReadCell(sheet1, "B2")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteCell_BlankIsNoop(t *testing.T) {
	wb := newWorkbook(t)
	require.NoError(t, wb.WriteCell(sheet1, "A1", Number(1)))
	require.NoError(t, wb.WriteCell(sheet1, "A1", Blank()))

	got, err := wb.ReadCell(sheet1, "A1")
	require.NoError(t, err)
	assert.Equal(t, Number(1), got)

	got, err = wb.ReadCell(sheet1, "C9")
	require.NoError(t, err)
	assert.Equal(t, Blank(), got)
}

func TestWriteCell_DateFormatOption(t *testing.T) {
	wb := newWorkbook(t, WithDateFormat("dd/mm/yyyy"))
	require.NoError(t, wb.WriteCell(sheet1, "A1", Date("2024-02-29")))

	f, err := wb.ReadFormat(sheet1, "A1")
	require.NoError(t, err)
	require.NotNil(t, f.NumberFormat)
	assert.Equal(t, "dd/mm/yyyy", *f.NumberFormat)

	got, err := wb.ReadCell(sheet1, "A1")
	require.NoError(t, err)
	assert.Equal(t, Date("2024-02-29"), got)
}

func TestWriteCell_DateKeepsStyle(t *testing.T) {
	wb := newWorkbook(t)
	require.NoError(t, wb.WriteFormat(sheet1, "A1", CellFormat{Bold: ptr(true)}))
	require.NoError(t, wb.WriteCell(sheet1, "A1", Date("2024-01-15")))

	f, err := wb.ReadFormat(sheet1, "A1")
	require.NoError(t, err)
	require.NotNil(t, f.Bold)
	assert.True(t, *f.Bold)
}

func TestReadCell_NumberUnderDateFormatIsDate(t *testing.T) {
	wb := newWorkbook(t)
	require.NoError(t, wb.WriteCell(sheet1, "A1", Number(45382.75)))
	require.NoError(t, wb.WriteFormat(sheet1, "A1", CellFormat{NumberFormat: ptr("yyyy-mm-dd hh:mm")}))

	got, err := wb.ReadCell(sheet1, "A1")
	require.NoError(t, err)
	assert.Equal(t, DateTime("2024-03-31T18:00:00"), got)
}

func TestWriteCell_Errors(t *testing.T) {
	wb := newWorkbook(t)

	tests := []struct {
		name  string
		sheet string
		ref   string
		v     CellValue
		want  error
	}{
		{"unknown sheet", "Nope", "A1", Number(1), ErrUnknownSheet},
		{"bad ref", sheet1, "1A", Number(1), ErrInvalidReference},
		{"unknown type", sheet1, "A1", CellValue{Type: "money", Value: 1.0}, ErrUnsupportedValueType},
		{"number payload", sheet1, "A1", CellValue{Type: TypeNumber, Value: "12"}, ErrUnsupportedValueType},
		{"missing number", sheet1, "A1", CellValue{Type: TypeNumber}, ErrMissingRequiredField},
		{"boolean payload", sheet1, "A1", CellValue{Type: TypeBoolean, Value: "yes"}, ErrUnsupportedValueType},
		{"empty formula", sheet1, "A1", CellValue{Type: TypeFormula}, ErrMissingRequiredField},
		{"bad date", sheet1, "A1", Date("31/03/2024"), ErrInvalidDateFormat},
		{"bad datetime", sheet1, "A1", DateTime("2024-03-31T25:00:00"), ErrInvalidDateFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wb.WriteCell(tt.sheet, tt.ref, tt.v)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// Nothing was written by the rejected calls.
	got, err := wb.ReadCell(sheet1, "A1")
	require.NoError(t, err)
	assert.Equal(t, Blank(), got)
}

func TestValueOf(t *testing.T) {
	tests := []struct {
		in   any
		want CellValue
	}{
		{nil, Blank()},
		{"x", String("x")},
		{"=A1+1", Formula("A1+1")},
		{"#N/A", Error("#N/A")},
		{"#REF!", Error("#REF!")},
		{true, Boolean(true)},
		{42, Number(42)},
		{int8(-1), Number(-1)},
		{uint16(7), Number(7)},
		{float32(0.5), Number(0.5)},
		{time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Date("2024-01-02")},
		{time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), DateTime("2024-01-02T03:04:05")},
		{Number(3), Number(3)},
	}
	for _, tt := range tests {
		got, err := ValueOf(tt.in)
		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ValueOf(struct{}{})
	assert.ErrorIs(t, err, ErrUnsupportedValueType)
}

func TestCellValue_String(t *testing.T) {
	assert.Equal(t, "", Blank().String())
	assert.Equal(t, "1200.5", Number(1200.5).String())
	assert.Equal(t, "=SUM(A1)", Formula("SUM(A1)").String())
	assert.Equal(t, "true", Boolean(true).String())
	assert.Equal(t, "2024-03-31", Date("2024-03-31").String())
}

func TestAppendRow(t *testing.T) {
	wb := newWorkbook(t)
	require.NoError(t, wb.AppendRow(sheet1, "Name", "Score"))
	require.NoError(t, wb.AppendRow(sheet1, "Ann", 91.5))
	require.NoError(t, wb.AppendRow(sheet1, "Bob", nil, "=B2*2"))

	grid, err := wb.ReadRange(sheet1, "A1:C3")
	require.NoError(t, err)
	assert.Equal(t, [][]CellValue{
		{String("Name"), String("Score"), Blank()},
		{String("Ann"), Number(91.5), Blank()},
		{String("Bob"), Blank(), Formula("B2*2")},
	}, grid)

	n, err := wb.MaxRow(sheet1)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestAppendRow_RejectsBeforeWriting(t *testing.T) {
	wb := newWorkbook(t)
	err := wb.AppendRow(sheet1, "ok", CellValue{Type: TypeNumber, Value: "bad"})
	assert.ErrorIs(t, err, ErrUnsupportedValueType)

	n, err := wb.MaxRow(sheet1)
	require.NoError(t, err)
	assert.Zero(t, n)
}
