package xlcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowHeight(t *testing.T) {
	wb := newWorkbook(t)

	_, ok, err := wb.RowHeight(sheet1, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, wb.SetRowHeight(sheet1, 3, 32.5))
	h, ok, err := reopen(t, wb).RowHeight(sheet1, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 32.5, h)

	require.NoError(t, wb.SetRowHeight(sheet1, 3, 0))
	_, ok, err = wb.RowHeight(sheet1, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, wb.SetRowHeight(sheet1, 0, 10), ErrInvalidReference)
	assert.ErrorIs(t, wb.SetRowHeight(sheet1, 1, 410), ErrNumericOverflow)
	_, _, err = wb.RowHeight("Nope", 1)
	assert.ErrorIs(t, err, ErrUnknownSheet)
}

func TestColumnWidth(t *testing.T) {
	wb := newWorkbook(t)

	_, ok, err := wb.ColumnWidth(sheet1, "B")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, wb.SetColumnWidth(sheet1, "b", 18))
	w, ok, err := reopen(t, wb).ColumnWidth(sheet1, "B")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 18.0, w)

	_, ok, err = wb.ColumnWidth(sheet1, "C")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, wb.SetColumnWidth(sheet1, "B", 0), ErrInvalidEnumValue)
	assert.ErrorIs(t, wb.SetColumnWidth(sheet1, "B", 300), ErrNumericOverflow)
	assert.ErrorIs(t, wb.SetColumnWidth(sheet1, "B1", 10), ErrInvalidReference)
}

func TestMergeCells(t *testing.T) {
	wb := newWorkbook(t)
	require.NoError(t, wb.MergeCells(sheet1, "a1:c2"))
	require.NoError(t, wb.MergeCells(sheet1, "E5:D4"))

	got, err := reopen(t, wb).MergedRanges(sheet1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A1:C2", "D4:E5"}, got)

	require.NoError(t, wb.UnmergeCells(sheet1, " a1:c2 "))
	got, err = wb.MergedRanges(sheet1)
	require.NoError(t, err)
	assert.Equal(t, []string{"D4:E5"}, got)

	// No merge matches: nothing changes.
	require.NoError(t, wb.UnmergeCells(sheet1, "D4:E6"))
	got, err = wb.MergedRanges(sheet1)
	require.NoError(t, err)
	assert.Equal(t, []string{"D4:E5"}, got)

	assert.ErrorIs(t, wb.MergeCells(sheet1, "A1:?"), ErrInvalidReference)
}

func TestFreezePanes(t *testing.T) {
	wb := newWorkbook(t)

	got, err := wb.FreezePanes(sheet1)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, wb.SetFreezePanes(sheet1, "b2"))
	wb2 := reopen(t, wb)
	got, err = wb2.FreezePanes(sheet1)
	require.NoError(t, err)
	assert.Equal(t, "B2", got)

	p, err := wb2.Panes(sheet1)
	require.NoError(t, err)
	assert.Equal(t, PaneSettings{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	}, p)

	require.NoError(t, wb.SetFreezePanes(sheet1, "A1"))
	got, err = wb.FreezePanes(sheet1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFreezePanes_RowsOnly(t *testing.T) {
	wb := newWorkbook(t)
	require.NoError(t, wb.SetFreezePanes(sheet1, "A3"))

	p, err := wb.Panes(sheet1)
	require.NoError(t, err)
	assert.True(t, p.Freeze)
	assert.Equal(t, 0, p.XSplit)
	assert.Equal(t, 2, p.YSplit)
	assert.Equal(t, "bottomLeft", p.ActivePane)

	require.NoError(t, wb.SetFreezePanes(sheet1, ""))
	p, err = wb.Panes(sheet1)
	require.NoError(t, err)
	assert.False(t, p.Freeze)

	assert.ErrorIs(t, wb.SetFreezePanes(sheet1, "3A"), ErrInvalidReference)
}

func TestSetPanes_Split(t *testing.T) {
	wb := newWorkbook(t)
	require.NoError(t, wb.SetPanes(sheet1, PaneSettings{
		Split:       true,
		XSplit:      2400,
		YSplit:      1200,
		TopLeftCell: "c4",
		ActivePane:  "bottomRight",
	}))

	p, err := reopen(t, wb).Panes(sheet1)
	require.NoError(t, err)
	assert.Equal(t, PaneSettings{
		Split:       true,
		XSplit:      2400,
		YSplit:      1200,
		TopLeftCell: "C4",
		ActivePane:  "bottomRight",
	}, p)

	frozen, err := wb.FreezePanes(sheet1)
	require.NoError(t, err)
	assert.Empty(t, frozen)

	require.NoError(t, wb.SetPanes(sheet1, PaneSettings{}))
	p, err = wb.Panes(sheet1)
	require.NoError(t, err)
	assert.Equal(t, PaneSettings{}, p)

	err = wb.SetPanes(sheet1, PaneSettings{Split: true, XSplit: -1})
	assert.ErrorIs(t, err, ErrInvalidReference)
}
