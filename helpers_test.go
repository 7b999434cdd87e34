package xlcodec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

const sheet1 = "Sheet1"

// newWorkbook returns an empty workbook closed at test cleanup.
func newWorkbook(t *testing.T, opts ...Option) *Workbook {
	t.Helper()
	wb, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = wb.Close() })
	return wb
}

// reopen serializes wb and opens the bytes as a fresh workbook.
func reopen(t *testing.T, wb *Workbook) *Workbook {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))
	out, err := OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = out.Close() })
	return out
}
