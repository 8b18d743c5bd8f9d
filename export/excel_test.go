package export

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExcelLayout(t *testing.T) {
	data, err := Excel(sampleExpenses(), "Last 30 Days")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sheet := "Expenses"
	title, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Business Expenses Report - Last 30 Days", title)

	merges, err := f.GetMergeCells(sheet)
	require.NoError(t, err)
	require.Len(t, merges, 1)
	assert.Equal(t, "A1:E1", merges[0].GetStartAxis()+":"+merges[0].GetEndAxis())

	// Row 2 stays blank, row 3 is the header band.
	blank, _ := f.GetCellValue(sheet, "A2")
	assert.Empty(t, blank)
	for i, want := range []string{"Date", "Category", "Description", "Amount"} {
		got, err := f.GetCellValue(sheet, string(rune('A'+i))+"3")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// Data rows start at 4.
	got, _ := f.GetCellValue(sheet, "A4")
	assert.Equal(t, "2024-01-05", got)
	got, _ = f.GetCellValue(sheet, "B4")
	assert.Equal(t, "Office", got)
	got, _ = f.GetCellValue(sheet, "D4")
	assert.Equal(t, "4.5", got)

	// Blank row 7, totals on row 8.
	got, _ = f.GetCellValue(sheet, "C7")
	assert.Empty(t, got)
	got, _ = f.GetCellValue(sheet, "C8")
	assert.Equal(t, "Total:", got)
	got, _ = f.GetCellValue(sheet, "D8")
	assert.Equal(t, "424.5", got)

	width, err := f.GetColWidth(sheet, "C")
	require.NoError(t, err)
	assert.InDelta(t, 30, width, 1)
}

func TestExcelEmpty(t *testing.T) {
	data, err := Excel(nil, "Last 1 Year")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	title, _ := f.GetCellValue("Expenses", "A1")
	assert.Equal(t, "Business Expenses Report - Last 1 Year", title)
	total, _ := f.GetCellValue("Expenses", "D5")
	assert.Equal(t, "0", total)
}

// Exported cells re-parse to the same (date, category, amount) tuples.
func TestExcelRoundTrip(t *testing.T) {
	expenses := sampleExpenses()
	data, err := Excel(expenses, "Last 3 Months")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	for i, e := range expenses {
		row := 4 + i
		got, _ := f.GetCellValue("Expenses", cell('A', row))
		assert.Equal(t, e.Date.Format("2006-01-02"), got)
		got, _ = f.GetCellValue("Expenses", cell('B', row))
		assert.Equal(t, e.CategoryName(), got)
		got, _ = f.GetCellValue("Expenses", cell('D', row))
		assert.Equal(t, strconv.FormatFloat(e.Amount, 'f', -1, 64), got)
	}
}

func cell(col rune, row int) string {
	name, _ := excelize.CoordinatesToCellName(int(col-'A')+1, row)
	return name
}
