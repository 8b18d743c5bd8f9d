package export

import (
	"fmt"

	"expensetracker/models"
	"expensetracker/stats"

	"github.com/xuri/excelize/v2"
)

// Excel renders a single-sheet workbook: a merged title row, a bold header
// band, one row per expense and a bold totals row.
func Excel(expenses []models.Expense, periodLabel string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Expenses"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	boldStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, err
	}

	// Title band merged one column past the data, then a blank row.
	f.SetCellValue(sheet, "A1", fmt.Sprintf("Business Expenses Report - %s", periodLabel))
	f.MergeCell(sheet, "A1", "E1")
	f.SetCellStyle(sheet, "A1", "E1", titleStyle)

	headers := []string{"Date", "Category", "Description", "Amount"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c3", 'A'+i)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	row := 4
	for i := range expenses {
		e := &expenses[i]
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), e.Date.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), categoryOrNA(e))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), e.Description)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), e.Amount)
		row++
	}

	// Blank row, then the grand total.
	row++
	total := stats.Sum(expenses)
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), "Total:")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), total.InexactFloat64())
	f.SetCellStyle(sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("D%d", row), boldStyle)

	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", "B", 15)
	f.SetColWidth(sheet, "C", "C", 30)
	f.SetColWidth(sheet, "D", "D", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
