package export

import (
	"bytes"
	"fmt"

	"expensetracker/models"
	"expensetracker/stats"

	"github.com/go-pdf/fpdf"
)

// PDF renders the expense report document: title, a one-line summary, a
// category pie chart (omitted for an empty set) and the expense table with
// a shaded header and total row. Amounts appear as currency strings.
func PDF(expenses []models.Expense, periodLabel string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Business Expenses Report - %s", periodLabel), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	total := stats.Sum(expenses)
	pdf.SetFont("Helvetica", "", 11)
	summary := fmt.Sprintf("Total Expenses: $%s | Number of Transactions: %d", total.StringFixed(2), len(expenses))
	pdf.CellFormat(0, 7, summary, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if len(expenses) > 0 {
		png, err := categoryPie(stats.ByCategory(expenses))
		if err != nil {
			return nil, err
		}
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("category-pie", opts, bytes.NewReader(png))
		pageWidth, _ := pdf.GetPageSize()
		imgWidth := 110.0
		pdf.ImageOptions("category-pie", (pageWidth-imgWidth)/2, pdf.GetY(), imgWidth, 0, true, opts, 0, "")
		pdf.Ln(6)
	}

	widths := []float64{30, 38, 98, 30}
	headers := []string{"Date", "Category", "Description", "Amount"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(255, 255, 255)
	for i, header := range headers {
		align := "L"
		if i == len(headers)-1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, header, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for i := range expenses {
		e := &expenses[i]
		pdf.CellFormat(widths[0], 7, e.Date.Format("2006-01-02"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, categoryOrNA(e), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, e.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 7, fmt.Sprintf("$%.2f", e.Amount), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(211, 211, 211)
	pdf.CellFormat(widths[0], 8, "", "1", 0, "L", true, 0, "")
	pdf.CellFormat(widths[1], 8, "", "1", 0, "L", true, 0, "")
	pdf.CellFormat(widths[2], 8, "Total:", "1", 0, "L", true, 0, "")
	pdf.CellFormat(widths[3], 8, "$"+total.StringFixed(2), "1", 0, "R", true, 0, "")
	pdf.Ln(-1)

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
