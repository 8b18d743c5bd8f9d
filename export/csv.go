// Package export renders an already-fetched expense list into CSV, XLSX
// and PDF byte streams. Renderers are stateless and never query storage;
// callers pre-sort the list for the shape they want.
package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"expensetracker/models"
)

// categoryOrNA returns the category name, or "N/A" for uncategorized
// expenses.
func categoryOrNA(e *models.Expense) string {
	if name := e.CategoryName(); name != "" {
		return name
	}
	return "N/A"
}

// formatAmount renders an amount with the fewest digits that round-trip,
// always keeping at least one fractional digit (4.5, 120.0).
func formatAmount(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// HistoryCSV renders the full-history CSV shape:
// Date,Title,Amount,Category,Description.
func HistoryCSV(expenses []models.Expense) ([]byte, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	if err := writer.Write([]string{"Date", "Title", "Amount", "Category", "Description"}); err != nil {
		return nil, err
	}
	for i := range expenses {
		e := &expenses[i]
		row := []string{
			e.Date.Format("2006-01-02"),
			e.Title,
			formatAmount(e.Amount),
			categoryOrNA(e),
			e.Description,
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PeriodCSV renders the period export CSV shape:
// Date,Category,Description,Amount.
func PeriodCSV(expenses []models.Expense) ([]byte, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	if err := writer.Write([]string{"Date", "Category", "Description", "Amount"}); err != nil {
		return nil, err
	}
	for i := range expenses {
		e := &expenses[i]
		row := []string{
			e.Date.Format("2006-01-02"),
			categoryOrNA(e),
			e.Description,
			formatAmount(e.Amount),
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
