package api

import (
	"fmt"
	"net/http"
	"time"

	"expensetracker/database"
	"expensetracker/export"
	"expensetracker/middleware"
	"expensetracker/repository"
	"expensetracker/stats"

	"github.com/gin-gonic/gin"
)

// ExportHandler serves file downloads of the expense history.
type ExportHandler struct{}

// NewExportHandler creates an export handler.
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

func (h *ExportHandler) repo() *repository.ExpenseRepository {
	return repository.NewExpenseRepository(database.DB, nil)
}

func (h *ExportHandler) sendAttachment(c *gin.Context, data []byte, filename, contentType string) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", len(data)))
	c.Data(http.StatusOK, contentType, data)
}

// ExportExcel downloads a styled XLSX report for a lookback period
// @Summary Export Excel
// @Description Excel workbook of the period's expenses with a title, header band and totals row
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param period path string true "period token" Enums(30days,3months,6months,1year)
// @Success 200 {file} file "XLSX file"
// @Failure 400 {object} map[string]interface{} "invalid period"
// @Failure 401 {object} Response "unauthorized"
// @Router /export/excel/{period} [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	window, err := stats.PeriodWindow(c.Param("period"), time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period"})
		return
	}

	expenses, err := h.repo().ListRange(userID, window.Start, window.End, true)
	if err != nil {
		RepositoryError(c, err, "export failed")
		return
	}

	data, err := export.Excel(expenses, window.Label)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "render workbook failed"))
		return
	}

	h.sendAttachment(c, data,
		fmt.Sprintf("expenses_%s.xlsx", window.Token),
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

// ExportPDF downloads a PDF report with a category chart
// @Summary Export PDF
// @Description PDF report of the period's expenses with summary, category pie chart and table
// @Tags export
// @Produce application/pdf
// @Security BearerAuth
// @Param period path string true "period token" Enums(30days,3months,6months,1year)
// @Success 200 {file} file "PDF file"
// @Failure 400 {object} map[string]interface{} "invalid period"
// @Failure 401 {object} Response "unauthorized"
// @Router /export/pdf/{period} [get]
func (h *ExportHandler) ExportPDF(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	window, err := stats.PeriodWindow(c.Param("period"), time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period"})
		return
	}

	expenses, err := h.repo().ListRange(userID, window.Start, window.End, true)
	if err != nil {
		RepositoryError(c, err, "export failed")
		return
	}

	data, err := export.PDF(expenses, window.Label)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "render document failed"))
		return
	}

	h.sendAttachment(c, data,
		fmt.Sprintf("expenses_%s.pdf", window.Token),
		"application/pdf")
}

// ExportPeriodCSV downloads the period CSV shape
// @Summary Export period CSV
// @Description CSV of the period's expenses (Date,Category,Description,Amount), ascending by date
// @Tags export
// @Produce text/csv
// @Security BearerAuth
// @Param period path string true "period token" Enums(30days,3months,6months,1year)
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} map[string]interface{} "invalid period"
// @Failure 401 {object} Response "unauthorized"
// @Router /export/csv/{period} [get]
func (h *ExportHandler) ExportPeriodCSV(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	window, err := stats.PeriodWindow(c.Param("period"), time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period"})
		return
	}

	expenses, err := h.repo().ListRange(userID, window.Start, window.End, true)
	if err != nil {
		RepositoryError(c, err, "export failed")
		return
	}

	data, err := export.PeriodCSV(expenses)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "render CSV failed"))
		return
	}

	h.sendAttachment(c, data,
		fmt.Sprintf("expenses_%s.csv", window.Token),
		"text/csv; charset=utf-8")
}

// ExportHistory dumps the full expense history as JSON or CSV
// @Summary Export history
// @Description Full expense history, newest first. format=json returns a JSON dump with totals; format=csv downloads Date,Title,Amount,Category,Description rows
// @Tags export
// @Produce json,text/csv
// @Security BearerAuth
// @Param format query string false "json or csv" default(json)
// @Success 200 {object} map[string]interface{} "ok"
// @Failure 400 {object} map[string]interface{} "invalid format"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/export [get]
func (h *ExportHandler) ExportHistory(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "csv" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid format"})
		return
	}

	expenses, err := h.repo().ListAll(userID)
	if err != nil {
		RepositoryError(c, err, "export failed")
		return
	}

	if format == "csv" {
		data, err := export.HistoryCSV(expenses)
		if err != nil {
			InternalError(c, SafeErrorMessage(err, "render CSV failed"))
			return
		}
		h.sendAttachment(c, data,
			fmt.Sprintf("expenses_%s.csv", time.Now().Format("20060102")),
			"text/csv; charset=utf-8")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"expenses":     expenses,
		"total_amount": stats.Sum(expenses).InexactFloat64(),
		"count":        len(expenses),
	})
}
