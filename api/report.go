package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"expensetracker/database"
	"expensetracker/middleware"
	"expensetracker/repository"
	"expensetracker/stats"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves aggregate report data.
type ReportHandler struct{}

// NewReportHandler creates a report handler.
func NewReportHandler() *ReportHandler {
	return &ReportHandler{}
}

func (h *ReportHandler) repo() *repository.ExpenseRepository {
	return repository.NewExpenseRepository(database.DB, nil)
}

// GetReportData returns chart data for a lookback period
// @Summary Period report data
// @Description Category and per-day totals for a fixed lookback window, in the shape the dashboard charts consume
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param period path string true "period token" Enums(30days,3months,6months,1year)
// @Success 200 {object} map[string]interface{} "ok"
// @Failure 400 {object} map[string]interface{} "invalid period"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/report-data/{period} [get]
func (h *ReportHandler) GetReportData(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	window, err := stats.PeriodWindow(c.Param("period"), time.Now())
	if err != nil {
		if errors.Is(err, stats.ErrInvalidPeriod) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period"})
			return
		}
		InternalError(c, SafeErrorMessage(err, "report failed"))
		return
	}

	expenses, err := h.repo().ListRange(userID, window.Start, window.End, true)
	if err != nil {
		RepositoryError(c, err, "report failed")
		return
	}

	categoryTotals := stats.ByCategory(expenses)
	categoryLabels := make([]string, 0, len(categoryTotals))
	categoryValues := make([]float64, 0, len(categoryTotals))
	for _, ct := range categoryTotals {
		categoryLabels = append(categoryLabels, ct.Category)
		categoryValues = append(categoryValues, ct.Total.InexactFloat64())
	}

	dateTotals := stats.ByDate(expenses)
	dateLabels := make([]string, 0, len(dateTotals))
	dateValues := make([]float64, 0, len(dateTotals))
	for _, dt := range dateTotals {
		dateLabels = append(dateLabels, dt.Date)
		dateValues = append(dateValues, dt.Total.InexactFloat64())
	}

	c.JSON(http.StatusOK, gin.H{
		"categoryData": gin.H{
			"labels": categoryLabels,
			"values": categoryValues,
		},
		"dateData": gin.H{
			"labels": dateLabels,
			"values": dateValues,
		},
		"total": stats.Sum(expenses).InexactFloat64(),
		"count": len(expenses),
	})
}

// GetYearlyReport returns per-month and per-category totals for one year
// @Summary Yearly report
// @Description Monthly totals (sparse, months without expenses omitted) and category breakdown for the given year
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param year query int false "year, defaults to the current year"
// @Param category_id query int false "category filter"
// @Success 200 {object} Response "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/reports/yearly [get]
func (h *ReportHandler) GetYearlyReport(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	year := time.Now().Year()
	if s := c.Query("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < 2000 || y > 2100 {
			BadRequest(c, "invalid year")
			return
		}
		year = y
	}

	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(year, 12, 31, 23, 59, 59, 0, time.Local)
	expenses, err := h.repo().ListRange(userID, start, end, true)
	if err != nil {
		RepositoryError(c, err, "report failed")
		return
	}

	if s := c.Query("category_id"); s != "" {
		if id, err := strconv.ParseUint(s, 10, 32); err == nil {
			filtered := expenses[:0]
			for _, e := range expenses {
				if e.CategoryID != nil && *e.CategoryID == uint(id) {
					filtered = append(filtered, e)
				}
			}
			expenses = filtered
		}
	}

	monthly := make([]gin.H, 0, 12)
	for _, mt := range stats.ByMonth(expenses, year) {
		monthly = append(monthly, gin.H{"month": mt.Month, "total": mt.Total.InexactFloat64()})
	}
	categories := make([]gin.H, 0)
	for _, ct := range stats.ByCategory(expenses) {
		categories = append(categories, gin.H{"category": ct.Category, "total": ct.Total.InexactFloat64()})
	}

	Success(c, gin.H{
		"year":       year,
		"monthly":    monthly,
		"categories": categories,
		"total":      stats.Sum(expenses).InexactFloat64(),
		"count":      len(expenses),
	})
}
