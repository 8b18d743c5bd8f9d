package api

import (
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"expensetracker/database"
	"expensetracker/middleware"
	"expensetracker/repository"
	"expensetracker/service"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler serves expense CRUD for both the legacy surface and the
// v1 API.
type ExpenseHandler struct {
	files *service.FileStore
}

// NewExpenseHandler creates an expense handler.
func NewExpenseHandler(files *service.FileStore) *ExpenseHandler {
	return &ExpenseHandler{files: files}
}

func (h *ExpenseHandler) repo() *repository.ExpenseRepository {
	return repository.NewExpenseRepository(database.DB, h.files)
}

// CreateExpenseRequest is the expense creation payload.
type CreateExpenseRequest struct {
	Title       string  `json:"title" form:"title" binding:"required,max=128" example:"Team lunch"`
	Amount      float64 `json:"amount" form:"amount" binding:"required,gt=0" example:"42.50"`
	Date        string  `json:"date" form:"date" example:"2024-01-15"`
	Description string  `json:"description" form:"description" example:"Friday lunch with the team"`
	CategoryID  *uint   `json:"category_id" form:"category_id" example:"3"`
}

// UpdateExpenseRequest is the partial update payload. Absent fields are
// left unchanged; category_id 0 clears the category.
type UpdateExpenseRequest struct {
	Title       *string  `json:"title" form:"title" binding:"omitempty,max=128"`
	Amount      *float64 `json:"amount" form:"amount" binding:"omitempty,gt=0"`
	Date        *string  `json:"date" form:"date"`
	Description *string  `json:"description" form:"description"`
	CategoryID  *uint    `json:"category_id" form:"category_id"`
}

// ExpenseListRequest are the list query parameters.
type ExpenseListRequest struct {
	Page       int    `form:"page" example:"1"`
	PerPage    int    `form:"per_page" example:"20"`
	CategoryID *uint  `form:"category_id"`
	StartDate  string `form:"start_date" example:"2024-01-01"`
	EndDate    string `form:"end_date" example:"2024-12-31"`
}

// parseDate accepts a plain calendar date or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// List returns a page of the user's expenses
// @Summary List expenses
// @Description List the current user's expenses, newest first, with optional category and date-range filters
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param page query int false "page number" default(1)
// @Param per_page query int false "page size" default(20)
// @Param category_id query int false "category filter"
// @Param start_date query string false "start date (2024-01-01)"
// @Param end_date query string false "end date (2024-12-31), inclusive"
// @Success 200 {object} Response "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req ExpenseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	if req.PerPage <= 0 {
		req.PerPage = 20
	}

	page, err := h.repo().List(userID, repository.ExpenseFilter{
		CategoryID: req.CategoryID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Page:       req.Page,
		PageSize:   req.PerPage,
	})
	if err != nil {
		RepositoryError(c, err, "list expenses failed")
		return
	}

	Success(c, gin.H{
		"expenses":     page.Expenses,
		"total":        page.Total,
		"pages":        page.Pages,
		"current_page": page.Page,
	})
}

// ListAll returns the user's full expense history as a plain array,
// matching the legacy surface
// @Summary List all expenses (legacy)
// @Description Full expense history, newest first, as a plain JSON array
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Expense "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/expenses [get]
func (h *ExpenseHandler) ListAll(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	expenses, err := h.repo().ListAll(userID)
	if err != nil {
		RepositoryError(c, err, "list expenses failed")
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// Create records a new expense
// @Summary Create expense
// @Description Create an expense. Send JSON, or multipart/form-data with an optional "attachment" file persisted atomically with the expense
// @Tags expenses
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body CreateExpenseRequest true "expense fields"
// @Success 201 {object} models.Expense "created"
// @Failure 400 {object} Response "invalid request"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateExpenseRequest
	upload, file, err := h.bindPayload(c, &req)
	if err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	if file != nil {
		defer file.Close()
	}

	input := repository.ExpenseInput{
		Title:       req.Title,
		Amount:      req.Amount,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			BadRequest(c, "invalid date, expected format: 2024-01-15")
			return
		}
		input.Date = date
	}

	expense, err := h.repo().Create(userID, input, upload)
	if err != nil {
		RepositoryError(c, err, "create expense failed")
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// bindPayload binds an expense payload from JSON or multipart form data.
// For multipart requests the optional "attachment" file becomes an upload.
func (h *ExpenseHandler) bindPayload(c *gin.Context, req interface{}) (*repository.Upload, multipart.File, error) {
	if c.ContentType() != "multipart/form-data" {
		return nil, nil, c.ShouldBindJSON(req)
	}

	if err := c.ShouldBind(req); err != nil {
		return nil, nil, err
	}
	header, err := c.FormFile("attachment")
	if err != nil {
		// No file supplied.
		return nil, nil, nil
	}
	file, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	return &repository.Upload{Filename: header.Filename, Reader: file}, file, nil
}

// Get returns one expense
// @Summary Get expense
// @Description Get one of the current user's expenses by id
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "expense id"
// @Success 200 {object} models.Expense "ok"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	expense, err := h.repo().Get(userID, uint(id))
	if err != nil {
		RepositoryError(c, err, "get expense failed")
		return
	}
	c.JSON(http.StatusOK, expense)
}

// Update applies a partial update to an expense
// @Summary Update expense
// @Description Update supplied fields of an expense; category_id 0 clears the category. Multipart requests may add an "attachment" file
// @Tags expenses
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "expense id"
// @Param request body UpdateExpenseRequest true "fields to update"
// @Success 200 {object} models.Expense "updated"
// @Failure 400 {object} Response "invalid request"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var req UpdateExpenseRequest
	upload, file, err := h.bindPayload(c, &req)
	if err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	if file != nil {
		defer file.Close()
	}

	update := repository.ExpenseUpdate{
		Title:       req.Title,
		Amount:      req.Amount,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			BadRequest(c, "invalid date, expected format: 2024-01-15")
			return
		}
		update.Date = &date
	}

	expense, err := h.repo().Update(userID, uint(id), update, upload)
	if err != nil {
		RepositoryError(c, err, "update expense failed")
		return
	}
	c.JSON(http.StatusOK, expense)
}

// Delete removes an expense and its attachments
// @Summary Delete expense
// @Description Delete an expense; attachment rows and files go with it
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "expense id"
// @Success 200 {object} Response "deleted"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	warnings, err := h.repo().Delete(userID, uint(id))
	for _, w := range warnings {
		// File cleanup problems are not the caller's failure.
		log.Printf("warning: attachment cleanup: %s", w)
	}
	if err != nil {
		RepositoryError(c, err, "delete expense failed")
		return
	}
	SuccessWithMessage(c, "expense deleted", nil)
}
