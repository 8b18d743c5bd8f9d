package api

import (
	"strconv"

	"expensetracker/database"
	"expensetracker/middleware"
	"expensetracker/repository"

	"github.com/gin-gonic/gin"
)

// CategoryHandler serves category CRUD.
type CategoryHandler struct{}

// NewCategoryHandler creates a category handler.
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

func (h *CategoryHandler) repo() *repository.CategoryRepository {
	return repository.NewCategoryRepository(database.DB)
}

// CategoryCreateRequest is the category creation payload.
type CategoryCreateRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=64" example:"Office"`
	Description string `json:"description" binding:"omitempty,max=256" example:"Desks, chairs, supplies"`
}

// CategoryUpdateRequest is the partial category update payload.
type CategoryUpdateRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=64"`
	Description *string `json:"description" binding:"omitempty,max=256"`
}

// List returns the user's categories with expense counts
// @Summary List categories
// @Description List the current user's categories with per-category expense counts
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	categories, err := h.repo().ListWithCounts(userID)
	if err != nil {
		RepositoryError(c, err, "list categories failed")
		return
	}
	Success(c, gin.H{"categories": categories})
}

// Create records a new category
// @Summary Create category
// @Description Create a category owned by the current user
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryCreateRequest true "category fields"
// @Success 200 {object} Response{data=models.Category} "created"
// @Failure 400 {object} Response "invalid request"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	category, err := h.repo().Create(userID, repository.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		RepositoryError(c, err, "create category failed")
		return
	}
	SuccessWithMessage(c, "category created", category)
}

// Update applies a partial update to a category
// @Summary Update category
// @Description Update supplied fields of a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Param request body CategoryUpdateRequest true "fields to update"
// @Success 200 {object} Response{data=models.Category} "updated"
// @Failure 400 {object} Response "invalid request"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var req CategoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	category, err := h.repo().Update(userID, uint(id), repository.CategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		RepositoryError(c, err, "update category failed")
		return
	}
	SuccessWithMessage(c, "category updated", category)
}

// Delete removes a category, keeping its expenses
// @Summary Delete category
// @Description Delete a category; expenses referencing it become uncategorized
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Success 200 {object} Response "deleted"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	if err := h.repo().Delete(userID, uint(id)); err != nil {
		RepositoryError(c, err, "delete category failed")
		return
	}
	SuccessWithMessage(c, "category deleted", nil)
}
