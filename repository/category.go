package repository

import (
	"errors"
	"strings"

	"expensetracker/models"

	"gorm.io/gorm"
)

// CategoryWithCount is a category plus the number of expenses that
// reference it.
type CategoryWithCount struct {
	models.Category
	ExpenseCount int64 `json:"expense_count"`
}

// CategoryInput carries the fields for creating a category.
type CategoryInput struct {
	Name        string
	Description string
}

// CategoryUpdate carries a partial category update.
type CategoryUpdate struct {
	Name        *string
	Description *string
}

// CategoryRepository performs category reads and writes scoped to a single
// acting user.
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a repository over db.
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns the user's categories ordered by id.
func (r *CategoryRepository) List(userID uint) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// ListWithCounts returns the user's categories with per-category expense
// counts.
func (r *CategoryRepository) ListWithCounts(userID uint) ([]CategoryWithCount, error) {
	var categories []CategoryWithCount
	err := r.db.Model(&models.Category{}).
		Select("categories.*, COUNT(expenses.id) AS expense_count").
		Joins("LEFT JOIN expenses ON expenses.category_id = categories.id").
		Where("categories.user_id = ?", userID).
		Group("categories.id").
		Order("categories.id ASC").
		Scan(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// Get returns the category iff it is owned by userID, otherwise ErrNotFound.
func (r *CategoryRepository) Get(userID, id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// Create validates and persists a new category for userID.
func (r *CategoryRepository) Create(userID uint, in CategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, validationError("name is required")
	}

	category := models.Category{
		Name:        in.Name,
		Description: in.Description,
		UserID:      userID,
	}
	if err := r.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Update applies the supplied fields to an owned category.
func (r *CategoryRepository) Update(userID, id uint, u CategoryUpdate) (*models.Category, error) {
	category, err := r.Get(userID, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return nil, validationError("name is required")
		}
		updates["name"] = name
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}

	if len(updates) > 0 {
		if err := r.db.Model(category).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.Get(userID, id)
}

// Delete removes an owned category. Expenses referencing it are kept and
// their category reference is cleared, in the same transaction.
func (r *CategoryRepository) Delete(userID, id uint) error {
	category, err := r.Get(userID, id)
	if err != nil {
		return err
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Expense{}).
			Where("category_id = ? AND user_id = ?", category.ID, userID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, category.ID).Error
	})
}
