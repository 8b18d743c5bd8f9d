package repository

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"expensetracker/models"
	"expensetracker/service"

	"gorm.io/gorm"
)

// ExpenseFilter narrows an expense listing. Malformed date strings are
// ignored rather than rejected, so partial filters still apply.
type ExpenseFilter struct {
	CategoryID *uint
	StartDate  string // YYYY-MM-DD
	EndDate    string // YYYY-MM-DD, inclusive
	Page       int
	PageSize   int
}

// ExpensePage is one page of a user's expense history.
type ExpensePage struct {
	Expenses []models.Expense
	Total    int64
	Pages    int
	Page     int
	PageSize int
}

// ExpenseInput carries the fields for creating an expense.
type ExpenseInput struct {
	Title       string
	Amount      float64
	Date        time.Time
	Description string
	CategoryID  *uint
}

// ExpenseUpdate carries a partial update. Nil fields are left unchanged.
// A CategoryID of 0 clears the category reference.
type ExpenseUpdate struct {
	Title       *string
	Amount      *float64
	Date        *time.Time
	Description *string
	CategoryID  *uint
}

// Upload is a pending attachment file.
type Upload struct {
	Filename string
	Reader   io.Reader
}

// ExpenseRepository performs expense reads and writes scoped to a single
// acting user. Rows owned by other users are invisible.
type ExpenseRepository struct {
	db    *gorm.DB
	files *service.FileStore
}

// NewExpenseRepository creates a repository over db. files may be nil when
// attachment handling is not needed.
func NewExpenseRepository(db *gorm.DB, files *service.FileStore) *ExpenseRepository {
	return &ExpenseRepository{db: db, files: files}
}

// List returns one page of the user's expenses ordered by date descending
// (ties broken by id descending), with the total row and page counts.
func (r *ExpenseRepository) List(userID uint, f ExpenseFilter) (*ExpensePage, error) {
	page := f.Page
	if page < 1 {
		page = 1
	}
	size := f.PageSize
	if size < 1 {
		size = 10
	}
	if size > 100 {
		size = 100
	}

	query := r.db.Model(&models.Expense{}).Where("user_id = ?", userID)
	query = applyFilter(query, f)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var expenses []models.Expense
	offset := (page - 1) * size
	if err := query.
		Preload("Category").
		Preload("Attachments").
		Order("date DESC, id DESC").
		Offset(offset).
		Limit(size).
		Find(&expenses).Error; err != nil {
		return nil, err
	}

	pages := int((total + int64(size) - 1) / int64(size))
	return &ExpensePage{
		Expenses: expenses,
		Total:    total,
		Pages:    pages,
		Page:     page,
		PageSize: size,
	}, nil
}

func applyFilter(query *gorm.DB, f ExpenseFilter) *gorm.DB {
	if f.CategoryID != nil && *f.CategoryID != 0 {
		query = query.Where("category_id = ?", *f.CategoryID)
	}
	if f.StartDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", f.StartDate, time.Local); err == nil {
			query = query.Where("date >= ?", t)
		}
	}
	if f.EndDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", f.EndDate, time.Local); err == nil {
			// Inclusive of the end date itself.
			t = t.Add(24*time.Hour - time.Second)
			query = query.Where("date <= ?", t)
		}
	}
	return query
}

// ListAll returns the user's full expense history, date descending.
func (r *ExpenseRepository) ListAll(userID uint) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := r.db.
		Preload("Category").
		Preload("Attachments").
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// ListRange returns the user's expenses with date in [start, end].
// ascending selects the sort direction.
func (r *ExpenseRepository) ListRange(userID uint, start, end time.Time, ascending bool) ([]models.Expense, error) {
	order := "date DESC, id DESC"
	if ascending {
		order = "date ASC, id ASC"
	}
	var expenses []models.Expense
	if err := r.db.
		Preload("Category").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order(order).
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// Get returns the expense iff it is owned by userID, otherwise ErrNotFound.
func (r *ExpenseRepository) Get(userID, id uint) (*models.Expense, error) {
	var expense models.Expense
	err := r.db.
		Preload("Category").
		Preload("Attachments").
		Where("id = ? AND user_id = ?", id, userID).
		First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &expense, nil
}

// Create validates and persists a new expense for userID. When upload is
// non-nil, the attachment file and row are persisted in the same
// transaction as the expense: a failed file write rolls everything back.
func (r *ExpenseRepository) Create(userID uint, in ExpenseInput, upload *Upload) (*models.Expense, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, validationError("title is required")
	}
	if in.Amount <= 0 {
		return nil, validationError("amount must be positive")
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}

	expense := models.Expense{
		Title:       in.Title,
		Amount:      in.Amount,
		Date:        in.Date,
		Description: in.Description,
		CategoryID:  r.resolveCategory(userID, in.CategoryID),
		UserID:      userID,
	}

	var storedPath string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&expense).Error; err != nil {
			return err
		}
		if upload != nil {
			path, err := r.files.Save(upload.Filename, upload.Reader)
			if err != nil {
				return err
			}
			storedPath = path
			attachment := models.Attachment{
				Filename:  upload.Filename,
				Filepath:  path,
				ExpenseID: expense.ID,
			}
			if err := tx.Create(&attachment).Error; err != nil {
				return err
			}
			expense.Attachments = append(expense.Attachments, attachment)
		}
		return nil
	})
	if err != nil {
		// The row was rolled back; do not leave an orphaned file behind.
		if storedPath != "" && r.files != nil {
			_ = r.files.Remove(storedPath)
		}
		return nil, err
	}

	return r.Get(userID, expense.ID)
}

// Update applies the supplied fields to an owned expense, re-validating
// amount and category ownership on change, and persists a newly supplied
// attachment.
func (r *ExpenseRepository) Update(userID, id uint, u ExpenseUpdate, upload *Upload) (*models.Expense, error) {
	expense, err := r.Get(userID, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if title == "" {
			return nil, validationError("title is required")
		}
		updates["title"] = title
	}
	if u.Amount != nil {
		if *u.Amount <= 0 {
			return nil, validationError("amount must be positive")
		}
		updates["amount"] = *u.Amount
	}
	if u.Date != nil {
		updates["date"] = *u.Date
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.CategoryID != nil {
		if resolved := r.resolveCategory(userID, u.CategoryID); resolved != nil {
			updates["category_id"] = *resolved
		} else {
			updates["category_id"] = nil
		}
	}

	var storedPath string
	err = r.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(expense).Updates(updates).Error; err != nil {
				return err
			}
		}
		if upload != nil {
			path, err := r.files.Save(upload.Filename, upload.Reader)
			if err != nil {
				return err
			}
			storedPath = path
			attachment := models.Attachment{
				Filename:  upload.Filename,
				Filepath:  path,
				ExpenseID: expense.ID,
			}
			if err := tx.Create(&attachment).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if storedPath != "" && r.files != nil {
			_ = r.files.Remove(storedPath)
		}
		return nil, err
	}

	return r.Get(userID, id)
}

// Delete removes an owned expense. Attachment files are removed
// best-effort: a failed removal is reported as a warning but never stops
// the remaining cleanup or the row delete. Attachment rows go with the
// expense via the foreign key cascade.
func (r *ExpenseRepository) Delete(userID, id uint) ([]string, error) {
	expense, err := r.Get(userID, id)
	if err != nil {
		return nil, err
	}

	var warnings []string
	if r.files != nil {
		for _, attachment := range expense.Attachments {
			if err := r.files.Remove(attachment.Filepath); err != nil {
				warnings = append(warnings, fmt.Sprintf("remove %s: %v", attachment.Filepath, err))
			}
		}
	}

	if err := r.db.Delete(&models.Expense{}, expense.ID).Error; err != nil {
		return warnings, err
	}
	return warnings, nil
}

// resolveCategory returns categoryID only when it names a category owned
// by userID; otherwise the expense is stored uncategorized.
func (r *ExpenseRepository) resolveCategory(userID uint, categoryID *uint) *uint {
	if categoryID == nil || *categoryID == 0 {
		return nil
	}
	var category models.Category
	if err := r.db.Where("id = ? AND user_id = ?", *categoryID, userID).First(&category).Error; err != nil {
		return nil
	}
	return categoryID
}
