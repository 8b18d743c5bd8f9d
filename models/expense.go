package models

import (
	"time"
)

// Expense record. Amount is always positive; UserID never changes after
// creation. CategoryID is optional and, when set, references a category
// owned by the same user.
type Expense struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Title       string       `json:"title" gorm:"size:128;not null"`
	Amount      float64      `json:"amount" gorm:"type:decimal(10,2);not null"`
	Date        time.Time    `json:"date" gorm:"not null;index"`
	Description string       `json:"description" gorm:"type:text"`
	CategoryID  *uint        `json:"category_id" gorm:"index"`
	UserID      uint         `json:"user_id" gorm:"index;not null"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Category    *Category    `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	User        User         `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Attachments []Attachment `json:"attachments" gorm:"foreignKey:ExpenseID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name.
func (Expense) TableName() string {
	return "expenses"
}

// CategoryName returns the category name or empty string when the expense
// is uncategorized. Requires the Category association to be preloaded.
func (e *Expense) CategoryName() string {
	if e.Category == nil {
		return ""
	}
	return e.Category.Name
}
