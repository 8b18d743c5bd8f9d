package models

import (
	"time"
)

// Attachment is a file uploaded alongside an expense. The database row is
// removed by the expense cascade; the backing file is removed by the
// repository when the expense is deleted.
type Attachment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Filename   string    `json:"filename" gorm:"size:256;not null"`
	Filepath   string    `json:"-" gorm:"size:512;not null"`
	ExpenseID  uint      `json:"expense_id" gorm:"index;not null"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
}

// TableName sets the table name.
func (Attachment) TableName() string {
	return "attachments"
}
