package models

import "time"

// User exists solely for API authentication; it has no relationship to the
// catalog entities.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,max=100"`
	Password  string    `json:"-" gorm:"type:varchar(255)" validate:"required"` // bcrypt hash
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
