package models

import "time"

// Product represents a catalog item. The ID is assigned by the store on
// creation and never changes afterwards.
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null" validate:"required,max=255"`
	Description string    `json:"description" gorm:"type:varchar(1000)" validate:"omitempty,max=1000"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
