package model

import (
	"time"
)

// Supplier represents a vendor that medicines are sourced from.
type Supplier struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	ContactInfo string    `json:"contactInfo" gorm:"type:text;not null"`
	Terms       string    `json:"terms" gorm:"type:text;not null"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
