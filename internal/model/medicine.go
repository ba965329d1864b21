package model

import (
	"time"
)

// Medicine represents a warehouse inventory item. JSON field names follow the
// camelCase wire format the web frontend already speaks.
type Medicine struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"type:varchar(255);not null"`
	Description  *string   `json:"description" gorm:"type:text"`
	Price        float64   `json:"price" gorm:"not null"`
	Quantity     int       `json:"quantity" gorm:"not null;default:0"`
	MinStock     int       `json:"minStock" gorm:"not null;default:0"`
	ReorderLevel int       `json:"reorderLevel" gorm:"not null;default:0"`
	SupplierID   uint      `json:"supplierId" gorm:"index;not null"`
	Supplier     *Supplier `json:"-" gorm:"foreignKey:SupplierID;constraint:OnDelete:RESTRICT"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
