// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Product struct {
	BaseModel
	SellerID uuid.UUID      `json:"seller_id" gorm:"type:uuid;not null;index"`
	Name     string         `json:"name" gorm:"size:255;not null"`
	Brand    string         `json:"brand" gorm:"size:100"`
	Model    string         `json:"model" gorm:"size:100"`
	Category string         `json:"category" gorm:"size:100;index"`
	Price    float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock    int            `json:"stock" gorm:"default:0"`
	Images   pq.StringArray `json:"images" gorm:"type:text[]"`

	// Relationships
	Seller  User            `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Reviews []Review        `json:"reviews,omitempty" gorm:"foreignKey:ProductID"`
	Reports []ProductReport `json:"reports,omitempty" gorm:"foreignKey:ProductID"`
}

// ProductReport is a moderation record referencing a product. Storage does
// not cascade the reference, so reports are removed through the inventory
// service before the product row itself.
type ProductReport struct {
	BaseModel
	ProductID  uuid.UUID    `json:"product_id" gorm:"type:uuid;not null;index"`
	ReporterID *uuid.UUID   `json:"reporter_id" gorm:"type:uuid"`
	Reason     string       `json:"reason" gorm:"type:text"`
	Status     ReportStatus `json:"status" gorm:"type:varchar(20);default:'open';index"`
}
