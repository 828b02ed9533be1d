// internal/models/review.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review rows are removed for real rather than soft-deleted: a tombstone
// would keep occupying the (user_id, product_id) unique slot and block the
// user from ever reviewing the product again.
type Review struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ProductID uuid.UUID  `json:"product_id" gorm:"type:uuid;not null;index:idx_reviews_user_product,unique,priority:2"`
	UserID    *uuid.UUID `json:"user_id" gorm:"type:uuid;index:idx_reviews_user_product,unique,priority:1"`
	Rating    int        `json:"rating" gorm:"not null"`
	Comment   string     `json:"comment" gorm:"size:1000"`
	Date      time.Time  `json:"date" gorm:"not null"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	User    *User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
