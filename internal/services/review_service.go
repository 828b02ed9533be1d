// internal/services/review_service.go
package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopkite/shop-backend/internal/apperrors"
	"github.com/shopkite/shop-backend/internal/models"
)

type ReviewService struct {
	db *gorm.DB
}

type SubmitReviewRequest struct {
	Rating  *int   `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// SubmitReview upserts a review keyed on (userID, productID): an existing
// review is overwritten in place keeping its identity, otherwise a new row
// is created. The check-and-write runs in one transaction, and the composite
// unique index on reviews(user_id, product_id) backs the invariant should
// two first-time submissions race.
func (s *ReviewService) SubmitReview(userID *uuid.UUID, productID uuid.UUID, req *SubmitReviewRequest) (*models.Review, error) {
	if req.Rating == nil {
		return nil, apperrors.NewValidationError("rating", nil, "rating is required")
	}
	if *req.Rating < 1 || *req.Rating > 5 {
		return nil, apperrors.NewValidationError("rating", *req.Rating, "rating must be between 1 and 5")
	}
	if len(req.Comment) > 1000 {
		return nil, apperrors.NewValidationError("comment", len(req.Comment), "comment must be at most 1000 characters")
	}

	var review models.Review

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFoundError("product", productID.String())
			}
			return fmt.Errorf("database error: %w", err)
		}

		now := time.Now()

		// Anonymous reviews have no uniqueness key and always insert.
		if userID != nil {
			var existing models.Review
			err := tx.Where("user_id = ? AND product_id = ?", *userID, productID).
				First(&existing).Error
			if err == nil {
				existing.Rating = *req.Rating
				existing.Comment = req.Comment
				existing.Date = now
				if err := tx.Save(&existing).Error; err != nil {
					return fmt.Errorf("failed to update review: %w", err)
				}
				review = existing
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("database error: %w", err)
			}
		}

		review = models.Review{
			ProductID: productID,
			UserID:    userID,
			Rating:    *req.Rating,
			Comment:   req.Comment,
			Date:      now,
		}
		if err := tx.Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.NewConflictError("review",
					fmt.Sprintf("review for product %s already exists", productID))
			}
			return fmt.Errorf("failed to create review: %w", err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return &review, nil
}

// ListByProduct returns all reviews for a product, newest first.
func (s *ReviewService) ListByProduct(productID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	if err := s.db.Where("product_id = ?", productID).
		Order("date DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}

	return reviews, nil
}

// AverageRating computes the mean rating on read. The second return value is
// false when the product has no reviews; callers must not read that as an
// average of zero.
func (s *ReviewService) AverageRating(productID uuid.UUID) (float64, bool, error) {
	var avg sql.NullFloat64
	if err := s.db.Model(&models.Review{}).
		Where("product_id = ?", productID).
		Select("AVG(rating)").
		Scan(&avg).Error; err != nil {
		return 0, false, fmt.Errorf("failed to compute average rating: %w", err)
	}

	if !avg.Valid {
		return 0, false, nil
	}

	return avg.Float64, true, nil
}
