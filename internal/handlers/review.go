// internal/handlers/review.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopkite/shop-backend/internal/services"
	"github.com/shopkite/shop-backend/internal/utils"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// POST /products/:id/reviews
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	// Authenticated users get the one-review-per-product upsert; anonymous
	// submissions are allowed where the route permits it.
	var userID *uuid.UUID
	if userIDStr, exists := utils.GetUserIDFromContext(c); exists {
		if parsed, err := uuid.Parse(userIDStr); err == nil {
			userID = &parsed
		}
	}

	var req services.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	review, err := h.reviewService.SubmitReview(userID, productID, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, review)
}

// GET /products/:id/reviews
func (h *ReviewHandler) GetProductReviews(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	reviews, err := h.reviewService.ListByProduct(productID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, reviews)
}

// GET /products/:id/rating
func (h *ReviewHandler) GetProductRating(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	avg, ok, err := h.reviewService.AverageRating(productID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	// No reviews yet: the average is absent, not zero.
	if !ok {
		utils.SuccessResponse(c, gin.H{"average_rating": nil})
		return
	}

	utils.SuccessResponse(c, gin.H{"average_rating": avg})
}
