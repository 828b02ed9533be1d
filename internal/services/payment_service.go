// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/refund"
	"gorm.io/gorm"

	"github.com/shopkite/shop-backend/internal/apperrors"
	"github.com/shopkite/shop-backend/internal/config"
	"github.com/shopkite/shop-backend/internal/models"
)

type PaymentService struct {
	db           *gorm.DB
	config       *config.Config
	orderService *OrderService
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    string `json:"payment_id"`
	Status       string `json:"status"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

func NewPaymentService(db *gorm.DB, config *config.Config, orderService *OrderService) *PaymentService {
	// Initialize Stripe
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{
		db:           db,
		config:       config,
		orderService: orderService,
	}
}

// CreateOrderPaymentIntent opens a Stripe PaymentIntent for a pending order
// and records its reference on the order row.
func (s *PaymentService) CreateOrderPaymentIntent(orderID uuid.UUID) (*PaymentIntentResponse, error) {
	var order models.Order
	if err := s.db.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("order", orderID.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if order.Status != models.OrderStatusPending {
		return nil, apperrors.NewConflictError("order",
			fmt.Sprintf("order in status %s cannot be paid", order.Status))
	}

	// Stripe amounts are in cents.
	amountInCents := int64(order.TotalAmount * 100)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInCents),
		Currency: stripe.String(s.config.Payment.Currency),
	}
	params.AddMetadata("order_id", order.ID.String())
	params.AddMetadata("user_id", order.UserID.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	if err := s.db.Model(&order).Update("payment_ref", pi.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to store payment reference: %w", err)
	}

	return &PaymentIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Status:       string(pi.Status),
	}, nil
}

// ConfirmPayment checks the intent with Stripe and, when it succeeded, moves
// the order to IN_PROCESS through the order lifecycle service so the usual
// transition rules apply.
func (s *PaymentService) ConfirmPayment(orderID uuid.UUID, req *ConfirmPaymentRequest) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("order", orderID.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if order.PaymentRef == "" || order.PaymentRef != req.PaymentIntentID {
		return nil, apperrors.NewValidationError("payment_intent_id", req.PaymentIntentID,
			"payment intent does not belong to this order")
	}

	pi, err := paymentintent.Get(req.PaymentIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, apperrors.NewConflictError("payment",
			fmt.Sprintf("payment intent in status %s", pi.Status))
	}

	return s.orderService.UpdateStatus(orderID, models.OrderStatusInProcess)
}

// RefundOrder refunds a cancelled order's payment in full.
func (s *PaymentService) RefundOrder(orderID uuid.UUID) error {
	var order models.Order
	if err := s.db.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFoundError("order", orderID.String())
		}
		return fmt.Errorf("database error: %w", err)
	}

	if order.Status != models.OrderStatusCancelled {
		return apperrors.NewConflictError("order", "only cancelled orders can be refunded")
	}

	if order.PaymentRef == "" {
		return apperrors.NewValidationError("order_id", orderID.String(), "order has no payment to refund")
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(order.PaymentRef),
		Reason:        stripe.String("requested_by_customer"),
	}

	if _, err := refund.New(params); err != nil {
		return fmt.Errorf("failed to process refund: %w", err)
	}

	return nil
}
