// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shopkite/shop-backend/internal/apperrors"
	"github.com/shopkite/shop-backend/internal/models"
	"github.com/shopkite/shop-backend/internal/utils"
)

type OrderService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type CreateOrderRequest struct {
	SellerID    uuid.UUID `json:"seller_id" validate:"required"`
	TotalAmount float64   `json:"total_amount"`
	ProductIDs  []string  `json:"product_ids" validate:"required,min=1"`
	// Status is accepted on the wire but never honored: new orders always
	// start in PENDING.
	Status string `json:"status,omitempty"`
}

func NewOrderService(db *gorm.DB, notificationService *NotificationService) *OrderService {
	return &OrderService{
		db:                  db,
		notificationService: notificationService,
	}
}

func (s *OrderService) CreateOrder(userID uuid.UUID, req *CreateOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.TotalAmount <= 0 {
		return nil, apperrors.NewValidationError("total_amount", req.TotalAmount, "total amount must be greater than zero")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("user", userID.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	order := &models.Order{
		UserID:      userID,
		SellerID:    req.SellerID,
		TotalAmount: req.TotalAmount,
		ProductIDs:  req.ProductIDs,
		Status:      models.OrderStatusPending,
	}

	if err := s.db.Create(order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return order, nil
}

func (s *OrderService) GetOrder(id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("order", id.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &order, nil
}

func (s *OrderService) GetUserOrders(userID uuid.UUID, params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "total_amount", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

// UpdateStatus moves an order through its lifecycle. Transitions outside
// PENDING→{IN_PROCESS,CANCELLED}, IN_PROCESS→{SHIPPED,CANCELLED} and
// SHIPPED→{COMPLETED} are rejected; COMPLETED and CANCELLED are terminal.
func (s *OrderService) UpdateStatus(orderID uuid.UUID, newStatus models.OrderStatus) (*models.Order, error) {
	if !newStatus.IsValid() {
		return nil, apperrors.NewValidationError("status", string(newStatus), "unknown order status")
	}

	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFoundError("order", orderID.String())
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !order.Status.CanTransitionTo(newStatus) {
			return apperrors.NewConflictError("order",
				fmt.Sprintf("cannot transition from %s to %s", order.Status, newStatus))
		}

		order.Status = newStatus
		if err := tx.Save(&order).Error; err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Notify the buyer asynchronously; a mail failure never fails the update.
	if s.notificationService != nil {
		go func(o models.Order) {
			if err := s.notificationService.SendOrderStatusEmail(&o); err != nil {
				logrus.WithError(err).WithField("order_id", o.ID).
					Warn("Failed to send order status email")
			}
		}(order)
	}

	return &order, nil
}

// DeleteOrder removes a finished order. Orders still in flight cannot be
// deleted.
func (s *OrderService) DeleteOrder(orderID uuid.UUID) error {
	var order models.Order
	if err := s.db.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFoundError("order", orderID.String())
		}
		return fmt.Errorf("database error: %w", err)
	}

	if !order.Status.IsTerminal() {
		return apperrors.NewConflictError("order",
			fmt.Sprintf("cannot delete order in status %s", order.Status))
	}

	if err := s.db.Delete(&order).Error; err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	return nil
}
