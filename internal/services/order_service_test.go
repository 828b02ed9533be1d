// internal/services/order_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopkite/shop-backend/internal/apperrors"
	"github.com/shopkite/shop-backend/internal/models"
	"github.com/shopkite/shop-backend/internal/utils"
)

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, nil)

	buyer := createTestUser(t, db, models.UserTypeBuyer)
	seller := createTestUser(t, db, models.UserTypeSeller)

	for _, amount := range []float64{0, -10} {
		_, err := svc.CreateOrder(buyer.ID, &CreateOrderRequest{
			SellerID:    seller.ID,
			TotalAmount: amount,
			ProductIDs:  []string{uuid.New().String()},
		})

		var validationErr *apperrors.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "total_amount", validationErr.Field)
	}
}

func TestCreateOrderForcesPendingStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, nil)

	buyer := createTestUser(t, db, models.UserTypeBuyer)
	seller := createTestUser(t, db, models.UserTypeSeller)

	// A caller-supplied status must never survive creation.
	order, err := svc.CreateOrder(buyer.ID, &CreateOrderRequest{
		SellerID:    seller.ID,
		TotalAmount: 99.90,
		ProductIDs:  []string{uuid.New().String(), uuid.New().String()},
		Status:      string(models.OrderStatusShipped),
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.False(t, order.CreatedAt.IsZero())

	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
}

func TestCreateOrderUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, nil)

	seller := createTestUser(t, db, models.UserTypeSeller)

	_, err := svc.CreateOrder(uuid.New(), &CreateOrderRequest{
		SellerID:    seller.ID,
		TotalAmount: 10,
		ProductIDs:  []string{uuid.New().String()},
	})

	var notFoundErr *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "user", notFoundErr.Resource)
}

func newOrder(t *testing.T, svc *OrderService, buyerID, sellerID uuid.UUID) *models.Order {
	t.Helper()

	order, err := svc.CreateOrder(buyerID, &CreateOrderRequest{
		SellerID:    sellerID,
		TotalAmount: 25,
		ProductIDs:  []string{uuid.New().String()},
	})
	require.NoError(t, err)
	return order
}

func TestUpdateStatusFollowsLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, nil)

	buyer := createTestUser(t, db, models.UserTypeBuyer)
	seller := createTestUser(t, db, models.UserTypeSeller)
	order := newOrder(t, svc, buyer.ID, seller.ID)

	for _, next := range []models.OrderStatus{
		models.OrderStatusInProcess,
		models.OrderStatusShipped,
		models.OrderStatusCompleted,
	} {
		updated, err := svc.UpdateStatus(order.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}
}

func TestUpdateStatusRejectsIllegalTransitions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, nil)

	buyer := createTestUser(t, db, models.UserTypeBuyer)
	seller := createTestUser(t, db, models.UserTypeSeller)

	// PENDING cannot skip straight to a late state.
	order := newOrder(t, svc, buyer.ID, seller.ID)
	for _, next := range []models.OrderStatus{
		models.OrderStatusShipped,
		models.OrderStatusCompleted,
		models.OrderStatusPending,
	} {
		_, err := svc.UpdateStatus(order.ID, next)
		var conflictErr *apperrors.ConflictError
		require.ErrorAs(t, err, &conflictErr, "transition PENDING -> %s should fail", next)
	}

	// Terminal states accept nothing.
	cancelled := newOrder(t, svc, buyer.ID, seller.ID)
	_, err := svc.UpdateStatus(cancelled.ID, models.OrderStatusCancelled)
	require.NoError(t, err)

	for _, next := range []models.OrderStatus{
		models.OrderStatusPending,
		models.OrderStatusInProcess,
		models.OrderStatusCompleted,
	} {
		_, err := svc.UpdateStatus(cancelled.ID, next)
		var conflictErr *apperrors.ConflictError
		require.ErrorAs(t, err, &conflictErr, "transition CANCELLED -> %s should fail", next)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, nil)

	buyer := createTestUser(t, db, models.UserTypeBuyer)
	seller := createTestUser(t, db, models.UserTypeSeller)
	order := newOrder(t, svc, buyer.ID, seller.ID)

	_, err := svc.UpdateStatus(order.ID, models.OrderStatus("LOST_IN_TRANSIT"))

	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "status", validationErr.Field)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, nil)

	_, err := svc.UpdateStatus(uuid.New(), models.OrderStatusInProcess)

	var notFoundErr *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "order", notFoundErr.Resource)
}

func TestDeleteOrderOnlyWhenTerminal(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, nil)

	buyer := createTestUser(t, db, models.UserTypeBuyer)
	seller := createTestUser(t, db, models.UserTypeSeller)

	pending := newOrder(t, svc, buyer.ID, seller.ID)
	err := svc.DeleteOrder(pending.ID)
	var conflictErr *apperrors.ConflictError
	require.ErrorAs(t, err, &conflictErr)

	done := newOrder(t, svc, buyer.ID, seller.ID)
	_, err = svc.UpdateStatus(done.ID, models.OrderStatusInProcess)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(done.ID, models.OrderStatusShipped)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(done.ID, models.OrderStatusCompleted)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(done.ID))

	var count int64
	require.NoError(t, db.Model(&models.Order{}).
		Where("id = ?", done.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetUserOrdersPagination(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, nil)

	buyer := createTestUser(t, db, models.UserTypeBuyer)
	seller := createTestUser(t, db, models.UserTypeSeller)

	for i := 0; i < 5; i++ {
		newOrder(t, svc, buyer.ID, seller.ID)
	}
	// Another user's orders stay out of the listing.
	other := createTestUser(t, db, models.UserTypeBuyer)
	newOrder(t, svc, other.ID, seller.ID)

	orders, total, err := svc.GetUserOrders(buyer.ID, utils.PaginationParams{
		Page:  1,
		Limit: 3,
		Sort:  "created_at",
		Order: "desc",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, orders, 3)
}
