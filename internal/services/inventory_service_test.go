// internal/services/inventory_service_test.go
package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shopkite/shop-backend/internal/apperrors"
	"github.com/shopkite/shop-backend/internal/models"
)

func TestReduceStockDecrements(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)

	seller := createTestUser(t, db, models.UserTypeSeller)
	product := createTestProduct(t, db, seller.ID, 10)

	updated, err := svc.ReduceStock(product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Stock)

	var stored models.Product
	require.NoError(t, db.First(&stored, "id = ?", product.ID).Error)
	assert.Equal(t, 7, stored.Stock)
}

func TestReduceStockInsufficient(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)

	seller := createTestUser(t, db, models.UserTypeSeller)
	product := createTestProduct(t, db, seller.ID, 2)

	_, err := svc.ReduceStock(product.ID, 5)

	var stockErr *apperrors.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, product.ID.String(), stockErr.ProductID)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)

	// No partial mutation.
	var stored models.Product
	require.NoError(t, db.First(&stored, "id = ?", product.ID).Error)
	assert.Equal(t, 2, stored.Stock)
}

func TestReduceStockRejectsNonPositiveQuantity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)

	seller := createTestUser(t, db, models.UserTypeSeller)
	product := createTestProduct(t, db, seller.ID, 10)

	for _, quantity := range []int{0, -1} {
		_, err := svc.ReduceStock(product.ID, quantity)

		var validationErr *apperrors.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "quantity", validationErr.Field)
	}

	var stored models.Product
	require.NoError(t, db.First(&stored, "id = ?", product.ID).Error)
	assert.Equal(t, 10, stored.Stock)
}

func TestReduceStockProductRemovedMidFlight(t *testing.T) {
	db := setupTestDB(t)

	seller := createTestUser(t, db, models.UserTypeSeller)
	product := createTestProduct(t, db, seller.ID, 5)

	// Drop the row between the existence read and the guarded decrement,
	// the way a concurrent delete would.
	fired := false
	err := db.Callback().Update().Before("gorm:update").
		Register("drop_product", func(tx *gorm.DB) {
			if fired || tx.Statement.Table != "products" {
				return
			}
			fired = true
			require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).
				Exec("DELETE FROM products WHERE id = ?", product.ID).Error)
		})
	require.NoError(t, err)

	svc := NewInventoryService(db)
	_, err = svc.ReduceStock(product.ID, 3)

	require.True(t, fired)
	var notFoundErr *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "product", notFoundErr.Resource)
}

func TestReduceStockUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)

	_, err := svc.ReduceStock(uuid.New(), 1)

	var notFoundErr *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "product", notFoundErr.Resource)
}

func TestDeleteProductRemovesReportsThenProduct(t *testing.T) {
	db := setupTestDB(t)

	seller := createTestUser(t, db, models.UserTypeSeller)
	product := createTestProduct(t, db, seller.ID, 1)

	for i := 0; i < 2; i++ {
		report := &models.ProductReport{
			ProductID: product.ID,
			Reason:    "suspicious listing, please take a look",
			Status:    models.ReportStatusOpen,
		}
		require.NoError(t, db.Create(report).Error)
	}

	rec := &sqlRecorder{}
	svc := NewInventoryService(db.Session(&gorm.Session{Logger: rec}))

	require.NoError(t, svc.DeleteProduct(product.ID))

	// Reports must be removed strictly before the product row.
	reportIdx, productIdx := -1, -1
	for i, stmt := range rec.statements() {
		lower := strings.ToLower(stmt)
		if !strings.HasPrefix(lower, "update") && !strings.HasPrefix(lower, "delete") {
			continue
		}
		if strings.Contains(lower, "product_reports") {
			if reportIdx == -1 {
				reportIdx = i
			}
			continue
		}
		if strings.Contains(lower, "products") && productIdx == -1 {
			productIdx = i
		}
	}
	require.NotEqual(t, -1, reportIdx, "expected a statement touching product_reports")
	require.NotEqual(t, -1, productIdx, "expected a statement touching products")
	assert.Less(t, reportIdx, productIdx)

	var reportCount, productCount int64
	require.NoError(t, db.Model(&models.ProductReport{}).
		Where("product_id = ?", product.ID).Count(&reportCount).Error)
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).Count(&productCount).Error)
	assert.Zero(t, reportCount)
	assert.Zero(t, productCount)
}

func TestDeleteProductOrderHoldsWithoutReports(t *testing.T) {
	db := setupTestDB(t)

	seller := createTestUser(t, db, models.UserTypeSeller)
	product := createTestProduct(t, db, seller.ID, 1)

	rec := &sqlRecorder{}
	svc := NewInventoryService(db.Session(&gorm.Session{Logger: rec}))

	require.NoError(t, svc.DeleteProduct(product.ID))

	// The report cleanup is issued even when no reports exist.
	reportIdx, productIdx := -1, -1
	for i, stmt := range rec.statements() {
		lower := strings.ToLower(stmt)
		if strings.Contains(lower, "product_reports") && reportIdx == -1 {
			reportIdx = i
		} else if strings.Contains(lower, "products") &&
			!strings.Contains(lower, "product_reports") && productIdx == -1 {
			productIdx = i
		}
	}
	require.NotEqual(t, -1, reportIdx)
	require.NotEqual(t, -1, productIdx)
	assert.Less(t, reportIdx, productIdx)
}

func TestDeleteProductUnknownIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)

	require.NoError(t, svc.DeleteProduct(uuid.New()))
}

func TestCreateProductValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)

	seller := createTestUser(t, db, models.UserTypeSeller)

	_, err := svc.CreateProduct(seller.ID, &CreateProductRequest{
		Name:  "",
		Price: 10,
	})
	require.Error(t, err)

	product, err := svc.CreateProduct(seller.ID, &CreateProductRequest{
		Name:     "Gadget",
		Brand:    "Acme",
		Category: "tools",
		Price:    29.99,
		Stock:    4,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, product.ID)
	assert.Equal(t, 4, product.Stock)
}

func TestUpdateProductOwnership(t *testing.T) {
	db := setupTestDB(t)
	svc := NewInventoryService(db)

	seller := createTestUser(t, db, models.UserTypeSeller)
	other := createTestUser(t, db, models.UserTypeSeller)
	product := createTestProduct(t, db, seller.ID, 1)

	newPrice := 42.0
	_, err := svc.UpdateProduct(product.ID, other.ID, &UpdateProductRequest{Price: &newPrice})

	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)

	updated, err := svc.UpdateProduct(product.ID, seller.ID, &UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 42.0, updated.Price)
}
