// internal/services/inventory_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shopkite/shop-backend/internal/apperrors"
	"github.com/shopkite/shop-backend/internal/models"
	"github.com/shopkite/shop-backend/internal/utils"
)

type InventoryService struct {
	db *gorm.DB
}

type CreateProductRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=255"`
	Brand    string  `json:"brand,omitempty" validate:"max=100"`
	Model    string  `json:"model,omitempty" validate:"max=100"`
	Category string  `json:"category,omitempty" validate:"max=100"`
	Price    float64 `json:"price" validate:"required,min=0"`
	Stock    int     `json:"stock" validate:"min=0"`
}

type UpdateProductRequest struct {
	Name     string   `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Brand    string   `json:"brand,omitempty" validate:"max=100"`
	Model    string   `json:"model,omitempty" validate:"max=100"`
	Category string   `json:"category,omitempty" validate:"max=100"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,min=0"`
	Stock    *int     `json:"stock,omitempty" validate:"omitempty,min=0"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	SellerID *uuid.UUID `json:"seller_id,omitempty"`
	PriceMin *float64   `json:"price_min,omitempty"`
	PriceMax *float64   `json:"price_max,omitempty"`
	InStock  *bool      `json:"in_stock,omitempty"`
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

func (s *InventoryService) CreateProduct(sellerID uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var seller models.User
	if err := s.db.First(&seller, "id = ?", sellerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("seller", sellerID.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if seller.Status != models.UserStatusActive {
		return nil, apperrors.NewValidationError("seller_id", sellerID.String(), "seller account is not active")
	}

	product := &models.Product{
		SellerID: sellerID,
		Name:     req.Name,
		Brand:    req.Brand,
		Model:    req.Model,
		Category: req.Category,
		Price:    req.Price,
		Stock:    req.Stock,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

func (s *InventoryService) GetProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("product", id.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &product, nil
}

func (s *InventoryService) UpdateProduct(id uuid.UUID, sellerID uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("product", id.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if product.SellerID != sellerID {
		return nil, apperrors.NewValidationError("seller_id", sellerID.String(), "not the owner of this product")
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Brand != "" {
		updates["brand"] = req.Brand
	}
	if req.Model != "" {
		updates["model"] = req.Model
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}

	if err := s.db.Model(&product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return &product, nil
}

func (s *InventoryService) AddImage(id uuid.UUID, sellerID uuid.UUID, url string) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("product", id.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if product.SellerID != sellerID {
		return nil, apperrors.NewValidationError("seller_id", sellerID.String(), "not the owner of this product")
	}

	product.Images = append(product.Images, url)
	if err := s.db.Model(&product).Update("images", product.Images).Error; err != nil {
		return nil, fmt.Errorf("failed to update product images: %w", err)
	}

	return &product, nil
}

func (s *InventoryService) SearchProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{})

	if params.SellerID != nil {
		query = query.Where("seller_id = ?", *params.SellerID)
	}

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ?", searchTerm, searchTerm)
	}

	if params.PriceMin != nil {
		query = query.Where("price >= ?", *params.PriceMin)
	}

	if params.PriceMax != nil {
		query = query.Where("price <= ?", *params.PriceMax)
	}

	if params.InStock != nil && *params.InStock {
		query = query.Where("stock > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "price", "stock"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

// ReduceStock decrements a product's stock by quantity. The decrement is a
// conditional UPDATE guarded on `stock >= quantity`, so two concurrent calls
// can never overdraw the inventory: the second one sees zero affected rows
// and fails without mutating anything.
func (s *InventoryService) ReduceStock(productID uuid.UUID, quantity int) (*models.Product, error) {
	if quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity", quantity, "quantity must be a positive integer")
	}

	var product models.Product

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFoundError("product", productID.String())
			}
			return fmt.Errorf("database error: %w", err)
		}

		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock >= ?", productID, quantity).
			UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
		if res.Error != nil {
			return fmt.Errorf("failed to update stock: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// The guard also trips when the row disappeared between the read
			// and the update; that is not-found, not an inventory shortage.
			var live int64
			if err := tx.Model(&models.Product{}).
				Where("id = ?", productID).Count(&live).Error; err != nil {
				return fmt.Errorf("database error: %w", err)
			}
			if live == 0 {
				return apperrors.NewNotFoundError("product", productID.String())
			}
			return &apperrors.InsufficientStockError{
				ProductID: productID.String(),
				Available: product.Stock,
				Requested: quantity,
			}
		}

		return tx.First(&product, "id = ?", productID).Error
	})

	if err != nil {
		return nil, err
	}

	return &product, nil
}

// DeleteProduct removes a product and its moderation reports. The reports
// reference the product row without a cascade, so they must go first; both
// deletes run in one transaction. Deleting an unknown product is a no-op.
func (s *InventoryService) DeleteProduct(productID uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).
			Delete(&models.ProductReport{}).Error; err != nil {
			return fmt.Errorf("failed to delete product reports: %w", err)
		}

		if err := tx.Where("id = ?", productID).
			Delete(&models.Product{}).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	logrus.WithField("product_id", productID).Info("Product deleted")
	return nil
}
