// internal/services/moderation_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopkite/shop-backend/internal/apperrors"
	"github.com/shopkite/shop-backend/internal/models"
	"github.com/shopkite/shop-backend/internal/utils"
)

// ModerationService files and reviews product reports. Reports are only ever
// destroyed through InventoryService.DeleteProduct.
type ModerationService struct {
	db *gorm.DB
}

type ReportProductRequest struct {
	Reason string `json:"reason" validate:"required,min=10,max=2000"`
}

func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{db: db}
}

func (s *ModerationService) ReportProduct(productID uuid.UUID, reporterID *uuid.UUID, req *ReportProductRequest) (*models.ProductReport, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("product", productID.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	report := &models.ProductReport{
		ProductID:  productID,
		ReporterID: reporterID,
		Reason:     req.Reason,
		Status:     models.ReportStatusOpen,
	}

	if err := s.db.Create(report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	return report, nil
}

func (s *ModerationService) ListReports(params utils.PaginationParams, status *models.ReportStatus) ([]models.ProductReport, int64, error) {
	query := s.db.Model(&models.ProductReport{})

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	allowedSortFields := []string{"created_at", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var reports []models.ProductReport
	if err := query.Find(&reports).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch reports: %w", err)
	}

	return reports, total, nil
}

func (s *ModerationService) ResolveReport(reportID uuid.UUID, status models.ReportStatus) (*models.ProductReport, error) {
	if status != models.ReportStatusReviewed && status != models.ReportStatusDismissed {
		return nil, apperrors.NewValidationError("status", string(status), "report can only be reviewed or dismissed")
	}

	var report models.ProductReport
	if err := s.db.First(&report, "id = ?", reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("report", reportID.String())
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	report.Status = status
	if err := s.db.Save(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to update report: %w", err)
	}

	return &report, nil
}
