// internal/handlers/report.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopkite/shop-backend/internal/models"
	"github.com/shopkite/shop-backend/internal/services"
	"github.com/shopkite/shop-backend/internal/utils"
)

type ReportHandler struct {
	moderationService *services.ModerationService
}

func NewReportHandler(moderationService *services.ModerationService) *ReportHandler {
	return &ReportHandler{moderationService: moderationService}
}

// POST /products/:id/reports
func (h *ReportHandler) ReportProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	var reporterID *uuid.UUID
	if userIDStr, exists := utils.GetUserIDFromContext(c); exists {
		if parsed, err := uuid.Parse(userIDStr); err == nil {
			reporterID = &parsed
		}
	}

	var req services.ReportProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	report, err := h.moderationService.ReportProduct(productID, reporterID, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, report)
}

// GET /admin/reports
func (h *ReportHandler) GetReports(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var status *models.ReportStatus
	if statusStr := c.Query("status"); statusStr != "" {
		reportStatus := models.ReportStatus(statusStr)
		status = &reportStatus
	}

	reports, total, err := h.moderationService.ListReports(params, status)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(reports, total, params)
	utils.PaginatedResponse(c, result)
}

// PATCH /admin/reports/:id
func (h *ReportHandler) ResolveReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid report ID", nil)
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	report, err := h.moderationService.ResolveReport(id, models.ReportStatus(req.Status))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, report)
}
