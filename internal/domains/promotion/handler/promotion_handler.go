package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pujaseva-backend/internal/domains/promotion/model"
	"pujaseva-backend/internal/domains/promotion/service"
	"pujaseva-backend/internal/shared/response"
)

type PromotionHandler struct {
	service service.PromotionService
}

func NewPromotionHandler(service service.PromotionService) *PromotionHandler {
	return &PromotionHandler{service: service}
}

// Create POST /api/v1/admin/promotions
func (h *PromotionHandler) Create(c *gin.Context) {
	var req model.SavePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	promo, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrCodeExists) {
			response.ValidationFailed(c, "code", "A promotion with this code already exists")
			return
		}
		response.InternalServerError(c, "PRM_001", "Failed to create promotion")
		return
	}

	response.Success(c, http.StatusCreated, promo)
}

// List GET /api/v1/admin/promotions
func (h *PromotionHandler) List(c *gin.Context) {
	promos, err := h.service.List(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "PRM_001", "Failed to load promotions")
		return
	}

	response.Success(c, http.StatusOK, promos)
}

// Update PUT /api/v1/admin/promotions/:id
func (h *PromotionHandler) Update(c *gin.Context) {
	promoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "INVALID_ID", "Invalid promotion id")
		return
	}

	var req model.SavePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	promo, err := h.service.Update(c.Request.Context(), promoID, &req)
	if err != nil {
		if errors.Is(err, model.ErrPromotionNotFound) {
			response.NotFound(c, "PRM_002", "Promotion not found")
			return
		}
		response.InternalServerError(c, "PRM_001", "Failed to update promotion")
		return
	}

	response.Success(c, http.StatusOK, promo)
}
