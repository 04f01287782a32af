package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogmodel "pujaseva-backend/internal/domains/catalog/model"
	"pujaseva-backend/internal/domains/cart/model"
	"pujaseva-backend/internal/domains/cart/service"
	promomodel "pujaseva-backend/internal/domains/promotion/model"
	"pujaseva-backend/internal/shared/middleware"
	"pujaseva-backend/internal/shared/response"
)

type CartHandler struct {
	service service.CartService
}

func NewCartHandler(service service.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// GetCart GET /api/v1/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "AUTH_001", "Authentication required")
		return
	}

	cart, err := h.service.GetActiveCart(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, cart)
}

// SetItem PUT /api/v1/cart/item
func (h *CartHandler) SetItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "AUTH_001", "Authentication required")
		return
	}

	var req model.SetItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	cart, err := h.service.SetItem(c.Request.Context(), userID, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, cart)
}

// SetAddress PUT /api/v1/cart/address
func (h *CartHandler) SetAddress(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "AUTH_001", "Authentication required")
		return
	}

	var req model.SetAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	addressID, _ := uuid.Parse(req.AddressID)
	cart, err := h.service.SetAddress(c.Request.Context(), userID, addressID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, cart)
}

// ApplyPromo POST /api/v1/cart/promo
func (h *CartHandler) ApplyPromo(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "AUTH_001", "Authentication required")
		return
	}

	var req model.ApplyPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	cart, err := h.service.ApplyPromo(c.Request.Context(), userID, req.Code)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, cart)
}

// RemovePromo DELETE /api/v1/cart/promo
func (h *CartHandler) RemovePromo(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "AUTH_001", "Authentication required")
		return
	}

	cart, err := h.service.RemovePromo(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, cart)
}

func (h *CartHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrCartNotFound):
		response.NotFound(c, "CRT_001", "No active cart")
	case errors.Is(err, model.ErrCartNotActive):
		response.Conflict(c, "CRT_002", "Cart is no longer active")
	case errors.Is(err, model.ErrPastBookingDate):
		response.ValidationFailed(c, "booking_date", "Booking date cannot be in the past")
	case errors.Is(err, model.ErrNoPromotionOnCart):
		response.BadRequest(c, "CRT_003", "No promotion applied to cart")
	case errors.Is(err, catalogmodel.ErrServiceNotFound),
		errors.Is(err, catalogmodel.ErrInactiveService):
		response.NotFound(c, "CAT_002", "Service not found")
	case errors.Is(err, catalogmodel.ErrPackageNotFound),
		errors.Is(err, catalogmodel.ErrInactivePackage):
		response.NotFound(c, "CAT_005", "Package not found")
	case errors.Is(err, promomodel.ErrPromotionNotFound):
		response.NotFound(c, "PRM_002", "Promotion code not found")
	case errors.Is(err, promomodel.ErrPromotionInactive),
		errors.Is(err, promomodel.ErrPromotionNotStarted),
		errors.Is(err, promomodel.ErrPromotionExpired),
		errors.Is(err, promomodel.ErrPromotionExhausted):
		response.ValidationFailed(c, "code", "Promotion code is not valid right now")
	case errors.Is(err, promomodel.ErrMinOrderNotMet):
		response.ValidationFailed(c, "code", "Order amount is below the promotion minimum")
	default:
		response.InternalServerError(c, "CRT_000", "Failed to update cart")
	}
}
