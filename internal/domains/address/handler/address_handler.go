package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pujaseva-backend/internal/domains/address/model"
	"pujaseva-backend/internal/domains/address/service"
	"pujaseva-backend/internal/shared/middleware"
	"pujaseva-backend/internal/shared/response"
)

type AddressHandler struct {
	service service.AddressService
}

func NewAddressHandler(service service.AddressService) *AddressHandler {
	return &AddressHandler{service: service}
}

// Create POST /api/v1/addresses
func (h *AddressHandler) Create(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "AUTH_001", "Authentication required")
		return
	}

	var req model.SaveAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	address, err := h.service.Create(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalServerError(c, "ADR_001", "Failed to save address")
		return
	}

	response.Success(c, http.StatusCreated, address)
}

// List GET /api/v1/addresses
func (h *AddressHandler) List(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "AUTH_001", "Authentication required")
		return
	}

	addresses, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		response.InternalServerError(c, "ADR_001", "Failed to load addresses")
		return
	}

	response.Success(c, http.StatusOK, addresses)
}

// Update PUT /api/v1/addresses/:id
func (h *AddressHandler) Update(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "AUTH_001", "Authentication required")
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "INVALID_ID", "Invalid address id")
		return
	}

	var req model.SaveAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	address, err := h.service.Update(c.Request.Context(), userID, addressID, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, address)
}

// Delete DELETE /api/v1/addresses/:id
func (h *AddressHandler) Delete(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "AUTH_001", "Authentication required")
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "INVALID_ID", "Invalid address id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, addressID); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// SetDefault POST /api/v1/addresses/:id/default
func (h *AddressHandler) SetDefault(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "AUTH_001", "Authentication required")
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "INVALID_ID", "Invalid address id")
		return
	}

	if err := h.service.SetDefault(c.Request.Context(), userID, addressID); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"is_default": true})
}

func (h *AddressHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrAddressNotFound):
		response.NotFound(c, "ADR_002", "Address not found")
	case errors.Is(err, model.ErrNotOwner):
		// Hide other users' addresses rather than confirm they exist.
		response.NotFound(c, "ADR_002", "Address not found")
	default:
		response.InternalServerError(c, "ADR_001", "Failed to save address")
	}
}
