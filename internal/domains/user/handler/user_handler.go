package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pujaseva-backend/internal/domains/user/model"
	"pujaseva-backend/internal/domains/user/service"
	"pujaseva-backend/internal/shared/middleware"
	"pujaseva-backend/internal/shared/response"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Register POST /api/v1/auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	result, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmailExists):
			response.ValidationFailed(c, "email", "A user with this email already exists")
		case errors.Is(err, model.ErrPhoneExists):
			response.ValidationFailed(c, "phone", "A user with this phone number already exists")
		default:
			response.InternalServerError(c, "USR_001", "Failed to register user")
		}
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// Login POST /api/v1/auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	result, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidCredentials):
			response.Unauthorized(c, "USR_002", "Invalid email or password")
		case errors.Is(err, model.ErrAccountDisabled):
			response.Forbidden(c, "USR_003", "Account is disabled")
		default:
			response.InternalServerError(c, "USR_001", "Failed to log in")
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}

// RefreshToken POST /api/v1/auth/refresh
func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req model.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	result, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Unauthorized(c, "USR_004", "Invalid or expired refresh token")
		return
	}

	response.Success(c, http.StatusOK, result)
}

// GetProfile GET /api/v1/users/me
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "AUTH_001", "Authentication required")
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			response.NotFound(c, "USR_005", "User not found")
			return
		}
		response.InternalServerError(c, "USR_001", "Failed to load profile")
		return
	}

	response.Success(c, http.StatusOK, profile)
}

// UpdateProfile PUT /api/v1/users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "AUTH_001", "Authentication required")
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			response.NotFound(c, "USR_005", "User not found")
		case errors.Is(err, model.ErrPhoneExists):
			response.ValidationFailed(c, "phone", "A user with this phone number already exists")
		default:
			response.InternalServerError(c, "USR_001", "Failed to update profile")
		}
		return
	}

	response.Success(c, http.StatusOK, profile)
}
