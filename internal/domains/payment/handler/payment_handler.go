package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	addressmodel "pujaseva-backend/internal/domains/address/model"
	cartmodel "pujaseva-backend/internal/domains/cart/model"
	"pujaseva-backend/internal/domains/payment/model"
	"pujaseva-backend/internal/domains/payment/service"
	"pujaseva-backend/internal/shared/middleware"
	"pujaseva-backend/internal/shared/response"
)

// webhook bodies are small; anything bigger is junk
const maxWebhookBody = 1 << 20

type PaymentHandler struct {
	service service.PaymentService
}

func NewPaymentHandler(service service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// Initiate POST /api/v1/payments/initiate
func (h *PaymentHandler) Initiate(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "AUTH_001", "Authentication required")
		return
	}

	// An empty body means "active cart, address already on it".
	var req model.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "PAY_001", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", err)
		return
	}

	result, err := h.service.InitiatePayment(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, cartmodel.ErrCartNotFound):
			response.BadRequest(c, "PAY_001", "No active cart to pay for")
		case errors.Is(err, cartmodel.ErrCartNotActive):
			response.BadRequest(c, "PAY_001", "Cart is no longer payable")
		case errors.Is(err, model.ErrCartNotPayable):
			response.BadRequest(c, "PAY_010", "Cart has nothing to pay for")
		case errors.Is(err, model.ErrAddressRequired):
			response.BadRequest(c, "PAY_007", "Select a delivery address before paying")
		case errors.Is(err, addressmodel.ErrAddressNotFound):
			response.BadRequest(c, "PAY_008", "Address not found")
		case errors.Is(err, model.ErrPendingExists):
			response.Conflict(c, "PAY_002", "A payment for this cart is already in progress")
		case errors.Is(err, model.ErrGatewayUnavailable):
			response.ServiceUnavailable(c, "PAY_003", "Payment gateway is unavailable, please retry")
		default:
			response.InternalServerError(c, "PAY_000", "Failed to initiate payment")
		}
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// Webhook POST /api/v1/payments/webhook
//
// Called by the gateway, not by users. Always answers 200 on anything
// that authenticated, even when processing failed, so the gateway does
// not hammer retries for a body we have already logged.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		response.BadRequest(c, "PAY_004", "Unable to read webhook body")
		return
	}

	err = h.service.ProcessWebhook(
		c.Request.Context(),
		c.GetHeader("Content-Type"),
		c.GetHeader("Authorization"),
		body,
	)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrWebhookAuth):
			response.Unauthorized(c, "PAY_005", "Webhook authorization failed")
		case errors.Is(err, model.ErrInvalidWebhook):
			response.BadRequest(c, "PAY_004", "Webhook body could not be parsed")
		default:
			// Logged and recorded; acknowledge so the gateway stops
			// retrying. The status verifier is the safety net.
			response.Success(c, http.StatusOK, gin.H{"acknowledged": true})
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"acknowledged": true})
}

// Status GET /api/v1/payments/:merchantTxnId/status
func (h *PaymentHandler) Status(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "AUTH_001", "Authentication required")
		return
	}

	result, err := h.service.VerifyStatus(c.Request.Context(), userID, c.Param("merchantTxnId"))
	if err != nil {
		if errors.Is(err, model.ErrPaymentNotFound) {
			response.NotFound(c, "PAY_006", "Payment not found")
			return
		}
		response.InternalServerError(c, "PAY_000", "Failed to check payment status")
		return
	}

	response.Success(c, http.StatusOK, result)
}

// VerifyByCart GET /api/v1/payments/verify?cart_id=
//
// Fallback for clients that come back from the gateway with only the
// cart reference.
func (h *PaymentHandler) VerifyByCart(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "AUTH_001", "Authentication required")
		return
	}

	cartID, err := uuid.Parse(c.Query("cart_id"))
	if err != nil {
		response.BadRequest(c, "PAY_009", "A valid cart_id is required")
		return
	}

	result, err := h.service.VerifyStatusByCart(c.Request.Context(), userID, cartID)
	if err != nil {
		if errors.Is(err, model.ErrPaymentNotFound) {
			response.NotFound(c, "PAY_006", "No payment found for this cart")
			return
		}
		response.InternalServerError(c, "PAY_000", "Failed to check payment status")
		return
	}

	response.Success(c, http.StatusOK, result)
}
