package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pujaseva-backend/internal/domains/booking/model"
	"pujaseva-backend/internal/domains/booking/service"
	"pujaseva-backend/internal/shared/middleware"
	"pujaseva-backend/internal/shared/response"
)

type BookingHandler struct {
	service service.BookingService
}

func NewBookingHandler(service service.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// LookupByCart GET /api/v1/bookings/by-cart/:cartId
//
// The post-checkout poll. 404 with the payment status in the error
// details means "no booking yet" - the client keeps polling while the
// payment is pending and gives up once it is failed.
func (h *BookingHandler) LookupByCart(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "AUTH_001", "Authentication required")
		return
	}

	cartID, err := uuid.Parse(c.Param("cartId"))
	if err != nil {
		response.BadRequest(c, "INVALID_ID", "Invalid cart id")
		return
	}

	lookup, err := h.service.LookupByCart(c.Request.Context(), userID, cartID)
	if err != nil {
		if errors.Is(err, model.ErrBookingNotFound) {
			response.NotFound(c, "BKG_001", "Booking not found")
			return
		}
		response.InternalServerError(c, "BKG_000", "Failed to look up booking")
		return
	}

	if lookup.Booking == nil {
		response.ErrorWithDetails(c, http.StatusNotFound, "BKG_001", "No booking for this cart yet", gin.H{
			"payment_status": lookup.PaymentStatus,
		})
		return
	}

	response.Success(c, http.StatusOK, lookup.Booking)
}

// List GET /api/v1/bookings
func (h *BookingHandler) List(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "AUTH_001", "Authentication required")
		return
	}

	var q model.ListBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "INVALID_QUERY", "Invalid query parameters")
		return
	}
	q.Normalize()

	bookings, total, err := h.service.ListMyBookings(c.Request.Context(), userID, &q)
	if err != nil {
		response.InternalServerError(c, "BKG_000", "Failed to load bookings")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, bookings, &response.Meta{
		Page:  q.Page,
		Limit: q.Limit,
		Total: total,
	})
}

// Get GET /api/v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		response.Unauthorized(c, "AUTH_001", "Authentication required")
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "INVALID_ID", "Invalid booking id")
		return
	}

	booking, err := h.service.GetBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		if errors.Is(err, model.ErrBookingNotFound) {
			response.NotFound(c, "BKG_001", "Booking not found")
			return
		}
		response.InternalServerError(c, "BKG_000", "Failed to load booking")
		return
	}

	response.Success(c, http.StatusOK, booking)
}

// ===== ADMIN =====

// ListAll GET /api/v1/admin/bookings
func (h *BookingHandler) ListAll(c *gin.Context) {
	var q model.ListBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "INVALID_QUERY", "Invalid query parameters")
		return
	}
	q.Normalize()

	bookings, total, err := h.service.ListAll(c.Request.Context(), &q)
	if err != nil {
		response.InternalServerError(c, "BKG_000", "Failed to load bookings")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, bookings, &response.Meta{
		Page:  q.Page,
		Limit: q.Limit,
		Total: total,
	})
}

// Reschedule PUT /api/v1/admin/bookings/:id/schedule
func (h *BookingHandler) Reschedule(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "INVALID_ID", "Invalid booking id")
		return
	}

	var req model.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	booking, err := h.service.Reschedule(c.Request.Context(), bookingID, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, booking)
}

// Cancel POST /api/v1/admin/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "INVALID_ID", "Invalid booking id")
		return
	}

	var req model.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "INVALID_BODY", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	booking, err := h.service.Cancel(c.Request.Context(), bookingID, req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, booking)
}

func (h *BookingHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrBookingNotFound):
		response.NotFound(c, "BKG_001", "Booking not found")
	case errors.Is(err, model.ErrBookingCancelled):
		response.Conflict(c, "BKG_002", "Booking is cancelled")
	case errors.Is(err, model.ErrBookingCompleted):
		response.Conflict(c, "BKG_003", "Booking is already completed")
	case errors.Is(err, model.ErrPastBookingDate):
		response.ValidationFailed(c, "booking_date", "Booking date cannot be in the past")
	default:
		response.InternalServerError(c, "BKG_000", "Failed to update booking")
	}
}
