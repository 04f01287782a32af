package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"pujaseva-backend/internal/infrastructure/email"
)

// ============================================
// Booking Confirmation Email Handler
// ============================================

type BookingConfirmationHandler struct {
	emailService email.EmailService
}

func NewBookingConfirmationHandler(emailService email.EmailService) *BookingConfirmationHandler {
	return &BookingConfirmationHandler{
		emailService: emailService,
	}
}

func (h *BookingConfirmationHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload email.BookingConfirmationData
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal BookingConfirmation payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().
		Str("email", payload.Email).
		Str("booking_number", payload.BookingNumber).
		Msg("Processing booking confirmation email")

	if err := h.emailService.SendBookingConfirmation(ctx, payload); err != nil {
		log.Error().Err(err).Msg("Failed to send booking confirmation email")
		return fmt.Errorf("send booking confirmation email: %w", err)
	}

	log.Info().
		Str("email", payload.Email).
		Msg("Booking confirmation email sent successfully")

	return nil
}
