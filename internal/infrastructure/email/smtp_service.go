package email

import (
	"context"
	"fmt"
	"net/smtp"

	"pujaseva-backend/pkg/logger"
)

type EmailService interface {
	SendBookingConfirmation(ctx context.Context, data BookingConfirmationData) error
}

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
}

func NewSMTPEmailService(smtpHost, smtpPort, from string) EmailService {
	return &smtpEmailService{
		smtpAddr: smtpHost + ":" + smtpPort,
		smtpFrom: from,
	}
}

func (s *smtpEmailService) SendBookingConfirmation(ctx context.Context, data BookingConfirmationData) error {
	subject := fmt.Sprintf("Booking confirmed - %s", data.BookingNumber)
	body := fmt.Sprintf(`Namaste %s,

Your booking is confirmed.

Booking number: %s
Service: %s (%s)
Date: %s at %s
Amount paid: Rs. %s

Our team will reach out before the scheduled time with joining details.

Thank you for booking with PujaSeva.`,
		data.RecipientName,
		data.BookingNumber,
		data.ServiceName,
		data.PackageName,
		data.BookingDate,
		data.BookingTime,
		data.Amount,
	)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.smtpFrom, data.Email, subject, body))

	err := smtp.SendMail(s.smtpAddr, nil, s.smtpFrom, []string{data.Email}, msg)
	if err != nil {
		logger.Info("Failed to send email", map[string]interface{}{
			"error":     err.Error(),
			"to":        data.Email,
			"smtp_addr": s.smtpAddr,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
