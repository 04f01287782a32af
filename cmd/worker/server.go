package main

import (
	"github.com/hibiken/asynq"

	"pujaseva-backend/internal/infrastructure/email"
	emailjob "pujaseva-backend/internal/infrastructure/email/job"
	"pujaseva-backend/internal/shared"
	"pujaseva-backend/pkg/container"
)

// NewWorkerServer builds the asynq server and its task mux. Queue
// weights keep confirmation emails ahead of sweeps.
func NewWorkerServer(c *container.Container) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     c.Config.Redis.Host,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				shared.QueueHigh:    6,
				shared.QueueDefault: 3,
				shared.QueueLow:     1,
			},
		},
	)

	emailService := email.NewSMTPEmailService(
		c.Config.Email.SMTPHost,
		c.Config.Email.SMTPPort,
		c.Config.Email.From,
	)

	mux := asynq.NewServeMux()
	mux.Handle(shared.TypeSendBookingConfirmation, emailjob.NewBookingConfirmationHandler(emailService))
	mux.Handle(shared.TypeExpirePendingPayments, NewExpirePendingPaymentsHandler(c.PaymentService))
	mux.Handle(shared.TypeAbandonStaleCarts, NewAbandonStaleCartsHandler(c.CartRepository))

	return srv, mux
}
