package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"pujaseva-backend/internal/infrastructure/email"
	"pujaseva-backend/internal/shared"
)

// Client wraps the asynq client used by the API process to enqueue work
type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr, redisPassword string, redisDB int) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: redisPassword,
			DB:       redisDB,
		}),
	}
}

// EnqueueBookingConfirmation queues the confirmation email for a new booking.
// Failures here must not affect the booking itself; callers log and move on.
func (c *Client) EnqueueBookingConfirmation(data email.BookingConfirmationData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal booking confirmation payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeSendBookingConfirmation, payload)

	_, err = c.client.Enqueue(
		task,
		asynq.Queue(shared.QueueHigh),
		asynq.MaxRetry(5),
		asynq.Timeout(1*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("enqueue booking confirmation: %w", err)
	}

	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
