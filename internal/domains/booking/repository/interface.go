package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"pujaseva-backend/internal/domains/booking/model"
)

type BookingRepository interface {
	// GetOrCreateTx inserts the booking inside the caller's
	// transaction, relying on the unique cart_id constraint: ON
	// CONFLICT DO NOTHING followed by a fetch. The bool reports
	// whether this call created the row.
	GetOrCreateTx(ctx context.Context, tx pgx.Tx, booking *model.Booking) (*model.Booking, bool, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	GetByCartID(ctx context.Context, cartID uuid.UUID) (*model.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID, q *model.ListBookingsQuery) ([]*model.Booking, int, error)
	ListAll(ctx context.Context, q *model.ListBookingsQuery) ([]*model.Booking, int, error)

	UpdateSchedule(ctx context.Context, booking *model.Booking) error
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, fromStatus, toStatus, reason string) error

	AddHistoryTx(ctx context.Context, tx pgx.Tx, entry *model.StatusHistory) error
	ListHistory(ctx context.Context, bookingID uuid.UUID) ([]*model.StatusHistory, error)
}
