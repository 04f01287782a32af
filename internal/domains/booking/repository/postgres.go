package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pujaseva-backend/internal/domains/booking/model"
)

type postgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &postgresBookingRepository{db: db}
}

const bookingColumns = `id, booking_number, cart_id, user_id, service_id, package_id,
	payment_id, address_id, booking_date, booking_time, amount, status, created_at, updated_at`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	b := &model.Booking{}
	err := row.Scan(
		&b.ID, &b.BookingNumber, &b.CartID, &b.UserID, &b.ServiceID, &b.PackageID,
		&b.PaymentID, &b.AddressID, &b.BookingDate, &b.BookingTime, &b.Amount,
		&b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookingNotFound
		}
		return nil, fmt.Errorf("scan booking: %w", err)
	}
	return b, nil
}

func (r *postgresBookingRepository) GetOrCreateTx(ctx context.Context, tx pgx.Tx, booking *model.Booking) (*model.Booking, bool, error) {
	insert := `
		INSERT INTO bookings (id, booking_number, cart_id, user_id, service_id, package_id,
			payment_id, address_id, booking_date, booking_time, amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (cart_id) DO NOTHING`

	tag, err := tx.Exec(ctx, insert,
		booking.ID, booking.BookingNumber, booking.CartID, booking.UserID,
		booking.ServiceID, booking.PackageID, booking.PaymentID, booking.AddressID,
		booking.BookingDate, booking.BookingTime, booking.Amount, booking.Status,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert booking: %w", err)
	}
	created := tag.RowsAffected() == 1

	// Fetch inside the same transaction so a concurrent creator's row
	// is what we return when the insert was a no-op.
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE cart_id = $1`, bookingColumns)
	existing, err := scanBooking(tx.QueryRow(ctx, query, booking.CartID))
	if err != nil {
		return nil, false, err
	}
	return existing, created, nil
}

func (r *postgresBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1`, bookingColumns)
	return scanBooking(r.db.QueryRow(ctx, query, id))
}

func (r *postgresBookingRepository) GetByCartID(ctx context.Context, cartID uuid.UUID) (*model.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE cart_id = $1`, bookingColumns)
	return scanBooking(r.db.QueryRow(ctx, query, cartID))
}

func (r *postgresBookingRepository) ListByUser(ctx context.Context, userID uuid.UUID, q *model.ListBookingsQuery) ([]*model.Booking, int, error) {
	return r.list(ctx, q, "user_id = $1", []interface{}{userID})
}

func (r *postgresBookingRepository) ListAll(ctx context.Context, q *model.ListBookingsQuery) ([]*model.Booking, int, error) {
	return r.list(ctx, q, "TRUE", nil)
}

func (r *postgresBookingRepository) list(ctx context.Context, q *model.ListBookingsQuery, baseWhere string, args []interface{}) ([]*model.Booking, int, error) {
	where := []string{baseWhere}
	argN := len(args) + 1

	if q.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argN))
		args = append(args, q.Status)
		argN++
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM bookings WHERE %s`, whereClause)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	listQuery := fmt.Sprintf(
		`SELECT %s FROM bookings WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		bookingColumns, whereClause, argN, argN+1)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	return bookings, total, rows.Err()
}

func (r *postgresBookingRepository) UpdateSchedule(ctx context.Context, booking *model.Booking) error {
	query := `
		UPDATE bookings
		SET booking_date = $2, booking_time = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		booking.ID, booking.BookingDate, booking.BookingTime,
	).Scan(&booking.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrBookingNotFound
		}
		return fmt.Errorf("update booking schedule: %w", err)
	}
	return nil
}

// UpdateStatus guards on the current status so concurrent admin
// actions cannot clobber each other, and records the transition.
func (r *postgresBookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, fromStatus, toStatus, reason string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin status update: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE bookings SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`,
		bookingID, fromStatus, toStatus)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookingNotFound
	}

	entry := &model.StatusHistory{
		ID:         uuid.New(),
		BookingID:  bookingID,
		FromStatus: fromStatus,
		ToStatus:   toStatus,
		Reason:     reason,
	}
	if err := r.AddHistoryTx(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresBookingRepository) AddHistoryTx(ctx context.Context, tx pgx.Tx, entry *model.StatusHistory) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO booking_status_history (id, booking_id, from_status, to_status, reason)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.BookingID, entry.FromStatus, entry.ToStatus, entry.Reason)
	if err != nil {
		return fmt.Errorf("insert booking history: %w", err)
	}
	return nil
}

func (r *postgresBookingRepository) ListHistory(ctx context.Context, bookingID uuid.UUID) ([]*model.StatusHistory, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, booking_id, from_status, to_status, reason, created_at
		 FROM booking_status_history WHERE booking_id = $1 ORDER BY created_at`,
		bookingID)
	if err != nil {
		return nil, fmt.Errorf("list booking history: %w", err)
	}
	defer rows.Close()

	history := make([]*model.StatusHistory, 0)
	for rows.Next() {
		h := &model.StatusHistory{}
		if err := rows.Scan(&h.ID, &h.BookingID, &h.FromStatus, &h.ToStatus, &h.Reason, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booking history: %w", err)
		}
		history = append(history, h)
	}
	return history, rows.Err()
}
