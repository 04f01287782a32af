package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pujaseva-backend/internal/domains/address/model"
	"pujaseva-backend/pkg/database"
)

type postgresAddressRepository struct {
	db *pgxpool.Pool
}

func NewPostgresAddressRepository(db *pgxpool.Pool) AddressRepository {
	return &postgresAddressRepository{db: db}
}

const addressColumns = `id, user_id, recipient_name, phone, address_line1, address_line2,
	city, state, pincode, is_default, created_at, updated_at`

func scanAddress(row pgx.Row) (*model.Address, error) {
	a := &model.Address{}
	err := row.Scan(
		&a.ID, &a.UserID, &a.RecipientName, &a.Phone,
		&a.AddressLine1, &a.AddressLine2, &a.City, &a.State, &a.Pincode,
		&a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAddressNotFound
		}
		return nil, fmt.Errorf("scan address: %w", err)
	}
	return a, nil
}

func (r *postgresAddressRepository) Create(ctx context.Context, address *model.Address) error {
	return database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if address.IsDefault {
			if _, err := tx.Exec(ctx,
				`UPDATE addresses SET is_default = FALSE WHERE user_id = $1 AND is_default`,
				address.UserID); err != nil {
				return fmt.Errorf("clear default address: %w", err)
			}
		}

		query := `
			INSERT INTO addresses (id, user_id, recipient_name, phone, address_line1,
				address_line2, city, state, pincode, is_default)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING created_at, updated_at`

		return tx.QueryRow(ctx, query,
			address.ID, address.UserID, address.RecipientName, address.Phone,
			address.AddressLine1, address.AddressLine2, address.City, address.State,
			address.Pincode, address.IsDefault,
		).Scan(&address.CreatedAt, &address.UpdatedAt)
	})
}

func (r *postgresAddressRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Address, error) {
	query := fmt.Sprintf(`SELECT %s FROM addresses WHERE id = $1`, addressColumns)
	return scanAddress(r.db.QueryRow(ctx, query, id))
}

func (r *postgresAddressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Address, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM addresses WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC`,
		addressColumns)

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	addresses := make([]*model.Address, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

func (r *postgresAddressRepository) Update(ctx context.Context, address *model.Address) error {
	return database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if address.IsDefault {
			if _, err := tx.Exec(ctx,
				`UPDATE addresses SET is_default = FALSE WHERE user_id = $1 AND is_default AND id <> $2`,
				address.UserID, address.ID); err != nil {
				return fmt.Errorf("clear default address: %w", err)
			}
		}

		query := `
			UPDATE addresses
			SET recipient_name = $2, phone = $3, address_line1 = $4, address_line2 = $5,
				city = $6, state = $7, pincode = $8, is_default = $9, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`

		err := tx.QueryRow(ctx, query,
			address.ID, address.RecipientName, address.Phone,
			address.AddressLine1, address.AddressLine2, address.City, address.State,
			address.Pincode, address.IsDefault,
		).Scan(&address.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrAddressNotFound
		}
		return err
	})
}

func (r *postgresAddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAddressNotFound
	}
	return nil
}

func (r *postgresAddressRepository) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	return database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE addresses SET is_default = FALSE WHERE user_id = $1 AND is_default`,
			userID); err != nil {
			return fmt.Errorf("clear default address: %w", err)
		}

		tag, err := tx.Exec(ctx,
			`UPDATE addresses SET is_default = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2`,
			addressID, userID)
		if err != nil {
			return fmt.Errorf("set default address: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrAddressNotFound
		}
		return nil
	})
}
