package repository

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"pujaseva-backend/internal/domains/user/model"
)

func TestMapUniqueViolation(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{"duplicate email", "users_email_key", model.ErrEmailExists},
		{"duplicate phone", "users_phone_key", model.ErrPhoneExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapUniqueViolation(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMapUniqueViolation_PassesThroughOtherErrors(t *testing.T) {
	// A unique violation on a constraint we do not recognize must not
	// masquerade as a field error.
	err := mapUniqueViolation(&pgconn.PgError{Code: "23505", ConstraintName: "users_pkey"})
	assert.NotErrorIs(t, err, model.ErrEmailExists)
	assert.NotErrorIs(t, err, model.ErrPhoneExists)

	plain := errors.New("connection reset by peer")
	err = mapUniqueViolation(plain)
	assert.ErrorIs(t, err, plain)
}
