package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// PUJA SERVICE ENTITY
// =====================================================
type Service struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	Deity       string    `json:"deity" db:"deity"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	Packages []*Package `json:"packages,omitempty" db:"-"`
}

// =====================================================
// PACKAGE ENTITY
// =====================================================
// A package is a priced tier of a service (e.g. basic / family / premium).
type Package struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	ServiceID       uuid.UUID       `json:"service_id" db:"service_id"`
	Name            string          `json:"name" db:"name"`
	Description     string          `json:"description" db:"description"`
	Price           decimal.Decimal `json:"price" db:"price"`
	DurationMinutes int             `json:"duration_minutes" db:"duration_minutes"`
	MaxDevotees     int             `json:"max_devotees" db:"max_devotees"`
	IsActive        bool            `json:"is_active" db:"is_active"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}
