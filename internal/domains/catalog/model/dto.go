package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

type SaveServiceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Deity       string `json:"deity"`
	IsActive    *bool  `json:"is_active"`
}

func (r SaveServiceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(3, 150)),
		validation.Field(&r.Category, validation.Required, validation.Length(2, 100)),
	)
}

type SavePackageRequest struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
	MaxDevotees     int             `json:"max_devotees"`
	IsActive        *bool           `json:"is_active"`
}

func (r SavePackageRequest) Validate() error {
	if r.Price.IsNegative() || r.Price.IsZero() {
		return validation.Errors{"price": validation.NewError("price_positive", "price must be greater than zero")}
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.DurationMinutes, validation.Required, validation.Min(15), validation.Max(720)),
		validation.Field(&r.MaxDevotees, validation.Min(0), validation.Max(500)),
	)
}

type ListServicesQuery struct {
	Category string `form:"category"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

func (q *ListServicesQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
}
