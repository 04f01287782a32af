package repository

import (
	"context"

	"github.com/google/uuid"

	"pujaseva-backend/internal/domains/catalog/model"
)

type CatalogRepository interface {
	// Services
	CreateService(ctx context.Context, svc *model.Service) error
	GetServiceByID(ctx context.Context, id uuid.UUID) (*model.Service, error)
	GetServiceBySlug(ctx context.Context, slug string) (*model.Service, error)
	ListServices(ctx context.Context, q *model.ListServicesQuery) ([]*model.Service, int, error)
	UpdateService(ctx context.Context, svc *model.Service) error

	// Packages
	CreatePackage(ctx context.Context, pkg *model.Package) error
	GetPackageByID(ctx context.Context, id uuid.UUID) (*model.Package, error)
	ListPackagesByService(ctx context.Context, serviceID uuid.UUID, activeOnly bool) ([]*model.Package, error)
	UpdatePackage(ctx context.Context, pkg *model.Package) error
}
