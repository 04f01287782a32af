package service

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"pujaseva-backend/internal/domains/catalog/model"
	"pujaseva-backend/internal/domains/catalog/repository"
	"pujaseva-backend/internal/infrastructure/storage"
	"pujaseva-backend/pkg/cache"
	"pujaseva-backend/pkg/logger"
)

const (
	serviceCacheTTL      = 10 * time.Minute
	serviceCacheKeyBySlug = "catalog:service:slug:%s"
)

type CatalogService interface {
	// Public
	ListServices(ctx context.Context, q *model.ListServicesQuery) ([]*model.Service, int, error)
	GetServiceBySlug(ctx context.Context, slug string) (*model.Service, error)

	// Admin
	CreateService(ctx context.Context, req *model.SaveServiceRequest) (*model.Service, error)
	UpdateService(ctx context.Context, id uuid.UUID, req *model.SaveServiceRequest) (*model.Service, error)
	UploadServiceImage(ctx context.Context, id uuid.UUID, filename string, data []byte, contentType string) (*model.Service, error)
	CreatePackage(ctx context.Context, serviceID uuid.UUID, req *model.SavePackageRequest) (*model.Package, error)
	UpdatePackage(ctx context.Context, id uuid.UUID, req *model.SavePackageRequest) (*model.Package, error)
}

type catalogService struct {
	repo    repository.CatalogRepository
	cache   cache.Cache
	storage *storage.MinIOStorage
}

func NewCatalogService(repo repository.CatalogRepository, c cache.Cache, st *storage.MinIOStorage) CatalogService {
	return &catalogService{repo: repo, cache: c, storage: st}
}

// ===== PUBLIC =====

func (s *catalogService) ListServices(ctx context.Context, q *model.ListServicesQuery) ([]*model.Service, int, error) {
	q.Normalize()
	return s.repo.ListServices(ctx, q)
}

func (s *catalogService) GetServiceBySlug(ctx context.Context, slug string) (*model.Service, error) {
	cacheKey := fmt.Sprintf(serviceCacheKeyBySlug, slug)

	var cached model.Service
	if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	svc, err := s.repo.GetServiceBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, model.ErrServiceNotFound
	}

	packages, err := s.repo.ListPackagesByService(ctx, svc.ID, true)
	if err != nil {
		return nil, err
	}
	svc.Packages = packages

	if err := s.cache.Set(ctx, cacheKey, svc, serviceCacheTTL); err != nil {
		logger.Warn("Failed to cache service", map[string]interface{}{
			"slug": slug, "error": err.Error(),
		})
	}

	return svc, nil
}

// ===== ADMIN =====

func (s *catalogService) CreateService(ctx context.Context, req *model.SaveServiceRequest) (*model.Service, error) {
	svc := &model.Service{
		ID:          uuid.New(),
		Name:        req.Name,
		Slug:        Slugify(req.Name),
		Description: req.Description,
		Category:    req.Category,
		Deity:       req.Deity,
		IsActive:    true,
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}

	if err := s.repo.CreateService(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *catalogService) UpdateService(ctx context.Context, id uuid.UUID, req *model.SaveServiceRequest) (*model.Service, error) {
	svc, err := s.repo.GetServiceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldSlug := svc.Slug

	svc.Name = req.Name
	svc.Slug = Slugify(req.Name)
	svc.Description = req.Description
	svc.Category = req.Category
	svc.Deity = req.Deity
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateService(ctx, svc); err != nil {
		return nil, err
	}

	s.invalidate(ctx, oldSlug, svc.Slug)
	return svc, nil
}

func (s *catalogService) UploadServiceImage(ctx context.Context, id uuid.UUID, filename string, data []byte, contentType string) (*model.Service, error) {
	svc, err := s.repo.GetServiceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("services/%s/cover%s", svc.ID, strings.ToLower(filepath.Ext(filename)))
	url, err := s.storage.Upload(ctx, key, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload service image: %w", err)
	}

	svc.ImageURL = url
	if err := s.repo.UpdateService(ctx, svc); err != nil {
		return nil, err
	}

	s.invalidate(ctx, svc.Slug)
	return svc, nil
}

func (s *catalogService) CreatePackage(ctx context.Context, serviceID uuid.UUID, req *model.SavePackageRequest) (*model.Package, error) {
	svc, err := s.repo.GetServiceByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	pkg := &model.Package{
		ID:              uuid.New(),
		ServiceID:       svc.ID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		MaxDevotees:     req.MaxDevotees,
		IsActive:        true,
	}
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}

	if err := s.repo.CreatePackage(ctx, pkg); err != nil {
		return nil, err
	}

	s.invalidate(ctx, svc.Slug)
	return pkg, nil
}

func (s *catalogService) UpdatePackage(ctx context.Context, id uuid.UUID, req *model.SavePackageRequest) (*model.Package, error) {
	pkg, err := s.repo.GetPackageByID(ctx, id)
	if err != nil {
		return nil, err
	}

	pkg.Name = req.Name
	pkg.Description = req.Description
	pkg.Price = req.Price
	pkg.DurationMinutes = req.DurationMinutes
	pkg.MaxDevotees = req.MaxDevotees
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}

	if err := s.repo.UpdatePackage(ctx, pkg); err != nil {
		return nil, err
	}

	if svc, err := s.repo.GetServiceByID(ctx, pkg.ServiceID); err == nil {
		s.invalidate(ctx, svc.Slug)
	}
	return pkg, nil
}

func (s *catalogService) invalidate(ctx context.Context, slugs ...string) {
	keys := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		keys = append(keys, fmt.Sprintf(serviceCacheKeyBySlug, slug))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		logger.Warn("Failed to invalidate service cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

var slugStripRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns "Satyanarayan Puja " into "satyanarayan-puja".
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugStripRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
