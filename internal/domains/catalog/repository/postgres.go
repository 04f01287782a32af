package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"pujaseva-backend/internal/domains/catalog/model"
)

type postgresCatalogRepository struct {
	db *pgxpool.Pool
}

func NewPostgresCatalogRepository(db *pgxpool.Pool) CatalogRepository {
	return &postgresCatalogRepository{db: db}
}

// ===== SERVICES =====

const serviceColumns = `id, name, slug, description, category, deity, image_url, is_active, created_at, updated_at`

func scanService(row pgx.Row) (*model.Service, error) {
	s := &model.Service{}
	err := row.Scan(
		&s.ID, &s.Name, &s.Slug, &s.Description, &s.Category, &s.Deity,
		&s.ImageURL, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrServiceNotFound
		}
		return nil, fmt.Errorf("scan service: %w", err)
	}
	return s, nil
}

func (r *postgresCatalogRepository) CreateService(ctx context.Context, svc *model.Service) error {
	query := `
		INSERT INTO services (id, name, slug, description, category, deity, image_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		svc.ID, svc.Name, svc.Slug, svc.Description, svc.Category, svc.Deity,
		svc.ImageURL, svc.IsActive,
	).Scan(&svc.CreatedAt, &svc.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrSlugExists
		}
		return fmt.Errorf("create service: %w", err)
	}
	return nil
}

func (r *postgresCatalogRepository) GetServiceByID(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	query := fmt.Sprintf(`SELECT %s FROM services WHERE id = $1`, serviceColumns)
	return scanService(r.db.QueryRow(ctx, query, id))
}

func (r *postgresCatalogRepository) GetServiceBySlug(ctx context.Context, slug string) (*model.Service, error) {
	query := fmt.Sprintf(`SELECT %s FROM services WHERE slug = $1`, serviceColumns)
	return scanService(r.db.QueryRow(ctx, query, slug))
}

func (r *postgresCatalogRepository) ListServices(ctx context.Context, q *model.ListServicesQuery) ([]*model.Service, int, error) {
	where := []string{"is_active = TRUE"}
	args := []interface{}{}
	argN := 1

	if q.Category != "" {
		where = append(where, fmt.Sprintf("category = $%d", argN))
		args = append(args, q.Category)
		argN++
	}
	if q.Search != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR deity ILIKE $%d)", argN, argN))
		args = append(args, "%"+q.Search+"%")
		argN++
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM services WHERE %s`, whereClause)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count services: %w", err)
	}

	listQuery := fmt.Sprintf(
		`SELECT %s FROM services WHERE %s ORDER BY name LIMIT $%d OFFSET $%d`,
		serviceColumns, whereClause, argN, argN+1)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	services := make([]*model.Service, 0)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, 0, err
		}
		services = append(services, s)
	}
	return services, total, rows.Err()
}

func (r *postgresCatalogRepository) UpdateService(ctx context.Context, svc *model.Service) error {
	query := `
		UPDATE services
		SET name = $2, slug = $3, description = $4, category = $5, deity = $6,
			image_url = $7, is_active = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		svc.ID, svc.Name, svc.Slug, svc.Description, svc.Category, svc.Deity,
		svc.ImageURL, svc.IsActive,
	).Scan(&svc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrServiceNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrSlugExists
		}
		return fmt.Errorf("update service: %w", err)
	}
	return nil
}

// ===== PACKAGES =====

const packageColumns = `id, service_id, name, description, price, duration_minutes, max_devotees, is_active, created_at, updated_at`

func scanPackage(row pgx.Row) (*model.Package, error) {
	p := &model.Package{}
	err := row.Scan(
		&p.ID, &p.ServiceID, &p.Name, &p.Description, &p.Price,
		&p.DurationMinutes, &p.MaxDevotees, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPackageNotFound
		}
		return nil, fmt.Errorf("scan package: %w", err)
	}
	return p, nil
}

func (r *postgresCatalogRepository) CreatePackage(ctx context.Context, pkg *model.Package) error {
	query := `
		INSERT INTO packages (id, service_id, name, description, price, duration_minutes, max_devotees, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		pkg.ID, pkg.ServiceID, pkg.Name, pkg.Description, pkg.Price,
		pkg.DurationMinutes, pkg.MaxDevotees, pkg.IsActive,
	).Scan(&pkg.CreatedAt, &pkg.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return model.ErrServiceNotFound
		}
		return fmt.Errorf("create package: %w", err)
	}
	return nil
}

func (r *postgresCatalogRepository) GetPackageByID(ctx context.Context, id uuid.UUID) (*model.Package, error) {
	query := fmt.Sprintf(`SELECT %s FROM packages WHERE id = $1`, packageColumns)
	return scanPackage(r.db.QueryRow(ctx, query, id))
}

func (r *postgresCatalogRepository) ListPackagesByService(ctx context.Context, serviceID uuid.UUID, activeOnly bool) ([]*model.Package, error) {
	query := fmt.Sprintf(`SELECT %s FROM packages WHERE service_id = $1`, packageColumns)
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY price`

	rows, err := r.db.Query(ctx, query, serviceID)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	packages := make([]*model.Package, 0)
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		packages = append(packages, p)
	}
	return packages, rows.Err()
}

func (r *postgresCatalogRepository) UpdatePackage(ctx context.Context, pkg *model.Package) error {
	query := `
		UPDATE packages
		SET name = $2, description = $3, price = $4, duration_minutes = $5,
			max_devotees = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		pkg.ID, pkg.Name, pkg.Description, pkg.Price,
		pkg.DurationMinutes, pkg.MaxDevotees, pkg.IsActive,
	).Scan(&pkg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrPackageNotFound
		}
		return fmt.Errorf("update package: %w", err)
	}
	return nil
}
