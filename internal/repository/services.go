package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"delivery-marketplace/internal/apperr"
	"delivery-marketplace/internal/domain"
)

// CatalogRepo represents the service catalog repository.
type CatalogRepo struct{ db *pgxpool.Pool }

// NewCatalogRepo creates a new CatalogRepo.
func NewCatalogRepo(db *pgxpool.Pool) *CatalogRepo { return &CatalogRepo{db: db} }

// Get - returns a catalog service by its ID.
func (r *CatalogRepo) Get(ctx context.Context, id int64) (*domain.CatalogService, error) {
	var s domain.CatalogService
	err := r.db.QueryRow(ctx,
		`SELECT id, name, COALESCE(description,''), price, COALESCE(slug,'') FROM services WHERE id=$1`, id,
	).Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.Slug)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service %d: %w", id, err)
	}
	return &s, nil
}

// Create - creates a new catalog service.
func (r *CatalogRepo) Create(ctx context.Context, s *domain.CatalogService) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO services(name, description, price, slug) VALUES($1,$2,$3,$4) RETURNING id`,
		s.Name, s.Description, s.Price, s.Slug).Scan(&id)
	if err != nil {
		if IsDuplicate(err) {
			return 0, apperr.ErrConflict
		}
		return 0, fmt.Errorf("create service: %w", err)
	}
	return id, nil
}
