package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"oglasnik/importer/internal/domain"
)

type ListingRepository interface {
	SaveListing(ctx context.Context, listing *domain.Listing) error
}

type listingRepository struct {
	db *pgxpool.Pool
}

func NewListingRepository(db *pgxpool.Pool) ListingRepository {
	return &listingRepository{
		db: db,
	}
}

func (r *listingRepository) SaveListing(ctx context.Context, listing *domain.Listing) error {
	query := `
	INSERT INTO listings (id, category, data)
	VALUES ($1, $2, $3)
	ON CONFLICT (id)
	DO UPDATE SET category = $2, data = $3`
	_, err := r.db.Exec(ctx, query, listing.ID, listing.Category, listing)
	if err != nil {
		return fmt.Errorf("failed to save listing: %w", err)
	}

	return nil
}
