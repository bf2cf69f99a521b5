package rental

import (
	"context"

	"rentmarket/internal/domain"
	"rentmarket/internal/repository"
)

type RentalRepository interface {
	Create(ctx context.Context, r *domain.Rental) error
	GetByID(ctx context.Context, id int64) (*domain.Rental, error)
	ListByUser(ctx context.Context, userID int64, p repository.Page) ([]domain.Rental, int64, error)
	ListByOwner(ctx context.Context, ownerID int64, p repository.Page) ([]domain.Rental, int64, error)
}

type ItemRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
}

// ReviewLookup answers "has this pair been reviewed yet" for history listings.
type ReviewLookup interface {
	ReviewedItemIDs(ctx context.Context, renterID int64, itemIDs []int64) (map[int64]bool, error)
	ReviewedRenterIDs(ctx context.Context, ownerID int64, renterIDs []int64) (map[int64]bool, error)
}

type Publisher interface {
	Publish(userID int64, eventType string, payload any) bool
}
