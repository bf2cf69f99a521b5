package admin

import (
	"context"

	"gorm.io/gorm"

	"rentmarket/internal/domain"
	"rentmarket/internal/pkg/apperr"
	"rentmarket/internal/repository"
)

// Service exposes read-only views over every table for administrators.
type Service struct {
	db      *gorm.DB
	users   *repository.UserRepository
	items   *repository.ItemRepository
	rentals *repository.RentalRepository
	reviews *repository.ReviewRepository
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		db:      db,
		users:   repository.NewUserRepository(db),
		items:   repository.NewItemRepository(db),
		rentals: repository.NewRentalRepository(db),
		reviews: repository.NewReviewRepository(db),
	}
}

type Stats struct {
	Users         int64 `json:"users"`
	Items         int64 `json:"items"`
	Rentals       int64 `json:"rentals"`
	ItemReviews   int64 `json:"itemReviews"`
	RenterReviews int64 `json:"renterReviews"`
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	counts := []struct {
		model any
		dst   *int64
	}{
		{&domain.User{}, &st.Users},
		{&domain.Item{}, &st.Items},
		{&domain.Rental{}, &st.Rentals},
		{&domain.ItemReview{}, &st.ItemReviews},
		{&domain.RenterReview{}, &st.RenterReviews},
	}
	for _, c := range counts {
		if err := s.db.WithContext(ctx).Model(c.model).Count(c.dst).Error; err != nil {
			return nil, apperr.Storage("count", err)
		}
	}
	return &st, nil
}

func (s *Service) Users(ctx context.Context, p repository.Page) ([]domain.User, int64, error) {
	list, total, err := s.users.List(ctx, p)
	return list, total, apperr.Storage("list users", err)
}

func (s *Service) Items(ctx context.Context, p repository.Page) ([]domain.Item, int64, error) {
	list, total, err := s.items.List(ctx, repository.ItemFilters{Page: p})
	return list, total, apperr.Storage("list items", err)
}

func (s *Service) Rentals(ctx context.Context, p repository.Page) ([]domain.Rental, int64, error) {
	list, total, err := s.rentals.ListAll(ctx, p)
	return list, total, apperr.Storage("list rentals", err)
}

func (s *Service) ItemReviews(ctx context.Context, p repository.Page) ([]domain.ItemReview, int64, error) {
	list, total, err := s.reviews.ListItemReviews(ctx, p)
	return list, total, apperr.Storage("list item reviews", err)
}

func (s *Service) RenterReviews(ctx context.Context, p repository.Page) ([]domain.RenterReview, int64, error) {
	list, total, err := s.reviews.ListRenterReviews(ctx, p)
	return list, total, apperr.Storage("list renter reviews", err)
}
