package review

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"rentmarket/internal/database"
	"rentmarket/internal/domain"
	"rentmarket/internal/modules/notification"
	"rentmarket/internal/modules/score"
	"rentmarket/internal/pkg/apperr"
	"rentmarket/internal/repository"
)

type Publisher interface {
	Publish(userID int64, eventType string, payload any) bool
}

type Service struct {
	db      *gorm.DB
	reviews *repository.ReviewRepository
	rentals *repository.RentalRepository
	items   *repository.ItemRepository
	users   *repository.UserRepository
	scores  *score.Accumulator
	events  Publisher
}

func NewService(db *gorm.DB, scores *score.Accumulator, events Publisher) *Service {
	return &Service{
		db:      db,
		reviews: repository.NewReviewRepository(db),
		rentals: repository.NewRentalRepository(db),
		items:   repository.NewItemRepository(db),
		users:   repository.NewUserRepository(db),
		scores:  scores,
		events:  events,
	}
}

func validateItemReview(req *SubmitItemReviewRequest) error {
	if req.RentalID <= 0 && req.ItemID <= 0 {
		return apperr.Validation("rentalId", "rentalId or itemId is required")
	}
	if req.Rating < domain.MinItemRating || req.Rating > domain.MaxItemRating {
		return apperr.Validation("rating", "must be between 1 and 5")
	}
	req.Comment = strings.TrimSpace(req.Comment)
	if req.Comment == "" {
		return apperr.Validation("comment", "is required")
	}
	return nil
}

func validateRenterReview(req *SubmitRenterReviewRequest) error {
	if req.RentalID <= 0 && (req.RenterID <= 0 || req.ItemID <= 0) {
		return apperr.Validation("rentalId", "rentalId or renterId and itemId are required")
	}
	if req.TrustScore == nil {
		return apperr.Validation("trustScore", "is required")
	}
	if *req.TrustScore < domain.MinTrustScore || *req.TrustScore > domain.MaxTrustScore {
		return apperr.Validation("trustScore", "must be between 0 and 100")
	}
	req.Comment = strings.TrimSpace(req.Comment)
	if req.Comment == "" {
		return apperr.Validation("comment", "is required")
	}
	return nil
}

// SubmitItemReview creates or updates the caller's review of a rented item and
// recomputes the item's average rating in the same transaction.
func (s *Service) SubmitItemReview(ctx context.Context, renterID int64, req SubmitItemReviewRequest) (*ItemReviewResult, error) {
	if err := validateItemReview(&req); err != nil {
		return nil, err
	}

	rental, err := s.renterRental(ctx, renterID, req.RentalID, req.ItemID)
	if err != nil {
		return nil, err
	}

	var result ItemReviewResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.reviews.WithTx(tx)

		existing, err := repo.FindItemReview(ctx, renterID, rental.ItemID)
		if err != nil && !database.IsNotFound(err) {
			return apperr.Storage("find item review", err)
		}

		rv := existing
		if rv == nil {
			rv = &domain.ItemReview{
				RenterID: renterID,
				ItemID:   rental.ItemID,
				RentalID: &rental.ID,
				Rating:   req.Rating,
				Comment:  req.Comment,
			}
			err = repo.CreateItemReview(ctx, rv)
			switch {
			case err == nil:
				result.Created = true
			case errors.Is(err, apperr.ErrDuplicateReview):
				// lost an insert race; update the row the other request wrote
				if rv, err = repo.FindItemReview(ctx, renterID, rental.ItemID); err != nil {
					return apperr.Storage("find item review", err)
				}
			default:
				return apperr.Storage("create item review", err)
			}
		}

		if !result.Created {
			rv.Rating = req.Rating
			rv.Comment = req.Comment
			rv.RentalID = &rental.ID
			if err := repo.UpdateItemReview(ctx, rv); err != nil {
				return apperr.Storage("update item review", err)
			}
		}

		avg, err := s.scores.RecomputeItemRating(ctx, tx, rental.ItemID)
		if err != nil {
			return err
		}
		result.Review = rv
		result.AverageRating = avg
		return nil
	})
	if err != nil {
		return nil, err
	}

	if rental.Item != nil && rental.Item.OwnerID != renterID {
		s.publish(rental.Item.OwnerID, notification.EventItemReviewSaved, map[string]any{
			"itemId":        rental.ItemID,
			"reviewId":      result.Review.ID,
			"rating":        result.Review.Rating,
			"averageRating": result.AverageRating,
			"created":       result.Created,
		})
	}
	return &result, nil
}

// SubmitRenterReview creates or updates the caller's trust score for a renter of
// one of their items and recomputes the renter's trust score.
func (s *Service) SubmitRenterReview(ctx context.Context, ownerID int64, req SubmitRenterReviewRequest) (*RenterReviewResult, error) {
	if err := validateRenterReview(&req); err != nil {
		return nil, err
	}

	rental, err := s.ownerRental(ctx, ownerID, req.RentalID, req.RenterID, req.ItemID)
	if err != nil {
		return nil, err
	}
	renterID := rental.UserID
	if renterID == ownerID {
		return nil, apperr.Validation("renterId", "cannot review yourself")
	}

	var result RenterReviewResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.reviews.WithTx(tx)

		existing, err := repo.FindRenterReview(ctx, renterID, ownerID)
		if err != nil && !database.IsNotFound(err) {
			return apperr.Storage("find renter review", err)
		}

		rv := existing
		if rv == nil {
			rv = &domain.RenterReview{
				RenterID:   renterID,
				OwnerID:    ownerID,
				RentalID:   &rental.ID,
				TrustScore: *req.TrustScore,
				Comment:    req.Comment,
			}
			err = repo.CreateRenterReview(ctx, rv)
			switch {
			case err == nil:
				result.Created = true
			case errors.Is(err, apperr.ErrDuplicateReview):
				if rv, err = repo.FindRenterReview(ctx, renterID, ownerID); err != nil {
					return apperr.Storage("find renter review", err)
				}
			default:
				return apperr.Storage("create renter review", err)
			}
		}

		if !result.Created {
			rv.TrustScore = *req.TrustScore
			rv.Comment = req.Comment
			rv.RentalID = &rental.ID
			if err := repo.UpdateRenterReview(ctx, rv); err != nil {
				return apperr.Storage("update renter review", err)
			}
		}

		trust, err := s.scores.RecomputeTrustScore(ctx, tx, renterID)
		if err != nil {
			return err
		}
		result.Review = rv
		result.TrustScore = trust
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(renterID, notification.EventTrustScoreUpdated, map[string]any{
		"ownerId":    ownerID,
		"reviewId":   result.Review.ID,
		"trustScore": result.TrustScore,
	})
	return &result, nil
}

// GetItemReview returns the caller's review for a rental or an item.
func (s *Service) GetItemReview(ctx context.Context, renterID, rentalID, itemID int64) (*domain.ItemReview, error) {
	if rentalID <= 0 && itemID <= 0 {
		return nil, apperr.Validation("rentalId", "rentalId or itemId is required")
	}
	if rentalID > 0 {
		rental, err := s.renterRental(ctx, renterID, rentalID, 0)
		if err != nil {
			return nil, err
		}
		itemID = rental.ItemID
	}

	rv, err := s.reviews.FindItemReview(ctx, renterID, itemID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperr.NotFound("review")
		}
		return nil, apperr.Storage("find item review", err)
	}
	return rv, nil
}

// GetRenterReview returns the caller's review of a renter, found via a rental or the renter id.
func (s *Service) GetRenterReview(ctx context.Context, ownerID, rentalID, renterID int64) (*domain.RenterReview, error) {
	if rentalID <= 0 && renterID <= 0 {
		return nil, apperr.Validation("rentalId", "rentalId or renterId is required")
	}
	if rentalID > 0 {
		rental, err := s.ownerRental(ctx, ownerID, rentalID, 0, 0)
		if err != nil {
			return nil, err
		}
		renterID = rental.UserID
	}

	rv, err := s.reviews.FindRenterReview(ctx, renterID, ownerID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperr.NotFound("review")
		}
		return nil, apperr.Storage("find renter review", err)
	}
	return rv, nil
}

func (s *Service) ListItemReviews(ctx context.Context, itemID int64, p repository.Page) ([]domain.ItemReview, int64, error) {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		if database.IsNotFound(err) {
			return nil, 0, apperr.NotFound("item")
		}
		return nil, 0, apperr.Storage("get item", err)
	}
	list, total, err := s.reviews.ListItemReviewsByItem(ctx, itemID, p)
	if err != nil {
		return nil, 0, apperr.Storage("list item reviews", err)
	}
	return list, total, nil
}

func (s *Service) ListRenterReviews(ctx context.Context, renterID int64, p repository.Page) ([]domain.RenterReview, int64, error) {
	if _, err := s.users.GetByID(ctx, renterID); err != nil {
		if database.IsNotFound(err) {
			return nil, 0, apperr.NotFound("user")
		}
		return nil, 0, apperr.Storage("get user", err)
	}
	list, total, err := s.reviews.ListRenterReviewsByRenter(ctx, renterID, p)
	if err != nil {
		return nil, 0, apperr.Storage("list renter reviews", err)
	}
	return list, total, nil
}

// renterRental resolves the rental a renter review refers to. The caller must be its renter.
func (s *Service) renterRental(ctx context.Context, renterID, rentalID, itemID int64) (*domain.Rental, error) {
	if rentalID > 0 {
		rental, err := s.rentals.GetByID(ctx, rentalID)
		if err != nil {
			if database.IsNotFound(err) {
				return nil, apperr.NotFound("rental")
			}
			return nil, apperr.Storage("get rental", err)
		}
		if rental.UserID != renterID {
			return nil, ErrNotRenter
		}
		if itemID > 0 && rental.ItemID != itemID {
			return nil, apperr.Validation("itemId", "does not match the rental")
		}
		return rental, nil
	}

	rental, err := s.rentals.LatestForRenterAndItem(ctx, renterID, itemID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrNotRenter
		}
		return nil, apperr.Storage("find rental", err)
	}
	return rental, nil
}

// ownerRental resolves the rental an owner review refers to. The caller must own the rented item.
func (s *Service) ownerRental(ctx context.Context, ownerID, rentalID, renterID, itemID int64) (*domain.Rental, error) {
	if rentalID > 0 {
		rental, err := s.rentals.GetByID(ctx, rentalID)
		if err != nil {
			if database.IsNotFound(err) {
				return nil, apperr.NotFound("rental")
			}
			return nil, apperr.Storage("get rental", err)
		}
		if rental.Item == nil || rental.Item.OwnerID != ownerID {
			return nil, ErrNotItemOwner
		}
		if renterID > 0 && rental.UserID != renterID {
			return nil, apperr.Validation("renterId", "does not match the rental")
		}
		return rental, nil
	}

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperr.NotFound("item")
		}
		return nil, apperr.Storage("get item", err)
	}
	if item.OwnerID != ownerID {
		return nil, ErrNotItemOwner
	}

	rental, err := s.rentals.LatestForRenterAndItem(ctx, renterID, itemID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperr.NotFound("rental")
		}
		return nil, apperr.Storage("find rental", err)
	}
	return rental, nil
}

func (s *Service) publish(userID int64, eventType string, payload any) {
	if s.events == nil {
		return
	}
	s.events.Publish(userID, eventType, payload)
}
