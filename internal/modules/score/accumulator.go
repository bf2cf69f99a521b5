package score

import (
	"context"
	"math"

	"gorm.io/gorm"

	"rentmarket/internal/database"
	"rentmarket/internal/pkg/apperr"
	"rentmarket/internal/repository"
)

// Accumulator recomputes denormalized averages from the full review set.
// It never blends a new score into the cached value.
type Accumulator struct {
	db      *gorm.DB
	items   *repository.ItemRepository
	users   *repository.UserRepository
	reviews *repository.ReviewRepository
}

func NewAccumulator(db *gorm.DB) *Accumulator {
	return &Accumulator{
		db:      db,
		items:   repository.NewItemRepository(db),
		users:   repository.NewUserRepository(db),
		reviews: repository.NewReviewRepository(db),
	}
}

// Mean returns the arithmetic mean of scores, or 0 for an empty set.
func Mean(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum int64
	for _, s := range scores {
		sum += int64(s)
	}
	return float64(sum) / float64(len(scores))
}

// RoundTrust rounds half away from zero.
func RoundTrust(avg float64) float64 {
	return math.Round(avg)
}

// RecomputeItemRating writes the unrounded mean rating of itemID.
// Pass the review transaction as tx; nil uses the accumulator's own handle.
func (a *Accumulator) RecomputeItemRating(ctx context.Context, tx *gorm.DB, itemID int64) (float64, error) {
	if tx == nil {
		tx = a.db
	}
	ratings, err := a.reviews.WithTx(tx).ItemRatings(ctx, itemID)
	if err != nil {
		return 0, apperr.Storage("read item ratings", err)
	}

	avg := Mean(ratings)
	if err := a.items.WithTx(tx).SetRating(ctx, itemID, avg, int64(len(ratings))); err != nil {
		if database.IsNotFound(err) {
			return 0, apperr.NotFound("item")
		}
		return 0, apperr.Storage("write item rating", err)
	}
	return avg, nil
}

// RecomputeTrustScore writes round(mean) of every trust score the renter received.
func (a *Accumulator) RecomputeTrustScore(ctx context.Context, tx *gorm.DB, renterID int64) (float64, error) {
	if tx == nil {
		tx = a.db
	}
	scores, err := a.reviews.WithTx(tx).TrustScores(ctx, renterID)
	if err != nil {
		return 0, apperr.Storage("read trust scores", err)
	}

	trust := RoundTrust(Mean(scores))
	if err := a.users.WithTx(tx).SetTrustScore(ctx, renterID, trust); err != nil {
		if database.IsNotFound(err) {
			return 0, apperr.NotFound("user")
		}
		return 0, apperr.Storage("write trust score", err)
	}
	return trust, nil
}
