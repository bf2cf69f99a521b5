package repository

import (
	"context"
	"time"

	"rentmarket/internal/database"
	"rentmarket/internal/domain"
	"rentmarket/internal/pkg/apperr"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) WithTx(tx *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: tx}
}

// ---- item reviews ----

func (r *ReviewRepository) FindItemReview(ctx context.Context, renterID, itemID int64) (*domain.ItemReview, error) {
	var rv domain.ItemReview
	err := r.db.WithContext(ctx).
		Where("renter_id = ? AND item_id = ?", renterID, itemID).
		First(&rv).Error
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

// CreateItemReview inserts inside a savepoint so a unique violation leaves the
// surrounding transaction usable. The violation is reported as ErrDuplicateReview.
func (r *ReviewRepository) CreateItemReview(ctx context.Context, rv *domain.ItemReview) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Renter", "Item").Create(rv).Error
	})
	if database.IsUniqueViolation(err) {
		return apperr.ErrDuplicateReview
	}
	return err
}

// UpdateItemReview rewrites the score fields only; created_at is never touched.
func (r *ReviewRepository) UpdateItemReview(ctx context.Context, rv *domain.ItemReview) error {
	rv.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Model(&domain.ItemReview{}).
		Where("id = ?", rv.ID).
		Updates(map[string]any{
			"rating":     rv.Rating,
			"comment":    rv.Comment,
			"rental_id":  rv.RentalID,
			"updated_at": rv.UpdatedAt,
		}).Error
}

func (r *ReviewRepository) ItemRatings(ctx context.Context, itemID int64) ([]int, error) {
	var ratings []int
	err := r.db.WithContext(ctx).
		Model(&domain.ItemReview{}).
		Where("item_id = ?", itemID).
		Pluck("rating", &ratings).Error
	return ratings, err
}

func (r *ReviewRepository) ListItemReviewsByItem(ctx context.Context, itemID int64, p Page) ([]domain.ItemReview, int64, error) {
	return r.listItemReviews(ctx, p, func(db *gorm.DB) *gorm.DB {
		return db.Where("item_id = ?", itemID)
	})
}

func (r *ReviewRepository) ListItemReviews(ctx context.Context, p Page) ([]domain.ItemReview, int64, error) {
	return r.listItemReviews(ctx, p, func(db *gorm.DB) *gorm.DB { return db })
}

func (r *ReviewRepository) listItemReviews(ctx context.Context, p Page, scope func(*gorm.DB) *gorm.DB) ([]domain.ItemReview, int64, error) {
	p = p.normalize()

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.ItemReview{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []domain.ItemReview
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Renter", publicUserColumns).
		Order("created_at DESC").
		Order("id DESC").
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&reviews).Error
	return reviews, total, err
}

// ReviewedItemIDs returns which of itemIDs the renter has already reviewed.
func (r *ReviewRepository) ReviewedItemIDs(ctx context.Context, renterID int64, itemIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.ItemReview{}).
		Where("renter_id = ? AND item_id IN ?", renterID, itemIDs).
		Pluck("item_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// ---- renter reviews ----

func (r *ReviewRepository) FindRenterReview(ctx context.Context, renterID, ownerID int64) (*domain.RenterReview, error) {
	var rv domain.RenterReview
	err := r.db.WithContext(ctx).
		Where("renter_id = ? AND owner_id = ?", renterID, ownerID).
		First(&rv).Error
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewRepository) CreateRenterReview(ctx context.Context, rv *domain.RenterReview) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Renter", "Owner").Create(rv).Error
	})
	if database.IsUniqueViolation(err) {
		return apperr.ErrDuplicateReview
	}
	return err
}

func (r *ReviewRepository) UpdateRenterReview(ctx context.Context, rv *domain.RenterReview) error {
	rv.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Model(&domain.RenterReview{}).
		Where("id = ?", rv.ID).
		Updates(map[string]any{
			"trust_score": rv.TrustScore,
			"comment":     rv.Comment,
			"rental_id":   rv.RentalID,
			"updated_at":  rv.UpdatedAt,
		}).Error
}

func (r *ReviewRepository) TrustScores(ctx context.Context, renterID int64) ([]int, error) {
	var scores []int
	err := r.db.WithContext(ctx).
		Model(&domain.RenterReview{}).
		Where("renter_id = ?", renterID).
		Pluck("trust_score", &scores).Error
	return scores, err
}

func (r *ReviewRepository) ListRenterReviewsByRenter(ctx context.Context, renterID int64, p Page) ([]domain.RenterReview, int64, error) {
	return r.listRenterReviews(ctx, p, func(db *gorm.DB) *gorm.DB {
		return db.Where("renter_id = ?", renterID)
	})
}

func (r *ReviewRepository) ListRenterReviews(ctx context.Context, p Page) ([]domain.RenterReview, int64, error) {
	return r.listRenterReviews(ctx, p, func(db *gorm.DB) *gorm.DB { return db })
}

func (r *ReviewRepository) listRenterReviews(ctx context.Context, p Page, scope func(*gorm.DB) *gorm.DB) ([]domain.RenterReview, int64, error) {
	p = p.normalize()

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.RenterReview{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []domain.RenterReview
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Renter", publicUserColumns).
		Preload("Owner", publicUserColumns).
		Order("created_at DESC").
		Order("id DESC").
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&reviews).Error
	return reviews, total, err
}

// ReviewedRenterIDs returns which of renterIDs the owner has already reviewed.
func (r *ReviewRepository) ReviewedRenterIDs(ctx context.Context, ownerID int64, renterIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(renterIDs))
	if len(renterIDs) == 0 {
		return out, nil
	}
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.RenterReview{}).
		Where("owner_id = ? AND renter_id IN ?", ownerID, renterIDs).
		Pluck("renter_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
