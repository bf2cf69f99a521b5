package repository

import (
	"context"

	"rentmarket/internal/domain"

	"gorm.io/gorm"
)

type RentalRepository struct {
	db *gorm.DB
}

func NewRentalRepository(db *gorm.DB) *RentalRepository {
	return &RentalRepository{db: db}
}

func (r *RentalRepository) WithTx(tx *gorm.DB) *RentalRepository {
	return &RentalRepository{db: tx}
}

func (r *RentalRepository) Create(ctx context.Context, rental *domain.Rental) error {
	return r.db.WithContext(ctx).Omit("User", "Item").Create(rental).Error
}

func (r *RentalRepository) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	var rental domain.Rental
	err := r.db.WithContext(ctx).
		Preload("User", publicUserColumns).
		Preload("Item").
		First(&rental, id).Error
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

// ListByUser returns the rentals a user took, newest first.
func (r *RentalRepository) ListByUser(ctx context.Context, userID int64, p Page) ([]domain.Rental, int64, error) {
	p = p.normalize()
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&domain.Rental{}).Where("user_id = ?", userID)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rentals []domain.Rental
	err := base().
		Preload("Item").
		Order("created_at DESC").
		Order("id DESC").
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&rentals).Error
	return rentals, total, err
}

// ListByOwner returns rentals of items listed by ownerID, newest first.
func (r *RentalRepository) ListByOwner(ctx context.Context, ownerID int64, p Page) ([]domain.Rental, int64, error) {
	p = p.normalize()
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&domain.Rental{}).
			Joins("JOIN items ON items.id = rentals.item_id").
			Where("items.owner_id = ?", ownerID)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rentals []domain.Rental
	err := base().
		Preload("Item").
		Preload("User", publicUserColumns).
		Order("rentals.created_at DESC").
		Order("rentals.id DESC").
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&rentals).Error
	return rentals, total, err
}

// LatestForRenterAndItem returns the most recent rental of itemID by renterID.
func (r *RentalRepository) LatestForRenterAndItem(ctx context.Context, renterID, itemID int64) (*domain.Rental, error) {
	var rental domain.Rental
	err := r.db.WithContext(ctx).
		Preload("Item").
		Where("user_id = ? AND item_id = ?", renterID, itemID).
		Order("created_at DESC").
		Order("id DESC").
		First(&rental).Error
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

func (r *RentalRepository) ListAll(ctx context.Context, p Page) ([]domain.Rental, int64, error) {
	p = p.normalize()

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Rental{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rentals []domain.Rental
	err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("User", publicUserColumns).
		Order("created_at DESC").
		Order("id DESC").
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&rentals).Error
	return rentals, total, err
}
