package repository

import (
	"context"
	"strings"

	"rentmarket/internal/domain"

	"gorm.io/gorm"
)

type ItemFilters struct {
	Search    string
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	Available *bool
	OwnerID   int64
	Page      Page
}

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) WithTx(tx *gorm.DB) *ItemRepository {
	return &ItemRepository{db: tx}
}

func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) error {
	return r.db.WithContext(ctx).Omit("Owner", "Reviews").Create(item).Error
}

func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	var item domain.Item
	err := r.db.WithContext(ctx).
		Preload("Owner", publicUserColumns).
		First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetWithReviews loads the item together with its reviews, newest first.
func (r *ItemRepository) GetWithReviews(ctx context.Context, id int64) (*domain.Item, error) {
	var item domain.Item
	err := r.withReviews(ctx).First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepository) GetBySlug(ctx context.Context, slug string) (*domain.Item, error) {
	var item domain.Item
	err := r.withReviews(ctx).Where("slug = ?", slug).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepository) withReviews(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Owner", publicUserColumns).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Order("id DESC")
		}).
		Preload("Reviews.Renter", publicUserColumns)
}

func (r *ItemRepository) List(ctx context.Context, f ItemFilters) ([]domain.Item, int64, error) {
	p := f.Page.normalize()

	var total int64
	if err := r.filtered(ctx, f).Model(&domain.Item{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.Item
	err := r.filtered(ctx, f).
		Preload("Owner", publicUserColumns).
		Order("created_at DESC").
		Order("id DESC").
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *ItemRepository) filtered(ctx context.Context, f ItemFilters) *gorm.DB {
	q := r.db.WithContext(ctx)

	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		like := "%" + likeEscaper.Replace(s) + "%"
		q = q.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, like, like)
	}
	if c := strings.ToLower(strings.TrimSpace(f.Category)); c != "" {
		q = q.Where("LOWER(category) = ?", c)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.Available != nil {
		q = q.Where("is_available = ?", *f.Available)
	}
	if f.OwnerID > 0 {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	return q
}

func (r *ItemRepository) Update(ctx context.Context, item *domain.Item) error {
	return r.db.WithContext(ctx).
		Model(&domain.Item{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"title":        item.Title,
			"slug":         item.Slug,
			"description":  item.Description,
			"price":        item.Price,
			"category":     item.Category,
			"is_available": item.IsAvailable,
			"url":          item.URL,
		}).Error
}

func (r *ItemRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&domain.Item{}).Where("slug = ?", slug)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// DeleteCascade removes the item's reviews and rentals before the item itself.
func (r *ItemRepository) DeleteCascade(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item domain.Item
		if err := tx.Select("id").First(&item, id).Error; err != nil {
			return err
		}
		if err := tx.Where("item_id = ?", id).Delete(&domain.ItemReview{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_id = ?", id).Delete(&domain.Rental{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Item{}, id).Error
	})
}

// CategoryPriceStats returns the mean per-day price and the number of items in a category.
func (r *ItemRepository) CategoryPriceStats(ctx context.Context, category string) (float64, int64, error) {
	var row struct {
		Avg   *float64
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Item{}).
		Select("AVG(price) AS avg, COUNT(*) AS count").
		Where("LOWER(category) = ?", strings.ToLower(strings.TrimSpace(category))).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	if row.Avg == nil {
		return 0, row.Count, nil
	}
	return *row.Avg, row.Count, nil
}

// SetRating overwrites the cached average rating. Only the score accumulator calls it.
func (r *ItemRepository) SetRating(ctx context.Context, itemID int64, avg float64, count int64) error {
	tx := r.db.WithContext(ctx).
		Model(&domain.Item{}).
		Where("id = ?", itemID).
		Updates(map[string]any{
			"average_rating": avg,
			"review_count":   count,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
