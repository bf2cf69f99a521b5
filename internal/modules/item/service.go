package item

import (
	"context"
	"log"
	"math"
	"strings"

	"rentmarket/internal/database"
	"rentmarket/internal/domain"
	"rentmarket/internal/pkg/apperr"
	"rentmarket/internal/pkg/validator"
	"rentmarket/internal/repository"
)

type Service struct {
	items *repository.ItemRepository
}

func NewService(items *repository.ItemRepository) *Service {
	return &Service{items: items}
}

func normalize(req *CreateItemRequest) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Category = strings.TrimSpace(req.Category)
	req.URL = strings.TrimSpace(req.URL)
}

func (s *Service) Create(ctx context.Context, ownerID int64, req CreateItemRequest) (*ItemWithRecommendation, error) {
	normalize(&req)
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	slug, err := uniqueSlug(ctx, Slugify(req.Title), func(ctx context.Context, s2 string) (bool, error) {
		return s.items.SlugExists(ctx, s2, 0)
	})
	if err != nil {
		return nil, apperr.Storage("check slug", err)
	}

	item := &domain.Item{
		Title:       req.Title,
		Slug:        slug,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		IsAvailable: req.IsAvailable == nil || *req.IsAvailable,
		URL:         req.URL,
		OwnerID:     ownerID,
	}
	if item.URL == "" {
		item.URL = domain.DefaultItemImage
	}
	if err := s.items.Create(ctx, item); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, apperr.Storage("create item", err)
	}
	log.Printf("item_created item_id=%d owner_id=%d slug=%s", item.ID, ownerID, item.Slug)

	rec, err := s.Recommend(ctx, item.Category)
	if err != nil {
		return nil, err
	}
	return &ItemWithRecommendation{Item: item, RecommendedPrice: rec.RecommendedPrice}, nil
}

// Update replaces the editable fields of an item owned by ownerID and regenerates its slug.
func (s *Service) Update(ctx context.Context, ownerID, itemID int64, req UpdateItemRequest) (*domain.Item, error) {
	normalize(&req)
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	item, err := s.owned(ctx, ownerID, itemID)
	if err != nil {
		return nil, err
	}

	slug, err := uniqueSlug(ctx, Slugify(req.Title), func(ctx context.Context, s2 string) (bool, error) {
		return s.items.SlugExists(ctx, s2, itemID)
	})
	if err != nil {
		return nil, apperr.Storage("check slug", err)
	}

	item.Title = req.Title
	item.Slug = slug
	item.Description = req.Description
	item.Price = req.Price
	item.Category = req.Category
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.URL != "" {
		item.URL = req.URL
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, apperr.Storage("update item", err)
	}
	return s.Get(ctx, itemID)
}

// Delete removes the item together with its reviews and rentals.
func (s *Service) Delete(ctx context.Context, ownerID, itemID int64) error {
	if _, err := s.owned(ctx, ownerID, itemID); err != nil {
		return err
	}
	if err := s.items.DeleteCascade(ctx, itemID); err != nil {
		if database.IsNotFound(err) {
			return apperr.NotFound("item")
		}
		return apperr.Storage("delete item", err)
	}
	log.Printf("item_deleted item_id=%d owner_id=%d", itemID, ownerID)
	return nil
}

func (s *Service) Get(ctx context.Context, itemID int64) (*domain.Item, error) {
	item, err := s.items.GetWithReviews(ctx, itemID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperr.NotFound("item")
		}
		return nil, apperr.Storage("get item", err)
	}
	return item, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*domain.Item, error) {
	item, err := s.items.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperr.NotFound("item")
		}
		return nil, apperr.Storage("get item", err)
	}
	return item, nil
}

func (s *Service) List(ctx context.Context, f repository.ItemFilters) ([]domain.Item, int64, error) {
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, 0, apperr.Validation("maxPrice", "must not be less than minPrice")
	}
	items, total, err := s.items.List(ctx, f)
	if err != nil {
		return nil, 0, apperr.Storage("list items", err)
	}
	return items, total, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID int64, p repository.Page) ([]domain.Item, int64, error) {
	return s.List(ctx, repository.ItemFilters{OwnerID: ownerID, Page: p})
}

// Recommend suggests round(mean price) of the category, or 0 when the category is empty.
func (s *Service) Recommend(ctx context.Context, category string) (*Recommendation, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, apperr.Validation("category", "is required")
	}

	avg, n, err := s.items.CategoryPriceStats(ctx, category)
	if err != nil {
		return nil, apperr.Storage("category price stats", err)
	}

	rec := &Recommendation{Category: category, SampleSize: n, RecommendedPrice: math.Round(avg)}
	if n == 0 {
		rec.Message = "No items found in this category"
	}
	return rec, nil
}

func (s *Service) owned(ctx context.Context, ownerID, itemID int64) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperr.NotFound("item")
		}
		return nil, apperr.Storage("get item", err)
	}
	if item.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return item, nil
}
