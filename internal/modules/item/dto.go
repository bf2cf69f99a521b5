package item

import "rentmarket/internal/domain"

type CreateItemRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"gt=0"`
	Category    string  `json:"category" validate:"required,max=100"`
	IsAvailable *bool   `json:"isAvailable"`
	URL         string  `json:"url" validate:"omitempty,max=500"`
}

// UpdateItemRequest replaces every editable field.
type UpdateItemRequest = CreateItemRequest

type ItemWithRecommendation struct {
	Item             *domain.Item `json:"item"`
	RecommendedPrice float64      `json:"recommendedPrice"`
}

type Recommendation struct {
	Category         string  `json:"category"`
	RecommendedPrice float64 `json:"recommendedPrice"`
	SampleSize       int64   `json:"sampleSize"`
	Message          string  `json:"message,omitempty"`
}
