package domain

import "time"

const DefaultItemImage = "/images/default.png"

// Item is a listing. IsAvailable is toggled by the owner and is not derived from rentals.
type Item struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	Title         string    `json:"title" gorm:"size:200;not null"`
	Slug          string    `json:"slug" gorm:"size:220;not null;uniqueIndex"`
	Description   string    `json:"description" gorm:"type:text;not null"`
	Price         float64   `json:"price" gorm:"not null"`
	Category      string    `json:"category" gorm:"size:100;not null;index"`
	IsAvailable   bool      `json:"isAvailable" gorm:"not null"`
	URL           string    `json:"url" gorm:"size:500"`
	OwnerID       int64     `json:"ownerId" gorm:"not null;index"`
	AverageRating float64   `json:"averageRating" gorm:"not null"`
	ReviewCount   int64     `json:"reviewCount" gorm:"not null"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Owner   *User        `json:"owner,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
	Reviews []ItemReview `json:"itemReviews,omitempty" gorm:"foreignKey:ItemID"`
}

func (Item) TableName() string { return "items" }
