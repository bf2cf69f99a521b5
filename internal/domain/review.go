package domain

import "time"

const (
	MinItemRating = 1
	MaxItemRating = 5
	MinTrustScore = 0
	MaxTrustScore = 100
)

// ItemReview is a renter's 1-5 rating of an item. One row per (renter, item).
type ItemReview struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	RenterID  int64     `json:"renterId" gorm:"not null;uniqueIndex:idx_item_reviews_renter_item"`
	ItemID    int64     `json:"itemId" gorm:"not null;uniqueIndex:idx_item_reviews_renter_item;index"`
	RentalID  *int64    `json:"rentalId,omitempty"`
	Rating    int       `json:"rating" gorm:"not null;check:chk_item_reviews_rating,rating >= 1 AND rating <= 5"`
	Comment   string    `json:"comment" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Renter *User `json:"renter,omitempty" gorm:"foreignKey:RenterID;references:ID"`
	Item   *Item `json:"item,omitempty" gorm:"foreignKey:ItemID;references:ID"`
}

func (ItemReview) TableName() string { return "item_reviews" }

// RenterReview is an owner's 0-100 trust score for a renter. One row per (renter, owner).
type RenterReview struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	RenterID   int64     `json:"renterId" gorm:"not null;uniqueIndex:idx_renter_reviews_renter_owner;index"`
	OwnerID    int64     `json:"ownerId" gorm:"not null;uniqueIndex:idx_renter_reviews_renter_owner"`
	RentalID   *int64    `json:"rentalId,omitempty"`
	TrustScore int       `json:"trustScore" gorm:"not null;check:chk_renter_reviews_trust_score,trust_score >= 0 AND trust_score <= 100"`
	Comment    string    `json:"comment" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	Renter *User `json:"renter,omitempty" gorm:"foreignKey:RenterID;references:ID"`
	Owner  *User `json:"owner,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
}

func (RenterReview) TableName() string { return "renter_reviews" }
