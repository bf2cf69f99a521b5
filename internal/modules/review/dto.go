package review

import "rentmarket/internal/domain"

// SubmitItemReviewRequest rates an item. Either RentalID or ItemID identifies the rental.
type SubmitItemReviewRequest struct {
	RentalID int64  `json:"rentalId"`
	ItemID   int64  `json:"itemId"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

// SubmitRenterReviewRequest rates a renter. Either RentalID or RenterID+ItemID identifies the rental.
type SubmitRenterReviewRequest struct {
	RentalID   int64  `json:"rentalId"`
	RenterID   int64  `json:"renterId"`
	ItemID     int64  `json:"itemId"`
	TrustScore *int   `json:"trustScore"`
	Comment    string `json:"comment"`
}

type ItemReviewResult struct {
	Created       bool               `json:"created"`
	Review        *domain.ItemReview `json:"review"`
	AverageRating float64            `json:"averageRating"`
}

type RenterReviewResult struct {
	Created    bool                 `json:"created"`
	Review     *domain.RenterReview `json:"review"`
	TrustScore float64              `json:"trustScore"`
}
