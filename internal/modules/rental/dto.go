package rental

import "rentmarket/internal/domain"

type CreateRentalRequest struct {
	ItemID    int64  `json:"itemId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type QuoteResponse struct {
	ItemID      int64   `json:"itemId"`
	Days        int     `json:"days"`
	TotalCost   float64 `json:"totalCost"`
	PricePerDay float64 `json:"pricePerDay"`
}

// RenterRental is a row of the renter's history.
type RenterRental struct {
	domain.Rental
	HasReviewed bool `json:"hasReviewed"`
}

// OwnerRental is a row of the owner's incoming rentals.
type OwnerRental struct {
	domain.Rental
	HasRenterReview bool `json:"hasRenterReview"`
}
