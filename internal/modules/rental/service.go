package rental

import (
	"context"
	"log"

	"rentmarket/internal/database"
	"rentmarket/internal/domain"
	"rentmarket/internal/modules/notification"
	"rentmarket/internal/modules/pricing"
	"rentmarket/internal/pkg/apperr"
	"rentmarket/internal/repository"
)

type Service struct {
	rentals RentalRepository
	items   ItemRepository
	reviews ReviewLookup
	events  Publisher
}

func NewService(rentals RentalRepository, items ItemRepository, reviews ReviewLookup, events Publisher) *Service {
	return &Service{rentals: rentals, items: items, reviews: reviews, events: events}
}

// Create books an item for the caller. The cost is always computed here from the
// item's current price; client-supplied totals are never accepted.
func (s *Service) Create(ctx context.Context, renterID int64, req CreateRentalRequest) (*domain.Rental, error) {
	if req.ItemID <= 0 {
		return nil, apperr.Validation("itemId", "is required")
	}
	start, err := pricing.ParseDate("startDate", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := pricing.ParseDate("endDate", req.EndDate)
	if err != nil {
		return nil, err
	}

	item, err := s.getItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID == renterID {
		return nil, ErrOwnItem
	}
	if !item.IsAvailable {
		return nil, ErrItemUnavailable
	}

	quote, err := pricing.ComputeCost(item.Price, start, end)
	if err != nil {
		return nil, err
	}

	rental := &domain.Rental{
		UserID:    renterID,
		ItemID:    item.ID,
		StartDate: start,
		EndDate:   end,
		Days:      quote.Days,
		TotalCost: quote.TotalCost,
	}
	if err := s.rentals.Create(ctx, rental); err != nil {
		return nil, apperr.Storage("create rental", err)
	}
	rental.Item = item

	log.Printf("rental_created rental_id=%d item_id=%d renter_id=%d days=%d total=%.2f",
		rental.ID, item.ID, renterID, quote.Days, quote.TotalCost)

	if s.events != nil {
		s.events.Publish(item.OwnerID, notification.EventRentalCreated, map[string]any{
			"rentalId":  rental.ID,
			"itemId":    item.ID,
			"renterId":  renterID,
			"startDate": rental.StartDate,
			"endDate":   rental.EndDate,
			"totalCost": rental.TotalCost,
		})
	}
	return rental, nil
}

func (s *Service) Quote(ctx context.Context, itemID int64, startDate, endDate string) (*QuoteResponse, error) {
	start, err := pricing.ParseDate("startDate", startDate)
	if err != nil {
		return nil, err
	}
	end, err := pricing.ParseDate("endDate", endDate)
	if err != nil {
		return nil, err
	}
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	q, err := pricing.ComputeCost(item.Price, start, end)
	if err != nil {
		return nil, err
	}
	return &QuoteResponse{ItemID: item.ID, Days: q.Days, TotalCost: q.TotalCost, PricePerDay: item.Price}, nil
}

func (s *Service) ListMine(ctx context.Context, renterID int64, p repository.Page) ([]RenterRental, int64, error) {
	rentals, total, err := s.rentals.ListByUser(ctx, renterID, p)
	if err != nil {
		return nil, 0, apperr.Storage("list rentals", err)
	}

	itemIDs := make([]int64, 0, len(rentals))
	for _, r := range rentals {
		itemIDs = append(itemIDs, r.ItemID)
	}
	reviewed, err := s.reviews.ReviewedItemIDs(ctx, renterID, itemIDs)
	if err != nil {
		return nil, 0, apperr.Storage("lookup item reviews", err)
	}

	out := make([]RenterRental, 0, len(rentals))
	for _, r := range rentals {
		out = append(out, RenterRental{Rental: r, HasReviewed: reviewed[r.ItemID]})
	}
	return out, total, nil
}

func (s *Service) ListForOwner(ctx context.Context, ownerID int64, p repository.Page) ([]OwnerRental, int64, error) {
	rentals, total, err := s.rentals.ListByOwner(ctx, ownerID, p)
	if err != nil {
		return nil, 0, apperr.Storage("list owner rentals", err)
	}

	renterIDs := make([]int64, 0, len(rentals))
	for _, r := range rentals {
		renterIDs = append(renterIDs, r.UserID)
	}
	reviewed, err := s.reviews.ReviewedRenterIDs(ctx, ownerID, renterIDs)
	if err != nil {
		return nil, 0, apperr.Storage("lookup renter reviews", err)
	}

	out := make([]OwnerRental, 0, len(rentals))
	for _, r := range rentals {
		out = append(out, OwnerRental{Rental: r, HasRenterReview: reviewed[r.UserID]})
	}
	return out, total, nil
}

// Get returns a rental visible to its renter or to the owner of the rented item.
func (s *Service) Get(ctx context.Context, userID, rentalID int64) (*domain.Rental, error) {
	rental, err := s.rentals.GetByID(ctx, rentalID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperr.NotFound("rental")
		}
		return nil, apperr.Storage("get rental", err)
	}
	if rental.UserID == userID {
		return rental, nil
	}
	if rental.Item != nil && rental.Item.OwnerID == userID {
		return rental, nil
	}
	return nil, ErrNotParticipant
}

func (s *Service) getItem(ctx context.Context, id int64) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperr.NotFound("item")
		}
		return nil, apperr.Storage("get item", err)
	}
	return item, nil
}
