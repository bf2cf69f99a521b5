package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rentmarket/internal/config"
	"rentmarket/internal/database"
	"rentmarket/internal/domain"
	"rentmarket/internal/modules/auth"
	"rentmarket/internal/modules/item"
	"rentmarket/internal/modules/pricing"
	"rentmarket/internal/modules/score"
)

type seedItem struct {
	title    string
	category string
	price    float64
}

var catalog = []seedItem{
	{"Two Person Tent", "Camping", 18},
	{"Sleeping Bag -10C", "Camping", 9},
	{"Camping Stove", "Camping", 7.5},
	{"Cordless Drill", "Tools", 12},
	{"Pressure Washer", "Tools", 25},
	{"Mirrorless Camera", "Photo", 45},
	{"Tripod", "Photo", 6},
	{"Road Bike", "Sports", 20},
	{"Stand Up Paddle Board", "Sports", 30},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL, database.Options{LogLevel: cfg.DBLogLevel})
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (children first)
	log.Println("Cleaning old data...")
	for _, table := range []string{"renter_reviews", "item_reviews", "rentals", "items", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("clean %s: %v", table, err)
		}
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ctx := context.Background()

	// ================== USERS ==================
	log.Println("Creating users...")
	mustUser(db, "admin", "admin@rentmarket.local", "admin123", domain.RoleAdmin)

	owners := make([]domain.User, 0, 3)
	for i := 1; i <= 3; i++ {
		owners = append(owners, mustUser(db, fmt.Sprintf("owner%d", i), fmt.Sprintf("owner%d@rentmarket.local", i), "owner123", domain.RoleOwner))
	}

	renters := make([]domain.User, 0, 4)
	for i := 1; i <= 4; i++ {
		renters = append(renters, mustUser(db, fmt.Sprintf("renter%d", i), fmt.Sprintf("renter%d@rentmarket.local", i), "renter123", domain.RoleRenter))
	}

	// ================== ITEMS ==================
	log.Println("Creating items...")
	items := make([]domain.Item, 0, len(catalog))
	for i, c := range catalog {
		it := domain.Item{
			Title:       c.title,
			Slug:        item.Slugify(c.title),
			Description: fmt.Sprintf("%s in good condition, pick up in town.", c.title),
			Price:       c.price,
			Category:    c.category,
			IsAvailable: i%4 != 3,
			URL:         domain.DefaultItemImage,
			OwnerID:     owners[i%len(owners)].ID,
		}
		if err := db.Omit("Owner", "Reviews").Create(&it).Error; err != nil {
			log.Fatalf("create item %q: %v", c.title, err)
		}
		items = append(items, it)
	}

	// ================== RENTALS ==================
	log.Println("Creating rentals...")
	var rentals []domain.Rental
	for i := 0; i < 12; i++ {
		it := items[rng.Intn(len(items))]
		renter := renters[rng.Intn(len(renters))]

		start := time.Now().UTC().AddDate(0, 0, rng.Intn(60)-30).Truncate(24 * time.Hour)
		end := start.AddDate(0, 0, rng.Intn(6))
		quote, err := pricing.ComputeCost(it.Price, start, end)
		if err != nil {
			log.Fatalf("quote: %v", err)
		}

		r := domain.Rental{
			UserID:    renter.ID,
			ItemID:    it.ID,
			StartDate: start,
			EndDate:   end,
			Days:      quote.Days,
			TotalCost: quote.TotalCost,
		}
		if err := db.Omit("User", "Item").Create(&r).Error; err != nil {
			log.Fatalf("create rental: %v", err)
		}
		rentals = append(rentals, r)
	}

	// ================== REVIEWS ==================
	log.Println("Creating reviews...")
	scores := score.NewAccumulator(db)
	itemReviewed := map[[2]int64]bool{}
	renterReviewed := map[[2]int64]bool{}
	ownerOf := map[int64]int64{}
	for _, it := range items {
		ownerOf[it.ID] = it.OwnerID
	}

	for i := range rentals {
		r := rentals[i]
		rentalID := r.ID

		if key := [2]int64{r.UserID, r.ItemID}; !itemReviewed[key] && rng.Intn(3) > 0 {
			itemReviewed[key] = true
			rv := domain.ItemReview{
				RenterID: r.UserID,
				ItemID:   r.ItemID,
				RentalID: &rentalID,
				Rating:   2 + rng.Intn(4),
				Comment:  fmt.Sprintf("Rental #%d went fine", r.ID),
			}
			if err := db.Omit("Renter", "Item").Create(&rv).Error; err != nil {
				log.Fatalf("create item review: %v", err)
			}
		}

		owner := ownerOf[r.ItemID]
		if key := [2]int64{r.UserID, owner}; !renterReviewed[key] && rng.Intn(2) == 0 {
			renterReviewed[key] = true
			rv := domain.RenterReview{
				RenterID:   r.UserID,
				OwnerID:    owner,
				RentalID:   &rentalID,
				TrustScore: 50 + rng.Intn(51),
				Comment:    "Returned everything as agreed",
			}
			if err := db.Omit("Renter", "Owner").Create(&rv).Error; err != nil {
				log.Fatalf("create renter review: %v", err)
			}
		}
	}

	for _, it := range items {
		if _, err := scores.RecomputeItemRating(ctx, nil, it.ID); err != nil {
			log.Fatalf("recompute item %d: %v", it.ID, err)
		}
	}
	for _, u := range renters {
		if _, err := scores.RecomputeTrustScore(ctx, nil, u.ID); err != nil {
			log.Fatalf("recompute trust %d: %v", u.ID, err)
		}
	}

	log.Printf("Seed completed: users=%d items=%d rentals=%d", 1+len(owners)+len(renters), len(items), len(rentals))
	log.Println("Test accounts:")
	log.Println("Admin: admin@rentmarket.local / admin123")
	log.Println("Owners: owner1@rentmarket.local ... owner3@rentmarket.local / owner123")
	log.Println("Renters: renter1@rentmarket.local ... renter4@rentmarket.local / renter123")
}

func mustUser(db *gorm.DB, username, email, password string, role domain.UserRole) domain.User {
	hash, err := auth.HashPassword(password, bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	u := domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := db.Create(&u).Error; err != nil {
		log.Fatalf("create user %s: %v", username, err)
	}
	return u
}
