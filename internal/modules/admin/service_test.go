package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentmarket/internal/database"
	"rentmarket/internal/domain"
	"rentmarket/internal/repository"
)

func seed(t *testing.T) *Service {
	t.Helper()
	db := database.OpenTest(t)

	owner := &domain.User{Username: "owner", Email: "o@example.com", PasswordHash: "x", Role: domain.RoleOwner}
	renter := &domain.User{Username: "renter", Email: "r@example.com", PasswordHash: "x", Role: domain.RoleRenter}
	require.NoError(t, db.Create(owner).Error)
	require.NoError(t, db.Create(renter).Error)
	item := &domain.Item{Title: "Bike", Slug: "bike", Description: "city bike", Price: 9, Category: "outdoor", IsAvailable: true, OwnerID: owner.ID}
	require.NoError(t, db.Create(item).Error)
	now := time.Now()
	require.NoError(t, db.Create(&domain.Rental{UserID: renter.ID, ItemID: item.ID, StartDate: now, EndDate: now, Days: 1, TotalCost: 9}).Error)
	require.NoError(t, db.Create(&domain.ItemReview{RenterID: renter.ID, ItemID: item.ID, Rating: 5, Comment: "fast"}).Error)

	return NewService(db)
}

func TestStats(t *testing.T) {
	svc := seed(t)
	st, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{Users: 2, Items: 1, Rentals: 1, ItemReviews: 1, RenterReviews: 0}, *st)
}

func TestListings(t *testing.T) {
	svc := seed(t)
	ctx := context.Background()

	rentals, total, err := svc.Rentals(ctx, repository.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rentals, 1)
	require.NotNil(t, rentals[0].User)
	assert.Equal(t, "renter", rentals[0].User.Username)

	reviews, _, err := svc.ItemReviews(ctx, repository.Page{})
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	renterReviews, total, err := svc.RenterReviews(ctx, repository.Page{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, renterReviews)
}

func TestHandler_PaginatedList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := seed(t)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/admin"))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/users?page=1&limit=1", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Success bool              `json:"success"`
		Data    []json.RawMessage `json:"data"`
		Meta    struct {
			Total      int64 `json:"total"`
			TotalPages int   `json:"total_pages"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Len(t, body.Data, 1)
	assert.Equal(t, int64(2), body.Meta.Total)
	assert.Equal(t, 2, body.Meta.TotalPages)
	assert.NotContains(t, rr.Body.String(), "passwordHash")
}
