package score

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"rentmarket/internal/database"
	"rentmarket/internal/domain"
	"rentmarket/internal/pkg/apperr"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 5.0, Mean([]int{5}))
	assert.InDelta(t, 3.6666666, Mean([]int{5, 4, 2}), 1e-6)
}

func TestRoundTrust(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{60, 60},
		{72.5, 73},
		{72.49, 72},
		{99.5, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundTrust(tt.in), "in=%v", tt.in)
	}
}

type fixture struct {
	db     *gorm.DB
	owner  *domain.User
	renter *domain.User
	item   *domain.Item
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := database.OpenTest(t)

	owner := &domain.User{Username: "owner", Email: "o@example.com", PasswordHash: "x", Role: domain.RoleOwner}
	renter := &domain.User{Username: "renter", Email: "r@example.com", PasswordHash: "x", Role: domain.RoleRenter}
	require.NoError(t, db.Create(owner).Error)
	require.NoError(t, db.Create(renter).Error)

	item := &domain.Item{Title: "Tent", Slug: "tent", Description: "2p", Price: 10, Category: "outdoor", IsAvailable: true, OwnerID: owner.ID}
	require.NoError(t, db.Create(item).Error)

	return fixture{db: db, owner: owner, renter: renter, item: item}
}

func TestRecomputeItemRating(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	acc := NewAccumulator(f.db)

	avg, err := acc.RecomputeItemRating(ctx, nil, f.item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg)

	other := &domain.User{Username: "other", Email: "x@example.com", PasswordHash: "x", Role: domain.RoleRenter}
	require.NoError(t, f.db.Create(other).Error)
	require.NoError(t, f.db.Create(&domain.ItemReview{RenterID: f.renter.ID, ItemID: f.item.ID, Rating: 5, Comment: "a"}).Error)
	require.NoError(t, f.db.Create(&domain.ItemReview{RenterID: other.ID, ItemID: f.item.ID, Rating: 4, Comment: "b"}).Error)

	avg, err = acc.RecomputeItemRating(ctx, nil, f.item.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, avg)

	var item domain.Item
	require.NoError(t, f.db.First(&item, f.item.ID).Error)
	assert.Equal(t, 4.5, item.AverageRating)
	assert.Equal(t, int64(2), item.ReviewCount)
}

func TestRecomputeTrustScore_FromScratch(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	acc := NewAccumulator(f.db)

	second := &domain.User{Username: "owner2", Email: "o2@example.com", PasswordHash: "x", Role: domain.RoleOwner}
	require.NoError(t, f.db.Create(second).Error)
	require.NoError(t, f.db.Create(&domain.RenterReview{RenterID: f.renter.ID, OwnerID: f.owner.ID, TrustScore: 80, Comment: "a"}).Error)
	require.NoError(t, f.db.Create(&domain.RenterReview{RenterID: f.renter.ID, OwnerID: second.ID, TrustScore: 45, Comment: "b"}).Error)

	trust, err := acc.RecomputeTrustScore(ctx, nil, f.renter.ID)
	require.NoError(t, err)
	assert.Equal(t, 63.0, trust) // round(62.5)

	var u domain.User
	require.NoError(t, f.db.First(&u, f.renter.ID).Error)
	require.NotNil(t, u.TrustScore)
	assert.Equal(t, 63.0, *u.TrustScore)
}

func TestRecomputeTrustScore_NoReviewsIsZero(t *testing.T) {
	f := setup(t)
	trust, err := NewAccumulator(f.db).RecomputeTrustScore(context.Background(), nil, f.renter.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, trust)

	var u domain.User
	require.NoError(t, f.db.First(&u, f.renter.ID).Error)
	require.NotNil(t, u.TrustScore)
	assert.Equal(t, 0.0, *u.TrustScore)
}

func TestRecompute_MissingTarget(t *testing.T) {
	f := setup(t)
	acc := NewAccumulator(f.db)

	_, err := acc.RecomputeItemRating(context.Background(), nil, 9999)
	assert.True(t, apperr.IsNotFound(err))

	_, err = acc.RecomputeTrustScore(context.Background(), nil, 9999)
	assert.True(t, apperr.IsNotFound(err))
}

func TestRecompute_StorageFailure(t *testing.T) {
	f := setup(t)
	sqlDB, err := f.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = NewAccumulator(f.db).RecomputeItemRating(context.Background(), nil, f.item.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsStorage(err))
}
