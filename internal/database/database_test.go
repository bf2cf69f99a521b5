package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rentmarket/internal/domain"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("connection reset")))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: item_reviews.renter_id, item_reviews.item_id (2067)")))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, parseLogLevel("silent"))
	assert.Equal(t, logger.Info, parseLogLevel(" INFO "))
	assert.Equal(t, logger.Warn, parseLogLevel(""))
}

func TestMigrate_EnforcesOneItemReviewPerPair(t *testing.T) {
	db := OpenTest(t)

	first := domain.ItemReview{RenterID: 1, ItemID: 2, Rating: 4, Comment: "ok"}
	require.NoError(t, db.Create(&first).Error)

	dup := domain.ItemReview{RenterID: 1, ItemID: 2, Rating: 5, Comment: "again"}
	err := db.Create(&dup).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestMigrate_EnforcesOneRenterReviewPerPair(t *testing.T) {
	db := OpenTest(t)

	require.NoError(t, db.Create(&domain.RenterReview{RenterID: 3, OwnerID: 4, TrustScore: 80, Comment: "fine"}).Error)
	err := db.Create(&domain.RenterReview{RenterID: 3, OwnerID: 4, TrustScore: 10, Comment: "dup"}).Error
	assert.True(t, IsUniqueViolation(err))

	require.NoError(t, db.Create(&domain.RenterReview{RenterID: 3, OwnerID: 5, TrustScore: 10, Comment: "other owner"}).Error)
}
