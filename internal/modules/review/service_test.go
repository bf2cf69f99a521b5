package review

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rentmarket/internal/database"
	"rentmarket/internal/domain"
	"rentmarket/internal/modules/notification"
	"rentmarket/internal/modules/score"
	"rentmarket/internal/pkg/apperr"
	"rentmarket/internal/repository"
)

type published struct {
	userID    int64
	eventType string
}

type recorder struct {
	mu     sync.Mutex
	events []published
}

func (r *recorder) Publish(userID int64, eventType string, _ any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{userID, eventType})
	return true
}

type env struct {
	db     *gorm.DB
	svc    *Service
	events *recorder
	owner  *domain.User
	renter *domain.User
	item   *domain.Item
	rental *domain.Rental
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := database.OpenTest(t)

	e := &env{db: db, events: &recorder{}}
	e.owner = mkUser(t, db, "owner", domain.RoleOwner)
	e.renter = mkUser(t, db, "renter", domain.RoleRenter)
	e.item = &domain.Item{Title: "Camera", Slug: "camera", Description: "dslr", Price: 25, Category: "electronics", IsAvailable: true, OwnerID: e.owner.ID}
	require.NoError(t, db.Create(e.item).Error)
	e.rental = mkRental(t, db, e.renter.ID, e.item.ID)

	e.svc = NewService(db, score.NewAccumulator(db), e.events)
	return e
}

func mkUser(t *testing.T, db *gorm.DB, name string, role domain.UserRole) *domain.User {
	t.Helper()
	u := &domain.User{Username: name, Email: name + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(u).Error)
	return u
}

func mkRental(t *testing.T, db *gorm.DB, renterID, itemID int64) *domain.Rental {
	t.Helper()
	now := time.Now().UTC()
	r := &domain.Rental{UserID: renterID, ItemID: itemID, StartDate: now, EndDate: now.AddDate(0, 0, 2), Days: 2, TotalCost: 50}
	require.NoError(t, db.Create(r).Error)
	return r
}

func intPtr(v int) *int { return &v }

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestSubmitItemReview_CreateThenUpdate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.svc.SubmitItemReview(ctx, e.renter.ID, SubmitItemReviewRequest{RentalID: e.rental.ID, Rating: 5, Comment: "great"})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, 5.0, res.AverageRating)
	createdAt := res.Review.CreatedAt

	// a second rental of the same item still targets the same review row
	second := mkRental(t, e.db, e.renter.ID, e.item.ID)
	res, err = e.svc.SubmitItemReview(ctx, e.renter.ID, SubmitItemReviewRequest{RentalID: second.ID, Rating: 3, Comment: "  ok  "})
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, 3.0, res.AverageRating)
	assert.Equal(t, "ok", res.Review.Comment)

	assert.Equal(t, int64(1), count(t, e.db, &domain.ItemReview{}))

	var stored domain.ItemReview
	require.NoError(t, e.db.First(&stored).Error)
	assert.True(t, createdAt.Equal(stored.CreatedAt))
	assert.Equal(t, 3, stored.Rating)
	require.NotNil(t, stored.RentalID)
	assert.Equal(t, second.ID, *stored.RentalID)

	var item domain.Item
	require.NoError(t, e.db.First(&item, e.item.ID).Error)
	assert.Equal(t, 3.0, item.AverageRating)
	assert.Equal(t, int64(1), item.ReviewCount)

	require.Len(t, e.events.events, 2)
	assert.Equal(t, published{e.owner.ID, notification.EventItemReviewSaved}, e.events.events[0])
}

// hideFirstLookup makes the first SELECT on table return no rows, so the service
// believes the pair is unreviewed and has to recover from the unique index.
func hideFirstLookup(t *testing.T, db *gorm.DB, table string) {
	t.Helper()
	var once sync.Once
	err := db.Callback().Query().Before("gorm:query").Register("test:hide_first_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table != table {
			return
		}
		once.Do(func() {
			tx.Statement.AddClause(clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "1 = 0"}}})
		})
	})
	require.NoError(t, err)
}

func TestSubmitItemReview_InsertRaceBecomesUpdate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	rival := &domain.ItemReview{RenterID: e.renter.ID, ItemID: e.item.ID, Rating: 1, Comment: "written concurrently"}
	require.NoError(t, e.db.Create(rival).Error)
	hideFirstLookup(t, e.db, "item_reviews")

	res, err := e.svc.SubmitItemReview(ctx, e.renter.ID, SubmitItemReviewRequest{RentalID: e.rental.ID, Rating: 5, Comment: "great"})
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, rival.ID, res.Review.ID)
	assert.Equal(t, 5.0, res.AverageRating)

	assert.Equal(t, int64(1), count(t, e.db, &domain.ItemReview{}))
	var stored domain.ItemReview
	require.NoError(t, e.db.First(&stored, rival.ID).Error)
	assert.Equal(t, 5, stored.Rating)
	assert.Equal(t, "great", stored.Comment)

	var item domain.Item
	require.NoError(t, e.db.First(&item, e.item.ID).Error)
	assert.Equal(t, 5.0, item.AverageRating)
}

func TestSubmitRenterReview_InsertRaceBecomesUpdate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	rival := &domain.RenterReview{RenterID: e.renter.ID, OwnerID: e.owner.ID, TrustScore: 10, Comment: "written concurrently"}
	require.NoError(t, e.db.Create(rival).Error)
	hideFirstLookup(t, e.db, "renter_reviews")

	res, err := e.svc.SubmitRenterReview(ctx, e.owner.ID, SubmitRenterReviewRequest{RentalID: e.rental.ID, TrustScore: intPtr(90), Comment: "careful"})
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, rival.ID, res.Review.ID)
	assert.Equal(t, 90.0, res.TrustScore)

	assert.Equal(t, int64(1), count(t, e.db, &domain.RenterReview{}))
	var stored domain.RenterReview
	require.NoError(t, e.db.First(&stored, rival.ID).Error)
	assert.Equal(t, 90, stored.TrustScore)

	var renter domain.User
	require.NoError(t, e.db.First(&renter, e.renter.ID).Error)
	require.NotNil(t, renter.TrustScore)
	assert.Equal(t, 90.0, *renter.TrustScore)
}

func TestSubmitItemReview_ByItemIDUsesCallersRental(t *testing.T) {
	e := newEnv(t)
	res, err := e.svc.SubmitItemReview(context.Background(), e.renter.ID, SubmitItemReviewRequest{ItemID: e.item.ID, Rating: 4, Comment: "nice"})
	require.NoError(t, err)
	assert.True(t, res.Created)
	require.NotNil(t, res.Review.RentalID)
	assert.Equal(t, e.rental.ID, *res.Review.RentalID)
}

func TestSubmitItemReview_AverageAcrossRenters(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	other := mkUser(t, e.db, "other", domain.RoleRenter)
	otherRental := mkRental(t, e.db, other.ID, e.item.ID)

	_, err := e.svc.SubmitItemReview(ctx, e.renter.ID, SubmitItemReviewRequest{RentalID: e.rental.ID, Rating: 5, Comment: "a"})
	require.NoError(t, err)
	res, err := e.svc.SubmitItemReview(ctx, other.ID, SubmitItemReviewRequest{RentalID: otherRental.ID, Rating: 2, Comment: "b"})
	require.NoError(t, err)
	assert.Equal(t, 3.5, res.AverageRating)
}

func TestSubmitItemReview_ValidationBeforeStore(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	cases := []struct {
		req   SubmitItemReviewRequest
		field string
	}{
		{SubmitItemReviewRequest{RentalID: e.rental.ID, Rating: 6, Comment: "x"}, "rating"},
		{SubmitItemReviewRequest{RentalID: e.rental.ID, Rating: 0, Comment: "x"}, "rating"},
		{SubmitItemReviewRequest{RentalID: e.rental.ID, Rating: 3, Comment: "   "}, "comment"},
		{SubmitItemReviewRequest{Rating: 3, Comment: "x"}, "rentalId"},
	}
	for _, tc := range cases {
		_, err := e.svc.SubmitItemReview(ctx, e.renter.ID, tc.req)
		var ve *apperr.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, tc.field, ve.Field)
	}
	assert.Zero(t, count(t, e.db, &domain.ItemReview{}))
	assert.Empty(t, e.events.events)
}

func TestSubmitItemReview_RejectsForeignRental(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	stranger := mkUser(t, e.db, "stranger", domain.RoleRenter)

	_, err := e.svc.SubmitItemReview(ctx, stranger.ID, SubmitItemReviewRequest{RentalID: e.rental.ID, Rating: 1, Comment: "x"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = e.svc.SubmitItemReview(ctx, stranger.ID, SubmitItemReviewRequest{ItemID: e.item.ID, Rating: 1, Comment: "x"})
	assert.ErrorIs(t, err, ErrNotRenter)

	_, err = e.svc.SubmitItemReview(ctx, e.renter.ID, SubmitItemReviewRequest{RentalID: 999, Rating: 1, Comment: "x"})
	assert.True(t, apperr.IsNotFound(err))

	assert.Zero(t, count(t, e.db, &domain.ItemReview{}))
}

func TestSubmitRenterReview_ValidationBeforeStore(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.SubmitRenterReview(ctx, e.owner.ID, SubmitRenterReviewRequest{RentalID: e.rental.ID, TrustScore: intPtr(150), Comment: "x"})
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "trustScore", ve.Field)

	_, err = e.svc.SubmitRenterReview(ctx, e.owner.ID, SubmitRenterReviewRequest{RentalID: e.rental.ID, Comment: "x"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "trustScore", ve.Field)

	assert.Zero(t, count(t, e.db, &domain.RenterReview{}))

	var u domain.User
	require.NoError(t, e.db.First(&u, e.renter.ID).Error)
	assert.Nil(t, u.TrustScore)
}

func TestSubmitRenterReview_ZeroIsAValidScore(t *testing.T) {
	e := newEnv(t)
	res, err := e.svc.SubmitRenterReview(context.Background(), e.owner.ID, SubmitRenterReviewRequest{RentalID: e.rental.ID, TrustScore: intPtr(0), Comment: "no show"})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, 0.0, res.TrustScore)
}

// Resubmission by the same owner replaces the row; the cached score is not blended.
func TestSubmitRenterReview_SameOwnerRecomputesFromScratch(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.svc.SubmitRenterReview(ctx, e.owner.ID, SubmitRenterReviewRequest{RentalID: e.rental.ID, TrustScore: intPtr(80), Comment: "good"})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, 80.0, res.TrustScore)

	res, err = e.svc.SubmitRenterReview(ctx, e.owner.ID, SubmitRenterReviewRequest{RenterID: e.renter.ID, ItemID: e.item.ID, TrustScore: intPtr(40), Comment: "late"})
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, 40.0, res.TrustScore)
	assert.Equal(t, int64(1), count(t, e.db, &domain.RenterReview{}))

	require.NotEmpty(t, e.events.events)
	assert.Equal(t, published{e.renter.ID, notification.EventTrustScoreUpdated}, e.events.events[len(e.events.events)-1])
}

func TestSubmitRenterReview_MeanAcrossOwners(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	owner2 := mkUser(t, e.db, "owner2", domain.RoleOwner)
	item2 := &domain.Item{Title: "Tent", Slug: "tent", Description: "2p", Price: 10, Category: "outdoor", IsAvailable: true, OwnerID: owner2.ID}
	require.NoError(t, e.db.Create(item2).Error)
	rental2 := mkRental(t, e.db, e.renter.ID, item2.ID)

	_, err := e.svc.SubmitRenterReview(ctx, e.owner.ID, SubmitRenterReviewRequest{RentalID: e.rental.ID, TrustScore: intPtr(80), Comment: "a"})
	require.NoError(t, err)
	res, err := e.svc.SubmitRenterReview(ctx, owner2.ID, SubmitRenterReviewRequest{RentalID: rental2.ID, TrustScore: intPtr(40), Comment: "b"})
	require.NoError(t, err)
	assert.Equal(t, 60.0, res.TrustScore)

	var u domain.User
	require.NoError(t, e.db.First(&u, e.renter.ID).Error)
	require.NotNil(t, u.TrustScore)
	assert.Equal(t, 60.0, *u.TrustScore)
}

func TestSubmitRenterReview_OnlyItemOwner(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	other := mkUser(t, e.db, "other-owner", domain.RoleOwner)

	_, err := e.svc.SubmitRenterReview(ctx, other.ID, SubmitRenterReviewRequest{RentalID: e.rental.ID, TrustScore: intPtr(50), Comment: "x"})
	assert.ErrorIs(t, err, ErrNotItemOwner)

	_, err = e.svc.SubmitRenterReview(ctx, other.ID, SubmitRenterReviewRequest{RenterID: e.renter.ID, ItemID: e.item.ID, TrustScore: intPtr(50), Comment: "x"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	stranger := mkUser(t, e.db, "stranger", domain.RoleRenter)
	_, err = e.svc.SubmitRenterReview(ctx, e.owner.ID, SubmitRenterReviewRequest{RenterID: stranger.ID, ItemID: e.item.ID, TrustScore: intPtr(50), Comment: "x"})
	assert.True(t, apperr.IsNotFound(err))
}

func TestGetReviews(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.GetItemReview(ctx, e.renter.ID, e.rental.ID, 0)
	assert.True(t, apperr.IsNotFound(err))

	_, err = e.svc.SubmitItemReview(ctx, e.renter.ID, SubmitItemReviewRequest{RentalID: e.rental.ID, Rating: 4, Comment: "ok"})
	require.NoError(t, err)
	_, err = e.svc.SubmitRenterReview(ctx, e.owner.ID, SubmitRenterReviewRequest{RentalID: e.rental.ID, TrustScore: intPtr(90), Comment: "ok"})
	require.NoError(t, err)

	rv, err := e.svc.GetItemReview(ctx, e.renter.ID, 0, e.item.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, rv.Rating)

	rr, err := e.svc.GetRenterReview(ctx, e.owner.ID, e.rental.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 90, rr.TrustScore)

	rr, err = e.svc.GetRenterReview(ctx, e.owner.ID, 0, e.renter.ID)
	require.NoError(t, err)
	assert.Equal(t, 90, rr.TrustScore)

	list, total, err := e.svc.ListItemReviews(ctx, e.item.ID, repositoryPage())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Renter)
	assert.Equal(t, "renter", list[0].Renter.Username)

	_, _, err = e.svc.ListRenterReviews(ctx, 999, repositoryPage())
	assert.True(t, apperr.IsNotFound(err))
}

func repositoryPage() repository.Page { return repository.Page{Limit: 10} }
