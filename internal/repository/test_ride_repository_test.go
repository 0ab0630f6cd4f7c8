package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motohunt/motohunt-api/internal/model"
)

func TestTestRideCreateReadsBackRow(t *testing.T) {
	db := newTestDB(t)
	fx := seedCatalog(t, db)
	ctx := context.Background()
	userID, err := NewUserRepo(db).Create(ctx, "asha", "asha@example.com", "hash", model.RoleCustomer)
	require.NoError(t, err)

	repo := NewTestRideRepo(db)
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.now = fixedClock(start)

	ride, err := repo.Create(ctx, userID, fx.bikeID, fx.dealerID, "2026-03-15", model.TestRidePending)
	require.NoError(t, err)
	assert.Positive(t, ride.ID)
	assert.Equal(t, userID, ride.UserID)
	assert.Equal(t, fx.dealerID, ride.DealerID)
	assert.Equal(t, "2026-03-15", ride.BookingDate)
	assert.Equal(t, model.TestRidePending, ride.Status)
	assert.True(t, start.Equal(ride.CreatedAt), "created_at %s", ride.CreatedAt)

	got, err := repo.GetByID(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, ride.ID, got.ID)
	assert.Equal(t, ride.Status, got.Status)
}

func TestTestRideListByUserMostRecentFirst(t *testing.T) {
	db := newTestDB(t)
	fx := seedCatalog(t, db)
	ctx := context.Background()
	users := NewUserRepo(db)
	alice, err := users.Create(ctx, "alice", "alice@example.com", "hash", model.RoleCustomer)
	require.NoError(t, err)
	bob, err := users.Create(ctx, "bob", "bob@example.com", "hash", model.RoleCustomer)
	require.NoError(t, err)

	repo := NewTestRideRepo(db)
	repo.now = fixedClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

	var created []int64
	for _, day := range []string{"2026-03-10", "2026-03-11", "2026-03-12"} {
		r, err := repo.Create(ctx, alice, fx.bikeID, fx.dealerID, day, model.TestRidePending)
		require.NoError(t, err)
		created = append(created, r.ID)
	}
	_, err = repo.Create(ctx, bob, fx.bikeID, fx.dealerID, "2026-03-13", model.TestRidePending)
	require.NoError(t, err)

	list, err := repo.ListByUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{created[2], created[1], created[0]},
		[]int64{list[0].ID, list[1].ID, list[2].ID})

	first := list[0]
	assert.Equal(t, "Classic 350", first.ModelName)
	assert.Equal(t, "Royal Enfield", first.BrandName)
	assert.Equal(t, "Speed Motors", first.DealerName)
	assert.Equal(t, "Pune", first.City)
	assert.Equal(t, "Baner", first.LocationArea)
	assert.Equal(t, "020-5555", first.ContactNumber)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, bob, all[0].UserID)
}

func TestTestRideSameInstantFallsBackToID(t *testing.T) {
	db := newTestDB(t)
	fx := seedCatalog(t, db)
	ctx := context.Background()
	uid, err := NewUserRepo(db).Create(ctx, "asha", "asha@example.com", "hash", model.RoleCustomer)
	require.NoError(t, err)

	repo := NewTestRideRepo(db)
	frozen := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return frozen }

	a, err := repo.Create(ctx, uid, fx.bikeID, fx.dealerID, "2026-03-10", model.TestRidePending)
	require.NoError(t, err)
	b, err := repo.Create(ctx, uid, fx.bikeID, fx.dealerID, "2026-03-10", model.TestRidePending)
	require.NoError(t, err)

	list, err := repo.ListByUser(ctx, uid)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)
}

func TestTestRideUpdateStatusIsConditional(t *testing.T) {
	db := newTestDB(t)
	fx := seedCatalog(t, db)
	ctx := context.Background()
	uid, err := NewUserRepo(db).Create(ctx, "asha", "asha@example.com", "hash", model.RoleCustomer)
	require.NoError(t, err)
	repo := NewTestRideRepo(db)

	ride, err := repo.Create(ctx, uid, fx.bikeID, fx.dealerID, "2026-03-10", model.TestRidePending)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, ride.ID, model.TestRidePending, model.TestRideCancelled))
	got, err := repo.GetByID(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TestRideCancelled, got.Status)

	err = repo.UpdateStatus(ctx, ride.ID, model.TestRidePending, model.TestRideCancelled)
	require.ErrorIs(t, err, ErrStatusConflict)

	err = repo.UpdateStatus(ctx, 999, model.TestRidePending, model.TestRideCancelled)
	require.ErrorIs(t, err, ErrStatusConflict)

	_, err = repo.GetByID(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)
}
