package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/motohunt/motohunt-api/internal/database"
	"github.com/motohunt/motohunt-api/internal/model"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db, database.DriverSQLite))
	return db
}

// fixedClock returns a clock that advances by one second on every call.
func fixedClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		t := next
		next = next.Add(time.Second)
		return t
	}
}

type catalogFixture struct {
	brandID  int64
	bikeID   int64
	dealerID int64
}

func seedCatalog(t *testing.T, db *sql.DB) catalogFixture {
	t.Helper()
	ctx := context.Background()
	cat := NewCatalogRepo(db)
	brandID, err := cat.CreateBrand(ctx, model.Brand{Name: "Royal Enfield", CountryOfOrigin: "India"})
	require.NoError(t, err)
	bikeID, err := cat.CreateBike(ctx, model.Bike{
		BrandID: brandID, ModelName: "Classic 350", Type: "Cruiser",
		EngineCC: 349, PriceOnRoad: 220000, IsTrending: 1,
	})
	require.NoError(t, err)
	dealerID, err := NewDealerRepo(db).Create(ctx, model.Dealer{
		Name: "Speed Motors", City: "Pune", LocationArea: "Baner", ContactNumber: "020-5555",
	})
	require.NoError(t, err)
	return catalogFixture{brandID: brandID, bikeID: bikeID, dealerID: dealerID}
}
