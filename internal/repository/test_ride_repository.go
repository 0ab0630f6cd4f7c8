package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/motohunt/motohunt-api/internal/model"
)

// TestRideRepo stores test ride bookings.  All timestamps are UTC.
type TestRideRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewTestRideRepo returns a TestRideRepo bound to db.
func NewTestRideRepo(db *sql.DB) *TestRideRepo { return &TestRideRepo{db: db, now: utcNow} }

const testRideColumns = "id, user_id, bike_id, dealer_id, booking_date, status, created_at"

// Create inserts a booking and reads the stored row back inside the same
// transaction, so the returned record carries the generated id and
// timestamp.
func (r *TestRideRepo) Create(ctx context.Context, userID, bikeID, dealerID int64, bookingDate string, status model.TestRideStatus) (model.TestRide, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.TestRide{}, fmt.Errorf("begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO test_rides (user_id, bike_id, dealer_id, booking_date, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userID, bikeID, dealerID, bookingDate, string(status), r.now())
	if err != nil {
		return model.TestRide{}, fmt.Errorf("insert test ride: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.TestRide{}, err
	}
	ride, err := scanTestRide(tx.QueryRowContext(ctx,
		"SELECT "+testRideColumns+" FROM test_rides WHERE id = ?", id))
	if err != nil {
		return model.TestRide{}, fmt.Errorf("read back test ride %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return model.TestRide{}, fmt.Errorf("commit: %w", err)
	}
	committed = true
	return ride, nil
}

// GetByID fetches a booking.  ErrNotFound when it does not exist.
func (r *TestRideRepo) GetByID(ctx context.Context, id int64) (model.TestRide, error) {
	return scanTestRide(r.db.QueryRowContext(ctx,
		"SELECT "+testRideColumns+" FROM test_rides WHERE id = ?", id))
}

// UpdateStatus moves a booking from one status to another with a single
// conditional statement.  ErrStatusConflict is returned when the row is
// missing or no longer in status from.
func (r *TestRideRepo) UpdateStatus(ctx context.Context, id int64, from, to model.TestRideStatus) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE test_rides SET status = ? WHERE id = ? AND status = ?",
		string(to), id, string(from))
	if err != nil {
		return fmt.Errorf("update test ride %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStatusConflict
	}
	return nil
}

const bookingDetailSelect = `SELECT tr.id, tr.user_id, tr.bike_id, tr.dealer_id, tr.booking_date, tr.status, tr.created_at,
       b.model_name, b.image_url, br.name, d.name, d.city, d.location_area, d.contact_number
FROM test_rides tr
JOIN bikes b ON b.id = tr.bike_id
JOIN brands br ON br.id = b.brand_id
JOIN dealers d ON d.id = tr.dealer_id`

// ListByUser returns the user's bookings with display fields, most recent
// first.  Rows created in the same instant fall back to id order.
func (r *TestRideRepo) ListByUser(ctx context.Context, userID int64) ([]model.BookingDetail, error) {
	return r.queryDetails(ctx,
		bookingDetailSelect+"\nWHERE tr.user_id = ?\nORDER BY tr.created_at DESC, tr.id DESC", userID)
}

// ListAll returns every booking, most recent first.
func (r *TestRideRepo) ListAll(ctx context.Context) ([]model.BookingDetail, error) {
	return r.queryDetails(ctx, bookingDetailSelect+"\nORDER BY tr.created_at DESC, tr.id DESC")
}

func (r *TestRideRepo) queryDetails(ctx context.Context, q string, args ...any) ([]model.BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list test rides: %w", err)
	}
	defer rows.Close()
	out := []model.BookingDetail{}
	for rows.Next() {
		var d model.BookingDetail
		var status string
		if err := rows.Scan(&d.ID, &d.UserID, &d.BikeID, &d.DealerID, &d.BookingDate, &status, &d.CreatedAt,
			&d.ModelName, &d.BikeImage, &d.BrandName, &d.DealerName, &d.City, &d.LocationArea, &d.ContactNumber); err != nil {
			return nil, err
		}
		if d.Status, err = model.ParseTestRideStatus(status); err != nil {
			return nil, fmt.Errorf("test ride %d: %w", d.ID, err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTestRide(row rowScanner) (model.TestRide, error) {
	var t model.TestRide
	var status string
	err := row.Scan(&t.ID, &t.UserID, &t.BikeID, &t.DealerID, &t.BookingDate, &status, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TestRide{}, ErrNotFound
	}
	if err != nil {
		return model.TestRide{}, fmt.Errorf("scan test ride: %w", err)
	}
	if t.Status, err = model.ParseTestRideStatus(status); err != nil {
		return model.TestRide{}, fmt.Errorf("test ride %d: %w", t.ID, err)
	}
	return t, nil
}
