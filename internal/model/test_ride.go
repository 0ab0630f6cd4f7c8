package model

import (
	"fmt"
	"time"
)

// TestRideStatus is the lifecycle state of a booking.
//
//	Pending   -> Confirmed (admin)
//	Pending   -> Cancelled (owner or admin)
//	Confirmed -> Cancelled (owner or admin)
//
// Cancel only refuses a booking that is already Cancelled, so a confirmed
// ride can still be called off.  Cancelled is terminal.
type TestRideStatus string

const (
	TestRidePending   TestRideStatus = "Pending"
	TestRideConfirmed TestRideStatus = "Confirmed"
	TestRideCancelled TestRideStatus = "Cancelled"
)

// ParseTestRideStatus validates a stored status string.
func ParseTestRideStatus(s string) (TestRideStatus, error) {
	switch TestRideStatus(s) {
	case TestRidePending, TestRideConfirmed, TestRideCancelled:
		return TestRideStatus(s), nil
	}
	return "", fmt.Errorf("unknown test ride status %q", s)
}

// BookingDateLayout is the only accepted form of booking_date.
const BookingDateLayout = "2006-01-02"

// TestRide records a user's request to ride a bike at a dealer.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – booker; never changes after creation.
//  BikeID      – bike to ride.
//  DealerID    – dealer picked by the system.
//  BookingDate – requested day, YYYY-MM-DD.
//  Status      – Pending, Confirmed or Cancelled.
//  CreatedAt   – creation timestamp.
type TestRide struct {
	ID          int64          `json:"id"`
	UserID      int64          `json:"user_id"`
	BikeID      int64          `json:"bike_id"`
	DealerID    int64          `json:"dealer_id"`
	BookingDate string         `json:"booking_date"`
	Status      TestRideStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
}

// BookingDetail is a TestRide joined with the bike, brand and dealer
// display fields used by booking lists.
type BookingDetail struct {
	TestRide
	ModelName     string `json:"model_name"`
	BikeImage     string `json:"bike_image"`
	BrandName     string `json:"brand_name"`
	DealerName    string `json:"dealer_name"`
	City          string `json:"city"`
	LocationArea  string `json:"location_area"`
	ContactNumber string `json:"contact_number"`
}
