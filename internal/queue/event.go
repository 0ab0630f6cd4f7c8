// Package queue carries test ride lifecycle events over RabbitMQ: a
// publisher used by the booking service and a background consumer that
// appends every event to a log file.
package queue

import (
	"fmt"
	"time"
)

// Event types published for test ride bookings.
const (
	EventTestRideBooked    = "test_ride.booked"
	EventTestRideCancelled = "test_ride.cancelled"
	EventTestRideConfirmed = "test_ride.confirmed"
)

// TestRideEvent is published after a booking changes state.  It contains
// enough information for consumers to log or notify without querying the
// primary database.
type TestRideEvent struct {
	Type        string    `json:"type"`
	BookingID   int64     `json:"booking_id"`
	UserID      int64     `json:"user_id"`
	BikeID      int64     `json:"bike_id"`
	DealerID    int64     `json:"dealer_id"`
	BookingDate string    `json:"booking_date"`
	Status      string    `json:"status"`
	ActorID     int64     `json:"actor_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// LogLine renders the event as a single human-friendly line.
func (e TestRideEvent) LogLine() string {
	return fmt.Sprintf("[%s] %s | booking_id=%d | user_id=%d | bike_id=%d | dealer_id=%d | date=%s | status=%s | actor_id=%d\n",
		e.OccurredAt.UTC().Format(time.RFC3339), e.Type, e.BookingID, e.UserID, e.BikeID, e.DealerID,
		e.BookingDate, e.Status, e.ActorID)
}
