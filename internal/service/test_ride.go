package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/motohunt/motohunt-api/internal/apperror"
	"github.com/motohunt/motohunt-api/internal/logging"
	"github.com/motohunt/motohunt-api/internal/model"
	"github.com/motohunt/motohunt-api/internal/queue"
	"github.com/motohunt/motohunt-api/internal/repository"
)

// TestRideStore persists bookings.
type TestRideStore interface {
	Create(ctx context.Context, userID, bikeID, dealerID int64, bookingDate string, status model.TestRideStatus) (model.TestRide, error)
	GetByID(ctx context.Context, id int64) (model.TestRide, error)
	UpdateStatus(ctx context.Context, id int64, from, to model.TestRideStatus) error
	ListByUser(ctx context.Context, userID int64) ([]model.BookingDetail, error)
	ListAll(ctx context.Context) ([]model.BookingDetail, error)
}

// DealerDirectory lists the dealers a booking can be assigned to.
type DealerDirectory interface {
	ListIDs(ctx context.Context) ([]int64, error)
}

// BikeChecker confirms a bike exists before it is booked.
type BikeChecker interface {
	BikeExists(ctx context.Context, id int64) (bool, error)
}

// EventPublisher receives lifecycle events.  Failures are logged by the
// service and never fail the request.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.TestRideEvent) error
}

// Requester is the authenticated caller of a booking operation.
type Requester struct {
	ID   int64
	Role model.Role
}

// IsAdmin reports whether the caller may act on any booking.
func (r Requester) IsAdmin() bool { return r.Role == model.RoleAdmin }

func (r Requester) owns(userID int64) bool { return r.IsAdmin() || r.ID == userID }

// CreateBookingInput is the booking form.
type CreateBookingInput struct {
	BikeID      int64
	BookingDate string
}

// BookingService drives the test ride lifecycle.
type BookingService struct {
	rides     TestRideStore
	dealers   DealerDirectory
	bikes     BikeChecker
	publisher EventPublisher
	recorder  Recorder
	log       logrus.FieldLogger

	// pick returns a uniform index in [0,n).
	pick func(n int) int
	now  func() time.Time
}

// BookingOption customises a BookingService.
type BookingOption func(*BookingService)

// WithPublisher sets the event publisher.
func WithPublisher(p EventPublisher) BookingOption {
	return func(s *BookingService) { s.publisher = p }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) BookingOption {
	return func(s *BookingService) { s.recorder = r }
}

// WithDealerPicker replaces the uniform random dealer choice.
func WithDealerPicker(pick func(n int) int) BookingOption {
	return func(s *BookingService) { s.pick = pick }
}

// NewBookingService wires the booking flows.
func NewBookingService(rides TestRideStore, dealers DealerDirectory, bikes BikeChecker, log logrus.FieldLogger, opts ...BookingOption) *BookingService {
	s := &BookingService{
		rides:     rides,
		dealers:   dealers,
		bikes:     bikes,
		publisher: nopPublisher{},
		recorder:  nopRecorder{},
		log:       log,
		pick:      rand.Intn,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create books a test ride for userID at a randomly chosen dealer.
func (s *BookingService) Create(ctx context.Context, userID int64, in CreateBookingInput) (model.TestRide, error) {
	if in.BikeID <= 0 || in.BookingDate == "" {
		return model.TestRide{}, apperror.NewValidation("Bike ID and booking date are required")
	}
	if _, err := time.Parse(model.BookingDateLayout, in.BookingDate); err != nil {
		return model.TestRide{}, apperror.NewValidation("Booking date must be in YYYY-MM-DD format")
	}

	ok, err := s.bikes.BikeExists(ctx, in.BikeID)
	if err != nil {
		return model.TestRide{}, apperror.NewInternal(fmt.Errorf("check bike: %w", err))
	}
	if !ok {
		return model.TestRide{}, apperror.NewNotFound("Bike not found")
	}

	ids, err := s.dealers.ListIDs(ctx)
	if err != nil {
		return model.TestRide{}, apperror.NewInternal(fmt.Errorf("list dealers: %w", err))
	}
	if len(ids) == 0 {
		return model.TestRide{}, apperror.NewNoDealers()
	}
	dealerID := ids[s.pick(len(ids))]

	ride, err := s.rides.Create(ctx, userID, in.BikeID, dealerID, in.BookingDate, model.TestRidePending)
	if err != nil {
		return model.TestRide{}, apperror.NewInternal(fmt.Errorf("create test ride: %w", err))
	}
	s.emit(ctx, queue.EventTestRideBooked, ride, userID)
	return ride, nil
}

// ListForUser returns targetUserID's bookings, most recent first.  Only the
// owner or an admin may list them.
func (s *BookingService) ListForUser(ctx context.Context, req Requester, targetUserID int64) ([]model.BookingDetail, error) {
	if !req.owns(targetUserID) {
		return nil, apperror.NewForbidden("Access denied")
	}
	list, err := s.rides.ListByUser(ctx, targetUserID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("list test rides for %d: %w", targetUserID, err))
	}
	return list, nil
}

// ListAll returns every booking.  Admin only.
func (s *BookingService) ListAll(ctx context.Context, req Requester) ([]model.BookingDetail, error) {
	if !req.IsAdmin() {
		return nil, apperror.NewForbidden("Insufficient privilege")
	}
	list, err := s.rides.ListAll(ctx)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("list test rides: %w", err))
	}
	return list, nil
}

// Cancel moves a booking to Cancelled.  Cancelling twice fails with
// already_cancelled rather than succeeding silently.
func (s *BookingService) Cancel(ctx context.Context, req Requester, bookingID int64) error {
	ride, err := s.load(ctx, bookingID)
	if err != nil {
		return err
	}
	if !req.owns(ride.UserID) {
		return apperror.NewForbidden("Access denied")
	}
	if ride.Status == model.TestRideCancelled {
		return apperror.NewAlreadyCancelled()
	}
	if err := s.transition(ctx, ride, model.TestRideCancelled); err != nil {
		return err
	}
	ride.Status = model.TestRideCancelled
	s.emit(ctx, queue.EventTestRideCancelled, ride, req.ID)
	return nil
}

// Confirm moves a Pending booking to Confirmed.  Admin only.
func (s *BookingService) Confirm(ctx context.Context, req Requester, bookingID int64) error {
	if !req.IsAdmin() {
		return apperror.NewForbidden("Insufficient privilege")
	}
	ride, err := s.load(ctx, bookingID)
	if err != nil {
		return err
	}
	switch ride.Status {
	case model.TestRideCancelled:
		return apperror.NewAlreadyCancelled()
	case model.TestRideConfirmed:
		return apperror.NewInvalidTransition("Booking is already confirmed")
	}
	if err := s.transition(ctx, ride, model.TestRideConfirmed); err != nil {
		return err
	}
	ride.Status = model.TestRideConfirmed
	s.emit(ctx, queue.EventTestRideConfirmed, ride, req.ID)
	return nil
}

func (s *BookingService) load(ctx context.Context, id int64) (model.TestRide, error) {
	ride, err := s.rides.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.TestRide{}, apperror.NewNotFound("Booking not found")
	}
	if err != nil {
		return model.TestRide{}, apperror.NewInternal(fmt.Errorf("get test ride %d: %w", id, err))
	}
	return ride, nil
}

// transition applies a conditional status update.  When another request
// changed the row first, the fresh status decides the error.
func (s *BookingService) transition(ctx context.Context, ride model.TestRide, to model.TestRideStatus) error {
	err := s.rides.UpdateStatus(ctx, ride.ID, ride.Status, to)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrStatusConflict) {
		return apperror.NewInternal(fmt.Errorf("update test ride %d: %w", ride.ID, err))
	}
	fresh, err := s.load(ctx, ride.ID)
	if err != nil {
		return err
	}
	if fresh.Status == model.TestRideCancelled {
		return apperror.NewAlreadyCancelled()
	}
	return apperror.NewInvalidTransition(fmt.Sprintf("Booking is now %s", fresh.Status))
}

func (s *BookingService) emit(ctx context.Context, typ string, ride model.TestRide, actorID int64) {
	s.recorder.BookingTransition(typ)
	ev := queue.TestRideEvent{
		Type:        typ,
		BookingID:   ride.ID,
		UserID:      ride.UserID,
		BikeID:      ride.BikeID,
		DealerID:    ride.DealerID,
		BookingDate: ride.BookingDate,
		Status:      string(ride.Status),
		ActorID:     actorID,
		OccurredAt:  s.now().UTC(),
	}
	log := logging.WithUserID(s.log, ride.UserID).WithFields(logrus.Fields{"event": typ, "booking_id": ride.ID})
	if err := s.publisher.Publish(ctx, ev); err != nil {
		log.WithError(err).Warn("queue test ride event failed")
		return
	}
	log.Info("test ride event queued")
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, queue.TestRideEvent) error { return nil }
