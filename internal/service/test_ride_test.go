package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motohunt/motohunt-api/internal/apperror"
	"github.com/motohunt/motohunt-api/internal/logging"
	"github.com/motohunt/motohunt-api/internal/model"
	"github.com/motohunt/motohunt-api/internal/queue"
	"github.com/motohunt/motohunt-api/internal/repository"
)

var (
	alice = Requester{ID: 1, Role: model.RoleCustomer}
	bob   = Requester{ID: 2, Role: model.RoleCustomer}
	admin = Requester{ID: 99, Role: model.RoleAdmin}
)

type bookingFixture struct {
	svc     *BookingService
	rides   *memRideStore
	dealers *mockDealers
	bikes   *mockBikes
	pub     *capturePublisher
	rec     *countingRecorder
}

func newBookingFixture(opts ...BookingOption) *bookingFixture {
	f := &bookingFixture{
		rides:   newMemRideStore(),
		dealers: &mockDealers{ids: []int64{10, 20, 30}},
		bikes:   &mockBikes{},
		pub:     &capturePublisher{},
		rec:     newCountingRecorder(),
	}
	opts = append([]BookingOption{WithPublisher(f.pub), WithRecorder(f.rec)}, opts...)
	f.svc = NewBookingService(f.rides, f.dealers, f.bikes, logging.Discard(), opts...)
	return f
}

func (f *bookingFixture) book(t *testing.T, userID int64) model.TestRide {
	t.Helper()
	ride, err := f.svc.Create(context.Background(), userID, CreateBookingInput{BikeID: 5, BookingDate: "2026-02-14"})
	require.NoError(t, err)
	return ride
}

func TestCreateAssignsExistingDealer(t *testing.T) {
	f := newBookingFixture()
	for i := 0; i < 50; i++ {
		ride := f.book(t, alice.ID)
		assert.Equal(t, alice.ID, ride.UserID)
		assert.Equal(t, model.TestRidePending, ride.Status)
		assert.Contains(t, f.dealers.ids, ride.DealerID)
		assert.Equal(t, int64(5), ride.BikeID)
		assert.Equal(t, "2026-02-14", ride.BookingDate)
	}
	assert.Equal(t, 50, f.rec.bookings[queue.EventTestRideBooked])
}

func TestCreateUsesPicker(t *testing.T) {
	var gotN int
	f := newBookingFixture(WithDealerPicker(func(n int) int { gotN = n; return n - 1 }))
	ride := f.book(t, alice.ID)
	assert.Equal(t, 3, gotN)
	assert.Equal(t, int64(30), ride.DealerID)
}

func TestCreateValidation(t *testing.T) {
	f := newBookingFixture()
	cases := map[string]CreateBookingInput{
		"no bike":      {BookingDate: "2026-02-14"},
		"no date":      {BikeID: 5},
		"bad format":   {BikeID: 5, BookingDate: "14/02/2026"},
		"not a day":    {BikeID: 5, BookingDate: "2026-02-30"},
		"negative id":  {BikeID: -1, BookingDate: "2026-02-14"},
		"with a clock": {BikeID: 5, BookingDate: "2026-02-14T10:00:00Z"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), alice.ID, in)
			requireKind(t, err, apperror.KindValidation)
		})
	}
	assert.Zero(t, f.dealers.calls)
}

func TestCreateUnknownBike(t *testing.T) {
	f := newBookingFixture()
	f.bikes.existsFn = func(context.Context, int64) (bool, error) { return false, nil }
	_, err := f.svc.Create(context.Background(), alice.ID, CreateBookingInput{BikeID: 5, BookingDate: "2026-02-14"})
	requireKind(t, err, apperror.KindNotFound)
}

func TestCreateWithoutDealers(t *testing.T) {
	f := newBookingFixture()
	f.dealers.ids = nil
	_, err := f.svc.Create(context.Background(), alice.ID, CreateBookingInput{BikeID: 5, BookingDate: "2026-02-14"})
	requireKind(t, err, apperror.KindNoDealers)
	assert.Empty(t, f.rides.rides)
	assert.Empty(t, f.pub.events)
}

func TestCreateStoreFailure(t *testing.T) {
	f := newBookingFixture()
	f.rides.createFn = func(context.Context, int64, int64, int64, string, model.TestRideStatus) (model.TestRide, error) {
		return model.TestRide{}, errors.New("database is locked")
	}
	_, err := f.svc.Create(context.Background(), alice.ID, CreateBookingInput{BikeID: 5, BookingDate: "2026-02-14"})
	requireKind(t, err, apperror.KindInternal)
	assert.Empty(t, f.pub.events)
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	f := newBookingFixture()
	f.pub.err = errors.New("broker down")
	ride := f.book(t, alice.ID)
	assert.Positive(t, ride.ID)
	require.NoError(t, f.svc.Cancel(context.Background(), alice, ride.ID))
	assert.Equal(t, []string{queue.EventTestRideBooked, queue.EventTestRideCancelled}, f.pub.types())
}

func TestCancelLifecycle(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()
	ride := f.book(t, alice.ID)

	require.NoError(t, f.svc.Cancel(ctx, alice, ride.ID))
	got, err := f.rides.GetByID(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TestRideCancelled, got.Status)

	err = f.svc.Cancel(ctx, alice, ride.ID)
	requireKind(t, err, apperror.KindAlreadyCancelled)

	ev := f.pub.events[len(f.pub.events)-1]
	assert.Equal(t, queue.EventTestRideCancelled, ev.Type)
	assert.Equal(t, "Cancelled", ev.Status)
	assert.Equal(t, alice.ID, ev.ActorID)
}

func TestCancelErrorOrder(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	err := f.svc.Cancel(ctx, bob, 404)
	requireKind(t, err, apperror.KindNotFound)

	ride := f.book(t, alice.ID)
	require.NoError(t, f.svc.Cancel(ctx, alice, ride.ID))
	// ownership is checked before the status
	err = f.svc.Cancel(ctx, bob, ride.ID)
	requireKind(t, err, apperror.KindForbidden)
}

func TestCancelOwnershipAndAdminOverride(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()
	ride := f.book(t, alice.ID)

	requireKind(t, f.svc.Cancel(ctx, bob, ride.ID), apperror.KindForbidden)
	got, _ := f.rides.GetByID(ctx, ride.ID)
	assert.Equal(t, model.TestRidePending, got.Status)

	require.NoError(t, f.svc.Cancel(ctx, admin, ride.ID))
	got, _ = f.rides.GetByID(ctx, ride.ID)
	assert.Equal(t, model.TestRideCancelled, got.Status)
	assert.Equal(t, alice.ID, got.UserID)
}

func TestCancelConfirmedBooking(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()
	ride := f.book(t, alice.ID)
	require.NoError(t, f.svc.Confirm(ctx, admin, ride.ID))
	require.NoError(t, f.svc.Cancel(ctx, alice, ride.ID))

	got, err := f.rides.GetByID(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TestRideCancelled, got.Status)
	// terminal from here
	requireKind(t, f.svc.Confirm(ctx, admin, ride.ID), apperror.KindAlreadyCancelled)
}

func TestCancelLosesRace(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()
	ride := f.book(t, alice.ID)

	// another request cancels between the read and the update
	f.rides.updateStatusFn = func(_ context.Context, id int64, _, to model.TestRideStatus) error {
		f.rides.mu.Lock()
		r := f.rides.rides[id]
		r.Status = to
		f.rides.rides[id] = r
		f.rides.mu.Unlock()
		return repository.ErrStatusConflict
	}
	err := f.svc.Cancel(ctx, alice, ride.ID)
	requireKind(t, err, apperror.KindAlreadyCancelled)
}

func TestConfirm(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()
	ride := f.book(t, alice.ID)

	requireKind(t, f.svc.Confirm(ctx, alice, ride.ID), apperror.KindForbidden)
	requireKind(t, f.svc.Confirm(ctx, admin, 404), apperror.KindNotFound)

	require.NoError(t, f.svc.Confirm(ctx, admin, ride.ID))
	got, _ := f.rides.GetByID(ctx, ride.ID)
	assert.Equal(t, model.TestRideConfirmed, got.Status)
	requireKind(t, f.svc.Confirm(ctx, admin, ride.ID), apperror.KindInvalidTransition)

	other := f.book(t, bob.ID)
	require.NoError(t, f.svc.Cancel(ctx, bob, other.ID))
	requireKind(t, f.svc.Confirm(ctx, admin, other.ID), apperror.KindAlreadyCancelled)
	assert.Equal(t, 1, f.rec.bookings[queue.EventTestRideConfirmed])
}

func TestListForUserOrderingAndAccess(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()
	b1 := f.book(t, alice.ID)
	b2 := f.book(t, alice.ID)
	f.book(t, bob.ID)
	b3 := f.book(t, alice.ID)

	list, err := f.svc.ListForUser(ctx, alice, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{b3.ID, b2.ID, b1.ID}, []int64{list[0].ID, list[1].ID, list[2].ID})

	_, err = f.svc.ListForUser(ctx, bob, alice.ID)
	requireKind(t, err, apperror.KindForbidden)

	list, err = f.svc.ListForUser(ctx, admin, alice.ID)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestListAllAdminOnly(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()
	f.book(t, alice.ID)
	f.book(t, bob.ID)

	_, err := f.svc.ListAll(ctx, alice)
	requireKind(t, err, apperror.KindForbidden)

	all, err := f.svc.ListAll(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
