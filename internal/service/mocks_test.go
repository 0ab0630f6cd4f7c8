package service

import (
	"context"
	"sync"
	"time"

	"github.com/motohunt/motohunt-api/internal/model"
	"github.com/motohunt/motohunt-api/internal/queue"
	"github.com/motohunt/motohunt-api/internal/repository"
)

// --- Mock user store ---

// memUserStore keeps users in a map; the fn hooks override single calls.
type memUserStore struct {
	mu     sync.Mutex
	users  map[int64]model.User
	nextID int64

	getByEmailFn func(ctx context.Context, email string) (model.User, error)
	createFn     func(ctx context.Context, username, email, hash string, role model.Role) (int64, error)
	lookups      int
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[int64]model.User{}}
}

func (m *memUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	m.mu.Lock()
	m.lookups++
	m.mu.Unlock()
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memUserStore) GetByID(_ context.Context, id int64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *memUserStore) Create(ctx context.Context, username, email, hash string, role model.Role) (int64, error) {
	if m.createFn != nil {
		return m.createFn(ctx, username, email, hash, role)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return 0, repository.ErrDuplicate
		}
	}
	m.nextID++
	m.users[m.nextID] = model.User{ID: m.nextID, Username: username, Email: email, PasswordHash: hash, Role: role, CreatedAt: time.Now()}
	return m.nextID, nil
}

// --- Mock test ride store ---

type memRideStore struct {
	mu     sync.Mutex
	rides  map[int64]model.TestRide
	nextID int64
	clock  time.Time

	createFn       func(ctx context.Context, userID, bikeID, dealerID int64, date string, status model.TestRideStatus) (model.TestRide, error)
	updateStatusFn func(ctx context.Context, id int64, from, to model.TestRideStatus) error
}

func newMemRideStore() *memRideStore {
	return &memRideStore{rides: map[int64]model.TestRide{}, clock: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (m *memRideStore) Create(ctx context.Context, userID, bikeID, dealerID int64, date string, status model.TestRideStatus) (model.TestRide, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, bikeID, dealerID, date, status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.clock = m.clock.Add(time.Minute)
	r := model.TestRide{ID: m.nextID, UserID: userID, BikeID: bikeID, DealerID: dealerID, BookingDate: date, Status: status, CreatedAt: m.clock}
	m.rides[r.ID] = r
	return r, nil
}

func (m *memRideStore) GetByID(_ context.Context, id int64) (model.TestRide, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[id]
	if !ok {
		return model.TestRide{}, repository.ErrNotFound
	}
	return r, nil
}

func (m *memRideStore) UpdateStatus(ctx context.Context, id int64, from, to model.TestRideStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, from, to)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[id]
	if !ok || r.Status != from {
		return repository.ErrStatusConflict
	}
	r.Status = to
	m.rides[id] = r
	return nil
}

func (m *memRideStore) ListByUser(_ context.Context, userID int64) ([]model.BookingDetail, error) {
	return m.list(func(r model.TestRide) bool { return r.UserID == userID }), nil
}

func (m *memRideStore) ListAll(context.Context) ([]model.BookingDetail, error) {
	return m.list(func(model.TestRide) bool { return true }), nil
}

// list returns matching rides newest first.
func (m *memRideStore) list(keep func(model.TestRide) bool) []model.BookingDetail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.BookingDetail{}
	for id := m.nextID; id > 0; id-- {
		if r, ok := m.rides[id]; ok && keep(r) {
			out = append(out, model.BookingDetail{TestRide: r})
		}
	}
	return out
}

// --- Catalog / dealers ---

type mockDealers struct {
	ids   []int64
	err   error
	calls int
}

func (m *mockDealers) ListIDs(context.Context) ([]int64, error) {
	m.calls++
	return m.ids, m.err
}

type mockBikes struct {
	existsFn func(ctx context.Context, id int64) (bool, error)
}

func (m *mockBikes) BikeExists(ctx context.Context, id int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, id)
	}
	return true, nil
}

// --- Publisher / recorder ---

type capturePublisher struct {
	mu     sync.Mutex
	events []queue.TestRideEvent
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, ev queue.TestRideEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *capturePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type countingRecorder struct {
	logins   map[string]int
	bookings map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{logins: map[string]int{}, bookings: map[string]int{}}
}

func (r *countingRecorder) LoginAttempt(outcome string)    { r.logins[outcome]++ }
func (r *countingRecorder) BookingTransition(event string) { r.bookings[event]++ }
