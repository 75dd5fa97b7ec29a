// Package memory is an in-process implementation of the repository contracts.
// Flight rows carry exclusive locks that are held until the owning
// transaction commits or rolls back, the same way SELECT ... FOR UPDATE
// behaves in PostgreSQL.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
)

type Store struct {
	mu sync.Mutex

	flights  map[int64]domain.Flight
	rowLocks map[int64]chan struct{}
	bookings map[int64]domain.Booking
	codes    map[string]int64
	users    map[int64]domain.User
	emails   map[string]int64

	nextFlightID  int64
	nextBookingID int64
	nextUserID    int64

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		flights:  make(map[int64]domain.Flight),
		rowLocks: make(map[int64]chan struct{}),
		bookings: make(map[int64]domain.Booking),
		codes:    make(map[string]int64),
		users:    make(map[int64]domain.User),
		emails:   make(map[string]int64),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Flights() *FlightRepository {
	return &FlightRepository{store: s}
}

func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{store: s}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{store: s}
}

func (s *Store) Begin(ctx context.Context) (repository.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &memTx{
		store:  s,
		locked: make(map[int64]struct{}),
		deltas: make(map[int64]int),
	}, nil
}

// AvailableSeats reports the committed seat count of a flight.
func (s *Store) AvailableSeats(flightID int64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flights[flightID]
	return f.AvailableSeats, ok
}

// SetPrice changes a flight price outside of any booking transaction.
func (s *Store) SetPrice(flightID int64, price domain.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flights[flightID]
	if !ok {
		return domain.ErrFlightNotFound
	}
	f.Price = price
	f.UpdatedAt = s.now()
	s.flights[flightID] = f
	return nil
}

// BookingCount returns the number of committed ledger entries.
func (s *Store) BookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

func (s *Store) rowLock(flightID int64) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.rowLocks[flightID]
	if !ok {
		ch = make(chan struct{}, 1)
		s.rowLocks[flightID] = ch
	}
	return ch
}

type memTx struct {
	store *Store

	mu      sync.Mutex
	closed  bool
	locked  map[int64]struct{}
	deltas  map[int64]int
	pending []domain.Booking
}

func (t *memTx) Commit(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return repository.ErrTxClosed
	}
	t.closed = true
	defer t.releaseLocked()

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range t.pending {
		if _, dup := s.codes[b.ConfirmationCode]; dup {
			return fmt.Errorf("duplicate confirmation code %q", b.ConfirmationCode)
		}
	}
	for id, by := range t.deltas {
		f := s.flights[id]
		if f.AvailableSeats < by {
			return fmt.Errorf("check constraint violated for flight %d", id)
		}
	}

	for id, by := range t.deltas {
		f := s.flights[id]
		f.AvailableSeats -= by
		f.UpdatedAt = s.now()
		s.flights[id] = f
	}
	for _, b := range t.pending {
		s.bookings[b.ID] = b
		s.codes[b.ConfirmationCode] = b.ID
	}
	return nil
}

func (t *memTx) Rollback(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return repository.ErrTxClosed
	}
	t.closed = true
	t.releaseLocked()
	return nil
}

func (t *memTx) releaseLocked() {
	for id := range t.locked {
		<-t.store.rowLock(id)
	}
	t.locked = nil
	t.deltas = nil
	t.pending = nil
}

func (t *memTx) open() error {
	if t.closed {
		return repository.ErrTxClosed
	}
	return nil
}

func asMemTx(tx repository.Tx, s *Store) (*memTx, error) {
	mt, ok := tx.(*memTx)
	if !ok || mt.store != s {
		return nil, repository.ErrForeignTx
	}
	return mt, nil
}

func copyPassengers(in []domain.Passenger) []domain.Passenger {
	if in == nil {
		return nil
	}
	out := make([]domain.Passenger, len(in))
	copy(out, in)
	return out
}

var _ repository.TxManager = (*Store)(nil)
