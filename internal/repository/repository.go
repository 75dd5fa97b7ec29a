package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/flightbooking/internal/domain"
)

// Tx is a unit of work opened by a TxManager. Exactly one of Commit or
// Rollback takes effect; calling either after that returns ErrTxClosed.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type TxManager interface {
	Begin(ctx context.Context) (Tx, error)
}

var (
	ErrTxClosed  = errors.New("transaction already closed")
	ErrForeignTx = errors.New("transaction belongs to a different store")
	ErrNotLocked = errors.New("flight row is not locked by this transaction")
)

// InventoryStore owns flight seat capacity and price.
type InventoryStore interface {
	// LockFlightForUpdate takes an exclusive row lock held until tx ends.
	LockFlightForUpdate(ctx context.Context, tx Tx, flightID int64) (domain.Inventory, error)
	// DecrementSeats must run in the same tx as the preceding lock.
	DecrementSeats(ctx context.Context, tx Tx, flightID int64, by int) error
}

// BookingLedger is append-only.
type BookingLedger interface {
	Insert(ctx context.Context, tx Tx, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

type FlightRepository interface {
	Search(ctx context.Context, q domain.FlightQuery) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
}

// FlightWriter is the administrative reseed path. Flights are matched on
// airline code, flight number and departure; IDs are written back into the slice.
type FlightWriter interface {
	UpsertFlights(ctx context.Context, flights []domain.Flight) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
