package memory

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
)

type BookingRepository struct {
	store *Store
}

// Insert stages the booking in tx. The row becomes visible on commit.
func (r *BookingRepository) Insert(_ context.Context, tx repository.Tx, booking *domain.Booking) error {
	mt, err := asMemTx(tx, r.store)
	if err != nil {
		return err
	}
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if err := mt.open(); err != nil {
		return err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.flights[booking.FlightID]; !ok {
		return fmt.Errorf("insert booking: flight %d violates foreign key", booking.FlightID)
	}
	if _, dup := s.codes[booking.ConfirmationCode]; dup {
		return fmt.Errorf("insert booking: duplicate confirmation code %q", booking.ConfirmationCode)
	}
	for _, p := range mt.pending {
		if p.ConfirmationCode == booking.ConfirmationCode {
			return fmt.Errorf("insert booking: duplicate confirmation code %q", booking.ConfirmationCode)
		}
	}

	s.nextBookingID++
	booking.ID = s.nextBookingID
	booking.CreatedAt = s.now()

	row := *booking
	row.Passengers = copyPassengers(booking.Passengers)
	mt.pending = append(mt.pending, row)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	b.Passengers = copyPassengers(b.Passengers)
	return &b, nil
}

var _ repository.BookingLedger = (*BookingRepository)(nil)
