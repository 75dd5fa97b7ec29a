package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
)

type FlightRepository struct {
	store *Store
}

func (r *FlightRepository) Search(ctx context.Context, q domain.FlightQuery) ([]domain.Flight, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dayStart := q.Date.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	s := r.store
	s.mu.Lock()
	matched := make([]domain.Flight, 0)
	for _, f := range s.flights {
		if f.Origin != q.Origin || f.Destination != q.Destination {
			continue
		}
		if f.DepartureTime.Before(dayStart) || !f.DepartureTime.Before(dayEnd) {
			continue
		}
		if f.AvailableSeats < q.Passengers {
			continue
		}
		matched = append(matched, f)
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if q.Sort == domain.FlightSortDeparture {
			if !a.DepartureTime.Equal(b.DepartureTime) {
				return a.DepartureTime.Before(b.DepartureTime)
			}
			return a.Price < b.Price
		}
		if a.Price != b.Price {
			return a.Price < b.Price
		}
		return a.DepartureTime.Before(b.DepartureTime)
	})

	if q.Offset >= len(matched) {
		return []domain.Flight{}, nil
	}
	matched = matched[q.Offset:]
	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func (r *FlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	f, ok := r.store.flights[id]
	if !ok {
		return nil, domain.ErrFlightNotFound
	}
	return &f, nil
}

// LockFlightForUpdate blocks while another transaction holds the row.
// Waiting ends early when ctx is done.
func (r *FlightRepository) LockFlightForUpdate(ctx context.Context, tx repository.Tx, flightID int64) (domain.Inventory, error) {
	mt, err := asMemTx(tx, r.store)
	if err != nil {
		return domain.Inventory{}, err
	}

	mt.mu.Lock()
	if err := mt.open(); err != nil {
		mt.mu.Unlock()
		return domain.Inventory{}, err
	}
	_, held := mt.locked[flightID]
	mt.mu.Unlock()

	if !held {
		if _, ok := r.lookup(flightID); !ok {
			return domain.Inventory{}, domain.ErrFlightNotFound
		}
		select {
		case r.store.rowLock(flightID) <- struct{}{}:
		case <-ctx.Done():
			return domain.Inventory{}, fmt.Errorf("lock flight %d: %w", flightID, ctx.Err())
		}

		mt.mu.Lock()
		if mt.closed {
			mt.mu.Unlock()
			<-r.store.rowLock(flightID)
			return domain.Inventory{}, repository.ErrTxClosed
		}
		mt.locked[flightID] = struct{}{}
		mt.mu.Unlock()
	}

	f, ok := r.lookup(flightID)
	if !ok {
		return domain.Inventory{}, domain.ErrFlightNotFound
	}

	mt.mu.Lock()
	defer mt.mu.Unlock()
	return domain.Inventory{
		FlightID:       flightID,
		AvailableSeats: f.AvailableSeats - mt.deltas[flightID],
		PricePerSeat:   f.Price,
	}, nil
}

func (r *FlightRepository) DecrementSeats(_ context.Context, tx repository.Tx, flightID int64, by int) error {
	mt, err := asMemTx(tx, r.store)
	if err != nil {
		return err
	}
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if err := mt.open(); err != nil {
		return err
	}
	if _, held := mt.locked[flightID]; !held {
		return repository.ErrNotLocked
	}

	f, ok := r.lookup(flightID)
	if !ok {
		return domain.ErrFlightNotFound
	}
	if f.AvailableSeats-mt.deltas[flightID] < by {
		return domain.ErrInsufficientSeats
	}
	mt.deltas[flightID] += by
	return nil
}

// UpsertFlights matches rows on airline code, flight number and departure.
func (r *FlightRepository) UpsertFlights(ctx context.Context, flights []domain.Flight) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for i := range flights {
		in := flights[i]
		var existing *domain.Flight
		for id, f := range s.flights {
			if f.AirlineCode == in.AirlineCode && f.FlightNumber == in.FlightNumber && f.DepartureTime.Equal(in.DepartureTime) {
				f := f
				f.ID = id
				existing = &f
				break
			}
		}
		if existing != nil {
			existing.Price = in.Price
			existing.AvailableSeats = in.AvailableSeats
			existing.UpdatedAt = now
			s.flights[existing.ID] = *existing
			flights[i].ID = existing.ID
			continue
		}
		s.nextFlightID++
		in.ID = s.nextFlightID
		in.CreatedAt, in.UpdatedAt = now, now
		s.flights[in.ID] = in
		flights[i].ID = in.ID
	}
	return nil
}

func (r *FlightRepository) lookup(id int64) (domain.Flight, bool) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	f, ok := r.store.flights[id]
	return f, ok
}

var (
	_ repository.FlightRepository = (*FlightRepository)(nil)
	_ repository.InventoryStore   = (*FlightRepository)(nil)
	_ repository.FlightWriter     = (*FlightRepository)(nil)
)
