package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const flightColumns = `id, airline, airline_code, flight_number, origin, destination, departure, arrival, duration_min, price_cents, available_seats, created_at, updated_at`

// Allowlisted ORDER BY clauses; the sort value never reaches SQL directly.
var flightOrder = map[domain.FlightSort]string{
	domain.FlightSortPrice:     "price_cents ASC, departure ASC",
	domain.FlightSortDeparture: "departure ASC, price_cents ASC",
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) *PGFlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) Search(ctx context.Context, q domain.FlightQuery) ([]domain.Flight, error) {
	order, ok := flightOrder[q.Sort]
	if !ok {
		order = flightOrder[domain.FlightSortPrice]
	}
	dayStart := q.Date.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+`
		FROM flights
		WHERE origin = $1 AND destination = $2
		  AND departure >= $3 AND departure < $4
		  AND available_seats >= $5
		ORDER BY `+order+`
		LIMIT $6 OFFSET $7`,
		q.Origin, q.Destination, dayStart, dayEnd, q.Passengers, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	f, err := scanFlight(r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}
	return f, nil
}

func (r *PGFlightRepository) LockFlightForUpdate(ctx context.Context, tx Tx, flightID int64) (domain.Inventory, error) {
	ptx, err := pgxTx(tx)
	if err != nil {
		return domain.Inventory{}, err
	}

	inv := domain.Inventory{FlightID: flightID}
	var priceCents int64
	err = ptx.QueryRow(ctx, `SELECT available_seats, price_cents FROM flights WHERE id = $1 FOR UPDATE`, flightID).
		Scan(&inv.AvailableSeats, &priceCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Inventory{}, domain.ErrFlightNotFound
		}
		return domain.Inventory{}, fmt.Errorf("lock flight %d: %w", flightID, err)
	}
	inv.PricePerSeat = domain.Money(priceCents)
	return inv, nil
}

func (r *PGFlightRepository) DecrementSeats(ctx context.Context, tx Tx, flightID int64, by int) error {
	ptx, err := pgxTx(tx)
	if err != nil {
		return err
	}

	res, err := ptx.Exec(ctx, `UPDATE flights SET available_seats = available_seats - $2, updated_at = now() WHERE id = $1 AND available_seats >= $2`, flightID, by)
	if err != nil {
		return fmt.Errorf("decrement seats for flight %d: %w", flightID, err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrInsufficientSeats
	}
	return nil
}

func (r *PGFlightRepository) UpsertFlights(ctx context.Context, flights []domain.Flight) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, f := range flights {
		var arrival *time.Time
		if !f.ArrivalTime.IsZero() {
			a := f.ArrivalTime
			arrival = &a
		}
		batch.Queue(`INSERT INTO flights (airline, airline_code, flight_number, origin, destination, departure, arrival, duration_min, price_cents, available_seats)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (airline_code, flight_number, departure) DO UPDATE
			SET price_cents = EXCLUDED.price_cents,
			    available_seats = EXCLUDED.available_seats,
			    updated_at = now()
			RETURNING id`,
			f.Airline, f.AirlineCode, f.FlightNumber, f.Origin, f.Destination, f.DepartureTime, arrival, f.DurationMin, int64(f.Price), f.AvailableSeats)
	}

	results := tx.SendBatch(ctx, batch)
	for i := range flights {
		if err := results.QueryRow().Scan(&flights[i].ID); err != nil {
			_ = results.Close()
			return fmt.Errorf("upsert flight %s%s: %w", flights[i].AirlineCode, flights[i].FlightNumber, err)
		}
	}
	if err := results.Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	var arrival *time.Time
	var priceCents int64
	if err := row.Scan(&f.ID, &f.Airline, &f.AirlineCode, &f.FlightNumber, &f.Origin, &f.Destination, &f.DepartureTime, &arrival, &f.DurationMin, &priceCents, &f.AvailableSeats, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	f.Price = domain.Money(priceCents)
	if arrival != nil {
		f.ArrivalTime = *arrival
	}
	return &f, nil
}

var (
	_ FlightRepository = (*PGFlightRepository)(nil)
	_ InventoryStore   = (*PGFlightRepository)(nil)
	_ FlightWriter     = (*PGFlightRepository)(nil)
)
