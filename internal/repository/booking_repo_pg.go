package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *PGBookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Insert(ctx context.Context, tx Tx, booking *domain.Booking) error {
	ptx, err := pgxTx(tx)
	if err != nil {
		return err
	}

	passengers, err := json.Marshal(booking.Passengers)
	if err != nil {
		return fmt.Errorf("encode passengers: %w", err)
	}

	if err := ptx.QueryRow(ctx, `INSERT INTO bookings (user_id, flight_id, passengers, seats_booked, confirmation, status, price_per_seat_cents, total_price_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		booking.UserID, booking.FlightID, passengers, booking.SeatsBooked, booking.ConfirmationCode,
		string(booking.Status), int64(booking.PricePerSeat), int64(booking.TotalPrice)).
		Scan(&booking.ID, &booking.CreatedAt); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT id, user_id, flight_id, passengers, seats_booked, confirmation, status, price_per_seat_cents, total_price_cents, created_at
		FROM bookings WHERE id = $1`, id)

	var (
		b          domain.Booking
		passengers []byte
		status     string
		perSeat    int64
		total      int64
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.FlightID, &passengers, &b.SeatsBooked, &b.ConfirmationCode, &status, &perSeat, &total, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(passengers, &b.Passengers); err != nil {
		return nil, fmt.Errorf("decode passengers of booking %d: %w", id, err)
	}
	b.Status = domain.BookingStatus(status)
	b.PricePerSeat = domain.Money(perSeat)
	b.TotalPrice = domain.Money(total)
	return &b, nil
}

var _ BookingLedger = (*PGBookingRepository)(nil)
