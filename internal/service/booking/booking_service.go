package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Domenick1991/flightbooking/internal/confirmation"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/validation"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/Domenick1991/flightbooking/internal/service/booking"

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

// CacheInvalidator drops cached flight searches after seat counts change.
type CacheInvalidator interface {
	InvalidateFlights(ctx context.Context) error
}

type CreateBookingInput struct {
	UserID     int64
	FlightID   int64
	Seats      int
	Passengers []domain.Passenger
}

type BookingService struct {
	txm        repository.TxManager
	inventory  repository.InventoryStore
	ledger     repository.BookingLedger
	codes      confirmation.Generator
	producer   Producer
	cache      CacheInvalidator
	eventTopic string
	notifTopic string
}

type BookingServiceOption func(*BookingService)

// WithEvents publishes booking_confirmed to topic after every commit.
func WithEvents(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.eventTopic = topic
	}
}

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notifTopic = topic
	}
}

func WithCacheInvalidator(cache CacheInvalidator) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
	}
}

func NewBookingService(
	txm repository.TxManager,
	inventory repository.InventoryStore,
	ledger repository.BookingLedger,
	codes confirmation.Generator,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		txm:       txm,
		inventory: inventory,
		ledger:    ledger,
		codes:     codes,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking reserves seats and records the booking in one transaction.
// The flight row stays locked from the availability check until commit, so
// concurrent bookings of one flight are serialized and never oversell.
// Nothing is retried here; lock timeouts surface as ErrInternal.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (_ *domain.Booking, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "BookingService.CreateBooking",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int64("booking.user_id", input.UserID),
			attribute.Int64("booking.flight_id", input.FlightID),
			attribute.Int("booking.seats", input.Seats),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	tx, err := s.txm.Begin(ctx)
	if err != nil {
		return nil, internal("begin transaction", err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		// the caller's ctx may already be cancelled; the rollback must still reach the store
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, repository.ErrTxClosed) {
			log.Error().Err(rbErr).Int64("flight_id", input.FlightID).Msg("booking rollback failed")
		}
	}()

	inv, err := s.inventory.LockFlightForUpdate(ctx, tx, input.FlightID)
	if err != nil {
		if errors.Is(err, domain.ErrFlightNotFound) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, internal("lock flight", err)
	}
	if inv.AvailableSeats < input.Seats {
		return nil, fmt.Errorf("%w: requested %d, available %d", domain.ErrInsufficientSeats, input.Seats, inv.AvailableSeats)
	}

	if err := s.inventory.DecrementSeats(ctx, tx, input.FlightID, input.Seats); err != nil {
		if errors.Is(err, domain.ErrInsufficientSeats) {
			return nil, err
		}
		return nil, internal("decrement seats", err)
	}

	code, err := s.codes.Generate()
	if err != nil {
		return nil, internal("generate confirmation code", err)
	}

	pending := &domain.Booking{
		UserID:           input.UserID,
		FlightID:         input.FlightID,
		Passengers:       input.Passengers,
		SeatsBooked:      input.Seats,
		ConfirmationCode: code,
		Status:           domain.BookingStatusConfirmed,
		PricePerSeat:     inv.PricePerSeat,
		TotalPrice:       inv.PricePerSeat.Mul(input.Seats),
	}
	if err := s.ledger.Insert(ctx, tx, pending); err != nil {
		return nil, internal("insert booking", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, internal("commit booking", err)
	}
	committed = true

	// The booking is durable from here on; a failed read-back must not turn it into an error.
	booking, err := s.ledger.GetByID(ctx, pending.ID)
	if err != nil {
		log.Warn().Err(err).Int64("booking_id", pending.ID).Msg("booking read-back failed, returning inserted row")
		booking = pending
	}
	// the quote is the price observed under the lock
	booking.PricePerSeat = inv.PricePerSeat
	booking.TotalPrice = inv.PricePerSeat.Mul(booking.SeatsBooked)

	span.SetAttributes(attribute.Int64("booking.id", booking.ID))
	log.Info().
		Int64("booking_id", booking.ID).
		Int64("flight_id", booking.FlightID).
		Int64("user_id", booking.UserID).
		Int("seats", booking.SeatsBooked).
		Str("confirmation", booking.ConfirmationCode).
		Msg("booking created")

	s.afterCommit(ctx, booking)
	return booking, nil
}

// GetBooking performs no ownership check; callers compare UserID themselves.
func (s *BookingService) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: booking id must be positive", domain.ErrInvalidArgument)
	}
	booking, err := s.ledger.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, internal("get booking", err)
	}
	return booking, nil
}

// afterCommit runs best-effort side effects. Their failures never change the result.
func (s *BookingService) afterCommit(ctx context.Context, booking *domain.Booking) {
	if s.cache != nil {
		if err := s.cache.InvalidateFlights(ctx); err != nil {
			log.Warn().Err(err).Int64("booking_id", booking.ID).Msg("failed to invalidate flight cache")
		}
	}

	if s.producer == nil {
		return
	}
	event := kafka.NewBookingConfirmed(booking)
	key := strconv.FormatInt(booking.ID, 10)
	for _, topic := range []string{s.eventTopic, s.notifTopic} {
		if topic == "" {
			continue
		}
		if err := s.producer.Publish(ctx, topic, key, event); err != nil {
			log.Warn().Err(err).Str("topic", topic).Int64("booking_id", booking.ID).Msg("failed to publish booking event")
		}
	}
}

func validateInput(input CreateBookingInput) error {
	if input.Seats <= 0 {
		return fmt.Errorf("%w: seats must be a positive integer", domain.ErrInvalidArgument)
	}
	if len(input.Passengers) != input.Seats {
		return fmt.Errorf("%w: passengers must be an array with length equal to seats", domain.ErrInvalidArgument)
	}
	if input.FlightID <= 0 {
		return fmt.Errorf("%w: flight_id must be a positive integer", domain.ErrInvalidArgument)
	}
	if input.UserID <= 0 {
		return fmt.Errorf("%w: user id must be positive", domain.ErrInvalidArgument)
	}
	return validation.Passengers(input.Passengers)
}

func internal(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrInternal, op, err)
}

var _ BookingUseCase = (*BookingService)(nil)
