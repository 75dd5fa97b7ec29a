package kafka

import (
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/google/uuid"
)

const EventBookingConfirmed = "booking_confirmed"

type BookingEvent struct {
	EventID      string       `json:"event_id"`
	Type         string       `json:"type"`
	BookingID    int64        `json:"booking_id"`
	UserID       int64        `json:"user_id"`
	FlightID     int64        `json:"flight_id"`
	Seats        int          `json:"seats"`
	Confirmation string       `json:"confirmation"`
	TotalPrice   domain.Money `json:"total_price"`
	Recipients   []string     `json:"recipients,omitempty"`
	OccurredAt   time.Time    `json:"occurred_at"`
}

// NewBookingConfirmed builds the event from a committed booking. Passenger
// emails, when given, become the notification recipients.
func NewBookingConfirmed(b *domain.Booking) BookingEvent {
	var recipients []string
	for _, p := range b.Passengers {
		if p.Email != "" {
			recipients = append(recipients, p.Email)
		}
	}
	return BookingEvent{
		EventID:      uuid.NewString(),
		Type:         EventBookingConfirmed,
		BookingID:    b.ID,
		UserID:       b.UserID,
		FlightID:     b.FlightID,
		Seats:        b.SeatsBooked,
		Confirmation: b.ConfirmationCode,
		TotalPrice:   b.TotalPrice,
		Recipients:   recipients,
		OccurredAt:   b.CreatedAt,
	}
}
