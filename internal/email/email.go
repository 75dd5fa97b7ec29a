package email

import (
	"context"

	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/rs/zerolog/log"
)

// Sender delivers booking notifications. Delivery is a structured log line;
// an SMTP transport can replace it without changing callers.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(_ context.Context, event kafka.BookingEvent) error {
	if len(event.Recipients) == 0 {
		log.Info().Int64("booking_id", event.BookingID).Msg("booking has no passenger emails, notification skipped")
		return nil
	}
	for _, to := range event.Recipients {
		log.Info().
			Str("to", to).
			Str("type", event.Type).
			Str("confirmation", event.Confirmation).
			Int64("flight_id", event.FlightID).
			Int("seats", event.Seats).
			Str("total_price", event.TotalPrice.String()).
			Msg("send booking email")
	}
	return nil
}
