package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
)

type Passenger struct {
	Name        string `json:"name" validate:"required,max=200"`
	Age         int    `json:"age" validate:"gte=0,lte=130"`
	DocumentID  string `json:"document_id,omitempty" validate:"omitempty,max=64"`
	Nationality string `json:"nationality,omitempty" validate:"omitempty,len=2"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
}

type Booking struct {
	ID               int64         `json:"id"`
	UserID           int64         `json:"user_id"`
	FlightID         int64         `json:"flight_id"`
	Passengers       []Passenger   `json:"passengers"`
	SeatsBooked      int           `json:"seats_booked"`
	ConfirmationCode string        `json:"confirmation"`
	Status           BookingStatus `json:"status"`
	PricePerSeat     Money         `json:"price_per_seat"`
	TotalPrice       Money         `json:"total_price"`
	CreatedAt        time.Time     `json:"created_at"`
}
