package domain

import "time"

type Flight struct {
	ID             int64     `json:"id"`
	Airline        string    `json:"airline"`
	AirlineCode    string    `json:"airline_code"`
	FlightNumber   string    `json:"flight_number"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departure"`
	ArrivalTime    time.Time `json:"arrival"`
	DurationMin    int       `json:"duration"`
	Price          Money     `json:"price"`
	AvailableSeats int       `json:"available_seats"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

// Inventory is the lock-protected part of a flight row.
type Inventory struct {
	FlightID       int64
	AvailableSeats int
	PricePerSeat   Money
}

type FlightSort string

const (
	FlightSortPrice     FlightSort = "price"
	FlightSortDeparture FlightSort = "departure"
)

type FlightQuery struct {
	Origin      string
	Destination string
	Date        time.Time
	Passengers  int
	Limit       int
	Offset      int
	Sort        FlightSort
}
