package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dataset = `[
  {"airline": "Aeroflot", "airlineCode": "su", "flightNumber": 1234, "origin": "svo", "destination": "LED",
   "departure": "2026-11-01T09:00:00Z", "arrival": "2026-11-01T10:30:00Z", "duration": 90, "price": 120.5, "availableSeats": 40},
  {"airlineName": "Rossiya", "carrierCode": "FV", "flightNumber": "6001", "origin": "LED", "destination": "SVO",
   "departure": "2026-11-02 18:00:00", "price": "99.99", "availableSeats": 12},
  {"airline": "Broken", "airlineCode": "BR", "origin": "SVO", "destination": "LED", "departure": "2026-11-01T09:00:00Z"},
  {"airline": "Broken", "airlineCode": "BR", "flightNumber": 1, "origin": "SVO", "destination": "LED", "departure": "tomorrow"}
]`

func TestParse(t *testing.T) {
	flights, skipped, err := Parse(strings.NewReader(dataset))
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, flights, 2)

	first := flights[0]
	assert.Equal(t, "SU", first.AirlineCode)
	assert.Equal(t, "1234", first.FlightNumber)
	assert.Equal(t, "SVO", first.Origin)
	assert.Equal(t, domain.MoneyFromFloat(120.5), first.Price)
	assert.Equal(t, 40, first.AvailableSeats)
	assert.Equal(t, time.Date(2026, 11, 1, 10, 30, 0, 0, time.UTC), first.ArrivalTime)

	second := flights[1]
	assert.Equal(t, "Rossiya", second.Airline)
	assert.Equal(t, "FV", second.AirlineCode)
	assert.Equal(t, "6001", second.FlightNumber)
	assert.Equal(t, domain.Money(9999), second.Price)
	assert.True(t, second.ArrivalTime.IsZero())
}

func TestParse_SnakeCaseFlightNumber(t *testing.T) {
	const data = `[
  {"airline": "Pobeda", "airlineCode": "DP", "flight_number": 405, "origin": "VKO", "destination": "AER",
   "departure": "2026-11-03T07:15:00Z", "price": 55, "availableSeats": 180, "operational_days": [1, 3, 5]},
  {"airline": "Pobeda", "airlineCode": "DP", "flightNumber": "407", "flight_number": "999", "origin": "VKO", "destination": "AER",
   "departure": "2026-11-03T12:15:00Z", "price": 60, "availableSeats": 180}
]`
	flights, skipped, err := Parse(strings.NewReader(data))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, flights, 2)
	assert.Equal(t, "405", flights[0].FlightNumber)
	assert.Equal(t, "407", flights[1].FlightNumber)
}

func TestParse_NotAnArray(t *testing.T) {
	_, _, err := Parse(strings.NewReader(`{"airline": "x"}`))
	assert.Error(t, err)
}

func TestLoadFile_Upserts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flights.json")
	require.NoError(t, os.WriteFile(path, []byte(dataset), 0o600))

	store := memory.NewStore()
	ctx := context.Background()

	n, err := LoadFile(ctx, path, store.Flights())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// reseeding the same file updates rows in place
	n, err = LoadFile(ctx, path, store.Flights())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := store.Flights().Search(ctx, domain.FlightQuery{
		Origin: "SVO", Destination: "LED", Date: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), Passengers: 1, Limit: 10,
	})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "nope.json"), memory.NewStore().Flights())
	assert.Error(t, err)
}
