// Package seed loads flight inventory from a JSON dataset. It is the only
// path that sets seat counts outside a booking transaction.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/rs/zerolog/log"
)

type record struct {
	Airline        string          `json:"airline"`
	AirlineName    string          `json:"airlineName"`
	AirlineCode    string          `json:"airlineCode"`
	CarrierCode    string          `json:"carrierCode"`
	FlightNumber   json.RawMessage `json:"flightNumber"`
	FlightNumberSn json.RawMessage `json:"flight_number"`
	Origin         string          `json:"origin"`
	Destination    string          `json:"destination"`
	Departure      string          `json:"departure"`
	Arrival        string          `json:"arrival"`
	Duration       int             `json:"duration"`
	Price          domain.Money    `json:"price"`
	AvailableSeats int             `json:"availableSeats"`
}

// Parse decodes a top-level JSON array. Entries missing a required field are skipped.
func Parse(r io.Reader) ([]domain.Flight, int, error) {
	var records []record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, 0, fmt.Errorf("decode seed file: %w", err)
	}

	flights := make([]domain.Flight, 0, len(records))
	skipped := 0
	for i, rec := range records {
		f, err := rec.toFlight()
		if err != nil {
			log.Warn().Int("entry", i).Err(err).Msg("skipping seed entry")
			skipped++
			continue
		}
		flights = append(flights, f)
	}
	return flights, skipped, nil
}

func LoadFile(ctx context.Context, path string, writer repository.FlightWriter) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open seed file: %w", err)
	}
	defer file.Close()

	flights, skipped, err := Parse(file)
	if err != nil {
		return 0, err
	}
	if err := writer.UpsertFlights(ctx, flights); err != nil {
		return 0, fmt.Errorf("upsert flights: %w", err)
	}

	log.Info().Int("upserted", len(flights)).Int("skipped", skipped).Str("file", path).Msg("seed complete")
	return len(flights), nil
}

func (r record) toFlight() (domain.Flight, error) {
	f := domain.Flight{
		Airline:        firstNonEmpty(r.Airline, r.AirlineName),
		AirlineCode:    strings.ToUpper(strings.TrimSpace(firstNonEmpty(r.AirlineCode, r.CarrierCode))),
		FlightNumber:   firstNonEmpty(flightNumber(r.FlightNumber), flightNumber(r.FlightNumberSn)),
		Origin:         strings.ToUpper(strings.TrimSpace(r.Origin)),
		Destination:    strings.ToUpper(strings.TrimSpace(r.Destination)),
		DurationMin:    r.Duration,
		Price:          r.Price,
		AvailableSeats: r.AvailableSeats,
	}
	if f.Airline == "" || f.AirlineCode == "" || f.FlightNumber == "" || f.Origin == "" || f.Destination == "" {
		return domain.Flight{}, fmt.Errorf("missing required field")
	}
	if f.AvailableSeats < 0 || f.Price < 0 {
		return domain.Flight{}, fmt.Errorf("negative seats or price")
	}

	dep, err := parseTime(r.Departure)
	if err != nil {
		return domain.Flight{}, fmt.Errorf("departure: %w", err)
	}
	f.DepartureTime = dep
	if r.Arrival != "" {
		if arr, err := parseTime(r.Arrival); err == nil {
			f.ArrivalTime = arr
		}
	}
	return f, nil
}

var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"}

func parseTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", v)
}

// flightNumber accepts both 123 and "123".
func flightNumber(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
