package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/internal/confirmation"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/password"
	"github.com/Domenick1991/flightbooking/internal/repository/memory"
	"github.com/Domenick1991/flightbooking/internal/service/auth"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/Domenick1991/flightbooking/internal/token"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routerFixture struct {
	router   *gin.Engine
	store    *memory.Store
	flightID int64
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	seed := []domain.Flight{{
		Airline:        "Delta",
		AirlineCode:    "DL",
		FlightNumber:   "100",
		Origin:         "JFK",
		Destination:    "LAX",
		DepartureTime:  time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		ArrivalTime:    time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC),
		DurationMin:    360,
		Price:          15000,
		AvailableSeats: 2,
	}}
	require.NoError(t, store.Flights().UpsertFlights(t.Context(), seed))

	tokens := token.NewService("test-secret")
	router := NewRouter(Services{
		Auth:     auth.NewAuthService(store.Users(), password.NewHasher(4), tokens, time.Hour),
		Flights:  flights.NewFlightService(store.Flights(), nil),
		Bookings: booking.NewBookingService(store, store.Flights(), store.Bookings(), confirmation.NewGenerator(confirmation.DefaultPrefix)),
		Tokens:   tokens,
	})
	return &routerFixture{router: router, store: store, flightID: seed[0].ID}
}

func (f *routerFixture) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *routerFixture) login(t *testing.T, email string) string {
	t.Helper()
	creds := credentialsRequest{Email: email, Password: "secret1"}
	w := f.do(t, http.MethodPost, "/api/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/auth/login", "", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res auth.LoginResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func TestRouter_bookingFlow(t *testing.T) {
	f := newRouterFixture(t)
	ann := f.login(t, "ann@example.com")

	w := f.do(t, http.MethodGet, "/api/flights?origin=JFK&destination=LAX&date=2025-06-01&passengers=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = f.do(t, http.MethodPost, "/api/bookings", ann, createBookingRequest{
		FlightID:   f.flightID,
		Seats:      2,
		Passengers: []domain.Passenger{{Name: "Ann", Age: 30}, {Name: "Bob", Age: 31}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created bookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, domain.Money(15000), created.Booking.PricePerSeat)
	assert.Equal(t, domain.Money(30000), created.Booking.TotalPrice)
	assert.Regexp(t, `^BOOK-[0-9a-f]{12}-\d+$`, created.Booking.ConfirmationCode)

	seats, ok := f.store.AvailableSeats(f.flightID)
	require.True(t, ok)
	assert.Equal(t, 0, seats)

	// sold out
	w = f.do(t, http.MethodPost, "/api/bookings", ann, createBookingRequest{
		FlightID:   f.flightID,
		Seats:      1,
		Passengers: []domain.Passenger{{Name: "Cid", Age: 40}},
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	path := fmt.Sprintf("/api/bookings/%d", created.Booking.ID)
	w = f.do(t, http.MethodGet, path, ann, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var read bookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &read))
	assert.Equal(t, created.Booking.ConfirmationCode, read.Booking.ConfirmationCode)
	assert.Len(t, read.Booking.Passengers, 2)

	bob := f.login(t, "bob@example.com")
	w = f.do(t, http.MethodGet, path, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_bookingsRequireAuth(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(t, http.MethodPost, "/api/bookings", "", createBookingRequest{FlightID: f.flightID, Seats: 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Missing Authorization header"}`, w.Body.String())
}

func TestRouter_unknownFlight(t *testing.T) {
	f := newRouterFixture(t)
	ann := f.login(t, "ann@example.com")

	w := f.do(t, http.MethodPost, "/api/bookings", ann, createBookingRequest{
		FlightID:   999,
		Seats:      1,
		Passengers: []domain.Passenger{{Name: "Ann"}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, f.store.BookingCount())
}

func TestRouter_healthAndDocs(t *testing.T) {
	f := newRouterFixture(t)

	for _, path := range []string{"/", "/ping"} {
		w := f.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	}

	w := f.do(t, http.MethodGet, "/swagger/doc.json", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/bookings")
}
