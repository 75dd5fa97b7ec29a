package api

import (
	"github.com/Domenick1991/flightbooking/docs"
	"github.com/Domenick1991/flightbooking/internal/service/auth"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Services struct {
	Auth     auth.AuthUseCase
	Flights  flights.FlightUseCase
	Bookings booking.BookingUseCase
	Tokens   TokenVerifier
}

// NewRouter wires every HTTP route. Bookings are the only authenticated group.
func NewRouter(s Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog())

	router.GET("/", health)
	router.GET("/ping", health)

	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.WrapHandler))

	apiGroup := router.Group("/api")
	NewAuthHandler(s.Auth).Register(apiGroup.Group("/auth"))
	NewFlightHandler(s.Flights).Register(apiGroup.Group("/flights"))

	bookings := apiGroup.Group("/bookings", RequireAuth(s.Tokens))
	NewBookingHandler(s.Bookings).Register(bookings)

	return router
}
