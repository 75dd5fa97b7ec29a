package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	FlightID   int64              `json:"flight_id" example:"1"`
	Seats      int                `json:"seats" example:"1"`
	Passengers []domain.Passenger `json:"passengers"`
}

type bookingResponse struct {
	Booking *domain.Booking `json:"booking"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

// Register expects router to already require authentication.
func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("/:id", h.get)
}

// create godoc
// @Summary Book seats on a flight
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body createBookingRequest true "Flight, seat count and one passenger per seat"
// @Success 201 {object} bookingResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/bookings [post]
// @Security BearerAuth
func (h *BookingHandler) create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "Invalid token payload"})
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid JSON body")
		return
	}
	if req.FlightID <= 0 {
		badRequest(c, "Invalid flight_id")
		return
	}
	if req.Seats <= 0 {
		badRequest(c, "seats must be > 0")
		return
	}
	if len(req.Passengers) != req.Seats {
		badRequest(c, "passengers must be an array with length equal to seats")
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		UserID:     userID,
		FlightID:   req.FlightID,
		Seats:      req.Seats,
		Passengers: req.Passengers,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bookingResponse{Booking: created})
}

// get godoc
// @Summary Get one of the caller's bookings
// @Tags bookings
// @Produce json
// @Param id path int true "Booking ID"
// @Success 200 {object} bookingResponse
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/bookings/{id} [get]
// @Security BearerAuth
func (h *BookingHandler) get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "Invalid token payload"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Invalid booking id")
		return
	}

	found, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if found.UserID != userID {
		writeError(c, domain.ErrForbidden)
		return
	}

	c.JSON(http.StatusOK, bookingResponse{Booking: found})
}
