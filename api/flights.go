package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type searchMeta struct {
	Count int `json:"count"`
}

type searchResponse struct {
	Data []domain.Flight `json:"data"`
	Meta searchMeta      `json:"meta"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.search)
	router.GET("/:id", h.getByID)
}

// search godoc
// @Summary Search flights by route and day
// @Tags flights
// @Produce json
// @Param origin query string true "Origin IATA code"
// @Param destination query string true "Destination IATA code"
// @Param date query string true "Departure day, YYYY-MM-DD (UTC)"
// @Param passengers query int false "Seats needed" default(1)
// @Param limit query int false "Page size (1..100)" default(50)
// @Param offset query int false "Page offset" default(0)
// @Param sort query string false "price or departure" default(price)
// @Success 200 {object} searchResponse
// @Failure 400 {object} errorResponse
// @Router /api/flights [get]
func (h *FlightHandler) search(c *gin.Context) {
	params := flights.SearchParams{
		Origin:      c.Query("origin"),
		Destination: c.Query("destination"),
		Date:        c.Query("date"),
		Sort:        c.Query("sort"),
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"passengers", &params.Passengers},
		{"limit", &params.Limit},
		{"offset", &params.Offset},
	}
	for _, p := range ints {
		raw, ok := c.GetQuery(p.name)
		if !ok || raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, p.name+" must be an integer")
			return
		}
		*p.dst = v
	}
	if _, ok := c.GetQuery("passengers"); ok && params.Passengers <= 0 {
		badRequest(c, "Passengers must be a positive integer.")
		return
	}

	result, err := h.service.Search(c.Request.Context(), params)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, searchResponse{Data: result, Meta: searchMeta{Count: len(result)}})
}

// getByID godoc
// @Summary Get a flight
// @Tags flights
// @Produce json
// @Param id path int true "Flight ID"
// @Success 200 {object} domain.Flight
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/flights/{id} [get]
func (h *FlightHandler) getByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Invalid flight id")
		return
	}

	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, flight)
}
