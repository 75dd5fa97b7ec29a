package flights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

type FlightUseCase interface {
	Search(ctx context.Context, params SearchParams) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
}

type FlightCache interface {
	GetFlights(ctx context.Context, q domain.FlightQuery) ([]domain.Flight, bool, error)
	SetFlights(ctx context.Context, q domain.FlightQuery, flights []domain.Flight) error
}

// SearchParams are the raw search inputs. Zero values select defaults.
type SearchParams struct {
	Origin      string
	Destination string
	Date        string
	Passengers  int
	Limit       int
	Offset      int
	Sort        string
}

type FlightService struct {
	repo  repository.FlightRepository
	cache FlightCache
}

// NewFlightService accepts a nil cache; searches then always hit the repository.
func NewFlightService(repo repository.FlightRepository, cache FlightCache) *FlightService {
	return &FlightService{repo: repo, cache: cache}
}

func (s *FlightService) Search(ctx context.Context, params SearchParams) ([]domain.Flight, error) {
	q, err := BuildQuery(params)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, ok, err := s.cache.GetFlights(ctx, q)
		if err != nil {
			log.Warn().Err(err).Msg("flight cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	flights, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: search flights: %w", domain.ErrInternal, err)
	}
	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, q, flights); err != nil {
			log.Warn().Err(err).Msg("flight cache write failed")
		}
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: flight id must be positive", domain.ErrInvalidArgument)
	}
	return s.repo.GetByID(ctx, id)
}

// BuildQuery validates params and applies defaults.
func BuildQuery(p SearchParams) (domain.FlightQuery, error) {
	origin := strings.ToUpper(strings.TrimSpace(p.Origin))
	destination := strings.ToUpper(strings.TrimSpace(p.Destination))
	if !isAirportCode(origin) || !isAirportCode(destination) {
		return domain.FlightQuery{}, fmt.Errorf("%w: origin and destination must be 3-letter codes", domain.ErrInvalidArgument)
	}

	date, err := time.Parse(time.DateOnly, strings.TrimSpace(p.Date))
	if err != nil {
		return domain.FlightQuery{}, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidArgument)
	}

	q := domain.FlightQuery{
		Origin:      origin,
		Destination: destination,
		Date:        date,
		Passengers:  p.Passengers,
		Limit:       p.Limit,
		Offset:      p.Offset,
		Sort:        domain.FlightSort(strings.ToLower(strings.TrimSpace(p.Sort))),
	}
	if q.Passengers == 0 {
		q.Passengers = 1
	}
	if q.Passengers < 1 {
		return domain.FlightQuery{}, fmt.Errorf("%w: passengers must be at least 1", domain.ErrInvalidArgument)
	}
	switch {
	case q.Limit == 0:
		q.Limit = DefaultLimit
	case q.Limit < 1:
		q.Limit = 1
	case q.Limit > MaxLimit:
		q.Limit = MaxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.Sort != domain.FlightSortDeparture {
		q.Sort = domain.FlightSortPrice
	}
	return q, nil
}

func isAirportCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

var _ FlightUseCase = (*FlightService)(nil)
