package flights_service_api

import (
	"context"

	"github.com/Domenick1991/flightbooking/internal/api/rpc"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"google.golang.org/grpc"
)

const (
	ServiceName = "flightbooking.flights.v1.FlightsService"

	searchFlightsMethod = "/" + ServiceName + "/SearchFlights"
	getFlightMethod     = "/" + ServiceName + "/GetFlight"
)

type SearchFlightsRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
	Passengers  int    `json:"passengers"`
	Limit       int    `json:"limit"`
	Offset      int    `json:"offset"`
	Sort        string `json:"sort"`
}

type SearchFlightsReply struct {
	Flights []domain.Flight `json:"flights"`
	Count   int             `json:"count"`
}

type GetFlightRequest struct {
	ID int64 `json:"id"`
}

type FlightsServiceServer interface {
	SearchFlights(ctx context.Context, req *SearchFlightsRequest) (*SearchFlightsReply, error)
	GetFlight(ctx context.Context, req *GetFlightRequest) (*domain.Flight, error)
}

// Server exposes flight search over gRPC. It needs no authentication.
type Server struct {
	flights flights.FlightUseCase
}

func NewServer(flights flights.FlightUseCase) *Server {
	return &Server{flights: flights}
}

func (s *Server) SearchFlights(ctx context.Context, req *SearchFlightsRequest) (*SearchFlightsReply, error) {
	found, err := s.flights.Search(ctx, flights.SearchParams{
		Origin:      req.Origin,
		Destination: req.Destination,
		Date:        req.Date,
		Passengers:  req.Passengers,
		Limit:       req.Limit,
		Offset:      req.Offset,
		Sort:        req.Sort,
	})
	if err != nil {
		return nil, rpc.Status(err)
	}
	return &SearchFlightsReply{Flights: found, Count: len(found)}, nil
}

func (s *Server) GetFlight(ctx context.Context, req *GetFlightRequest) (*domain.Flight, error) {
	flight, err := s.flights.GetByID(ctx, req.ID)
	if err != nil {
		return nil, rpc.Status(err)
	}
	return flight, nil
}

func RegisterFlightsServiceServer(s grpc.ServiceRegistrar, srv FlightsServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FlightsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SearchFlights", Handler: searchFlightsHandler},
		{MethodName: "GetFlight", Handler: getFlightHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "flights.json",
}

func searchFlightsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SearchFlightsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FlightsServiceServer).SearchFlights(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: searchFlightsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FlightsServiceServer).SearchFlights(ctx, req.(*SearchFlightsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getFlightHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetFlightRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FlightsServiceServer).GetFlight(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getFlightMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FlightsServiceServer).GetFlight(ctx, req.(*GetFlightRequest))
	}
	return interceptor(ctx, in, info, handler)
}

type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) SearchFlights(ctx context.Context, req *SearchFlightsRequest, opts ...grpc.CallOption) (*SearchFlightsReply, error) {
	out := new(SearchFlightsReply)
	if err := c.cc.Invoke(ctx, searchFlightsMethod, req, out, append(opts, rpc.CallOption())...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetFlight(ctx context.Context, req *GetFlightRequest, opts ...grpc.CallOption) (*domain.Flight, error) {
	out := new(domain.Flight)
	if err := c.cc.Invoke(ctx, getFlightMethod, req, out, append(opts, rpc.CallOption())...); err != nil {
		return nil, err
	}
	return out, nil
}

var _ FlightsServiceServer = (*Server)(nil)
