package bookings_service_api

import (
	"context"

	"github.com/Domenick1991/flightbooking/internal/api/rpc"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ServiceName = "flightbooking.bookings.v1.BookingsService"
	// MethodPrefix is protected by rpc.AuthInterceptor.
	MethodPrefix = "/" + ServiceName + "/"

	createBookingMethod = MethodPrefix + "CreateBooking"
	getBookingMethod    = MethodPrefix + "GetBooking"
)

type CreateBookingRequest struct {
	FlightID   int64              `json:"flight_id"`
	Seats      int                `json:"seats"`
	Passengers []domain.Passenger `json:"passengers"`
}

type GetBookingRequest struct {
	ID int64 `json:"id"`
}

type BookingReply struct {
	Booking *domain.Booking `json:"booking"`
}

type BookingsServiceServer interface {
	CreateBooking(ctx context.Context, req *CreateBookingRequest) (*BookingReply, error)
	GetBooking(ctx context.Context, req *GetBookingRequest) (*BookingReply, error)
}

// Server exposes the booking engine over gRPC. It expects rpc.AuthInterceptor
// to have put the caller's user id into the context.
type Server struct {
	bookings booking.BookingUseCase
}

func NewServer(bookings booking.BookingUseCase) *Server {
	return &Server{bookings: bookings}
}

func (s *Server) CreateBooking(ctx context.Context, req *CreateBookingRequest) (*BookingReply, error) {
	userID, ok := rpc.UserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "invalid token payload")
	}

	created, err := s.bookings.CreateBooking(ctx, booking.CreateBookingInput{
		UserID:     userID,
		FlightID:   req.FlightID,
		Seats:      req.Seats,
		Passengers: req.Passengers,
	})
	if err != nil {
		return nil, rpc.Status(err)
	}
	return &BookingReply{Booking: created}, nil
}

func (s *Server) GetBooking(ctx context.Context, req *GetBookingRequest) (*BookingReply, error) {
	userID, ok := rpc.UserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "invalid token payload")
	}

	found, err := s.bookings.GetBooking(ctx, req.ID)
	if err != nil {
		return nil, rpc.Status(err)
	}
	if found.UserID != userID {
		return nil, rpc.Status(domain.ErrForbidden)
	}
	return &BookingReply{Booking: found}, nil
}

func RegisterBookingsServiceServer(s grpc.ServiceRegistrar, srv BookingsServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BookingsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateBooking", Handler: createBookingHandler},
		{MethodName: "GetBooking", Handler: getBookingHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bookings.json",
}

func createBookingHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateBookingRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BookingsServiceServer).CreateBooking(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: createBookingMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BookingsServiceServer).CreateBooking(ctx, req.(*CreateBookingRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getBookingHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetBookingRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BookingsServiceServer).GetBooking(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getBookingMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BookingsServiceServer).GetBooking(ctx, req.(*GetBookingRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls BookingsService using the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) CreateBooking(ctx context.Context, req *CreateBookingRequest, opts ...grpc.CallOption) (*BookingReply, error) {
	out := new(BookingReply)
	if err := c.cc.Invoke(ctx, createBookingMethod, req, out, append(opts, rpc.CallOption())...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetBooking(ctx context.Context, req *GetBookingRequest, opts ...grpc.CallOption) (*BookingReply, error) {
	out := new(BookingReply)
	if err := c.cc.Invoke(ctx, getBookingMethod, req, out, append(opts, rpc.CallOption())...); err != nil {
		return nil, err
	}
	return out, nil
}

var _ BookingsServiceServer = (*Server)(nil)
