package rpc

import (
	"errors"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/logger"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Status converts a service error into a gRPC status. Internal details are logged, not returned.
func Status(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var code codes.Code
	switch {
	case errors.Is(err, domain.ErrInternal):
		code = codes.Internal
	case errors.Is(err, domain.ErrInvalidArgument):
		code = codes.InvalidArgument
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired):
		code = codes.Unauthenticated
	case errors.Is(err, domain.ErrForbidden):
		code = codes.PermissionDenied
	case errors.Is(err, domain.ErrFlightNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		code = codes.NotFound
	case errors.Is(err, domain.ErrInsufficientSeats):
		code = codes.FailedPrecondition
	case errors.Is(err, domain.ErrEmailTaken):
		code = codes.AlreadyExists
	default:
		code = codes.Internal
	}

	if code == codes.Internal {
		logger.ErrorWithStack(err)
		return status.Error(code, "internal server error")
	}
	return status.Error(code, err.Error())
}
