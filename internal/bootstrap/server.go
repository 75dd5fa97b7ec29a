package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/flightbooking/api"
	"github.com/Domenick1991/flightbooking/config"
	bookingsapi "github.com/Domenick1991/flightbooking/internal/api/bookings_service_api"
	flightsapi "github.com/Domenick1991/flightbooking/internal/api/flights_service_api"
	"github.com/Domenick1991/flightbooking/internal/api/rpc"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

type Servers struct {
	grpcServer *grpc.Server
	httpServer *http.Server
	grace      time.Duration
}

// Run starts the gRPC and HTTP servers and blocks until ctx is canceled or a server fails.
func Run(ctx context.Context, cfg *config.Config, services api.Services) error {
	s := newServers(cfg, services)

	errCh := make(chan error, 2)

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}
	log.Info().Str("address", lis.Addr().String()).Msg("gRPC server listening")
	go func() { errCh <- s.grpcServer.Serve(lis) }()

	go func() {
		log.Info().Str("address", cfg.HTTP.Address).Msg("HTTP server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.grpcServer.Stop()
		_ = s.httpServer.Close()
		return err
	case <-ctx.Done():
		return s.shutdown()
	}
}

func (s *Servers) shutdown() error {
	log.Info().Dur("grace", s.grace).Msg("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	httpErr := s.httpServer.Shutdown(shutdownCtx)

	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		s.grpcServer.Stop()
	}
	if httpErr != nil {
		return fmt.Errorf("shutdown http server: %w", httpErr)
	}
	return nil
}

func newServers(cfg *config.Config, services api.Services) *Servers {
	grpcSrv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		logUnary,
		rpc.AuthInterceptor(services.Tokens, bookingsapi.MethodPrefix),
	))
	flightsapi.RegisterFlightsServiceServer(grpcSrv, flightsapi.NewServer(services.Flights))
	bookingsapi.RegisterBookingsServiceServer(grpcSrv, bookingsapi.NewServer(services.Bookings))

	grace := time.Duration(cfg.HTTP.ShutdownGraceSeconds) * time.Second
	if grace <= 0 {
		grace = 5 * time.Second
	}

	return &Servers{
		grpcServer: grpcSrv,
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           api.NewRouter(services),
			ReadHeaderTimeout: 10 * time.Second,
		},
		grace: grace,
	}
}

func logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	log.Info().
		Str("method", info.FullMethod).
		Str("code", status.Code(err).String()).
		Dur("latency", time.Since(start)).
		Msg("grpc request")
	return resp, err
}
