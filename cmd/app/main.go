// @title Flight Booking API
// @version 1.0
// @description Flight search, registration and atomic seat booking.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightbooking/api"
	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/bootstrap"
	"github.com/Domenick1991/flightbooking/internal/cache"
	"github.com/Domenick1991/flightbooking/internal/confirmation"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/Domenick1991/flightbooking/internal/password"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/repository/memory"
	"github.com/Domenick1991/flightbooking/internal/seed"
	"github.com/Domenick1991/flightbooking/internal/service/auth"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/Domenick1991/flightbooking/internal/token"
	"github.com/Domenick1991/flightbooking/internal/tracing"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

type stores struct {
	txm       repository.TxManager
	inventory repository.InventoryStore
	ledger    repository.BookingLedger
	flights   repository.FlightRepository
	users     repository.UserRepository
	close     func()
}

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)
	if !cfg.Log.Pretty {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing.Endpoint, cfg.Tracing.ServiceName)
	if err != nil {
		log.Fatal().Err(err).Msg("init tracing")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown")
		}
	}()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("open storage")
	}
	defer st.close()

	var flightCache flights.FlightCache
	bookingOpts := []booking.BookingServiceOption{}
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.FlightsCacheDuration())
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, cache calls will fail soft")
		}
		flightCache = redisCache
		bookingOpts = append(bookingOpts, booking.WithCacheInvalidator(redisCache))
	}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			log.Warn().Err(err).Strs("brokers", cfg.Kafka.Brokers).Msg("kafka unavailable, booking events will be dropped")
		}
		bookingOpts = append(bookingOpts,
			booking.WithEvents(producer, cfg.Kafka.BookingEventsTopic),
			booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		)
	}

	tokens := token.NewService(cfg.Auth.JWTSecret)
	services := api.Services{
		Auth:    auth.NewAuthService(st.users, password.NewHasher(cfg.Auth.BcryptCost), tokens, cfg.Auth.TokenTTL()),
		Flights: flights.NewFlightService(st.flights, flightCache),
		Bookings: booking.NewBookingService(
			st.txm,
			st.inventory,
			st.ledger,
			confirmation.NewGenerator(cfg.Booking.ConfirmationPrefix),
			bookingOpts...,
		),
		Tokens: tokens,
	}

	if err := bootstrap.Run(ctx, cfg, services); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("server stopped")
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		store := memory.NewStore()
		if cfg.Migrations.SeedFile != "" {
			if _, err := seed.LoadFile(ctx, cfg.Migrations.SeedFile, store.Flights()); err != nil {
				log.Warn().Err(err).Msg("seed in-memory flights")
			}
		}
		return &stores{
			txm:       store,
			inventory: store.Flights(),
			ledger:    store.Bookings(),
			flights:   store.Flights(),
			users:     store.Users(),
			close:     func() {},
		}, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		return nil, err
	}
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Database.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	flightRepo := repository.NewFlightRepository(pool)
	return &stores{
		txm:       repository.NewTxManager(pool, cfg.Database.LockTimeout()),
		inventory: flightRepo,
		ledger:    repository.NewBookingRepository(pool),
		flights:   flightRepo,
		users:     repository.NewUserRepository(pool),
		close:     pool.Close,
	}, nil
}
