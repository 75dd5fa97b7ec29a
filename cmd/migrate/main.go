package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/Domenick1991/flightbooking/internal/migrations"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/seed"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const actionSeed = "seed"

func main() {
	cfgPath := flag.String("config", envOr("CONFIG_PATH", "config.yaml"), "path to config file")
	seedFile := flag.String("file", "", "seed file (defaults to migrations.seed_file)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: migrate [flags] up|down|step-up|drop|seed\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	action := migrations.ActionUp
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)

	switch {
	case action == actionSeed:
		path := *seedFile
		if path == "" {
			path = cfg.Migrations.SeedFile
		}
		if err := runSeed(cfg, path); err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("seed failed")
		}
	case migrations.ValidAction(action):
		if err := migrations.Run(cfg.Database.URL(migrations.DriverScheme), action); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runSeed(cfg *config.Config, path string) error {
	if path == "" {
		return fmt.Errorf("no seed file configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	_, err = seed.LoadFile(ctx, path, repository.NewFlightRepository(pool))
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
