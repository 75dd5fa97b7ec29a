package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const envPrefix = "AIRBOOKING"

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	HTTP       HTTPConfig       `yaml:"http" split_words:"true"`
	GRPC       GRPCConfig       `yaml:"grpc" split_words:"true"`
	Storage    StorageConfig    `yaml:"storage" split_words:"true"`
	Database   DatabaseConfig   `yaml:"database" split_words:"true"`
	Redis      RedisConfig      `yaml:"redis" split_words:"true"`
	Kafka      KafkaConfig      `yaml:"kafka" split_words:"true"`
	Auth       AuthConfig       `yaml:"auth" split_words:"true"`
	Booking    BookingConfig    `yaml:"booking" split_words:"true"`
	Log        LogConfig        `yaml:"log" split_words:"true"`
	Tracing    TracingConfig    `yaml:"tracing" split_words:"true"`
	Migrations MigrationsConfig `yaml:"migrations" split_words:"true"`
}

type HTTPConfig struct {
	Address              string `yaml:"address" split_words:"true"`
	ShutdownGraceSeconds int    `yaml:"shutdown_grace_seconds" split_words:"true"`
}

type GRPCConfig struct {
	Address string `yaml:"address" split_words:"true"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" split_words:"true"`
}

type DatabaseConfig struct {
	Host          string `yaml:"host" split_words:"true"`
	Port          int    `yaml:"port" split_words:"true"`
	User          string `yaml:"user" split_words:"true"`
	Password      string `yaml:"password" split_words:"true"`
	Name          string `yaml:"name" split_words:"true"`
	SSLMode       string `yaml:"ssl_mode" split_words:"true"`
	MaxConns      int32  `yaml:"max_conns" split_words:"true"`
	LockTimeoutMs int    `yaml:"lock_timeout_ms" split_words:"true"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// URL is the connection string form golang-migrate expects.
func (d DatabaseConfig) URL(scheme string) string {
	return fmt.Sprintf("%s://%s:%s@%s:%d/%s?sslmode=%s", scheme, d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

func (d DatabaseConfig) LockTimeout() time.Duration {
	return time.Duration(d.LockTimeoutMs) * time.Millisecond
}

type RedisConfig struct {
	Addr     string `yaml:"addr" split_words:"true"`
	Password string `yaml:"password" split_words:"true"`
	DB       int    `yaml:"db" split_words:"true"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers" split_words:"true"`
	BookingEventsTopic string   `yaml:"booking_events_topic" split_words:"true"`
	NotificationsTopic string   `yaml:"notifications_topic" split_words:"true"`
	GroupID            string   `yaml:"group_id" split_words:"true"`
}

type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret" split_words:"true"`
	TokenTTLSeconds int    `yaml:"token_ttl_seconds" split_words:"true"`
	BcryptCost      int    `yaml:"bcrypt_cost" split_words:"true"`
}

func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLSeconds) * time.Second
}

type BookingConfig struct {
	ConfirmationPrefix     string `yaml:"confirmation_prefix" split_words:"true"`
	FlightsCacheTTLSeconds int    `yaml:"flights_cache_ttl_seconds" split_words:"true"`
}

func (b BookingConfig) FlightsCacheDuration() time.Duration {
	return time.Duration(b.FlightsCacheTTLSeconds) * time.Second
}

type LogConfig struct {
	Level  string `yaml:"level" split_words:"true"`
	Pretty bool   `yaml:"pretty" split_words:"true"`
}

type TracingConfig struct {
	Endpoint    string `yaml:"endpoint" split_words:"true"`
	ServiceName string `yaml:"service_name" split_words:"true"`
}

type MigrationsConfig struct {
	SeedFile string `yaml:"seed_file" split_words:"true"`
}

// Default returns the settings used when a key is absent from both the file and the environment.
func Default() Config {
	return Config{
		HTTP:     HTTPConfig{Address: ":8080", ShutdownGraceSeconds: 5},
		GRPC:     GRPCConfig{Address: ":9090"},
		Storage:  StorageConfig{Driver: StorageDriverPostgres},
		Database: DatabaseConfig{Host: "localhost", Port: 5432, SSLMode: "disable", MaxConns: 10, LockTimeoutMs: 5000},
		Kafka: KafkaConfig{
			BookingEventsTopic: "booking-events",
			NotificationsTopic: "booking-notifications",
			GroupID:            "airbooking-worker",
		},
		Auth:    AuthConfig{TokenTTLSeconds: 4 * 60 * 60, BcryptCost: 10},
		Booking: BookingConfig{ConfirmationPrefix: "BOOK", FlightsCacheTTLSeconds: 60},
		Log:     LogConfig{Level: "info"},
		Tracing: TracingConfig{ServiceName: "airbooking"},
	}
}

// LoadConfig reads the YAML file at path, then applies .env and AIRBOOKING_* environment overrides.
// Keys are derived from field names (Database.LockTimeoutMs -> AIRBOOKING_DATABASE_LOCK_TIMEOUT_MS);
// unprefixed variables such as USER or PORT are never consulted.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// environment-only deployments are allowed
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// .env is optional; a missing file is not an error
	_ = godotenv.Load()

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("config: auth.jwt_secret is required")
	}
	if c.Auth.TokenTTLSeconds <= 0 {
		return errors.New("config: auth.token_ttl_seconds must be positive")
	}
	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	if c.Booking.FlightsCacheTTLSeconds < 0 {
		return errors.New("config: booking.flights_cache_ttl_seconds must not be negative")
	}
	return nil
}
