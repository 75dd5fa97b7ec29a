package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

const flightsPrefix = "cache:flights:"

type RedisCache struct {
	client     redis.UniversalClient
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL,
	)
}

func NewRedisCacheWithClient(client redis.UniversalClient, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, flightsTTL: flightsTTL}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetFlights reports ok=false on a cache miss.
func (c *RedisCache) GetFlights(ctx context.Context, q domain.FlightQuery) ([]domain.Flight, bool, error) {
	data, err := c.client.Get(ctx, FlightsKey(q)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached flights: %w", err)
	}
	return flights, true, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, q domain.FlightQuery, flights []domain.Flight) error {
	if c.flightsTTL <= 0 {
		return nil
	}
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, FlightsKey(q), payload, c.flightsTTL).Err()
}

// InvalidateFlights drops every cached search result. Seat counts change on
// each booking, so cached pages would otherwise show stale availability.
func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, flightsPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan flight cache: %w", err)
	}
	return c.deleteKeys(ctx, keys)
}

// deleteKeys issues one DEL per key so keys may live in different cluster slots.
func (c *RedisCache) deleteKeys(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Del(ctx, key)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete flight cache: %w", err)
	}
	return nil
}

func FlightsKey(q domain.FlightQuery) string {
	return fmt.Sprintf("%s%s:%s:%s:%d:%d:%d:%s", flightsPrefix,
		q.Origin, q.Destination, q.Date.UTC().Format(time.DateOnly),
		q.Passengers, q.Limit, q.Offset, q.Sort)
}
