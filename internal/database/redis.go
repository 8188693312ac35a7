package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/nzvengeance/skylog/internal/models"
)

const (
	redisPrefix     = "skylog:"
	flightLogKey    = redisPrefix + "flight_log"
	flightSeqKey    = redisPrefix + "flight_seq"
	maxRedisFlights = 1000
)

// RedisStore keeps each save under a string key and the flight log in a
// capped list, newest first.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr, password string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	log.Info().Str("driver", "redis").Str("addr", addr).Msg("database connected")
	return &RedisStore{client: rdb}, nil
}

func (r *RedisStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, redisPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading %s: %w", key, err)
	}
	return val, true, nil
}

func (r *RedisStore) Save(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, redisPrefix+key, value, 0).Err()
}

func (r *RedisStore) RecordFlights(ctx context.Context, entries []models.FlightLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	last, err := r.client.IncrBy(ctx, flightSeqKey, int64(len(entries))).Result()
	if err != nil {
		return fmt.Errorf("allocating flight log ids: %w", err)
	}
	first := int(last) - len(entries) + 1

	values := make([]any, 0, len(entries))
	for i, e := range entries {
		e.ID = first + i
		e.CompletedAt = e.CompletedAt.UTC()
		raw, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encoding flight log: %w", err)
		}
		values = append(values, raw)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, flightLogKey, values...)
	pipe.LTrim(ctx, flightLogKey, 0, maxRedisFlights-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("writing flight log: %w", err)
	}
	return nil
}

func (r *RedisStore) RecentFlights(ctx context.Context, n int) ([]models.FlightLogEntry, error) {
	if n <= 0 {
		return []models.FlightLogEntry{}, nil
	}
	raws, err := r.client.LRange(ctx, flightLogKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading flight log: %w", err)
	}

	entries := make([]models.FlightLogEntry, 0, len(raws))
	for _, raw := range raws {
		var e models.FlightLogEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			log.Warn().Err(err).Msg("skipping malformed flight log entry")
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
