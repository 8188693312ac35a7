package database

import (
	"context"

	"github.com/nzvengeance/skylog/internal/config"
	"github.com/nzvengeance/skylog/internal/models"
)

// Logical save keys.
const (
	KeyPlayer  = "player"
	KeyPlanes  = "planes"
	KeyGame    = "game"
	KeyStories = "stories"
)

// Store persists game snapshots as opaque JSON documents plus an append-only
// flight log.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	RecordFlights(ctx context.Context, entries []models.FlightLogEntry) error
	RecentFlights(ctx context.Context, n int) ([]models.FlightLogEntry, error)
	Close() error
}

var (
	_ Store = (*DB)(nil)
	_ Store = (*RedisStore)(nil)
)

// Open returns the store selected by DB_DRIVER.
func Open(cfg *config.Config) (Store, error) {
	if cfg.DBDriver == "redis" {
		return NewRedisStore(cfg.RedisAddr, cfg.RedisPassword)
	}
	return New(cfg)
}
