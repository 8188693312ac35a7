package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

func (db *DB) migrate() error {
	log.Info().Msg("running database migrations")

	migrations := []string{
		db.migrationSaves(),
		db.migrationFlightLog(),
	}
	for i, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_flight_log_plane_id ON flight_log(plane_id)",
		"CREATE INDEX IF NOT EXISTS idx_flight_log_completed_at ON flight_log(completed_at)",
	}
	for _, idx := range indexes {
		if _, err := db.conn.Exec(idx); err != nil {
			return fmt.Errorf("index creation: %w", err)
		}
	}

	log.Info().Msg("migrations complete")
	return nil
}

// migrationSaves holds one JSON document per logical store (player, planes, game, stories).
func (db *DB) migrationSaves() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS saves (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at %s NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`, db.timestampType())
}

func (db *DB) migrationFlightLog() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS flight_log (
		id %s,
		plane_id TEXT NOT NULL,
		route_id TEXT NOT NULL,
		revenue INTEGER NOT NULL,
		distance INTEGER NOT NULL,
		offline BOOLEAN NOT NULL DEFAULT FALSE,
		completed_at %s NOT NULL
	)`, db.autoIncrement(), db.timestampType())
}
