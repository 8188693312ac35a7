package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nzvengeance/skylog/internal/config"
	"github.com/nzvengeance/skylog/internal/models"
	"github.com/rs/zerolog/log"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the SQL save store for sqlite and postgres.
type DB struct {
	conn   *sql.DB
	driver string
}

// New creates a new database connection based on config
func New(cfg *config.Config) (*DB, error) {
	var conn *sql.DB
	var err error

	switch cfg.DBDriver {
	case "sqlite":
		// Ensure directory exists
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
		conn, err = sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		conn.SetMaxOpenConns(1) // SQLite is single-writer
	case "postgres":
		if cfg.DBURL == "" {
			return nil, fmt.Errorf("DATABASE_URL required for postgres driver")
		}
		conn, err = sql.Open("pgx", cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		conn.SetMaxOpenConns(10)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db := &DB{conn: conn, driver: cfg.DBDriver}

	if err := db.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	log.Info().Str("driver", cfg.DBDriver).Msg("database connected")
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// autoIncrement returns the correct auto-increment syntax
func (db *DB) autoIncrement() string {
	if db.driver == "postgres" {
		return "SERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

// onConflictUpdate returns the correct upsert syntax
func (db *DB) onConflictUpdate(conflictCol, updateCols string) string {
	if db.driver == "postgres" {
		return fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s", conflictCol, updateCols)
	}
	return fmt.Sprintf("ON CONFLICT(%s) DO UPDATE SET %s", conflictCol, updateCols)
}

// timestampType returns the correct timestamp type
func (db *DB) timestampType() string {
	if db.driver == "postgres" {
		return "TIMESTAMPTZ"
	}
	return "DATETIME"
}

// now returns the correct current timestamp function
func (db *DB) now() string {
	if db.driver == "postgres" {
		return "NOW()"
	}
	return "datetime('now')"
}

// rebind rewrites ? placeholders for the active driver.
func (db *DB) rebind(query string) string {
	if db.driver == "postgres" {
		return replacePlaceholders(query)
	}
	return query
}

// --- Save Operations ---

func (db *DB) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := db.conn.QueryRowContext(ctx, db.rebind("SELECT value FROM saves WHERE key = ?"), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (db *DB) Save(ctx context.Context, key string, value []byte) error {
	query := fmt.Sprintf(`INSERT INTO saves (key, value, updated_at) VALUES (?, ?, %s) %s`,
		db.now(),
		db.onConflictUpdate("key", fmt.Sprintf("value=excluded.value, updated_at=%s", db.now())),
	)
	if _, err := db.conn.ExecContext(ctx, db.rebind(query), key, string(value)); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// --- Flight Log Operations ---

func (db *DB) RecordFlights(ctx context.Context, entries []models.FlightLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning flight log tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, db.rebind(`
		INSERT INTO flight_log (plane_id, route_id, revenue, distance, offline, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("preparing flight log insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.PlaneID, e.RouteID, e.Revenue, e.Distance, e.Offline, e.CompletedAt.UTC()); err != nil {
			return fmt.Errorf("inserting flight log: %w", err)
		}
	}
	return tx.Commit()
}

// RecentFlights returns up to n flight log entries, newest first.
func (db *DB) RecentFlights(ctx context.Context, n int) ([]models.FlightLogEntry, error) {
	rows, err := db.conn.QueryContext(ctx, db.rebind(`
		SELECT id, plane_id, route_id, revenue, distance, offline, completed_at
		FROM flight_log ORDER BY id DESC LIMIT ?`), n)
	if err != nil {
		return nil, fmt.Errorf("querying flight log: %w", err)
	}
	defer rows.Close()

	entries := []models.FlightLogEntry{}
	for rows.Next() {
		var e models.FlightLogEntry
		var completed time.Time
		if err := rows.Scan(&e.ID, &e.PlaneID, &e.RouteID, &e.Revenue, &e.Distance, &e.Offline, &completed); err != nil {
			return nil, fmt.Errorf("scanning flight log: %w", err)
		}
		e.CompletedAt = completed.UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// replacePlaceholders converts ? to $1, $2, etc. for PostgreSQL
func replacePlaceholders(query string) string {
	result := make([]byte, 0, len(query)+10)
	n := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result = append(result, '$')
			result = append(result, []byte(fmt.Sprintf("%d", n))...)
			n++
		} else {
			result = append(result, query[i])
		}
	}
	return string(result)
}
