package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-lookup/internal/storage"

	_ "modernc.org/sqlite"
)

const (
	driverName = "sqlite"
	dialect    = "sqlite3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Open opens (creating if needed) the sqlite database file at name.
func Open(name string) (*sql.DB, error) {
	if name == "" {
		return nil, errors.New("database name cannot be empty")
	}
	db, err := sql.Open(driverName, "file:"+name+"?cache=shared&mode=rwc")
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer at a time
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the embedded goose migrations.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	return goose.Up(db, "migrations")
}

// Store is a KV backed by the kv table.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewStore(db *sql.DB, logger zerolog.Logger) *Store {
	logger = logger.With().Str("component", "SqliteKV").Logger()
	return &Store{db: db, log: logger}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	start := time.Now()
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrKeyNotFound
	}
	if err != nil {
		s.log.Error().Err(err).Ctx(ctx).
			Str("key", key).
			Msg("failed to query kv value")
		return "", err
	}

	s.log.Debug().Ctx(ctx).
		Str("key", key).
		Dur("duration", time.Since(start)).
		Msg("kv value loaded")
	return value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		s.log.Error().Err(err).Ctx(ctx).
			Str("key", key).
			Msg("failed to upsert kv value")
		return err
	}

	s.log.Debug().Ctx(ctx).
		Str("key", key).
		Dur("duration", time.Since(start)).
		Msg("kv value stored")
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		s.log.Error().Err(err).Ctx(ctx).
			Str("key", key).
			Msg("failed to delete kv value")
		return err
	}

	s.log.Debug().Ctx(ctx).Str("key", key).Msg("kv value deleted")
	return nil
}
