package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS journal_entries (
  id          UUID        PRIMARY KEY,
  user_id     TEXT        NOT NULL,
  title       TEXT        NOT NULL,
  content     TEXT        NOT NULL,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  ai_analysis TEXT        NULL,
  is_analyzed BOOLEAN     NOT NULL DEFAULT FALSE
)`,
	`CREATE INDEX IF NOT EXISTS idx_journal_user_created ON journal_entries (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS mood_entries (
  id         UUID        PRIMARY KEY,
  user_id    TEXT        NOT NULL,
  mood       TEXT        NOT NULL CHECK (mood IN ('good','neutral','bad')),
  note       TEXT        NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS idx_mood_user_created ON mood_entries (user_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS profiles (
  id         TEXT        PRIMARY KEY,
  full_name  TEXT        NULL,
  age        INTEGER     NULL,
  avatar_url TEXT        NULL,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
}

// Migrate creates the tables when they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, q := range schema {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
