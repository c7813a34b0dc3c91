package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS journal_entries (
  id          CHAR(36)     NOT NULL PRIMARY KEY,
  user_id     VARCHAR(64)  NOT NULL,
  title       TEXT         NOT NULL,
  content     MEDIUMTEXT   NOT NULL,
  created_at  DATETIME(6)  NOT NULL,
  ai_analysis MEDIUMTEXT   NULL,
  is_analyzed BOOLEAN      NOT NULL DEFAULT FALSE,
  KEY idx_journal_user_created (user_id, created_at)
) DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS mood_entries (
  id         CHAR(36)    NOT NULL PRIMARY KEY,
  user_id    VARCHAR(64) NOT NULL,
  mood       ENUM('good','neutral','bad') NOT NULL,
  note       TEXT        NULL,
  created_at DATETIME(6) NOT NULL,
  KEY idx_mood_user_created (user_id, created_at)
) DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS profiles (
  id         VARCHAR(64)  NOT NULL PRIMARY KEY,
  full_name  VARCHAR(255) NULL,
  age        INT          NULL,
  avatar_url TEXT         NULL,
  updated_at DATETIME(6)  NOT NULL
) DEFAULT CHARSET=utf8mb4`,
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
