package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/journey-within/internal/domain/mood"
)

type MoodRepository struct {
	db *sql.DB
}

func NewMoodRepository(db *sql.DB) *MoodRepository {
	return &MoodRepository{db: db}
}

func (r *MoodRepository) Insert(ctx context.Context, e *domain.Entry) error {
	const q = `
INSERT INTO mood_entries (id, user_id, mood, note, created_at)
VALUES ($1,$2,$3,$4,$5);
`
	if _, err := r.db.ExecContext(ctx, q, e.ID, e.UserID, e.Mood, nullString(e.Note), e.CreatedAt); err != nil {
		return fmt.Errorf("insert mood entry: %w", err)
	}
	return nil
}

// Between returns entries in [from, to], oldest first
func (r *MoodRepository) Between(ctx context.Context, userID string, from, to time.Time) ([]*domain.Entry, error) {
	const q = `
SELECT id, user_id, mood, note, created_at
FROM mood_entries
WHERE user_id=$1 AND created_at >= $2 AND created_at <= $3
ORDER BY created_at ASC;
`
	rows, err := r.db.QueryContext(ctx, q, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list mood entries: %w", err)
	}
	defer rows.Close()

	var out []*domain.Entry
	for rows.Next() {
		var e domain.Entry
		var note sql.NullString
		if err := rows.Scan(&e.ID, &e.UserID, &e.Mood, &note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan mood entry: %w", err)
		}
		e.Note = stringPtr(note)
		out = append(out, &e)
	}
	return out, rows.Err()
}
