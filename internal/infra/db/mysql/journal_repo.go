package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domain "github.com/bryanwahyu/journey-within/internal/domain/journal"
)

type JournalRepository struct {
	db *sql.DB
}

func NewJournalRepository(db *sql.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// List semua entry milik user, terbaru dulu
func (r *JournalRepository) List(ctx context.Context, userID string) ([]*domain.Entry, error) {
	const q = `
SELECT id, user_id, title, content, created_at, ai_analysis, is_analyzed
FROM journal_entries
WHERE user_id=?
ORDER BY created_at DESC, id DESC;
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	out := []*domain.Entry{}
	for rows.Next() {
		var e domain.Entry
		var analysis sql.NullString
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Content, &e.CreatedAt, &analysis, &e.IsAnalyzed); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		e.AIAnalysis = stringPtr(analysis)
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *JournalRepository) Create(ctx context.Context, e *domain.Entry) error {
	const q = `
INSERT INTO journal_entries
  (id, user_id, title, content, created_at, ai_analysis, is_analyzed)
VALUES (?,?,?,?,?,?,?);
`
	_, err := r.db.ExecContext(ctx, q, e.ID, e.UserID, e.Title, e.Content, e.CreatedAt, nullString(e.AIAnalysis), e.IsAnalyzed)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}

// SaveAnalysis set ai_analysis + is_analyzed untuk satu entry milik user.
// Kolom analysis hanya diisi sekali.
func (r *JournalRepository) SaveAnalysis(ctx context.Context, userID string, id domain.EntryID, analysis string) error {
	const q = `
UPDATE journal_entries
SET ai_analysis=?, is_analyzed=TRUE
WHERE id=? AND user_id=? AND is_analyzed=FALSE;
`
	err := affectedOne(r.db.ExecContext(ctx, q, analysis, id, userID))
	if errors.Is(err, domain.ErrNotFound) {
		err = r.whyNotSaved(ctx, userID, id)
	}
	if err != nil {
		return fmt.Errorf("save analysis %s: %w", id, err)
	}
	return nil
}

// whyNotSaved bedakan entry yang tidak ada dengan entry yang sudah dianalisis
func (r *JournalRepository) whyNotSaved(ctx context.Context, userID string, id domain.EntryID) error {
	const q = `SELECT is_analyzed FROM journal_entries WHERE id=? AND user_id=?;`
	var analyzed bool
	err := r.db.QueryRowContext(ctx, q, id, userID).Scan(&analyzed)
	switch {
	case isNoRows(err):
		return domain.ErrNotFound
	case err != nil:
		return err
	case analyzed:
		return domain.ErrAlreadyAnalyzed
	default:
		return domain.ErrNotFound
	}
}

func (r *JournalRepository) Delete(ctx context.Context, userID string, id domain.EntryID) error {
	const q = `DELETE FROM journal_entries WHERE id=? AND user_id=?;`
	if err := affectedOne(r.db.ExecContext(ctx, q, id, userID)); err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}
	return nil
}
