package mysql

import (
	"context"
	"database/sql"
	"fmt"

	domain "github.com/bryanwahyu/journey-within/internal/domain/profile"
)

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get returns nil, nil when the row does not exist
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	const q = `
SELECT id, full_name, age, avatar_url, updated_at
FROM profiles
WHERE id=? LIMIT 1;
`
	var p domain.Profile
	var name, avatar sql.NullString
	var age sql.NullInt64
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&p.ID, &name, &age, &avatar, &p.UpdatedAt)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	p.FullName = stringPtr(name)
	p.Age = intPtr(age)
	p.AvatarURL = stringPtr(avatar)
	return &p, nil
}

// Upsert writes full_name, age and updated_at; avatar_url is left as is
func (r *ProfileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	const q = `
INSERT INTO profiles (id, full_name, age, updated_at)
VALUES (?,?,?,?)
ON DUPLICATE KEY UPDATE
  full_name=VALUES(full_name), age=VALUES(age), updated_at=VALUES(updated_at);
`
	if _, err := r.db.ExecContext(ctx, q, p.ID, nullString(p.FullName), nullInt(p.Age), p.UpdatedAt); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
