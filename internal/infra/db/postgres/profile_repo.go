package postgres

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

func (r *ProfileRepository) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	const q = `
SELECT id, full_name, age, avatar_url, updated_at
FROM profiles
WHERE id=$1;
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

func (r *ProfileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	const q = `
INSERT INTO profiles (id, full_name, age, updated_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (id) DO UPDATE SET
  full_name=EXCLUDED.full_name,
  age=EXCLUDED.age,
  updated_at=EXCLUDED.updated_at;
`
	if _, err := r.db.ExecContext(ctx, q, p.ID, nullString(p.FullName), nullInt(p.Age), p.UpdatedAt); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
