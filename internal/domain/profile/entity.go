package profile

import (
	"context"
	"strings"
	"time"
)

// Profile of a signed-in user. ID equals the user id.
type Profile struct {
	ID        string    `json:"id"`
	FullName  *string   `json:"full_name"`
	Age       *int      `json:"age"`
	AvatarURL *string   `json:"avatar_url"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeName trims the name; a blank name is stored as NULL.
func NormalizeName(name string) *string {
	n := strings.TrimSpace(name)
	if n == "" {
		return nil
	}
	return &n
}

// Repository port (interface untuk persistence)
type Repository interface {
	// Get returns nil, nil when the user has no profile row yet.
	Get(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, p *Profile) error
}
