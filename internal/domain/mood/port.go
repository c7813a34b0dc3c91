package mood

import (
	"context"
	"time"
)

// Repository port (interface untuk persistence)
type Repository interface {
	Insert(ctx context.Context, e *Entry) error
	// Between returns the user's entries with from <= created_at <= to, oldest first.
	Between(ctx context.Context, userID string, from, to time.Time) ([]*Entry, error)
}
