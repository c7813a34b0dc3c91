package journal

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no entry with the id is owned by the user.
var ErrNotFound = errors.New("journal entry not found")

// ErrAlreadyAnalyzed is returned when the analysis fields were already set.
var ErrAlreadyAnalyzed = errors.New("journal entry already analyzed")

// Repository port (interface untuk persistence)
// Every method is scoped to the owning user.
type Repository interface {
	List(ctx context.Context, userID string) ([]*Entry, error)
	Create(ctx context.Context, e *Entry) error
	// SaveAnalysis writes only while is_analyzed is still false.
	SaveAnalysis(ctx context.Context, userID string, id EntryID, analysis string) error
	Delete(ctx context.Context, userID string, id EntryID) error
}
