package session

import (
	"context"
	"errors"
)

// ErrNoSession means the caller is not signed in and must be sent to the sign-in view.
var ErrNoSession = errors.New("no active session")

// Session identifies the signed-in user.
type Session struct {
	UserID string
	Token  string
}

// Provider port (interface untuk ambil identitas user saat ini)
type Provider interface {
	Current(ctx context.Context) (Session, error)
}
