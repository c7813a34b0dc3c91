package profile

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/journey-within/internal/application"
	"github.com/bryanwahyu/journey-within/internal/domain/failure"
	"github.com/bryanwahyu/journey-within/internal/domain/notice"
	domain "github.com/bryanwahyu/journey-within/internal/domain/profile"
	"github.com/bryanwahyu/journey-within/internal/domain/session"
)

// Service implements use-cases untuk Profile
type Service struct {
	Repo     domain.Repository
	Sessions session.Provider
	Notifier notice.Notifier
	Clock    application.Clock
	Logger   *zap.Logger
}

// UpdateCommand carries the editable fields. Avatar is not editable here.
type UpdateCommand struct {
	FullName string `json:"full_name"`
	Age      *int   `json:"age"`
}

// Get returns the signed-in user's profile. A user without a row gets an empty profile.
func (s *Service) Get(ctx context.Context) (*domain.Profile, error) {
	const op = "profile.Get"
	sess, err := s.session(ctx, op)
	if err != nil {
		return nil, err
	}
	p, err := s.Repo.Get(ctx, sess.UserID)
	if err != nil {
		s.logger().Warn("load profile failed", zap.String("user_id", sess.UserID), zap.Error(err))
		s.notify(ctx, notice.Error("Error", "Failed to load profile. Please try again."))
		return nil, failure.New(failure.StoreReadFailure, op, err)
	}
	if p == nil {
		p = &domain.Profile{ID: sess.UserID}
	}
	return p, nil
}

// Update upserts name and age and stamps updated_at.
func (s *Service) Update(ctx context.Context, cmd UpdateCommand) (*domain.Profile, error) {
	const op = "profile.Update"
	if cmd.Age != nil && *cmd.Age < 0 {
		s.notify(ctx, notice.Error("Error", "Age must be a positive number."))
		return nil, failure.New(failure.ValidationFailure, op, fmt.Errorf("age %d is negative", *cmd.Age))
	}
	sess, err := s.session(ctx, op)
	if err != nil {
		return nil, err
	}

	p := &domain.Profile{
		ID:        sess.UserID,
		FullName:  domain.NormalizeName(cmd.FullName),
		Age:       cmd.Age,
		UpdatedAt: s.now().UTC(),
	}
	if err := s.Repo.Upsert(ctx, p); err != nil {
		s.logger().Warn("upsert profile failed", zap.String("user_id", sess.UserID), zap.Error(err))
		s.notify(ctx, notice.Error("Error", "Failed to update profile. Please try again."))
		return nil, failure.New(failure.StoreWriteFailure, op, err)
	}
	s.notify(ctx, notice.Success("Success", "Profile updated successfully."))
	return p, nil
}

func (s *Service) session(ctx context.Context, op string) (session.Session, error) {
	sess, err := s.Sessions.Current(ctx)
	if err == nil && sess.UserID == "" {
		err = session.ErrNoSession
	}
	if err != nil {
		return session.Session{}, failure.New(failure.NoSession, op, err)
	}
	return sess, nil
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Service) notify(ctx context.Context, n notice.Notice) {
	if s.Notifier == nil {
		notice.ContextNotifier{}.Notify(ctx, n)
		return
	}
	s.Notifier.Notify(ctx, n)
}
