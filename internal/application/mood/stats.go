package mood

import (
	"context"

	"go.uber.org/zap"

	"github.com/bryanwahyu/journey-within/internal/domain/failure"
	domain "github.com/bryanwahyu/journey-within/internal/domain/mood"
	"github.com/bryanwahyu/journey-within/internal/domain/session"
)

// Stats builds the weekly mood chart.
type Stats struct {
	deps Deps
}

func NewStats(d Deps) *Stats {
	return &Stats{deps: d.withDefaults()}
}

// Week reads this week's entries (Sunday to Saturday) and buckets them into the
// last seven days ending today.
func (s *Stats) Week(ctx context.Context) ([]domain.DayCounts, error) {
	const op = "mood.Week"
	sess, err := s.deps.Sessions.Current(ctx)
	if err == nil && sess.UserID == "" {
		err = session.ErrNoSession
	}
	if err != nil {
		return nil, failure.New(failure.NoSession, op, err)
	}

	now := s.deps.Clock.Now()
	from, to := domain.WeekBounds(now)
	entries, err := s.deps.Repo.Between(ctx, sess.UserID, from, to)
	if err != nil {
		s.deps.Logger.Warn("read mood week failed", zap.String("user_id", sess.UserID), zap.Error(err))
		return nil, failure.New(failure.StoreReadFailure, op, err)
	}
	return domain.LastSevenDays(entries, now), nil
}
