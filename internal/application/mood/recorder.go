package mood

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/journey-within/internal/application"
	"github.com/bryanwahyu/journey-within/internal/domain/failure"
	domain "github.com/bryanwahyu/journey-within/internal/domain/mood"
	"github.com/bryanwahyu/journey-within/internal/domain/notice"
	"github.com/bryanwahyu/journey-within/internal/domain/session"
)

// ErrBusy is returned when a submit arrives while another one is still running.
var ErrBusy = errors.New("mood submit already in progress")

// State of the recorder form.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
)

// Draft is the user's pending input. It survives a failed submit.
type Draft struct {
	Mood string `json:"mood"`
	Note string `json:"note"`
}

// Deps are shared by every recorder and by Stats.
type Deps struct {
	Repo     domain.Repository
	Sessions session.Provider
	Notifier notice.Notifier
	Clock    application.Clock
	Logger   *zap.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Clock == nil {
		d.Clock = application.SystemClock{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Notifier == nil {
		d.Notifier = notice.ContextNotifier{}
	}
	return d
}

// Recorder records one user's mood check-ins.
type Recorder struct {
	deps Deps

	mu    sync.Mutex
	state State
	draft Draft
}

func NewRecorder(d Deps) *Recorder {
	return &Recorder{deps: d.withDefaults(), state: StateIdle}
}

// Record validates and appends a mood entry. The draft is cleared only after the
// store confirms the insert.
func (r *Recorder) Record(ctx context.Context, rawMood, note string) (*domain.Entry, error) {
	const op = "mood.Record"

	r.mu.Lock()
	if r.state == StateSubmitting {
		r.mu.Unlock()
		return nil, failure.New(failure.ValidationFailure, op, ErrBusy)
	}
	r.draft = Draft{Mood: rawMood, Note: note}
	m, err := domain.Parse(rawMood)
	if err != nil {
		r.mu.Unlock()
		r.deps.Notifier.Notify(ctx, notice.Error("Error", "Please select a mood"))
		return nil, failure.New(failure.ValidationFailure, op, err)
	}
	r.state = StateSubmitting
	r.mu.Unlock()
	defer r.setState(StateIdle)

	sess, err := r.deps.Sessions.Current(ctx)
	if err == nil && sess.UserID == "" {
		err = session.ErrNoSession
	}
	if err != nil {
		r.deps.Notifier.Notify(ctx, notice.Error("Please sign in", "You need to be signed in to record your mood."))
		return nil, failure.New(failure.NoSession, op, err)
	}

	e := &domain.Entry{
		ID:        uuid.New().String(),
		UserID:    sess.UserID,
		Mood:      m,
		Note:      domain.NormalizeNote(note),
		CreatedAt: r.deps.Clock.Now().UTC(),
	}
	if err := r.deps.Repo.Insert(ctx, e); err != nil {
		r.deps.Logger.Warn("insert mood failed", zap.String("user_id", sess.UserID), zap.Error(err))
		r.deps.Notifier.Notify(ctx, notice.Error("Error", "Failed to record your mood. Please try again."))
		return nil, failure.New(failure.StoreWriteFailure, op, err)
	}

	r.mu.Lock()
	r.draft = Draft{}
	r.mu.Unlock()

	r.deps.Logger.Info("mood recorded", zap.String("user_id", sess.UserID), zap.String("mood", string(m)))
	r.deps.Notifier.Notify(ctx, notice.Success("Mood recorded", ""))
	return e, nil
}

func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Recorder) Draft() Draft {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.draft
}

func (r *Recorder) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// Recorders keeps one Recorder per user.
type Recorders struct {
	deps Deps

	mu   sync.Mutex
	byID map[string]*Recorder
}

func NewRecorders(d Deps) *Recorders {
	return &Recorders{deps: d, byID: make(map[string]*Recorder)}
}

func (rs *Recorders) For(userID string) *Recorder {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if r, ok := rs.byID[userID]; ok {
		return r
	}
	r := NewRecorder(rs.deps)
	rs.byID[userID] = r
	return r
}

func (rs *Recorders) Release(userID string) {
	rs.mu.Lock()
	delete(rs.byID, userID)
	rs.mu.Unlock()
}
