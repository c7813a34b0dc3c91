package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/journey-within/internal/application"
	"github.com/bryanwahyu/journey-within/internal/domain/failure"
	"github.com/bryanwahyu/journey-within/internal/domain/insight"
	domain "github.com/bryanwahyu/journey-within/internal/domain/journal"
	"github.com/bryanwahyu/journey-within/internal/domain/notice"
	"github.com/bryanwahyu/journey-within/internal/domain/session"
)

// ErrClosed is returned when a result arrives after the controller was torn down.
// The result is discarded.
var ErrClosed = errors.New("journal controller closed")

// ErrAlreadyAnalyzed guards the set-once analysis fields.
var ErrAlreadyAnalyzed = domain.ErrAlreadyAnalyzed

// Deps are the collaborators shared by every controller.
type Deps struct {
	Repo      domain.Repository
	Generator insight.Generator
	Sessions  session.Provider
	Notifier  notice.Notifier
	Clock     application.Clock
	Logger    *zap.Logger
	// Prompt is the fixed instruction sent with every analyze request.
	Prompt string
}

// Controller holds one user's loaded entries and the single in-flight analysis marker.
// It is safe for concurrent use; the lock is never held across a store or generator call.
type Controller struct {
	deps   Deps
	owner  string
	base   context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	entries   []*domain.Entry
	loaded    bool
	analyzing domain.EntryID
	closed    bool
}

// NewController builds a controller for owner. An empty owner accepts any session.
func NewController(owner string, d Deps) *Controller {
	if d.Clock == nil {
		d.Clock = application.SystemClock{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Notifier == nil {
		d.Notifier = notice.ContextNotifier{}
	}
	base, cancel := context.WithCancel(context.Background())
	return &Controller{deps: d, owner: owner, base: base, cancel: cancel}
}

//
// ==== USE CASES ====
//

// Load fetches every entry of the signed-in user, newest first.
func (c *Controller) Load(ctx context.Context) error {
	const op = "journal.Load"
	sess, err := c.session(ctx, op)
	if err != nil {
		return err
	}

	ctx, done := c.opContext(ctx)
	defer done()

	list, err := c.deps.Repo.List(ctx, sess.UserID)
	if err != nil {
		c.deps.Logger.Warn("load entries failed", zap.String("user_id", sess.UserID), zap.Error(err))
		c.mu.Lock()
		if !c.closed {
			c.entries = nil
			c.loaded = false
		}
		c.mu.Unlock()
		c.notify(ctx, notice.Error("Error", "Failed to load your journal entries. Please try again."))
		return failure.New(failure.StoreReadFailure, op, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.entries = list
	c.loaded = true
	return nil
}

// EnsureLoaded loads the list unless a previous Load succeeded.
func (c *Controller) EnsureLoaded(ctx context.Context) error {
	c.mu.Lock()
	loaded := c.loaded
	c.mu.Unlock()
	if loaded {
		return nil
	}
	return c.Load(ctx)
}

// Analyze asks the generator for a reflection on a loaded entry and stores it.
// The in-memory entry changes only after the store confirms the write.
func (c *Controller) Analyze(ctx context.Context, id domain.EntryID) error {
	const op = "journal.Analyze"
	sess, err := c.session(ctx, op)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.analyzing = id
	entry := c.find(id)
	c.mu.Unlock()
	defer c.clearAnalyzing(id)

	if entry == nil {
		c.notify(ctx, notice.Error("Error", "Entry not found."))
		return failure.New(failure.ValidationFailure, op, domain.ErrNotFound)
	}
	if entry.IsAnalyzed {
		c.notify(ctx, notice.Error("Error", "Entry has already been analyzed."))
		return failure.New(failure.ValidationFailure, op, ErrAlreadyAnalyzed)
	}

	ctx, done := c.opContext(ctx)
	defer done()

	log := c.deps.Logger.With(zap.String("user_id", sess.UserID), zap.String("entry_id", string(id)))

	text, err := c.deps.Generator.Generate(ctx, insight.Request{
		Title:   entry.Title,
		Content: entry.Content,
		Prompt:  c.deps.Prompt,
	})
	if err == nil && strings.TrimSpace(text) == "" {
		err = insight.ErrEmptyAnalysis
	}
	if err != nil {
		log.Warn("generate analysis failed", zap.Error(err))
		c.notify(ctx, analyzeFailed)
		return failure.New(failure.GeneratorFailure, op, err)
	}

	if err := c.deps.Repo.SaveAnalysis(ctx, sess.UserID, id, text); err != nil {
		if errors.Is(err, domain.ErrAlreadyAnalyzed) {
			log.Info("entry analyzed concurrently, keeping stored analysis")
			c.notify(ctx, notice.Error("Error", "Entry has already been analyzed."))
			return failure.New(failure.ValidationFailure, op, ErrAlreadyAnalyzed)
		}
		log.Warn("save analysis failed", zap.Error(err))
		c.notify(ctx, analyzeFailed)
		return failure.New(failure.StoreWriteFailure, op, err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		log.Info("discarding analysis for closed controller")
		return ErrClosed
	}
	for i, e := range c.entries {
		if e.ID == id {
			updated := e.WithAnalysis(text)
			c.entries[i] = &updated
			break
		}
	}
	c.mu.Unlock()

	log.Info("entry analyzed", zap.Int("analysis_len", len(text)))
	c.notify(ctx, notice.Success("Success", "Entry has been analyzed successfully."))
	return nil
}

var analyzeFailed = notice.Error("Error", "Failed to analyze the entry. Please try again.")

// Delete removes the entry from the store, then from memory.
// An entry the store no longer has counts as deleted.
func (c *Controller) Delete(ctx context.Context, id domain.EntryID) error {
	const op = "journal.Delete"
	sess, err := c.session(ctx, op)
	if err != nil {
		return err
	}

	ctx, done := c.opContext(ctx)
	defer done()

	if err := c.deps.Repo.Delete(ctx, sess.UserID, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		c.deps.Logger.Warn("delete entry failed",
			zap.String("user_id", sess.UserID), zap.String("entry_id", string(id)), zap.Error(err))
		c.notify(ctx, notice.Error("Error", "Failed to delete the entry. Please try again."))
		return failure.New(failure.StoreWriteFailure, op, err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	kept := make([]*domain.Entry, 0, len(c.entries))
	for _, e := range c.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	c.entries = kept
	c.mu.Unlock()

	c.notify(ctx, notice.Success("Success", "Entry deleted successfully."))
	return nil
}

// Create validates and stores a new entry, then prepends it to a loaded list.
func (c *Controller) Create(ctx context.Context, title, content string) (*domain.Entry, error) {
	const op = "journal.Create"
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		c.notify(ctx, notice.Error("Error", "Please fill in both title and content fields."))
		return nil, failure.New(failure.ValidationFailure, op, fmt.Errorf("title and content are required"))
	}
	sess, err := c.session(ctx, op)
	if err != nil {
		return nil, err
	}

	ctx, done := c.opContext(ctx)
	defer done()

	e := &domain.Entry{
		ID:         domain.EntryID(uuid.New().String()),
		UserID:     sess.UserID,
		Title:      title,
		Content:    content,
		CreatedAt:  c.deps.Clock.Now().UTC(),
		IsAnalyzed: false,
	}
	if err := c.deps.Repo.Create(ctx, e); err != nil {
		c.deps.Logger.Warn("create entry failed", zap.String("user_id", sess.UserID), zap.Error(err))
		c.notify(ctx, notice.Error("Error", "Failed to save your entry. Please try again."))
		return nil, failure.New(failure.StoreWriteFailure, op, err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return e, ErrClosed
	}
	if c.loaded {
		c.entries = append([]*domain.Entry{e}, c.entries...)
	}
	c.mu.Unlock()

	c.notify(ctx, notice.Success("Success", "Your journal entry has been saved."))
	return e, nil
}

//
// ==== VIEW STATE ====
//

// Entries returns the loaded list narrowed by the date filter keyword.
func (c *Controller) Entries(keyword string) []*domain.Entry {
	c.mu.Lock()
	list := make([]*domain.Entry, len(c.entries))
	copy(list, c.entries)
	c.mu.Unlock()
	return domain.Filter(list, keyword, c.deps.Clock.Now())
}

// AnalyzingID returns the entry currently marked in flight, or "".
func (c *Controller) AnalyzingID() domain.EntryID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.analyzing
}

// Loaded reports whether the last Load succeeded.
func (c *Controller) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Close tears the view down: outstanding calls are cancelled and late results dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.analyzing = ""
	c.mu.Unlock()
	c.cancel()
}

//
// ==== helpers ====
//

func (c *Controller) session(ctx context.Context, op string) (session.Session, error) {
	sess, err := c.deps.Sessions.Current(ctx)
	if err != nil {
		return session.Session{}, failure.New(failure.NoSession, op, err)
	}
	if sess.UserID == "" || (c.owner != "" && sess.UserID != c.owner) {
		return session.Session{}, failure.New(failure.NoSession, op, session.ErrNoSession)
	}
	return sess, nil
}

// opContext ties ctx to the controller lifetime.
func (c *Controller) opContext(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(ctx)
	stop := context.AfterFunc(c.base, func() { cancel(ErrClosed) })
	return ctx, func() {
		stop()
		cancel(nil)
	}
}

// find returns a copy so callers never race with in-place updates.
func (c *Controller) find(id domain.EntryID) *domain.Entry {
	for _, e := range c.entries {
		if e.ID == id {
			cp := *e
			return &cp
		}
	}
	return nil
}

// clearAnalyzing resets the marker unless a newer request took it over.
func (c *Controller) clearAnalyzing(id domain.EntryID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.analyzing == id {
		c.analyzing = ""
	}
}

func (c *Controller) notify(ctx context.Context, n notice.Notice) {
	c.deps.Notifier.Notify(ctx, n)
}
