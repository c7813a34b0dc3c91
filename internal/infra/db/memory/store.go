// Package memory is an in-process Entry Store for local runs and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bryanwahyu/journey-within/internal/domain/journal"
	"github.com/bryanwahyu/journey-within/internal/domain/mood"
	"github.com/bryanwahyu/journey-within/internal/domain/profile"
)

// Store keeps journal entries, moods and profiles in maps guarded by one lock.
type Store struct {
	mu       sync.RWMutex
	entries  map[journal.EntryID]journal.Entry
	moods    []mood.Entry
	profiles map[string]profile.Profile
}

func NewStore() *Store {
	return &Store{
		entries:  make(map[journal.EntryID]journal.Entry),
		profiles: make(map[string]profile.Profile),
	}
}

// Journal returns the store as a journal.Repository.
func (s *Store) Journal() journal.Repository { return journalRepo{s} }

// Moods returns the store as a mood.Repository.
func (s *Store) Moods() mood.Repository { return moodRepo{s} }

// Profiles returns the store as a profile.Repository.
func (s *Store) Profiles() profile.Repository { return profileRepo{s} }

// Ping satisfies the readiness checker.
func (s *Store) Ping(context.Context) error { return nil }

type journalRepo struct{ s *Store }

func (r journalRepo) List(_ context.Context, userID string) ([]*journal.Entry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*journal.Entry{}
	for _, e := range r.s.entries {
		if e.UserID == userID {
			cp := e
			out = append(out, &cp)
		}
	}
	// newest first
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r journalRepo) Create(_ context.Context, e *journal.Entry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.entries[e.ID] = *e
	return nil
}

func (r journalRepo) SaveAnalysis(_ context.Context, userID string, id journal.EntryID, analysis string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.entries[id]
	if !ok || e.UserID != userID {
		return journal.ErrNotFound
	}
	if e.IsAnalyzed {
		return journal.ErrAlreadyAnalyzed
	}
	r.s.entries[id] = e.WithAnalysis(analysis)
	return nil
}

func (r journalRepo) Delete(_ context.Context, userID string, id journal.EntryID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.entries[id]
	if !ok || e.UserID != userID {
		return journal.ErrNotFound
	}
	delete(r.s.entries, id)
	return nil
}

type moodRepo struct{ s *Store }

func (r moodRepo) Insert(_ context.Context, e *mood.Entry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.moods = append(r.s.moods, *e)
	return nil
}

func (r moodRepo) Between(_ context.Context, userID string, from, to time.Time) ([]*mood.Entry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*mood.Entry
	for _, e := range r.s.moods {
		if e.UserID != userID || e.CreatedAt.Before(from) || e.CreatedAt.After(to) {
			continue
		}
		cp := e
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type profileRepo struct{ s *Store }

func (r profileRepo) Get(_ context.Context, userID string) (*profile.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r profileRepo) Upsert(_ context.Context, p *profile.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	next := *p
	if old, ok := r.s.profiles[p.ID]; ok {
		next.AvatarURL = old.AvatarURL
	}
	r.s.profiles[p.ID] = next
	return nil
}
