package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/journey-within/internal/domain/journal"
	"github.com/bryanwahyu/journey-within/internal/domain/mood"
	"github.com/bryanwahyu/journey-within/internal/domain/profile"
)

var base = time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC)

func TestJournalRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Journal()

	require.NoError(t, repo.Create(ctx, &journal.Entry{ID: "a", UserID: "u1", Title: "A", Content: "a", CreatedAt: base.Add(-time.Hour)}))
	require.NoError(t, repo.Create(ctx, &journal.Entry{ID: "b", UserID: "u1", Title: "B", Content: "b", CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, &journal.Entry{ID: "c", UserID: "u2", Title: "C", Content: "c", CreatedAt: base}))

	list, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, journal.EntryID("b"), list[0].ID)
	assert.Equal(t, journal.EntryID("a"), list[1].ID)

	require.NoError(t, repo.SaveAnalysis(ctx, "u1", "a", "reflection"))
	list, _ = repo.List(ctx, "u1")
	assert.True(t, list[1].IsAnalyzed)
	assert.Equal(t, "reflection", list[1].Analysis())

	assert.ErrorIs(t, repo.SaveAnalysis(ctx, "u1", "a", "overwrite"), journal.ErrAlreadyAnalyzed)
	list, _ = repo.List(ctx, "u1")
	assert.Equal(t, "reflection", list[1].Analysis())

	assert.ErrorIs(t, repo.SaveAnalysis(ctx, "u1", "c", "x"), journal.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "u1", "c"), journal.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "u1", "a"))
	list, _ = repo.List(ctx, "u1")
	assert.Len(t, list, 1)
	assert.ErrorIs(t, repo.Delete(ctx, "u1", "a"), journal.ErrNotFound)
}

func TestJournalRepoEmptyListIsNotNil(t *testing.T) {
	list, err := NewStore().Journal().List(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestMoodRepoBetween(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Moods()
	for i, d := range []time.Duration{0, -time.Hour, -48 * time.Hour, -240 * time.Hour} {
		require.NoError(t, repo.Insert(ctx, &mood.Entry{
			ID: string(rune('a' + i)), UserID: "u1", Mood: mood.Good, CreatedAt: base.Add(d),
		}))
	}
	require.NoError(t, repo.Insert(ctx, &mood.Entry{ID: "z", UserID: "u2", Mood: mood.Bad, CreatedAt: base}))

	got, err := repo.Between(ctx, "u1", base.Add(-72*time.Hour), base)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "a", got[2].ID)
}

func TestProfileRepoUpsertKeepsAvatar(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	avatar := "http://cdn/a.png"
	s.profiles["u1"] = profile.Profile{ID: "u1", AvatarURL: &avatar}
	repo := s.Profiles()

	name := "Arjuna"
	require.NoError(t, repo.Upsert(ctx, &profile.Profile{ID: "u1", FullName: &name, UpdatedAt: base}))

	p, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Arjuna", *p.FullName)
	assert.Equal(t, avatar, *p.AvatarURL)

	missing, err := repo.Get(ctx, "u2")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
