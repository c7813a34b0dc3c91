package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/bryanwahyu/journey-within/internal/application"
	appinsight "github.com/bryanwahyu/journey-within/internal/application/insight"
	appjournal "github.com/bryanwahyu/journey-within/internal/application/journal"
	appmood "github.com/bryanwahyu/journey-within/internal/application/mood"
	appprofile "github.com/bryanwahyu/journey-within/internal/application/profile"
	"github.com/bryanwahyu/journey-within/internal/domain/insight"
	"github.com/bryanwahyu/journey-within/internal/domain/journal"
	"github.com/bryanwahyu/journey-within/internal/domain/notice"
	"github.com/bryanwahyu/journey-within/internal/infra/db/memory"
	"github.com/bryanwahyu/journey-within/internal/middleware"
)

const (
	token = "tok-u1"
	entry = "0b6c7a4e-3d59-4b8e-9a1f-2c1d5e7f9a10"
)

var now = time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC)

type generatorFunc func(context.Context, insight.Request) (string, error)

func (f generatorFunc) Generate(ctx context.Context, r insight.Request) (string, error) { return f(ctx, r) }

type fixture struct {
	store   *memory.Store
	handler http.Handler
	gen     generatorFunc
	dbErr   error
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: memory.NewStore()}
	f.gen = func(context.Context, insight.Request) (string, error) { return "Act without attachment.", nil }
	gen := generatorFunc(func(ctx context.Context, r insight.Request) (string, error) { return f.gen(ctx, r) })

	logger := zaptest.NewLogger(t)
	clock := application.FixedClock(now)
	sessions := middleware.ContextSessions{}

	registry := appjournal.NewRegistry(appjournal.Deps{
		Repo:      f.store.Journal(),
		Generator: gen,
		Sessions:  sessions,
		Clock:     clock,
		Logger:    logger,
		Prompt:    "reflect",
	})
	t.Cleanup(registry.Close)
	moodDeps := appmood.Deps{Repo: f.store.Moods(), Sessions: sessions, Clock: clock, Logger: logger}

	f.handler = NewRouter(Deps{
		Journal:   registry,
		Moods:     appmood.NewRecorders(moodDeps),
		MoodStats: appmood.NewStats(moodDeps),
		Profiles:  &appprofile.Service{Repo: f.store.Profiles(), Sessions: sessions, Clock: clock, Logger: logger},
		Insight:   appinsight.NewService(gen, nil, "test-model", logger),
		Tokens:    map[string]string{"u1": token, "u2": "tok-u2"},
		Health: map[string]middleware.HealthChecker{
			"database": middleware.CheckFunc(func(ctx context.Context) error {
				if f.dbErr != nil {
					return f.dbErr
				}
				return f.store.Ping(ctx)
			}),
		},
		Logger: logger,
	})
	return f
}

func (f *fixture) seed(t *testing.T, id, title string, created time.Time) {
	t.Helper()
	require.NoError(t, f.store.Journal().Create(context.Background(), &journal.Entry{
		ID: journal.EntryID(id), UserID: "u1", Title: title, Content: title + " body", CreatedAt: created,
	}))
}

type reply struct {
	Data     json.RawMessage `json:"data"`
	Error    string          `json:"error"`
	Redirect string          `json:"redirect"`
	Notices  []notice.Notice `json:"notices"`
}

func (f *fixture) do(t *testing.T, method, path, tok string, body any) (int, reply) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	var out reply
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func TestUnauthenticatedRedirects(t *testing.T) {
	f := newFixture(t)
	status, out := f.do(t, http.MethodGet, "/v1/entries", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "/", out.Redirect)
}

func TestEntriesLifecycle(t *testing.T) {
	f := newFixture(t)

	status, out := f.do(t, http.MethodPost, "/v1/entries", token, map[string]string{"title": "Gratitude", "content": "Rain today."})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Your journal entry has been saved.", out.Notices[0].Description)
	var created journal.Entry
	require.NoError(t, json.Unmarshal(out.Data, &created))
	assert.False(t, created.IsAnalyzed)

	status, out = f.do(t, http.MethodGet, "/v1/entries?filter=week", token, nil)
	require.Equal(t, http.StatusOK, status)
	var list entriesResponse
	require.NoError(t, json.Unmarshal(out.Data, &list))
	require.Len(t, list.Entries, 1)
	assert.Equal(t, journal.PeriodWeek, list.Filter)

	path := "/v1/entries/" + string(created.ID)
	status, out = f.do(t, http.MethodPost, path+"/analyze", token, nil)
	require.Equal(t, http.StatusOK, status)
	var analyzed journal.Entry
	require.NoError(t, json.Unmarshal(out.Data, &analyzed))
	assert.True(t, analyzed.IsAnalyzed)
	assert.Equal(t, "Act without attachment.", analyzed.Analysis())
	assert.Equal(t, "Entry has been analyzed successfully.", out.Notices[0].Description)

	status, _ = f.do(t, http.MethodPost, path+"/analyze", token, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, out = f.do(t, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Entry deleted successfully.", out.Notices[0].Description)

	_, out = f.do(t, http.MethodGet, "/v1/entries", token, nil)
	require.NoError(t, json.Unmarshal(out.Data, &list))
	assert.Empty(t, list.Entries)
}

func TestListEntriesFilter(t *testing.T) {
	f := newFixture(t)
	f.seed(t, entry, "recent", now.Add(-time.Hour))
	f.seed(t, "1c6c7a4e-3d59-4b8e-9a1f-2c1d5e7f9a10", "boundary", time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))

	_, out := f.do(t, http.MethodGet, "/v1/entries?filter=year", token, nil)
	var list entriesResponse
	require.NoError(t, json.Unmarshal(out.Data, &list))
	require.Len(t, list.Entries, 1)
	assert.Equal(t, "recent", list.Entries[0].Title)

	_, out = f.do(t, http.MethodGet, "/v1/entries?filter=bogus", token, nil)
	require.NoError(t, json.Unmarshal(out.Data, &list))
	assert.Len(t, list.Entries, 2)
	assert.Equal(t, journal.PeriodAll, list.Filter)
}

func TestAnalyzeErrors(t *testing.T) {
	f := newFixture(t)
	f.seed(t, entry, "work", now)

	status, _ := f.do(t, http.MethodPost, "/v1/entries/not-a-uuid/analyze", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, out := f.do(t, http.MethodPost, "/v1/entries/1c6c7a4e-3d59-4b8e-9a1f-2c1d5e7f9a10/analyze", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Entry not found.", out.Notices[0].Description)

	f.gen = func(context.Context, insight.Request) (string, error) { return "", errors.New("upstream down") }
	status, out = f.do(t, http.MethodPost, "/v1/entries/"+entry+"/analyze", token, nil)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "Failed to analyze the entry. Please try again.", out.Notices[0].Description)
	assert.Equal(t, notice.VariantDestructive, out.Notices[0].Variant)

	f.gen = func(context.Context, insight.Request) (string, error) { return "", insight.ErrQuotaExceeded }
	status, _ = f.do(t, http.MethodPost, "/v1/entries/"+entry+"/analyze", token, nil)
	assert.Equal(t, http.StatusTooManyRequests, status)
}

func TestCreateEntryValidation(t *testing.T) {
	f := newFixture(t)
	status, out := f.do(t, http.MethodPost, "/v1/entries", token, map[string]string{"title": " ", "content": "x"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Please fill in both title and content fields.", out.Notices[0].Description)
}

func TestEntriesAreScopedToUser(t *testing.T) {
	f := newFixture(t)
	f.seed(t, entry, "mine", now)

	_, out := f.do(t, http.MethodGet, "/v1/entries", "tok-u2", nil)
	var list entriesResponse
	require.NoError(t, json.Unmarshal(out.Data, &list))
	assert.Empty(t, list.Entries)

	status, _ := f.do(t, http.MethodDelete, "/v1/entries/"+entry, "tok-u2", nil)
	assert.Equal(t, http.StatusOK, status)
	mine, err := f.store.Journal().List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestMoods(t *testing.T) {
	f := newFixture(t)

	status, out := f.do(t, http.MethodPost, "/v1/moods", token, map[string]string{"mood": "good", "note": "  "})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Mood recorded", out.Notices[0].Title)

	status, out = f.do(t, http.MethodPost, "/v1/moods", token, map[string]string{"mood": "meh"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Please select a mood", out.Notices[0].Description)

	status, out = f.do(t, http.MethodGet, "/v1/moods/week", token, nil)
	require.Equal(t, http.StatusOK, status)
	var week struct {
		Days []struct {
			Day  string `json:"day"`
			Good int    `json:"good"`
		} `json:"days"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &week))
	require.Len(t, week.Days, 7)
	assert.Equal(t, "Wed", week.Days[6].Day)
	assert.Equal(t, 1, week.Days[6].Good)
}

func TestProfile(t *testing.T) {
	f := newFixture(t)

	status, out := f.do(t, http.MethodPut, "/v1/profile", token, map[string]any{"full_name": "Arjuna", "age": 30})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Profile updated successfully.", out.Notices[0].Description)

	status, out = f.do(t, http.MethodGet, "/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
	var p struct {
		FullName string `json:"full_name"`
		Age      int    `json:"age"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &p))
	assert.Equal(t, "Arjuna", p.FullName)
	assert.Equal(t, 30, p.Age)

	status, _ = f.do(t, http.MethodPut, "/v1/profile", token, map[string]any{"full_name": "A", "age": -3})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSignOut(t *testing.T) {
	f := newFixture(t)
	status, out := f.do(t, http.MethodPost, "/v1/session/signout", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"redirect":"/"}`, string(out.Data))
}

func TestAnalyzeFunction(t *testing.T) {
	f := newFixture(t)
	var seen insight.Request
	f.gen = func(_ context.Context, r insight.Request) (string, error) {
		seen = r
		return "Be steady.", nil
	}

	req := httptest.NewRequest(http.MethodPost, "/functions/analyze-entry",
		strings.NewReader(`{"title":"T","content":"C","prompt":""}`))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"analysis":"Be steady."}`, rec.Body.String())
	assert.NotEmpty(t, seen.Prompt)

	f.gen = func(context.Context, insight.Request) (string, error) { return "", errors.New("boom") }
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/functions/analyze-entry",
		strings.NewReader(`{"title":"T","content":"C"}`)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "boom")

	f.gen = func(context.Context, insight.Request) (string, error) {
		return "", fmt.Errorf("chat completion: %w", insight.ErrQuotaExceeded)
	}
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/functions/analyze-entry",
		strings.NewReader(`{"title":"T","content":"C"}`)))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"Too Many Requests"}`, rec.Body.String())
}

func TestAnalyzeFunctionPreflight(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodOptions, "/functions/analyze-entry", nil)
	req.Header.Set("Origin", "https://journal.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "authorization, content-type")
	rec := httptest.NewRecorder()

	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, strings.ToLower(rec.Header().Get("Access-Control-Allow-Headers")), "authorization")
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t)
	for _, path := range []string{"/health", "/health/live", "/health/ready", "/metrics"} {
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	f.dbErr = errors.New("connection refused")
	for _, path := range []string{"/health", "/health/ready"} {
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
