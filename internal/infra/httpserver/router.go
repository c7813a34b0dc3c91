package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appinsight "github.com/bryanwahyu/journey-within/internal/application/insight"
	appjournal "github.com/bryanwahyu/journey-within/internal/application/journal"
	appmood "github.com/bryanwahyu/journey-within/internal/application/mood"
	appprofile "github.com/bryanwahyu/journey-within/internal/application/profile"
	"github.com/bryanwahyu/journey-within/internal/domain/failure"
	"github.com/bryanwahyu/journey-within/internal/domain/insight"
	"github.com/bryanwahyu/journey-within/internal/domain/journal"
	"github.com/bryanwahyu/journey-within/internal/domain/mood"
	"github.com/bryanwahyu/journey-within/internal/domain/notice"
	"github.com/bryanwahyu/journey-within/internal/middleware"
)

const maxBodyBytes = 1 << 20

// Deps wires the use-cases into the HTTP surface.
type Deps struct {
	Journal   *appjournal.Registry
	Moods     *appmood.Recorders
	MoodStats *appmood.Stats
	Profiles  *appprofile.Service
	Insight   *appinsight.Service

	// Tokens maps user id to session token.
	Tokens      map[string]string
	CORSOrigins []string
	Limiter     *middleware.RateLimiter
	Health      map[string]middleware.HealthChecker
	Logger      *zap.Logger
}

type Router struct {
	d   Deps
	log *zap.Logger
}

func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r := &Router{d: d, log: d.Logger}
	mux := chi.NewRouter()

	mux.Use(middleware.Logging(d.Logger))
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
		MaxAge:         300,
	}))

	mux.Get("/health", middleware.HealthHandler(d.Health))
	mux.Get("/health/live", middleware.LivenessHandler)
	mux.Get("/health/ready", middleware.ReadinessHandler(d.Health, "database"))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Group(func(rt chi.Router) {
		rt.Use(middleware.RateLimit(d.Limiter))
		rt.Post("/functions/analyze-entry", r.handleAnalyzeFunction)
	})

	mux.Route("/v1", func(rt chi.Router) {
		rt.Use(middleware.SessionAuth(d.Tokens))
		rt.Use(middleware.RateLimit(d.Limiter))

		rt.Get("/entries", r.wrap(r.handleListEntries))
		rt.Post("/entries", r.wrap(r.handleCreateEntry))
		rt.Post("/entries/{id}/analyze", r.wrap(r.handleAnalyzeEntry))
		rt.Delete("/entries/{id}", r.wrap(r.handleDeleteEntry))

		rt.Post("/moods", r.wrap(r.handleRecordMood))
		rt.Get("/moods/week", r.wrap(r.handleMoodWeek))

		rt.Get("/profile", r.wrap(r.handleGetProfile))
		rt.Put("/profile", r.wrap(r.handleUpdateProfile))

		rt.Post("/session/signout", r.wrap(r.handleSignOut))
	})

	return mux
}

// handlerFunc returns the status and payload; wrap adds the notices raised on the way.
type handlerFunc func(*http.Request) (int, any, error)

type envelope struct {
	Data     any             `json:"data,omitempty"`
	Error    string          `json:"error,omitempty"`
	Redirect string          `json:"redirect,omitempty"`
	Notices  []notice.Notice `json:"notices"`
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx, col := notice.WithCollector(req.Context())
		req.Body = http.MaxBytesReader(w, req.Body, maxBodyBytes)

		status, data, err := h(req.WithContext(ctx))
		if err != nil {
			status = statusOf(err)
			body := envelope{Error: messageOf(status, err), Notices: col.Notices()}
			if status == http.StatusUnauthorized {
				body.Redirect = "/"
			}
			if status >= 500 {
				r.log.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
			}
			writeJSON(w, status, body)
			return
		}
		writeJSON(w, status, envelope{Data: data, Notices: col.Notices()})
	}
}

func statusOf(err error) int {
	switch {
	case failure.Is(err, failure.NoSession):
		return http.StatusUnauthorized
	case errors.Is(err, journal.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, appjournal.ErrAlreadyAnalyzed), errors.Is(err, appmood.ErrBusy), errors.Is(err, appjournal.ErrClosed):
		return http.StatusConflict
	case errors.Is(err, insight.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case failure.Is(err, failure.ValidationFailure):
		return http.StatusBadRequest
	case failure.Is(err, failure.StoreReadFailure), failure.Is(err, failure.StoreWriteFailure),
		failure.Is(err, failure.GeneratorFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// messageOf hides adapter detail behind the status text for server-side failures.
func messageOf(status int, err error) string {
	if status >= 500 {
		return http.StatusText(status)
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(req *http.Request, op string, v any) error {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return failure.New(failure.ValidationFailure, op, fmt.Errorf("invalid JSON body: %w", err))
	}
	return nil
}

func invalid(op string, err error) error {
	return failure.New(failure.ValidationFailure, op, err)
}

func userOf(req *http.Request) string {
	return middleware.GetUserFromContext(req.Context())
}

//
// ==== journal ====
//

type entriesResponse struct {
	Entries     []*journal.Entry `json:"entries"`
	Filter      journal.Period   `json:"filter"`
	AnalyzingID journal.EntryID  `json:"analyzing_id,omitempty"`
}

// GET /v1/entries?filter=all|week|month|year
func (r *Router) handleListEntries(req *http.Request) (int, any, error) {
	c := r.d.Journal.For(userOf(req))
	if err := c.Load(req.Context()); err != nil {
		return 0, nil, err
	}
	keyword := req.URL.Query().Get("filter")
	return http.StatusOK, entriesResponse{
		Entries:     c.Entries(keyword),
		Filter:      journal.ParseFilter(keyword),
		AnalyzingID: c.AnalyzingID(),
	}, nil
}

// POST /v1/entries
// Body: {"title": "...", "content": "..."}
func (r *Router) handleCreateEntry(req *http.Request) (int, any, error) {
	const op = "http.CreateEntry"
	var body struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := decode(req, op, &body); err != nil {
		return 0, nil, err
	}
	if err := middleware.ValidateLength("title", body.Title, middleware.MaxTitleLen); err != nil {
		return 0, nil, invalid(op, err)
	}
	if err := middleware.ValidateLength("content", body.Content, middleware.MaxContentLen); err != nil {
		return 0, nil, invalid(op, err)
	}

	e, err := r.d.Journal.For(userOf(req)).Create(req.Context(), body.Title, body.Content)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusCreated, e, nil
}

// POST /v1/entries/{id}/analyze
func (r *Router) handleAnalyzeEntry(req *http.Request) (int, any, error) {
	const op = "http.AnalyzeEntry"
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateEntryID(id); err != nil {
		return 0, nil, invalid(op, err)
	}

	c := r.d.Journal.For(userOf(req))
	if err := c.EnsureLoaded(req.Context()); err != nil {
		return 0, nil, err
	}

	middleware.IncrementAnalyses()
	middleware.IncrementAnalysesRunning()
	err := c.Analyze(req.Context(), journal.EntryID(id))
	middleware.DecrementAnalysesRunning()
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return 0, nil, err
	}

	for _, e := range c.Entries(string(journal.PeriodAll)) {
		if e.ID == journal.EntryID(id) {
			return http.StatusOK, e, nil
		}
	}
	// removed concurrently after the analysis landed
	return http.StatusOK, nil, nil
}

// DELETE /v1/entries/{id}
func (r *Router) handleDeleteEntry(req *http.Request) (int, any, error) {
	const op = "http.DeleteEntry"
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateEntryID(id); err != nil {
		return 0, nil, invalid(op, err)
	}
	if err := r.d.Journal.For(userOf(req)).Delete(req.Context(), journal.EntryID(id)); err != nil {
		return 0, nil, err
	}
	return http.StatusOK, map[string]string{"deleted": id}, nil
}

//
// ==== mood ====
//

// POST /v1/moods
// Body: {"mood": "good|neutral|bad", "note": "..."}
func (r *Router) handleRecordMood(req *http.Request) (int, any, error) {
	const op = "http.RecordMood"
	var body struct {
		Mood string `json:"mood"`
		Note string `json:"note"`
	}
	if err := decode(req, op, &body); err != nil {
		return 0, nil, err
	}
	if err := middleware.ValidateLength("note", body.Note, middleware.MaxNoteLen); err != nil {
		return 0, nil, invalid(op, err)
	}

	e, err := r.d.Moods.For(userOf(req)).Record(req.Context(), body.Mood, body.Note)
	if err != nil {
		return 0, nil, err
	}
	middleware.IncrementMoods()
	return http.StatusCreated, e, nil
}

// GET /v1/moods/week
func (r *Router) handleMoodWeek(req *http.Request) (int, any, error) {
	days, err := r.d.MoodStats.Week(req.Context())
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, map[string]any{"days": days, "moods": mood.All}, nil
}

//
// ==== profile ====
//

// GET /v1/profile
func (r *Router) handleGetProfile(req *http.Request) (int, any, error) {
	p, err := r.d.Profiles.Get(req.Context())
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, p, nil
}

// PUT /v1/profile
// Body: {"full_name": "...", "age": 30}
func (r *Router) handleUpdateProfile(req *http.Request) (int, any, error) {
	const op = "http.UpdateProfile"
	var body appprofile.UpdateCommand
	if err := decode(req, op, &body); err != nil {
		return 0, nil, err
	}
	body.FullName = middleware.SanitizeString(body.FullName)
	if err := middleware.ValidateLength("full_name", body.FullName, middleware.MaxNameLen); err != nil {
		return 0, nil, invalid(op, err)
	}

	p, err := r.d.Profiles.Update(req.Context(), body)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, p, nil
}

// POST /v1/session/signout
func (r *Router) handleSignOut(req *http.Request) (int, any, error) {
	user := userOf(req)
	r.d.Journal.Release(user)
	r.d.Moods.Release(user)
	return http.StatusOK, map[string]string{"redirect": "/"}, nil
}

//
// ==== insight function ====
//

// POST /functions/analyze-entry
// Body: {"title": "...", "content": "...", "prompt": "..."}
func (r *Router) handleAnalyzeFunction(w http.ResponseWriter, req *http.Request) {
	req.Body = http.MaxBytesReader(w, req.Body, maxBodyBytes)
	var body insight.Request
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if strings.TrimSpace(body.Title) == "" && strings.TrimSpace(body.Content) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title or content is required"})
		return
	}

	middleware.IncrementAnalyses()
	text, err := r.d.Insight.Analyze(req.Context(), body)
	if err != nil {
		middleware.IncrementAnalysesFailed()
		status := http.StatusInternalServerError
		if errors.Is(err, insight.ErrQuotaExceeded) {
			status = http.StatusTooManyRequests
		}
		r.log.Error("analyze-entry failed", zap.Int("status", status), zap.Error(err))
		writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"analysis": text})
}
