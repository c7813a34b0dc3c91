package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bryanwahyu/journey-within/internal/application"
	appinsight "github.com/bryanwahyu/journey-within/internal/application/insight"
	appjournal "github.com/bryanwahyu/journey-within/internal/application/journal"
	appmood "github.com/bryanwahyu/journey-within/internal/application/mood"
	appprofile "github.com/bryanwahyu/journey-within/internal/application/profile"
	"github.com/bryanwahyu/journey-within/internal/config"
	"github.com/bryanwahyu/journey-within/internal/domain/insight"
	"github.com/bryanwahyu/journey-within/internal/domain/journal"
	"github.com/bryanwahyu/journey-within/internal/domain/mood"
	"github.com/bryanwahyu/journey-within/internal/domain/profile"
	"github.com/bryanwahyu/journey-within/internal/infra/ai/function"
	"github.com/bryanwahyu/journey-within/internal/infra/ai/openai"
	"github.com/bryanwahyu/journey-within/internal/infra/ai/prompt"
	"github.com/bryanwahyu/journey-within/internal/infra/db/memory"
	mysqlp "github.com/bryanwahyu/journey-within/internal/infra/db/mysql"
	"github.com/bryanwahyu/journey-within/internal/infra/db/postgres"
	"github.com/bryanwahyu/journey-within/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/journey-within/internal/infra/storage"
	"github.com/bryanwahyu/journey-within/internal/logging"
	"github.com/bryanwahyu/journey-within/internal/middleware"
)

type stores struct {
	journal  journal.Repository
	moods    mood.Repository
	profiles profile.Repository
	check    middleware.HealthChecker
	close    func() error
}

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	st, err := openStores(ctx, cfg)
	if err != nil {
		logger.Fatal("database init error", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer st.close()

	health := map[string]middleware.HealthChecker{"database": st.check}

	// init minio (optional archive)
	var archive insight.Archive
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			logger.Fatal("minio init error", zap.Error(err))
		}
		archive = store
		health["archive"] = middleware.CheckFunc(store.Ping)
	}

	// generator: direct LLM, or a remote analyze-entry function when configured
	llm := openai.NewClient(openai.Options{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLMTimeout(),
	})
	var generator insight.Generator = llm
	if cfg.Insight.Endpoint != "" {
		generator = function.NewClient(cfg.Insight.Endpoint, cfg.Insight.APIKey, cfg.LLMTimeout())
	}

	clock := application.SystemClock{}
	sessions := middleware.ContextSessions{}

	registry := appjournal.NewRegistry(appjournal.Deps{
		Repo:      st.journal,
		Generator: generator,
		Sessions:  sessions,
		Clock:     clock,
		Logger:    logger.Named("journal"),
		Prompt:    prompt.Reflection,
	})
	defer registry.Close()

	moodDeps := appmood.Deps{Repo: st.moods, Sessions: sessions, Clock: clock, Logger: logger.Named("mood")}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSecond)
	defer limiter.Close()

	// init router
	mux := chi.NewRouter()
	mux.Mount("/", httpserver.NewRouter(httpserver.Deps{
		Journal:     registry,
		Moods:       appmood.NewRecorders(moodDeps),
		MoodStats:   appmood.NewStats(moodDeps),
		Profiles:    &appprofile.Service{Repo: st.profiles, Sessions: sessions, Clock: clock, Logger: logger.Named("profile")},
		Insight:     appinsight.NewService(llm, archive, cfg.LLM.Model, logger.Named("insight")),
		Tokens:      cfg.Auth.Tokens,
		CORSOrigins: cfg.Server.CORSOrigins,
		Limiter:     limiter,
		Health:      health,
		Logger:      logger.Named("http"),
	}))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", addr), zap.String("db", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// graceful shutdown, on signal or when the listener dies
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	exitCode := 0
	select {
	case <-stop:
		logger.Info("shutting down server...")
	case err := <-serveErr:
		logger.Error("server error", zap.Error(err))
		exitCode = 1
	}

	// cancel in-flight analyses before draining connections
	registry.Close()

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	if exitCode != 0 {
		// os.Exit skips defers; release the store and flush logs first
		limiter.Close()
		_ = st.close()
		_ = logger.Sync()
		os.Exit(exitCode)
	}
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Database.Driver {
	case "memory":
		m := memory.NewStore()
		return &stores{
			journal:  m.Journal(),
			moods:    m.Moods(),
			profiles: m.Profiles(),
			check:    middleware.CheckFunc(m.Ping),
			close:    func() error { return nil },
		}, nil
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, err
		}
		if cfg.Database.Migrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, err
			}
		}
		return sqlStores(db, postgres.NewJournalRepository(db), postgres.NewMoodRepository(db), postgres.NewProfileRepository(db)), nil
	default:
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, err
		}
		if cfg.Database.Migrate {
			if err := mysqlp.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, err
			}
		}
		return sqlStores(db, mysqlp.NewJournalRepository(db), mysqlp.NewMoodRepository(db), mysqlp.NewProfileRepository(db)), nil
	}
}

func sqlStores(db *sql.DB, j journal.Repository, m mood.Repository, p profile.Repository) *stores {
	return &stores{
		journal:  j,
		moods:    m,
		profiles: p,
		check:    middleware.PingDB(db),
		close:    db.Close,
	}
}
