package insight

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/journey-within/internal/application"
	"github.com/bryanwahyu/journey-within/internal/domain/failure"
	domain "github.com/bryanwahyu/journey-within/internal/domain/insight"
	"github.com/bryanwahyu/journey-within/internal/infra/ai/prompt"
)

// Service is the stateless analyze-entry function: forward the entry to the
// generator and hand the text back.
type Service struct {
	Generator domain.Generator
	// Archive is optional; nil disables archiving.
	Archive domain.Archive
	Model   string
	Clock   application.Clock
	Logger  *zap.Logger
}

func NewService(gen domain.Generator, archive domain.Archive, model string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Generator: gen,
		Archive:   archive,
		Model:     model,
		Clock:     application.SystemClock{},
		Logger:    logger,
	}
}

// Analyze returns the generated reflection. An empty prompt falls back to the
// default reflection instruction.
func (s *Service) Analyze(ctx context.Context, req domain.Request) (string, error) {
	const op = "insight.Analyze"
	if strings.TrimSpace(req.Prompt) == "" {
		req.Prompt = prompt.Reflection
	}

	text, err := s.Generator.Generate(ctx, req)
	if err == nil && strings.TrimSpace(text) == "" {
		err = domain.ErrEmptyAnalysis
	}
	if err != nil {
		s.Logger.Warn("generate insight failed", zap.Error(err), zap.Bool("quota", errors.Is(err, domain.ErrQuotaExceeded)))
		return "", failure.New(failure.GeneratorFailure, op, err)
	}

	s.archive(ctx, req, text)
	return text, nil
}

// archive stores the exchange; errors are logged only.
func (s *Service) archive(ctx context.Context, req domain.Request, text string) {
	if s.Archive == nil {
		return
	}
	ex := &domain.Exchange{
		ID:        uuid.New().String(),
		Request:   req,
		Model:     s.Model,
		Analysis:  text,
		CreatedAt: s.Clock.Now().UTC(),
	}
	key, err := s.Archive.Put(context.WithoutCancel(ctx), ex)
	if err != nil {
		s.Logger.Warn("archive insight failed", zap.String("exchange_id", ex.ID), zap.Error(err))
		return
	}
	s.Logger.Debug("insight archived", zap.String("key", key))
}
