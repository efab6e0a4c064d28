package backend

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchbridge/internal/db"
	"github.com/kailas-cloud/searchbridge/internal/domain"
	"github.com/kailas-cloud/searchbridge/internal/dsl"
	"github.com/kailas-cloud/searchbridge/internal/metrics"
)

// Options configure a Service.
type Options struct {
	// IndexPrefix is prepended to every engine index name.
	IndexPrefix string
	// Fuzziness is the default fuzziness for search keys.
	Fuzziness string
	// Settings are applied when an index is created.
	Settings db.IndexSettings
	Hooks    dsl.Hooks
}

// Service executes compiled DSL against a search engine.
type Service struct {
	engine Engine
	opts   Options
	logger *zap.Logger
}

// New creates a backend service. logger may be nil.
func New(engine Engine, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{engine: engine, opts: opts, logger: logger}
}

// IndexName returns the engine index name for a schema index name.
func (s *Service) IndexName(name string) string {
	return s.opts.IndexPrefix + name
}

// IsAvailable reports whether the engine answers a ping.
func (s *Service) IsAvailable(ctx context.Context) bool {
	return s.engine.Ping(ctx) == nil
}

// Ping checks the engine, for health checks.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.engine.Ping(ctx); err != nil {
		return domain.NewEngineError(db.OpPing, "", err)
	}
	return nil
}

// recordCompileError counts compile failures by kind.
func recordCompileError(err error) {
	var ce *domain.CompileError
	if errors.As(err, &ce) && ce.Kind != nil {
		metrics.CompileErrorsTotal.WithLabelValues(ce.Kind.Error()).Inc()
	}
}
