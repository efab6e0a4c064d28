package backend

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchbridge/internal/db"
	"github.com/kailas-cloud/searchbridge/internal/domain"
	"github.com/kailas-cloud/searchbridge/internal/domain/schema"
	"github.com/kailas-cloud/searchbridge/internal/dsl/mapping"
)

// CompileMapping returns the putMapping body for idx.
func (s *Service) CompileMapping(idx schema.Index) map[string]any {
	return mapping.Compile(idx, s.opts.Hooks.Field)
}

// AddIndex creates the engine index with the configured settings, then
// puts the field mapping.
func (s *Service) AddIndex(ctx context.Context, idx schema.Index) error {
	name := s.IndexName(idx.Name())

	def, err := db.NewIndex(name).Settings(s.opts.Settings).Build()
	if err != nil {
		return fmt.Errorf("index definition: %w: %w", domain.ErrInvalidSchema, err)
	}
	if err := s.engine.CreateIndex(ctx, def); err != nil {
		return domain.NewEngineError(db.OpCreateIndex, name, err)
	}
	if err := s.putMapping(ctx, name, idx); err != nil {
		return err
	}

	s.logger.Info("Index created",
		zap.String("index", name),
		zap.Int("fields", len(idx.Fields())),
	)
	return nil
}

// UpdateIndex puts the current field mapping of idx.
func (s *Service) UpdateIndex(ctx context.Context, idx schema.Index) error {
	name := s.IndexName(idx.Name())
	if err := s.putMapping(ctx, name, idx); err != nil {
		return err
	}
	s.logger.Info("Index mapping updated", zap.String("index", name))
	return nil
}

// RemoveIndex deletes the engine index. A missing index is not an error.
func (s *Service) RemoveIndex(ctx context.Context, name string) error {
	index := s.IndexName(name)
	if err := s.engine.DeleteIndex(ctx, index); err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			s.logger.Debug("Index already absent", zap.String("index", index))
			return nil
		}
		return domain.NewEngineError(db.OpDeleteIndex, index, err)
	}
	s.logger.Info("Index removed", zap.String("index", index))
	return nil
}

// ClearIndex drops every document by recreating the index.
func (s *Service) ClearIndex(ctx context.Context, idx schema.Index) error {
	if err := s.RemoveIndex(ctx, idx.Name()); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	if err := s.AddIndex(ctx, idx); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	return nil
}

func (s *Service) putMapping(ctx context.Context, name string, idx schema.Index) error {
	if err := s.engine.PutMapping(ctx, name, s.CompileMapping(idx)); err != nil {
		return domain.NewEngineError(db.OpPutMapping, name, err)
	}
	return nil
}
