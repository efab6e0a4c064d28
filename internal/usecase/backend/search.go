package backend

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchbridge/internal/db"
	"github.com/kailas-cloud/searchbridge/internal/domain"
	"github.com/kailas-cloud/searchbridge/internal/domain/schema"
	"github.com/kailas-cloud/searchbridge/internal/domain/search/request"
	"github.com/kailas-cloud/searchbridge/internal/domain/search/result"
	"github.com/kailas-cloud/searchbridge/internal/dsl/query"
	"github.com/kailas-cloud/searchbridge/internal/dsl/response"
	"github.com/kailas-cloud/searchbridge/internal/metrics"
)

// CompileSearch assembles the search body for req without executing it.
func (s *Service) CompileSearch(idx schema.Index, req request.Request) (query.Built, error) {
	built, err := query.Build(req, idx, query.Options{
		Index:          s.IndexName(idx.Name()),
		Fuzziness:      s.opts.Fuzziness,
		TrackTotalHits: true,
		Hook:           s.opts.Hooks.Search,
	})
	if err != nil {
		recordCompileError(err)
		return query.Built{}, fmt.Errorf("build search: %w", err)
	}
	for _, w := range built.Warnings {
		metrics.SortWarningsTotal.Inc()
		s.logger.Warn(w, zap.String("index", built.Index))
	}
	return built, nil
}

// Search runs req against idx. A missing index yields an empty result.
func (s *Service) Search(ctx context.Context, idx schema.Index, req request.Request) (result.Set, error) {
	index := s.IndexName(idx.Name())

	exists, err := s.engine.IndexExists(ctx, index)
	if err != nil {
		return result.Set{}, domain.NewEngineError(db.OpIndexExists, index, err)
	}
	if !exists {
		s.logger.Warn("Index does not exist", zap.String("index", index))
		return result.Empty(), nil
	}

	built, err := s.CompileSearch(idx, req)
	if err != nil {
		return result.Set{}, err
	}

	raw, err := s.engine.Search(ctx, built.Index, built.Body)
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			s.logger.Warn("Index does not exist", zap.String("index", index))
			return result.Empty(), nil
		}
		return result.Set{}, domain.NewEngineError(db.OpSearch, index, err)
	}

	set, err := response.Parse(raw)
	if err != nil {
		return result.Set{}, domain.NewEngineError(db.OpSearch, index, fmt.Errorf("parse response: %w", err))
	}
	return set, nil
}
