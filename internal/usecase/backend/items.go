package backend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchbridge/internal/db"
	"github.com/kailas-cloud/searchbridge/internal/domain"
	"github.com/kailas-cloud/searchbridge/internal/domain/item"
	"github.com/kailas-cloud/searchbridge/internal/dsl/bulk"
	"github.com/kailas-cloud/searchbridge/internal/dsl/response"
	"github.com/kailas-cloud/searchbridge/internal/metrics"
)

// CompileBulk returns the bulk lines indexing items into the named index,
// after the bulk hook.
func (s *Service) CompileBulk(name string, items []item.Item) []map[string]any {
	index := s.IndexName(name)
	return s.applyBulkHook(index, bulk.Index(index, items))
}

// IndexItems sends every item in one bulk request and returns the ids the
// engine accepted. Rejected items are logged and reported together as a
// *domain.PartialBulkFailureError alongside the accepted ids.
func (s *Service) IndexItems(ctx context.Context, name string, items []item.Item) ([]string, error) {
	if len(items) == 0 {
		return nil, nil
	}
	index := s.IndexName(name)
	return s.sendBulk(ctx, index, "index", s.applyBulkHook(index, bulk.Index(index, items)))
}

// DeleteItems removes documents by id in one bulk request.
func (s *Service) DeleteItems(ctx context.Context, name string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	index := s.IndexName(name)
	_, err := s.sendBulk(ctx, index, "delete", s.applyBulkHook(index, bulk.Delete(index, ids)))
	return err
}

func (s *Service) applyBulkHook(index string, lines []map[string]any) []map[string]any {
	if s.opts.Hooks.Bulk == nil {
		return lines
	}
	if replaced := s.opts.Hooks.Bulk(index, lines); replaced != nil {
		return replaced
	}
	return lines
}

func (s *Service) sendBulk(ctx context.Context, index, action string, lines []map[string]any) ([]string, error) {
	body, err := bulk.Encode(lines)
	if err != nil {
		return nil, fmt.Errorf("encode bulk: %w", err)
	}

	raw, err := s.engine.Bulk(ctx, index, body)
	if err != nil {
		return nil, domain.NewEngineError(db.OpBulk, index, err)
	}

	res := response.ParseBulk(raw)
	metrics.BulkItemsTotal.WithLabelValues(action, "ok").Add(float64(len(res.Succeeded)))
	if len(res.Failures) == 0 {
		return res.Succeeded, nil
	}

	metrics.BulkItemsTotal.WithLabelValues(action, "rejected").Add(float64(len(res.Failures)))
	for _, f := range res.Failures {
		s.logger.Error("Bulk item rejected",
			zap.String("index", index),
			zap.String("action", action),
			zap.String("id", f.ID),
			zap.Int("status", f.Status),
			zap.String("type", f.Type),
			zap.String("reason", f.Reason),
			zap.String("caused_by", f.CausedBy),
		)
	}
	return res.Succeeded, &domain.PartialBulkFailureError{
		Index:     index,
		Failures:  res.Failures,
		Succeeded: res.Succeeded,
	}
}
