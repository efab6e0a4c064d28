package backend

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchbridge/internal/db"
	"github.com/kailas-cloud/searchbridge/internal/metrics"
)

var _ Engine = (*InstrumentedEngine)(nil)

// InstrumentedEngine wraps an Engine with request metrics and debug logging.
type InstrumentedEngine struct {
	inner  Engine
	driver string
	logger *zap.Logger
}

// NewInstrumentedEngine wraps inner. driver labels the metrics.
func NewInstrumentedEngine(inner Engine, driver string, logger *zap.Logger) *InstrumentedEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedEngine{inner: inner, driver: driver, logger: logger}
}

func (e *InstrumentedEngine) observe(op, index string, start time.Time, err error) {
	duration := time.Since(start)
	status := "ok"
	if err != nil {
		status = "error"
		var dbErr *db.Error
		if errors.As(err, &dbErr) && dbErr.Status != 0 {
			status = strconv.Itoa(dbErr.Status)
		}
	}

	metrics.EngineRequestsTotal.WithLabelValues(e.driver, op, status).Inc()
	metrics.EngineRequestDuration.WithLabelValues(e.driver, op).Observe(duration.Seconds())

	e.logger.Debug("Engine request",
		zap.String("driver", e.driver),
		zap.String("op", op),
		zap.String("index", index),
		zap.String("status", status),
		zap.Duration("duration", duration),
	)
}

// Ping delegates to the inner engine.
func (e *InstrumentedEngine) Ping(ctx context.Context) error {
	start := time.Now()
	err := e.inner.Ping(ctx)
	e.observe(db.OpPing, "", start, err)
	return err
}

// IndexExists delegates to the inner engine.
func (e *InstrumentedEngine) IndexExists(ctx context.Context, index string) (bool, error) {
	start := time.Now()
	ok, err := e.inner.IndexExists(ctx, index)
	e.observe(db.OpIndexExists, index, start, err)
	return ok, err
}

// CreateIndex delegates to the inner engine.
func (e *InstrumentedEngine) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	start := time.Now()
	err := e.inner.CreateIndex(ctx, def)
	e.observe(db.OpCreateIndex, def.Name, start, err)
	return err
}

// DeleteIndex delegates to the inner engine.
func (e *InstrumentedEngine) DeleteIndex(ctx context.Context, index string) error {
	start := time.Now()
	err := e.inner.DeleteIndex(ctx, index)
	e.observe(db.OpDeleteIndex, index, start, err)
	return err
}

// PutMapping delegates to the inner engine.
func (e *InstrumentedEngine) PutMapping(ctx context.Context, index string, mapping map[string]any) error {
	start := time.Now()
	err := e.inner.PutMapping(ctx, index, mapping)
	e.observe(db.OpPutMapping, index, start, err)
	return err
}

// Search delegates to the inner engine.
func (e *InstrumentedEngine) Search(ctx context.Context, index string, body map[string]any) (map[string]any, error) {
	start := time.Now()
	raw, err := e.inner.Search(ctx, index, body)
	e.observe(db.OpSearch, index, start, err)
	return raw, err
}

// Bulk delegates to the inner engine.
func (e *InstrumentedEngine) Bulk(ctx context.Context, index string, ndjson []byte) (map[string]any, error) {
	start := time.Now()
	raw, err := e.inner.Bulk(ctx, index, ndjson)
	e.observe(db.OpBulk, index, start, err)
	return raw, err
}
