package backend

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchbridge/internal/db"
	"github.com/kailas-cloud/searchbridge/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterEngineMetrics()
	os.Exit(m.Run())
}

func TestInstrumentedEngine_Success(t *testing.T) {
	inner := &mockEngine{searchResp: map[string]any{}}
	e := NewInstrumentedEngine(inner, "test-ok", zap.NewNop())

	if _, err := e.Search(context.Background(), "articles", map[string]any{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := testutil.ToFloat64(metrics.EngineRequestsTotal.WithLabelValues("test-ok", db.OpSearch, "ok"))
	if got != 1 {
		t.Errorf("engine_requests_total = %f, want 1", got)
	}
	if len(inner.calls) != 1 || inner.calls[0] != "search:articles" {
		t.Errorf("inner calls = %v", inner.calls)
	}
}

func TestInstrumentedEngine_StatusLabel(t *testing.T) {
	inner := &mockEngine{bulkErr: &db.Error{Op: db.OpBulk, Status: 429}}
	e := NewInstrumentedEngine(inner, "test-status", nil)

	_, err := e.Bulk(context.Background(), "articles", []byte("{}\n"))
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected *db.Error passthrough, got %T", err)
	}

	got := testutil.ToFloat64(metrics.EngineRequestsTotal.WithLabelValues("test-status", db.OpBulk, "429"))
	if got != 1 {
		t.Errorf("engine_requests_total{status=429} = %f, want 1", got)
	}
}

func TestInstrumentedEngine_TransportError(t *testing.T) {
	inner := &mockEngine{pingErr: errors.New("dial tcp: refused")}
	e := NewInstrumentedEngine(inner, "test-transport", nil)

	if err := e.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	got := testutil.ToFloat64(metrics.EngineRequestsTotal.WithLabelValues("test-transport", db.OpPing, "error"))
	if got != 1 {
		t.Errorf("engine_requests_total{status=error} = %f, want 1", got)
	}
}

func TestInstrumentedEngine_DelegatesIndexOps(t *testing.T) {
	inner := &mockEngine{exists: true}
	e := NewInstrumentedEngine(inner, "test-index", nil)
	ctx := context.Background()

	ok, err := e.IndexExists(ctx, "a")
	if err != nil || !ok {
		t.Errorf("IndexExists() = %v, %v", ok, err)
	}
	if err := e.CreateIndex(ctx, db.NewIndex("a").MustBuild()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.PutMapping(ctx, "a", map[string]any{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.DeleteIndex(ctx, "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inner.calls) != 4 {
		t.Errorf("inner calls = %v, want 4", inner.calls)
	}
}
