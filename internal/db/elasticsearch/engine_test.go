package elasticsearch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kailas-cloud/searchbridge/internal/db"
)

type route struct {
	status int
	body   string
}

// newTestEngine serves canned responses keyed by "METHOD /path" and records
// the last request body per key.
func newTestEngine(t *testing.T, routes map[string]route) (*Engine, map[string]string) {
	t.Helper()
	seen := map[string]string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		body, _ := io.ReadAll(r.Body)
		seen[key] = string(body)

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		rt, ok := routes[key]
		if !ok {
			w.WriteHeader(http.StatusNotImplemented)
			return
		}
		w.WriteHeader(rt.status)
		_, _ = io.WriteString(w, rt.body)
	}))
	t.Cleanup(srv.Close)

	e, err := NewEngine(Config{Addrs: []string{srv.URL}, MaxRetries: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return e, seen
}

func TestNewEngine_RequiresAddrs(t *testing.T) {
	if _, err := NewEngine(Config{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestPing(t *testing.T) {
	e, _ := newTestEngine(t, map[string]route{"HEAD /": {status: http.StatusOK}})
	if err := e.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIndexExists(t *testing.T) {
	e, _ := newTestEngine(t, map[string]route{
		"HEAD /present": {status: http.StatusOK},
		"HEAD /absent":  {status: http.StatusNotFound},
	})

	ok, err := e.IndexExists(context.Background(), "present")
	if err != nil || !ok {
		t.Errorf("IndexExists(present) = %v, %v; want true", ok, err)
	}
	ok, err = e.IndexExists(context.Background(), "absent")
	if err != nil || ok {
		t.Errorf("IndexExists(absent) = %v, %v; want false", ok, err)
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	e, _ := newTestEngine(t, map[string]route{
		"PUT /articles": {
			status: http.StatusBadRequest,
			body:   `{"error":{"type":"resource_already_exists_exception","reason":"index [articles/abc] already exists"},"status":400}`,
		},
	})

	err := e.CreateIndex(context.Background(), db.NewIndex("articles").MustBuild())
	if !errors.Is(err, db.ErrIndexExists) {
		t.Errorf("err = %v, want ErrIndexExists", err)
	}
}

func TestPutMappingAndDelete(t *testing.T) {
	e, seen := newTestEngine(t, map[string]route{
		"PUT /articles/_mapping": {status: http.StatusOK, body: `{"acknowledged":true}`},
		"DELETE /articles":       {status: http.StatusOK, body: `{"acknowledged":true}`},
	})

	mapping := map[string]any{"properties": map[string]any{"_language": map[string]any{"type": "keyword"}}}
	if err := e.PutMapping(context.Background(), "articles", mapping); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(seen["PUT /articles/_mapping"], `"_language"`) {
		t.Errorf("mapping body = %s", seen["PUT /articles/_mapping"])
	}
	if err := e.DeleteIndex(context.Background(), "articles"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearchAndBulk(t *testing.T) {
	e, seen := newTestEngine(t, map[string]route{
		"POST /articles/_search": {status: http.StatusOK, body: `{"hits":{"total":{"value":0},"hits":[]}}`},
		"POST /articles/_bulk":   {status: http.StatusOK, body: `{"errors":true,"items":[]}`},
	})

	raw, err := e.Search(context.Background(), "articles", map[string]any{"size": 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := raw["hits"]; !ok {
		t.Errorf("response = %v", raw)
	}
	if !strings.Contains(seen["POST /articles/_search"], `"size":5`) {
		t.Errorf("search body = %s", seen["POST /articles/_search"])
	}

	raw, err = e.Bulk(context.Background(), "articles", []byte("{\"delete\":{\"_id\":\"1\"}}\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw["errors"] != true {
		t.Errorf("bulk response = %v", raw)
	}
}

func TestSearch_IndexNotFound(t *testing.T) {
	e, _ := newTestEngine(t, map[string]route{
		"POST /gone/_search": {
			status: http.StatusNotFound,
			body:   `{"error":{"type":"index_not_found_exception","reason":"no such index [gone]"},"status":404}`,
		},
	})

	_, err := e.Search(context.Background(), "gone", map[string]any{})
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("err = %v, want ErrIndexNotFound", err)
	}
}
