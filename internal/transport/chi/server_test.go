package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kailas-cloud/searchbridge/internal/db"
	"github.com/kailas-cloud/searchbridge/internal/transport/api"
	"github.com/kailas-cloud/searchbridge/internal/usecase/backend"
	healthuc "github.com/kailas-cloud/searchbridge/internal/usecase/health"
)

// fakeEngine is a hand-written backend.Engine.
type fakeEngine struct {
	pingErr    error
	exists     bool
	existsErr  error
	createErr  error
	searchResp map[string]any
	bulkResp   map[string]any

	calls    []string
	mappings []map[string]any
	bulks    [][]byte
}

func (f *fakeEngine) Ping(context.Context) error { f.calls = append(f.calls, "ping"); return f.pingErr }

func (f *fakeEngine) IndexExists(_ context.Context, index string) (bool, error) {
	f.calls = append(f.calls, "exists:"+index)
	return f.exists, f.existsErr
}

func (f *fakeEngine) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	f.calls = append(f.calls, "create:"+def.Name)
	return f.createErr
}

func (f *fakeEngine) DeleteIndex(_ context.Context, index string) error {
	f.calls = append(f.calls, "delete:"+index)
	return nil
}

func (f *fakeEngine) PutMapping(_ context.Context, index string, mapping map[string]any) error {
	f.calls = append(f.calls, "mapping:"+index)
	f.mappings = append(f.mappings, mapping)
	return nil
}

func (f *fakeEngine) Search(_ context.Context, index string, _ map[string]any) (map[string]any, error) {
	f.calls = append(f.calls, "search:"+index)
	return f.searchResp, nil
}

func (f *fakeEngine) Bulk(_ context.Context, index string, ndjson []byte) (map[string]any, error) {
	f.calls = append(f.calls, "bulk:"+index)
	f.bulks = append(f.bulks, ndjson)
	return f.bulkResp, nil
}

func newTestServer(engine *fakeEngine, apiKeys ...string) http.Handler {
	svc := backend.New(engine, nil, backend.Options{IndexPrefix: "t_", Fuzziness: "auto"})
	health := healthuc.New(map[string]healthuc.EnginePinger{"engine": engine})
	return NewServer(svc, health, nil).WithDefaultLimit(20).Routes(apiKeys)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
	return v
}

var testSchema = api.Schema{Fields: []api.Field{
	{ID: "title", Type: "text", Boost: 2},
	{ID: "tags", Type: "string"},
}}

func TestHealthCheck(t *testing.T) {
	rr := do(t, newTestServer(&fakeEngine{}), http.MethodGet, "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := decode[map[string]any](t, rr)
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}

	rr = do(t, newTestServer(&fakeEngine{pingErr: errors.New("down")}), http.MethodGet, "/health", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("unhealthy status = %d, want 503", rr.Code)
	}
}

func TestCreateIndex(t *testing.T) {
	engine := &fakeEngine{}
	rr := do(t, newTestServer(engine), http.MethodPut, "/indexes/articles", testSchema)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	info := decode[api.IndexInfo](t, rr)
	if info != (api.IndexInfo{Name: "articles", EngineIndex: "t_articles", Fields: 2}) {
		t.Errorf("info = %+v", info)
	}
	if strings.Join(engine.calls, ",") != "create:t_articles,mapping:t_articles" {
		t.Errorf("calls = %v", engine.calls)
	}
	props, _ := engine.mappings[0]["properties"].(map[string]any)
	if _, ok := props["title"]; !ok {
		t.Errorf("mapping without title: %v", engine.mappings[0])
	}
}

func TestCreateIndex_Errors(t *testing.T) {
	dup := api.Schema{Fields: []api.Field{{ID: "a", Type: "text"}, {ID: "a", Type: "text"}}}
	exists := &db.Error{Op: db.OpCreateIndex, Status: 400, Type: db.TypeIndexExists}

	tests := []struct {
		name     string
		engine   *fakeEngine
		path     string
		body     any
		wantCode int
		wantErr  string
	}{
		{"bad index name", &fakeEngine{}, "/indexes/Articles", testSchema, http.StatusBadRequest, api.CodeValidationFailed},
		{"malformed body", &fakeEngine{}, "/indexes/articles", "{", http.StatusBadRequest, api.CodeBadRequest},
		{"duplicate fields", &fakeEngine{}, "/indexes/articles", dup, http.StatusBadRequest, api.CodeValidationFailed},
		{"already exists", &fakeEngine{createErr: exists}, "/indexes/articles", testSchema, http.StatusConflict, api.CodeIndexExists},
		{"engine down", &fakeEngine{createErr: errors.New("dial tcp")}, "/indexes/articles", testSchema, http.StatusBadGateway, api.CodeEngineError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, newTestServer(tt.engine), http.MethodPut, tt.path, tt.body)
			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantCode, rr.Body.String())
			}
			if e := decode[api.Error](t, rr); e.Code != tt.wantErr {
				t.Errorf("code = %q, want %q", e.Code, tt.wantErr)
			}
		})
	}
}

func TestEngineErrorMessageIsSafe(t *testing.T) {
	engine := &fakeEngine{createErr: errors.New("dial tcp 10.0.0.7:9200: connection refused")}
	rr := do(t, newTestServer(engine), http.MethodPut, "/indexes/articles", testSchema)

	if strings.Contains(rr.Body.String(), "10.0.0.7") {
		t.Errorf("engine internals leaked: %s", rr.Body.String())
	}
}

func TestDeleteIndex(t *testing.T) {
	engine := &fakeEngine{}
	rr := do(t, newTestServer(engine), http.MethodDelete, "/indexes/articles", nil)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rr.Code)
	}
	if len(engine.calls) != 1 || engine.calls[0] != "delete:t_articles" {
		t.Errorf("calls = %v", engine.calls)
	}
}

func TestClearIndex(t *testing.T) {
	engine := &fakeEngine{}
	rr := do(t, newTestServer(engine), http.MethodPost, "/indexes/articles/clear", testSchema)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	want := "delete:t_articles,create:t_articles,mapping:t_articles"
	if got := strings.Join(engine.calls, ","); got != want {
		t.Errorf("calls = %s, want %s", got, want)
	}
}

func TestCompileMapping_NoEngineCall(t *testing.T) {
	engine := &fakeEngine{}
	rr := do(t, newTestServer(engine), http.MethodPost, "/indexes/articles/mapping/compile", testSchema)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := decode[map[string]any](t, rr)
	if _, ok := body["properties"]; !ok {
		t.Errorf("mapping body = %v", body)
	}
	if len(engine.calls) != 0 {
		t.Errorf("unexpected engine calls: %v", engine.calls)
	}
}

func TestSearch(t *testing.T) {
	engine := &fakeEngine{
		exists: true,
		searchResp: map[string]any{
			"hits": map[string]any{
				"total": map[string]any{"value": 3.0, "relation": "eq"},
				"hits": []any{
					map[string]any{"_id": "1", "_score": 1.5, "_source": map[string]any{"title": "Hello"}},
				},
			},
		},
	}
	req := api.Search{Fields: testSchema.Fields, Keys: "hello"}
	rr := do(t, newTestServer(engine), http.MethodPost, "/indexes/articles/search", req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	res := decode[api.SearchResult](t, rr)
	if res.ResultCount != 3 || len(res.Items) != 1 {
		t.Fatalf("result = %+v", res)
	}
	if res.Items[0].ID != "1" || res.Items[0].Fields["title"][0] != "Hello" {
		t.Errorf("hit = %+v", res.Items[0])
	}
}

func TestSearch_MissingIndexIsEmpty(t *testing.T) {
	engine := &fakeEngine{exists: false}
	rr := do(t, newTestServer(engine), http.MethodPost, "/indexes/articles/search", api.Search{Keys: "x"})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if res := decode[api.SearchResult](t, rr); res.ResultCount != 0 || len(res.Items) != 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestSearch_UnknownFilterField(t *testing.T) {
	engine := &fakeEngine{exists: true}
	req := api.Search{
		Fields:     testSchema.Fields,
		Conditions: &api.Condition{Field: "nope", Operator: "=", Value: "x"},
	}
	rr := do(t, newTestServer(engine), http.MethodPost, "/indexes/articles/search", req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if e := decode[api.Error](t, rr); e.Code != api.CodeCompileFailed || !strings.Contains(e.Message, "nope") {
		t.Errorf("error = %+v", e)
	}
}

func TestSearch_EngineUnavailable(t *testing.T) {
	engine := &fakeEngine{existsErr: errors.New("connection refused")}
	rr := do(t, newTestServer(engine), http.MethodPost, "/indexes/articles/search", api.Search{})

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestCompileSearch(t *testing.T) {
	engine := &fakeEngine{}
	req := api.Search{
		Fields:     testSchema.Fields,
		Conditions: &api.Condition{Field: "tags", Operator: "IN", Value: []any{"a", "b"}},
		Sort:       []api.Sort{{Field: "missing"}},
	}
	rr := do(t, newTestServer(engine), http.MethodPost, "/indexes/articles/search/compile", req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	c := decode[api.Compiled](t, rr)
	if c.Index != "t_articles" {
		t.Errorf("index = %q", c.Index)
	}
	if c.Body["size"] != 20.0 {
		t.Errorf("size = %v, want default limit 20", c.Body["size"])
	}
	if _, ok := c.Body["query"]; !ok {
		t.Errorf("body without query: %v", c.Body)
	}
	if len(c.Warnings) != 1 {
		t.Errorf("warnings = %v", c.Warnings)
	}
	if len(engine.calls) != 0 {
		t.Errorf("unexpected engine calls: %v", engine.calls)
	}
}

func itemsBody() api.IndexItems {
	return api.IndexItems{Items: []api.Item{
		{ID: "1", Language: "en", Fields: []api.ItemField{{ID: "title", Type: "text", Values: []any{"one"}}}},
		{ID: "2", Language: "en", Fields: []api.ItemField{{ID: "title", Type: "text", Values: []any{"two"}}}},
	}}
}

func TestIndexItems_PartialFailure(t *testing.T) {
	engine := &fakeEngine{bulkResp: map[string]any{
		"errors": true,
		"items": []any{
			map[string]any{"index": map[string]any{"_id": "1", "status": 201.0}},
			map[string]any{"index": map[string]any{
				"_id": "2", "status": 400.0,
				"error": map[string]any{"type": "mapper_parsing_exception", "reason": "failed to parse"},
			}},
		},
	}}
	rr := do(t, newTestServer(engine), http.MethodPost, "/indexes/articles/items", itemsBody())

	if rr.Code != http.StatusMultiStatus {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	res := decode[api.BulkResult](t, rr)
	if res.Succeeded != 1 || res.Failed != 1 {
		t.Fatalf("result = %+v", res)
	}
	if res.Items[1].Error == nil || res.Items[1].Error.Code != api.CodeItemRejected {
		t.Errorf("item 2 = %+v", res.Items[1])
	}
	if len(engine.bulks) != 1 || bytes.Count(engine.bulks[0], []byte("\n")) != 4 {
		t.Errorf("bulk body = %q", engine.bulks)
	}
}

func TestIndexItems_AllOK(t *testing.T) {
	engine := &fakeEngine{bulkResp: map[string]any{
		"errors": false,
		"items": []any{
			map[string]any{"index": map[string]any{"_id": "1", "status": 200.0}},
			map[string]any{"index": map[string]any{"_id": "2", "status": 201.0}},
		},
	}}
	rr := do(t, newTestServer(engine), http.MethodPost, "/indexes/articles/items", itemsBody())

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if res := decode[api.BulkResult](t, rr); res.Succeeded != 2 || res.Failed != 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestIndexItems_DryRun(t *testing.T) {
	engine := &fakeEngine{}
	rr := do(t, newTestServer(engine), http.MethodPost, "/indexes/articles/items?dry_run=true", itemsBody())

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	lines := decode[api.BulkLines](t, rr)
	if lines.Index != "t_articles" || len(lines.Lines) != 4 {
		t.Errorf("lines = %+v", lines)
	}
	if len(engine.calls) != 0 {
		t.Errorf("unexpected engine calls: %v", engine.calls)
	}

	rr = do(t, newTestServer(engine), http.MethodPost, "/indexes/articles/items?dry_run=maybe", itemsBody())
	if rr.Code != http.StatusBadRequest {
		t.Errorf("invalid dry_run status = %d", rr.Code)
	}
}

func TestIndexItems_Validation(t *testing.T) {
	h := newTestServer(&fakeEngine{})

	if rr := do(t, h, http.MethodPost, "/indexes/articles/items", api.IndexItems{}); rr.Code != http.StatusBadRequest {
		t.Errorf("empty batch status = %d", rr.Code)
	}
	bad := api.IndexItems{Items: []api.Item{{ID: ""}}}
	if rr := do(t, h, http.MethodPost, "/indexes/articles/items", bad); rr.Code != http.StatusBadRequest {
		t.Errorf("missing id status = %d", rr.Code)
	}
}

func TestDeleteItems(t *testing.T) {
	engine := &fakeEngine{bulkResp: map[string]any{
		"items": []any{
			map[string]any{"delete": map[string]any{"_id": "1", "status": 200.0}},
			map[string]any{"delete": map[string]any{"_id": "2", "status": 404.0}},
		},
	}}
	rr := do(t, newTestServer(engine), http.MethodPost, "/indexes/articles/items/delete", api.DeleteItems{IDs: []string{"1", "2"}})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if res := decode[api.BulkResult](t, rr); res.Succeeded != 2 {
		t.Errorf("result = %+v", res)
	}
}

func TestRoutes_AuthAndNotFound(t *testing.T) {
	h := newTestServer(&fakeEngine{}, "secret")

	if rr := do(t, h, http.MethodDelete, "/indexes/articles", nil); rr.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d", rr.Code)
	}
	if rr := do(t, h, http.MethodGet, "/health", nil); rr.Code != http.StatusOK {
		t.Errorf("health status = %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/nowhere", http.NoBody)
	req.Header.Set("Authorization", "Bearer secret")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}
