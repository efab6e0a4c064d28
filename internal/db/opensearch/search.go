package opensearch

import (
	"bytes"
	"context"

	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"

	"github.com/kailas-cloud/searchbridge/internal/db"
)

// Search runs a compiled _search body against index.
func (e *Engine) Search(ctx context.Context, index string, body map[string]any) (map[string]any, error) {
	r, err := db.EncodeBody(body)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Index: index, Err: err}
	}

	req := opensearchapi.SearchReq{Indices: []string{index}, Body: r}
	raw, err := e.call(ctx, db.OpSearch, index, req)
	if err != nil {
		return nil, err
	}
	return decode(db.OpSearch, index, raw)
}

// Bulk sends an NDJSON body. Per-item failures are reported in the response,
// not as an error.
func (e *Engine) Bulk(ctx context.Context, index string, ndjson []byte) (map[string]any, error) {
	req := opensearchapi.BulkReq{Index: index, Body: bytes.NewReader(ndjson)}
	raw, err := e.call(ctx, db.OpBulk, index, req)
	if err != nil {
		return nil, err
	}
	return decode(db.OpBulk, index, raw)
}

func decode(op, index string, raw []byte) (map[string]any, error) {
	m, err := db.DecodeBody(bytes.NewReader(raw))
	if err != nil {
		return nil, &db.Error{Op: op, Index: index, Err: err}
	}
	return m, nil
}
