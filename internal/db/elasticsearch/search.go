package elasticsearch

import (
	"bytes"
	"context"

	"github.com/kailas-cloud/searchbridge/internal/db"
)

// Search runs a compiled _search body against index.
func (e *Engine) Search(ctx context.Context, index string, body map[string]any) (map[string]any, error) {
	r, err := db.EncodeBody(body)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Index: index, Err: err}
	}

	res, err := e.es.Search(
		e.es.Search.WithContext(ctx),
		e.es.Search.WithIndex(index),
		e.es.Search.WithBody(r),
	)
	raw, err := check(db.OpSearch, index, res, err)
	if err != nil {
		return nil, err
	}
	return decode(db.OpSearch, index, raw)
}

// Bulk sends an NDJSON body. Per-item failures are reported in the response,
// not as an error.
func (e *Engine) Bulk(ctx context.Context, index string, ndjson []byte) (map[string]any, error) {
	res, err := e.es.Bulk(bytes.NewReader(ndjson),
		e.es.Bulk.WithContext(ctx),
		e.es.Bulk.WithIndex(index),
	)
	raw, err := check(db.OpBulk, index, res, err)
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
