package opensearch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"

	"github.com/kailas-cloud/searchbridge/internal/db"
)

// Ping checks connectivity.
func (e *Engine) Ping(ctx context.Context) error {
	status, body, err := e.do(ctx, db.OpPing, "", opensearchapi.PingReq{})
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	if !isOK(status) {
		return db.ParseError(db.OpPing, "", status, body)
	}
	return nil
}

// IndexExists probes the index with HEAD; 404 means absent.
func (e *Engine) IndexExists(ctx context.Context, index string) (bool, error) {
	req := opensearchapi.IndicesExistsReq{Indices: []string{index}}
	status, body, err := e.do(ctx, db.OpIndexExists, index, req)
	if err != nil {
		return false, err
	}
	switch {
	case isOK(status):
		return true, nil
	case status == http.StatusNotFound:
		return false, nil
	default:
		return false, db.ParseError(db.OpIndexExists, index, status, body)
	}
}

// CreateIndex creates an index from def, settings and mappings included.
func (e *Engine) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return &db.Error{Op: db.OpCreateIndex, Index: def.Name, Err: err}
	}
	raw, err := def.JSON()
	if err != nil {
		return &db.Error{Op: db.OpCreateIndex, Index: def.Name, Err: err}
	}

	req := opensearchapi.IndicesCreateReq{Index: def.Name, Body: bytes.NewReader(raw)}
	_, err = e.call(ctx, db.OpCreateIndex, def.Name, req)
	return err
}

// DeleteIndex removes an index. A missing index is reported as an error
// matching db.ErrIndexNotFound.
func (e *Engine) DeleteIndex(ctx context.Context, index string) error {
	req := opensearchapi.IndicesDeleteReq{Indices: []string{index}}
	_, err := e.call(ctx, db.OpDeleteIndex, index, req)
	return err
}

// PutMapping replaces the field mappings of an existing index.
func (e *Engine) PutMapping(ctx context.Context, index string, mapping map[string]any) error {
	body, err := db.EncodeBody(mapping)
	if err != nil {
		return &db.Error{Op: db.OpPutMapping, Index: index, Err: err}
	}

	req := opensearchapi.MappingPutReq{Indices: []string{index}, Body: body}
	_, err = e.call(ctx, db.OpPutMapping, index, req)
	return err
}
