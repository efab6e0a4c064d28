package elasticsearch

import (
	"bytes"
	"context"
	"net/http"

	"github.com/kailas-cloud/searchbridge/internal/db"
)

// Ping checks connectivity.
func (e *Engine) Ping(ctx context.Context) error {
	res, err := e.es.Ping(e.es.Ping.WithContext(ctx))
	_, err = check(db.OpPing, "", res, err)
	return err
}

// IndexExists probes the index with HEAD; 404 means absent.
func (e *Engine) IndexExists(ctx context.Context, index string) (bool, error) {
	res, err := e.es.Indices.Exists([]string{index}, e.es.Indices.Exists.WithContext(ctx))
	status, body, err := read(db.OpIndexExists, index, res, err)
	if err != nil {
		return false, err
	}
	switch {
	case status >= 200 && status < 300:
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

	res, err := e.es.Indices.Create(def.Name,
		e.es.Indices.Create.WithContext(ctx),
		e.es.Indices.Create.WithBody(bytes.NewReader(raw)),
	)
	_, err = check(db.OpCreateIndex, def.Name, res, err)
	return err
}

// DeleteIndex removes an index. A missing index is reported as an error
// matching db.ErrIndexNotFound.
func (e *Engine) DeleteIndex(ctx context.Context, index string) error {
	res, err := e.es.Indices.Delete([]string{index}, e.es.Indices.Delete.WithContext(ctx))
	_, err = check(db.OpDeleteIndex, index, res, err)
	return err
}

// PutMapping replaces the field mappings of an existing index.
func (e *Engine) PutMapping(ctx context.Context, index string, mapping map[string]any) error {
	body, err := db.EncodeBody(mapping)
	if err != nil {
		return &db.Error{Op: db.OpPutMapping, Index: index, Err: err}
	}

	res, err := e.es.Indices.PutMapping([]string{index}, body, e.es.Indices.PutMapping.WithContext(ctx))
	_, err = check(db.OpPutMapping, index, res, err)
	return err
}
