package db

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// Engine is the search engine facade implemented by every adapter.
type Engine interface {
	Pinger
	IndexManager
	Searcher
	BulkWriter
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks engine connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexManager provides index lifecycle operations.
type IndexManager interface {
	IndexExists(ctx context.Context, index string) (bool, error)
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DeleteIndex(ctx context.Context, index string) error
	PutMapping(ctx context.Context, index string, mapping map[string]any) error
}

// Searcher executes compiled _search bodies and returns the decoded response.
type Searcher interface {
	Search(ctx context.Context, index string, body map[string]any) (map[string]any, error)
}

// BulkWriter sends an NDJSON bulk body and returns the decoded response.
type BulkWriter interface {
	Bulk(ctx context.Context, index string, ndjson []byte) (map[string]any, error)
}

// readinessPoll is the interval between pings while waiting for an engine.
const readinessPoll = 100 * time.Millisecond

// WaitForReady polls p until it responds or timeout expires.
func WaitForReady(ctx context.Context, p Pinger, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(readinessPoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for engine: %w", ctx.Err())
		case <-ticker.C:
			if err := p.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// EncodeBody renders a DSL tree as a request body.
func EncodeBody(body map[string]any) (io.Reader, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return &buf, nil
}

// DecodeBody reads a JSON object response body. Numbers are kept as
// json.Number so large integers in _source survive.
func DecodeBody(r io.Reader) (map[string]any, error) {
	var out map[string]any
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}
