package backend

import (
	"context"

	"github.com/kailas-cloud/searchbridge/internal/db"
)

// Engine is the port the service executes compiled bodies through.
// Adapters under internal/db satisfy it.
type Engine interface {
	Ping(ctx context.Context) error
	IndexExists(ctx context.Context, index string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DeleteIndex(ctx context.Context, index string) error
	PutMapping(ctx context.Context, index string, mapping map[string]any) error
	Search(ctx context.Context, index string, body map[string]any) (map[string]any, error)
	Bulk(ctx context.Context, index string, ndjson []byte) (map[string]any, error)
}
