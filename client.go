// Package searchbridge compiles abstract index schemas, items and search
// requests into Elasticsearch/OpenSearch DSL and executes them against a
// cluster.
package searchbridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchbridge/internal/db"
	"github.com/kailas-cloud/searchbridge/internal/db/connect"
	"github.com/kailas-cloud/searchbridge/internal/domain"
	"github.com/kailas-cloud/searchbridge/internal/domain/batch"
	"github.com/kailas-cloud/searchbridge/internal/domain/search/request"
	"github.com/kailas-cloud/searchbridge/internal/metrics"
	"github.com/kailas-cloud/searchbridge/internal/transport/api"
	"github.com/kailas-cloud/searchbridge/internal/usecase/backend"
)

const (
	driverOpenSearch    = connect.OpenSearch
	driverElasticsearch = connect.Elasticsearch

	defaultReadinessTimeout = 10 * time.Second
	defaultMaxRetries       = 3
)

// Client is the searchbridge SDK entry point.
type Client struct {
	backend      *backend.Service
	defaultLimit int
}

// New connects to the configured cluster and waits for it to answer a ping.
func New(opts ...Option) (*Client, error) {
	cfg := clientConfig{
		driver:           driverOpenSearch,
		maxRetries:       defaultMaxRetries,
		fuzziness:        "auto",
		readinessTimeout: defaultReadinessTimeout,
	}
	for _, o := range opts {
		o.apply(&cfg)
	}
	if len(cfg.addrs) == 0 {
		return nil, fmt.Errorf("searchbridge: engine address required, use WithOpenSearch or WithElasticsearch")
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	raw, err := connect.Open(connect.Config{
		Driver:          cfg.driver,
		Addrs:           cfg.addrs,
		Username:        cfg.username,
		Password:        cfg.password,
		InsecureSkipTLS: cfg.insecureSkipTLS,
		MaxRetries:      cfg.maxRetries,
		Transport:       cfg.transport,
	})
	if err != nil {
		return nil, fmt.Errorf("searchbridge: %w", err)
	}

	var engine backend.Engine = raw
	if cfg.metrics {
		metrics.RegisterEngineMetrics()
		engine = backend.NewInstrumentedEngine(raw, cfg.driver, logger)
	}

	if !cfg.skipReadiness {
		if err := raw.WaitForReady(context.Background(), cfg.readinessTimeout); err != nil {
			return nil, fmt.Errorf("searchbridge: %w", err)
		}
	}

	return newClient(engine, logger, cfg), nil
}

func newClient(engine backend.Engine, logger *zap.Logger, cfg clientConfig) *Client {
	svc := backend.New(engine, logger, backend.Options{
		IndexPrefix: cfg.indexPrefix,
		Fuzziness:   cfg.fuzziness,
		Settings: db.IndexSettings{
			Shards:          cfg.shards,
			Replicas:        cfg.replicas,
			RefreshInterval: cfg.refreshInterval,
		},
		Hooks: cfg.hooks,
	})
	limit := cfg.defaultLimit
	if limit <= 0 {
		limit = request.DefaultLimit
	}
	return &Client{backend: svc, defaultLimit: limit}
}

// Ping checks that the cluster is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.backend.Ping(ctx)
}

// IndexName returns the engine index name for name, including the prefix.
func (c *Client) IndexName(name string) string {
	return c.backend.IndexName(name)
}

// CompileMapping returns the mapping body for s without contacting the cluster.
func (c *Client) CompileMapping(s Schema) (map[string]any, error) {
	idx, err := s.ToDomain()
	if err != nil {
		return nil, err
	}
	return c.backend.CompileMapping(idx), nil
}

// AddIndex creates the index for s and puts its mapping.
// Returns an error matching ErrIndexExists if it is already there.
func (c *Client) AddIndex(ctx context.Context, s Schema) error {
	idx, err := s.ToDomain()
	if err != nil {
		return err
	}
	return c.backend.AddIndex(ctx, idx)
}

// UpdateIndex puts the current mapping of s on an existing index.
func (c *Client) UpdateIndex(ctx context.Context, s Schema) error {
	idx, err := s.ToDomain()
	if err != nil {
		return err
	}
	return c.backend.UpdateIndex(ctx, idx)
}

// RemoveIndex deletes the index. A missing index is not an error.
func (c *Client) RemoveIndex(ctx context.Context, name string) error {
	return c.backend.RemoveIndex(ctx, name)
}

// ClearIndex drops every document by recreating the index for s.
func (c *Client) ClearIndex(ctx context.Context, s Schema) error {
	idx, err := s.ToDomain()
	if err != nil {
		return err
	}
	return c.backend.ClearIndex(ctx, idx)
}

// CompileBulk returns the bulk action and document lines for items.
func (c *Client) CompileBulk(index string, items ...Item) ([]map[string]any, error) {
	domItems, err := api.IndexItems{Items: items}.ToDomain()
	if err != nil {
		return nil, err
	}
	return c.backend.CompileBulk(index, domItems), nil
}

// IndexItems indexes items in one bulk request. Per-item outcomes are
// returned alongside any error; rejected items yield an error matching
// ErrPartialBulkFailure.
func (c *Client) IndexItems(ctx context.Context, index string, items ...Item) (BulkResult, error) {
	domItems, err := api.IndexItems{Items: items}.ToDomain()
	if err != nil {
		return BulkResult{}, err
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	_, err = c.backend.IndexItems(ctx, index, domItems)
	return bulkResult(ids, err)
}

// DeleteItems removes documents by id in one bulk request.
func (c *Client) DeleteItems(ctx context.Context, index string, ids ...string) (BulkResult, error) {
	err := c.backend.DeleteItems(ctx, index, ids)
	return bulkResult(ids, err)
}

func bulkResult(ids []string, err error) (BulkResult, error) {
	if err != nil && !errors.Is(err, domain.ErrPartialBulkFailure) {
		return BulkResult{}, err
	}
	return api.FromBatch(batch.Outcomes(ids, err)), err
}

// CompileSearch returns the search body for s without contacting the cluster.
func (c *Client) CompileSearch(index string, s Search) (Compiled, error) {
	idx, req, err := s.ToDomain(index, c.defaultLimit)
	if err != nil {
		return Compiled{}, err
	}
	built, err := c.backend.CompileSearch(idx, req)
	if err != nil {
		return Compiled{}, err
	}
	return api.FromBuilt(built), nil
}

// Search runs s against the index. A missing index yields an empty result.
func (c *Client) Search(ctx context.Context, index string, s Search) (SearchResult, error) {
	idx, req, err := s.ToDomain(index, c.defaultLimit)
	if err != nil {
		return SearchResult{}, err
	}
	set, err := c.backend.Search(ctx, idx, req)
	if err != nil {
		return SearchResult{}, err
	}
	return api.FromResult(set), nil
}
