package elasticsearch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/kailas-cloud/searchbridge/internal/db"
)

// Compile-time check: Engine implements db.Engine.
var _ db.Engine = (*Engine)(nil)

// Config holds connection parameters for an Elasticsearch cluster.
type Config struct {
	Addrs           []string
	Username        string
	Password        string
	InsecureSkipTLS bool
	MaxRetries      int
	// Transport overrides the HTTP transport (tests).
	Transport http.RoundTripper
}

// Engine implements db.Engine via go-elasticsearch.
type Engine struct {
	es *elasticsearch.Client
}

// NewEngine creates an Elasticsearch engine client.
func NewEngine(cfg Config) (*Engine, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	transport := cfg.Transport
	if transport == nil {
		transport = &http.Transport{
			//nolint:gosec // opt-in for self-signed dev clusters
			TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.InsecureSkipTLS},
		}
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:  cfg.Addrs,
		Username:   cfg.Username,
		Password:   cfg.Password,
		Transport:  transport,
		MaxRetries: cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Engine{es: es}, nil
}

// WaitForReady polls Ping until the cluster responds or timeout expires.
func (e *Engine) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.WaitForReady(ctx, e, timeout)
}

// read drains an esapi response. Transport failures come back as *db.Error;
// non-2xx statuses are left to the caller.
func read(op, index string, res *esapi.Response, err error) (int, []byte, error) {
	if err != nil {
		return 0, nil, &db.Error{Op: op, Index: index, Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, &db.Error{Op: op, Index: index, Status: res.StatusCode, Err: err}
	}
	return res.StatusCode, body, nil
}

// check is read plus error mapping for non-2xx statuses.
func check(op, index string, res *esapi.Response, err error) ([]byte, error) {
	status, body, err := read(op, index, res, err)
	if err != nil {
		return nil, err
	}
	if status > 299 {
		return nil, db.ParseError(op, index, status, body)
	}
	return body, nil
}
