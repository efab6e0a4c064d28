package opensearch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/opensearch-project/opensearch-go/v4"

	"github.com/kailas-cloud/searchbridge/internal/db"
)

// Compile-time check: Engine implements db.Engine.
var _ db.Engine = (*Engine)(nil)

// Config holds connection parameters for an OpenSearch cluster.
type Config struct {
	Addrs           []string
	Username        string
	Password        string
	InsecureSkipTLS bool
	MaxRetries      int
	// Transport overrides the HTTP transport (tests).
	Transport http.RoundTripper
}

// Engine implements db.Engine via opensearch-go.
type Engine struct {
	client *opensearch.Client
}

// NewEngine creates an OpenSearch engine client.
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

	client, err := opensearch.NewClient(opensearch.Config{
		Addresses:  cfg.Addrs,
		Username:   cfg.Username,
		Password:   cfg.Password,
		Transport:  transport,
		MaxRetries: cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Engine{client: client}, nil
}

// WaitForReady polls Ping until the cluster responds or timeout expires.
func (e *Engine) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.WaitForReady(ctx, e, timeout)
}

// request is satisfied by every opensearchapi request type.
type request interface {
	GetRequest() (*http.Request, error)
}

// do performs req and returns the status and the raw body. Transport
// failures come back as *db.Error; non-2xx statuses are left to the caller.
func (e *Engine) do(ctx context.Context, op, index string, req request) (int, []byte, error) {
	httpReq, err := req.GetRequest()
	if err != nil {
		return 0, nil, &db.Error{Op: op, Index: index, Err: err}
	}

	resp, err := e.client.Perform(httpReq.WithContext(ctx))
	if err != nil {
		return 0, nil, &db.Error{Op: op, Index: index, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &db.Error{Op: op, Index: index, Status: resp.StatusCode, Err: err}
	}
	return resp.StatusCode, body, nil
}

// call is do plus error mapping for non-2xx statuses.
func (e *Engine) call(ctx context.Context, op, index string, req request) ([]byte, error) {
	status, body, err := e.do(ctx, op, index, req)
	if err != nil {
		return nil, err
	}
	if status > 299 {
		return nil, db.ParseError(op, index, status, body)
	}
	return body, nil
}

func isOK(status int) bool { return status >= 200 && status < 300 }
