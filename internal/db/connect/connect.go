// Package connect opens an engine client for a configured driver.
package connect

import (
	"fmt"
	"net/http"

	"github.com/kailas-cloud/searchbridge/internal/db"
	"github.com/kailas-cloud/searchbridge/internal/db/elasticsearch"
	"github.com/kailas-cloud/searchbridge/internal/db/opensearch"
)

// Engine drivers.
const (
	OpenSearch    = "opensearch"
	Elasticsearch = "elasticsearch"
)

// Config selects a driver and its connection parameters.
type Config struct {
	Driver          string
	Addrs           []string
	Username        string
	Password        string
	InsecureSkipTLS bool
	MaxRetries      int
	Transport       http.RoundTripper
}

// Open creates the engine client for cfg.Driver. An empty driver means OpenSearch.
func Open(cfg Config) (db.Engine, error) {
	switch cfg.Driver {
	case "", OpenSearch:
		e, err := opensearch.NewEngine(opensearch.Config{
			Addrs:           cfg.Addrs,
			Username:        cfg.Username,
			Password:        cfg.Password,
			InsecureSkipTLS: cfg.InsecureSkipTLS,
			MaxRetries:      cfg.MaxRetries,
			Transport:       cfg.Transport,
		})
		if err != nil {
			return nil, fmt.Errorf("opensearch: %w", err)
		}
		return e, nil
	case Elasticsearch:
		e, err := elasticsearch.NewEngine(elasticsearch.Config{
			Addrs:           cfg.Addrs,
			Username:        cfg.Username,
			Password:        cfg.Password,
			InsecureSkipTLS: cfg.InsecureSkipTLS,
			MaxRetries:      cfg.MaxRetries,
			Transport:       cfg.Transport,
		})
		if err != nil {
			return nil, fmt.Errorf("elasticsearch: %w", err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown engine driver %q", cfg.Driver)
	}
}
