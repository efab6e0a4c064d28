package searchbridge

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver          string // "opensearch" or "elasticsearch"
	addrs           []string
	username        string
	password        string
	insecureSkipTLS bool
	maxRetries      int
	transport       http.RoundTripper

	indexPrefix      string
	fuzziness        string
	defaultLimit     int
	shards           int
	replicas         int
	refreshInterval  string
	hooks            Hooks
	readinessTimeout time.Duration
	skipReadiness    bool

	logger  *zap.Logger
	metrics bool
}

// WithOpenSearch configures the client to talk to an OpenSearch cluster.
func WithOpenSearch(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverOpenSearch
		c.addrs = addrs
	})
}

// WithElasticsearch configures the client to talk to an Elasticsearch cluster.
func WithElasticsearch(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverElasticsearch
		c.addrs = addrs
	})
}

// WithCredentials sets HTTP basic auth credentials.
func WithCredentials(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.password = password
	})
}

// WithInsecureTLS disables certificate verification.
func WithInsecureTLS() Option {
	return optionFunc(func(c *clientConfig) {
		c.insecureSkipTLS = true
	})
}

// WithMaxRetries sets the transport retry budget. Default: 3.
func WithMaxRetries(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxRetries = n
	})
}

// WithTransport replaces the HTTP transport of the engine client.
func WithTransport(rt http.RoundTripper) Option {
	return optionFunc(func(c *clientConfig) {
		c.transport = rt
	})
}

// WithIndexPrefix prepends prefix to every engine index name.
func WithIndexPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexPrefix = prefix
	})
}

// WithFuzziness sets the default fuzzy edit distance for search keys:
// "auto", "0" (off), "1" or "2". Default: "auto".
func WithFuzziness(f string) Option {
	return optionFunc(func(c *clientConfig) {
		c.fuzziness = f
	})
}

// WithDefaultLimit sets the page size used when a search has no limit.
// Default: 10.
func WithDefaultLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultLimit = n
	})
}

// WithIndexSettings sets shard, replica and refresh settings used when
// creating indexes. Zero values leave the engine defaults.
func WithIndexSettings(shards, replicas int, refreshInterval string) Option {
	return optionFunc(func(c *clientConfig) {
		c.shards = shards
		c.replicas = replicas
		c.refreshInterval = refreshInterval
	})
}

// WithHooks installs alteration hooks applied to compiled mappings,
// queries and bulk lines.
func WithHooks(h Hooks) Option {
	return optionFunc(func(c *clientConfig) {
		c.hooks = h
	})
}

// WithReadinessTimeout bounds the initial cluster ping. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithoutReadinessCheck skips the initial cluster ping.
func WithoutReadinessCheck() Option {
	return optionFunc(func(c *clientConfig) {
		c.skipReadiness = true
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithMetrics registers engine request metrics on the default Prometheus
// registry and instruments every engine call.
func WithMetrics() Option {
	return optionFunc(func(c *clientConfig) {
		c.metrics = true
	})
}
