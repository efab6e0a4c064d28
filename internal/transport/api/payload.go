// Package api holds the request and response payloads shared by the HTTP
// server, the CLI and the SDK, with their conversion to domain values.
package api

// Field is one schema field definition.
type Field struct {
	ID    string  `json:"id" yaml:"id"`
	Type  string  `json:"type" yaml:"type"`
	Boost float64 `json:"boost,omitempty" yaml:"boost,omitempty"`
}

// Schema is a named, ordered list of fields.
type Schema struct {
	Name   string  `json:"name,omitempty" yaml:"name,omitempty"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Condition is either a leaf (field, operator, value) or a group
// (conjunction, conditions). A node with a conjunction or child conditions
// is a group.
type Condition struct {
	Field       string      `json:"field,omitempty" yaml:"field,omitempty"`
	Operator    string      `json:"operator,omitempty" yaml:"operator,omitempty"`
	Value       any         `json:"value,omitempty" yaml:"value,omitempty"`
	Conjunction string      `json:"conjunction,omitempty" yaml:"conjunction,omitempty"`
	Negated     bool        `json:"negated,omitempty" yaml:"negated,omitempty"`
	Conditions  []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`
}

// Sort is one sort directive.
type Sort struct {
	Field     string `json:"field" yaml:"field"`
	Direction string `json:"direction,omitempty" yaml:"direction,omitempty"`
}

// MoreLikeThis seeds a similarity clause.
type MoreLikeThis struct {
	IDs    []string `json:"ids,omitempty" yaml:"ids,omitempty"`
	Like   []string `json:"like,omitempty" yaml:"like,omitempty"`
	Unlike []string `json:"unlike,omitempty" yaml:"unlike,omitempty"`
	Fields []string `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Search is a search request against one index. Fields describe the index
// schema the query is compiled against.
type Search struct {
	Fields         []Field       `json:"fields" yaml:"fields"`
	Keys           any           `json:"keys,omitempty" yaml:"keys,omitempty"`
	FulltextFields []string      `json:"fulltext_fields,omitempty" yaml:"fulltext_fields,omitempty"`
	Conditions     *Condition    `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Sort           []Sort        `json:"sort,omitempty" yaml:"sort,omitempty"`
	Offset         int           `json:"offset,omitempty" yaml:"offset,omitempty"`
	Limit          int           `json:"limit,omitempty" yaml:"limit,omitempty"`
	Excludes       []string      `json:"excludes,omitempty" yaml:"excludes,omitempty"`
	MoreLikeThis   *MoreLikeThis `json:"more_like_this,omitempty" yaml:"more_like_this,omitempty"`
	Fuzziness      *string       `json:"fuzziness,omitempty" yaml:"fuzziness,omitempty"`
	Languages      []string      `json:"languages,omitempty" yaml:"languages,omitempty"`
}

// ItemField carries the values of one item field. Text values in "html"
// format are reduced to plain text before indexing.
type ItemField struct {
	ID     string `json:"id" yaml:"id"`
	Type   string `json:"type" yaml:"type"`
	Values []any  `json:"values" yaml:"values"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// Item is a document to index.
type Item struct {
	ID       string      `json:"id" yaml:"id"`
	Language string      `json:"language,omitempty" yaml:"language,omitempty"`
	Fields   []ItemField `json:"fields" yaml:"fields"`
}

// IndexItems is the body of an items request.
type IndexItems struct {
	Items []Item `json:"items" yaml:"items"`
}

// DeleteItems is the body of an items delete request.
type DeleteItems struct {
	IDs []string `json:"ids" yaml:"ids"`
}

// IndexInfo describes an index after a lifecycle operation.
type IndexInfo struct {
	Name        string `json:"name"`
	EngineIndex string `json:"engine_index"`
	Fields      int    `json:"fields"`
}

// BulkLines is a compile-only bulk response.
type BulkLines struct {
	Index string           `json:"index"`
	Lines []map[string]any `json:"lines"`
}

// Hit is one search result.
type Hit struct {
	ID     string           `json:"id"`
	Score  float64          `json:"score"`
	Fields map[string][]any `json:"fields"`
}

// SearchResult is a page of hits.
type SearchResult struct {
	ResultCount int   `json:"result_count"`
	Items       []Hit `json:"items"`
}

// Compiled is a compile-only search response.
type Compiled struct {
	Index    string         `json:"index"`
	Body     map[string]any `json:"body"`
	Warnings []string       `json:"warnings,omitempty"`
}

// BulkItem is the outcome of one bulk item.
type BulkItem struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  *Error `json:"error,omitempty"`
}

// BulkResult summarizes a bulk request.
type BulkResult struct {
	Items     []BulkItem `json:"items"`
	Succeeded int        `json:"succeeded"`
	Failed    int        `json:"failed"`
}

// Error is the error envelope of every failed response.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
