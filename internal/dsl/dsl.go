// Package dsl holds the extension points shared by the DSL compilers.
// The compilers themselves live in the sub-packages: filter, lucene, sort,
// mapping, bulk, query and response.
package dsl

import "github.com/kailas-cloud/searchbridge/internal/domain/schema/field"

// FieldHook rewrites the mapping compiled for a single field.
// It receives the field schema and the computed mapping and returns the
// replacement. Returning nil keeps the computed mapping.
type FieldHook func(f field.Field, mapping map[string]any) map[string]any

// SearchHook rewrites an assembled search body. It runs once per build and
// may replace the body wholesale. Returning nil keeps the body.
type SearchHook func(index string, body map[string]any) map[string]any

// BulkHook rewrites the action and document lines of a bulk body.
// Returning nil keeps the lines.
type BulkHook func(index string, lines []map[string]any) []map[string]any

// Hooks bundles the optional extension points of a backend.
type Hooks struct {
	Field  FieldHook
	Search SearchHook
	Bulk   BulkHook
}

// Bool builds a {bool:{occur: clause}} wrapper.
func Bool(occur string, clause any) map[string]any {
	return map[string]any{"bool": map[string]any{occur: clause}}
}
