package searchbridge

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

// TypedIndex is a generic, schema-first index backed by a searchbridge Client.
// Schema is inferred from T's struct tags at construction time.
type TypedIndex[T any] struct {
	name   string
	client *Client
	meta   *schemaMeta
}

// NewTypedIndex creates a typed index handle for the given index name.
// T must be a struct with searchbridge tags. Schema is parsed once and cached.
func NewTypedIndex[T any](client *Client, name string) (*TypedIndex[T], error) {
	meta, err := parseSchema[T]()
	if err != nil {
		return nil, fmt.Errorf("new index %q: %w", name, err)
	}
	return &TypedIndex[T]{name: name, client: client, meta: meta}, nil
}

// Name returns the logical index name.
func (idx *TypedIndex[T]) Name() string { return idx.name }

// Schema returns the schema derived from T.
func (idx *TypedIndex[T]) Schema() Schema { return idx.meta.schema(idx.name) }

// Ensure creates the index, or puts the current mapping if it already exists.
func (idx *TypedIndex[T]) Ensure(ctx context.Context) error {
	err := idx.client.AddIndex(ctx, idx.Schema())
	if errors.Is(err, ErrIndexExists) {
		err = idx.client.UpdateIndex(ctx, idx.Schema())
	}
	if err != nil {
		return fmt.Errorf("ensure %q: %w", idx.name, err)
	}
	return nil
}

// Clear drops every document by recreating the index.
func (idx *TypedIndex[T]) Clear(ctx context.Context) error {
	return idx.client.ClearIndex(ctx, idx.Schema())
}

// Drop deletes the index.
func (idx *TypedIndex[T]) Drop(ctx context.Context) error {
	return idx.client.RemoveIndex(ctx, idx.name)
}

// Put indexes items in one bulk request.
func (idx *TypedIndex[T]) Put(ctx context.Context, items ...T) (BulkResult, error) {
	return idx.client.IndexItems(ctx, idx.name, idx.toItems(items)...)
}

// Compile returns the bulk lines for items without contacting the cluster.
func (idx *TypedIndex[T]) Compile(items ...T) ([]map[string]any, error) {
	return idx.client.CompileBulk(idx.name, idx.toItems(items)...)
}

// Delete removes items by id.
func (idx *TypedIndex[T]) Delete(ctx context.Context, ids ...string) (BulkResult, error) {
	return idx.client.DeleteItems(ctx, idx.name, ids...)
}

// Search returns a fluent search builder for this index.
func (idx *TypedIndex[T]) Search() *SearchBuilder[T] {
	return &SearchBuilder[T]{idx: idx}
}

func (idx *TypedIndex[T]) toItems(items []T) []Item {
	out := make([]Item, len(items))
	for i := range items {
		out[i] = idx.meta.toItem(reflect.ValueOf(items[i]))
	}
	return out
}
