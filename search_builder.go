package searchbridge

import (
	"context"
	"fmt"

	dslsort "github.com/kailas-cloud/searchbridge/internal/dsl/sort"
)

// Pseudo sort fields.
const (
	SortRelevance = dslsort.Relevance
	SortID        = dslsort.ID
)

// TypedHit is a typed search result.
type TypedHit[T any] struct {
	Item  T
	Score float64
}

// Page is one page of typed hits plus the total number of matches.
type Page[T any] struct {
	Total int
	Hits  []TypedHit[T]
}

// SearchBuilder is a fluent builder for typed search queries.
type SearchBuilder[T any] struct {
	idx *TypedIndex[T]
	req Search
}

// Keys sets the fulltext keys. Several terms are joined with AND.
func (b *SearchBuilder[T]) Keys(terms ...string) *SearchBuilder[T] {
	switch len(terms) {
	case 0:
		b.req.Keys = nil
	case 1:
		b.req.Keys = terms[0]
	default:
		list := make([]any, len(terms))
		for i, t := range terms {
			list[i] = t
		}
		b.req.Keys = map[string]any{"conjunction": "AND", "terms": list}
	}
	return b
}

// AnyKeys sets fulltext keys joined with OR.
func (b *SearchBuilder[T]) AnyKeys(terms ...string) *SearchBuilder[T] {
	b.req.Keys = terms
	return b
}

// Fulltext restricts the keys to the given text fields.
func (b *SearchBuilder[T]) Fulltext(fields ...string) *SearchBuilder[T] {
	b.req.FulltextFields = append(b.req.FulltextFields, fields...)
	return b
}

// Where adds a filter condition. Conditions are joined with AND.
func (b *SearchBuilder[T]) Where(c Condition) *SearchBuilder[T] {
	if b.req.Conditions == nil {
		root := And()
		b.req.Conditions = &root
	}
	b.req.Conditions.Conditions = append(b.req.Conditions.Conditions, c)
	return b
}

// SortBy appends a sort directive ("asc" or "desc").
func (b *SearchBuilder[T]) SortBy(fieldID, direction string) *SearchBuilder[T] {
	b.req.Sort = append(b.req.Sort, Sort{Field: fieldID, Direction: direction})
	return b
}

// Languages restricts results to items in the given languages.
func (b *SearchBuilder[T]) Languages(langs ...string) *SearchBuilder[T] {
	b.req.Languages = append(b.req.Languages, langs...)
	return b
}

// Like adds a more-like-this clause seeded by document ids.
func (b *SearchBuilder[T]) Like(ids ...string) *SearchBuilder[T] {
	if b.req.MoreLikeThis == nil {
		b.req.MoreLikeThis = &MoreLikeThis{}
	}
	b.req.MoreLikeThis.IDs = append(b.req.MoreLikeThis.IDs, ids...)
	return b
}

// Fuzziness overrides the client fuzziness for this query.
func (b *SearchBuilder[T]) Fuzziness(f string) *SearchBuilder[T] {
	b.req.Fuzziness = &f
	return b
}

// Offset sets the number of hits to skip.
func (b *SearchBuilder[T]) Offset(n int) *SearchBuilder[T] {
	b.req.Offset = n
	return b
}

// Limit sets the maximum number of results.
func (b *SearchBuilder[T]) Limit(n int) *SearchBuilder[T] {
	b.req.Limit = n
	return b
}

// Request returns the search request the builder has assembled so far.
func (b *SearchBuilder[T]) Request() Search {
	req := b.req
	req.Fields = b.idx.Schema().Fields
	return req
}

// Compile returns the search body without contacting the cluster.
func (b *SearchBuilder[T]) Compile() (Compiled, error) {
	return b.idx.client.CompileSearch(b.idx.name, b.Request())
}

// Do executes the search and returns typed results.
func (b *SearchBuilder[T]) Do(ctx context.Context) (Page[T], error) {
	res, err := b.idx.client.Search(ctx, b.idx.name, b.Request())
	if err != nil {
		return Page[T]{}, fmt.Errorf("search %q: %w", b.idx.name, err)
	}

	page := Page[T]{Total: res.ResultCount, Hits: make([]TypedHit[T], 0, len(res.Items))}
	for _, h := range res.Items {
		item, ok := b.idx.meta.fromHit(h).Interface().(T)
		if !ok {
			continue
		}
		page.Hits = append(page.Hits, TypedHit[T]{Item: item, Score: h.Score})
	}
	return page, nil
}
