package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/searchbridge/internal/domain/search/condition"
	"github.com/kailas-cloud/searchbridge/internal/domain/search/keys"
)

// Paging limits.
const (
	DefaultLimit = 10
	// MaxWindow mirrors the engine default index.max_result_window.
	MaxWindow = 10000
	// MaxQueryLength bounds the number of terms in a keys tree.
	MaxQueryLength = 1024
)

// Sort directions.
const (
	Asc  = "asc"
	Desc = "desc"
)

// Sort is a single (field, direction) sort directive.
type Sort struct {
	Field     string
	Direction string
}

// MoreLikeThis seeds a similarity query with example documents or texts.
type MoreLikeThis struct {
	IDs    []string
	Like   []string
	Unlike []string
	Fields []string
}

// IsEmpty reports whether the options carry no seed at all.
func (m MoreLikeThis) IsEmpty() bool {
	return len(m.IDs) == 0 && len(m.Like) == 0
}

// Params are the raw inputs of a search request.
type Params struct {
	Keys                 keys.Keys
	FulltextFields       []string
	Conditions           condition.Group
	Sorts                []Sort
	Offset               int
	Limit                int
	ExcludedSourceFields []string
	MoreLikeThis         *MoreLikeThis
	// Fuzziness overrides the backend default when non-nil.
	Fuzziness *string
	Languages []string
}

// Request is a validated search query.
type Request struct {
	keys           keys.Keys
	fulltextFields []string
	conditions     condition.Group
	sorts          []Sort
	offset         int
	limit          int
	excluded       []string
	moreLikeThis   *MoreLikeThis
	fuzziness      *string
	languages      []string
}

// New validates and normalizes search parameters.
// Defaults: offset=0, limit=10. offset+limit must fit the result window.
func New(p Params) (Request, error) {
	if p.Offset < 0 {
		return Request{}, fmt.Errorf("offset must not be negative")
	}
	if p.Limit < 0 {
		return Request{}, fmt.Errorf("limit must not be negative")
	}
	limit := p.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if p.Offset+limit > MaxWindow {
		return Request{}, fmt.Errorf("offset+limit must not exceed %d", MaxWindow)
	}
	if n := countTerms(p.Keys); n > MaxQueryLength {
		return Request{}, fmt.Errorf("too many search terms (max %d)", MaxQueryLength)
	}

	sorts := make([]Sort, 0, len(p.Sorts))
	for _, s := range p.Sorts {
		if s.Field == "" {
			return Request{}, fmt.Errorf("sort field is required")
		}
		sorts = append(sorts, Sort{Field: s.Field, Direction: strings.ToLower(strings.TrimSpace(s.Direction))})
	}

	var mlt *MoreLikeThis
	if p.MoreLikeThis != nil && !p.MoreLikeThis.IsEmpty() {
		cp := *p.MoreLikeThis
		mlt = &cp
	}

	conditions := p.Conditions
	if conditions.Conjunction() == "" {
		conditions = condition.NewGroup(condition.And)
	}

	return Request{
		keys:           p.Keys,
		fulltextFields: dedupe(p.FulltextFields),
		conditions:     conditions,
		sorts:          sorts,
		offset:         p.Offset,
		limit:          limit,
		excluded:       dedupe(p.ExcludedSourceFields),
		moreLikeThis:   mlt,
		fuzziness:      p.Fuzziness,
		languages:      dedupe(p.Languages),
	}, nil
}

// Keys returns the full-text keys tree.
func (r *Request) Keys() keys.Keys { return r.keys }

// FulltextFields returns the fields the keys are matched against.
func (r *Request) FulltextFields() []string { return r.fulltextFields }

// Conditions returns the filter tree.
func (r *Request) Conditions() condition.Group { return r.conditions }

// Sorts returns the sort directives in declaration order.
func (r *Request) Sorts() []Sort { return r.sorts }

// Offset returns the paging offset.
func (r *Request) Offset() int { return r.offset }

// Limit returns the page size.
func (r *Request) Limit() int { return r.limit }

// ExcludedSourceFields returns fields dropped from returned documents.
func (r *Request) ExcludedSourceFields() []string { return r.excluded }

// MoreLikeThis returns the similarity options, or nil.
func (r *Request) MoreLikeThis() *MoreLikeThis { return r.moreLikeThis }

// Fuzziness returns the request-level fuzziness override, or nil.
func (r *Request) Fuzziness() *string { return r.fuzziness }

// Languages returns the language codes the results are restricted to.
func (r *Request) Languages() []string { return r.languages }

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func countTerms(k keys.Keys) int {
	if k.IsTerm() {
		return 1
	}
	n := 0
	for _, c := range k.Children() {
		n += countTerms(c)
	}
	return n
}
