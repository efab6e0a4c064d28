// Package query assembles complete _search request bodies.
package query

import (
	"slices"
	"strconv"

	"github.com/kailas-cloud/searchbridge/internal/domain/schema"
	"github.com/kailas-cloud/searchbridge/internal/domain/schema/field"
	"github.com/kailas-cloud/searchbridge/internal/domain/search/condition"
	"github.com/kailas-cloud/searchbridge/internal/domain/search/request"
	"github.com/kailas-cloud/searchbridge/internal/dsl"
	"github.com/kailas-cloud/searchbridge/internal/dsl/filter"
	"github.com/kailas-cloud/searchbridge/internal/dsl/lucene"
	sortdsl "github.com/kailas-cloud/searchbridge/internal/dsl/sort"
)

// Options carry the contextual inputs of a build.
type Options struct {
	// Index is the engine index name. Defaults to the schema name.
	Index string
	// Fuzziness is the backend default, overridden per request.
	Fuzziness      string
	TrackTotalHits bool
	Hook           dsl.SearchHook
}

// Built is an assembled search request.
type Built struct {
	Index    string
	Body     map[string]any
	Warnings []string
}

// Build compiles req against idx into a search body.
func Build(req request.Request, idx schema.Index, opts Options) (Built, error) {
	index := opts.Index
	if index == "" {
		index = idx.Name()
	}

	body := map[string]any{
		"from": req.Offset(),
		"size": req.Limit(),
	}

	hasKeys := !req.Keys().IsEmpty()
	sorts := sortdsl.Resolve(req.Sorts(), idx, hasKeys)
	if len(sorts.Clauses) > 0 {
		body["sort"] = sorts.Clauses
	}

	conditions := req.Conditions()
	if langs := req.Languages(); len(langs) > 0 {
		conditions = withLanguages(conditions, langs)
	}
	filters, err := filter.Compile(conditions, idx)
	if err != nil {
		return Built{}, err
	}

	fuzziness := opts.Fuzziness
	if req.Fuzziness() != nil {
		fuzziness = *req.Fuzziness()
	}
	queryString, err := lucene.Compile(req.Keys(), fuzziness)
	if err != nil {
		return Built{}, err
	}

	var must []any
	if queryString != "" {
		qs := map[string]any{"query": queryString}
		if fields := fulltextFields(req.FulltextFields(), idx); len(fields) > 0 {
			qs["fields"] = fields
		}
		must = append(must, map[string]any{"query_string": qs})
	}
	if mlt := req.MoreLikeThis(); mlt != nil {
		must = append(must, MoreLikeThis(*mlt))
	}

	switch {
	case len(must) == 0 && len(filters) > 0:
		body["query"] = filters
	case len(must) == 1 && len(filters) == 0:
		body["query"] = must[0]
	case len(must) > 0:
		b := map[string]any{"must": any(must)}
		if len(must) == 1 {
			b["must"] = must[0]
		}
		if len(filters) > 0 {
			b["filter"] = filters
		}
		body["query"] = map[string]any{"bool": b}
	}

	if excluded := req.ExcludedSourceFields(); len(excluded) > 0 {
		cp := slices.Clone(excluded)
		slices.Sort(cp)
		body["_source"] = map[string]any{"excludes": cp}
	}

	if opts.TrackTotalHits {
		body["track_total_hits"] = true
	}

	if opts.Hook != nil {
		if replaced := opts.Hook(index, body); replaced != nil {
			body = replaced
		}
	}

	return Built{Index: index, Body: body, Warnings: sorts.Warnings}, nil
}

// MoreLikeThis compiles similarity options into a more_like_this clause.
func MoreLikeThis(m request.MoreLikeThis) map[string]any {
	clause := map[string]any{
		"max_query_terms": 1,
		"min_doc_freq":    1,
		"min_term_freq":   1,
	}
	if len(m.IDs) > 0 {
		clause["ids"] = m.IDs
	}
	if v := oneOrMany(m.Like); v != nil {
		clause["like"] = v
	}
	if v := oneOrMany(m.Unlike); v != nil {
		clause["unlike"] = v
	}
	if len(m.Fields) > 0 {
		clause["fields"] = m.Fields
	}
	return map[string]any{"more_like_this": clause}
}

func oneOrMany(v []string) any {
	switch len(v) {
	case 0:
		return nil
	case 1:
		return v[0]
	default:
		return v
	}
}

// fulltextFields intersects the requested fields with the schema text
// fields, in schema order. An empty intersection selects every text field.
func fulltextFields(requested []string, idx schema.Index) []string {
	text := idx.FulltextFields()
	selected := make([]field.Field, 0, len(text))
	for _, f := range text {
		if slices.Contains(requested, f.Identifier()) {
			selected = append(selected, f)
		}
	}
	if len(selected) == 0 {
		selected = text
	}

	out := make([]string, len(selected))
	for i, f := range selected {
		out[i] = f.Identifier() + "^" + strconv.FormatFloat(f.Boost(), 'f', -1, 64)
	}
	return out
}

func withLanguages(g condition.Group, langs []string) condition.Group {
	values := make([]any, len(langs))
	for i, l := range langs {
		values[i] = l
	}
	lang := condition.New(field.Language, values, condition.In)

	switch {
	case g.IsEmpty():
		return condition.NewGroup(condition.And, lang)
	case g.Conjunction() == condition.And && !g.Negated():
		return g.With(lang)
	default:
		return condition.NewGroup(condition.And, g, lang)
	}
}
