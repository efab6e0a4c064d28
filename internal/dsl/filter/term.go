package filter

import (
	"reflect"

	"github.com/kailas-cloud/searchbridge/internal/domain"
	"github.com/kailas-cloud/searchbridge/internal/domain/search/condition"
	"github.com/kailas-cloud/searchbridge/internal/dsl"
)

type termBuilder func(field string, value any) (map[string]any, error)

// operators is the full operator contract. Anything missing here is rejected.
var operators = map[condition.Operator]termBuilder{
	condition.Eq:         scalar(term),
	condition.NotEq:      scalar(negate(term)),
	condition.In:         list(terms),
	condition.NotIn:      list(negate(terms)),
	condition.Gt:         scalar(lowerBound(false)),
	condition.Gte:        scalar(lowerBound(true)),
	condition.Lt:         scalar(upperBound(false)),
	condition.Lte:        scalar(upperBound(true)),
	condition.Between:    list(between),
	condition.NotBetween: list(negate(between)),
}

// Term compiles a single condition into a DSL clause.
func Term(c condition.Condition) (map[string]any, error) {
	if c.Value() == nil {
		switch c.Operator() {
		case condition.Eq:
			return dsl.Bool("must_not", exists(c.Field())), nil
		case condition.NotEq:
			return exists(c.Field()), nil
		default:
			return nil, unsupported(c)
		}
	}

	build, ok := operators[c.Operator()]
	if !ok {
		return nil, unsupported(c)
	}
	clause, err := build(c.Field(), c.Value())
	if err != nil {
		return nil, &domain.CompileError{Kind: err, Field: c.Field(), Operator: string(c.Operator())}
	}
	return clause, nil
}

func unsupported(c condition.Condition) error {
	return &domain.CompileError{
		Kind:     domain.ErrUnsupportedOperator,
		Field:    c.Field(),
		Operator: string(c.Operator()),
	}
}

func scalar(b termBuilder) termBuilder {
	return func(field string, value any) (map[string]any, error) {
		if isList(value) {
			return nil, domain.ErrInvalidValue
		}
		return b(field, value)
	}
}

func list(b termBuilder) termBuilder {
	return func(field string, value any) (map[string]any, error) {
		if !isList(value) {
			return nil, domain.ErrInvalidValue
		}
		return b(field, toList(value))
	}
}

func negate(b termBuilder) termBuilder {
	return func(field string, value any) (map[string]any, error) {
		clause, err := b(field, value)
		if err != nil {
			return nil, err
		}
		return dsl.Bool("must_not", clause), nil
	}
}

func exists(field string) map[string]any {
	return map[string]any{"exists": map[string]any{"field": field}}
}

func term(field string, value any) (map[string]any, error) {
	return map[string]any{"term": map[string]any{field: value}}, nil
}

func terms(field string, value any) (map[string]any, error) {
	return map[string]any{"terms": map[string]any{field: value}}, nil
}

func lowerBound(inclusive bool) termBuilder {
	return func(field string, value any) (map[string]any, error) {
		return rangeClause(field, value, nil, inclusive, false), nil
	}
}

func upperBound(inclusive bool) termBuilder {
	return func(field string, value any) (map[string]any, error) {
		return rangeClause(field, nil, value, false, inclusive), nil
	}
}

func between(field string, value any) (map[string]any, error) {
	bounds := value.([]any)
	if len(bounds) > 2 {
		return nil, domain.ErrInvalidValue
	}
	var from, to any
	if len(bounds) > 0 {
		from = bound(bounds[0])
	}
	if len(bounds) > 1 {
		to = bound(bounds[1])
	}
	return rangeClause(field, from, to, false, false), nil
}

// bound maps an empty range bound to unbounded.
func bound(v any) any {
	if s, ok := v.(string); ok && s == "" {
		return nil
	}
	return v
}

func rangeClause(field string, from, to any, includeLower, includeUpper bool) map[string]any {
	return map[string]any{
		"range": map[string]any{
			field: map[string]any{
				"from":          from,
				"to":            to,
				"include_lower": includeLower,
				"include_upper": includeUpper,
			},
		},
	}
}

func isList(v any) bool {
	if v == nil {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

func toList(v any) []any {
	if l, ok := v.([]any); ok {
		return l
	}
	rv := reflect.ValueOf(v)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
