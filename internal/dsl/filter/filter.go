// Package filter compiles condition trees into bool filter clauses.
package filter

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/kailas-cloud/searchbridge/internal/domain"
	"github.com/kailas-cloud/searchbridge/internal/domain/schema"
	"github.com/kailas-cloud/searchbridge/internal/domain/schema/field"
	"github.com/kailas-cloud/searchbridge/internal/domain/search/condition"
	"github.com/kailas-cloud/searchbridge/internal/dsl"
)

// backendFields can be filtered on in any index.
var backendFields = map[string]field.Type{
	field.Language:   field.String,
	field.Datasource: field.String,
}

// Compile walks a condition group and returns the combined filter clause.
// An empty group yields an empty clause so callers can omit filtering.
func Compile(g condition.Group, idx schema.Index) (map[string]any, error) {
	if g.IsEmpty() {
		return map[string]any{}, nil
	}
	return compileGroup(g, idx)
}

func compileGroup(g condition.Group, idx schema.Index) (map[string]any, error) {
	var occur string
	switch g.Conjunction() {
	case condition.And:
		occur = "must"
	case condition.Or:
		occur = "should"
	default:
		return nil, &domain.CompileError{
			Kind:        domain.ErrInvalidConjunction,
			Conjunction: string(g.Conjunction()),
		}
	}

	// A nested empty group imposes no constraint.
	if g.IsEmpty() {
		return wrapNegated(g, map[string]any{"match_all": map[string]any{}}), nil
	}

	children := g.Children()
	clauses := make([]any, 0, len(children))
	for _, child := range children {
		var (
			clause map[string]any
			err    error
		)
		switch n := child.(type) {
		case condition.Condition:
			clause, err = compileCondition(n, idx)
		case condition.Group:
			clause, err = compileGroup(n, idx)
		default:
			err = fmt.Errorf("unexpected condition node %T", child)
		}
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}

	return wrapNegated(g, dsl.Bool(occur, clauses)), nil
}

func wrapNegated(g condition.Group, clause map[string]any) map[string]any {
	if g.Negated() {
		return dsl.Bool("must_not", clause)
	}
	return clause
}

func compileCondition(c condition.Condition, idx schema.Index) (map[string]any, error) {
	ft, ok := fieldType(c.Field(), idx)
	if !ok {
		return nil, &domain.CompileError{Kind: domain.ErrUnknownField, Field: c.Field()}
	}
	if c.Operator() == "" {
		return nil, &domain.CompileError{Kind: domain.ErrMissingOperator, Field: c.Field()}
	}
	if ft == field.Boolean && c.Value() != nil {
		c = c.WithValue(toBool(c.Value()))
	}
	return Term(c)
}

func fieldType(id string, idx schema.Index) (field.Type, bool) {
	if f, ok := idx.Field(id); ok {
		return f.Type(), true
	}
	ft, ok := backendFields[id]
	return ft, ok
}

func toBool(v any) any {
	if isList(v) {
		l := toList(v)
		out := make([]any, len(l))
		for i, e := range l {
			out[i] = cast.ToBool(e)
		}
		return out
	}
	return cast.ToBool(v)
}
