// Package sort resolves abstract sort directives into DSL sort clauses.
package sort

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/searchbridge/internal/domain/schema"
	"github.com/kailas-cloud/searchbridge/internal/domain/schema/field"
	"github.com/kailas-cloud/searchbridge/internal/domain/search/request"
)

// Reserved pseudo-fields of the host query model.
const (
	Relevance = "search_api_relevance"
	ID        = "search_api_id"
)

// aliases maps the short pseudo-field names onto the reserved ones. A schema
// field with the same name takes precedence.
var aliases = map[string]string{
	"score": Relevance,
	"id":    ID,
}

// KeywordSuffix names the unanalyzed sibling of a text field.
const KeywordSuffix = ".keyword"

// Result holds the resolved clauses and the directives that were dropped.
type Result struct {
	Clauses  []any
	Warnings []string
}

// Resolve maps sort directives in declaration order. Unknown fields and
// directions are skipped with a warning; relevance is dropped without keys.
func Resolve(sorts []request.Sort, idx schema.Index, hasKeys bool) Result {
	var res Result
	for _, s := range sorts {
		dir, ok := direction(s.Direction)
		if !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Invalid sorting direction %q for field: %s", s.Direction, s.Field))
			continue
		}

		name := s.Field
		if alias, ok := aliases[name]; ok {
			if _, declared := idx.Field(name); !declared {
				name = alias
			}
		}

		var key string
		switch name {
		case Relevance:
			if !hasKeys {
				continue
			}
			key = "_score"
		case ID:
			key = field.ID
		default:
			f, ok := idx.Field(s.Field)
			if !ok {
				res.Warnings = append(res.Warnings, "Invalid sorting field: "+s.Field)
				continue
			}
			key = f.Identifier()
			if f.IsFulltext() {
				key += KeywordSuffix
			}
		}
		res.Clauses = append(res.Clauses, map[string]any{key: dir})
	}
	return res
}

func direction(d string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "", request.Asc:
		return request.Asc, true
	case request.Desc:
		return request.Desc, true
	default:
		return "", false
	}
}
