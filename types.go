package searchbridge

import (
	"github.com/kailas-cloud/searchbridge/internal/domain/schema/field"
	"github.com/kailas-cloud/searchbridge/internal/dsl"
	"github.com/kailas-cloud/searchbridge/internal/transport/api"
)

// Request and response payloads, shared with the HTTP API.
type (
	Field        = api.Field
	Schema       = api.Schema
	Condition    = api.Condition
	Sort         = api.Sort
	MoreLikeThis = api.MoreLikeThis
	Search       = api.Search
	ItemField    = api.ItemField
	Item         = api.Item
	Hit          = api.Hit
	SearchResult = api.SearchResult
	Compiled     = api.Compiled
	BulkItem     = api.BulkItem
	BulkResult   = api.BulkResult
)

// Extension points.
type (
	Hooks      = dsl.Hooks
	FieldHook  = dsl.FieldHook
	SearchHook = dsl.SearchHook
	BulkHook   = dsl.BulkHook
	// FieldSchema is the validated field passed to a FieldHook.
	FieldSchema = field.Field
)

// Field types.
const (
	TypeText       = string(field.Text)
	TypeString     = string(field.String)
	TypeURI        = string(field.URI)
	TypeToken      = string(field.Token)
	TypeInteger    = string(field.Integer)
	TypeDuration   = string(field.Duration)
	TypeBoolean    = string(field.Boolean)
	TypeDecimal    = string(field.Decimal)
	TypeDate       = string(field.Date)
	TypeAttachment = string(field.Attachment)
	TypeObject     = string(field.Object)
	TypeLocation   = string(field.Location)
)

// Eq matches field = value.
func Eq(fieldID string, value any) Condition {
	return Condition{Field: fieldID, Operator: "=", Value: value}
}

// Cond builds a leaf condition with an arbitrary operator.
func Cond(fieldID, operator string, value any) Condition {
	return Condition{Field: fieldID, Operator: operator, Value: value}
}

// In matches any of values.
func In(fieldID string, values ...any) Condition {
	return Condition{Field: fieldID, Operator: "IN", Value: values}
}

// Between matches the inclusive range [lo, hi]. A nil bound is open.
func Between(fieldID string, lo, hi any) Condition {
	return Condition{Field: fieldID, Operator: "BETWEEN", Value: []any{lo, hi}}
}

// And groups conditions with AND.
func And(conds ...Condition) Condition {
	return Condition{Conjunction: "AND", Conditions: conds}
}

// Or groups conditions with OR.
func Or(conds ...Condition) Condition {
	return Condition{Conjunction: "OR", Conditions: conds}
}

// Not negates a group. A leaf is wrapped in an AND group first.
func Not(c Condition) Condition {
	if c.Conjunction == "" && len(c.Conditions) == 0 {
		c = And(c)
	}
	c.Negated = true
	return c
}
