// Package mapping compiles an index schema into a putMapping body.
package mapping

import (
	"github.com/kailas-cloud/searchbridge/internal/domain/schema"
	"github.com/kailas-cloud/searchbridge/internal/domain/schema/field"
	"github.com/kailas-cloud/searchbridge/internal/dsl"
)

// KeywordIgnoreAbove caps the keyword sibling of text fields.
const KeywordIgnoreAbove = 256

// DateFormat accepts strict date-time strings or epoch seconds.
const DateFormat = "strict_date_optional_time||epoch_second"

// Compile returns {properties:{...}} for idx. hook may be nil.
func Compile(idx schema.Index, hook dsl.FieldHook) map[string]any {
	properties := map[string]any{
		field.ID: map[string]any{"type": "keyword", "index": true},
	}
	for _, f := range idx.Fields() {
		m := Field(f)
		if hook != nil {
			if replaced := hook(f, m); replaced != nil {
				m = replaced
			}
		}
		properties[f.Identifier()] = m
	}
	properties[field.Language] = map[string]any{"type": "keyword"}

	return map[string]any{"properties": properties}
}

// Field returns the mapping of a single field. Unknown types map to an
// empty definition and are left to the engine defaults.
func Field(f field.Field) map[string]any {
	switch f.Type() {
	case field.Text:
		return map[string]any{
			"type":  "text",
			"boost": f.Boost(),
			"fields": map[string]any{
				"keyword": map[string]any{"type": "keyword", "ignore_above": KeywordIgnoreAbove},
			},
		}
	case field.String, field.URI, field.Token:
		return typed("keyword")
	case field.Integer, field.Duration:
		return typed("integer")
	case field.Boolean:
		return typed("boolean")
	case field.Decimal:
		return typed("float")
	case field.Date:
		return map[string]any{"type": "date", "format": DateFormat}
	case field.Attachment:
		return typed("attachment")
	case field.Object:
		return typed("nested")
	case field.Location:
		return typed("geo_point")
	default:
		return map[string]any{}
	}
}

func typed(t string) map[string]any {
	return map[string]any{"type": t}
}
