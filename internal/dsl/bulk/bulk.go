// Package bulk builds bulk request bodies: action lines followed by documents.
package bulk

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"

	"github.com/kailas-cloud/searchbridge/internal/domain/item"
	"github.com/kailas-cloud/searchbridge/internal/domain/schema/field"
)

// Index emits an {index:{_id,_index}} header and a document line per item,
// in item order. Fields without values are omitted.
func Index(index string, items []item.Item) []map[string]any {
	lines := make([]map[string]any, 0, 2*len(items))
	for i := range items {
		it := &items[i]
		lines = append(lines,
			map[string]any{"index": map[string]any{"_id": it.ID(), "_index": index}},
			document(it),
		)
	}
	return lines
}

// Delete emits one {delete:{_index,_id}} line per id.
func Delete(index string, ids []string) []map[string]any {
	lines := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, map[string]any{"delete": map[string]any{"_index": index, "_id": id}})
	}
	return lines
}

// Encode renders lines as newline-delimited JSON with a trailing newline.
func Encode(lines []map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for i, l := range lines {
		if err := enc.Encode(l); err != nil {
			return nil, fmt.Errorf("encode bulk line %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

func document(it *item.Item) map[string]any {
	doc := map[string]any{field.Language: it.Language()}
	for _, f := range it.Fields() {
		values := f.Values()
		if len(values) == 0 {
			continue
		}
		out := make([]any, len(values))
		for i, v := range values {
			out[i] = Coerce(f.Type(), v)
		}
		doc[f.Identifier()] = out
	}
	return doc
}

// Coerce converts a value for indexing: string casts, text renders to plain
// text, boolean casts, everything else passes through.
func Coerce(ft field.Type, v any) any {
	switch ft {
	case field.String:
		return cast.ToString(v)
	case field.Text:
		if tv, ok := v.(item.TextValue); ok {
			return tv.ToText()
		}
		return cast.ToString(v)
	case field.Boolean:
		return cast.ToBool(v)
	default:
		return v
	}
}
