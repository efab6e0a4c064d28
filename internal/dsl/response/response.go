// Package response parses engine responses back into the host result model.
package response

import (
	"fmt"
	"net/http"

	"github.com/spf13/cast"

	"github.com/kailas-cloud/searchbridge/internal/domain"
	"github.com/kailas-cloud/searchbridge/internal/domain/search/result"
)

// Parse converts a decoded _search response into a result set.
// hits.total may be an object ({value, relation}) or a bare number.
func Parse(raw map[string]any) (result.Set, error) {
	hits, err := object(raw, "hits")
	if err != nil {
		return result.Set{}, err
	}
	if hits == nil {
		return result.Empty(), nil
	}

	total, err := totalOf(hits["total"])
	if err != nil {
		return result.Set{}, err
	}

	list, _ := hits["hits"].([]any)
	items := make([]result.Item, 0, len(list))
	for i, h := range list {
		hit, ok := h.(map[string]any)
		if !ok {
			return result.Set{}, fmt.Errorf("hits.hits[%d]: expected object, got %T", i, h)
		}
		items = append(items, parseHit(hit))
	}

	return result.NewSet(total, items), nil
}

func parseHit(hit map[string]any) result.Item {
	var score float64
	if s, ok := hit["_score"]; ok && s != nil {
		score = cast.ToFloat64(s)
	}

	source, _ := hit["_source"].(map[string]any)
	fields := make(map[string][]any, len(source))
	for k, v := range source {
		if l, ok := v.([]any); ok {
			fields[k] = l
			continue
		}
		fields[k] = []any{v}
	}

	return result.New(cast.ToString(hit["_id"]), score, fields)
}

func totalOf(v any) (int, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case map[string]any:
		return cast.ToIntE(t["value"])
	default:
		return cast.ToIntE(t)
	}
}

func object(raw map[string]any, key string) (map[string]any, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected object, got %T", key, v)
	}
	return m, nil
}

// Bulk is the outcome of a bulk request, split per item.
type Bulk struct {
	Succeeded []string
	Failures  []domain.BulkFailure
}

// ParseBulk splits a decoded bulk response into succeeded item ids and
// per-item failures. Both index and delete actions are inspected.
func ParseBulk(raw map[string]any) Bulk {
	var out Bulk
	list, _ := raw["items"].([]any)
	for _, entry := range list {
		action, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		for _, op := range []string{"index", "create", "update", "delete"} {
			res, ok := action[op].(map[string]any)
			if !ok {
				continue
			}
			id := cast.ToString(res["_id"])
			status := cast.ToInt(res["status"])
			errObj, hasErr := res["error"].(map[string]any)
			// A delete of a missing document is not a failure.
			if op == "delete" && status == http.StatusNotFound && !hasErr {
				out.Succeeded = append(out.Succeeded, id)
				continue
			}
			if !hasErr && status < http.StatusMultipleChoices {
				out.Succeeded = append(out.Succeeded, id)
				continue
			}
			f := domain.BulkFailure{ID: id, Status: status}
			if hasErr {
				f.Type = cast.ToString(errObj["type"])
				f.Reason = cast.ToString(errObj["reason"])
				if cause, ok := errObj["caused_by"].(map[string]any); ok {
					f.CausedBy = cast.ToString(cause["reason"])
				}
			}
			out.Failures = append(out.Failures, f)
		}
	}
	return out
}
