package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/searchbridge/internal/domain"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func TestParse(t *testing.T) {
	raw := decode(t, `{
		"took": 3,
		"hits": {
			"total": {"value": 42, "relation": "eq"},
			"hits": [
				{"_id": "a", "_score": 1.5, "_source": {"title": "Hello", "tags": ["x", "y"]}},
				{"_id": "b", "_score": null, "_source": {}}
			]
		}
	}`)

	set, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, 42, set.Total())
	items := set.Items()
	require.Len(t, items, 2)

	assert.Equal(t, "a", items[0].ID())
	assert.InDelta(t, 1.5, items[0].Score(), 1e-9)
	assert.Equal(t, []any{"Hello"}, items[0].Fields()["title"])
	assert.Equal(t, []any{"x", "y"}, items[0].Fields()["tags"])

	assert.Equal(t, "b", items[1].ID())
	assert.Zero(t, items[1].Score())
	assert.Empty(t, items[1].Fields())
}

func TestParse_TotalIndependentOfPage(t *testing.T) {
	set, err := Parse(decode(t, `{"hits":{"total":{"value":7},"hits":[]}}`))
	require.NoError(t, err)
	assert.Equal(t, 7, set.Total())
	assert.Empty(t, set.Items())
}

func TestParse_LegacyTotal(t *testing.T) {
	set, err := Parse(decode(t, `{"hits":{"total":3,"hits":[{"_id":"1","_score":2}]}}`))
	require.NoError(t, err)
	assert.Equal(t, 3, set.Total())
	require.Len(t, set.Items(), 1)
}

func TestParse_NoHits(t *testing.T) {
	set, err := Parse(map[string]any{})
	require.NoError(t, err)
	assert.Zero(t, set.Total())
	assert.Empty(t, set.Items())
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse(map[string]any{"hits": "nope"})
	assert.Error(t, err)

	_, err = Parse(map[string]any{"hits": map[string]any{"hits": []any{"x"}}})
	assert.Error(t, err)

	_, err = Parse(map[string]any{"hits": map[string]any{"total": map[string]any{"value": "many"}}})
	assert.Error(t, err)
}

func TestParseBulk(t *testing.T) {
	raw := decode(t, `{
		"errors": true,
		"items": [
			{"index": {"_id": "1", "status": 201}},
			{"index": {"_id": "2", "status": 400, "error": {
				"type": "mapper_parsing_exception",
				"reason": "failed to parse field [created]",
				"caused_by": {"type": "illegal_argument_exception", "reason": "bad date"}
			}}},
			{"delete": {"_id": "3", "status": 404, "result": "not_found"}},
			{"delete": {"_id": "4", "status": 429, "error": {"type": "es_rejected_execution_exception", "reason": "queue full"}}}
		]
	}`)

	got := ParseBulk(raw)
	assert.Equal(t, []string{"1", "3"}, got.Succeeded)
	assert.Equal(t, []domain.BulkFailure{
		{ID: "2", Status: 400, Type: "mapper_parsing_exception", Reason: "failed to parse field [created]", CausedBy: "bad date"},
		{ID: "4", Status: 429, Type: "es_rejected_execution_exception", Reason: "queue full"},
	}, got.Failures)
}

func TestParseBulk_AllSucceeded(t *testing.T) {
	got := ParseBulk(decode(t, `{"errors":false,"items":[{"index":{"_id":"a","status":200}}]}`))
	assert.Equal(t, []string{"a"}, got.Succeeded)
	assert.Empty(t, got.Failures)
}
