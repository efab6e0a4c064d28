package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/searchbridge/internal/domain"
	"github.com/kailas-cloud/searchbridge/internal/domain/search/condition"
)

func rangeOf(from, to any, lower, upper bool) map[string]any {
	return map[string]any{"range": map[string]any{"foo": map[string]any{
		"from": from, "to": to, "include_lower": lower, "include_upper": upper,
	}}}
}

func mustNot(clause map[string]any) map[string]any {
	return map[string]any{"bool": map[string]any{"must_not": clause}}
}

func TestTerm(t *testing.T) {
	tests := []struct {
		name  string
		value any
		op    condition.Operator
		want  map[string]any
	}{
		{
			name: "not equals with null value", value: nil, op: condition.NotEq,
			want: map[string]any{"exists": map[string]any{"field": "foo"}},
		},
		{
			name: "equals with null value", value: nil, op: condition.Eq,
			want: mustNot(map[string]any{"exists": map[string]any{"field": "foo"}}),
		},
		{
			name: "equals", value: "bar", op: condition.Eq,
			want: map[string]any{"term": map[string]any{"foo": "bar"}},
		},
		{
			name: "not equals", value: "bar", op: condition.NotEq,
			want: mustNot(map[string]any{"term": map[string]any{"foo": "bar"}}),
		},
		{
			name: "in array", value: []any{"bar", "whiz"}, op: condition.In,
			want: map[string]any{"terms": map[string]any{"foo": []any{"bar", "whiz"}}},
		},
		{
			name: "in typed slice", value: []string{"bar", "whiz"}, op: condition.In,
			want: map[string]any{"terms": map[string]any{"foo": []any{"bar", "whiz"}}},
		},
		{
			name: "not in array", value: []any{"bar", "whiz"}, op: condition.NotIn,
			want: mustNot(map[string]any{"terms": map[string]any{"foo": []any{"bar", "whiz"}}}),
		},
		{name: "greater than", value: "bar", op: condition.Gt, want: rangeOf("bar", nil, false, false)},
		{name: "greater than or equal", value: "bar", op: condition.Gte, want: rangeOf("bar", nil, true, false)},
		{name: "less than", value: "bar", op: condition.Lt, want: rangeOf(nil, "bar", false, false)},
		{name: "less than or equal", value: "bar", op: condition.Lte, want: rangeOf(nil, "bar", false, true)},
		{name: "between", value: []any{1, 10}, op: condition.Between, want: rangeOf(1, 10, false, false)},
		{name: "between open upper", value: []any{1, ""}, op: condition.Between, want: rangeOf(1, nil, false, false)},
		{name: "between open lower", value: []any{nil, 10}, op: condition.Between, want: rangeOf(nil, 10, false, false)},
		{name: "between zero is a bound", value: []int{0, 10}, op: condition.Between, want: rangeOf(0, 10, false, false)},
		{
			name: "not between", value: []any{1, 10}, op: condition.NotBetween,
			want: mustNot(rangeOf(1, 10, false, false)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Term(condition.New("foo", tt.value, tt.op))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTerm_EqualsNeverTermForNull(t *testing.T) {
	got, err := Term(condition.New("foo", nil, condition.Eq))
	require.NoError(t, err)
	_, hasTerm := got["term"]
	assert.False(t, hasTerm)
}

func TestTerm_Errors(t *testing.T) {
	tests := []struct {
		name  string
		value any
		op    condition.Operator
		kind  error
	}{
		{"unknown operator", "bar", condition.Operator("LIKE"), domain.ErrUnsupportedOperator},
		{"empty operator", "bar", "", domain.ErrUnsupportedOperator},
		{"null with IN", nil, condition.In, domain.ErrUnsupportedOperator},
		{"null with range", nil, condition.Gt, domain.ErrUnsupportedOperator},
		{"scalar with IN", "bar", condition.In, domain.ErrInvalidValue},
		{"list with equals", []any{"a"}, condition.Eq, domain.ErrInvalidValue},
		{"list with range", []any{1}, condition.Lte, domain.ErrInvalidValue},
		{"between with three bounds", []any{1, 2, 3}, condition.Between, domain.ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Term(condition.New("foo", tt.value, tt.op))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "error = %v, want %v", err, tt.kind)

			var ce *domain.CompileError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, "foo", ce.Field)
			assert.Equal(t, string(tt.op), ce.Operator)
		})
	}
}

func TestTerm_UnsupportedMessageNamesOperatorAndField(t *testing.T) {
	_, err := Term(condition.New("status", 1, condition.Operator("~=")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"~="`)
	assert.Contains(t, err.Error(), `"status"`)
}
