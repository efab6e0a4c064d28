package api

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/kailas-cloud/searchbridge/internal/domain"
	"github.com/kailas-cloud/searchbridge/internal/domain/item"
	"github.com/kailas-cloud/searchbridge/internal/domain/schema"
	"github.com/kailas-cloud/searchbridge/internal/domain/schema/field"
	"github.com/kailas-cloud/searchbridge/internal/domain/search/condition"
	"github.com/kailas-cloud/searchbridge/internal/domain/search/keys"
	"github.com/kailas-cloud/searchbridge/internal/domain/search/request"
)

// FormatHTML marks text item values that carry markup.
const FormatHTML = "html"

// ToDomain validates the schema. Errors wrap domain.ErrInvalidSchema.
func (s Schema) ToDomain() (schema.Index, error) {
	return buildSchema(s.Name, s.Fields)
}

func buildSchema(name string, defs []Field) (schema.Index, error) {
	fields := make([]field.Field, 0, len(defs))
	for _, d := range defs {
		f, err := field.New(d.ID, field.Type(d.Type), d.Boost)
		if err != nil {
			return schema.Index{}, fmt.Errorf("%w: %w", domain.ErrInvalidSchema, err)
		}
		fields = append(fields, f)
	}
	idx, err := schema.New(name, fields...)
	if err != nil {
		return schema.Index{}, fmt.Errorf("%w: %w", domain.ErrInvalidSchema, err)
	}
	return idx, nil
}

// ToDomain builds the index schema and search request for the named index.
// A zero limit falls back to defaultLimit. Errors wrap domain.ErrInvalidSchema
// or domain.ErrInvalidRequest.
func (s Search) ToDomain(name string, defaultLimit int) (schema.Index, request.Request, error) {
	idx, err := buildSchema(name, s.Fields)
	if err != nil {
		return schema.Index{}, request.Request{}, err
	}

	k, err := keys.FromAny(s.Keys)
	if err != nil {
		return schema.Index{}, request.Request{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	conditions, err := s.Conditions.group()
	if err != nil {
		return schema.Index{}, request.Request{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	sorts := make([]request.Sort, len(s.Sort))
	for i, so := range s.Sort {
		sorts[i] = request.Sort{Field: so.Field, Direction: so.Direction}
	}

	limit := s.Limit
	if limit == 0 {
		limit = defaultLimit
	}

	var mlt *request.MoreLikeThis
	if s.MoreLikeThis != nil {
		mlt = &request.MoreLikeThis{
			IDs:    s.MoreLikeThis.IDs,
			Like:   s.MoreLikeThis.Like,
			Unlike: s.MoreLikeThis.Unlike,
			Fields: s.MoreLikeThis.Fields,
		}
	}

	req, err := request.New(request.Params{
		Keys:                 k,
		FulltextFields:       s.FulltextFields,
		Conditions:           conditions,
		Sorts:                sorts,
		Offset:               s.Offset,
		Limit:                limit,
		ExcludedSourceFields: s.Excludes,
		MoreLikeThis:         mlt,
		Fuzziness:            s.Fuzziness,
		Languages:            s.Languages,
	})
	if err != nil {
		return schema.Index{}, request.Request{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	return idx, req, nil
}

// group returns the root condition group. A nil root is an empty AND group
// and a leaf root is wrapped in one.
func (c *Condition) group() (condition.Group, error) {
	if c == nil {
		return condition.NewGroup(condition.And), nil
	}
	n, err := c.node(0)
	if err != nil {
		return condition.Group{}, err
	}
	if g, ok := n.(condition.Group); ok {
		return g, nil
	}
	return condition.NewGroup(condition.And, n), nil
}

func (c *Condition) isGroup() bool {
	return c.Conjunction != "" || len(c.Conditions) > 0
}

func (c *Condition) node(depth int) (condition.Node, error) {
	if depth > condition.MaxDepth {
		return nil, fmt.Errorf("conditions nested deeper than %d", condition.MaxDepth)
	}
	if !c.isGroup() {
		if c.Field == "" {
			return nil, fmt.Errorf("condition field is required")
		}
		op := condition.Operator(strings.ToUpper(strings.TrimSpace(c.Operator)))
		return condition.New(c.Field, c.Value, op), nil
	}

	children := make([]condition.Node, 0, len(c.Conditions))
	for i := range c.Conditions {
		n, err := c.Conditions[i].node(depth + 1)
		if err != nil {
			return nil, fmt.Errorf("conditions[%d]: %w", i, err)
		}
		children = append(children, n)
	}
	g := condition.NewGroup(condition.Conjunction(strings.ToUpper(c.Conjunction)), children...)
	if c.Negated {
		g = g.Negate()
	}
	return g, nil
}

// ToDomain validates the item. Text values are wrapped as item.Text.
func (it Item) ToDomain() (item.Item, error) {
	fields := make([]item.Field, 0, len(it.Fields))
	for _, f := range it.Fields {
		ft := field.Type(f.Type)
		values := f.Values
		if ft == field.Text {
			values = textValues(f.Values, f.Format)
		}
		fields = append(fields, item.NewField(f.ID, ft, values...))
	}
	res, err := item.New(it.ID, it.Language, fields...)
	if err != nil {
		return item.Item{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	return res, nil
}

func textValues(values []any, format string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		s := cast.ToString(v)
		if format == FormatHTML {
			out[i] = item.TextFromHTML(s)
			continue
		}
		out[i] = item.NewText(s)
	}
	return out
}

// ToDomain converts every item, in order.
func (b IndexItems) ToDomain() ([]item.Item, error) {
	items := make([]item.Item, 0, len(b.Items))
	for i, it := range b.Items {
		res, err := it.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		items = append(items, res)
	}
	return items, nil
}
