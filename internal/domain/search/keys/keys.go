// Package keys models parsed full-text search keys: a tree of terms and
// boolean groups with per-node conjunction and negation.
package keys

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/kailas-cloud/searchbridge/internal/domain/search/condition"
)

// Structural marker keys of the map form produced by host parse modes.
const (
	MarkerPrefix   = "#"
	ConjunctionKey = "#conjunction"
	NegationKey    = "#negation"
)

// Keys is either a single term or a group of nested keys.
type Keys struct {
	value       string
	isTerm      bool
	conjunction condition.Conjunction
	negated     bool
	children    []Keys
}

// Term creates a leaf term.
func Term(value string) Keys {
	return Keys{value: value, isTerm: true}
}

// NewGroup creates a group. An empty conjunction defaults to OR.
func NewGroup(conj condition.Conjunction, children ...Keys) Keys {
	if conj == "" {
		conj = condition.Or
	}
	cp := make([]Keys, len(children))
	copy(cp, children)
	return Keys{conjunction: conj, children: cp}
}

// Negate returns a negated copy.
func (k Keys) Negate() Keys {
	k.negated = !k.negated
	return k
}

// IsTerm reports whether k is a leaf term.
func (k Keys) IsTerm() bool { return k.isTerm }

// Value returns the term text of a leaf.
func (k Keys) Value() string { return k.value }

// Conjunction returns the group conjunction.
func (k Keys) Conjunction() condition.Conjunction { return k.conjunction }

// Negated reports whether the node is negated.
func (k Keys) Negated() bool { return k.negated }

// Children returns a copy of the group children.
func (k Keys) Children() []Keys {
	cp := make([]Keys, len(k.children))
	copy(cp, k.children)
	return cp
}

// IsEmpty reports whether the tree contains no non-blank term.
func (k Keys) IsEmpty() bool {
	if k.isTerm {
		return strings.TrimSpace(k.value) == ""
	}
	for _, c := range k.children {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// FromAny decodes keys from a JSON-decoded value. Accepted forms:
//
//	"foo"                                          a single term
//	["foo", "bar"]                                 an OR group
//	{"conjunction":"AND","negation":true,"terms":[...]}
//	{"#conjunction":"AND","#negation":true,"0":"foo","1":[...]}
//
// In the marker form, "#"-prefixed keys are structural. The remaining keys
// become children ordered numerically first, then by name.
func FromAny(v any) (Keys, error) {
	return fromAny(v, 0)
}

func fromAny(v any, depth int) (Keys, error) {
	if depth > condition.MaxDepth {
		return Keys{}, fmt.Errorf("search keys nested deeper than %d", condition.MaxDepth)
	}
	switch t := v.(type) {
	case nil:
		return NewGroup(condition.Or), nil
	case string:
		return Term(t), nil
	case json.Number:
		return Term(t.String()), nil
	case float64:
		return Term(strconv.FormatFloat(t, 'f', -1, 64)), nil
	case int:
		return Term(strconv.Itoa(t)), nil
	case []any:
		children, err := decodeList(t, depth)
		if err != nil {
			return Keys{}, err
		}
		return NewGroup(condition.Or, children...), nil
	case []string:
		children := make([]Keys, len(t))
		for i, s := range t {
			children[i] = Term(s)
		}
		return NewGroup(condition.Or, children...), nil
	case map[string]any:
		return decodeMap(t, depth)
	case map[any]any:
		// YAML mappings with unquoted numeric keys.
		m := make(map[string]any, len(t))
		for key, val := range t {
			m[cast.ToString(key)] = val
		}
		return decodeMap(m, depth)
	default:
		return Keys{}, fmt.Errorf("unsupported search keys value of type %T", v)
	}
}

func decodeList(items []any, depth int) ([]Keys, error) {
	children := make([]Keys, 0, len(items))
	for i, item := range items {
		c, err := fromAny(item, depth+1)
		if err != nil {
			return nil, fmt.Errorf("keys[%d]: %w", i, err)
		}
		children = append(children, c)
	}
	return children, nil
}

func decodeMap(m map[string]any, depth int) (Keys, error) {
	if terms, ok := m["terms"]; ok {
		list, ok := terms.([]any)
		if !ok {
			return Keys{}, fmt.Errorf("search keys terms must be a list, got %T", terms)
		}
		children, err := decodeList(list, depth)
		if err != nil {
			return Keys{}, err
		}
		conj, err := conjunctionOf(m["conjunction"])
		if err != nil {
			return Keys{}, err
		}
		g := NewGroup(conj, children...)
		if truthy(m["negation"]) || truthy(m["negated"]) {
			g = g.Negate()
		}
		return g, nil
	}

	conj, err := conjunctionOf(m[ConjunctionKey])
	if err != nil {
		return Keys{}, err
	}

	names := make([]string, 0, len(m))
	for name := range m {
		if !strings.HasPrefix(name, MarkerPrefix) {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool { return lessKey(names[i], names[j]) })

	children := make([]Keys, 0, len(names))
	for _, name := range names {
		c, err := fromAny(m[name], depth+1)
		if err != nil {
			return Keys{}, fmt.Errorf("keys[%s]: %w", name, err)
		}
		children = append(children, c)
	}

	g := NewGroup(conj, children...)
	if truthy(m[NegationKey]) {
		g = g.Negate()
	}
	return g, nil
}

func conjunctionOf(v any) (condition.Conjunction, error) {
	if v == nil {
		return condition.Or, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("search keys conjunction must be a string, got %T", v)
	}
	return condition.Conjunction(strings.ToUpper(s)), nil
}

// lessKey orders numeric keys before named ones, numerically.
func lessKey(a, b string) bool {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return ai < bi
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != "" && t != "0" && t != "false"
	case float64:
		return t != 0
	case int:
		return t != 0
	case json.Number:
		return t.String() != "0"
	default:
		return false
	}
}
