package condition

// Operator is an abstract comparison operator of a filter condition.
type Operator string

// Supported comparison operators.
const (
	Eq         Operator = "="
	NotEq      Operator = "<>"
	In         Operator = "IN"
	NotIn      Operator = "NOT IN"
	Gt         Operator = ">"
	Gte        Operator = ">="
	Lt         Operator = "<"
	Lte        Operator = "<="
	Between    Operator = "BETWEEN"
	NotBetween Operator = "NOT BETWEEN"
)

// Conjunction combines the children of a group.
type Conjunction string

// Group conjunctions.
const (
	And Conjunction = "AND"
	Or  Conjunction = "OR"
)

// MaxDepth bounds group nesting when decoding untrusted input.
const MaxDepth = 32

// Node is either a Condition or a Group.
type Node interface {
	node()
}

// Condition is a filter leaf: field, operator and a pre-typed value.
// Value is nil, a scalar, or a slice for IN/NOT IN/BETWEEN/NOT BETWEEN.
type Condition struct {
	field    string
	value    any
	operator Operator
}

// New creates a Condition. Operator validity is checked at compile time.
func New(field string, value any, op Operator) Condition {
	return Condition{field: field, value: value, operator: op}
}

// Field returns the filtered field identifier.
func (c Condition) Field() string { return c.field }

// Value returns the condition value.
func (c Condition) Value() any { return c.value }

// Operator returns the comparison operator.
func (c Condition) Operator() Operator { return c.operator }

// WithValue returns a copy of the condition carrying v.
func (c Condition) WithValue(v any) Condition {
	c.value = v
	return c
}

func (Condition) node() {}

// Group is a boolean combinator over conditions and nested groups.
type Group struct {
	conjunction Conjunction
	negated     bool
	children    []Node
}

// NewGroup creates a group. An empty conjunction defaults to AND; any other
// value is kept as-is and rejected by the compiler.
func NewGroup(conj Conjunction, children ...Node) Group {
	if conj == "" {
		conj = And
	}
	cp := make([]Node, len(children))
	copy(cp, children)
	return Group{conjunction: conj, children: cp}
}

// Conjunction returns the group conjunction.
func (g Group) Conjunction() Conjunction { return g.conjunction }

// Negated reports whether the group as a whole is negated.
func (g Group) Negated() bool { return g.negated }

// Children returns a copy of the group children in declaration order.
func (g Group) Children() []Node {
	cp := make([]Node, len(g.children))
	copy(cp, g.children)
	return cp
}

// IsEmpty reports whether the group has no children.
func (g Group) IsEmpty() bool { return len(g.children) == 0 }

// Negate returns a negated copy of the group.
func (g Group) Negate() Group {
	g.negated = !g.negated
	return g
}

// With returns a copy of the group with extra children appended.
func (g Group) With(children ...Node) Group {
	cp := make([]Node, 0, len(g.children)+len(children))
	cp = append(cp, g.children...)
	cp = append(cp, children...)
	g.children = cp
	return g
}

func (Group) node() {}
