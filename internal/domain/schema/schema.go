package schema

import (
	"fmt"
	"regexp"

	"github.com/kailas-cloud/searchbridge/internal/domain/schema/field"
)

var nameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_.\-]*$`)

// MaxFields bounds the number of fields in a single index schema.
const MaxFields = 1000

// Index is the schema of one search index (immutable value object).
type Index struct {
	name   string
	fields []field.Field
	byID   map[string]int
}

// ValidateName checks an index name against the engine naming rules:
// lowercase, 1-255 chars, no leading '_', '-' or '+', not "." or "..".
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("index name is required")
	}
	if len(name) > 255 {
		return fmt.Errorf("index name too long (max 255)")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("index name %q is reserved", name)
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("index name %q must be lowercase alphanumeric with '_', '-' or '.'", name)
	}
	return nil
}

func validateFields(fields []field.Field) error {
	if len(fields) > MaxFields {
		return fmt.Errorf("too many fields (max %d)", MaxFields)
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Identifier()] {
			return fmt.Errorf("duplicate field identifier: %s", f.Identifier())
		}
		seen[f.Identifier()] = true
	}
	return nil
}

// New validates and creates an index schema. Field order is preserved.
func New(name string, fields ...field.Field) (Index, error) {
	if err := ValidateName(name); err != nil {
		return Index{}, err
	}
	if err := validateFields(fields); err != nil {
		return Index{}, err
	}
	return build(name, fields), nil
}

func build(name string, fields []field.Field) Index {
	cp := make([]field.Field, len(fields))
	copy(cp, fields)
	byID := make(map[string]int, len(cp))
	for i, f := range cp {
		byID[f.Identifier()] = i
	}
	return Index{name: name, fields: cp, byID: byID}
}

// Name returns the index name.
func (i Index) Name() string { return i.name }

// Fields returns a copy of the ordered field list.
func (i Index) Fields() []field.Field {
	cp := make([]field.Field, len(i.fields))
	copy(cp, i.fields)
	return cp
}

// Field looks a field up by identifier.
func (i Index) Field(id string) (field.Field, bool) {
	idx, ok := i.byID[id]
	if !ok {
		return field.Field{}, false
	}
	return i.fields[idx], true
}

// Has reports whether the schema declares the field.
func (i Index) Has(id string) bool {
	_, ok := i.byID[id]
	return ok
}

// FulltextFields returns the text fields in schema order.
func (i Index) FulltextFields() []field.Field {
	var out []field.Field
	for _, f := range i.fields {
		if f.IsFulltext() {
			out = append(out, f)
		}
	}
	return out
}
