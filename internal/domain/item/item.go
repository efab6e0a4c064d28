package item

import (
	"fmt"

	"github.com/kailas-cloud/searchbridge/internal/domain/schema/field"
)

// MaxIDLength is the engine limit for document identifiers, in bytes.
const MaxIDLength = 512

// UndefinedLanguage marks items without a language.
const UndefinedLanguage = "und"

// Field holds the typed values of one item field.
type Field struct {
	identifier string
	fieldType  field.Type
	values     []any
}

// NewField creates an item field. Values keep their order.
func NewField(identifier string, ft field.Type, values ...any) Field {
	cp := make([]any, len(values))
	copy(cp, values)
	return Field{identifier: identifier, fieldType: ft, values: cp}
}

// Identifier returns the field identifier.
func (f Field) Identifier() string { return f.identifier }

// Type returns the abstract field type.
func (f Field) Type() field.Type { return f.fieldType }

// Values returns the field values.
func (f Field) Values() []any { return f.values }

// Item is a document ready for indexing (immutable value object).
type Item struct {
	id       string
	language string
	fields   []Field
}

// New validates and creates an Item.
// ID: non-empty, max 512 bytes. An empty language becomes "und".
// Field identifiers must be unique.
func New(id, language string, fields ...Field) (Item, error) {
	if id == "" {
		return Item{}, fmt.Errorf("item ID is required")
	}
	if len(id) > MaxIDLength {
		return Item{}, fmt.Errorf("item ID too long (max %d bytes)", MaxIDLength)
	}
	if language == "" {
		language = UndefinedLanguage
	}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.identifier == "" {
			return Item{}, fmt.Errorf("item %q: field identifier is required", id)
		}
		if seen[f.identifier] {
			return Item{}, fmt.Errorf("item %q: duplicate field %q", id, f.identifier)
		}
		seen[f.identifier] = true
	}

	cp := make([]Field, len(fields))
	copy(cp, fields)
	return Item{id: id, language: language, fields: cp}, nil
}

// ID returns the item identifier.
func (i *Item) ID() string { return i.id }

// Language returns the item language code.
func (i *Item) Language() string { return i.language }

// Fields returns the ordered item fields.
func (i *Item) Fields() []Field { return i.fields }
