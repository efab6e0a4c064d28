package field

import "fmt"

// Type is the abstract data type of an indexed field.
type Type string

// Abstract field types understood by the mapping compiler.
const (
	Text       Type = "text"
	String     Type = "string"
	URI        Type = "uri"
	Token      Type = "token"
	Integer    Type = "integer"
	Duration   Type = "duration"
	Boolean    Type = "boolean"
	Decimal    Type = "decimal"
	Date       Type = "date"
	Attachment Type = "attachment"
	Object     Type = "object"
	Location   Type = "location"
)

// DefaultBoost is applied when a field is declared without a boost.
const DefaultBoost = 1.0

// Pseudo-fields the engine documents always carry, outside any schema.
const (
	ID         = "id"
	Language   = "_language"
	Datasource = "search_api_datasource"
)

var reservedFieldNames = map[string]bool{
	ID: true, Language: true,
}

// Field is an immutable value object describing one indexed field.
type Field struct {
	identifier string
	fieldType  Type
	boost      float64
}

// New validates and creates a Field.
// Identifier must be non-empty, at most 255 chars and not reserved.
// Unknown types are accepted and later mapped to an empty definition.
func New(identifier string, ft Type, boost float64) (Field, error) {
	if identifier == "" {
		return Field{}, fmt.Errorf("field identifier is required")
	}
	if len(identifier) > 255 {
		return Field{}, fmt.Errorf("field identifier %q too long (max 255)", identifier)
	}
	if reservedFieldNames[identifier] {
		return Field{}, fmt.Errorf("field identifier %q is reserved", identifier)
	}
	if boost < 0 {
		return Field{}, fmt.Errorf("negative boost %v for %q", boost, identifier)
	}
	if boost == 0 {
		boost = DefaultBoost
	}
	return Field{identifier: identifier, fieldType: ft, boost: boost}, nil
}

// Identifier returns the field identifier.
func (f Field) Identifier() string { return f.identifier }

// Type returns the abstract field type.
func (f Field) Type() Type { return f.fieldType }

// Boost returns the relevance boost.
func (f Field) Boost() float64 { return f.boost }

// IsFulltext reports whether the field is analyzed for full-text search.
func (f Field) IsFulltext() bool { return f.fieldType == Text }

// IsKnown reports whether t is one of the declared abstract types.
func (t Type) IsKnown() bool {
	switch t {
	case Text, String, URI, Token, Integer, Duration, Boolean, Decimal, Date, Attachment, Object, Location:
		return true
	}
	return false
}
