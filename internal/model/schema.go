package model

type Schema struct {
	Name        string
	Description string
	Type        SchemaType
	Format      string
	Nullable    bool
	Deprecated  bool
	Default     any

	// Object properties
	Properties []Property
	Required   []string

	// Array items
	Items *Schema

	Enum []any

	// Composition
	AllOf []*Schema
	OneOf []*Schema
	AnyOf []*Schema

	Ref string

	// Additional properties for maps
	AdditionalProperties *Schema

	// Constraints
	Minimum          *float64
	Maximum          *float64
	MinLength        *int64
	MaxLength        *int64
	Pattern          string
	MinItems         *int64
	MaxItems         *int64
	UniqueItems      bool
	ExclusiveMinimum bool
	ExclusiveMaximum bool

	// x-ctrlgen-* extensions
	Extensions *SchemaExtensions
}

// SchemaExtensions holds x-ctrlgen-* extension values for customizing code generation.
type SchemaExtensions struct {
	// GoType overrides the generated Go type (e.g., "time.Duration")
	GoType string
	// GoName overrides the generated field/type name
	GoName string
}

type SchemaType string

const (
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
	TypeArray   SchemaType = "array"
	TypeObject  SchemaType = "object"
	TypeNull    SchemaType = "null"
)

type Property struct {
	Name   string
	Schema *Schema
}

// SchemaKind is the closed set of shapes a schema node can take. Mappers
// switch on it exhaustively instead of probing individual fields.
type SchemaKind int

const (
	KindAny SchemaKind = iota
	KindReference
	KindComposed
	KindObject
	KindArray
	KindPrimitive
)

func (k SchemaKind) String() string {
	switch k {
	case KindReference:
		return "reference"
	case KindComposed:
		return "composed"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindPrimitive:
		return "primitive"
	default:
		return "any"
	}
}

// Kind classifies the schema. A nil schema is KindAny.
func (s *Schema) Kind() SchemaKind {
	switch {
	case s == nil:
		return KindAny
	case s.Ref != "":
		return KindReference
	case len(s.AllOf) > 0 || len(s.OneOf) > 0 || len(s.AnyOf) > 0:
		return KindComposed
	}
	switch s.Type {
	case TypeObject:
		return KindObject
	case TypeArray:
		return KindArray
	case TypeString, TypeInteger, TypeNumber, TypeBoolean:
		return KindPrimitive
	}
	if len(s.Properties) > 0 || s.AdditionalProperties != nil {
		return KindObject
	}
	if s.Items != nil {
		return KindArray
	}
	return KindAny
}

// IsRequired reports whether the named property is listed as required.
func (s *Schema) IsRequired(name string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}
