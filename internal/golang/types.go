package golang

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kolah/ctrlgen/internal/controller"
	"github.com/kolah/ctrlgen/internal/model"
	"github.com/kolah/ctrlgen/internal/naming"
)

const componentPrefix = "#/components/schemas/"

// TypeMapper renders schemas as Go type expressions. Component schemas are
// referred to by name and declared once; every other object is rendered as
// an inline struct literal.
type TypeMapper struct {
	schemas   []model.Schema
	names     map[string]string
	qualifier string
}

type TypeMapperOptions struct {
	// Qualifier is the package name component types live in. When set,
	// references render as qualifier.Name and nothing is declared locally.
	Qualifier string
}

var _ controller.TypeMapper = (*TypeMapper)(nil)

// NewTypeMapper creates a mapper over the component schemas of a document.
func NewTypeMapper(schemas []model.Schema, opts TypeMapperOptions) *TypeMapper {
	m := &TypeMapper{
		schemas:   schemas,
		names:     make(map[string]string, len(schemas)),
		qualifier: opts.Qualifier,
	}
	for i := range schemas {
		m.names[componentPrefix+schemas[i].Name] = ComponentName(&schemas[i])
	}
	return m
}

// ComponentName returns the Go name of a component schema, honoring
// x-ctrlgen-go-name.
func ComponentName(s *model.Schema) string {
	if s.Extensions != nil && s.Extensions.GoName != "" {
		return s.Extensions.GoName
	}
	return naming.FieldName(s.Name)
}

func (m *TypeMapper) TypeLiteral(s *model.Schema) string {
	return m.render(s, m.qualifier)
}

func (m *TypeMapper) TypeLiteralIn(s *model.Schema, registry string) string {
	if registry == "" {
		registry = m.qualifier
	}
	return m.render(s, registry)
}

func (m *TypeMapper) render(s *model.Schema, qualifier string) string {
	if s != nil && s.Extensions != nil && s.Extensions.GoType != "" {
		return s.Extensions.GoType
	}

	switch s.Kind() {
	case model.KindReference:
		return m.refName(s.Ref, qualifier)
	case model.KindComposed:
		return m.composed(s, qualifier)
	case model.KindObject:
		return m.object(s, qualifier)
	case model.KindArray:
		return "[]" + m.render(s.Items, qualifier)
	case model.KindPrimitive:
		return primitive(s)
	default:
		return "any"
	}
}

func (m *TypeMapper) refName(ref, qualifier string) string {
	name, ok := m.names[ref]
	if !ok {
		name = naming.FieldName(model.RefName(ref))
	}
	if qualifier != "" {
		return qualifier + "." + name
	}
	return name
}

// composed embeds referenced members of an allOf and merges inline object
// members into one struct. oneOf and anyOf have no static Go shape.
func (m *TypeMapper) composed(s *model.Schema, qualifier string) string {
	if len(s.OneOf) > 0 || len(s.AnyOf) > 0 {
		return "any"
	}
	if len(s.AllOf) == 1 {
		return m.render(s.AllOf[0], qualifier)
	}

	merged := &model.Schema{Type: model.TypeObject}
	var embeds []string
	for _, sub := range s.AllOf {
		switch sub.Kind() {
		case model.KindReference:
			embeds = append(embeds, m.refName(sub.Ref, qualifier))
		case model.KindObject:
			merged.Properties = append(merged.Properties, sub.Properties...)
			merged.Required = append(merged.Required, sub.Required...)
		default:
			return "any"
		}
	}
	return m.structLiteral(merged, qualifier, embeds)
}

func (m *TypeMapper) object(s *model.Schema, qualifier string) string {
	if len(s.Properties) > 0 {
		return m.structLiteral(s, qualifier, nil)
	}
	if s.AdditionalProperties != nil {
		return "map[string]" + m.render(s.AdditionalProperties, qualifier)
	}
	return "map[string]any"
}

func (m *TypeMapper) structLiteral(s *model.Schema, qualifier string, embeds []string) string {
	var b strings.Builder
	b.WriteString("struct {\n")
	for _, e := range embeds {
		b.WriteString(e)
		b.WriteString("\n")
	}
	for _, p := range s.Properties {
		required := s.IsRequired(p.Name)
		if doc := schemaComment(p.Schema); doc != "" {
			b.WriteString(doc)
			b.WriteString("\n")
		}
		typ := m.render(p.Schema, qualifier)
		if NeedsPointer(p.Schema, required) {
			typ = "*" + typ
		}
		fmt.Fprintf(&b, "%s %s %s\n", PropertyName(p), typ, StructTag(p.Name, required))
	}
	b.WriteString("}")
	return b.String()
}

// PropertyName returns the Go field name of an object property.
func PropertyName(p model.Property) string {
	if p.Schema != nil && p.Schema.Extensions != nil && p.Schema.Extensions.GoName != "" {
		return p.Schema.Extensions.GoName
	}
	return naming.FieldName(p.Name)
}

func primitive(s *model.Schema) string {
	switch s.Type {
	case model.TypeString:
		return goStringType(s.Format)
	case model.TypeInteger:
		return goIntegerType(s.Format)
	case model.TypeNumber:
		return goNumberType(s.Format)
	case model.TypeBoolean:
		return "bool"
	default:
		return "any"
	}
}

func goStringType(format string) string {
	switch format {
	case "date-time":
		return "time.Time"
	case "byte":
		return "[]byte"
	default:
		return "string"
	}
}

func goIntegerType(format string) string {
	switch format {
	case "int32":
		return "int32"
	case "int64":
		return "int64"
	default:
		return "int"
	}
}

func goNumberType(format string) string {
	switch format {
	case "float":
		return "float32"
	default:
		return "float64"
	}
}

// NeedsPointer reports whether a property needs a pointer to distinguish an
// unset value from the zero value.
func NeedsPointer(s *model.Schema, required bool) bool {
	if s == nil {
		return false
	}
	if required && !s.Nullable {
		return false
	}
	return s.Kind() == model.KindPrimitive
}

// Declarations returns one type declaration per component schema, in
// document order. Primitive enums also declare one constant per value.
func (m *TypeMapper) Declarations() []controller.Declaration {
	if m.qualifier != "" {
		return nil
	}

	decls := make([]controller.Declaration, 0, len(m.schemas))
	for i := range m.schemas {
		s := &m.schemas[i]
		name := m.names[componentPrefix+s.Name]

		var b strings.Builder
		if doc := schemaComment(s); doc != "" {
			b.WriteString(doc)
			b.WriteString("\n")
		}
		if s.Extensions != nil && s.Extensions.GoType != "" {
			fmt.Fprintf(&b, "type %s = %s", name, s.Extensions.GoType)
		} else {
			fmt.Fprintf(&b, "type %s %s", name, m.render(s, ""))
		}

		if consts := enumConstants(name, s); len(consts) > 0 {
			b.WriteString("\n\nconst (\n")
			for _, c := range consts {
				fmt.Fprintf(&b, "%s %s = %s\n", c.name, name, c.literal)
			}
			b.WriteString(")")
		}

		decls = append(decls, controller.Declaration{Name: name, Source: b.String()})
	}
	return decls
}

// DeclaredNames lists the type and constant names Declarations introduces.
func (m *TypeMapper) DeclaredNames() []string {
	if m.qualifier != "" {
		return nil
	}

	var names []string
	for i := range m.schemas {
		s := &m.schemas[i]
		name := m.names[componentPrefix+s.Name]
		names = append(names, name)
		for _, c := range enumConstants(name, s) {
			names = append(names, c.name)
		}
	}
	return names
}

type enumConstant struct {
	name    string
	literal string
}

func enumConstants(typeName string, s *model.Schema) []enumConstant {
	if len(s.Enum) == 0 || s.Kind() != model.KindPrimitive {
		return nil
	}
	if s.Extensions != nil && s.Extensions.GoType != "" {
		return nil
	}

	consts := make([]enumConstant, 0, len(s.Enum))
	for _, v := range s.Enum {
		if v == nil {
			continue
		}
		consts = append(consts, enumConstant{
			name:    typeName + naming.FieldName(fmt.Sprint(v)),
			literal: EnumLiteral(s, v),
		})
	}
	return consts
}

// EnumLiteral formats an enum value as a Go literal.
func EnumLiteral(s *model.Schema, v any) string {
	switch s.Type {
	case model.TypeString:
		return strconv.Quote(fmt.Sprint(v))
	default:
		return fmt.Sprintf("%v", v)
	}
}

func schemaComment(s *model.Schema) string {
	if s == nil {
		return ""
	}
	doc := GoComment(s.Description)
	if s.Deprecated {
		if doc != "" {
			doc += "\n//\n"
		}
		doc += "// Deprecated: this schema is deprecated."
	}
	return doc
}
