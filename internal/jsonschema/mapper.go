// Package jsonschema renders schema nodes as JSON Schema (draft 2020-12)
// documents compiled by the router runtime of generated code.
package jsonschema

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/kolah/ctrlgen/internal/controller"
	"github.com/kolah/ctrlgen/internal/golang"
	"github.com/kolah/ctrlgen/internal/model"
)

// ComponentsResource is the resource component schemas are registered under.
// Field schemas reference components relative to it.
const ComponentsResource = "components.json"

// Map keys are sorted so the same schema always yields the same text.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Options struct {
	// Runtime is the package name of the router runtime in generated code.
	Runtime string
	// Registry is the variable name of the component registry.
	Registry string
}

// Mapper converts schemas into runtime validator descriptors.
type Mapper struct {
	schemas  []model.Schema
	byName   map[string]*model.Schema
	runtime  string
	registry string
}

var _ controller.ValidatorMapper = (*Mapper)(nil)

func NewMapper(schemas []model.Schema, opts Options) *Mapper {
	if opts.Runtime == "" {
		opts.Runtime = "router"
	}
	if opts.Registry == "" {
		opts.Registry = controller.DefaultValidatorsRegistry
	}
	m := &Mapper{
		schemas:  schemas,
		byName:   make(map[string]*model.Schema, len(schemas)),
		runtime:  opts.Runtime,
		registry: opts.Registry,
	}
	for i := range schemas {
		m.byName[schemas[i].Name] = &schemas[i]
	}
	return m
}

// resolver renders a $ref.
type resolver func(ref string) map[string]any

func pointTo(resource string) resolver {
	return func(ref string) map[string]any {
		return map[string]any{"$ref": resource + "#/$defs/" + model.RefName(ref)}
	}
}

// inliner replaces references by the referenced component. A reference to
// a component that is already being inlined becomes the empty schema.
func (m *Mapper) inliner() resolver {
	active := map[string]bool{}
	var resolve resolver
	resolve = func(ref string) map[string]any {
		name := model.RefName(ref)
		target, ok := m.byName[name]
		if !ok || active[name] {
			return map[string]any{}
		}
		active[name] = true
		defer delete(active, name)
		return m.node(target, resolve)
	}
	return resolve
}

// Validator renders s as a JSON Schema document. With a registry, component
// references point into the registry's components resource; without one
// they are inlined.
func (m *Mapper) Validator(s *model.Schema, required bool, registry string) controller.Validator {
	resolve := m.inliner()
	if registry != "" {
		resolve = pointTo(ComponentsResource)
	}
	return controller.Validator{
		Schema:   m.encode(m.node(s, resolve)),
		Required: required,
	}
}

// Component renders a component schema for the components resource, where
// references stay local to the resource.
func (m *Mapper) Component(s *model.Schema) string {
	return m.encode(m.node(s, pointTo("")))
}

// Declarations returns one constant per component schema followed by the
// registry variable compiling them.
func (m *Mapper) Declarations() []controller.Declaration {
	decls := make([]controller.Declaration, 0, len(m.schemas)+1)

	var entries strings.Builder
	for i := range m.schemas {
		s := &m.schemas[i]
		name := m.registry + golang.ComponentName(s)
		decls = append(decls, controller.Declaration{
			Name:   name,
			Source: fmt.Sprintf("const %s = %s", name, golang.GoString(m.Component(s))),
		})
		fmt.Fprintf(&entries, "%q: %s,\n", s.Name, name)
	}

	source := fmt.Sprintf("var %s = %s.NewRegistry(nil)", m.registry, m.runtime)
	if entries.Len() > 0 {
		source = fmt.Sprintf("var %s = %s.NewRegistry(map[string]string{\n%s})", m.registry, m.runtime, entries.String())
	}
	return append(decls, controller.Declaration{Name: m.registry, Source: source})
}

func (m *Mapper) encode(node map[string]any) string {
	out, err := json.Marshal(node)
	if err != nil {
		// Only values decoded from YAML reach the encoder.
		return "{}"
	}
	return string(out)
}

func (m *Mapper) node(s *model.Schema, resolve resolver) map[string]any {
	out := map[string]any{}

	switch s.Kind() {
	case model.KindAny:
		return out
	case model.KindReference:
		return resolve(s.Ref)
	case model.KindComposed:
		composition(out, "allOf", s.AllOf, func(member *model.Schema) any { return m.node(member, resolve) })
		composition(out, "oneOf", s.OneOf, func(member *model.Schema) any { return m.node(member, resolve) })
		composition(out, "anyOf", s.AnyOf, func(member *model.Schema) any { return m.node(member, resolve) })
	case model.KindObject:
		out["type"] = string(model.TypeObject)
		if len(s.Properties) > 0 {
			props := make(map[string]any, len(s.Properties))
			for _, p := range s.Properties {
				props[p.Name] = m.node(p.Schema, resolve)
			}
			out["properties"] = props
		}
		if len(s.Required) > 0 {
			out["required"] = s.Required
		}
		if s.AdditionalProperties != nil {
			out["additionalProperties"] = m.node(s.AdditionalProperties, resolve)
		}
	case model.KindArray:
		out["type"] = string(model.TypeArray)
		if s.Items != nil {
			out["items"] = m.node(s.Items, resolve)
		}
	case model.KindPrimitive:
		out["type"] = string(s.Type)
	}

	constraints(s, out)

	if s.Nullable {
		if typ, ok := out["type"].(string); ok {
			out["type"] = []string{typ, string(model.TypeNull)}
		}
		if enum, ok := out["enum"].([]any); ok {
			out["enum"] = append(enum, nil)
		}
	}
	return out
}

func composition(out map[string]any, key string, members []*model.Schema, render func(*model.Schema) any) {
	if len(members) == 0 {
		return
	}
	nodes := make([]any, 0, len(members))
	for _, member := range members {
		nodes = append(nodes, render(member))
	}
	out[key] = nodes
}

// constraints copies the validation keywords of s. OpenAPI 3.0 boolean
// exclusive bounds become draft 2020-12 numeric ones.
func constraints(s *model.Schema, out map[string]any) {
	if len(s.Enum) > 0 {
		enum := make([]any, len(s.Enum))
		copy(enum, s.Enum)
		out["enum"] = enum
	}
	if s.Format != "" {
		out["format"] = s.Format
	}
	if s.Minimum != nil {
		if s.ExclusiveMinimum {
			out["exclusiveMinimum"] = *s.Minimum
		} else {
			out["minimum"] = *s.Minimum
		}
	}
	if s.Maximum != nil {
		if s.ExclusiveMaximum {
			out["exclusiveMaximum"] = *s.Maximum
		} else {
			out["maximum"] = *s.Maximum
		}
	}
	if s.MinLength != nil {
		out["minLength"] = *s.MinLength
	}
	if s.MaxLength != nil {
		out["maxLength"] = *s.MaxLength
	}
	if s.Pattern != "" {
		out["pattern"] = s.Pattern
	}
	if s.MinItems != nil {
		out["minItems"] = *s.MinItems
	}
	if s.MaxItems != nil {
		out["maxItems"] = *s.MaxItems
	}
	if s.UniqueItems {
		out["uniqueItems"] = true
	}
}
