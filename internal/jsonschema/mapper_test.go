package jsonschema

import (
	"testing"

	"github.com/kolah/ctrlgen/internal/controller"
	"github.com/kolah/ctrlgen/internal/model"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func components() []model.Schema {
	return []model.Schema{
		{
			Name:     "Pet",
			Type:     model.TypeObject,
			Required: []string{"name"},
			Properties: []model.Property{
				{Name: "name", Schema: &model.Schema{Type: model.TypeString}},
			},
		},
		{
			Name: "Node",
			Type: model.TypeObject,
			Properties: []model.Property{
				{Name: "children", Schema: &model.Schema{Type: model.TypeArray, Items: &model.Schema{Ref: "#/components/schemas/Node"}}},
			},
		},
	}
}

func TestValidator(t *testing.T) {
	m := NewMapper(components(), Options{})

	tests := []struct {
		name     string
		schema   *model.Schema
		registry string
		expected string
	}{
		{"nil", nil, "validators", `{}`},
		{"string", &model.Schema{Type: model.TypeString}, "validators", `{"type":"string"}`},
		{"format", &model.Schema{Type: model.TypeString, Format: "uuid"}, "validators", `{"format":"uuid","type":"string"}`},
		{"nullable", &model.Schema{Type: model.TypeInteger, Nullable: true}, "validators", `{"type":["integer","null"]}`},
		{"nullable enum", &model.Schema{Type: model.TypeString, Nullable: true, Enum: []any{"a"}}, "validators", `{"enum":["a",null],"type":["string","null"]}`},
		{"array", &model.Schema{Type: model.TypeArray, Items: &model.Schema{Type: model.TypeBoolean}, UniqueItems: true}, "validators", `{"items":{"type":"boolean"},"type":"array","uniqueItems":true}`},
		{"map", &model.Schema{Type: model.TypeObject, AdditionalProperties: &model.Schema{Type: model.TypeString}}, "validators", `{"additionalProperties":{"type":"string"},"type":"object"}`},
		{"oneOf", &model.Schema{OneOf: []*model.Schema{{Type: model.TypeString}, {Type: model.TypeInteger}}}, "validators", `{"oneOf":[{"type":"string"},{"type":"integer"}]}`},
		{"constraints", &model.Schema{Type: model.TypeString, MinLength: ptr(int64(2)), MaxLength: ptr(int64(5)), Pattern: "^[a-z]+$"}, "validators", `{"maxLength":5,"minLength":2,"pattern":"^[a-z]+$","type":"string"}`},
		{"exclusive minimum", &model.Schema{Type: model.TypeInteger, Minimum: ptr(0.0), ExclusiveMinimum: true}, "validators", `{"exclusiveMinimum":0,"type":"integer"}`},
		{"ref into registry", &model.Schema{Ref: "#/components/schemas/Pet"}, "validators", `{"$ref":"components.json#/$defs/Pet"}`},
		{"ref inlined", &model.Schema{Ref: "#/components/schemas/Pet"}, "", `{"properties":{"name":{"type":"string"}},"required":["name"],"type":"object"}`},
		{"recursive ref inlined", &model.Schema{Ref: "#/components/schemas/Node"}, "", `{"properties":{"children":{"items":{},"type":"array"}},"type":"object"}`},
		{"unknown ref inlined", &model.Schema{Ref: "#/components/schemas/Missing"}, "", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := m.Validator(tt.schema, false, tt.registry)
			require.Equal(t, tt.expected, v.Schema)
			require.False(t, v.Required)
		})
	}

	require.True(t, m.Validator(&model.Schema{Type: model.TypeString}, true, "validators").Required)
}

func TestComponentKeepsLocalRefs(t *testing.T) {
	m := NewMapper(components(), Options{})
	require.Equal(t,
		`{"properties":{"children":{"items":{"$ref":"#/$defs/Node"},"type":"array"}},"type":"object"}`,
		m.Component(&components()[1]))
}

func TestDeclarations(t *testing.T) {
	m := NewMapper(components(), Options{Runtime: "rt", Registry: "schemas"})

	decls := m.Declarations()
	require.Len(t, decls, 3)
	require.Equal(t, controller.Declaration{
		Name:   "schemasPet",
		Source: "const schemasPet = `{\"properties\":{\"name\":{\"type\":\"string\"}},\"required\":[\"name\"],\"type\":\"object\"}`",
	}, decls[0])
	require.Equal(t, "schemasNode", decls[1].Name)
	require.Equal(t, controller.Declaration{
		Name:   "schemas",
		Source: "var schemas = rt.NewRegistry(map[string]string{\n\"Pet\": schemasPet,\n\"Node\": schemasNode,\n})",
	}, decls[2])
}

func TestDeclarationsWithoutComponents(t *testing.T) {
	m := NewMapper(nil, Options{})
	require.Equal(t, []controller.Declaration{{
		Name:   "validators",
		Source: "var validators = router.NewRegistry(nil)",
	}}, m.Declarations())
}

func TestValidatorDeterministic(t *testing.T) {
	m := NewMapper(components(), Options{})
	s := &model.Schema{
		Type:     model.TypeObject,
		Required: []string{"b", "a"},
		Properties: []model.Property{
			{Name: "b", Schema: &model.Schema{Type: model.TypeString}},
			{Name: "a", Schema: &model.Schema{Type: model.TypeInteger}},
		},
	}

	first := m.Validator(s, false, "validators").Schema
	for range 10 {
		require.Equal(t, first, m.Validator(s, false, "validators").Schema)
	}
	require.Equal(t, `{"properties":{"a":{"type":"integer"},"b":{"type":"string"}},"required":["b","a"],"type":"object"}`, first)
}
