package loader

import (
	"fmt"
	"strings"

	"github.com/kolah/ctrlgen/internal/model"
	"github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"github.com/pb33f/libopenapi/orderedmap"
	"go.yaml.in/yaml/v4"
)

const extensionPrefix = "x-ctrlgen-"

type transformer struct {
	componentSchemas map[*base.Schema]string
	warnings         []string
}

// Transform converts the libopenapi model into the generator's document
// model. Parameters in locations the generator does not model (cookie,
// querystring) are dropped and reported through result.Warnings.
func Transform(result *Result) (*model.Document, error) {
	if result == nil || result.Document == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	doc := result.Document.Model

	t := &transformer{
		componentSchemas: make(map[*base.Schema]string),
	}

	if doc.Components != nil && doc.Components.Schemas != nil {
		for name, schemaProxy := range doc.Components.Schemas.FromOldest() {
			t.componentSchemas[schemaProxy.Schema()] = "#/components/schemas/" + name
		}
	}

	out := &model.Document{
		Info: transformInfo(doc.Info),
	}

	if doc.Components != nil && doc.Components.Schemas != nil {
		for name, schemaProxy := range doc.Components.Schemas.FromOldest() {
			if schema := t.transformSchema(name, schemaProxy.Schema()); schema != nil {
				out.Schemas = append(out.Schemas, *schema)
			}
		}
	}

	if doc.Paths != nil && doc.Paths.PathItems != nil {
		for pathStr, pathItem := range doc.Paths.PathItems.FromOldest() {
			out.Paths = append(out.Paths, t.transformPath(pathStr, pathItem))
		}
	}

	result.Warnings = append(result.Warnings, t.warnings...)
	return out, nil
}

func transformInfo(info *base.Info) model.Info {
	if info == nil {
		return model.Info{}
	}
	return model.Info{
		Title:       info.Title,
		Description: info.Description,
		Version:     info.Version,
	}
}

func (t *transformer) transformPath(pathStr string, pathItem *v3.PathItem) model.PathItem {
	path := model.PathItem{
		Path:       pathStr,
		Operations: make(map[model.Method]*model.Operation),
	}
	if pathItem == nil {
		return path
	}

	path.Parameters = t.transformParameters(pathStr, "", pathItem.Parameters)

	ops := map[model.Method]*v3.Operation{
		model.MethodGet:     pathItem.Get,
		model.MethodPut:     pathItem.Put,
		model.MethodPost:    pathItem.Post,
		model.MethodDelete:  pathItem.Delete,
		model.MethodOptions: pathItem.Options,
		model.MethodHead:    pathItem.Head,
		model.MethodPatch:   pathItem.Patch,
		model.MethodTrace:   pathItem.Trace,
	}
	for _, method := range model.Methods {
		op := ops[method]
		if op == nil {
			continue
		}
		path.Operations[method] = t.transformOperation(pathStr, method, op)
	}

	return path
}

func (t *transformer) transformOperation(path string, method model.Method, op *v3.Operation) *model.Operation {
	operation := &model.Operation{
		ID:          op.OperationId,
		Summary:     op.Summary,
		Description: op.Description,
		Tags:        op.Tags,
		Deprecated:  boolPtr(op.Deprecated),
		Parameters:  t.transformParameters(path, method, op.Parameters),
	}

	if op.RequestBody != nil {
		operation.RequestBody = t.transformRequestBody(op.RequestBody)
	}

	return operation
}

func (t *transformer) transformParameters(path string, method model.Method, params []*v3.Parameter) []model.Parameter {
	var result []model.Parameter
	for _, p := range params {
		if p == nil {
			continue
		}
		in := model.ParameterLocation(strings.ToLower(p.In))
		switch in {
		case model.LocationPath, model.LocationQuery, model.LocationHeader:
		default:
			scope := path
			if method != "" {
				scope = strings.ToUpper(string(method)) + " " + path
			}
			t.warnings = append(t.warnings, fmt.Sprintf("%s: parameter %q in %s is not supported, skipped", scope, p.Name, p.In))
			continue
		}
		result = append(result, t.transformParameter(in, p))
	}
	return result
}

func (t *transformer) transformParameter(in model.ParameterLocation, p *v3.Parameter) model.Parameter {
	param := model.Parameter{
		Name:        p.Name,
		In:          in,
		Description: p.Description,
		Required:    boolPtr(p.Required),
		Deprecated:  p.Deprecated,
	}

	if p.Schema != nil {
		param.Schema = t.transformSchemaProxy(p.Schema)
	} else if p.Content != nil {
		for _, content := range p.Content.FromOldest() {
			if content.Schema != nil {
				param.Schema = t.transformSchemaProxy(content.Schema)
				break
			}
		}
	}

	return param
}

func (t *transformer) transformRequestBody(rb *v3.RequestBody) *model.RequestBody {
	body := &model.RequestBody{
		Description: rb.Description,
		Required:    boolPtr(rb.Required),
	}

	if rb.Content != nil {
		for mediaType, content := range rb.Content.FromOldest() {
			mtc := model.MediaTypeContent{MediaType: mediaType}
			if content != nil && content.Schema != nil {
				mtc.Schema = t.transformSchemaProxy(content.Schema)
			}
			body.Content = append(body.Content, mtc)
		}
	}

	return body
}

func (t *transformer) transformSchemaProxy(proxy *base.SchemaProxy) *model.Schema {
	if proxy == nil {
		return nil
	}

	ref := proxy.GetReference()
	if ref == "" {
		if resolved, ok := t.componentSchemas[proxy.Schema()]; ok {
			return &model.Schema{Ref: resolved}
		}
	}
	if ref != "" {
		// The core never resolves references; only the name is carried.
		return &model.Schema{Ref: ref}
	}

	return t.transformSchema("", proxy.Schema())
}

func (t *transformer) transformSchema(name string, s *base.Schema) *model.Schema {
	if s == nil {
		return nil
	}

	schema := &model.Schema{
		Name:        name,
		Description: s.Description,
		Format:      s.Format,
		Nullable:    boolPtr(s.Nullable),
		Deprecated:  boolPtr(s.Deprecated),
		Pattern:     s.Pattern,
		UniqueItems: boolPtr(s.UniqueItems),
	}

	if s.Default != nil {
		schema.Default = nodeValue(s.Default)
	}

	for _, typ := range s.Type {
		// OpenAPI 3.1 expresses nullability as a "null" member of the type list.
		if typ == string(model.TypeNull) {
			schema.Nullable = true
			continue
		}
		if schema.Type == "" {
			schema.Type = model.SchemaType(typ)
		}
	}

	for _, e := range s.Enum {
		if e != nil {
			schema.Enum = append(schema.Enum, nodeValue(e))
		}
	}

	if s.Properties != nil {
		for propName, propProxy := range s.Properties.FromOldest() {
			propSchema := t.transformSchemaProxy(propProxy)
			if propSchema != nil && propSchema.Name == "" {
				propSchema.Name = propName
			}
			schema.Properties = append(schema.Properties, model.Property{
				Name:   propName,
				Schema: propSchema,
			})
		}
	}

	schema.Required = s.Required

	if s.Items != nil && s.Items.IsA() {
		schema.Items = t.transformSchemaProxy(s.Items.A)
	}

	if s.AdditionalProperties != nil && s.AdditionalProperties.IsA() {
		schema.AdditionalProperties = t.transformSchemaProxy(s.AdditionalProperties.A)
	}

	for _, proxy := range s.AllOf {
		schema.AllOf = append(schema.AllOf, t.transformSchemaProxy(proxy))
	}
	for _, proxy := range s.OneOf {
		schema.OneOf = append(schema.OneOf, t.transformSchemaProxy(proxy))
	}
	for _, proxy := range s.AnyOf {
		schema.AnyOf = append(schema.AnyOf, t.transformSchemaProxy(proxy))
	}

	if s.Minimum != nil {
		v := float64(*s.Minimum)
		schema.Minimum = &v
	}
	if s.Maximum != nil {
		v := float64(*s.Maximum)
		schema.Maximum = &v
	}
	if s.MinLength != nil {
		v := int64(*s.MinLength)
		schema.MinLength = &v
	}
	if s.MaxLength != nil {
		v := int64(*s.MaxLength)
		schema.MaxLength = &v
	}
	if s.MinItems != nil {
		v := int64(*s.MinItems)
		schema.MinItems = &v
	}
	if s.MaxItems != nil {
		v := int64(*s.MaxItems)
		schema.MaxItems = &v
	}

	if s.ExclusiveMinimum != nil && s.ExclusiveMinimum.IsA() {
		schema.ExclusiveMinimum = s.ExclusiveMinimum.A
	}
	if s.ExclusiveMaximum != nil && s.ExclusiveMaximum.IsA() {
		schema.ExclusiveMaximum = s.ExclusiveMaximum.A
	}

	schema.Extensions = parseExtensions(s.Extensions)

	return schema
}

// nodeValue decodes a YAML node into a plain Go value. Undecodable nodes
// fall back to their scalar text.
func nodeValue(node *yaml.Node) any {
	var v any
	if err := node.Decode(&v); err != nil {
		return node.Value
	}
	return v
}

func parseExtensions(extensions *orderedmap.Map[string, *yaml.Node]) *model.SchemaExtensions {
	if extensions == nil {
		return nil
	}

	var ext *model.SchemaExtensions

	for pair := extensions.First(); pair != nil; pair = pair.Next() {
		key := pair.Key()
		node := pair.Value()

		if !strings.HasPrefix(key, extensionPrefix) || node == nil || node.Kind != yaml.ScalarNode {
			continue
		}

		if ext == nil {
			ext = &model.SchemaExtensions{}
		}

		switch strings.TrimPrefix(key, extensionPrefix) {
		case "go-type":
			ext.GoType = node.Value
		case "go-name":
			ext.GoName = node.Value
		}
	}

	return ext
}

func boolPtr(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}
