package controller

import (
	"github.com/kolah/ctrlgen/internal/model"
	"github.com/kolah/ctrlgen/internal/naming"
)

// BuildOperation derives the shape of method on item. It reports false when
// item does not declare method.
func (b *Builder) BuildOperation(path string, method model.Method, item *model.PathItem) (Operation, bool) {
	if item == nil {
		return Operation{}, false
	}
	op := item.Operation(method)
	if op == nil {
		return Operation{}, false
	}

	m := string(method)
	shape := Operation{
		Path:          path,
		Method:        method,
		RequestType:   naming.TypeName(path, m, naming.RequestSuffix),
		ContextType:   naming.TypeName(path, m, naming.ContextSuffix),
		HandlerName:   naming.HandlerName(m),
		ValidatorName: naming.ValidatorName(m),
		Summary:       op.Summary,
		Description:   op.Description,
		Deprecated:    op.Deprecated,
	}

	pathFirst := MergeParameters(item.Parameters, op.Parameters)
	static := MergeParameters(op.Parameters, item.Parameters)
	if b.opts.ParameterOrder == OrderPathFirst {
		static = pathFirst
	}

	shape.Query = b.group(GroupQuery, static, model.LocationQuery, false)
	shape.Headers = b.group(GroupHeaders, static, model.LocationHeader, false)
	shape.Header = b.group(GroupHeader, static, model.LocationHeader, false)
	shape.Params = b.group(GroupParams, static, model.LocationPath, true)
	shape.Body, shape.BodyMediaType = b.body(op.RequestBody)
	shape.Validation = b.validation(pathFirst, op.RequestBody)

	return shape, true
}

// group builds the literal for one location. Only path parameters honor
// their required flag; every other field is optional.
func (b *Builder) group(name string, params []model.Parameter, in model.ParameterLocation, honorRequired bool) Group {
	g := Group{Name: name}
	for _, p := range byLocation(params, in) {
		f := Field{
			Name:     p.Name,
			GoName:   naming.FieldName(p.Name),
			Optional: !honorRequired || !p.Required,
			Doc:      p.Description,
		}
		if p.Schema != nil {
			f.Type = TypeExpr{Expr: b.types.TypeLiteral(p.Schema)}
		}
		g.Fields = append(g.Fields, f)
	}
	return g
}

func (b *Builder) body(rb *model.RequestBody) (Field, string) {
	body := Field{
		Name:     FieldBody,
		GoName:   "Body",
		Type:     TypeExpr{Absent: true},
		Optional: rb != nil && !rb.Required,
	}
	if rb != nil {
		body.Doc = rb.Description
	}

	media, ok := firstMedia(rb)
	if !ok {
		return body, ""
	}
	body.Type = TypeExpr{Expr: b.types.TypeLiteralIn(media.Schema, b.opts.TypesRegistry)}
	return body, media.MediaType
}

func (b *Builder) validation(params []model.Parameter, rb *model.RequestBody) ValidationBundle {
	var bundle ValidationBundle
	if media, ok := firstMedia(rb); ok {
		v := b.validators.Validator(media.Schema, false, b.opts.ValidatorsRegistry)
		v.Name = FieldBody
		bundle.Body = &v
	}

	bundle.Params = b.validatorGroup(GroupParams, params, model.LocationPath)
	bundle.Query = b.validatorGroup(GroupQuery, params, model.LocationQuery)
	bundle.Header = b.validatorGroup(GroupHeader, params, model.LocationHeader)
	return bundle
}

func (b *Builder) validatorGroup(name string, params []model.Parameter, in model.ParameterLocation) ValidatorGroup {
	g := ValidatorGroup{Name: name}
	for _, p := range byLocation(params, in) {
		v := Validator{Untyped: true}
		if p.Schema != nil {
			v = b.validators.Validator(p.Schema, false, b.opts.ValidatorsRegistry)
		}
		v.Name = p.Name
		g.Fields = append(g.Fields, v)
	}
	return g
}

// firstMedia returns the first content entry of rb when it carries a schema.
// Later entries are never consulted.
func firstMedia(rb *model.RequestBody) (model.MediaTypeContent, bool) {
	if rb == nil || len(rb.Content) == 0 {
		return model.MediaTypeContent{}, false
	}
	media := rb.Content[0]
	return media, media.Schema != nil
}
