package controller

import "github.com/kolah/ctrlgen/internal/model"

// Group names, in the order they appear on a Request shape.
const (
	GroupQuery   = "query"
	GroupHeaders = "headers"
	GroupHeader  = "header"
	GroupParams  = "params"
	FieldBody    = "body"
)

// TypeExpr is a rendered Go type expression. An empty Expr is untyped.
type TypeExpr struct {
	Expr string
	// Absent marks a body that carries no content.
	Absent bool
}

// Untyped reports whether the expression has no mapped type.
func (t TypeExpr) Untyped() bool {
	return !t.Absent && t.Expr == ""
}

// Field is one member of a group literal.
type Field struct {
	// Name is the wire name of the parameter.
	Name     string
	GoName   string
	Type     TypeExpr
	Optional bool
	Doc      string
}

// Group is a structural type literal built from the parameters of one location.
type Group struct {
	Name   string
	Fields []Field
}

// Validator describes the runtime validation of a single value.
type Validator struct {
	Name string
	// Schema is the JSON Schema text the value is checked against.
	Schema   string
	Required bool
	// Untyped validators accept any value.
	Untyped bool
}

// ValidatorGroup is the validator counterpart of a Group.
type ValidatorGroup struct {
	Name   string
	Fields []Validator
}

// ValidationBundle holds the validation rules of one operation. Body is nil
// when the operation has no body schema.
type ValidationBundle struct {
	Body   *Validator
	Params ValidatorGroup
	Query  ValidatorGroup
	Header ValidatorGroup
}

// Operation is the shape of one (path, method) pair.
type Operation struct {
	Path          string
	Method        model.Method
	RequestType   string
	ContextType   string
	HandlerName   string
	ValidatorName string

	Summary     string
	Description string
	Deprecated  bool

	Query   Group
	Headers Group
	Header  Group
	Params  Group
	Body    Field

	BodyMediaType string
	Validation    ValidationBundle
}

// Groups returns the parameter groups in Request field order.
func (o Operation) Groups() []Group {
	return []Group{o.Query, o.Headers, o.Header, o.Params}
}

// Controller aggregates the operations declared on one path.
type Controller struct {
	Path                  string
	Name                  string
	ValidationType        string
	ValidationConstructor string
	RouterConstructor     string
	Operations            []Operation
}

// Identifiers lists every top-level Go identifier the controller declares.
func (c Controller) Identifiers() []string {
	ids := make([]string, 0, 4+2*len(c.Operations))
	for _, op := range c.Operations {
		ids = append(ids, op.RequestType, op.ContextType)
	}
	return append(ids, c.Name, c.ValidationType, c.ValidationConstructor, c.RouterConstructor)
}

// Document is everything emitted into one generated Go package.
type Document struct {
	Package           string
	Imports           []string
	Types             []Declaration
	Validators        []Declaration
	ValidatorRegistry string
	Controllers       []Controller
}
