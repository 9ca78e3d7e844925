package router

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

const (
	schemaBase    = "https://ctrlgen.invalid/schemas/"
	componentsURL = schemaBase + "components.json"
	defsPrefix    = "#/$defs/"
)

// Field validates one value of a request. A Field without schema accepts
// any value.
type Field struct {
	Name     string
	Required bool

	schema   *jsonschema.Schema
	typ      string
	itemType string
}

// Fields validates the values of one parameter group.
type Fields []*Field

// ValidateConfig holds the validation rules of one route. Body is nil when
// the operation has no body schema.
type ValidateConfig struct {
	Body   *Field
	Params Fields
	Query  Fields
	Header Fields
}

// AnyField accepts any value of the named parameter.
func AnyField(name string) *Field {
	return &Field{Name: name}
}

// Registry compiles JSON Schema documents that may reference a shared set
// of component schemas.
type Registry struct {
	mu       sync.Mutex
	compiler *jsonschema.Compiler
	defs     map[string]any
	seq      int
}

// NewRegistry creates a registry over the given component schemas, keyed by
// component name. It panics if a component is not valid JSON; generated
// code only passes constants.
func NewRegistry(components map[string]string) *Registry {
	r := &Registry{
		compiler: jsonschema.NewCompiler(),
		defs:     make(map[string]any, len(components)),
	}
	for name, raw := range components {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
		if err != nil {
			panic(fmt.Sprintf("router: component %s: %v", name, err))
		}
		r.defs[name] = doc
	}
	if err := r.compiler.AddResource(componentsURL, map[string]any{"$defs": r.defs}); err != nil {
		panic(fmt.Sprintf("router: components: %v", err))
	}
	return r
}

// Field compiles schema into a Field. References of the form
// "components.json#/$defs/Name" resolve against the registry components.
// Like regexp.MustCompile, it panics if the schema does not compile.
func (r *Registry) Field(name, schema string, required bool) *Field {
	f, err := r.Compile(name, schema, required)
	if err != nil {
		panic(err)
	}
	return f
}

// Compile is Field returning the compilation error.
func (r *Registry) Compile(name, schema string, required bool) (*Field, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schema))
	if err != nil {
		return nil, fmt.Errorf("router: field %s: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	loc := fmt.Sprintf("%sfield-%d.json", schemaBase, r.seq)
	if err := r.compiler.AddResource(loc, doc); err != nil {
		return nil, fmt.Errorf("router: field %s: %w", name, err)
	}
	compiled, err := r.compiler.Compile(loc)
	if err != nil {
		return nil, fmt.Errorf("router: field %s: %w", name, err)
	}

	f := &Field{Name: name, Required: required, schema: compiled}
	if node := r.resolve(doc); node != nil {
		f.typ = typeOf(node["type"])
		if items := r.resolve(node["items"]); items != nil {
			f.itemType = typeOf(items["type"])
		}
	}
	return f, nil
}

// resolve follows component references until it reaches a schema object.
func (r *Registry) resolve(doc any) map[string]any {
	for range 8 {
		node, ok := doc.(map[string]any)
		if !ok {
			return nil
		}
		ref, ok := node["$ref"].(string)
		if !ok {
			return node
		}
		_, name, found := strings.Cut(ref, defsPrefix)
		if !found {
			return nil
		}
		doc = r.defs[name]
	}
	return nil
}

func typeOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		for _, member := range t {
			if s, ok := member.(string); ok && s != "null" {
				return s
			}
		}
	}
	return ""
}

func (f *Field) check(v any) error {
	if f.schema == nil {
		return nil
	}
	return f.schema.Validate(v)
}

// collect coerces, validates and stores one parameter, appending failures
// to errs.
func (f *Field) collect(errs []FieldError, in string, raw []string, into map[string]any) []FieldError {
	if len(raw) == 0 {
		if f.Required {
			return append(errs, FieldError{In: in, Name: f.Name, Message: "value is required"})
		}
		return errs
	}

	v, err := coerce(raw, f.typ, f.itemType)
	if err != nil {
		return append(errs, FieldError{In: in, Name: f.Name, Message: err.Error()})
	}
	if err := f.check(v); err != nil {
		return append(errs, FieldError{In: in, Name: f.Name, Message: "value does not match schema", Reason: err.Error()})
	}
	into[f.Name] = v
	return errs
}

func (c ValidateConfig) validate(req *Request) error {
	r := req.raw
	query := r.URL.Query()

	var errs []FieldError
	for _, f := range c.Params {
		errs = f.collect(errs, "params", pathValue(r, f.Name), req.values.Params)
	}
	for _, f := range c.Query {
		errs = f.collect(errs, "query", query[f.Name], req.values.Query)
	}
	for _, f := range c.Header {
		errs = f.collect(errs, "header", r.Header.Values(f.Name), req.values.Header)
	}
	if c.Body != nil {
		errs = c.validateBody(req, errs)
	}

	if len(errs) > 0 {
		return &ValidationError{
			StatusCode: http.StatusBadRequest,
			Message:    "request validation failed",
			Errors:     errs,
		}
	}
	return nil
}

func (c ValidateConfig) validateBody(req *Request, errs []FieldError) []FieldError {
	raw, err := req.RawBody()
	if err != nil {
		return append(errs, FieldError{In: "body", Message: "reading body failed", Reason: err.Error()})
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		if c.Body.Required {
			return append(errs, FieldError{In: "body", Message: "body is required"})
		}
		return errs
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		if c.Body.typ != "string" {
			return append(errs, FieldError{In: "body", Message: "body is not valid JSON", Reason: err.Error()})
		}
		doc = string(raw)
	}
	if err := c.Body.check(doc); err != nil {
		return append(errs, FieldError{In: "body", Message: "body does not match schema", Reason: err.Error()})
	}
	return errs
}

func pathValue(r *http.Request, name string) []string {
	v := chi.URLParam(r, name)
	if v == "" {
		return nil
	}
	if unescaped, err := url.PathUnescape(v); err == nil {
		v = unescaped
	}
	return []string{v}
}
