package router

import (
	"bytes"
	"io"
	"net/http"
	"reflect"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NoBody is the body type of operations without request content.
type NoBody struct{}

// Values holds the validated parameters of a request, keyed by their
// declared names.
type Values struct {
	Params map[string]any
	Query  map[string]any
	Header map[string]any
}

// Request is the base request capability every generated Request shape
// embeds.
type Request struct {
	raw    *http.Request
	values Values
	body   []byte
	read   bool
}

func newRequest(r *http.Request) *Request {
	return &Request{
		raw: r,
		values: Values{
			Params: map[string]any{},
			Query:  map[string]any{},
			Header: map[string]any{},
		},
	}
}

// HTTPRequest returns the underlying *http.Request.
func (r *Request) HTTPRequest() *http.Request {
	return r.raw
}

// Values returns the validated parameters.
func (r *Request) Values() Values {
	return r.values
}

// RawBody returns the request body. It is read once and kept.
func (r *Request) RawBody() ([]byte, error) {
	if r.read {
		return r.body, nil
	}
	r.read = true
	if r.raw.Body == nil || r.raw.Body == http.NoBody {
		return nil, nil
	}
	b, err := io.ReadAll(r.raw.Body)
	if err != nil {
		return nil, err
	}
	r.body = b
	r.raw.Body = io.NopCloser(bytes.NewReader(b))
	return b, nil
}

// Bind decodes the validated values into the given targets. Each target is
// a pointer to a group struct; nil targets are skipped. body may point at
// NoBody, a string, a byte slice or any JSON-decodable value.
func (r *Request) Bind(query, headers, header, params, body any) error {
	groups := []struct {
		name   string
		target any
		values map[string]any
	}{
		{"query", query, r.values.Query},
		{"headers", headers, r.values.Header},
		{"header", header, r.values.Header},
		{"params", params, r.values.Params},
	}
	for _, g := range groups {
		if isNil(g.target) {
			continue
		}
		if err := decode(g.values, g.target); err != nil {
			return &BindError{Group: g.name, Err: err}
		}
	}

	if isNil(body) {
		return nil
	}
	if err := r.bindBody(body); err != nil {
		return &BindError{Group: "body", Err: err}
	}
	return nil
}

func (r *Request) bindBody(target any) error {
	if _, ok := target.(*NoBody); ok {
		return nil
	}
	raw, err := r.RawBody()
	if err != nil || len(raw) == 0 {
		return err
	}

	switch t := target.(type) {
	case **[]byte:
		*t = &raw
		return nil
	case **string:
		if !json.Valid(raw) {
			text := string(raw)
			*t = &text
			return nil
		}
	case *[]byte:
		*t = raw
		return nil
	case *string:
		if !json.Valid(raw) {
			*t = string(raw)
			return nil
		}
	}
	return json.Unmarshal(raw, target)
}

func decode(values map[string]any, target any) error {
	if len(values) == 0 {
		return nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// Context is the base context capability every generated Context shape
// embeds.
type Context struct {
	request *Request
	writer  http.ResponseWriter
	router  *Router
	logger  logrus.FieldLogger
}

// Base returns the base request the context was created for.
func (c *Context) Base() *Request {
	return c.request
}

// HTTPRequest returns the underlying *http.Request.
func (c *Context) HTTPRequest() *http.Request {
	return c.request.raw
}

// Writer returns the response writer.
func (c *Context) Writer() http.ResponseWriter {
	return c.writer
}

// Logger returns a logger carrying the method and path of the request.
func (c *Context) Logger() logrus.FieldLogger {
	return c.logger
}

// JSON writes v as a JSON response.
func (c *Context) JSON(status int, v any) error {
	c.writer.Header().Set("Content-Type", "application/json")
	c.writer.WriteHeader(status)
	return json.NewEncoder(c.writer).Encode(v)
}

// Status writes a response without a body.
func (c *Context) Status(status int) {
	c.writer.WriteHeader(status)
}

// Error hands err to the router's error handler.
func (c *Context) Error(err error) {
	c.router.errorHandler(c.writer, c.request.raw, err)
}

// Binder is implemented by generated Context shapes.
type Binder interface {
	BindContext(base *Context) error
}

// Handle adapts a typed handler slot to a HandlerFunc. The generated
// Context shape is allocated and bound before h runs.
func Handle[T any, P interface {
	*T
	Binder
}](h func(P)) HandlerFunc {
	return func(base *Context) error {
		ctx := P(new(T))
		if err := ctx.BindContext(base); err != nil {
			return err
		}
		h(ctx)
		return nil
	}
}
