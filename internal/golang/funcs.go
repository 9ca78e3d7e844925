package golang

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/fatih/structtag"
	"github.com/kolah/ctrlgen/internal/controller"
	"github.com/kolah/ctrlgen/internal/model"
	"github.com/kolah/ctrlgen/internal/naming"
)

// TemplateFuncs returns the functions available to the Go templates.
// runtime is the package name of the router runtime in generated code.
func TemplateFuncs(runtime string) template.FuncMap {
	return template.FuncMap{
		"fieldType":  FieldType,
		"fieldTag":   FieldTag,
		"goComment":  GoComment,
		"goString":   GoString,
		"httpMethod": func(m model.Method) string {
			return HTTPMethod(string(m))
		},
		"bodyType": func(f controller.Field) string {
			return BodyType(f, runtime)
		},
		"validator": func(v controller.Validator, registry string) string {
			return ValidatorExpr(v, registry, runtime)
		},
		"runtime": func() string { return runtime },
		"lower":   strings.ToLower,
		"upper":   strings.ToUpper,
		"join":    strings.Join,
		"dict":    Dict,
	}
}

// FieldType renders the type of a group field. Optional fields whose type
// has no nil value become pointers and fields without a schema are any.
func FieldType(f controller.Field) string {
	expr := f.Type.Expr
	if expr == "" {
		return "any"
	}
	if f.Optional && !Nilable(expr) {
		return "*" + expr
	}
	return expr
}

// BodyType renders the body field. A body without content is the runtime's
// NoBody marker.
func BodyType(f controller.Field, runtime string) string {
	if f.Type.Absent {
		return runtime + ".NoBody"
	}
	return FieldType(f)
}

// Nilable reports whether a rendered type expression already has a nil value.
func Nilable(expr string) bool {
	switch expr {
	case "any", "json.RawMessage":
		return true
	}
	for _, prefix := range []string{"*", "[]", "map[", "func(", "chan ", "interface"} {
		if strings.HasPrefix(expr, prefix) {
			return true
		}
	}
	return false
}

// FieldTag renders the struct tag of a group field.
func FieldTag(f controller.Field) string {
	return StructTag(f.Name, !f.Optional)
}

// StructTag renders a json struct tag including its backquotes.
func StructTag(name string, required bool) string {
	tags, _ := structtag.Parse("")

	var opts []string
	if !required {
		opts = append(opts, "omitempty")
	}
	if err := tags.Set(&structtag.Tag{Key: "json", Name: name, Options: opts}); err != nil {
		return ""
	}
	return "`" + tags.String() + "`"
}

// HTTPMethod returns the net/http constant of a lower-case method.
func HTTPMethod(method string) string {
	return "http.Method" + naming.Capitalize(method)
}

// ValidatorExpr renders the runtime field validator of v. Typed validators
// are compiled by the registry variable, untyped ones accept any value.
func ValidatorExpr(v controller.Validator, registry, runtime string) string {
	if v.Untyped {
		return fmt.Sprintf("%s.AnyField(%q)", runtime, v.Name)
	}
	return fmt.Sprintf("%s.Field(%q, %s, %t)", registry, v.Name, GoString(v.Schema), v.Required)
}

// GoString renders s as a Go string literal, raw when possible.
func GoString(s string) string {
	if strings.ContainsAny(s, "`\r") || !strconv.CanBackquote(strings.ReplaceAll(s, "\n", "")) {
		return strconv.Quote(s)
	}
	return "`" + s + "`"
}

func GoComment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	var result strings.Builder
	for i, line := range lines {
		if i > 0 {
			result.WriteString("\n")
		}
		line = strings.TrimSpace(line)
		if line == "" {
			result.WriteString("//")
			continue
		}
		result.WriteString("// ")
		result.WriteString(line)
	}
	return result.String()
}

// Dict creates a map from key-value pairs for use in templates.
func Dict(values ...any) map[string]any {
	if len(values)%2 != 0 {
		return nil
	}
	dict := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			continue
		}
		dict[key] = values[i+1]
	}
	return dict
}
