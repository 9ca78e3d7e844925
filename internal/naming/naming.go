// Package naming derives the identifiers emitted for paths and operations.
//
// Every name is a pure function of the path template, the HTTP method and a
// fixed prefix or suffix, so regenerating from the same document always
// yields the same identifiers.
package naming

import (
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	RequestSuffix    = "Request"
	ContextSuffix    = "Context"
	ControllerSuffix = "Controller"

	// rootIdentifier stands in for paths without any named segment ("/").
	rootIdentifier = "Root"
)

var bracketReplacer = strings.NewReplacer("{", "", "}", "")

// PathIdentifier turns a path template into an identifier fragment:
// brackets are dropped, the path is split on "/", and every non-empty
// segment is PascalCased. Words split on case changes, so acronyms keep
// their boundary: "/pets/{petId}" becomes "PetsPetId" and "/APIKeys"
// becomes "ApiKeys".
func PathIdentifier(path string) string {
	var b strings.Builder
	for _, segment := range strings.Split(bracketReplacer.Replace(path), "/") {
		if segment == "" {
			continue
		}
		b.WriteString(strcase.ToCamel(strcase.ToSnake(segment)))
	}

	id := b.String()
	switch {
	case id == "":
		return rootIdentifier
	case unicode.IsDigit(rune(id[0])):
		return "X" + id
	}
	return id
}

// Capitalize upper-cases the first letter of an HTTP method and lower-cases
// the rest: "get" and "GET" both become "Get".
func Capitalize(method string) string {
	// A Caser is stateful and must not be shared.
	return cases.Title(language.Und).String(method)
}

// TypeName derives the name of a per-operation type, for instance
// TypeName("/pets/{petId}", "get", "Request") == "GetPetsPetIdRequest".
func TypeName(path, method, suffix string) string {
	return Capitalize(method) + PathIdentifier(path) + suffix
}

// ControllerName derives the controller name of a path.
func ControllerName(path string) string {
	return PathIdentifier(path) + ControllerSuffix
}

// HandlerName is the handler slot of method: "HandleGet".
func HandlerName(method string) string {
	return "Handle" + Capitalize(method)
}

// ValidatorName is the validation property of method: "ValidateGet".
func ValidatorName(method string) string {
	return "Validate" + Capitalize(method)
}

// ValidationTypeName is the struct holding the validation properties of a controller.
func ValidationTypeName(path string) string {
	return ControllerName(path) + "Validation"
}

// ValidationConstructorName builds the validation properties of a controller.
func ValidationConstructorName(path string) string {
	return "New" + ValidationTypeName(path)
}

// RouterConstructorName is the router-assembly function of a controller.
func RouterConstructorName(path string) string {
	return "New" + PathIdentifier(path) + "Router"
}
