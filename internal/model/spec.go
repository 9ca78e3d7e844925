package model

import "strings"

// Document is the loaded API description. Paths and Schemas keep the order
// in which they appear in the source document.
type Document struct {
	Info    Info
	Paths   []PathItem
	Schemas []Schema
}

// OperationCount returns the number of declared operations across all paths.
func (d *Document) OperationCount() int {
	n := 0
	for _, p := range d.Paths {
		n += len(p.Operations)
	}
	return n
}

// RefName returns the last segment of a $ref.
func RefName(ref string) string {
	parts := strings.Split(ref, "/")
	return parts[len(parts)-1]
}

type Info struct {
	Title       string
	Description string
	Version     string
}

// PathItem is one entry of the document's paths mapping.
type PathItem struct {
	Path       string
	Parameters []Parameter
	Operations map[Method]*Operation
}

// Operation returns the operation declared for method, or nil.
func (p *PathItem) Operation(method Method) *Operation {
	if p.Operations == nil {
		return nil
	}
	return p.Operations[method]
}

// DeclaredMethods returns the declared methods of the path in the fixed
// emission order.
func (p *PathItem) DeclaredMethods() []Method {
	var methods []Method
	for _, m := range Methods {
		if p.Operation(m) != nil {
			methods = append(methods, m)
		}
	}
	return methods
}
