// Package controllers renders controller documents into Go source.
package controllers

import (
	"fmt"

	"github.com/kolah/ctrlgen/internal/controller"
	"github.com/kolah/ctrlgen/internal/templates"
)

const templateName = "go/controllers.tmpl"

type Target struct {
	runtimeImport string
	typesImport   string
	typesPackage  string
}

type Option func(*Target)

// WithTypesImport imports the package holding the component types under pkg.
func WithTypesImport(path, pkg string) Option {
	return func(t *Target) {
		t.typesImport = path
		t.typesPackage = pkg
	}
}

func New(runtimeImport string, opts ...Option) *Target {
	t := &Target{runtimeImport: runtimeImport}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type templateData struct {
	*controller.Document
	Title         string
	RuntimeImport string
	TypesImport   string
	TypesPackage  string
}

func (t *Target) Generate(engine templates.Engine, doc *controller.Document, title string) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("no controller document")
	}

	data := templateData{
		Document:      doc,
		Title:         title,
		RuntimeImport: t.runtimeImport,
	}
	if t.typesImport != "" {
		withTypes := *doc
		withTypes.Imports = append(append([]string(nil), doc.Imports...), t.typesImport)
		data.Document = &withTypes
		data.TypesImport = t.typesImport
		data.TypesPackage = t.typesPackage
	}

	return engine.Execute(templateName, data)
}
