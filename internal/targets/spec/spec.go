// Package spec embeds the source document into the generated package.
package spec

import (
	"encoding/base64"

	"github.com/kolah/ctrlgen/internal/templates"
)

type Target struct {
	runtime       string
	runtimeImport string
}

func New(runtime, runtimeImport string) *Target {
	return &Target{runtime: runtime, runtimeImport: runtimeImport}
}

type templateData struct {
	Package       string
	SpecData      string
	Runtime       string
	RuntimeImport string
}

func (t *Target) Generate(engine templates.Engine, specData []byte, pkg string) (string, error) {
	data := templateData{
		Package:       pkg,
		SpecData:      base64.StdEncoding.EncodeToString(specData),
		Runtime:       t.runtime,
		RuntimeImport: t.runtimeImport,
	}

	return engine.Execute("go/spec.tmpl", data)
}
