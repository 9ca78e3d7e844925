// Package codegen drives the Go targets: it maps a loaded document onto
// controller descriptors, renders them and formats the result.
package codegen

import (
	"fmt"

	"github.com/kolah/ctrlgen/internal/config"
	"github.com/kolah/ctrlgen/internal/controller"
	"github.com/kolah/ctrlgen/internal/golang"
	"github.com/kolah/ctrlgen/internal/jsonschema"
	"github.com/kolah/ctrlgen/internal/model"
	"github.com/kolah/ctrlgen/internal/naming"
	controllerstarget "github.com/kolah/ctrlgen/internal/targets/controllers"
	spectarget "github.com/kolah/ctrlgen/internal/targets/spec"
	"github.com/kolah/ctrlgen/internal/templates"
	embeddedtmpl "github.com/kolah/ctrlgen/templates"
	"github.com/sirupsen/logrus"
)

// runtimeName is the package name the router runtime is imported under.
const runtimeName = "router"

type Generator struct {
	config *config.Config
	engine templates.Engine
	logger logrus.FieldLogger
}

type Output struct {
	Filename string
	Content  string
}

func New(cfg *config.Config, logger logrus.FieldLogger) (*Generator, error) {
	if len(cfg.Go.OutputOptions.AdditionalInitialisms) > 0 {
		naming.SetAdditionalInitialisms(cfg.Go.OutputOptions.AdditionalInitialisms)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	engine, err := templates.NewEngine(embeddedtmpl.FS, cfg.Templates.Dir, golang.TemplateFuncs(runtimeName))
	if err != nil {
		return nil, fmt.Errorf("creating template engine: %w", err)
	}

	return &Generator{
		config: cfg,
		engine: engine,
		logger: logger,
	}, nil
}

// Build maps doc onto controller descriptors with the configured mappers.
func (g *Generator) Build(doc *model.Document) (*controller.Document, error) {
	var schemas []model.Schema
	if doc != nil {
		schemas = doc.Schemas
	}

	types := golang.NewTypeMapper(schemas, golang.TypeMapperOptions{Qualifier: g.config.Go.Types.Package})
	validators := jsonschema.NewMapper(schemas, jsonschema.Options{
		Runtime:  runtimeName,
		Registry: g.config.Go.SchemasRegistry,
	})

	builder, err := controller.New(types, validators, g.config.BuilderOptions())
	if err != nil {
		return nil, err
	}

	shapes, err := builder.BuildDocument(doc)
	if err != nil {
		return nil, err
	}

	for _, c := range shapes.Controllers {
		g.logger.WithFields(logrus.Fields{
			"path":       c.Path,
			"controller": c.Name,
			"operations": len(c.Operations),
		}).Debug("assembled controller")
		g.warnDuplicateFields(c)
	}

	return shapes, nil
}

// warnDuplicateFields reports parameters that map to the same Go field of a
// group. They are kept, so the generated package will not compile.
func (g *Generator) warnDuplicateFields(c controller.Controller) {
	for _, op := range c.Operations {
		for _, group := range op.Groups() {
			seen := make(map[string]bool, len(group.Fields))
			for _, f := range group.Fields {
				if seen[f.GoName] {
					g.logger.WithFields(logrus.Fields{
						"path":   op.Path,
						"method": op.Method,
						"group":  group.Name,
						"field":  f.GoName,
					}).Warn("duplicate parameter field")
					continue
				}
				seen[f.GoName] = true
			}
		}
	}
}

func (g *Generator) Generate(doc *model.Document, specData []byte) ([]Output, error) {
	var outputs []Output

	if g.config.HasTarget(config.TargetControllers) {
		shapes, err := g.Build(doc)
		if err != nil {
			return nil, fmt.Errorf("building controllers: %w", err)
		}

		var opts []controllerstarget.Option
		if g.config.Go.Types.Import != "" {
			opts = append(opts, controllerstarget.WithTypesImport(g.config.Go.Types.Import, g.config.Go.Types.Package))
		}
		target := controllerstarget.New(g.config.Go.RuntimeImport, opts...)

		var title string
		if doc != nil {
			title = doc.Info.Title
		}
		content, err := target.Generate(g.engine, shapes, title)
		if err != nil {
			return nil, fmt.Errorf("generating controllers: %w", err)
		}
		formatted, err := golang.Format("controllers.go", []byte(content))
		if err != nil {
			return nil, fmt.Errorf("formatting controllers: %w", err)
		}
		outputs = append(outputs, Output{
			Filename: "controllers.go",
			Content:  string(formatted),
		})
	}

	if g.config.HasTarget(config.TargetSpec) {
		target := spectarget.New(runtimeName, g.config.Go.RuntimeImport)
		content, err := target.Generate(g.engine, specData, g.config.Go.Package)
		if err != nil {
			return nil, fmt.Errorf("generating spec: %w", err)
		}
		formatted, err := golang.Format("spec.go", []byte(content))
		if err != nil {
			return nil, fmt.Errorf("formatting spec: %w", err)
		}
		outputs = append(outputs, Output{
			Filename: "spec.go",
			Content:  string(formatted),
		})
	}

	return outputs, nil
}
