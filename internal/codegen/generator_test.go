package codegen

import (
	"encoding/base64"
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"testing"

	"github.com/kolah/ctrlgen/internal/config"
	"github.com/kolah/ctrlgen/internal/controller"
	"github.com/kolah/ctrlgen/internal/loader"
	"github.com/kolah/ctrlgen/internal/model"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

const petstore = `
openapi: 3.0.3
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets:
    get:
      summary: List pets
      parameters:
        - name: limit
          in: query
          description: Page size.
          schema:
            type: integer
            format: int32
        - name: X-Request-ID
          in: header
          schema:
            type: string
    post:
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Pet'
  /pets/{petId}:
    parameters:
      - name: petId
        in: path
        required: true
        schema:
          type: string
    get:
      deprecated: true
    delete: {}
components:
  schemas:
    Pet:
      type: object
      required: [id, name]
      properties:
        id:
          type: integer
          format: int64
        name:
          type: string
        born:
          type: string
          format: date-time
`

func loadDocument(t *testing.T, src string) *model.Document {
	t.Helper()
	result, err := loader.Load([]byte(src))
	require.NoError(t, err)
	doc, err := loader.Transform(result)
	require.NoError(t, err)
	return doc
}

func newGenerator(t *testing.T, mutate func(*config.Config)) (*Generator, *logrustest.Hook) {
	t.Helper()
	cfg := &config.Config{
		Spec: "petstore.yaml",
		Go: config.GoConfig{
			OutputDir:     "out",
			Package:       "petstore",
			RuntimeImport: controller.DefaultRuntimeImport,
			Targets:       []string{config.TargetControllers},
		},
	}
	if mutate != nil {
		mutate(cfg)
	}
	logger, hook := logrustest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	g, err := New(cfg, logger)
	require.NoError(t, err)
	return g, hook
}

// declarations parses src and returns its imports, its top-level
// identifiers and the names of its methods.
func declarations(t *testing.T, src string) (imports, names, methods []string) {
	t.Helper()
	file, err := parser.ParseFile(token.NewFileSet(), "controllers.go", src, parser.ParseComments)
	require.NoError(t, err)

	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		require.NoError(t, err)
		imports = append(imports, path)
	}
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv != nil {
				methods = append(methods, d.Name.Name)
				continue
			}
			names = append(names, d.Name.Name)
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					names = append(names, s.Name.Name)
				case *ast.ValueSpec:
					for _, n := range s.Names {
						names = append(names, n.Name)
					}
				}
			}
		}
	}
	sort.Strings(imports)
	sort.Strings(names)
	return imports, names, methods
}

func TestGenerateControllers(t *testing.T) {
	g, hook := newGenerator(t, nil)

	outputs, err := g.Generate(loadDocument(t, petstore), nil)
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	require.Equal(t, "controllers.go", outputs[0].Filename)

	src := outputs[0].Content
	imports, names, methods := declarations(t, src)

	require.Equal(t, []string{controller.DefaultRuntimeImport, "net/http", "time"}, imports)
	require.Equal(t, []string{
		"DeletePetsPetIdContext", "DeletePetsPetIdRequest",
		"GetPetsContext", "GetPetsPetIdContext", "GetPetsPetIdRequest", "GetPetsRequest",
		"NewPetsControllerValidation", "NewPetsPetIdControllerValidation",
		"NewPetsPetIdRouter", "NewPetsRouter",
		"Pet",
		"PetsController", "PetsControllerValidation",
		"PetsPetIdController", "PetsPetIdControllerValidation",
		"PostPetsContext", "PostPetsRequest",
		"validators", "validatorsPet",
	}, names)
	require.Equal(t, []string{"BindContext", "BindContext", "BindContext", "BindContext", "BindContext"}, methods)

	require.Contains(t, src, "// Code generated by ctrlgen. DO NOT EDIT.")
	require.Contains(t, src, "HandleGet(ctx *GetPetsContext)")
	require.Contains(t, src, "// List pets")
	require.Contains(t, src, "// Deprecated: this operation is deprecated.")
	require.Contains(t, src, "http.MethodDelete")
	require.Contains(t, src, "router.Handle(c.HandlePost)")
	require.Contains(t, src, `validators.Field("limit", `)
	require.Contains(t, src, `validators.Field("petId", `)
	require.Contains(t, src, `validators.Field("body", `)
	require.Regexp(t, `Body\s+router\.NoBody`, src)
	require.Regexp(t, `Body\s+Pet\n`, src)
	require.Contains(t, src, "router.NewRegistry(map[string]string{")

	var debug []string
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.DebugLevel {
			debug = append(debug, entry.Data["controller"].(string))
		}
	}
	require.Equal(t, []string{"PetsController", "PetsPetIdController"}, debug)
}

func TestGenerateDeterministic(t *testing.T) {
	g, _ := newGenerator(t, func(c *config.Config) {
		c.Go.Targets = []string{config.TargetControllers, config.TargetSpec}
	})
	doc := loadDocument(t, petstore)

	first, err := g.Generate(doc, []byte(petstore))
	require.NoError(t, err)
	second, err := g.Generate(doc, []byte(petstore))
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestGenerateEmptyDocument(t *testing.T) {
	g, _ := newGenerator(t, nil)

	outputs, err := g.Generate(loadDocument(t, "openapi: 3.0.3\ninfo:\n  title: Empty\n  version: \"1\"\npaths: {}\n"), nil)
	require.NoError(t, err)
	require.Len(t, outputs, 1)

	imports, names, methods := declarations(t, outputs[0].Content)
	require.Equal(t, []string{controller.DefaultRuntimeImport}, imports)
	require.Equal(t, []string{"validators"}, names)
	require.Empty(t, methods)
	require.Contains(t, outputs[0].Content, "router.NewRegistry(nil)")
}

func TestGenerateExternalTypes(t *testing.T) {
	g, _ := newGenerator(t, func(c *config.Config) {
		c.Go.Types = config.TypesConfig{Package: "api", Import: "example.com/petstore/api"}
	})

	outputs, err := g.Generate(loadDocument(t, petstore), nil)
	require.NoError(t, err)

	src := outputs[0].Content
	imports, names, _ := declarations(t, src)
	require.Contains(t, imports, "example.com/petstore/api")
	require.NotContains(t, names, "Pet")
	require.Regexp(t, `Body\s+api\.Pet\n`, src)
}

func TestGenerateCollision(t *testing.T) {
	const colliding = `
openapi: 3.0.3
info:
  title: Collide
  version: "1"
paths:
  /pets:
    get: {}
components:
  schemas:
    PetsController:
      type: string
`
	doc := loadDocument(t, colliding)

	g, _ := newGenerator(t, nil)
	_, err := g.Generate(doc, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, controller.ErrNameCollision))
	require.ErrorContains(t, err, "building controllers")

	var collision *controller.CollisionError
	require.ErrorAs(t, err, &collision)
	require.Equal(t, "PetsController", collision.Identifier)
}

func TestBuildWarnsOnDuplicateFields(t *testing.T) {
	const duplicated = `
openapi: 3.0.3
info:
  title: Dup
  version: "1"
paths:
  /users:
    get:
      parameters:
        - name: user_id
          in: query
          schema:
            type: string
        - name: userId
          in: query
          schema:
            type: string
`
	g, hook := newGenerator(t, nil)

	shapes, err := g.Build(loadDocument(t, duplicated))
	require.NoError(t, err)
	require.Len(t, shapes.Controllers[0].Operations[0].Query.Fields, 2)

	var warnings []*logrus.Entry
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warnings = append(warnings, entry)
		}
	}
	require.Len(t, warnings, 1)
	require.Equal(t, "UserID", warnings[0].Data["field"])
	require.Equal(t, "query", warnings[0].Data["group"])
}

func TestGenerateSpec(t *testing.T) {
	g, _ := newGenerator(t, func(c *config.Config) {
		c.Go.Targets = []string{config.TargetSpec}
	})

	outputs, err := g.Generate(nil, []byte(petstore))
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	require.Equal(t, "spec.go", outputs[0].Filename)

	src := outputs[0].Content
	imports, names, _ := declarations(t, src)
	require.Equal(t, []string{"encoding/base64", controller.DefaultRuntimeImport}, imports)
	require.Equal(t, []string{"GetSpec", "NewDocumentValidator", "specData"}, names)
	require.Contains(t, src, base64.StdEncoding.EncodeToString([]byte(petstore)))
}

func TestCustomTemplates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "go"), 0o755))
	custom := "package {{ .Package }}\n\n// Spec is replaced.\nconst Spec = {{ printf \"%q\" .SpecData }}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go", "spec.tmpl"), []byte(custom), 0o644))

	g, _ := newGenerator(t, func(c *config.Config) {
		c.Templates.Dir = dir
		c.Go.Targets = []string{config.TargetSpec}
	})

	outputs, err := g.Generate(nil, []byte("{}"))
	require.NoError(t, err)

	_, names, _ := declarations(t, outputs[0].Content)
	require.Equal(t, []string{"Spec"}, names)
}

func TestGenerateEnumConstantCollision(t *testing.T) {
	const colliding = `
openapi: 3.0.3
info:
  title: Enums
  version: "1"
paths: {}
components:
  schemas:
    Status:
      type: string
      enum: [active, retired]
    StatusActive:
      type: boolean
`
	g, _ := newGenerator(t, nil)
	_, err := g.Generate(loadDocument(t, colliding), nil)
	require.ErrorIs(t, err, controller.ErrNameCollision)
	require.ErrorContains(t, err, "identifier StatusActive is already declared by component schema StatusActive")
}

const textBodies = `
openapi: 3.0.3
info:
  title: Things
  version: "1"
paths:
  /things/{id}/sub-items:
    parameters:
      - name: id
        in: path
        required: true
        schema:
          type: integer
    post:
      parameters:
        - name: tags
          in: query
          schema:
            type: array
            items:
              type: string
        - name: X-Anything
          in: header
      requestBody:
        content:
          text/plain:
            schema:
              type: string
    put:
      requestBody:
        required: true
        content:
          application/octet-stream:
            schema:
              type: string
              format: byte
    patch:
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                note:
                  type: string
                  nullable: true
`

func TestGeneratedCodeCompiles(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not available")
	}

	tests := []struct {
		name     string
		document string
		mutate   func(*config.Config)
	}{
		{name: "petstore", document: petstore},
		{name: "text_bodies", document: textBodies},
		{
			name:     "path_first",
			document: petstore,
			mutate:   func(c *config.Config) { c.Go.ParameterOrder = "path-first" },
		},
		{
			name:     "empty",
			document: "openapi: 3.0.3\ninfo:\n  title: Empty\n  version: \"1\"\npaths: {}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDir, err := os.Getwd()
			require.NoError(t, err)

			outputPath := filepath.Join(testDir, "generated", tt.name)
			require.NoError(t, os.RemoveAll(outputPath))
			require.NoError(t, os.MkdirAll(outputPath, 0o755))
			t.Cleanup(func() { _ = os.RemoveAll(filepath.Join(testDir, "generated")) })

			g, _ := newGenerator(t, func(c *config.Config) {
				c.Go.Package = "gen"
				c.Go.Targets = []string{config.TargetControllers, config.TargetSpec}
				if tt.mutate != nil {
					tt.mutate(c)
				}
			})

			outputs, err := g.Generate(loadDocument(t, tt.document), []byte(tt.document))
			require.NoError(t, err)
			for _, o := range outputs {
				require.NoError(t, os.WriteFile(filepath.Join(outputPath, o.Filename), []byte(o.Content), 0o644))
			}

			cmd := exec.Command("go", "build", ".")
			cmd.Dir = outputPath
			output, err := cmd.CombinedOutput()
			require.NoError(t, err, "generated code failed to compile:\n%s", string(output))
		})
	}
}
