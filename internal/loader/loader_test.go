package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kolah/ctrlgen/internal/model"
	"github.com/stretchr/testify/require"
)

const document = `
openapi: 3.1.0
info:
  title: Zoo
  version: 2.0.0
paths:
  /zebras:
    post:
      operationId: createZebra
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Zebra'
          text/plain:
            schema:
              type: string
  /animals/{id}:
    parameters:
      - name: id
        in: path
        required: true
        schema:
          type: integer
    trace: {}
    get:
      parameters:
        - name: session
          in: cookie
          schema:
            type: string
        - name: fields
          in: query
          schema:
            type: array
            items:
              type: string
components:
  schemas:
    Zebra:
      type: object
      required: [stripes]
      properties:
        stripes:
          type: integer
          minimum: 1
        nickname:
          type: [string, "null"]
        lifespan:
          type: string
          x-ctrlgen-go-type: time.Duration
          x-ctrlgen-go-name: Lifetime
    Animal:
      oneOf:
        - $ref: '#/components/schemas/Zebra'
`

func TestTransform(t *testing.T) {
	result, err := Load([]byte(document))
	require.NoError(t, err)
	require.Equal(t, "3.1.0", result.Version)

	doc, err := Transform(result)
	require.NoError(t, err)

	require.Equal(t, model.Info{Title: "Zoo", Version: "2.0.0"}, doc.Info)
	require.Equal(t, 3, doc.OperationCount())

	// Paths and component schemas keep document order.
	require.Equal(t, "/zebras", doc.Paths[0].Path)
	require.Equal(t, "/animals/{id}", doc.Paths[1].Path)
	require.Equal(t, "Zebra", doc.Schemas[0].Name)
	require.Equal(t, "Animal", doc.Schemas[1].Name)

	post := doc.Paths[0].Operation(model.MethodPost)
	require.NotNil(t, post)
	require.Equal(t, "createZebra", post.ID)
	require.True(t, post.RequestBody.Required)
	require.Len(t, post.RequestBody.Content, 2)
	require.Equal(t, "application/json", post.RequestBody.Content[0].MediaType)
	require.Equal(t, "#/components/schemas/Zebra", post.RequestBody.Content[0].Schema.Ref)

	animals := doc.Paths[1]
	require.Equal(t, []model.Method{model.MethodGet, model.MethodTrace}, animals.DeclaredMethods())
	require.Len(t, animals.Parameters, 1)
	require.Equal(t, model.LocationPath, animals.Parameters[0].In)
	require.True(t, animals.Parameters[0].Required)

	get := animals.Operation(model.MethodGet)
	require.Len(t, get.Parameters, 1)
	require.Equal(t, "fields", get.Parameters[0].Name)
	require.Equal(t, model.TypeArray, get.Parameters[0].Schema.Type)
	require.Equal(t, model.TypeString, get.Parameters[0].Schema.Items.Type)

	require.Equal(t, []string{`GET /animals/{id}: parameter "session" in cookie is not supported, skipped`}, result.Warnings)
}

func TestTransformSchemas(t *testing.T) {
	result, err := Load([]byte(document))
	require.NoError(t, err)
	doc, err := Transform(result)
	require.NoError(t, err)

	zebra := doc.Schemas[0]
	require.Equal(t, []string{"stripes"}, zebra.Required)
	require.Len(t, zebra.Properties, 3)

	stripes := zebra.Properties[0].Schema
	require.Equal(t, model.TypeInteger, stripes.Type)
	require.NotNil(t, stripes.Minimum)
	require.Equal(t, 1.0, *stripes.Minimum)

	nickname := zebra.Properties[1].Schema
	require.Equal(t, model.TypeString, nickname.Type)
	require.True(t, nickname.Nullable)

	lifespan := zebra.Properties[2].Schema
	require.Equal(t, &model.SchemaExtensions{GoType: "time.Duration", GoName: "Lifetime"}, lifespan.Extensions)

	animal := doc.Schemas[1]
	require.Equal(t, "Animal", animal.Name)
	require.Len(t, animal.OneOf, 1)
	require.Equal(t, "#/components/schemas/Zebra", animal.OneOf[0].Ref)

	require.Equal(t, "Zebra", model.RefName(animal.OneOf[0].Ref))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load([]byte("swagger: \"2.0\"\ninfo:\n  title: Old\n  version: \"1\"\npaths: {}\n"))
	require.ErrorContains(t, err, "unsupported OpenAPI version")

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "reading spec file")

	_, err = Transform(nil)
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zoo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(document), 0o644))

	result, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte(document), result.RawData)
}
