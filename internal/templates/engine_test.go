package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"text/template"

	"github.com/stretchr/testify/require"
)

var testFuncs = template.FuncMap{"upper": strings.ToUpper}

func TestEngineExecute(t *testing.T) {
	embedded := fstest.MapFS{
		"go/hello.tmpl": {Data: []byte(`hello {{ upper .Name }}`)},
		"go/README.md":  {Data: []byte(`not a template`)},
	}

	e, err := NewEngine(embedded, "", testFuncs)
	require.NoError(t, err)

	out, err := e.Execute("go/hello.tmpl", map[string]string{"Name": "pets"})
	require.NoError(t, err)
	require.Equal(t, "hello PETS", out)

	_, err = e.Execute("go/README.md", nil)
	require.ErrorContains(t, err, "template not found")
}

func TestEngineCustomDirOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "go"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go", "hello.tmpl"), []byte(`custom {{ .Name }}`), 0o644))

	embedded := fstest.MapFS{
		"go/hello.tmpl": {Data: []byte(`hello {{ .Name }}`)},
		"go/other.tmpl": {Data: []byte(`other`)},
	}

	e, err := NewEngine(embedded, dir, testFuncs)
	require.NoError(t, err)

	out, err := e.Execute("go/hello.tmpl", map[string]string{"Name": "pets"})
	require.NoError(t, err)
	require.Equal(t, "custom pets", out)

	out, err = e.Execute("go/other.tmpl", nil)
	require.NoError(t, err)
	require.Equal(t, "other", out)
}

func TestEngineMissingCustomDir(t *testing.T) {
	_, err := NewEngine(fstest.MapFS{}, filepath.Join(t.TempDir(), "missing"), testFuncs)
	require.NoError(t, err)
}

func TestEngineErrors(t *testing.T) {
	_, err := NewEngine(fstest.MapFS{
		"go/broken.tmpl": {Data: []byte(`{{ .Name `)},
	}, "", testFuncs)
	require.ErrorContains(t, err, "parsing embedded template go/broken.tmpl")

	e, err := NewEngine(fstest.MapFS{
		"go/fails.tmpl": {Data: []byte(`{{ template "go/missing.tmpl" }}`)},
	}, "", testFuncs)
	require.NoError(t, err)
	_, err = e.Execute("go/fails.tmpl", nil)
	require.ErrorContains(t, err, "executing template go/fails.tmpl")
}
