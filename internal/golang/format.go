package golang

import (
	"fmt"

	"golang.org/x/tools/imports"
)

// Format runs gofmt and goimports over generated source. filename only
// serves error messages and import grouping.
func Format(filename string, src []byte) ([]byte, error) {
	out, err := imports.Process(filename, src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: false,
	})
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", filename, err)
	}
	return out, nil
}
