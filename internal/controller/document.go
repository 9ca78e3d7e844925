package controller

import (
	"fmt"

	"github.com/kolah/ctrlgen/internal/model"
)

// BuildDocument runs BuildController over every path in document order and
// prepends the imports and the aggregate blocks of both mappers.
func (b *Builder) BuildDocument(doc *model.Document) (*Document, error) {
	out := &Document{
		Package:           b.opts.Package,
		Imports:           []string{"net/http", b.opts.RuntimeImport},
		ValidatorRegistry: b.opts.ValidatorsRegistry,
	}

	overwrite := b.opts.OnCollision == OnCollisionOverwrite
	seen := make(map[string]string)
	if !overwrite {
		for _, name := range b.types.DeclaredNames() {
			if prev, ok := seen[name]; ok {
				return nil, &CollisionError{Identifier: name, Owner: prev}
			}
			seen[name] = "component schema " + name
		}
		if prev, ok := seen[b.opts.ValidatorsRegistry]; ok {
			return nil, &CollisionError{Identifier: b.opts.ValidatorsRegistry, Owner: prev}
		}
		seen[b.opts.ValidatorsRegistry] = "the validator registry"
	}

	if doc != nil {
		positions := make(map[string]int)
		for i := range doc.Paths {
			item := &doc.Paths[i]
			c := b.BuildController(item.Path, item)

			if overwrite {
				if at, ok := positions[c.Name]; ok {
					out.Controllers[at] = c
					continue
				}
			} else if err := claim(seen, c); err != nil {
				return nil, err
			}

			positions[c.Name] = len(out.Controllers)
			out.Controllers = append(out.Controllers, c)
		}
	}

	out.Types = b.types.Declarations()
	out.Validators = b.validators.Declarations()
	return out, nil
}

func claim(seen map[string]string, c Controller) error {
	owner := fmt.Sprintf("path %q", c.Path)
	ids := c.Identifiers()
	for _, id := range ids {
		if prev, ok := seen[id]; ok {
			return &CollisionError{Identifier: id, Path: c.Path, Owner: prev}
		}
	}
	for _, id := range ids {
		seen[id] = owner
	}
	return nil
}
