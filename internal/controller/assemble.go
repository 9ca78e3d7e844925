package controller

import (
	"github.com/kolah/ctrlgen/internal/model"
	"github.com/kolah/ctrlgen/internal/naming"
)

// BuildController aggregates the declared operations of one path in the
// fixed method order.
func (b *Builder) BuildController(path string, item *model.PathItem) Controller {
	c := Controller{
		Path:                  path,
		Name:                  naming.ControllerName(path),
		ValidationType:        naming.ValidationTypeName(path),
		ValidationConstructor: naming.ValidationConstructorName(path),
		RouterConstructor:     naming.RouterConstructorName(path),
	}
	if item == nil {
		return c
	}
	for _, method := range item.DeclaredMethods() {
		if op, ok := b.BuildOperation(path, method, item); ok {
			c.Operations = append(c.Operations, op)
		}
	}
	return c
}
