package controller

import "github.com/kolah/ctrlgen/internal/model"

// Declaration is one top-level block contributed by a mapper, already
// rendered as Go source.
type Declaration struct {
	Name   string
	Source string
}

// TypeMapper converts schema nodes into Go type expressions.
type TypeMapper interface {
	// TypeLiteral renders s as an inline type expression.
	TypeLiteral(s *model.Schema) string
	// TypeLiteralIn renders s, referring to named component types through
	// registry (a package qualifier) when registry is not empty.
	TypeLiteralIn(s *model.Schema, registry string) string
	// Declarations returns the aggregate type declarations, one per
	// component schema, in document order.
	Declarations() []Declaration
	// DeclaredNames lists the identifiers Declarations introduces.
	DeclaredNames() []string
}

// ValidatorMapper converts schema nodes into runtime validator descriptors.
type ValidatorMapper interface {
	Validator(s *model.Schema, required bool, registry string) Validator
	Declarations() []Declaration
}
