package controller

import "fmt"

// ParameterOrder selects the merge order of path-level and operation-level
// parameters.
type ParameterOrder string

const (
	// OrderSource merges operation parameters first for the static groups
	// and path parameters first for the validator groups.
	OrderSource ParameterOrder = "source"
	// OrderPathFirst merges path parameters first everywhere.
	OrderPathFirst ParameterOrder = "path-first"
)

// CollisionMode selects what happens when two declarations derive the same
// identifier.
type CollisionMode string

const (
	OnCollisionError CollisionMode = "error"
	// OnCollisionOverwrite lets a later controller replace an earlier one
	// with the same name, in the earlier one's position.
	OnCollisionOverwrite CollisionMode = "overwrite"
)

const (
	DefaultPackage            = "controllers"
	DefaultRuntimeImport      = "github.com/kolah/ctrlgen/router"
	DefaultValidatorsRegistry = "validators"
)

type Options struct {
	// Package is the name of the generated Go package.
	Package string
	// RuntimeImport is the import path of the router runtime.
	RuntimeImport  string
	ParameterOrder ParameterOrder
	OnCollision    CollisionMode
	// TypesRegistry qualifies component types referenced by request bodies.
	// Empty means the types live in the generated package.
	TypesRegistry string
	// ValidatorsRegistry is the variable holding compiled component schemas.
	ValidatorsRegistry string
}

func (o Options) withDefaults() Options {
	if o.Package == "" {
		o.Package = DefaultPackage
	}
	if o.RuntimeImport == "" {
		o.RuntimeImport = DefaultRuntimeImport
	}
	if o.ParameterOrder == "" {
		o.ParameterOrder = OrderSource
	}
	if o.OnCollision == "" {
		o.OnCollision = OnCollisionError
	}
	if o.ValidatorsRegistry == "" {
		o.ValidatorsRegistry = DefaultValidatorsRegistry
	}
	return o
}

// Validate checks the enumerated options.
func (o Options) Validate() error {
	switch o.ParameterOrder {
	case "", OrderSource, OrderPathFirst:
	default:
		return fmt.Errorf("invalid parameter order %q (valid: %s, %s)", o.ParameterOrder, OrderSource, OrderPathFirst)
	}
	switch o.OnCollision {
	case "", OnCollisionError, OnCollisionOverwrite:
	default:
		return fmt.Errorf("invalid collision mode %q (valid: %s, %s)", o.OnCollision, OnCollisionError, OnCollisionOverwrite)
	}
	return nil
}

// Builder derives controller descriptors from a document.
type Builder struct {
	types      TypeMapper
	validators ValidatorMapper
	opts       Options
}

// New creates a Builder. Unset options take their defaults.
func New(types TypeMapper, validators ValidatorMapper, opts Options) (*Builder, error) {
	if types == nil || validators == nil {
		return nil, fmt.Errorf("both a type mapper and a validator mapper are required")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Builder{
		types:      types,
		validators: validators,
		opts:       opts.withDefaults(),
	}, nil
}

// Options returns the effective options.
func (b *Builder) Options() Options {
	return b.opts
}
