package controller

import (
	"errors"
	"fmt"
)

// ErrNameCollision indicates two declarations derived the same Go identifier.
var ErrNameCollision = errors.New("name collision")

// CollisionError reports a derived identifier that was already claimed.
type CollisionError struct {
	// Identifier is the Go identifier both declarations derive.
	Identifier string
	// Path is the path template being added. It is empty when two
	// component declarations collide.
	Path string
	// Owner describes the earlier claimant: another path template, a
	// component schema or the validator registry.
	Owner string
}

// Error returns a human-readable error message.
func (e *CollisionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("identifier %s is already declared by %s", e.Identifier, e.Owner)
	}
	return fmt.Sprintf("path %q: identifier %s is already declared by %s", e.Path, e.Identifier, e.Owner)
}

// Is reports whether target matches this error type.
func (e *CollisionError) Is(target error) bool {
	return target == ErrNameCollision
}
