// Package access holds the single controller identity that every mutating
// ledger operation is checked against.
package access

import (
	"errors"
	"strings"
)

var (
	// ErrUnauthorized is returned when a caller other than the controller
	// invokes a gated operation.
	ErrUnauthorized = errors.New("itemledger: unauthorized")

	// ErrInvalidIdentity is returned when a gate is built without a controller.
	ErrInvalidIdentity = errors.New("itemledger: invalid identity")
)

// Identity names a caller. Comparison is exact; no normalization is applied.
type Identity string

// String implements fmt.Stringer.
func (i Identity) String() string { return string(i) }

// IsZero reports whether the identity is empty.
func (i Identity) IsZero() bool { return strings.TrimSpace(string(i)) == "" }

// Gate is a pure predicate over caller identities. The controller is fixed
// at construction; there is no transfer operation.
type Gate struct {
	controller Identity
}

// NewGate creates a gate controlled by the given identity.
func NewGate(controller Identity) (*Gate, error) {
	if controller.IsZero() {
		return nil, ErrInvalidIdentity
	}
	return &Gate{controller: controller}, nil
}

// Controller returns the controller identity.
func (g *Gate) Controller() Identity { return g.controller }

// IsController reports whether caller is the controller.
func (g *Gate) IsController(caller Identity) bool {
	return caller == g.controller
}

// RequireController fails with ErrUnauthorized unless caller is the controller.
func (g *Gate) RequireController(caller Identity) error {
	if !g.IsController(caller) {
		return ErrUnauthorized
	}
	return nil
}
