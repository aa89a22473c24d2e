// Package policy is a registry of share-mode strategies for the link
// engine, mirroring backend/union/policy's registerPolicy/Get registry
// (itself built for choosing an upstream Fs by name) applied here to
// choosing a type-placement strategy by name instead.
package policy

import (
	"context"
	"fmt"
	"strings"

	"github.com/ctflink/ctflink/ctf"
)

// Placement is where a type ended up after a Policy decided how to handle
// an add_type conflict.
type Placement struct {
	// Container is the container the type now lives in: the shared
	// output on success, or the per-CU output when a conflict was
	// recovered by isolating the type there.
	Container *ctf.Container

	// ID is the type's id within Container.
	ID ctf.TypeID

	// Isolated reports whether the type landed in a per-CU output
	// rather than the shared output.
	Isolated bool
}

// Policy decides how a type that does not go into the shared output should
// be placed. PlaceType is called for a type from a shared-input member only
// after add_type into the shared output has already returned
// ctf.ErrConflict, and for every type from a per-CU input member directly;
// a non-conflicting add into the shared output never consults the policy.
type Policy interface {
	// Ready is checked once, before Link processes any input, so that a
	// policy that can never place a type (Duplicated) fails the whole
	// link up front without mutating any output, rather than failing on
	// the first conflict encountered.
	Ready(ctx context.Context) error

	// PlaceType adds t (srcID in src) into perCU, the already-resolved
	// per-CU output for the current archive member, recording the
	// mapping exactly as a direct ctf.Container.AddType call would.
	PlaceType(ctx context.Context, perCU *ctf.Container, src *ctf.Container, srcID ctf.TypeID) (Placement, error)
}

var policies = make(map[string]Policy)

func registerPolicy(name string, p Policy) {
	policies[strings.ToLower(name)] = p
}

// Get returns the Policy registered under name, or an error if none is
// registered. Link resolves its shareMode argument through this registry.
func Get(name string) (Policy, error) {
	p, ok := policies[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("link/policy: no policy called %q", name)
	}
	return p, nil
}
