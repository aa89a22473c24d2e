package policy

import (
	"context"
	"errors"

	"github.com/ctflink/ctflink/ctf"
)

func init() {
	registerPolicy("duplicated", &Duplicated{})
}

// ErrNotYetImplemented is returned by Duplicated.PlaceType unconditionally.
// It is a distinct value from link.ErrNotYetImplemented (package policy
// must not import package link, which imports policy) but link.Link wraps
// it so callers can still match on link.ErrNotYetImplemented via errors.Is.
var ErrNotYetImplemented = errors.New("link/policy: share-duplicated is not yet implemented")

// Duplicated stands in for the "share-duplicated" mode named in spec.md
// §1 as explicitly out of scope: deduplicating a conflicting type against
// every other per-CU output that already isolated an equivalent
// definition, rather than isolating it again. Registered so that
// resolving the name does not itself fail, matching the original's own
// behavior of recognizing but rejecting the mode.
type Duplicated struct{}

// Ready always fails, so Link rejects "duplicated" before processing any
// input archive, matching spec.md scenario D ("returns not-yet-implemented
// without mutating any output").
func (p *Duplicated) Ready(ctx context.Context) error {
	return ErrNotYetImplemented
}

// PlaceType is never reached: Ready always fails first.
func (p *Duplicated) PlaceType(ctx context.Context, perCU *ctf.Container, src *ctf.Container, srcID ctf.TypeID) (Placement, error) {
	return Placement{}, ErrNotYetImplemented
}
