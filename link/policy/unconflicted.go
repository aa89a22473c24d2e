package policy

import (
	"context"

	"github.com/ctflink/ctflink/ctf"
)

func init() {
	registerPolicy("unconflicted", &Unconflicted{})
}

// Unconflicted is the "share-unconflicted" policy: a type that conflicts
// in the shared output is isolated, unchanged, into the per-CU output
// already selected for the current archive member. It never attempts to
// further deduplicate across per-CU outputs (that would be
// "share-duplicated"; see Duplicated).
type Unconflicted struct{}

// Ready always succeeds: unconflicted is fully implemented.
func (p *Unconflicted) Ready(ctx context.Context) error { return nil }

// PlaceType adds the type directly into perCU. add_type should not be able
// to conflict inside a container that was just created for this purpose;
// any error here is surfaced as-is rather than retried.
func (p *Unconflicted) PlaceType(ctx context.Context, perCU *ctf.Container, src *ctf.Container, srcID ctf.TypeID) (Placement, error) {
	id, err := perCU.AddType(src, srcID)
	if err != nil {
		return Placement{}, err
	}
	return Placement{Container: perCU, ID: id, Isolated: true}, nil
}
