package link

import (
	"github.com/ctflink/ctflink/ctf"
	"github.com/ctflink/ctflink/internal/ctflog"
)

// linkOneVariable implements spec.md §4.3's "Link-one-variable": prefer the
// parent, fall back to the child, re-hosting the destination id onto
// whichever container actually receives the AddVariable call. dst is the
// container link-one-type would have targeted for this member — the
// shared output for a shared-input member, the member's per-CU output
// otherwise — exactly the receiver the original passes as "out" into
// ctf_link_one_variable.
func (l *Linker) linkOneVariable(dst *ctf.Container, src *ctf.Container, name string, srcType ctf.TypeID) error {
	if dst.Parent() != nil {
		if mappedIn, mappedID := dst.Parent().LookupTypeMapping(src, srcType); mappedIn != nil {
			if existing, ok := dst.Parent().Variable(name); ok {
				if existing == mappedID {
					return nil
				}
				// Fall through to child placement, re-hosting the
				// parent-side id into dst's own id space (spec.md §9:
				// "must unambiguously childify the id before insertion").
				childID := childify(dst, mappedIn, mappedID)
				if dst.Type(childID) == nil {
					ctflog.Debugf("link: variable %q: childified id %s does not resolve in container %s", name, childID, dst.ID())
				}
				dst.AddVariable(name, childID)
				return nil
			}
			dst.Parent().AddVariable(name, mappedID)
			return nil
		}
	}

	if mappedIn, mappedID := dst.LookupTypeMapping(src, srcType); mappedIn != nil {
		dst.AddVariable(name, childify(dst, mappedIn, mappedID))
		return nil
	}

	ctflog.Errorf("link: variable %q: type has no recorded mapping in container %s or its parent", name, dst.ID())
	return ErrInvalidArgument
}

// childify converts id, expressed from resolvedIn's perspective, into the
// id dst itself would use to refer to the same type: unchanged when
// resolvedIn is dst, converted to a parent-half id when resolvedIn is
// dst's parent.
func childify(dst *ctf.Container, resolvedIn *ctf.Container, id ctf.TypeID) ctf.TypeID {
	if resolvedIn == dst {
		return id
	}
	return ctf.MakeTypeID(id.Index(), false)
}
