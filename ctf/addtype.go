package ctf

import "fmt"

// AddType adds the type named by srcID in src to c (as add_type's
// destination), deduplicating by structural match against any existing
// type of the same name and returning ErrConflict if a same-named but
// structurally distinct type is already present. On success it records
// the correspondence in c's type-mapping table (spec.md §6, §4.1) and
// returns the new id. It plays the role of ctf_add_type().
//
// Dependent types (a struct's member types, a pointer's or typedef's
// referenced type) are added first, recursively, exactly as the real
// ctf_add_type does. Self-referential shapes (a struct containing a
// pointer to itself, the common linked-list-node case) are detected via
// the in-flight `visiting` set and are never deduplicated against an
// existing type of the same name — only ever inserted fresh — because
// comparing two independently-built recursive shapes for structural
// equality would require a coinductive comparison this package does not
// attempt; see DESIGN.md.
func (c *Container) AddType(src *Container, srcID TypeID) (TypeID, error) {
	id, _, err := c.addTypeRec(src, srcID, make(map[TypeID]TypeID))
	return id, err
}

// addTypeRec returns, alongside the new id and any error, the reservedID
// of the nearest still-in-progress ancestor that an in-flight back
// reference resolved to, or 0 if nothing below this call closed a cycle.
// A two-hop shape (struct -> unnamed pointer member -> same struct) only
// shows the back reference at the pointer's level, one frame below the
// struct itself, so the signal has to be threaded up through every
// intermediate frame rather than compared against each frame's own
// reservedID in isolation.
func (c *Container) addTypeRec(src *Container, srcID TypeID, visiting map[TypeID]TypeID) (TypeID, TypeID, error) {
	if _, id := c.lookupTypeMapping(src, srcID); id != 0 {
		return id, 0, nil
	}
	if ancestorID, ok := visiting[srcID]; ok {
		return ancestorID, ancestorID, nil
	}

	t := src.Type(srcID)
	if t == nil {
		return 0, 0, fmt.Errorf("%w: source type %s not found", ErrFormat, srcID)
	}

	reserved := &Type{
		Name:    t.Name,
		Kind:    t.Kind,
		Size:    t.Size,
		Members: make([]Member, len(t.Members)),
	}
	for i, m := range t.Members {
		reserved.Members[i] = Member{Name: m.Name, Bits: m.Bits}
	}
	reservedID := c.appendType(reserved)
	visiting[srcID] = reservedID

	closesCycle := false
	var openTarget TypeID

	note := func(target TypeID) {
		if target == 0 {
			return
		}
		if target == reservedID {
			closesCycle = true
			return
		}
		openTarget = target
	}

	if t.Ref != 0 {
		refID, refTarget, err := c.addTypeRec(src, t.Ref, visiting)
		if err != nil {
			delete(visiting, srcID)
			return 0, 0, err
		}
		reserved.Ref = refID
		note(refTarget)
	}
	for i, m := range t.Members {
		memID, memTarget, err := c.addTypeRec(src, m.Type, visiting)
		if err != nil {
			delete(visiting, srcID)
			return 0, 0, err
		}
		reserved.Members[i].Type = memID
		note(memTarget)
	}
	delete(visiting, srcID)

	if closesCycle || reserved.Name == "" {
		c.indexType(reservedID, reserved)
		c.recordTypeMapping(src, srcID, reservedID)
		c.dirty = true
		return reservedID, openTarget, nil
	}

	finalID, conflict := c.dedupOrIndex(reservedID, reserved)
	if finalID != reservedID && int(reservedID.Index()) == len(c.types) {
		// Nothing was appended after the abandoned reserved slot, so it
		// is dropped from c.types outright.
		c.types = c.types[:len(c.types)-1]
	}
	if conflict {
		// When dependent types were appended after it, the reserved slot
		// stays in c.types (those dependents are legitimately part of c
		// now) but is never indexed by name, so it can never be
		// dedup-matched and nothing still live references it by id.
		return 0, 0, ErrConflict
	}
	c.recordTypeMapping(src, srcID, finalID)
	return finalID, openTarget, nil
}

// appendType reserves a new slot in c's type table without publishing it
// for name-based dedup, returning its id.
func (c *Container) appendType(t *Type) TypeID {
	c.types = append(c.types, t)
	return c.indexToID(uint32(len(c.types)))
}

// indexType publishes t (already stored at id by appendType) into the
// by-name dedup index. Unnamed types are deliberately never indexed: like
// the original, they are "mindlessly duplicated" rather than deduplicated.
func (c *Container) indexType(id TypeID, t *Type) {
	if t.Name == "" {
		return
	}
	if c.byName == nil {
		c.byName = make(map[string][]uint32)
	}
	if c.fingerprints == nil {
		c.fingerprints = make(map[uint32]uint64)
	}
	idx := id.Index()
	c.byName[t.Name] = append(c.byName[t.Name], idx)
	c.fingerprints[idx] = t.fingerprint()
	c.dirty = true
}

// dedupOrIndex checks t (already reserved at id) against every
// already-indexed type of the same name: a fingerprint match followed by a
// full structural comparison confirms a duplicate (t's slot is abandoned
// and the existing id is returned); a same name with no structural match
// is a conflict; no same-named candidates at all means t is published as
// new.
func (c *Container) dedupOrIndex(id TypeID, t *Type) (TypeID, bool) {
	fp := t.fingerprint()
	candidates := c.byName[t.Name]
	for _, idx := range candidates {
		if c.fingerprints[idx] == fp && structurallyEqual(c.types[idx-1], t) {
			return c.indexToID(idx), false
		}
	}
	if len(candidates) > 0 {
		return 0, true
	}
	c.indexType(id, t)
	return id, false
}
