package ctf

// recordTypeMapping records that srcID in src was added to dst as dstID.
// Both ids are first normalized to parent-half indices (§4.1 of
// SPEC_FULL.md): if srcID/dstID refer to a parent, the recording is keyed
// (or valued) by the parent container's own index instead of the child's
// view of it. Re-recording the same key replaces the previous value, and
// the table is allocated lazily on first use.
func (c *Container) recordTypeMapping(src *Container, srcID, dstID TypeID) {
	srcOwner, srcIndex := src.resolve(srcID)
	dstOwner, dstIndex := c.resolve(dstID)

	if dstOwner.typeMapping == nil {
		dstOwner.typeMapping = make(map[mappingKey]uint32)
	}
	dstOwner.typeMapping[mappingKey{src: srcOwner, index: srcIndex}] = dstIndex
}

// lookupTypeMapping looks up the destination type that srcID (as seen from
// src) was mapped to under dst, retrying dst's parent on a miss. It returns
// the container the mapping actually resolved in (which may be dst's
// parent) and the id, expressed from that container's own perspective, or
// (nil, 0) if no mapping exists anywhere.
func (c *Container) lookupTypeMapping(src *Container, srcID TypeID) (*Container, TypeID) {
	srcOwner, srcIndex := src.resolve(srcID)
	key := mappingKey{src: srcOwner, index: srcIndex}

	target := c
	if target.typeMapping != nil {
		if idx, ok := target.typeMapping[key]; ok {
			return target, target.indexToID(idx)
		}
	}

	if target.parent == nil {
		return nil, 0
	}
	target = target.parent
	if target.typeMapping != nil {
		if idx, ok := target.typeMapping[key]; ok {
			return target, target.indexToID(idx)
		}
	}
	return nil, 0
}

// LookupTypeMapping is the exported form of lookupTypeMapping, used by
// package link's variable relinker (spec.md §4.3) to find where a type
// landed without re-adding it.
func (c *Container) LookupTypeMapping(src *Container, srcID TypeID) (*Container, TypeID) {
	return c.lookupTypeMapping(src, srcID)
}
