// Package ctf implements a compact, in-memory stand-in for the lower-level
// CTF (Compact C Type Format) library that a real linker would bind to
// (Oracle's libdtrace-ctf, via cgo, in production). It supplies just enough
// of add_type/add_variable/create/import/cuname_set/str_add_external/
// update/write_mem/arc_write_fd/arc_open_by_name/archive_iter to let
// package link exercise real deduplication, conflict, and archive-framing
// behavior end to end without a C dependency.
//
// It is not a byte-compatible implementation of Oracle's on-disk CTF
// format; see SPEC_FULL.md.
package ctf

import (
	"fmt"

	"github.com/google/uuid"
)

// mappingKey is the type-mapping index's key: a source container and the
// 1-based index (never a raw TypeID) of a type within it. Go's built-in map
// hashes and compares this struct natively, so there is no hand-rolled
// structural hash here — see SPEC_FULL.md §9.
type mappingKey struct {
	src   *Container
	index uint32
}

// Container is one CTF file in memory: a type table, a variable table, an
// atom table of externally interned strings, and an optional parent. It
// plays the role of ctf_file_t.
type Container struct {
	id     uuid.UUID
	cuName string
	parent *Container

	types        []*Type
	byName       map[string][]uint32 // type name -> 1-based indices, for named-type dedup
	fingerprints map[uint32]uint64   // 1-based index -> structural fingerprint, for indexed types only

	vars     map[string]TypeID
	varOrder []string

	externalStrings map[uint32]string

	// typeMapping records, for this container as a destination, how a
	// (source container, source index) pair was renamed on add. Lazily
	// allocated: an empty container never pays for the map.
	typeMapping map[mappingKey]uint32

	dirty  bool
	closed bool
}

// Create allocates a fresh, parentless container. It plays the role of
// ctf_create().
func Create() *Container {
	return &Container{id: uuid.New()}
}

// ID returns a stable identifier for the container, suitable for log
// messages. It replaces reliance on pointer identity (see SPEC_FULL.md §9):
// a *Container is still the map key used for mapping-table lookups, but
// log lines and error messages use this instead of a %p pointer dump.
func (c *Container) ID() uuid.UUID { return c.id }

// CuName returns the compilation-unit name set by CuNameSet, or "" if
// never set.
func (c *Container) CuName() string { return c.cuName }

// Parent returns the container's parent, or nil if it has none.
func (c *Container) Parent() *Container { return c.parent }

// Import makes parent the parent of child, so that child's parent-half
// type ids resolve against parent's type table. It plays the role of
// ctf_import().
func Import(child, parent *Container) {
	child.parent = parent
}

// CuNameSet sets the compilation-unit name recorded on c. It plays the
// role of ctf_cuname_set().
func CuNameSet(c *Container, name string) {
	c.cuName = name
}

// indexToID mints a TypeID for the given 1-based index, owned by c: the
// child-half flag is set exactly when c has a parent, matching
// LCTF_INDEX_TO_TYPE.
func (c *Container) indexToID(index uint32) TypeID {
	return MakeTypeID(index, c.parent != nil)
}

// isParentID reports whether id, interpreted in the context of c, refers
// to a type hosted by c's parent rather than by c itself. It matches
// LCTF_TYPE_ISPARENT: a container with no parent never treats any id as
// belonging to a parent.
func (c *Container) isParentID(id TypeID) bool {
	return c.parent != nil && !id.IsChildHalf()
}

// resolve returns the container that actually owns id (c or c.parent) and
// the 1-based index within that container's type table.
func (c *Container) resolve(id TypeID) (*Container, uint32) {
	if c.isParentID(id) {
		return c.parent, id.Index()
	}
	return c, id.Index()
}

// DefineType appends t to c's own type table as-is, with no deduplication
// against any existing type, and returns its new id. It plays the role
// add_type plays for the object-file/CTF-section producer that built c in
// the first place (out of scope per SPEC_FULL.md §1): that producer's type
// table is already canonical, so there is nothing to deduplicate against.
// Package link never calls this directly; it is the entry point a test, or
// a real CTF-section reader, uses to populate an input container before
// handing it to the linker.
func (c *Container) DefineType(t Type) TypeID {
	id := c.appendType(&t)
	c.indexType(id, &t)
	c.dirty = true
	return id
}

// Type returns the type referred to by id, or nil if id is out of range.
func (c *Container) Type(id TypeID) *Type {
	owner, idx := c.resolve(id)
	if idx == 0 || int(idx) > len(owner.types) {
		return nil
	}
	return owner.types[idx-1]
}

// TypeIterAll visits every type defined directly in c (not its parent), in
// definition order, as the ids c itself would hand out. It plays the role
// of ctf_type_iter_all(), as a visitor instead of a raw callback pointer
// threaded through an argument struct (see SPEC_FULL.md §9).
func (c *Container) TypeIterAll(visit func(TypeID) error) error {
	for i := range c.types {
		if err := visit(c.indexToID(uint32(i + 1))); err != nil {
			return err
		}
	}
	return nil
}

// Variable returns the type bound to name by a prior AddVariable, if any.
func (c *Container) Variable(name string) (TypeID, bool) {
	id, ok := c.vars[name]
	return id, ok
}

// VariableIter visits every variable defined in c, in the order it was
// added. It plays the role of ctf_variable_iter().
func (c *Container) VariableIter(visit func(name string, t TypeID) error) error {
	for _, name := range c.varOrder {
		if err := visit(name, c.vars[name]); err != nil {
			return err
		}
	}
	return nil
}

// AddVariable inserts a variable binding, overwriting any existing binding
// of the same name. It plays the role of ctf_add_variable().
func (c *Container) AddVariable(name string, t TypeID) {
	if c.vars == nil {
		c.vars = make(map[string]TypeID)
	}
	if _, exists := c.vars[name]; !exists {
		c.varOrder = append(c.varOrder, name)
	}
	c.vars[name] = t
	c.dirty = true
}

// StrAddExternal registers str as living in an external string table at
// offset. It plays the role of ctf_str_add_external(): in the original,
// failure means an allocation failure; this implementation cannot fail
// short of the Go runtime itself running out of memory, so it always
// succeeds (see SPEC_FULL.md §9 on graceful OOM degradation).
func (c *Container) StrAddExternal(str string, offset uint32) {
	if c.externalStrings == nil {
		c.externalStrings = make(map[uint32]string)
	}
	c.externalStrings[offset] = str
	c.dirty = true
}

// ExternalString returns the string registered at offset by StrAddExternal,
// if any. Used by tests to verify external-string consistency across
// output containers (spec.md §8 property 5).
func (c *Container) ExternalString(offset uint32) (string, bool) {
	s, ok := c.externalStrings[offset]
	return s, ok
}

// MarkDirty flags c as having unflushed changes. AddStrtab uses this
// directly (spec.md §4.4 step 1) rather than going through AddVariable or
// StrAddExternal.
func (c *Container) MarkDirty() { c.dirty = true }

// Dirty reports whether c has unflushed changes since the last Update.
func (c *Container) Dirty() bool { return c.dirty }

// Update commits in-memory changes, validating that every member and
// pointer/typedef reference resolves within the container or its parent.
// It plays the role of ctf_update().
func (c *Container) Update() error {
	for i, t := range c.types {
		if t.Ref != 0 && c.Type(t.Ref) == nil {
			return fmt.Errorf("%w: type %d: dangling reference %s", ErrFormat, i+1, t.Ref)
		}
		for _, m := range t.Members {
			if c.Type(m.Type) == nil {
				return fmt.Errorf("%w: type %d: member %q: dangling reference %s", ErrFormat, i+1, m.Name, m.Type)
			}
		}
	}
	c.dirty = false
	return nil
}

// Close releases c. A closed container must not be mutated further; the
// zero value is safe to call Close on more than once.
func (c *Container) Close() {
	c.closed = true
}
