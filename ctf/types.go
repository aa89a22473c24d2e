package ctf

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// TypeID identifies a type within a container, or (when the container has
// a parent) within the container or its parent depending on the child-half
// flag. It plays the role of ctf_id_t.
//
// The high bit distinguishes parent-half from child-half ids; the low 31
// bits are a 1-based dense index. A zero TypeID never denotes a real type:
// it is reserved as the "no mapping" sentinel throughout this package and
// package link.
type TypeID uint32

const childHalfFlag TypeID = 1 << 31

// MakeTypeID builds a TypeID from a 1-based index and whether it should be
// read as belonging to the child half of a container that has a parent.
func MakeTypeID(index uint32, childHalf bool) TypeID {
	id := TypeID(index)
	if childHalf {
		id |= childHalfFlag
	}
	return id
}

// Index returns the 1-based dense index encoded in the id, discarding the
// child-half flag.
func (id TypeID) Index() uint32 {
	return uint32(id &^ childHalfFlag)
}

// IsChildHalf reports whether id was minted with the child-half flag set.
func (id TypeID) IsChildHalf() bool {
	return id&childHalfFlag != 0
}

func (id TypeID) String() string {
	if id.IsChildHalf() {
		return fmt.Sprintf("child#%d", id.Index())
	}
	return fmt.Sprintf("parent#%d", id.Index())
}

// Kind enumerates the handful of type shapes this in-memory container
// tracks. A real CTF container has many more (enums, arrays, function
// prototypes, forward declarations, ...); this set is the minimum needed
// to exercise conflict detection and dedup struct-by-struct.
type Kind int

// Kind values. Their order is part of the structural fingerprint and must
// not change within a single link (it never crosses a process boundary).
const (
	KindInteger Kind = iota
	KindFloat
	KindPointer
	KindStruct
	KindUnion
	KindEnum
	KindTypedef
	KindForward
)

// Member is one field of a struct or union type.
type Member struct {
	Name string
	Type TypeID // resolved within the same container as the owning Type
	Bits uint32 // bit offset, 0 if not meaningful for Kind
}

// Type is one entry in a container's type table.
type Type struct {
	Name    string
	Kind    Kind
	Size    uint32   // in bytes, meaningful for Integer/Float/Pointer/Struct/Union
	Ref     TypeID   // target type for Pointer/Typedef
	Members []Member // Struct/Union only
}

// fingerprint returns a fast, order-sensitive hash of the type's shape.
// It is used as a pre-filter in Container.AddType: two types with
// different fingerprints are never structurally equal, so the expensive
// deep comparison only runs on fingerprint collisions. This mirrors the
// teacher's use of a content hash (fs/hash) to cheaply rule out non-matches
// before a byte-for-byte comparison, applied here to type shape instead of
// file bytes.
func (t *Type) fingerprint() uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(t.Name)
	_, _ = h.Write([]byte{byte(t.Kind)})
	var buf [4]byte
	putU32(buf[:], t.Size)
	_, _ = h.Write(buf[:])
	putU32(buf[:], uint32(t.Ref))
	_, _ = h.Write(buf[:])
	for _, m := range t.Members {
		_, _ = h.WriteString(m.Name)
		putU32(buf[:], uint32(m.Type))
		_, _ = h.Write(buf[:])
		putU32(buf[:], m.Bits)
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

func putU32(buf []byte, v uint32) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	buf[3] = byte(v >> 24)
}

// structurallyEqual compares two types for exact structural equality. It
// does not resolve member/ref TypeIDs across containers: callers are
// expected to have already translated src's ids into dst's id space (see
// Container.AddType), so that two types "mean the same thing" exactly when
// their fields compare equal.
func structurallyEqual(a, b *Type) bool {
	if a.Name != b.Name || a.Kind != b.Kind || a.Size != b.Size || a.Ref != b.Ref {
		return false
	}
	if len(a.Members) != len(b.Members) {
		return false
	}
	for i := range a.Members {
		if a.Members[i] != b.Members[i] {
			return false
		}
	}
	return true
}
