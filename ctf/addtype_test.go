package ctf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTypeDisjoint(t *testing.T) {
	src := Create()
	src.types = append(src.types, &Type{Name: "int", Kind: KindInteger, Size: 4})

	dst := Create()
	id, err := dst.AddType(src, src.indexToID(1))
	require.NoError(t, err)
	assert.Equal(t, "int", dst.Type(id).Name)
}

func TestAddTypeDedup(t *testing.T) {
	src := Create()
	src.types = append(src.types, &Type{Name: "int", Kind: KindInteger, Size: 4})

	dst := Create()
	id1, err := dst.AddType(src, src.indexToID(1))
	require.NoError(t, err)

	src2 := Create()
	src2.types = append(src2.types, &Type{Name: "int", Kind: KindInteger, Size: 4})
	id2, err := dst.AddType(src2, src2.indexToID(1))
	require.NoError(t, err)

	assert.Equal(t, id1, id2, "structurally identical same-named types must dedup to one id")
	assert.Len(t, dst.types, 1)
}

func TestAddTypeConflict(t *testing.T) {
	src1 := Create()
	src1.types = append(src1.types, &Type{Name: "S", Kind: KindStruct, Size: 4,
		Members: []Member{{Name: "a", Type: MakeTypeID(2, false)}}})
	src1.types = append(src1.types, &Type{Name: "int", Kind: KindInteger, Size: 4})

	src2 := Create()
	src2.types = append(src2.types, &Type{Name: "S", Kind: KindStruct, Size: 8,
		Members: []Member{{Name: "a", Type: MakeTypeID(2, false)}}})
	src2.types = append(src2.types, &Type{Name: "long", Kind: KindInteger, Size: 8})

	dst := Create()
	_, err := dst.AddType(src1, src1.indexToID(1))
	require.NoError(t, err)

	_, err = dst.AddType(src2, src2.indexToID(1))
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestAddTypeCyclic(t *testing.T) {
	src := Create()
	// struct node { node *next; } — self-referential via a pointer member.
	src.types = append(src.types, &Type{Name: "node", Kind: KindStruct, Size: 8,
		Members: []Member{{Name: "next", Type: MakeTypeID(2, false)}}})
	src.types = append(src.types, &Type{Name: "", Kind: KindPointer, Size: 8, Ref: MakeTypeID(1, false)})

	dst := Create()
	id, err := dst.AddType(src, src.indexToID(1))
	require.NoError(t, err)

	node := dst.Type(id)
	require.NotNil(t, node)
	ptr := dst.Type(node.Members[0].Type)
	require.NotNil(t, ptr)
	assert.Equal(t, id, ptr.Ref, "the pointer member must refer back to the same node type")
}

// Two structurally identical self-referential "node" types, added from two
// distinct source containers, must not be reported as a conflict: the
// struct's own cyclicness is only visible two hops down (through its
// unnamed pointer member, which refs back to the struct), so the cycle
// signal has to propagate up through that intermediate frame.
func TestAddTypeCyclicTwoSourcesNoSpuriousConflict(t *testing.T) {
	newNodeSrc := func() *Container {
		src := Create()
		src.types = append(src.types, &Type{Name: "node", Kind: KindStruct, Size: 8,
			Members: []Member{{Name: "next", Type: MakeTypeID(2, false)}}})
		src.types = append(src.types, &Type{Name: "", Kind: KindPointer, Size: 8, Ref: MakeTypeID(1, false)})
		return src
	}

	dst := Create()

	src1 := newNodeSrc()
	id1, err := dst.AddType(src1, src1.indexToID(1))
	require.NoError(t, err)

	src2 := newNodeSrc()
	id2, err := dst.AddType(src2, src2.indexToID(1))
	require.NoError(t, err, "a second structurally identical self-referential node must not be a spurious conflict")

	assert.NotEqual(t, id1, id2, "cyclic shapes are inserted fresh, not deduplicated")

	node1 := dst.Type(id1)
	require.NotNil(t, node1)
	ptr1 := dst.Type(node1.Members[0].Type)
	require.NotNil(t, ptr1)
	assert.Equal(t, id1, ptr1.Ref, "node1's pointer member must refer back to node1, not node2")

	node2 := dst.Type(id2)
	require.NotNil(t, node2)
	ptr2 := dst.Type(node2.Members[0].Type)
	require.NotNil(t, ptr2)
	assert.Equal(t, id2, ptr2.Ref, "node2's pointer member must refer back to node2, not node1")
}

func TestAddTypeMappingReuse(t *testing.T) {
	src := Create()
	src.types = append(src.types, &Type{Name: "int", Kind: KindInteger, Size: 4})

	dst := Create()
	id1, err := dst.AddType(src, src.indexToID(1))
	require.NoError(t, err)
	id2, err := dst.AddType(src, src.indexToID(1))
	require.NoError(t, err)
	assert.Equal(t, id1, id2, "re-adding the same source id must return the recorded mapping, not a fresh insert")
	assert.Len(t, dst.types, 1)
}
