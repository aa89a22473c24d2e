package ctf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportAndResolve(t *testing.T) {
	parent := Create()
	parent.types = append(parent.types, &Type{Name: "int", Kind: KindInteger, Size: 4})

	child := Create()
	Import(child, parent)
	child.types = append(child.types, &Type{Name: "long", Kind: KindInteger, Size: 8})

	parentID := MakeTypeID(1, false)
	childID := MakeTypeID(1, true)

	assert.Equal(t, "int", child.Type(parentID).Name)
	assert.Equal(t, "long", child.Type(childID).Name)
}

func TestUpdateDetectsDanglingReference(t *testing.T) {
	c := Create()
	c.types = append(c.types, &Type{Name: "p", Kind: KindPointer, Size: 8, Ref: MakeTypeID(99, false)})
	err := c.Update()
	assert.True(t, errors.Is(err, ErrFormat))
}

func TestUpdateClearsDirty(t *testing.T) {
	c := Create()
	c.AddVariable("x", MakeTypeID(1, false))
	c.types = append(c.types, &Type{Name: "int", Kind: KindInteger, Size: 4})
	assert.True(t, c.Dirty())
	require.NoError(t, c.Update())
	assert.False(t, c.Dirty())
}

// invariant 4: mapping lookup returns the same destination id whether the
// parent-owned source id is looked up through the parent itself or through
// a child that imports it.
func TestTypeMappingNormalization(t *testing.T) {
	parent := Create()
	parent.types = append(parent.types, &Type{Name: "int", Kind: KindInteger, Size: 4})

	child := Create()
	Import(child, parent)

	dst := Create()
	parentID := MakeTypeID(1, false)
	id, err := dst.AddType(parent, parentID)
	require.NoError(t, err)

	// Ask via the parent, then again via the child's view of the same
	// parent type (child-half would only apply to child's own types, but
	// resolving through the child container for a parent-owned id must land
	// on the same mapping since resolve() normalizes it to the parent first).
	_, gotID := dst.lookupTypeMapping(parent, parentID)
	assert.Equal(t, id, gotID)

	gotContainer2, gotID2 := dst.lookupTypeMapping(child, MakeTypeID(1, false))
	assert.Equal(t, dst, gotContainer2)
	assert.Equal(t, id, gotID2)
}

func TestVariableIterOrder(t *testing.T) {
	c := Create()
	c.AddVariable("b", MakeTypeID(1, false))
	c.AddVariable("a", MakeTypeID(2, false))

	var order []string
	require.NoError(t, c.VariableIter(func(name string, _ TypeID) error {
		order = append(order, name)
		return nil
	}))
	assert.Equal(t, []string{"b", "a"}, order)
}
