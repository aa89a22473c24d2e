package ctf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMemUncompressed(t *testing.T) {
	c := Create()
	c.types = append(c.types, &Type{Name: "int", Kind: KindInteger, Size: 4})

	b, err := c.WriteMem(-1)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, magicContainer[:]))
	assert.Equal(t, byte(0), b[4], "compressed flag must be clear when threshold is negative")
}

func TestWriteMemCompressed(t *testing.T) {
	c := Create()
	for i := 0; i < 200; i++ {
		c.types = append(c.types, &Type{Name: "int", Kind: KindInteger, Size: 4})
	}

	b, err := c.WriteMem(8)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, magicContainer[:]))
	assert.Equal(t, byte(1), b[4], "compressed flag must be set once the payload exceeds threshold")
}

func TestArcWriteFDSlotZero(t *testing.T) {
	shared := Create()
	cu := Create()
	Import(cu, shared)

	var buf bytes.Buffer
	err := ArcWriteFD(&buf, []ArcMember{
		{Name: DefaultMemberName, Container: shared},
		{Name: "cu1", Container: cu},
	}, -1)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), magicArchive[:]))
}
