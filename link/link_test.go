// Package link_test exercises the Linker public API end to end, mirroring
// the black-box half of the teacher's union_test.go/union_internal_test.go
// split.
package link_test

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctflink/ctflink/ctf"
	"github.com/ctflink/ctflink/link"
	"github.com/ctflink/ctflink/link/common"
)

// invariant 6: if Write produces an archive, slot 0 decodes to the shared
// output and the remaining slots are exactly the per-CU member names.
func TestWriteArchiveSlotZero(t *testing.T) {
	out := ctf.Create()
	l := link.NewLinker(out)

	a := ctf.Create()
	a.DefineType(ctf.Type{Name: "S", Kind: ctf.KindStruct, Size: 4})
	arcA := ctf.NewArchive()
	arcA.AddMember(ctf.DefaultMemberName, a)

	b := ctf.Create()
	b.DefineType(ctf.Type{Name: "S", Kind: ctf.KindStruct, Size: 8})
	arcB := ctf.NewArchive()
	arcB.AddMember(ctf.DefaultMemberName, b)

	require.NoError(t, l.AddCTF("a.o", arcA))
	require.NoError(t, l.AddCTF("b.o", arcB))
	require.NoError(t, l.Link(context.Background(), "unconflicted"))

	blob, err := l.Write(-1)
	require.NoError(t, err)
	assert.Equal(t, []byte("CTFA"), blob[:4], "a link with an isolated conflict must produce an archive")

	// Archive layout: magic, member count, then per member a name length,
	// the name, a payload length and the payload.
	require.Equal(t, uint32(2), binary.LittleEndian.Uint32(blob[4:8]))
	var names []string
	var payloads [][]byte
	off := 8
	for i := 0; i < 2; i++ {
		nameLen := int(binary.LittleEndian.Uint32(blob[off:]))
		names = append(names, string(blob[off+4:off+4+nameLen]))
		off += 4 + nameLen
		payloadLen := int(binary.LittleEndian.Uint32(blob[off:]))
		payloads = append(payloads, blob[off+4:off+4+payloadLen])
		off += 4 + payloadLen
	}
	assert.Equal(t, []string{ctf.DefaultMemberName, ".ctf.b.o"}, names)
	shared, err := out.WriteMem(-1)
	require.NoError(t, err)
	assert.Equal(t, shared, payloads[0], "slot 0 must hold the shared output")
}

// scenario C, exercised via the public API only.
func TestAddCTFAfterLinkFails(t *testing.T) {
	out := ctf.Create()
	l := link.NewLinker(out)

	a := ctf.Create()
	a.DefineType(ctf.Type{Name: "int", Kind: ctf.KindInteger, Size: 4})
	arcA := ctf.NewArchive()
	arcA.AddMember(ctf.DefaultMemberName, a)
	require.NoError(t, l.AddCTF("a.o", arcA))
	require.NoError(t, l.Link(context.Background(), "unconflicted"))

	err := l.AddCTF("late.o", ctf.NewArchive())
	assert.ErrorIs(t, err, link.ErrAddedLate)
}

// WriteDefault must drive compression off l.opts.CompressionThreshold: a
// threshold of 0 forces every member through the compressed path, so it
// must produce byte-identical output to an explicit Write(0).
func TestWriteDefaultUsesOptionsCompressionThreshold(t *testing.T) {
	out := ctf.Create()
	opts := common.Default()
	opts.CompressionThreshold = 0
	l := link.NewLinkerWithOptions(out, opts)

	a := ctf.Create()
	a.DefineType(ctf.Type{Name: "int", Kind: ctf.KindInteger, Size: 4})
	arcA := ctf.NewArchive()
	arcA.AddMember(ctf.DefaultMemberName, a)
	require.NoError(t, l.AddCTF("a.o", arcA))
	require.NoError(t, l.Link(context.Background(), ""))

	viaDefault, err := l.WriteDefault()
	require.NoError(t, err)
	viaExplicit, err := l.Write(0)
	require.NoError(t, err)
	assert.Equal(t, viaExplicit, viaDefault, "WriteDefault must use Options.CompressionThreshold")
}

func TestShuffleSymsReservedNoop(t *testing.T) {
	out := ctf.Create()
	l := link.NewLinker(out)
	called := false
	err := l.ShuffleSyms(context.Background(), func() (string, bool) {
		called = true
		return "", false
	})
	require.NoError(t, err)
	assert.False(t, called, "ShuffleSyms is reserved and must not invoke its callback")
}
