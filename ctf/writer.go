package ctf

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// magicContainer tags a single serialized container (the bare-container
// form spec.md §6 calls the "CTF magic preamble").
var magicContainer = [4]byte{'C', 'T', 'F', '1'}

// magicArchive tags a multi-member archive.
var magicArchive = [4]byte{'C', 'T', 'F', 'A'}

type wireContainer struct {
	CuName          string
	HasParent       bool
	Types           []Type
	Vars            map[string]TypeID
	VarOrder        []string
	ExternalStrings map[uint32]string
}

// WriteMem serializes c into a self-contained byte slice, compressing the
// payload with zstd when it exceeds threshold bytes. A negative threshold
// disables compression. It plays the role of ctf_write_mem().
func (c *Container) WriteMem(threshold int) ([]byte, error) {
	payload, err := c.encode()
	if err != nil {
		return nil, fmt.Errorf("ctf: encoding container: %w", err)
	}

	compressed := false
	if threshold >= 0 && len(payload) > threshold {
		compressedPayload, err := zstdCompress(payload)
		if err != nil {
			return nil, fmt.Errorf("ctf: compressing container: %w", err)
		}
		payload = compressedPayload
		compressed = true
	}

	return frame(magicContainer, compressed, payload), nil
}

func (c *Container) encode() ([]byte, error) {
	wc := wireContainer{
		CuName:          c.cuName,
		HasParent:       c.parent != nil,
		Vars:            c.vars,
		VarOrder:        c.varOrder,
		ExternalStrings: c.externalStrings,
	}
	for _, t := range c.types {
		wc.Types = append(wc.Types, *t)
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&wc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func frame(magic [4]byte, compressed bool, payload []byte) []byte {
	out := make([]byte, 0, len(magic)+1+4+len(payload))
	out = append(out, magic[:]...)
	if compressed {
		out = append(out, 1)
	} else {
		out = append(out, 0)
	}
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	out = append(out, lenBuf[:]...)
	return append(out, payload...)
}

func zstdCompress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(b); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ArcMember is one named entry passed to ArcWriteFD: a container and the
// archive-member name it should be written under.
type ArcMember struct {
	Name      string
	Container *Container
}

// ArcWriteFD serializes members into w as a single archive, in order,
// compressing each member's payload above threshold exactly as WriteMem
// does for a single container. It plays the role of ctf_arc_write_fd().
// The caller is responsible for ensuring members[0] is the archive's
// default member (spec.md §4.5 ordering guarantee); ArcWriteFD does not
// reorder.
func ArcWriteFD(w io.Writer, members []ArcMember, threshold int) error {
	var buf bytes.Buffer
	buf.Write(magicArchive[:])

	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], uint32(len(members)))
	buf.Write(countBuf[:])

	for _, m := range members {
		memberBytes, err := m.Container.WriteMem(threshold)
		if err != nil {
			return fmt.Errorf("ctf: writing archive member %q: %w", m.Name, err)
		}

		var nameLenBuf [4]byte
		binary.LittleEndian.PutUint32(nameLenBuf[:], uint32(len(m.Name)))
		buf.Write(nameLenBuf[:])
		buf.WriteString(m.Name)

		var payloadLenBuf [4]byte
		binary.LittleEndian.PutUint32(payloadLenBuf[:], uint32(len(memberBytes)))
		buf.Write(payloadLenBuf[:])
		buf.Write(memberBytes)
	}

	_, err := w.Write(buf.Bytes())
	return err
}
