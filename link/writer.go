package link

import (
	"bytes"
	"fmt"

	"github.com/ctflink/ctflink/ctf"
)

// Write flushes the shared output and every per-CU output and serializes
// them, compressing any member whose encoded size exceeds threshold bytes
// (spec.md §4.5). When no per-CU output was ever created, it returns a
// single container blob with no archive wrapper (scenario A); otherwise it
// returns an archive whose slot 0 is always the shared output under
// l.opts.DefaultMemberName (scenario B, invariant 6).
func (l *Linker) Write(threshold int) ([]byte, error) {
	if err := l.out.Update(); err != nil {
		return nil, fmt.Errorf("link: flushing shared output: %w", err)
	}

	if l.outputs.empty() {
		b, err := l.out.WriteMem(threshold)
		if err != nil {
			return nil, fmt.Errorf("link: writing shared output: %w", err)
		}
		return b, nil
	}

	members := make([]ctf.ArcMember, 0, 1+len(l.outputs.order))
	members = append(members, ctf.ArcMember{Name: l.opts.DefaultMemberName, Container: l.out})

	err := l.outputs.each(func(name string, c *ctf.Container) error {
		if err := c.Update(); err != nil {
			return fmt.Errorf("flushing per-CU output %q: %w", name, err)
		}
		members = append(members, ctf.ArcMember{Name: name, Container: c})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("link: %w", err)
	}

	var buf bytes.Buffer
	if err := ctf.ArcWriteFD(&buf, members, threshold); err != nil {
		return nil, fmt.Errorf("link: writing archive: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDefault is Write using l.opts.CompressionThreshold, the normal way
// to call Write when the caller has no per-call reason to override the
// configured threshold.
func (l *Linker) WriteDefault() ([]byte, error) {
	return l.Write(l.opts.CompressionThreshold)
}

// Close releases the per-CU outputs and the registered input archives, in
// that order, so the parent (the shared output, owned by the caller) is
// never released before its children — Go has no destructors, so this
// plays the role the original leaves to ctf_file_close's reference
// counting (spec.md §9 "Cyclic ownership").
func (l *Linker) Close() {
	_ = l.outputs.each(func(name string, c *ctf.Container) error {
		c.Close()
		return nil
	})
	l.outputs = newOutputRegistry()
	l.inputs = newInputRegistry()
}
