package link

import (
	"context"

	"github.com/hashicorp/go-multierror"

	"github.com/ctflink/ctflink/ctf"
)

// StrtabProducer yields the next (offset, string) pair to intern, or
// ok=false once exhausted — a Go closure in place of the original's
// callback-plus-void-pointer arg, per SPEC_FULL.md §9.
type StrtabProducer func() (offset uint32, str string, ok bool)

// SymProducer is the symbol-shuffle callback. ShuffleSyms is reserved
// (spec.md §6: "no behavior required beyond returning success"), so this
// type exists only to give ShuffleSyms a signature; it is never invoked.
type SymProducer func() (sym string, ok bool)

// AddStrtab registers every (offset, str) pair produce yields into the
// shared output and every per-CU output, so that an external string
// offset resolves identically everywhere (spec.md §4.4). Registration
// itself cannot fail in this implementation (ctf.StrAddExternal has no
// error return), but AddStrtab still accumulates and returns any error
// from iterating the outputs, to keep its signature stable against a
// possible future output source that can fail.
func (l *Linker) AddStrtab(ctx context.Context, produce StrtabProducer) error {
	var errs *multierror.Error
	for {
		if err := ctx.Err(); err != nil {
			errs = multierror.Append(errs, err)
			break
		}
		offset, str, ok := produce()
		if !ok {
			break
		}
		l.out.MarkDirty()
		l.out.StrAddExternal(str, offset)
		if err := l.outputs.each(func(name string, c *ctf.Container) error {
			c.MarkDirty()
			c.StrAddExternal(str, offset)
			return nil
		}); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// ShuffleSyms is reserved: it always succeeds without invoking produce,
// matching spec.md §6's link_shuffle_syms contract exactly.
func (l *Linker) ShuffleSyms(ctx context.Context, produce SymProducer) error {
	return nil
}
