// Package link implements the CTF link engine: merging many input CTF
// archives into one output container (or, when conflicts force per-CU
// isolation, a multi-member archive), following the algorithm described in
// SPEC_FULL.md §4.3.
package link

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/ctflink/ctflink/ctf"
	"github.com/ctflink/ctflink/internal/ctflog"
	"github.com/ctflink/ctflink/link/common"
	"github.com/ctflink/ctflink/link/policy"
)

// Linker drives the merge of many input archives into out. The zero value
// is not useful; construct with NewLinker.
type Linker struct {
	out     *ctf.Container
	opts    common.Options
	inputs  *inputRegistry
	outputs *outputRegistry

	// linked is set once Link has accepted its share mode and started
	// merging (whether or not merging then succeeds) so AddCTF can
	// enforce the "added-late" rule even after a failed Link. A Link
	// rejected for its share mode leaves it unset.
	linked bool
}

// NewLinker returns a Linker that merges into out under the default
// Options (common.Default()). out must be a freshly created, parentless
// container (the shared output); it is never overwritten, only added to.
func NewLinker(out *ctf.Container) *Linker {
	return NewLinkerWithOptions(out, common.Default())
}

// NewLinkerWithOptions is NewLinker, but lets the caller supply Options
// loaded from common.Load or built by hand, driving the CU-name prefix,
// the default member name, the share-mode fallback, and the compression
// threshold a plain NewLinker would otherwise hardcode to their defaults.
func NewLinkerWithOptions(out *ctf.Container, opts common.Options) *Linker {
	return &Linker{
		out:     out,
		opts:    opts,
		inputs:  newInputRegistry(),
		outputs: newOutputRegistry(),
	}
}

// Options returns the Options this Linker was constructed with.
func (l *Linker) Options() common.Options {
	return l.opts
}

// AddCTF registers arc under name as an input to be merged by the next
// Link call. It fails with ErrAddedLate once Link has run, matching
// spec.md §6's link_add_ctf contract.
func (l *Linker) AddCTF(name string, arc *ctf.Archive) error {
	if l.linked {
		return ErrAddedLate
	}
	l.inputs.add(name, arc)
	return nil
}

// Link merges every registered input into the shared output under
// shareMode, resolved through package link/policy. An empty shareMode
// falls back to l.opts.ShareMode. Only "unconflicted" performs real
// merging; any mode whose Policy.Ready fails (Duplicated always does)
// fails the whole call before any input is processed, per spec.md
// scenario D.
func (l *Linker) Link(ctx context.Context, shareMode string) error {
	if shareMode == "" {
		shareMode = l.opts.ShareMode
	}
	pol, err := policy.Get(shareMode)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotYetImplemented, err)
	}
	if err := pol.Ready(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrNotYetImplemented, err)
	}

	l.linked = true

	var errs *multierror.Error
	for _, in := range l.inputs.order {
		if err := ctx.Err(); err != nil {
			errs = multierror.Append(errs, err)
			break
		}
		if err := l.processInputArchive(ctx, pol, in.name, in.archive); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("input %q: %w", in.name, err))
		}
	}
	return errs.ErrorOrNil()
}

// processInputArchive implements spec.md §4.3 step 2: open the default
// member, process it, then process every non-default member against it.
func (l *Linker) processInputArchive(ctx context.Context, pol policy.Policy, fileName string, arc *ctf.Archive) error {
	var errs *multierror.Error

	mainInput, err := arc.ArcOpenByName("")
	switch {
	case errors.Is(err, ctf.ErrNoSuchName):
		ctflog.Noticef("link: input %q has no default member, skipping", fileName)
		mainInput = nil
	case err != nil:
		ctflog.Noticef("link: input %q: opening default member: %v", fileName, err)
		mainInput = nil
	default:
		memberName := l.opts.CUNamePrefix + fileName
		if err := l.processMember(ctx, pol, mainInput, memberName, false); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("member %q: %w", memberName, err))
		}
	}

	doneMainMember := false
	iterErr := arc.ArchiveIter(func(memberName string, member *ctf.Container) error {
		if member == mainInput {
			if doneMainMember {
				return nil
			}
			doneMainMember = true
			return nil
		}
		ctf.Import(member, mainInput)
		cuName := strings.TrimPrefix(memberName, l.opts.CUNamePrefix)
		if err := l.processMember(ctx, pol, member, cuName, true); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("member %q: %w", memberName, err))
		}
		return nil
	})
	if iterErr != nil {
		errs = multierror.Append(errs, iterErr)
	}

	return errs.ErrorOrNil()
}

// processMember implements "per-member processing" (spec.md §4.3): every
// type, then every variable.
func (l *Linker) processMember(ctx context.Context, pol policy.Policy, member *ctf.Container, cuName string, isCUFile bool) error {
	var errs *multierror.Error

	if err := member.TypeIterAll(func(srcID ctf.TypeID) error {
		if err := l.linkOneType(ctx, pol, member, srcID, cuName, isCUFile); err != nil {
			errs = multierror.Append(errs, err)
		}
		return nil
	}); err != nil {
		errs = multierror.Append(errs, err)
	}

	memberDst := l.out
	if isCUFile {
		memberDst = l.outputs.getOrCreate(cuName, l.out)
	}
	if err := member.VariableIter(func(name string, t ctf.TypeID) error {
		if err := l.linkOneVariable(memberDst, member, name, t); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("variable %q: %w", name, err))
		}
		return nil
	}); err != nil {
		errs = multierror.Append(errs, err)
	}

	return errs.ErrorOrNil()
}

// linkOneType implements spec.md §4.3's "Link-one-type". in_input_cu_file
// (isCUFile) mirrors the original flag name.
func (l *Linker) linkOneType(ctx context.Context, pol policy.Policy, src *ctf.Container, srcID ctf.TypeID, cuName string, isCUFile bool) error {
	if !isCUFile {
		_, err := l.out.AddType(src, srcID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ctf.ErrConflict) {
			ctflog.Errorf("link: adding shared type: %v", err)
			return err
		}
		// fall through to per-CU placement
	}

	perCU := l.outputs.getOrCreate(cuName, l.out)
	ctf.CuNameSet(perCU, cuName)

	_, err := pol.PlaceType(ctx, perCU, src, srcID)
	if err != nil {
		ctflog.Errorf("link: placing type into %q: %v", cuName, err)
		return err
	}
	return nil
}
