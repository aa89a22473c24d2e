package link

import "github.com/ctflink/ctflink/ctf"

// outputEntry is one per-CU output, named by its archive-member name.
type outputEntry struct {
	name      string
	container *ctf.Container
}

// outputRegistry is the lazily populated set of per-CU output containers,
// keyed by archive-member name (spec.md §3 "Per-CU output"). Like
// inputRegistry, it keeps a parallel slice so that the string interner and
// the archive writer see the same order on every pass (spec.md §5: "the
// string interner assumes the same order across iterations").
type outputRegistry struct {
	order  []outputEntry
	byName map[string]int
}

func newOutputRegistry() *outputRegistry {
	return &outputRegistry{byName: make(map[string]int)}
}

// get returns the per-CU output registered under name, if any.
func (r *outputRegistry) get(name string) (*ctf.Container, bool) {
	i, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.order[i].container, true
}

// getOrCreate returns the per-CU output registered under name, creating a
// fresh child of parent and registering it under name if none yet exists.
// The new container's CU name is set to name itself; callers that derive a
// different CU name (stripping a ".ctf." prefix) overwrite it afterward.
func (r *outputRegistry) getOrCreate(name string, parent *ctf.Container) *ctf.Container {
	if c, ok := r.get(name); ok {
		return c
	}
	child := ctf.Create()
	ctf.Import(child, parent)
	ctf.CuNameSet(child, name)
	r.byName[name] = len(r.order)
	r.order = append(r.order, outputEntry{name: name, container: child})
	return child
}

// each visits every per-CU output in insertion order.
func (r *outputRegistry) each(visit func(name string, c *ctf.Container) error) error {
	for _, e := range r.order {
		if err := visit(e.name, e.container); err != nil {
			return err
		}
	}
	return nil
}

// empty reports whether no per-CU output has ever been created — the
// "there were no conflicts" case the archive writer checks (spec.md §4.5
// step 2).
func (r *outputRegistry) empty() bool {
	return len(r.order) == 0
}
