package link

import "github.com/ctflink/ctflink/ctf"

// inputEntry is one registered input archive, kept in insertion order
// alongside the name->archive lookup so Link's "unspecified but
// deterministic-per-run order" (spec.md §4.3) is simply "registration
// order" rather than Go's randomized map iteration.
type inputEntry struct {
	name    string
	archive *ctf.Archive
}

// inputRegistry owns every input archive added via AddCTF, mirroring the
// teacher's upstream.Fs slice-plus-lookup idiom in backend/union/union.go
// (a slice for stable iteration order, a map for O(1) re-insertion
// detection).
type inputRegistry struct {
	order  []inputEntry
	byName map[string]int // name -> index into order
}

func newInputRegistry() *inputRegistry {
	return &inputRegistry{byName: make(map[string]int)}
}

// add registers archive under name, overwriting any prior archive
// registered under the same name (documented in SPEC_FULL.md §4.2: last
// write wins, no error on duplicate names).
func (r *inputRegistry) add(name string, archive *ctf.Archive) {
	if i, ok := r.byName[name]; ok {
		r.order[i].archive = archive
		return
	}
	r.byName[name] = len(r.order)
	r.order = append(r.order, inputEntry{name: name, archive: archive})
}

// len reports how many distinct input names are registered.
func (r *inputRegistry) len() int {
	return len(r.order)
}
