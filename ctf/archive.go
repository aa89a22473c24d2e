package ctf

// DefaultMemberName is the name of an archive's default member — the
// member opened by ArcOpenByName when no explicit name is given. It plays
// the role of _CTF_SECTION (".ctf" in the original). The name given to
// slot 0 when writing an archive is chosen by ArcWriteFD's caller, not by
// this constant.
const DefaultMemberName = ".ctf"

// Archive is a named, ordered bundle of containers with a designated
// default member. Archives are constructed directly by a caller that has
// already parsed object files and extracted CTF sections — parsing that
// input format is explicitly out of scope (spec.md §1); this type is only
// ever built with AddMember, never decoded from bytes.
type Archive struct {
	members []archiveMember
}

type archiveMember struct {
	name      string
	container *Container
}

// NewArchive returns an empty archive.
func NewArchive() *Archive {
	return &Archive{}
}

// AddMember appends a member to the archive under name. The first member
// added under DefaultMemberName becomes the archive's default member.
func (a *Archive) AddMember(name string, c *Container) {
	a.members = append(a.members, archiveMember{name: name, container: c})
}

// ArcOpenByName returns the member named name, or the default member if
// name is "". It plays the role of arc_open_by_name(): a missing default
// member (or a missing named member) is reported as ErrNoSuchName, which
// callers distinguish from other errors (spec.md §4.3 step 2a).
func (a *Archive) ArcOpenByName(name string) (*Container, error) {
	if name == "" {
		name = DefaultMemberName
	}
	for _, m := range a.members {
		if m.name == name {
			return m.container, nil
		}
	}
	return nil, ErrNoSuchName
}

// ArchiveIter visits every member of the archive, in the order members
// were added (this may include the default member again — callers that
// care use the done-main-member latch, as spec.md §5 requires). It plays
// the role of archive_iter().
func (a *Archive) ArchiveIter(visit func(name string, c *Container) error) error {
	for _, m := range a.members {
		if err := visit(m.name, m.container); err != nil {
			return err
		}
	}
	return nil
}
