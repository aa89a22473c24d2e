package ctf

import "errors"

// Sentinel error kinds returned by container and archive operations.
//
// These mirror the abstract error kinds named in the linker specification
// (added-late, out-of-memory, conflict, no-such-name, invalid-argument,
// not-yet-implemented, format-error) rather than an enum of numeric errno
// values, following the teacher's style of exported sentinel errors
// (fs.ErrorObjectNotFound and friends in backend/union) in place of
// ctf_errno()/ECTF_* codes.
var (
	// ErrConflict is returned by AddType when a same-named but
	// structurally distinct type already exists in the destination.
	ErrConflict = errors.New("ctf: conflicting type definition")

	// ErrNoSuchName is returned by ArcOpenByName when the requested
	// member (or the default member) does not exist in the archive.
	ErrNoSuchName = errors.New("ctf: no archive member of that name")

	// ErrFormat indicates malformed container or archive data.
	ErrFormat = errors.New("ctf: malformed container data")

	// ErrClosed names the closed-container error kind. No operation in
	// this package returns it: Container.Close only marks the container,
	// and later operations on it are not checked.
	ErrClosed = errors.New("ctf: container is closed")
)
