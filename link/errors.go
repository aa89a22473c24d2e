package link

import "errors"

// Sentinel error kinds returned by the link engine, mirroring ctf's own
// exported-sentinel style (see ctf/errors.go).
var (
	// ErrAddedLate is returned by AddCTF once Link has produced any
	// output container.
	ErrAddedLate = errors.New("link: input added after link has already run")

	// ErrInvalidArgument is returned by the variable relinker when a
	// variable's type cannot be found in the type-mapping index under
	// any container: an internal-invariant violation, not a user error.
	ErrInvalidArgument = errors.New("link: variable type has no recorded mapping")

	// ErrNotYetImplemented is returned by Link for any share mode other
	// than "unconflicted".
	ErrNotYetImplemented = errors.New("link: share mode not yet implemented")
)
