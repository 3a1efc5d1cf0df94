package repositories

import "errors"

// Error taxonomy shared by all repositories and services.
// Callers match with errors.Is; implementations wrap these with context.
var (
	// ErrNotFound indicates a lookup miss on a script, provider, or relation.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a uniqueness violation on insert.
	ErrDuplicate = errors.New("duplicate")

	// ErrForbidden indicates an authorization or ownership mismatch.
	ErrForbidden = errors.New("forbidden")

	// ErrLocked indicates a mutation attempted on a script that is
	// currently approved by at least one provider.
	ErrLocked = errors.New("locked")

	// ErrInvalidState indicates a structural invariant breach, such as an
	// approval counter underflow. It is never user-correctable.
	ErrInvalidState = errors.New("invalid state")
)
