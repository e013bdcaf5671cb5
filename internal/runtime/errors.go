package runtime

import "errors"

var (
	// ErrInvalidTransition indicates a lifecycle call not allowed in the current state.
	ErrInvalidTransition = errors.New("runtime: invalid lifecycle transition")

	// ErrTornDown indicates the session has ended and cannot be reused.
	ErrTornDown = errors.New("runtime: session torn down")

	// ErrNoDocument indicates a build was requested before a document was loaded.
	ErrNoDocument = errors.New("runtime: no scene document")

	// ErrLoopStopped indicates a command was sent to a loop that is not running.
	ErrLoopStopped = errors.New("runtime: loop stopped")
)
