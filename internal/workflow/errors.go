package workflow

import "errors"

// Error taxonomy for engine operations. Transports map these onto their own
// status codes; the engine never retries.
var (
	// ErrInvalidInput covers empty user ids, non-positive client ids and
	// unrecognized reference types.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoActiveSession is returned by Next and Status when no live session
	// exists for the user, including after TTL expiry.
	ErrNoActiveSession = errors.New("no active session")

	// ErrMissingNewValue is returned by Next when confirmed=false and no
	// replacement value was supplied.
	ErrMissingNewValue = errors.New("new value is required when not confirming")

	// ErrExternalUpdate wraps a failed client-record write. The session is
	// left untouched.
	ErrExternalUpdate = errors.New("client record update failed")

	// ErrStore wraps a session store failure. The session is left untouched.
	ErrStore = errors.New("session store failure")
)
