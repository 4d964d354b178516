package loom

import "errors"

// Error kinds per spec §7. Sentinel values so callers can use errors.Is
// across package boundaries (filter and daemon wrap these with context).
var (
	// ErrAlreadyExists is returned by filter install when the target slot
	// is already occupied.
	ErrAlreadyExists = errors.New("loom: filter already exists")

	// ErrNotFound is returned by filter uninstall when the target slot is
	// empty.
	ErrNotFound = errors.New("loom: filter not found")

	// ErrMalformedFilter is returned when a filter file fails to parse
	// per the §6.2 grammar, including an unrecognized filter kind.
	ErrMalformedFilter = errors.New("loom: malformed filter")

	// ErrMalformedCommand is returned by filter install/uninstall when the
	// filter id lies outside the registry's slots. Malformed control-channel
	// messages are answered with a diagnostic response line instead.
	ErrMalformedCommand = errors.New("loom: malformed command")

	// ErrTransportFailure indicates the control-channel socket failed a
	// read or write; the daemon's loop terminates but the rest of the
	// process is unaffected.
	ErrTransportFailure = errors.New("loom: control channel transport failure")
)
