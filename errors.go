package agentutils

import "errors"

// Sentinel errors shared by the handle-based subsystems.
var (
	// ErrNoSuchHandle is returned when a handle is unknown to the registry,
	// either because it was never issued or because it has been removed.
	// Callers must be able to tell this apart from "valid handle, nothing
	// new to report".
	ErrNoSuchHandle = errors.New("agentutils: no such handle")
)
