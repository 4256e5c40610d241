// Package backend defines the selection and typing backends and the
// capability probe that orders them for a given environment.
//
// A backend is one independent mechanism for reaching the focused window's
// selection: an external selection/clipboard tool run as a subprocess, a
// D-Bus clipboard service, an in-process clipboard binding, or the OS
// accessibility API. Backends are cheap transient values — the probe builds
// a fresh ordered list per call, so nothing here holds state between calls.
package backend

import "errors"

// Op is the operation a chain is being assembled for.
type Op int

const (
	// OpRead reads the highlighted/selected text.
	OpRead Op = iota
	// OpWrite replaces the selection by synthesising input.
	OpWrite
)

// Backend is one mechanism for reading or writing the focused selection.
type Backend interface {
	// ID is a stable identifier used in diagnostics and failure reasons.
	ID() string

	// CanRead and CanWrite are the backend's capability flags.
	CanRead() bool
	CanWrite() bool

	// Available reports whether the backend could plausibly work right
	// now (tool on PATH, service reachable). Cheap and side-effect free:
	// it never performs the read or write itself.
	Available() bool

	// Read returns the selected text. Empty output is not an error.
	Read() (string, error)

	// Write synthesises text as input into the focused target.
	Write(text string) error
}

var (
	errNotReadable = errors.New("backend cannot read")
	errNotWritable = errors.New("backend cannot write")
)

func supports(b Backend, op Op) bool {
	if op == OpWrite {
		return b.CanWrite()
	}
	return b.CanRead()
}
