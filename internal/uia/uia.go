// Package uia wraps the OS accessibility/automation API behind a small
// capability contract. The API itself is an external collaborator — on
// Windows it is UI Automation reached over COM, elsewhere there is nothing
// to wrap and New returns a permanently unavailable implementation.
//
// Keeping the contract this narrow lets the accessibility backend and its
// read-fallback ladder live in portable code that tests drive with fakes.
package uia

// Element is one control in the accessibility tree.
type Element interface {
	// SelectionText returns the text currently selected inside the
	// control, via its text-selection query. Controls that expose no
	// text capability return an error.
	SelectionText() (string, error)

	// Value returns the control's plain value text.
	Value() (string, error)

	// Children returns the element's child controls in the raw view of
	// the tree, for exhaustive walks.
	Children() ([]Element, error)

	// Release drops the underlying OS handle. No-op where there is none.
	Release()
}

// Automation is the capability contract consumed by the accessibility
// backend: focused-element lookup, tree access, and Unicode key injection.
type Automation interface {
	// Available reports whether the automation API was reachable.
	// Cheap and side-effect free.
	Available() bool

	// Focused returns the element that currently has input focus.
	Focused() (Element, error)

	// Root returns the root of the UI tree (the desktop).
	Root() (Element, error)

	// SendText injects the text into the focused window as low-level
	// Unicode key events, one key-down/key-up pair per UTF-16 unit.
	SendText(text string) error
}

// Unavailable is the Automation returned where no automation API exists.
type Unavailable struct{ Err error }

func (u Unavailable) Available() bool           { return false }
func (u Unavailable) Focused() (Element, error) { return nil, u.Err }
func (u Unavailable) Root() (Element, error)    { return nil, u.Err }
func (u Unavailable) SendText(string) error     { return u.Err }
