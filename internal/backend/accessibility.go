package backend

import (
	"go.klb.dev/hilite/internal/uia"
)

// accessibility reads and types through the OS automation API. It is the
// only backend on Windows because it already layers three read strategies:
// the focused control's text-selection query, then its plain value, then an
// exhaustive walk of the UI tree for any control exposing a non-empty
// selection.
type accessibility struct {
	auto uia.Automation
}

func newAccessibility(auto uia.Automation) Backend {
	return &accessibility{auto: auto}
}

func (a *accessibility) ID() string      { return "uia" }
func (a *accessibility) CanRead() bool   { return true }
func (a *accessibility) CanWrite() bool  { return true }
func (a *accessibility) Available() bool { return a.auto.Available() }

func (a *accessibility) Read() (string, error) {
	if el, err := a.auto.Focused(); err == nil && el != nil {
		text, ok := readFocused(el)
		el.Release()
		if ok {
			return text, nil
		}
	}

	root, err := a.auto.Root()
	if err != nil || root == nil {
		return "", err
	}
	defer root.Release()
	return walkSelection(root), nil
}

// readFocused tries the focused control's selection range, then its value.
func readFocused(el uia.Element) (string, bool) {
	if text, err := el.SelectionText(); err == nil && text != "" {
		return text, true
	}
	if v, err := el.Value(); err == nil && v != "" {
		return v, true
	}
	return "", false
}

// walkSelection searches the subtree depth-first for a control exposing
// non-empty selected text. First hit wins; an exhausted walk yields "".
func walkSelection(el uia.Element) string {
	kids, err := el.Children()
	if err != nil {
		return ""
	}
	var found string
	for _, k := range kids {
		if found == "" {
			if text, err := k.SelectionText(); err == nil && text != "" {
				found = text
			} else {
				found = walkSelection(k)
			}
		}
		k.Release()
	}
	return found
}

// Write injects the text as Unicode key events. Success is reported once
// injection has been invoked — there is no verification that the events
// landed in the target. Known latitude, kept as-is.
func (a *accessibility) Write(text string) error {
	return a.auto.SendText(text)
}
