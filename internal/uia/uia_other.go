//go:build !windows

package uia

import "errors"

// New returns an Automation that reports itself unavailable: UI Automation
// only exists on Windows.
func New() Automation {
	return Unavailable{Err: errors.New("ui automation is only available on windows")}
}
