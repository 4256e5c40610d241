// Package runner abstracts subprocess execution behind a small interface so
// backend chains can be exercised in tests with scripted exit codes and
// output instead of real tools.
//
// Calls are synchronous and blocking with no timeout layer: a hung external
// tool hangs the caller. That is a documented limitation of the design, not
// something mitigated here.
package runner

import (
	"bytes"
	"fmt"
	"os/exec"
)

// Runner runs external executables and probes for their presence.
type Runner interface {
	// Look reports whether an executable is locatable on the PATH.
	// It never runs the tool.
	Look(name string) bool

	// Output runs the tool and returns its captured standard output.
	// A non-zero exit status is returned as an error.
	Output(name string, args ...string) (string, error)

	// Run runs the tool and discards its output. A non-zero exit status
	// is returned as an error.
	Run(name string, args ...string) error
}

// System is the Runner backed by os/exec.
type System struct{}

func (System) Look(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func (System) Output(name string, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return out.String(), nil
}

func (System) Run(name string, args ...string) error {
	if err := exec.Command(name, args...).Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
