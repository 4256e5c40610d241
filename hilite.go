// Package hilite reads the text currently highlighted in whichever window
// has input focus, and replaces it by synthesising keystrokes.
//
// Both operations are best-effort across an ordered chain of independent
// backends: the UI Automation accessibility API on Windows, selection and
// clipboard tools (wl-paste, xclip, xsel) plus typing injectors (wtype,
// xdotool) on Linux, and a PowerShell clipboard bridge under WSL. The first
// backend that works wins; explicit failure is reported only when every
// candidate has been tried. There is no universal protocol for "the
// selected text" — the contract is best effort across known mechanisms,
// nothing more.
//
// Calls are synchronous and blocking with no timeout or cancellation layer:
// a hung external tool hangs the caller. Concurrent callers get no
// synchronisation beyond what the OS gives them — the focus and selection
// they are inspecting is shared mutable state owned by the OS.
package hilite

import (
	"errors"
	"log/slog"
	"os"
	"sync"

	"go.klb.dev/hilite/internal/backend"
	"go.klb.dev/hilite/internal/chain"
	"go.klb.dev/hilite/internal/platform"
	"go.klb.dev/hilite/internal/runner"
	"go.klb.dev/hilite/internal/uia"
)

// Write-path failure reasons for the case where no backend could run at
// all. A *BackendError is returned instead when a backend ran and failed.
var (
	// ErrTypingUnsupported means the process runs under WSL and no GUI
	// typing tool is installed, so there is nothing that can reach the
	// focused window.
	ErrTypingUnsupported = errors.New("typing is not supported in this environment: no GUI typing tool available under WSL")

	// ErrNoTypingBackend means no typing-capable backend exists at all.
	ErrNoTypingBackend = errors.New("no typing tool available (install wtype or xdotool)")
)

// BackendError names the backend whose execution failed. Multiple failed
// backends are joined; errors.As extracts the first.
type BackendError = chain.BackendError

// fatal aborts on an unsupported OS family. Running there is a deployment
// error, not a runtime condition, so it is deliberately process-terminating
// rather than a recoverable error return. Replaced in tests.
var fatal = func(op string) {
	slog.Error("hilite: " + op + ": unsupported platform")
	os.Exit(1)
}

// Selector resolves backend chains and executes the two operations. The
// zero value is not usable; construct with New. All fields are fixed at
// construction, so a Selector is safe for concurrent use (subject to the
// OS-state caveat in the package comment).
type Selector struct {
	env  platform.Environment
	run  runner.Runner
	auto uia.Automation
	bus  backend.BusFunc
	log  *slog.Logger
}

// Option configures a Selector. The defaults talk to the real machine;
// options exist mainly so chains can be exercised against fakes.
type Option func(*Selector)

// WithEnvironment pins the environment class instead of detecting it.
func WithEnvironment(env platform.Environment) Option {
	return func(s *Selector) { s.env = env }
}

// WithRunner substitutes the subprocess runner.
func WithRunner(r runner.Runner) Option {
	return func(s *Selector) { s.run = r }
}

// WithAutomation substitutes the accessibility automation API.
func WithAutomation(a uia.Automation) Option {
	return func(s *Selector) { s.auto = a }
}

// WithLogger routes hilite's debug logging to l instead of slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Selector) { s.log = l }
}

// New builds a Selector for the detected environment.
func New(opts ...Option) *Selector {
	s := &Selector{
		env:  platform.Detect(),
		run:  runner.System{},
		auto: uia.New(),
		log:  slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Selector) deps() backend.Deps {
	return backend.Deps{Runner: s.run, Auto: s.auto, Bus: s.bus}
}

// GetHighlightedText returns the text currently selected in the focused
// window and true, or "" and false when no backend found a non-empty
// selection. Backend errors collapse into the false case. On an
// unsupported OS family the call terminates the process.
func (s *Selector) GetHighlightedText() (string, bool) {
	if s.env == platform.Unsupported {
		fatal("GetHighlightedText")
	}
	cands := backend.Candidates(s.env, backend.OpRead, s.deps())
	return chain.Read(s.log, cands)
}

// ReplaceHighlightedText types text into the focused window, replacing the
// current selection. It returns nil on the first backend that completes,
// a *BackendError (possibly joined) when backends ran and failed, and
// ErrTypingUnsupported or ErrNoTypingBackend when none could run. On an
// unsupported OS family the call terminates the process.
func (s *Selector) ReplaceHighlightedText(text string) error {
	if s.env == platform.Unsupported {
		fatal("ReplaceHighlightedText")
	}
	cands := backend.Candidates(s.env, backend.OpWrite, s.deps())
	if len(cands) == 0 {
		if s.env == platform.WSL {
			return ErrTypingUnsupported
		}
		return ErrNoTypingBackend
	}
	return chain.Write(s.log, cands, text)
}

var defaultSelector = sync.OnceValue(func() *Selector { return New() })

// GetHighlightedText calls Selector.GetHighlightedText on a process-wide
// default Selector.
func GetHighlightedText() (string, bool) {
	return defaultSelector().GetHighlightedText()
}

// ReplaceHighlightedText calls Selector.ReplaceHighlightedText on a
// process-wide default Selector.
func ReplaceHighlightedText(text string) error {
	return defaultSelector().ReplaceHighlightedText(text)
}
