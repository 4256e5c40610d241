// Package chain executes an ordered list of backend candidates, strictly
// sequentially and blocking, until one succeeds or the list is exhausted.
//
// Failures inside a single backend never escape a chain: a read error is
// treated the same as an empty result, and a write error is recorded as a
// per-backend reason while the next candidate is tried. Only full
// exhaustion becomes visible to the caller.
package chain

import (
	"errors"
	"fmt"
	"log/slog"

	"go.klb.dev/hilite/internal/backend"
)

// Read tries candidates in order and returns the first non-empty text,
// short-circuiting the rest. Exhaustion is the normal "nothing highlighted"
// outcome, not an error; callers cannot distinguish it from every backend
// having failed, which is intentional.
func Read(log *slog.Logger, cands []backend.Backend) (string, bool) {
	for _, b := range cands {
		text, err := b.Read()
		if err != nil {
			log.Debug("selection read failed", "backend", b.ID(), "err", err)
			continue
		}
		if text == "" {
			log.Debug("selection read empty", "backend", b.ID())
			continue
		}
		log.Debug("selection read", "backend", b.ID(), "preview", preview(text))
		return text, true
	}
	return "", false
}

// BackendError reports that a specific backend ran and failed. The backend
// name is part of the caller-visible reason.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string { return fmt.Sprintf("%s failed: %v", e.Backend, e.Err) }
func (e *BackendError) Unwrap() error { return e.Err }

// Write tries candidates in order; the first clean completion wins and
// short-circuits. A failure does not: the per-backend reason is kept and
// the next candidate is tried. Exhaustion returns the joined reasons.
func Write(log *slog.Logger, cands []backend.Backend, text string) error {
	var failures []error
	for _, b := range cands {
		if err := b.Write(text); err != nil {
			log.Debug("typing failed", "backend", b.ID(), "err", err)
			failures = append(failures, &BackendError{Backend: b.ID(), Err: err})
			continue
		}
		log.Debug("typed replacement", "backend", b.ID(), "chars", len(text))
		return nil
	}
	return errors.Join(failures...)
}

// preview truncates text for debug logs.
func preview(s string) string {
	if len(s) <= 120 {
		return s
	}
	return s[:120] + "…"
}
