package backend

import (
	"go.klb.dev/hilite/internal/platform"
	"go.klb.dev/hilite/internal/runner"
	"go.klb.dev/hilite/internal/uia"
)

// Deps carries the external collaborators that backends are built from.
// Bus may be nil, which means the real session bus.
type Deps struct {
	Runner runner.Runner
	Auto   uia.Automation
	Bus    BusFunc
}

// Candidates returns the ordered backends for an operation under an
// environment, with unavailable ones filtered out. The ordering is a pure
// function of the static tables below — the same (environment, operation)
// pair always yields the same candidate sequence; only the availability
// filter consults the machine, and it never performs the operation itself.
func Candidates(env platform.Environment, op Op, deps Deps) []Backend {
	var table []Backend
	switch {
	case env == platform.Unsupported:
		return nil
	case env == platform.Windows:
		// Windows needs exactly one backend: the accessibility backend
		// internally layers its own read fallbacks.
		table = []Backend{newAccessibility(deps.Auto)}
	case op == OpRead:
		table = readTable(env, deps)
	default:
		table = []Backend{wtypeTyper(deps.Runner), xdotoolTyper(deps.Runner)}
	}

	out := make([]Backend, 0, len(table))
	for _, b := range table {
		if b == nil || !supports(b, op) || !b.Available() {
			continue
		}
		out = append(out, b)
	}
	return out
}

// readTable is the Linux-family read priority order: primary selection
// before clipboard within each tool family, Wayland tools before X11 ones.
// Under WSL the host bridge is prepended with top priority. The klipper and
// in-process fallbacks come strictly after every external tool.
func readTable(env platform.Environment, deps Deps) []Backend {
	r := deps.Runner
	table := make([]Backend, 0, 9)
	if env == platform.WSL {
		table = append(table, hostClipboard(r))
	}
	table = append(table,
		wlPastePrimary(r),
		wlPasteClipboard(r),
		xclipPrimary(r),
		xclipClipboard(r),
		xselPrimary(r),
		xselClipboard(r),
		newKlipper(deps.Bus),
	)
	if env == platform.Linux {
		table = append(table, newNativeClipboard())
	}
	return table
}
