// Package platform classifies the runtime environment once per process.
//
// The interesting case is WSL: a Linux kernel running under Windows, where
// native Linux selection tools are usually absent but the host clipboard is
// reachable through Windows executables on the PATH. Backend selection
// depends on this distinction, so it is resolved here rather than with
// build tags — callers receive a plain value they can also inject in tests.
package platform

import (
	"os"
	"runtime"
	"strings"
	"sync"
)

// Environment is the class of desktop environment the process runs under.
type Environment int

const (
	// Unsupported covers every OS family hilite has no backends for.
	Unsupported Environment = iota

	// Windows is a native Windows desktop.
	Windows

	// Linux is a native Linux desktop (X11 or Wayland).
	Linux

	// WSL is Linux under the Windows Subsystem for Linux, where clipboard
	// access is bridged to the Windows host.
	WSL
)

// String returns the environment name for diagnostics.
func (e Environment) String() string {
	switch e {
	case Windows:
		return "windows"
	case Linux:
		return "linux"
	case WSL:
		return "wsl"
	default:
		return "unsupported"
	}
}

// Kernel release files checked for the WSL marker, in order.
var kernelReleaseFiles = []string{
	"/proc/sys/kernel/osrelease",
	"/proc/version",
}

var (
	detectOnce sync.Once
	detected   Environment
)

// Detect returns the environment class for this process. The result is
// computed once and cached; recomputing is idempotent, so the cache is an
// optimisation, not a correctness requirement.
func Detect() Environment {
	detectOnce.Do(func() {
		detected = detect()
	})
	return detected
}

func detect() Environment {
	switch runtime.GOOS {
	case "windows":
		return Windows
	case "linux":
		for _, path := range kernelReleaseFiles {
			b, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			if IsWSLKernel(string(b)) {
				return WSL
			}
			return Linux
		}
		// Unreadable /proc: indeterminate, assume a plain Linux desktop.
		return Linux
	default:
		return Unsupported
	}
}

// IsWSLKernel reports whether a kernel release string identifies WSL.
// Both WSL1 ("Microsoft") and WSL2 ("microsoft-standard-WSL2") embed the
// vendor name in the release string.
func IsWSLKernel(release string) bool {
	r := strings.ToLower(release)
	return strings.Contains(r, "microsoft") || strings.Contains(r, "wsl")
}
