package backend

import (
	"strings"

	"go.klb.dev/hilite/internal/runner"
)

// toolReader reads a selection or clipboard by running an external tool and
// capturing its standard output. Availability is a pure PATH probe.
type toolReader struct {
	id   string
	run  runner.Runner
	name string
	args []string

	// crlf marks output that crosses the Windows host boundary and so
	// arrives with CRLF line endings; it is normalised to LF on read.
	crlf bool
}

func (t *toolReader) ID() string      { return t.id }
func (t *toolReader) CanRead() bool   { return true }
func (t *toolReader) CanWrite() bool  { return false }
func (t *toolReader) Available() bool { return t.run.Look(t.name) }

func (t *toolReader) Read() (string, error) {
	out, err := t.run.Output(t.name, t.args...)
	if err != nil {
		return "", err
	}
	if t.crlf {
		out = strings.ReplaceAll(out, "\r\n", "\n")
	}
	return out, nil
}

func (t *toolReader) Write(string) error { return errNotWritable }

// toolTyper synthesises text into the focused window by running an external
// typing tool with the text as its final argument.
type toolTyper struct {
	id   string
	run  runner.Runner
	name string
	args []string
}

func (t *toolTyper) ID() string      { return t.id }
func (t *toolTyper) CanRead() bool   { return false }
func (t *toolTyper) CanWrite() bool  { return true }
func (t *toolTyper) Available() bool { return t.run.Look(t.name) }

func (t *toolTyper) Read() (string, error) { return "", errNotReadable }

func (t *toolTyper) Write(text string) error {
	args := make([]string, 0, len(t.args)+1)
	args = append(args, t.args...)
	args = append(args, text)
	return t.run.Run(t.name, args...)
}

// Selection/clipboard readers, three tool families. The primary selection is
// the text currently highlighted under X11/Wayland; the clipboard variants
// cover environments where only explicit copies are visible.

func wlPastePrimary(r runner.Runner) Backend {
	return &toolReader{id: "wl-paste-primary", run: r, name: "wl-paste", args: []string{"--primary", "--no-newline"}}
}

func wlPasteClipboard(r runner.Runner) Backend {
	return &toolReader{id: "wl-paste-clipboard", run: r, name: "wl-paste", args: []string{"--no-newline"}}
}

func xclipPrimary(r runner.Runner) Backend {
	return &toolReader{id: "xclip-primary", run: r, name: "xclip", args: []string{"-o", "-selection", "primary"}}
}

func xclipClipboard(r runner.Runner) Backend {
	return &toolReader{id: "xclip-clipboard", run: r, name: "xclip", args: []string{"-o", "-selection", "clipboard"}}
}

func xselPrimary(r runner.Runner) Backend {
	return &toolReader{id: "xsel-primary", run: r, name: "xsel", args: []string{"-p"}}
}

func xselClipboard(r runner.Runner) Backend {
	return &toolReader{id: "xsel-clipboard", run: r, name: "xsel", args: []string{"-b"}}
}

// hostClipboard bridges to the Windows host clipboard from inside WSL. The
// Windows PowerShell on the PATH is the bridging executable; its output is
// CRLF-terminated and gets normalised.
func hostClipboard(r runner.Runner) Backend {
	return &toolReader{
		id:   "powershell-clipboard",
		run:  r,
		name: "powershell.exe",
		args: []string{"-NoProfile", "-Command", "Get-Clipboard"},
		crlf: true,
	}
}

// Typing injectors.

func wtypeTyper(r runner.Runner) Backend {
	return &toolTyper{id: "wtype", run: r, name: "wtype", args: []string{"--"}}
}

func xdotoolTyper(r runner.Runner) Backend {
	return &toolTyper{id: "xdotool", run: r, name: "xdotool", args: []string{"type", "--clearmodifiers", "--"}}
}
