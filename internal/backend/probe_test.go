package backend

import (
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/hilite/internal/platform"
)

// busless keeps D-Bus out of probe tests.
func busless() (*dbus.Conn, error) { return nil, errors.New("no session bus") }

func ids(bs []Backend) []string {
	out := make([]string, 0, len(bs))
	for _, b := range bs {
		if b == nil {
			continue
		}
		out = append(out, b.ID())
	}
	return out
}

var linuxReadOrder = []string{
	"wl-paste-primary",
	"wl-paste-clipboard",
	"xclip-primary",
	"xclip-clipboard",
	"xsel-primary",
	"xsel-clipboard",
}

func TestReadTableLinuxOrder(t *testing.T) {
	deps := Deps{Runner: &fakeRunner{}, Bus: busless}
	got := ids(readTable(platform.Linux, deps))

	want := append(append([]string{}, linuxReadOrder...), "klipper-dbus")
	require.GreaterOrEqual(t, len(got), len(want))
	assert.Equal(t, want, got[:len(want)])
	// Only the cgo clipboard binding may follow.
	for _, id := range got[len(want):] {
		assert.Equal(t, "clipboard-native", id)
	}
}

func TestReadTableWSLOrder(t *testing.T) {
	deps := Deps{Runner: &fakeRunner{}, Bus: busless}
	got := ids(readTable(platform.WSL, deps))

	want := append([]string{"powershell-clipboard"}, linuxReadOrder...)
	want = append(want, "klipper-dbus")
	assert.Equal(t, want, got)
}

func TestCandidatesFiltersUnavailable(t *testing.T) {
	r := &fakeRunner{tools: map[string]bool{"xclip": true}}
	deps := Deps{Runner: r, Bus: busless}

	got := ids(Candidates(platform.WSL, OpRead, deps))
	assert.Equal(t, []string{"xclip-primary", "xclip-clipboard"}, got)
}

func TestCandidatesDeterministic(t *testing.T) {
	r := &fakeRunner{tools: map[string]bool{"wl-paste": true, "xdotool": true, "powershell.exe": true}}
	deps := Deps{Runner: r, Bus: busless}

	for _, op := range []Op{OpRead, OpWrite} {
		first := ids(Candidates(platform.WSL, op, deps))
		second := ids(Candidates(platform.WSL, op, deps))
		assert.Equal(t, first, second)
	}
}

func TestCandidatesWSLBridgeFirst(t *testing.T) {
	r := &fakeRunner{tools: map[string]bool{"powershell.exe": true, "xclip": true}}
	deps := Deps{Runner: r, Bus: busless}

	got := ids(Candidates(platform.WSL, OpRead, deps))
	assert.Equal(t, []string{"powershell-clipboard", "xclip-primary", "xclip-clipboard"}, got)
}

func TestCandidatesWriteOrder(t *testing.T) {
	r := &fakeRunner{tools: map[string]bool{"wtype": true, "xdotool": true}}
	deps := Deps{Runner: r, Bus: busless}

	assert.Equal(t, []string{"wtype", "xdotool"},
		ids(Candidates(platform.Linux, OpWrite, deps)))

	r.tools["wtype"] = false
	assert.Equal(t, []string{"xdotool"},
		ids(Candidates(platform.Linux, OpWrite, deps)))
}

func TestCandidatesWindows(t *testing.T) {
	deps := Deps{Runner: &fakeRunner{}, Auto: &fakeAutomation{up: true}, Bus: busless}

	assert.Equal(t, []string{"uia"}, ids(Candidates(platform.Windows, OpRead, deps)))
	assert.Equal(t, []string{"uia"}, ids(Candidates(platform.Windows, OpWrite, deps)))
}

func TestCandidatesWindowsAutomationUnreachable(t *testing.T) {
	deps := Deps{Runner: &fakeRunner{}, Auto: &fakeAutomation{up: false}, Bus: busless}
	assert.Empty(t, Candidates(platform.Windows, OpRead, deps))
}

func TestCandidatesUnsupported(t *testing.T) {
	deps := Deps{Runner: &fakeRunner{}, Bus: busless}
	assert.Nil(t, Candidates(platform.Unsupported, OpRead, deps))
	assert.Nil(t, Candidates(platform.Unsupported, OpWrite, deps))
}

func TestCandidatesReadersNeverType(t *testing.T) {
	r := &fakeRunner{tools: map[string]bool{"xclip": true, "xsel": true, "wl-paste": true}}
	deps := Deps{Runner: r, Bus: busless}

	for _, b := range Candidates(platform.Linux, OpWrite, deps) {
		assert.True(t, b.CanWrite(), "write chain must only hold typing-capable backends, got %s", b.ID())
	}
}
