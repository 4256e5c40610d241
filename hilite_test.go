package hilite

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/hilite/internal/platform"
	"go.klb.dev/hilite/internal/uia"
	"go.klb.dev/hilite/logging"
)

func TestMain(m *testing.M) {
	slog.SetDefault(logging.New(io.Discard, logging.FormatJSON, slog.LevelDebug))
	os.Exit(m.Run())
}

// Fakes for the two external collaborators.

type fakeRunner struct {
	tools  map[string]bool
	out    map[string]string
	runErr map[string]error

	runCalls []string
}

func (f *fakeRunner) Look(name string) bool { return f.tools[name] }

func (f *fakeRunner) Output(name string, _ ...string) (string, error) {
	out, ok := f.out[name]
	if !ok {
		return "", errors.New(name + ": exit status 1")
	}
	return out, nil
}

func (f *fakeRunner) Run(name string, _ ...string) error {
	f.runCalls = append(f.runCalls, name)
	return f.runErr[name]
}

type fakeElement struct {
	sel    string
	selErr error
	val    string
	valErr error
	kids   []uia.Element
}

func (f *fakeElement) SelectionText() (string, error)   { return f.sel, f.selErr }
func (f *fakeElement) Value() (string, error)           { return f.val, f.valErr }
func (f *fakeElement) Children() ([]uia.Element, error) { return f.kids, nil }
func (f *fakeElement) Release()                         {}

type fakeAutomation struct {
	focused uia.Element
	root    uia.Element
}

func (f *fakeAutomation) Available() bool               { return true }
func (f *fakeAutomation) Focused() (uia.Element, error) { return f.focused, nil }
func (f *fakeAutomation) Root() (uia.Element, error)    { return f.root, nil }
func (f *fakeAutomation) SendText(string) error         { return nil }

func busless() (*dbus.Conn, error) { return nil, errors.New("no session bus") }

// newTestSelector builds a Selector wired entirely to fakes.
func newTestSelector(env platform.Environment, r *fakeRunner, auto uia.Automation, opts ...Option) *Selector {
	if auto == nil {
		auto = uia.Unavailable{Err: errors.New("n/a")}
	}
	s := New(append([]Option{WithEnvironment(env), WithRunner(r), WithAutomation(auto)}, opts...)...)
	s.bus = busless
	return s
}

// stubFatal replaces the process-terminating hook for the duration of the
// test and records the operations that hit it.
func stubFatal(t *testing.T) *[]string {
	t.Helper()
	old := fatal
	t.Cleanup(func() { fatal = old })
	var ops []string
	fatal = func(op string) { ops = append(ops, op) }
	return &ops
}

func TestReadWindowsValueFallback(t *testing.T) {
	// Focused control has no readable selection range, but its value
	// pattern yields "hello".
	auto := &fakeAutomation{
		focused: &fakeElement{selErr: errors.New("text pattern not supported"), val: "hello"},
	}
	s := newTestSelector(platform.Windows, &fakeRunner{}, auto)

	text, ok := s.GetHighlightedText()
	require.True(t, ok)
	assert.Equal(t, "hello", text)
}

func TestReadWSLEverythingEmpty(t *testing.T) {
	// Host bridge answers with an empty clipboard and no Linux-style
	// reader is installed.
	r := &fakeRunner{
		tools: map[string]bool{"powershell.exe": true},
		out:   map[string]string{"powershell.exe": ""},
	}
	s := newTestSelector(platform.WSL, r, nil)

	text, ok := s.GetHighlightedText()
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestReadWSLBridgeNormalizesLineEndings(t *testing.T) {
	r := &fakeRunner{
		tools: map[string]bool{"powershell.exe": true},
		out:   map[string]string{"powershell.exe": "a\r\nb\r\n"},
	}
	s := newTestSelector(platform.WSL, r, nil)

	text, ok := s.GetHighlightedText()
	require.True(t, ok)
	assert.Equal(t, "a\nb\n", text)
}

func TestReadLinuxFirstToolWins(t *testing.T) {
	r := &fakeRunner{
		tools: map[string]bool{"wl-paste": true, "xclip": true},
		out:   map[string]string{"wl-paste": "from wayland", "xclip": "from x11"},
	}
	s := newTestSelector(platform.Linux, r, nil)

	text, ok := s.GetHighlightedText()
	require.True(t, ok)
	assert.Equal(t, "from wayland", text)
}

func TestWriteWSLWithoutTypingTool(t *testing.T) {
	s := newTestSelector(platform.WSL, &fakeRunner{tools: map[string]bool{"powershell.exe": true}}, nil)

	err := s.ReplaceHighlightedText("x")
	assert.ErrorIs(t, err, ErrTypingUnsupported)
}

func TestWriteLinuxWithoutTypingTool(t *testing.T) {
	s := newTestSelector(platform.Linux, &fakeRunner{}, nil)

	err := s.ReplaceHighlightedText("x")
	assert.ErrorIs(t, err, ErrNoTypingBackend)
}

func TestWriteFailureNamesBackend(t *testing.T) {
	r := &fakeRunner{
		tools:  map[string]bool{"wtype": true},
		runErr: map[string]error{"wtype": errors.New("exit status 1")},
	}
	s := newTestSelector(platform.Linux, r, nil)

	err := s.ReplaceHighlightedText("x")
	require.Error(t, err)

	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "wtype", be.Backend)
}

func TestWriteFallsThroughToNextTyper(t *testing.T) {
	r := &fakeRunner{
		tools:  map[string]bool{"wtype": true, "xdotool": true},
		runErr: map[string]error{"wtype": errors.New("exit status 1")},
	}
	s := newTestSelector(platform.Linux, r, nil)

	require.NoError(t, s.ReplaceHighlightedText("x"))
	assert.Equal(t, []string{"wtype", "xdotool"}, r.runCalls)
}

func TestWriteWindowsAccessibility(t *testing.T) {
	s := newTestSelector(platform.Windows, &fakeRunner{}, &fakeAutomation{})
	assert.NoError(t, s.ReplaceHighlightedText("typed"))
}

func TestUnsupportedPlatformAborts(t *testing.T) {
	ops := stubFatal(t)
	s := newTestSelector(platform.Unsupported, &fakeRunner{}, nil)

	s.GetHighlightedText()
	s.ReplaceHighlightedText("x")

	assert.Equal(t, []string{"GetHighlightedText", "ReplaceHighlightedText"}, *ops)
}

func TestWithLogger(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := newTestSelector(platform.Linux, &fakeRunner{}, nil, WithLogger(log))
	assert.Same(t, log, s.log)
}
