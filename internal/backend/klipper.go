package backend

import (
	"github.com/godbus/dbus/v5"
)

const (
	klipperBusName   = "org.kde.klipper"
	klipperPath      = dbus.ObjectPath("/klipper")
	klipperGetMethod = "org.kde.klipper.klipper.getClipboardContents"
)

// BusFunc opens a connection to the session bus. Injected so tests never
// touch a real bus; nil means dbus.SessionBus.
type BusFunc func() (*dbus.Conn, error)

// klipperReader reads the clipboard from KDE's klipper over D-Bus. It is the
// lowest-priority reader: a klipper instance is only present on KDE desktops,
// but when it is, it works even where no selection tool is installed.
type klipperReader struct {
	bus BusFunc
}

func newKlipper(bus BusFunc) Backend {
	if bus == nil {
		bus = dbus.SessionBus
	}
	return &klipperReader{bus: bus}
}

func (k *klipperReader) ID() string     { return "klipper-dbus" }
func (k *klipperReader) CanRead() bool  { return true }
func (k *klipperReader) CanWrite() bool { return false }

// Available dials the session bus and asks whether klipper owns its name.
// No clipboard data is touched.
func (k *klipperReader) Available() bool {
	conn, err := k.bus()
	if err != nil {
		return false
	}
	var owned bool
	err = conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, klipperBusName).Store(&owned)
	return err == nil && owned
}

func (k *klipperReader) Read() (string, error) {
	conn, err := k.bus()
	if err != nil {
		return "", err
	}
	var text string
	if err := conn.Object(klipperBusName, klipperPath).Call(klipperGetMethod, 0).Store(&text); err != nil {
		return "", err
	}
	return text, nil
}

func (k *klipperReader) Write(string) error { return errNotWritable }
