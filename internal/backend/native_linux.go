//go:build linux && cgo

package backend

import (
	"sync"

	"golang.design/x/clipboard"
)

// clipboardInit initialises the in-process clipboard binding once. Init
// fails on headless machines, which simply marks the backend unavailable.
var clipboardInit = sync.OnceValue(func() error {
	return clipboard.Init()
})

// nativeClipboard reads the clipboard in-process, without spawning a tool.
// Last-resort reader on native Linux desktops where none of the external
// tools are installed.
type nativeClipboard struct{}

func newNativeClipboard() Backend { return nativeClipboard{} }

func (nativeClipboard) ID() string      { return "clipboard-native" }
func (nativeClipboard) CanRead() bool   { return true }
func (nativeClipboard) CanWrite() bool  { return false }
func (nativeClipboard) Available() bool { return clipboardInit() == nil }

func (nativeClipboard) Read() (string, error) {
	if err := clipboardInit(); err != nil {
		return "", err
	}
	return string(clipboard.Read(clipboard.FmtText)), nil
}

func (nativeClipboard) Write(string) error { return errNotWritable }
