//go:build !linux || !cgo

package backend

// newNativeClipboard returns nil where the in-process clipboard binding is
// not built (non-Linux, or cgo disabled). The probe skips nil entries.
func newNativeClipboard() Backend { return nil }
