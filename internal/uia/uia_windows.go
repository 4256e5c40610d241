//go:build windows

package uia

import (
	"fmt"
	"syscall"
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	ole32    = windows.NewLazySystemDLL("ole32.dll")
	oleaut32 = windows.NewLazySystemDLL("oleaut32.dll")

	procSendInput        = user32.NewProc("SendInput")
	procCoInitializeEx   = ole32.NewProc("CoInitializeEx")
	procCoCreateInstance = ole32.NewProc("CoCreateInstance")
	procSysFreeString    = oleaut32.NewProc("SysFreeString")
)

// GUIDs from UIAutomationClient.h.
var (
	clsidCUIAutomation          = windows.GUID{Data1: 0xff48dba4, Data2: 0x60ef, Data3: 0x4201, Data4: [8]byte{0xaa, 0x87, 0x54, 0x10, 0x3e, 0xef, 0x59, 0x4e}}
	iidIUIAutomation            = windows.GUID{Data1: 0x30cbe57d, Data2: 0xd9d0, Data3: 0x452a, Data4: [8]byte{0xab, 0x13, 0x7a, 0xc5, 0xac, 0x48, 0x25, 0xee}}
	iidIUIAutomationTextPattern = windows.GUID{Data1: 0x32eba289, Data2: 0x3583, Data3: 0x42c9, Data4: [8]byte{0x9c, 0x59, 0x3b, 0x6d, 0x9a, 0x1e, 0x9b, 0x6a}}
	iidIUIAutomationValuePattern = windows.GUID{Data1: 0xa94cd8b1, Data2: 0x0844, Data3: 0x4cd6, Data4: [8]byte{0x9d, 0x2d, 0x64, 0x05, 0x37, 0xab, 0x39, 0xe9}}
)

const (
	clsctxInprocServer       = 0x1
	coinitApartmentThreaded  = 0x2
	rpcEChangedMode          = 0x80010106
	uiaTextPatternID         = 10014
	uiaValuePatternID        = 10002
)

// Vtable slot indices, counted from IUnknown (QueryInterface=0, AddRef=1,
// Release=2).
const (
	vtAutoGetRootElement    = 5  // IUIAutomation::GetRootElement
	vtAutoGetFocusedElement = 8  // IUIAutomation::GetFocusedElement
	vtAutoRawViewWalker     = 16 // IUIAutomation::get_RawViewWalker

	vtElemGetCurrentPattern = 16 // IUIAutomationElement::GetCurrentPattern

	vtWalkerFirstChild  = 4 // IUIAutomationTreeWalker::GetFirstChildElement
	vtWalkerNextSibling = 6 // IUIAutomationTreeWalker::GetNextSiblingElement

	vtTextGetSelection = 5 // IUIAutomationTextPattern::GetSelection

	vtRangeArrayLength  = 3 // IUIAutomationTextRangeArray::get_Length
	vtRangeArrayElement = 4 // IUIAutomationTextRangeArray::GetElement

	vtRangeGetText = 12 // IUIAutomationTextRange::GetText

	vtValueCurrentValue = 4 // IUIAutomationValuePattern::get_CurrentValue
)

// comCall invokes the method at the given vtable slot on a raw COM pointer
// and returns the HRESULT.
func comCall(obj uintptr, slot int, args ...uintptr) uintptr {
	vtbl := *(**[1 << 10]uintptr)(unsafe.Pointer(obj))
	all := append([]uintptr{obj}, args...)
	hr, _, _ := syscall.SyscallN(vtbl[slot], all...)
	return hr
}

func comRelease(obj uintptr) {
	if obj != 0 {
		comCall(obj, 2)
	}
}

// comQuery calls IUnknown::QueryInterface for the given IID.
func comQuery(obj uintptr, iid *windows.GUID) (uintptr, error) {
	var out uintptr
	hr := comCall(obj, 0, uintptr(unsafe.Pointer(iid)), uintptr(unsafe.Pointer(&out)))
	if hr != 0 || out == 0 {
		return 0, fmt.Errorf("QueryInterface: hresult 0x%08x", hr)
	}
	return out, nil
}

// bstrToString copies a BSTR into a Go string. The UTF-16 length in bytes
// is stored in the four bytes preceding the data pointer.
func bstrToString(b uintptr) string {
	if b == 0 {
		return ""
	}
	n := *(*uint32)(unsafe.Pointer(b - 4)) / 2
	return string(utf16.Decode(unsafe.Slice((*uint16)(unsafe.Pointer(b)), n)))
}

func freeBSTR(b uintptr) {
	if b != 0 {
		procSysFreeString.Call(b)
	}
}

type automation struct {
	ptr    uintptr // IUIAutomation*
	walker uintptr // IUIAutomationTreeWalker* (raw view), fetched lazily
}

// New connects to the UI Automation COM server. Failure to reach the server
// yields an Unavailable automation rather than an error: the caller treats
// an unreachable API the same as a missing tool.
func New() Automation {
	hr, _, _ := procCoInitializeEx.Call(0, coinitApartmentThreaded)
	// S_OK, S_FALSE (already initialised) and RPC_E_CHANGED_MODE (host app
	// picked a different threading model) all leave COM usable.
	if hr != 0 && hr != 1 && hr != rpcEChangedMode {
		return Unavailable{Err: fmt.Errorf("CoInitializeEx: hresult 0x%08x", hr)}
	}
	var p uintptr
	hr, _, _ = procCoCreateInstance.Call(
		uintptr(unsafe.Pointer(&clsidCUIAutomation)),
		0,
		clsctxInprocServer,
		uintptr(unsafe.Pointer(&iidIUIAutomation)),
		uintptr(unsafe.Pointer(&p)),
	)
	if hr != 0 || p == 0 {
		return Unavailable{Err: fmt.Errorf("CoCreateInstance(CUIAutomation): hresult 0x%08x", hr)}
	}
	return &automation{ptr: p}
}

func (a *automation) Available() bool { return true }

func (a *automation) Focused() (Element, error) {
	var el uintptr
	hr := comCall(a.ptr, vtAutoGetFocusedElement, uintptr(unsafe.Pointer(&el)))
	if hr != 0 || el == 0 {
		return nil, fmt.Errorf("GetFocusedElement: hresult 0x%08x", hr)
	}
	return &element{ptr: el, auto: a}, nil
}

func (a *automation) Root() (Element, error) {
	var el uintptr
	hr := comCall(a.ptr, vtAutoGetRootElement, uintptr(unsafe.Pointer(&el)))
	if hr != 0 || el == 0 {
		return nil, fmt.Errorf("GetRootElement: hresult 0x%08x", hr)
	}
	return &element{ptr: el, auto: a}, nil
}

func (a *automation) rawWalker() (uintptr, error) {
	if a.walker != 0 {
		return a.walker, nil
	}
	var w uintptr
	hr := comCall(a.ptr, vtAutoRawViewWalker, uintptr(unsafe.Pointer(&w)))
	if hr != 0 || w == 0 {
		return 0, fmt.Errorf("get_RawViewWalker: hresult 0x%08x", hr)
	}
	a.walker = w
	return w, nil
}

const (
	keyeventfKeyUp   = 0x0002
	keyeventfUnicode = 0x0004
)

type keybdInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

// input mirrors the Win32 INPUT struct on 64-bit: 4-byte type, 4 bytes of
// union alignment, then the union padded to MOUSEINPUT's 32 bytes.
type input struct {
	typ uint32
	_   uint32
	ki  keybdInput
	_   [8]byte
}

const inputKeyboard = 1

// SendText injects one key-down/key-up pair per UTF-16 unit of text via
// SendInput with KEYEVENTF_UNICODE. Success is reported once injection has
// been invoked; whether the events land in the focused target is not
// verified.
func (a *automation) SendText(text string) error {
	units := utf16.Encode([]rune(text))
	if len(units) == 0 {
		return nil
	}
	events := make([]input, 0, len(units)*2)
	for _, u := range units {
		events = append(events,
			input{typ: inputKeyboard, ki: keybdInput{wScan: u, dwFlags: keyeventfUnicode}},
			input{typ: inputKeyboard, ki: keybdInput{wScan: u, dwFlags: keyeventfUnicode | keyeventfKeyUp}},
		)
	}
	procSendInput.Call(
		uintptr(len(events)),
		uintptr(unsafe.Pointer(&events[0])),
		unsafe.Sizeof(events[0]),
	)
	return nil
}

type element struct {
	ptr  uintptr // IUIAutomationElement*
	auto *automation
}

func (e *element) Release() { comRelease(e.ptr); e.ptr = 0 }

func (e *element) pattern(patternID uintptr, iid *windows.GUID) (uintptr, error) {
	var unk uintptr
	hr := comCall(e.ptr, vtElemGetCurrentPattern, patternID, uintptr(unsafe.Pointer(&unk)))
	if hr != 0 || unk == 0 {
		return 0, fmt.Errorf("GetCurrentPattern(%d): hresult 0x%08x", patternID, hr)
	}
	defer comRelease(unk)
	return comQuery(unk, iid)
}

func (e *element) SelectionText() (string, error) {
	tp, err := e.pattern(uiaTextPatternID, &iidIUIAutomationTextPattern)
	if err != nil {
		return "", err
	}
	defer comRelease(tp)

	var ranges uintptr
	hr := comCall(tp, vtTextGetSelection, uintptr(unsafe.Pointer(&ranges)))
	if hr != 0 || ranges == 0 {
		return "", fmt.Errorf("TextPattern.GetSelection: hresult 0x%08x", hr)
	}
	defer comRelease(ranges)

	var n int32
	if hr := comCall(ranges, vtRangeArrayLength, uintptr(unsafe.Pointer(&n))); hr != 0 {
		return "", fmt.Errorf("TextRangeArray.get_Length: hresult 0x%08x", hr)
	}

	var text string
	for i := int32(0); i < n; i++ {
		var r uintptr
		if hr := comCall(ranges, vtRangeArrayElement, uintptr(i), uintptr(unsafe.Pointer(&r))); hr != 0 || r == 0 {
			continue
		}
		var b uintptr
		// maxLength -1: no truncation.
		hr := comCall(r, vtRangeGetText, ^uintptr(0), uintptr(unsafe.Pointer(&b)))
		if hr == 0 {
			text += bstrToString(b)
			freeBSTR(b)
		}
		comRelease(r)
	}
	return text, nil
}

func (e *element) Value() (string, error) {
	vp, err := e.pattern(uiaValuePatternID, &iidIUIAutomationValuePattern)
	if err != nil {
		return "", err
	}
	defer comRelease(vp)

	var b uintptr
	if hr := comCall(vp, vtValueCurrentValue, uintptr(unsafe.Pointer(&b))); hr != 0 {
		return "", fmt.Errorf("ValuePattern.get_CurrentValue: hresult 0x%08x", hr)
	}
	defer freeBSTR(b)
	return bstrToString(b), nil
}

func (e *element) Children() ([]Element, error) {
	w, err := e.auto.rawWalker()
	if err != nil {
		return nil, err
	}
	var kids []Element
	var child uintptr
	if hr := comCall(w, vtWalkerFirstChild, e.ptr, uintptr(unsafe.Pointer(&child))); hr != 0 {
		return nil, fmt.Errorf("GetFirstChildElement: hresult 0x%08x", hr)
	}
	for child != 0 {
		kids = append(kids, &element{ptr: child, auto: e.auto})
		var next uintptr
		if hr := comCall(w, vtWalkerNextSibling, child, uintptr(unsafe.Pointer(&next))); hr != 0 {
			break
		}
		child = next
	}
	return kids, nil
}
