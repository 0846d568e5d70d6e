//go:build windows

// Package user32 wraps optional user32.dll entry points.
package user32

import (
	"github.com/ZenLiuCN/latebind"
	"golang.org/x/sys/windows"
	"runtime"
	"unsafe"
)

// MB_OK is both a MessageBoxW style and the value returned when user32 is unavailable.
const MB_OK = 0

var (
	table = latebind.MustBind([]latebind.Descriptor{
		{
			Name:      "MessageBoxW",
			Modules:   []string{"user32.dll"},
			Signature: "int MessageBoxW(HWND, LPCWSTR, LPCWSTR, UINT)",
			Fallback:  MB_OK,
			Export:    "__imp_MessageBoxW",
		},
	})
	messageBoxW = table.MustThunk("MessageBoxW")
)

// Table of the bound thunks.
func Table() *latebind.Table {
	return table
}

// MessageBoxW returns MB_OK without showing anything when user32 is unavailable.
func MessageBoxW(hwnd windows.HWND, text, caption *uint16, typ uint32) int32 {
	r := messageBoxW.Call(
		uintptr(hwnd),
		uintptr(unsafe.Pointer(text)),
		uintptr(unsafe.Pointer(caption)),
		uintptr(typ),
	)
	runtime.KeepAlive(text)
	runtime.KeepAlive(caption)
	return int32(r)
}

// MessageBox is MessageBoxW for Go strings.
func MessageBox(hwnd windows.HWND, text, caption string, typ uint32) (int32, error) {
	t, err := windows.UTF16PtrFromString(text)
	if err != nil {
		return 0, err
	}
	c, err := windows.UTF16PtrFromString(caption)
	if err != nil {
		return 0, err
	}
	return MessageBoxW(hwnd, t, c, typ), nil
}
