//go:build windows

package latebind

import (
	"errors"
	"fmt"
	"github.com/ebitengine/purego"
	"golang.org/x/sys/windows"
)

type systemHost struct{}

// SystemHost is the module loader of the running system.
func SystemHost() Host {
	return systemHost{}
}

func (systemHost) Open(name string, flags LoadFlags) (uintptr, error) {
	var f uintptr
	if flags == SearchSystem {
		f = windows.LOAD_LIBRARY_SEARCH_SYSTEM32
	}
	h, err := windows.LoadLibraryEx(name, 0, f)
	if err != nil {
		// LOAD_LIBRARY_SEARCH_SYSTEM32 is unknown before Windows 7 and KB2533623
		if errors.Is(err, windows.ERROR_INVALID_PARAMETER) {
			return 0, fmt.Errorf("load %s: %w", name, ErrInvalidParameter)
		}
		return 0, fmt.Errorf("load %s: %w", name, err)
	}
	return uintptr(h), nil
}

func (systemHost) Lookup(handle uintptr, symbol string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(handle), symbol)
}

func (systemHost) Invoke(addr uintptr, args ...uintptr) uintptr {
	r1, _, _ := purego.SyscallN(addr, args...)
	return r1
}
