package latebind

import (
	"errors"
)

// LoadFlags select the search strategy of Host.Open.
type LoadFlags uint8

const (
	// SearchSystem only searches the operating system's protected library directory.
	SearchSystem LoadFlags = iota
	// SearchDefault uses the loader's unrestricted search path.
	SearchDefault
)

func (f LoadFlags) String() string {
	switch f {
	case SearchSystem:
		return "system"
	case SearchDefault:
		return "default"
	default:
		return "unknown"
	}
}

// Host is the operating system module loader.
//
// Open must report an unsupported SearchSystem mode as ErrInvalidParameter,
// that is the only error LoadSystemModule retries on.
type Host interface {
	Open(name string, flags LoadFlags) (handle uintptr, err error)   //load a module, handles are never released
	Lookup(handle uintptr, symbol string) (addr uintptr, err error) //resolve an exported symbol of a loaded module
	Invoke(addr uintptr, args ...uintptr) uintptr                   //call a resolved entry point, returning its first result register
}

// LoadSystemModule loads name from the system directory.
// When the host rejects the restricted search it retries once unrestricted, older hosts accept that risk.
func LoadSystemModule(h Host, name string) (handle uintptr, ok bool) {
	handle, err := h.Open(name, SearchSystem)
	if err == nil && handle != 0 {
		return handle, true
	}
	if errors.Is(err, ErrInvalidParameter) {
		if handle, err = h.Open(name, SearchDefault); err == nil && handle != 0 {
			return handle, true
		}
	}
	return 0, false
}

// ResolveSymbol makes a single lookup attempt. A missing symbol is an expected outcome.
func ResolveSymbol(h Host, handle uintptr, name string) (addr uintptr, ok bool) {
	addr, err := h.Lookup(handle, name)
	if err != nil || addr == 0 {
		return 0, false
	}
	return addr, true
}
