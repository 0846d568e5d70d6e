package latebind

import (
	"errors"
	"go.uber.org/zap"
	"strings"
)

// State of a Module or Symbol, both resolved and absent are final.
type State uint8

const (
	StateUnresolved State = iota
	StateResolved
	StateAbsent
)

func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateResolved:
		return "resolved"
	case StateAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

func stateOf(v uintptr) State {
	switch v {
	case Unresolved:
		return StateUnresolved
	case Absent:
		return StateAbsent
	default:
		return StateResolved
	}
}

type (
	// lazy is the publish-once protocol shared by Module and Symbol.
	lazy struct {
		cell Cell
	}
	// Module caches the handle of one system module.
	Module struct {
		name string
		r    *Registry
		lazy
	}
	// Symbol is the lazy binding of one exported entry point, looked up in its modules in order.
	Symbol struct {
		name    string
		modules []*Module
		r       *Registry
		lazy
	}
)

// get returns the decoded value of the cell, running resolve when it is still unresolved.
// Racing goroutines may all run resolve, only the first compare-and-swap is published.
func (l *lazy) get(c Codec, resolve func() (uintptr, bool)) (v uintptr, ok bool, won bool) {
	switch v = l.cell.ReadIfPresent(); v {
	case Absent:
		return 0, false, false
	case Unresolved:
	default:
		return c.Decode(v), true, false
	}
	desired := Absent
	if addr, found := resolve(); found {
		desired = c.Encode(addr)
	}
	if won, v = l.cell.CompareAndSwap(Unresolved, desired); won {
		v = desired
	}
	if v == Absent {
		return 0, false, won
	}
	return c.Decode(v), true, won
}

func (l *lazy) state() State {
	return stateOf(l.cell.Read())
}

// Name of the module as passed to the loader.
func (m *Module) Name() string {
	return m.name
}

// State of the module handle cache.
func (m *Module) State() State {
	return m.state()
}

// Handle loads the module on first use. A module that failed to load is never retried.
func (m *Module) Handle() (uintptr, bool) {
	h, ok, won := m.get(m.r.codec, func() (uintptr, bool) {
		return LoadSystemModule(m.r.host, m.name)
	})
	if won {
		m.r.Logger().Debug("module bound", zap.String("module", m.name), zap.Bool("loaded", ok))
	}
	return h, ok
}

// Name of the entry point.
func (s *Symbol) Name() string {
	return s.name
}

// Modules searched for the entry point, in order.
func (s *Symbol) Modules() []*Module {
	return s.modules
}

// State of the binding.
func (s *Symbol) State() State {
	return s.state()
}

// Resolve returns the callable address of the entry point, or false once it is known to be absent.
// After the first resolution this is one atomic read and a decode.
func (s *Symbol) Resolve() (uintptr, bool) {
	addr, ok, won := s.get(s.r.codec, s.lookup)
	if won {
		s.r.Logger().Debug("symbol bound", zap.String("symbol", s.name), zap.Bool("resolved", ok))
	}
	return addr, ok
}

func (s *Symbol) lookup() (uintptr, bool) {
	for _, m := range s.modules {
		h, ok := m.Handle()
		if !ok {
			continue
		}
		if addr, ok := ResolveSymbol(m.r.host, h, s.name); ok {
			return addr, true
		}
	}
	return 0, false
}

func (s *Symbol) String() string {
	names := make([]string, len(s.modules))
	for i, m := range s.modules {
		names[i] = m.name
	}
	return strings.Join(names, ",") + "!" + s.name
}

var (
	// ErrWeakSecret occurs when a Codec is keyed on a zero secret.
	ErrWeakSecret = errors.New("weak pointer secret")
	// ErrInvalidParameter is reported by a Host that does not support the requested LoadFlags.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrNotSystemModule occurs when a restricted load is asked for a path instead of a module name.
	ErrNotSystemModule = errors.New("not a system module name")
	// ErrUnsupportedPlatform occurs on platforms without a module loader.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	// ErrMissingSymbol occurs when a Table has no thunk of the requested name.
	ErrMissingSymbol = errors.New("missing symbol")
	// ErrDuplicateSymbol occurs when a table declares the same symbol twice.
	ErrDuplicateSymbol = errors.New("duplicate symbol")
	// ErrNoModule occurs when a descriptor lists no module.
	ErrNoModule = errors.New("no module declared")
	// ErrExportConflict occurs when an export name is already taken by another entry point.
	ErrExportConflict = errors.New("export name taken by another symbol")
)
