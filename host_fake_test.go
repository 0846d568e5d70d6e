package latebind

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/ZenLiuCN/fn"
)

const (
	modM    = "M"
	modN    = "N"
	handleM = uintptr(0x1000)
	handleN = uintptr(0x3000)
	addrF   = uintptr(0x2000)
	addrG   = uintptr(0x2010)
	addrH   = uintptr(0x4000)
)

// fakeHost is a loader counting every call. Modules M and N export F, G and H.
type fakeHost struct {
	mu       sync.Mutex
	modules  map[string]uintptr
	symbols  map[uintptr]map[string]uintptr
	funcs    map[uintptr]func(args ...uintptr) uintptr
	flags    []LoadFlags
	reject   bool // SearchSystem rejected as an invalid parameter
	distinct bool // every lookup returns a new address
	opens    atomic.Int32
	lookups  atomic.Int32
	invokes  atomic.Int32
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		modules: map[string]uintptr{modM: handleM, modN: handleN},
		symbols: map[uintptr]map[string]uintptr{
			handleM: {"F": addrF, "G": addrG},
			handleN: {"H": addrH, "F": addrH},
		},
		funcs: map[uintptr]func(args ...uintptr) uintptr{
			addrF: func(args ...uintptr) uintptr { return args[0]*2 + 1 },
			addrG: func(args ...uintptr) uintptr { return 42 },
			addrH: func(args ...uintptr) uintptr { return uintptr(len(args)) },
		},
	}
}

func (f *fakeHost) Open(name string, flags LoadFlags) (uintptr, error) {
	f.opens.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flags = append(f.flags, flags)
	if f.reject && flags == SearchSystem {
		return 0, fmt.Errorf("open %s: %w", name, ErrInvalidParameter)
	}
	if h, ok := f.modules[name]; ok {
		return h, nil
	}
	return 0, fmt.Errorf("open %s: module not found", name)
}

func (f *fakeHost) Lookup(handle uintptr, symbol string) (uintptr, error) {
	n := f.lookups.Add(1)
	runtime.Gosched()
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.symbols[handle][symbol]; ok {
		if f.distinct {
			return a + uintptr(n)*8, nil
		}
		return a, nil
	}
	return 0, fmt.Errorf("lookup %s: procedure not found", symbol)
}

func (f *fakeHost) Invoke(addr uintptr, args ...uintptr) uintptr {
	f.invokes.Add(1)
	f.mu.Lock()
	c, ok := f.funcs[addr]
	f.mu.Unlock()
	if !ok {
		panic(fmt.Sprintf("invoke of unknown address %#x", addr))
	}
	return c(args...)
}

func (f *fakeHost) loadFlags() []LoadFlags {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]LoadFlags(nil), f.flags...)
}

func (f *fakeHost) remove(module string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.modules, module)
}

func (f *fakeHost) add(module string, handle uintptr) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modules[module] = handle
}

const testSecret = FixedSecret(0x5eedd00d)

func newFakeRegistry(h Host, opts ...Option) *Registry {
	return fn.Panic1(NewRegistry(append([]Option{WithHost(h), WithSecret(testSecret)}, opts...)...))
}
