package latebind

import (
	"github.com/ZenLiuCN/fn"
	"go.uber.org/zap"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

type (
	// Registry owns the module caches, symbol bindings and exported names of a process.
	//
	// Every Module and Symbol it hands out lives as long as the Registry, there is no way to unbind.
	Registry struct {
		host    Host
		codec   Codec
		logger  atomic.Pointer[zap.Logger]
		modules sync.Map // module name => *Module
		symbols sync.Map // modules!symbol => *Symbol
		exports sync.Map // export name => *Symbol
	}
	// Option of NewRegistry.
	Option  func(*options)
	options struct {
		host   Host
		secret SecretSource
		logger *zap.Logger
	}
)

// WithHost replace the system loader, mostly for tests.
func WithHost(h Host) Option {
	return func(o *options) { o.host = h }
}

// WithSecret replace the process secret source.
func WithSecret(s SecretSource) Option {
	return func(o *options) { o.secret = s }
}

// WithLogger set the logger used on the resolution slow path.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewRegistry create a Registry. The secret is read exactly once here.
func NewRegistry(opts ...Option) (r *Registry, err error) {
	o := options{secret: RandomSecret{}}
	for _, opt := range opts {
		opt(&o)
	}
	r = new(Registry)
	if r.codec, err = NewCodecFrom(o.secret); err != nil {
		return nil, err
	}
	if o.host == nil {
		o.host = SystemHost()
	}
	r.host = o.host
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	r.logger.Store(o.logger)
	return
}

// Logger of the registry.
func (r *Registry) Logger() *zap.Logger {
	return r.logger.Load()
}

// SetLogger replace the logger.
func (r *Registry) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	r.logger.Store(l)
}

// Host used by the registry.
func (r *Registry) Host() Host {
	return r.host
}

// Codec used by the registry.
func (r *Registry) Codec() Codec {
	return r.codec
}

// Module returns the handle cache of name, creating it unresolved on first request.
func (r *Registry) Module(name string) *Module {
	if m, ok := r.modules.Load(name); ok {
		return m.(*Module)
	}
	m, _ := r.modules.LoadOrStore(name, &Module{name: name, r: r})
	return m.(*Module)
}

// Symbol returns the binding of name looked up in modules, one binding exists per module list and name.
func (r *Registry) Symbol(name string, modules ...string) *Symbol {
	key := symbolKey(name, modules)
	if s, ok := r.symbols.Load(key); ok {
		return s.(*Symbol)
	}
	s := &Symbol{name: name, r: r, modules: make([]*Module, len(modules))}
	for i, m := range modules {
		s.modules[i] = r.Module(m)
	}
	x, _ := r.symbols.LoadOrStore(key, s)
	return x.(*Symbol)
}

// symbolKey length-prefixes every part, module names may hold any character.
func symbolKey(name string, modules []string) string {
	b := strings.Builder{}
	for _, m := range modules {
		b.WriteString(strconv.Itoa(len(m)))
		b.WriteByte(':')
		b.WriteString(m)
	}
	b.WriteByte('!')
	b.WriteString(name)
	return b.String()
}

// Export publish s under name so independently built tables share one resolution.
// The first export of a name wins and is returned.
func (r *Registry) Export(name string, s *Symbol) *Symbol {
	x, _ := r.exports.LoadOrStore(name, s)
	return x.(*Symbol)
}

// Imported fetch an exported binding.
func (r *Registry) Imported(name string) (*Symbol, bool) {
	x, ok := r.exports.Load(name)
	if !ok {
		return nil, false
	}
	return x.(*Symbol), true
}

// Exports dump the exported names.
func (r *Registry) Exports() (v []string) {
	m := make(map[string]struct{})
	r.exports.Range(func(k, _ any) bool {
		m[k.(string)] = struct{}{}
		return true
	})
	return fn.MapKeys(m)
}

// Modules dump the module names known to the registry.
func (r *Registry) Modules() (v []*Module) {
	r.modules.Range(func(_, x any) bool {
		v = append(v, x.(*Module))
		return true
	})
	return
}

var process *Registry

func init() {
	// secret, codec and system host are established here, before any table binds
	process = fn.Panic1(NewRegistry())
}

// Default is the process-wide registry.
func Default() *Registry {
	return process
}

// SetLogger replace the logger of the process-wide registry.
func SetLogger(l *zap.Logger) {
	process.SetLogger(l)
}
