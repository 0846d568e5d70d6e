package latebind

import (
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"slices"
	"sort"
)

type (
	// Descriptor is one row of a declaration table.
	Descriptor struct {
		Name      string   `yaml:"name" validate:"required"`                     //exported entry point name
		Modules   []string `yaml:"modules" validate:"required,min=1,dive,required"` //candidate modules, searched in order
		Signature string   `yaml:"signature,omitempty"`                          //documentation only, never checked
		Fallback  uintptr  `yaml:"fallback,omitempty"`                           //returned by the thunk when the entry point is absent
		Export    string   `yaml:"export,omitempty"`                             //optional shared name of the binding
	}
	// Thunk stands in for one wrapped entry point.
	//
	// Call forwards to the real entry point once it resolves and returns Fallback otherwise.
	// A Thunk never reports an error to its caller.
	Thunk struct {
		desc Descriptor
		sym  *Symbol
		host Host
	}
	// Table is the set of thunks bound from one declaration table.
	Table struct {
		thunks map[string]*Thunk
	}
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate a declaration table, every problem is reported.
func Validate(table []Descriptor) (err error) {
	seen := make(map[string]struct{}, len(table))
	exports := make(map[string]string)
	for i, d := range table {
		if len(d.Modules) == 0 {
			err = multierror.Append(err, fmt.Errorf("symbol #%d %q: %w", i, d.Name, ErrNoModule))
		} else if e := validate.Struct(d); e != nil {
			err = multierror.Append(err, fmt.Errorf("symbol #%d %q: %w", i, d.Name, e))
		}
		if _, ok := seen[d.Name]; ok {
			err = multierror.Append(err, fmt.Errorf("symbol #%d %q: %w", i, d.Name, ErrDuplicateSymbol))
		}
		seen[d.Name] = struct{}{}
		if d.Export == "" {
			continue
		}
		if n, ok := exports[d.Export]; ok {
			err = multierror.Append(err, fmt.Errorf("symbol #%d %q export %q taken by %q: %w", i, d.Name, d.Export, n, ErrExportConflict))
		}
		exports[d.Export] = d.Name
	}
	return
}

// Bind instantiate one binding and one Thunk per descriptor. Nothing is resolved until first use.
func (r *Registry) Bind(table []Descriptor) (t *Table, err error) {
	if err = Validate(table); err != nil {
		return
	}
	for i, d := range table {
		if d.Export == "" {
			continue
		}
		if s, ok := r.Imported(d.Export); ok && s.Name() != d.Name {
			err = multierror.Append(err, fmt.Errorf("symbol #%d %q export %q taken by %q: %w", i, d.Name, d.Export, s.Name(), ErrExportConflict))
		}
	}
	if err != nil {
		return
	}
	t = &Table{thunks: make(map[string]*Thunk, len(table))}
	for _, d := range table {
		t.thunks[d.Name] = r.NewThunk(d)
	}
	return
}

// NewThunk bind a single descriptor.
// An exported binding is only shared when it names the same entry point, otherwise the thunk keeps its own.
func (r *Registry) NewThunk(d Descriptor) *Thunk {
	d.Modules = slices.Clone(d.Modules)
	s := r.Symbol(d.Name, d.Modules...)
	if d.Export != "" {
		if x := r.Export(d.Export, s); x.Name() == d.Name {
			s = x
		}
	}
	return &Thunk{desc: d, sym: s, host: r.host}
}

// Bind a declaration table on the process-wide registry.
func Bind(table []Descriptor) (*Table, error) {
	return process.Bind(table)
}

// MustBind is Bind for package level tables, panics on an invalid table.
func MustBind(table []Descriptor) *Table {
	t, err := Bind(table)
	if err != nil {
		panic(err)
	}
	return t
}

// Call the entry point with args, or return the fallback when it is absent.
func (t *Thunk) Call(args ...uintptr) uintptr {
	if addr, ok := t.sym.Resolve(); ok {
		return t.host.Invoke(addr, args...)
	}
	return t.desc.Fallback
}

// Addr resolve the entry point.
func (t *Thunk) Addr() (uintptr, bool) {
	return t.sym.Resolve()
}

// Resolved reports whether the entry point exists, resolving it when needed.
func (t *Thunk) Resolved() bool {
	_, ok := t.sym.Resolve()
	return ok
}

// Symbol binding behind the thunk.
func (t *Thunk) Symbol() *Symbol {
	return t.sym
}

// Descriptor the thunk was bound from.
func (t *Thunk) Descriptor() Descriptor {
	return t.desc
}

// Thunk fetch a thunk by symbol name.
func (t *Table) Thunk(name string) (v *Thunk, ok bool) {
	v, ok = t.thunks[name]
	return
}

// MustThunk fetch a thunk by symbol name, panics with ErrMissingSymbol.
func (t *Table) MustThunk(name string) *Thunk {
	v, ok := t.thunks[name]
	if !ok {
		panic(fmt.Errorf("%s: %w", name, ErrMissingSymbol))
	}
	return v
}

// Names of the thunks, sorted.
func (t *Table) Names() []string {
	v := make([]string, 0, len(t.thunks))
	for k := range t.thunks {
		v = append(v, k)
	}
	sort.Strings(v)
	return v
}
