// Package pool keeps named declaration tables bound on one shared registry.
package pool

import (
	"errors"
	"github.com/ZenLiuCN/fn"
	. "github.com/ZenLiuCN/latebind"
	"io"
	"sync"
)

type Pool struct {
	*Registry
	Tables map[string]*Table
	sync.RWMutex
}

var (
	ErrAlreadyLoad  = errors.New("table already loaded")
	ErrNotLoad      = errors.New("table not loaded")
	ErrMissingTable = errors.New("missing table name")
)

// LoadFile load a YAML table file, named by its name field or the file name
func (p *Pool) LoadFile(file string) (err error) {
	var t *TableFile
	if t, err = LoadTableFile(file); err != nil {
		return
	}
	return p.load(t)
}

// Load a YAML table from a reader, the table must carry a name
func (p *Pool) Load(in io.Reader) (err error) {
	var t *TableFile
	if t, err = LoadTable(in); err != nil {
		return
	}
	if t.Name == "" {
		return ErrMissingTable
	}
	return p.load(t)
}

// Add a table declared in code
func (p *Pool) Add(name string, table []Descriptor) (err error) {
	return p.load(&TableFile{Name: name, Symbols: table})
}

func (p *Pool) load(t *TableFile) (err error) {
	p.Lock()
	defer p.Unlock()
	if _, ok := p.Tables[t.Name]; ok {
		return ErrAlreadyLoad
	}
	var b *Table
	if b, err = t.Bind(p.Registry); err != nil {
		return
	}
	p.Tables[t.Name] = b
	return
}

// Table fetch a loaded table
func (p *Pool) Table(name string) (*Table, error) {
	p.RLock()
	defer p.RUnlock()
	if t, ok := p.Tables[name]; ok {
		return t, nil
	}
	return nil, ErrNotLoad
}

// Require fetch a thunk from a table, panics when either is missing
func (p *Pool) Require(table, symbol string) *Thunk {
	return fn.Panic1(p.Table(table)).MustThunk(symbol)
}

// Names of the loaded tables
func (p *Pool) Names() []string {
	p.RLock()
	defer p.RUnlock()
	return fn.MapKeys(p.Tables)
}

// Probe every loaded table
func (p *Pool) Probe() map[string]Infos {
	p.RLock()
	defer p.RUnlock()
	v := make(map[string]Infos, len(p.Tables))
	for n, t := range p.Tables {
		v[n] = Probe(t)
	}
	return v
}

// NewPool create new pool on r, or on the process-wide registry when r is nil
func NewPool(r *Registry) *Pool {
	if r == nil {
		r = Default()
	}
	return &Pool{Registry: r, Tables: make(map[string]*Table)}
}
