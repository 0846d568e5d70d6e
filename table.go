package latebind

import (
	"fmt"
	"github.com/ZenLiuCN/fn"
	"gopkg.in/yaml.v3"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// TableFile is the on disk form of a declaration table.
//
//	name: user32
//	modules:
//	  user32: user32.dll
//	symbols:
//	  - name: MessageBoxW
//	    modules: [user32]
//	    signature: int MessageBoxW(HWND, LPCWSTR, LPCWSTR, UINT)
//	    fallback: 0
//	    export: __imp_MessageBoxW
type TableFile struct {
	Name    string            `yaml:"name"`
	Modules map[string]string `yaml:"modules,omitempty"` // alias => module file name
	Symbols []Descriptor      `yaml:"symbols"`
}

// LoadTable decode a TableFile, unknown fields are rejected.
func LoadTable(in io.Reader) (t *TableFile, err error) {
	d := yaml.NewDecoder(in)
	d.KnownFields(true)
	t = new(TableFile)
	if err = d.Decode(t); err != nil {
		return nil, fmt.Errorf("decode table: %w", err)
	}
	return
}

// LoadTableFile from path.
func LoadTableFile(path string) (t *TableFile, err error) {
	var f *os.File
	if f, err = os.Open(path); err != nil {
		return
	}
	defer fn.IgnoreClose(f)
	if t, err = LoadTable(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if t.Name == "" {
		base := filepath.Base(path)
		t.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return
}

// Descriptors with module aliases replaced by file names. Names without an alias are used as is.
func (t *TableFile) Descriptors() []Descriptor {
	v := make([]Descriptor, len(t.Symbols))
	for i, d := range t.Symbols {
		mods := make([]string, len(d.Modules))
		for j, m := range d.Modules {
			if f, ok := t.Modules[m]; ok {
				m = f
			}
			mods[j] = m
		}
		d.Modules = mods
		v[i] = d
	}
	return v
}

// Bind the table on r.
func (t *TableFile) Bind(r *Registry) (*Table, error) {
	return r.Bind(t.Descriptors())
}

// Infos is a stringer slice of Info
type Infos []*Info

func (i Infos) String() string {
	s := strings.Builder{}
	for _, v := range i {
		s.WriteString(v.String())
	}
	return s.String()
}

// Info is the resolution outcome of one thunk.
type Info struct {
	Name      string
	Modules   []string
	Signature string
	State     State
	Fallback  uintptr
}

func (i Info) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s\t%s\t[%s]", i.Name, i.State, strings.Join(i.Modules, ", ")))
	if i.State == StateAbsent {
		s.WriteString(fmt.Sprintf("\tfallback=%d", i.Fallback))
	}
	if i.Signature != "" {
		s.WriteString("\t" + i.Signature)
	}
	s.WriteByte('\n')
	return s.String()
}

// Probe resolve every thunk of t and report the outcome, in name order.
func Probe(t *Table) (v Infos) {
	for _, n := range t.Names() {
		th := t.thunks[n]
		th.Resolved()
		d := th.Descriptor()
		v = append(v, &Info{
			Name:      d.Name,
			Modules:   d.Modules,
			Signature: d.Signature,
			State:     th.Symbol().State(),
			Fallback:  d.Fallback,
		})
	}
	return
}
