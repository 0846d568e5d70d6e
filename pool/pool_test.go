package pool

import (
	"errors"
	"strings"
	"testing"

	"github.com/ZenLiuCN/fn"
	"github.com/ZenLiuCN/latebind"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

// stubHost exports F from M, F returns its first argument plus one.
type stubHost struct{}

func (stubHost) Open(name string, _ latebind.LoadFlags) (uintptr, error) {
	if name == "M" {
		return 0x100, nil
	}
	return 0, errors.New("not found")
}

func (stubHost) Lookup(handle uintptr, symbol string) (uintptr, error) {
	if handle == 0x100 && symbol == "F" {
		return 0x200, nil
	}
	return 0, errors.New("not found")
}

func (stubHost) Invoke(_ uintptr, args ...uintptr) uintptr {
	return args[0] + 1
}

func newPool() *Pool {
	return NewPool(fn.Panic1(latebind.NewRegistry(
		latebind.WithHost(stubHost{}),
		latebind.WithSecret(latebind.FixedSecret(0x1234567)),
	)))
}

func TestNewPool(t *testing.T) {
	p := newPool()
	fn.Panic(p.LoadFile("../testdata/sample.yaml"))
	require.Equal(t, []string{"sample"}, p.Names())
	require.Equal(t, uintptr(6), p.Require("sample", "F").Call(5))
	require.Equal(t, uintptr(3), p.Require("sample", "Gone").Call(5))
	require.Equal(t, uintptr(9), p.Require("sample", "H").Call(5))
	require.ErrorIs(t, p.LoadFile("../testdata/sample.yaml"), ErrAlreadyLoad)
	sp := spew.NewDefaultConfig()
	sp.MaxDepth = 3
	for name, infos := range p.Probe() {
		t.Log(name, sp.Sdump(infos))
	}
}

func TestPoolSharedExports(t *testing.T) {
	p := newPool()
	fn.Panic(p.Add("a", []latebind.Descriptor{{Name: "F", Modules: []string{"M"}, Export: "__imp_F"}}))
	fn.Panic(p.Load(strings.NewReader(`
name: b
symbols:
  - name: F
    modules: [other]
    export: __imp_F
`)))
	require.Same(t, p.Require("a", "F").Symbol(), p.Require("b", "F").Symbol())
	require.Equal(t, uintptr(2), p.Require("b", "F").Call(1))
}

func TestPoolErrors(t *testing.T) {
	p := newPool()
	require.ErrorIs(t, p.Load(strings.NewReader("symbols: []\n")), ErrMissingTable)
	_, err := p.Table("nope")
	require.ErrorIs(t, err, ErrNotLoad)
	require.Panics(t, func() { p.Require("nope", "F") })
	require.Error(t, p.Add("bad", []latebind.Descriptor{{Name: "F"}}))
	require.Empty(t, p.Names())
}
