package latebind

import (
	"strings"
	"testing"

	"github.com/ZenLiuCN/fn"
	"github.com/stretchr/testify/require"
)

func TestLoadTableFile(t *testing.T) {
	tf := fn.Panic1(LoadTableFile("testdata/sample.yaml"))
	require.Equal(t, "sample", tf.Name)
	d := tf.Descriptors()
	require.Len(t, d, 3)
	require.Equal(t, []string{"M"}, d[0].Modules)
	require.Equal(t, []string{"missing", "N"}, d[1].Modules)
	require.Equal(t, uintptr(9), d[1].Fallback)
	require.Equal(t, "__imp_H", d[1].Export)
	require.Equal(t, []string{"m"}, tf.Symbols[0].Modules, "aliases are resolved on a copy")
}

func TestLoadTableUnknownField(t *testing.T) {
	_, err := LoadTableFile("testdata/unknown.yaml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "arity")
}

func TestLoadTableNameFromFile(t *testing.T) {
	tf, err := LoadTable(strings.NewReader("symbols: []\n"))
	require.NoError(t, err)
	require.Empty(t, tf.Name)
}

func TestProbe(t *testing.T) {
	h := newFakeHost()
	r := newFakeRegistry(h)
	tb := fn.Panic1(fn.Panic1(LoadTableFile("testdata/sample.yaml")).Bind(r))
	infos := Probe(tb)
	require.Len(t, infos, 3)
	require.Equal(t, "F", infos[0].Name)
	require.Equal(t, StateResolved, infos[0].State)
	require.Equal(t, "Gone", infos[1].Name)
	require.Equal(t, StateAbsent, infos[1].State)
	require.Equal(t, StateResolved, infos[2].State)
	s := infos.String()
	require.Contains(t, s, "Gone\tabsent\t[missing]\tfallback=3\n")
	require.Contains(t, s, "F\tresolved\t[M]\tint F(int)\n")
	require.Equal(t, uintptr(2), tb.MustThunk("H").Call(1, 2))
}

func TestUser32TableFile(t *testing.T) {
	tf := fn.Panic1(LoadTableFile("testdata/user32.yaml"))
	d := tf.Descriptors()
	require.NoError(t, Validate(d))
	require.Equal(t, []string{"user32.dll"}, d[0].Modules)
	require.Equal(t, "__imp_MessageBoxW", d[0].Export)
}
