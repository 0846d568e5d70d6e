//go:build darwin || freebsd || linux

package libc

import (
	"os"
	"testing"

	"github.com/ZenLiuCN/latebind"
	"github.com/stretchr/testify/require"
)

func available(t *testing.T) {
	if !Table().MustThunk("abs").Resolved() {
		t.Skip("C library not found in a system directory")
	}
}

func TestAbs(t *testing.T) {
	available(t)
	require.Equal(t, int32(5), Abs(-5))
	require.Equal(t, int32(7), Abs(7))
	require.Equal(t, 1<<20, Labs(-(1 << 20)))
}

func TestGetpid(t *testing.T) {
	available(t)
	require.Equal(t, int32(os.Getpid()), Getpid())
	require.Equal(t, int32(os.Getppid()), Getppid())
}

func TestDeclarations(t *testing.T) {
	require.NoError(t, latebind.Validate(Declarations()))
	require.Equal(t, []string{"abs", "getpid", "getppid", "labs"}, Table().Names())
}
