//go:build windows

package user32

import (
	"testing"

	"github.com/ZenLiuCN/latebind"
	"github.com/stretchr/testify/require"
)

func TestMessageBoxWBinding(t *testing.T) {
	th := Table().MustThunk("MessageBoxW")
	require.Equal(t, uintptr(MB_OK), th.Descriptor().Fallback)
	require.True(t, th.Resolved(), "user32.dll ships with every desktop Windows")
	s, ok := latebind.Default().Imported("__imp_MessageBoxW")
	require.True(t, ok)
	require.Same(t, th.Symbol(), s)
}
