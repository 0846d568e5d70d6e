//go:build darwin || freebsd || linux

package latebind

import (
	"fmt"
	"github.com/ebitengine/purego"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

type systemHost struct {
	dirs []string
}

// SystemHost is the dynamic loader of the running system.
func SystemHost() Host {
	return &systemHost{dirs: systemDirs()}
}

func systemDirs() (v []string) {
	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		// most system libraries only live in the dyld shared cache, the directory itself still exists
		candidates = []string{"/usr/lib", "/usr/lib/system"}
	case "freebsd":
		candidates = []string{"/lib", "/usr/lib"}
	default:
		if t := multiarch(); t != "" {
			candidates = append(candidates, "/lib/"+t, "/usr/lib/"+t)
		}
		candidates = append(candidates, "/lib64", "/usr/lib64", "/lib", "/usr/lib")
	}
	for _, d := range candidates {
		if fi, err := os.Stat(d); err == nil && fi.IsDir() {
			v = append(v, d)
		}
	}
	return
}

func multiarch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x86_64-linux-gnu"
	case "arm64":
		return "aarch64-linux-gnu"
	case "386":
		return "i386-linux-gnu"
	case "arm":
		return "arm-linux-gnueabihf"
	case "riscv64":
		return "riscv64-linux-gnu"
	case "ppc64le":
		return "powerpc64le-linux-gnu"
	case "s390x":
		return "s390x-linux-gnu"
	}
	return ""
}

func (s *systemHost) Open(name string, flags LoadFlags) (uintptr, error) {
	if flags != SearchSystem {
		h, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_LOCAL)
		if err != nil {
			return 0, fmt.Errorf("dlopen %s: %w", name, err)
		}
		return h, nil
	}
	if strings.ContainsRune(name, '/') {
		return 0, fmt.Errorf("%s: %w", name, ErrNotSystemModule)
	}
	if len(s.dirs) == 0 {
		return 0, ErrInvalidParameter
	}
	var last error
	for _, d := range s.dirs {
		h, err := purego.Dlopen(filepath.Join(d, name), purego.RTLD_NOW|purego.RTLD_LOCAL)
		if err == nil {
			return h, nil
		}
		last = err
	}
	return 0, fmt.Errorf("dlopen %s: %w", name, last)
}

func (s *systemHost) Lookup(handle uintptr, symbol string) (uintptr, error) {
	return purego.Dlsym(handle, symbol)
}

func (s *systemHost) Invoke(addr uintptr, args ...uintptr) uintptr {
	r1, _, _ := purego.SyscallN(addr, args...)
	return r1
}
