//go:build !darwin && !freebsd && !linux && !windows

package latebind

type systemHost struct{}

// SystemHost reports every module as unavailable on platforms without a supported loader.
func SystemHost() Host {
	return systemHost{}
}

func (systemHost) Open(string, LoadFlags) (uintptr, error) {
	return 0, ErrUnsupportedPlatform
}

func (systemHost) Lookup(uintptr, string) (uintptr, error) {
	return 0, ErrUnsupportedPlatform
}

func (systemHost) Invoke(uintptr, ...uintptr) uintptr {
	panic(ErrUnsupportedPlatform)
}
