//go:build darwin || freebsd || linux

// Package libc wraps a few C library entry points with their exact Go signatures.
package libc

import (
	"github.com/ZenLiuCN/latebind"
	"runtime"
)

// Modules searched for the C library on the running system.
func Modules() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"libSystem.B.dylib"}
	case "freebsd":
		return []string{"libc.so.7"}
	default:
		return []string{"libc.so.6", "libc.musl-" + muslArch() + ".so.1"}
	}
}

func muslArch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	case "386":
		return "i386"
	}
	return runtime.GOARCH
}

// Declarations consumed by the binder.
func Declarations() []latebind.Descriptor {
	m := Modules()
	return []latebind.Descriptor{
		{Name: "abs", Modules: m, Signature: "int abs(int)"},
		{Name: "labs", Modules: m, Signature: "long labs(long)"},
		{Name: "getpid", Modules: m, Signature: "pid_t getpid(void)"},
		{Name: "getppid", Modules: m, Signature: "pid_t getppid(void)"},
	}
}

var (
	table   = latebind.MustBind(Declarations())
	abs     = table.MustThunk("abs")
	labs    = table.MustThunk("labs")
	getpid  = table.MustThunk("getpid")
	getppid = table.MustThunk("getppid")
)

// Table of the bound thunks.
func Table() *latebind.Table {
	return table
}

// Abs returns 0 when the C library is unavailable.
func Abs(n int32) int32 {
	return int32(abs.Call(uintptr(n)))
}

// Labs returns 0 when the C library is unavailable.
func Labs(n int) int {
	return int(labs.Call(uintptr(n)))
}

// Getpid returns 0 when the C library is unavailable.
func Getpid() int32 {
	return int32(getpid.Call())
}

// Getppid returns 0 when the C library is unavailable.
func Getppid() int32 {
	return int32(getppid.Call())
}
