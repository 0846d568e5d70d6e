/*
Package latebind binds optional system library entry points on first use.

A call site calls a [Thunk] as if the entry point were always linked. The first call loads the
module from the system directory, looks the entry point up and publishes its address once; every
later call costs one atomic read and a decode. When the module or the entry point is missing the
thunk returns the fallback declared for it, so a binary keeps running on older or restricted
systems instead of failing at load time.

# License

Source codes are under Apache License Version 2.0.

# Underwater

 1. Each module and each entry point owns one [Cell], a word written only by compare-and-swap.
    It moves once from [Unresolved] to either an encoded address or [Absent] and never again.
 2. Addresses are stored encoded by a [Codec] keyed on a process secret, a cached entry point
    in writable memory is never a directly callable address.
 3. Modules are loaded with a system directory only search. A host that rejects that mode as an
    invalid parameter is retried once with the default search.
 4. Racing first calls may all do the lookup work, exactly one result is published.
 5. Modules are never unloaded and bindings are never reset.

# Notes

 1. Type safety is a caller contract, a resolved address is never checked against a signature.
 2. Arguments and results travel as uintptr, typed wrappers convert them (see sys/libc and sys/user32).
 3. Nothing on the call path logs. A logger given by [WithLogger] or [SetLogger] only sees
    resolution outcomes at debug level.

# Declaration tables

A table is a list of [Descriptor], declared in Go or loaded from YAML with [LoadTableFile].
[Registry.Bind] turns it into thunks; descriptors that carry an export name share one binding
with every other table exporting the same name.

# Probe tool

	go install github.com/ZenLiuCN/latebind/probe@latest

resolves modules, symbols and whole table files on the current machine. See `probe -h`.
*/
package latebind
