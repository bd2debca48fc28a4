package host

import (
	"path/filepath"
	"runtime"
	"strings"
)

// Symbol names every worker library must export.
const (
	SymbolAPIVersion = "sp_differ_worker_api_version"
	SymbolRun        = "sp_differ_worker_run"
	SymbolFree       = "sp_differ_worker_free"
)

// BuiltinWorker names the worker linked into the running binary.
const BuiltinWorker = "builtin"

// Kind is the adapter used for a worker location.
type Kind string

const (
	KindBuiltin Kind = "builtin"
	KindNative  Kind = "native"
	KindWasm    Kind = "wasm"
)

// DefaultLibraryPath returns the conventional build output path of a native
// worker library on the current platform, e.g. build/libsp_differ_worker.so.
func DefaultLibraryPath(base string) string {
	return libraryPath(runtime.GOOS, base)
}

func libraryPath(goos, base string) string {
	switch goos {
	case "windows":
		return filepath.Join("build", base+".dll")
	case "darwin":
		return filepath.Join("build", "lib"+base+".dylib")
	default:
		return filepath.Join("build", "lib"+base+".so")
	}
}

// defaultAliases are the reference worker implementations.
func defaultAliases() map[string]string {
	return map[string]string{
		"cpp":  DefaultLibraryPath("sp_differ_worker"),
		"rust": DefaultLibraryPath("sp_differ_worker_rust"),
		"wasm": filepath.Join("build", "sp_differ_worker.wasm"),
	}
}

// ResolveWorkerPath maps an alias to a location. Configured aliases win over
// the defaults; anything else is returned unchanged as a path.
func ResolveWorkerPath(name string, aliases map[string]string) string {
	if p, ok := aliases[name]; ok {
		return p
	}
	if p, ok := defaultAliases()[name]; ok {
		return p
	}
	return name
}

// KindOf picks the adapter for a resolved location.
func KindOf(location string) Kind {
	switch {
	case location == BuiltinWorker:
		return KindBuiltin
	case strings.EqualFold(filepath.Ext(location), ".wasm"):
		return KindWasm
	default:
		return KindNative
	}
}
