// Package host loads sp_differ workers and drives them through their ABI.
//
// Three adapters implement ports.Worker: NativeWorker for C-ABI shared
// libraries (dlopen), WasmWorker for WASM reactors run under wazero, and
// InProcessWorker for the worker linked into this binary. Loader picks the
// adapter for a location and refuses workers whose API version differs from
// the expected one before any case is run.
//
// RunCase and Compare implement the host side of the ownership contract:
// every reply is copied out and released through the same worker that
// produced it.
package host
