// Package worker implements the case runner behind the sp_differ worker ABI.
//
// Everything here is pure Go and memory safe: the entry points exported to
// C and WASM hosts live in cmd/ and convert raw pointers through
// internal/abi before calling into this package.
package worker
