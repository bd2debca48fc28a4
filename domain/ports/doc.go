// Package ports defines the interfaces hosts use to drive workers.
// Adapters in the host package implement them for native shared libraries,
// WASM modules and the in-process worker.
package ports
