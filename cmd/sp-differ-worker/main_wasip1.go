//go:build wasip1

// Command sp-differ-worker built for wasip1 is a WASM reactor exposing the
// worker ABI with 32-bit linear memory addresses. Build it with
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o build/sp_differ_worker.wasm ./cmd/sp-differ-worker
package main

import "github.com/shuv-amp/sp-differ/internal/abi"

//go:wasmexport sp_differ_worker_api_version
func apiVersion() uint32 {
	return abi.Version()
}

//go:wasmexport sp_differ_worker_run
func run(input, inputLen, output, outputLen uint32) int32 {
	return abi.Run(input, inputLen, output, outputLen)
}

//go:wasmexport sp_differ_worker_free
func free(output uint32) {
	abi.Free(output)
}

// allocate lets the host place case bytes in guest memory.
//
//go:wasmexport allocate
func allocate(size uint32) uint32 {
	return abi.Allocate(size)
}

//go:wasmexport deallocate
func deallocate(ptr, size uint32) {
	abi.Deallocate(ptr, size)
}

func main() {}
