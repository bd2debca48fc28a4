//go:build cgo && !wasip1

// Command sp-differ-worker is the native worker library. Build it with
//
//	go build -buildmode=c-shared -o build/libsp_differ_worker_go.so ./cmd/sp-differ-worker
//
// and load it through the symbols declared in ffi/sp_differ.h.
package main

/*
#include <stddef.h>
#include <stdint.h>
*/
import "C"

import (
	"unsafe"

	"github.com/shuv-amp/sp-differ/internal/abi"
)

//export sp_differ_worker_api_version
//nolint:revive // intentional snake_case to match the C ABI
func sp_differ_worker_api_version() C.uint32_t {
	return C.uint32_t(abi.Version())
}

//export sp_differ_worker_run
//nolint:revive // intentional snake_case to match the C ABI
func sp_differ_worker_run(input *C.uint8_t, inputLen C.size_t, output **C.uint8_t, outputLen *C.size_t) C.int {
	rc := abi.Run(
		unsafe.Pointer(input),
		uintptr(inputLen),
		(*unsafe.Pointer)(unsafe.Pointer(output)),
		(*uintptr)(unsafe.Pointer(outputLen)),
	)
	return C.int(rc)
}

//export sp_differ_worker_free
//nolint:revive // intentional snake_case to match the C ABI
func sp_differ_worker_free(output *C.uint8_t) {
	abi.Free(unsafe.Pointer(output))
}

func main() {}
