//go:build cgo && !wasip1

package abi

import (
	"unsafe"

	"github.com/shuv-amp/sp-differ/worker"
)

// Run implements sp_differ_worker_run. On CallOK, *outPtr and *outLen
// describe a reply the caller must pass to Free exactly once. On
// CallFailed nothing is written and nothing is allocated.
func Run(input unsafe.Pointer, inputLen uintptr, outPtr *unsafe.Pointer, outLen *uintptr) int32 {
	if outPtr == nil || outLen == nil {
		return CallFailed
	}

	buf := NewBuffer(worker.Run(borrow(input, inputLen)))
	ptr, err := buf.Leak()
	if err != nil {
		return CallFailed
	}

	*outPtr = ptr
	*outLen = uintptr(buf.Len())
	return CallOK
}

// Free implements sp_differ_worker_free.
func Free(ptr unsafe.Pointer) {
	Reclaim(ptr)
}
