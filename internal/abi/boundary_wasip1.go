//go:build wasip1

package abi

import (
	"encoding/binary"
	"unsafe"

	"github.com/shuv-amp/sp-differ/worker"
)

// Run implements sp_differ_worker_run for 32-bit linear memory. Address 0
// is the null pointer. outPtr and outLen address little-endian u32 slots.
func Run(input, inputLen, outPtr, outLen uint32) int32 {
	if outPtr == 0 || outLen == 0 {
		return CallFailed
	}

	in := borrow(unsafe.Pointer(uintptr(input)), uintptr(inputLen))
	buf := NewBuffer(worker.Run(in))
	ptr, err := buf.Leak()
	if err != nil {
		return CallFailed
	}

	storeU32(outPtr, uint32(uintptr(ptr)))
	storeU32(outLen, uint32(buf.Len()))
	return CallOK
}

// Free implements sp_differ_worker_free.
func Free(ptr uint32) {
	if ptr == 0 {
		return
	}
	Reclaim(unsafe.Pointer(uintptr(ptr)))
}

func storeU32(addr, v uint32) {
	//nolint:gosec // G103: addr is a host-supplied linear memory offset
	slot := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), 4)
	binary.LittleEndian.PutUint32(slot, v)
}
