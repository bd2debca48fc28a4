//go:build wasip1

package abi

import (
	"sync"
	"unsafe"

	"github.com/shuv-amp/sp-differ/domain/errors"
)

// memoryManager pins every slice handed to the host so the Go GC cannot
// collect it until the host gives it back.
var memoryManager = struct {
	sync.Mutex
	ptrs           map[uint32][]byte // ptr -> slice reference
	totalAllocated int
}{
	ptrs: make(map[uint32][]byte),
}

// Allocate reserves size bytes of linear memory for the host, typically to
// hold case input. Returns 0 when size is 0 or the cap would be exceeded.
func Allocate(size uint32) uint32 {
	if size == 0 {
		return 0
	}

	memoryManager.Lock()
	defer memoryManager.Unlock()

	if memoryManager.totalAllocated+int(size) > MaxTotalAllocations {
		return 0
	}

	buf := make([]byte, size)
	//nolint:gosec // G103: linear memory addresses fit in 32 bits
	ptr := uint32(uintptr(unsafe.Pointer(&buf[0])))

	memoryManager.ptrs[ptr] = buf
	memoryManager.totalAllocated += int(size)
	return ptr
}

// Deallocate unpins memory from Allocate or Leak. Untracked pointers are
// ignored. The stored length is used for accounting, not size.
func Deallocate(ptr uint32, _ uint32) {
	memoryManager.Lock()
	defer memoryManager.Unlock()

	stored, ok := memoryManager.ptrs[ptr]
	if !ok {
		return
	}
	delete(memoryManager.ptrs, ptr)
	memoryManager.totalAllocated -= len(stored)
	if memoryManager.totalAllocated < 0 {
		memoryManager.totalAllocated = 0
	}
}

// Stats returns the number of pinned allocations and their total size.
func Stats() (count int, totalBytes int) {
	memoryManager.Lock()
	defer memoryManager.Unlock()
	return len(memoryManager.ptrs), memoryManager.totalAllocated
}

// Leak copies the buffer into pinned linear memory and transfers it to the
// host. The pointer must be released with Reclaim.
func (b Buffer) Leak() (unsafe.Pointer, error) {
	ptr := Allocate(uint32(len(b.data)))
	if ptr == 0 {
		return nil, errors.ErrAllocation
	}
	p := unsafe.Pointer(uintptr(ptr))
	copy(unsafe.Slice((*byte)(p), len(b.data)), b.data)
	return p, nil
}

// Reclaim releases memory produced by Leak. Nil is ignored.
func Reclaim(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	Deallocate(uint32(uintptr(ptr)), 0)
}
