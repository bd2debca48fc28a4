//go:build cgo && !wasip1

package abi

/*
#include <stdlib.h>

// C.malloc aborts on exhaustion; this wrapper lets the caller see NULL.
static void* sp_differ_alloc(size_t n) {
	return malloc(n);
}
*/
import "C"

import (
	"unsafe"

	"github.com/shuv-amp/sp-differ/domain/errors"
)

// allocReply obtains reply memory from the C heap. Tests replace it to
// simulate exhaustion.
var allocReply = func(n int) unsafe.Pointer {
	return C.sp_differ_alloc(C.size_t(n))
}

// Leak copies the buffer into C heap memory and transfers it to the caller.
// The pointer must be released with Reclaim, never with another allocator.
func (b Buffer) Leak() (unsafe.Pointer, error) {
	ptr := allocReply(len(b.data))
	if ptr == nil {
		return nil, errors.ErrAllocation
	}
	copy(unsafe.Slice((*byte)(ptr), len(b.data)), b.data)
	return ptr, nil
}

// Reclaim releases memory produced by Leak. Nil is ignored.
func Reclaim(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	C.free(ptr)
}
