// Package abi confines the unsafe half of the worker ABI.
//
// A reply lives as a Buffer until Buffer.Leak copies it into memory owned by
// the worker's allocator and hands out the raw pointer. Reclaim is the only
// way back. Those two functions are the only places raw reply memory is
// created or released.
package abi

import (
	"unsafe"

	"github.com/shuv-amp/sp-differ/domain/entities"
	"github.com/shuv-amp/sp-differ/worker"
)

// Return codes of the run entry point. They describe the call itself, never
// the verdict on the case.
const (
	CallOK     int32 = 0
	CallFailed int32 = -1
)

// MaxTotalAllocations caps the linear memory the wasip1 worker hands out to
// the host at once.
const MaxTotalAllocations = 16 * 1024 * 1024 // 16 MB

// Buffer is a reply owned by the worker.
type Buffer struct {
	data []byte
}

// NewBuffer encodes reply into a worker-owned buffer.
func NewBuffer(reply entities.Reply) Buffer {
	enc := reply.Encode()
	return Buffer{data: enc[:]}
}

// Len returns the encoded size.
func (b Buffer) Len() int {
	return len(b.data)
}

// Bytes returns the encoded reply.
func (b Buffer) Bytes() []byte {
	return b.data
}

// Version returns the API version reported through the version entry point.
func Version() uint32 {
	return worker.APIVersion
}

// borrow views caller-owned input without copying. The slice must not
// outlive the call. A null pointer maps to a nil slice whatever n says.
func borrow(ptr unsafe.Pointer, n uintptr) []byte {
	if ptr == nil {
		return nil
	}
	//nolint:gosec // G103: caller guarantees ptr addresses n readable bytes
	return unsafe.Slice((*byte)(ptr), n)
}
