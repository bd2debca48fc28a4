//go:build cgo && !wasip1

package host

import (
	"context"
	"sync/atomic"
	"unsafe"

	"github.com/shuv-amp/sp-differ/domain/errors"
	"github.com/shuv-amp/sp-differ/domain/ports"
	"github.com/shuv-amp/sp-differ/internal/abi"
)

// Compile-time interface compliance check
var _ ports.Worker = (*InProcessWorker)(nil)

// InProcessWorker drives the worker linked into this binary through the
// same raw-pointer boundary the exported C symbols use.
type InProcessWorker struct {
	closed atomic.Bool
}

// NewInProcessWorker returns the builtin worker.
func NewInProcessWorker() *InProcessWorker {
	return &InProcessWorker{}
}

// Name returns BuiltinWorker.
func (w *InProcessWorker) Name() string {
	return BuiltinWorker
}

// APIVersion returns the linked worker's API version.
func (w *InProcessWorker) APIVersion(_ context.Context) (uint32, error) {
	if w.closed.Load() {
		return 0, errors.ErrClosed
	}
	return abi.Version(), nil
}

// Run calls abi.Run, copies the reply and releases it with abi.Free.
func (w *InProcessWorker) Run(_ context.Context, input []byte) ([]byte, error) {
	if w.closed.Load() {
		return nil, errors.ErrClosed
	}

	var in unsafe.Pointer
	if len(input) > 0 {
		in = unsafe.Pointer(&input[0])
	}

	var (
		out    unsafe.Pointer
		outLen uintptr
	)
	if rc := abi.Run(in, uintptr(len(input)), &out, &outLen); rc != abi.CallOK {
		return nil, &errors.CallError{Worker: BuiltinWorker, Code: rc}
	}
	defer abi.Free(out)

	return append([]byte(nil), unsafe.Slice((*byte)(out), outLen)...), nil
}

// Close marks the worker closed.
func (w *InProcessWorker) Close(_ context.Context) error {
	w.closed.Store(true)
	return nil
}
