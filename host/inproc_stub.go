//go:build !cgo || wasip1

package host

import (
	"context"

	"github.com/shuv-amp/sp-differ/domain/errors"
	"github.com/shuv-amp/sp-differ/domain/entities"
	"github.com/shuv-amp/sp-differ/worker"
)

// InProcessWorker runs the linked worker without the raw-pointer boundary
// in builds where the C allocator is unavailable.
type InProcessWorker struct {
	closed bool
}

// NewInProcessWorker returns the builtin worker.
func NewInProcessWorker() *InProcessWorker {
	return &InProcessWorker{}
}

// Name returns BuiltinWorker.
func (w *InProcessWorker) Name() string { return BuiltinWorker }

// APIVersion returns the linked worker's API version.
func (w *InProcessWorker) APIVersion(context.Context) (uint32, error) {
	if w.closed {
		return 0, errors.ErrClosed
	}
	return worker.APIVersion, nil
}

// Run encodes the verdict directly.
func (w *InProcessWorker) Run(_ context.Context, input []byte) ([]byte, error) {
	if w.closed {
		return nil, errors.ErrClosed
	}
	enc := worker.Run(input).Encode()
	return append(make([]byte, 0, entities.ReplySize), enc[:]...), nil
}

// Close marks the worker closed.
func (w *InProcessWorker) Close(context.Context) error {
	w.closed = true
	return nil
}
