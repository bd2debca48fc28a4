//go:build !cgo || wasip1

package host

import (
	"context"
	"fmt"

	"github.com/shuv-amp/sp-differ/domain/errors"
)

// NativeWorker stub for builds without cgo.
type NativeWorker struct{}

// OpenNative fails because loading shared libraries requires cgo.
func OpenNative(path string, _ uint32) (*NativeWorker, error) {
	return nil, &errors.LoadError{Path: path, Err: fmt.Errorf("native workers require a cgo-enabled build")}
}

// Name returns an empty string.
func (w *NativeWorker) Name() string { return "" }

// APIVersion always fails.
func (w *NativeWorker) APIVersion(context.Context) (uint32, error) { return 0, errors.ErrClosed }

// Run always fails.
func (w *NativeWorker) Run(context.Context, []byte) ([]byte, error) { return nil, errors.ErrClosed }

// Close is a no-op.
func (w *NativeWorker) Close(context.Context) error { return nil }
