//go:build cgo && !wasip1

package host

/*
#cgo linux LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdint.h>
#include <stdlib.h>

typedef uint32_t (*sp_differ_version_fn)(void);
typedef int (*sp_differ_run_fn)(const uint8_t*, size_t, uint8_t**, size_t*);
typedef void (*sp_differ_free_fn)(uint8_t*);

static uint32_t sp_differ_call_version(void* fn) {
	return ((sp_differ_version_fn)fn)();
}

static int sp_differ_call_run(void* fn, const uint8_t* input, size_t input_len,
                              uint8_t** output, size_t* output_len) {
	return ((sp_differ_run_fn)fn)(input, input_len, output, output_len);
}

static void sp_differ_call_free(void* fn, uint8_t* output) {
	((sp_differ_free_fn)fn)(output);
}
*/
import "C"

import (
	"context"
	"fmt"
	"sync"
	"unsafe"

	"github.com/shuv-amp/sp-differ/domain/errors"
	"github.com/shuv-amp/sp-differ/domain/ports"
)

// Compile-time interface compliance check
var _ ports.Worker = (*NativeWorker)(nil)

// NativeWorker is a worker loaded from a C-ABI shared library.
//
// Loading a Go c-shared library into a Go host starts a second Go runtime
// and is not supported; use the builtin worker for the Go implementation.
type NativeWorker struct {
	mu           sync.RWMutex
	path         string
	handle       unsafe.Pointer
	version      unsafe.Pointer
	run          unsafe.Pointer
	free         unsafe.Pointer
	maxReplySize uint32
}

// OpenNative loads the library at path and resolves the three entry points.
func OpenNative(path string, maxReplySize uint32) (*NativeWorker, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	handle := C.dlopen(cpath, C.RTLD_LAZY)
	if handle == nil {
		return nil, &errors.LoadError{Path: path, Err: fmt.Errorf("%s", C.GoString(C.dlerror()))}
	}

	w := &NativeWorker{path: path, handle: handle, maxReplySize: clampReplySize(maxReplySize)}
	symbols := []struct {
		name string
		dst  *unsafe.Pointer
	}{
		{SymbolAPIVersion, &w.version},
		{SymbolRun, &w.run},
		{SymbolFree, &w.free},
	}
	for _, sym := range symbols {
		cname := C.CString(sym.name)
		p := C.dlsym(handle, cname)
		C.free(unsafe.Pointer(cname))
		if p == nil {
			C.dlclose(handle)
			return nil, &errors.MissingSymbolError{Path: path, Symbol: sym.name}
		}
		*sym.dst = p
	}
	return w, nil
}

// Name returns the library path.
func (w *NativeWorker) Name() string {
	return w.path
}

// APIVersion calls sp_differ_worker_api_version.
func (w *NativeWorker) APIVersion(_ context.Context) (uint32, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.handle == nil {
		return 0, errors.ErrClosed
	}
	return uint32(C.sp_differ_call_version(w.version)), nil
}

// Run calls sp_differ_worker_run, copies the reply and releases it with
// sp_differ_worker_free.
func (w *NativeWorker) Run(_ context.Context, input []byte) ([]byte, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.handle == nil {
		return nil, errors.ErrClosed
	}

	var in *C.uint8_t
	if len(input) > 0 {
		in = (*C.uint8_t)(unsafe.Pointer(&input[0]))
	}

	var (
		out    *C.uint8_t
		outLen C.size_t
	)
	rc := C.sp_differ_call_run(w.run, in, C.size_t(len(input)), &out, &outLen)
	if rc != 0 {
		return nil, &errors.CallError{Worker: w.path, Code: int32(rc)}
	}
	if out == nil {
		return nil, &errors.PayloadError{Worker: w.path, Err: errors.ErrNullOutput}
	}
	defer C.sp_differ_call_free(w.free, out)

	if uint64(outLen) > uint64(w.maxReplySize) {
		return nil, &errors.PayloadError{Worker: w.path, Err: fmt.Errorf("output of %d bytes exceeds %d", uint64(outLen), w.maxReplySize)}
	}
	return C.GoBytes(unsafe.Pointer(out), C.int(outLen)), nil
}

// Close unloads the library.
func (w *NativeWorker) Close(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.handle == nil {
		return nil
	}
	rc := C.dlclose(w.handle)
	w.handle = nil
	if rc != 0 {
		return fmt.Errorf("dlclose %s: %s", w.path, C.GoString(C.dlerror()))
	}
	return nil
}
