package host

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/shuv-amp/sp-differ/domain/errors"
	"github.com/shuv-amp/sp-differ/domain/ports"
)

// Guest exports used to place case bytes in linear memory.
const (
	SymbolAllocate   = "allocate"
	SymbolDeallocate = "deallocate"
)

// outSlotsSize holds the two little-endian u32 out-parameters of run.
const outSlotsSize = 8

// Compile-time interface compliance check
var _ ports.Worker = (*WasmWorker)(nil)

// WasmWorker is a worker compiled to a WASM reactor and run under wazero.
// Each worker owns its runtime; calls are serialized because a module
// instance is not safe for concurrent use.
type WasmWorker struct {
	mu           sync.Mutex
	name         string
	runtime      wazero.Runtime
	mod          api.Module
	version      api.Function
	run          api.Function
	free         api.Function
	allocate     api.Function
	deallocate   api.Function
	maxReplySize uint32
}

// OpenWasm compiles and instantiates the module binary. The reactor's
// _initialize export, when present, runs before any entry point.
func OpenWasm(ctx context.Context, name string, binary []byte, maxReplySize uint32) (*WasmWorker, error) {
	r := wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, r)

	compiled, err := r.CompileModule(ctx, binary)
	if err != nil {
		_ = r.Close(ctx)
		return nil, &errors.LoadError{Path: name, Err: err}
	}

	cfg := wazero.NewModuleConfig().
		WithName(name).
		WithStartFunctions("_initialize")
	mod, err := r.InstantiateModule(ctx, compiled, cfg)
	if err != nil {
		_ = r.Close(ctx)
		return nil, &errors.LoadError{Path: name, Err: err}
	}

	if mod.Memory() == nil {
		_ = r.Close(ctx)
		return nil, &errors.MissingSymbolError{Path: name, Symbol: "memory"}
	}

	w := &WasmWorker{name: name, runtime: r, mod: mod, maxReplySize: maxReplySize}
	exports := []struct {
		name string
		dst  *api.Function
	}{
		{SymbolAPIVersion, &w.version},
		{SymbolRun, &w.run},
		{SymbolFree, &w.free},
		{SymbolAllocate, &w.allocate},
		{SymbolDeallocate, &w.deallocate},
	}
	for _, e := range exports {
		fn := mod.ExportedFunction(e.name)
		if fn == nil {
			_ = r.Close(ctx)
			return nil, &errors.MissingSymbolError{Path: name, Symbol: e.name}
		}
		*e.dst = fn
	}
	return w, nil
}

// Name returns the module path.
func (w *WasmWorker) Name() string {
	return w.name
}

// APIVersion calls sp_differ_worker_api_version.
func (w *WasmWorker) APIVersion(ctx context.Context) (uint32, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.mod == nil {
		return 0, errors.ErrClosed
	}

	results, err := w.version.Call(ctx)
	if err != nil {
		return 0, fmt.Errorf("call %s: %w", SymbolAPIVersion, err)
	}
	return uint32(results[0]), nil //nolint:gosec // G115: i32 result
}

// Run copies input into guest memory, calls sp_differ_worker_run, copies the
// reply out and releases it with sp_differ_worker_free.
// A worker whose free traps is closed; the reply is discarded and later
// calls return errors.ErrClosed.
func (w *WasmWorker) Run(ctx context.Context, input []byte) (reply []byte, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.mod == nil {
		return nil, errors.ErrClosed
	}

	slots, err := w.alloc(ctx, outSlotsSize)
	if err != nil {
		return nil, err
	}
	defer w.dealloc(ctx, slots, outSlotsSize)

	var inPtr uint32
	if len(input) > 0 {
		inPtr, err = w.alloc(ctx, uint32(len(input))) //nolint:gosec // G115: bounded by guest allocator
		if err != nil {
			return nil, err
		}
		defer w.dealloc(ctx, inPtr, uint32(len(input))) //nolint:gosec // G115: bounded by guest allocator

		if !w.mod.Memory().Write(inPtr, input) {
			return nil, fmt.Errorf("write %d input bytes at %#x: out of range", len(input), inPtr)
		}
	}

	results, err := w.run.Call(ctx,
		api.EncodeU32(inPtr), api.EncodeU32(uint32(len(input))), //nolint:gosec // G115: bounded by guest allocator
		api.EncodeU32(slots), api.EncodeU32(slots+4))
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", SymbolRun, err)
	}
	if rc := api.DecodeI32(results[0]); rc != 0 {
		return nil, &errors.CallError{Worker: w.name, Code: rc}
	}

	raw, ok := w.mod.Memory().Read(slots, outSlotsSize)
	if !ok {
		return nil, fmt.Errorf("read out-parameters at %#x: out of range", slots)
	}
	outPtr := binary.LittleEndian.Uint32(raw[0:4])
	outLen := binary.LittleEndian.Uint32(raw[4:8])
	if outPtr == 0 {
		return nil, &errors.PayloadError{Worker: w.name, Err: errors.ErrNullOutput}
	}
	defer func() {
		if _, ferr := w.free.Call(ctx, api.EncodeU32(outPtr)); ferr != nil {
			_ = w.runtime.Close(ctx)
			w.mod = nil
			reply = nil
			if err == nil {
				err = fmt.Errorf("call %s: %w", SymbolFree, ferr)
			}
		}
	}()

	if outLen > w.maxReplySize {
		return nil, &errors.PayloadError{Worker: w.name, Err: fmt.Errorf("output of %d bytes exceeds %d", outLen, w.maxReplySize)}
	}
	view, ok := w.mod.Memory().Read(outPtr, outLen)
	if !ok {
		return nil, &errors.PayloadError{Worker: w.name, Err: fmt.Errorf("output %#x+%d outside guest memory", outPtr, outLen)}
	}
	return append([]byte(nil), view...), nil
}

// Close releases the runtime and every module instantiated in it.
func (w *WasmWorker) Close(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.mod == nil {
		return nil
	}
	w.mod = nil
	return w.runtime.Close(ctx)
}

func (w *WasmWorker) alloc(ctx context.Context, size uint32) (uint32, error) {
	results, err := w.allocate.Call(ctx, api.EncodeU32(size))
	if err != nil {
		return 0, fmt.Errorf("call %s: %w", SymbolAllocate, err)
	}
	ptr := api.DecodeU32(results[0])
	if ptr == 0 {
		return 0, errors.ErrAllocation
	}
	return ptr, nil
}

func (w *WasmWorker) dealloc(ctx context.Context, ptr, size uint32) {
	_, _ = w.deallocate.Call(ctx, api.EncodeU32(ptr), api.EncodeU32(size))
}
