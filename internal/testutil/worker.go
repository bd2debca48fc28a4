package testutil

import (
	"context"
	"sync"

	"github.com/shuv-amp/sp-differ/domain/ports"
)

// Compile-time interface compliance check
var _ ports.Worker = (*FakeWorker)(nil)

// FakeWorker is a scripted ports.Worker.
type FakeWorker struct {
	// RunFunc computes the reply. When nil, Reply and RunErr are returned.
	RunFunc func(input []byte) ([]byte, error)
	RunErr  error
	Label   string
	Reply   []byte
	Inputs  [][]byte
	Version uint32
	Closed  int
	mu      sync.Mutex
}

// Name returns Label.
func (f *FakeWorker) Name() string { return f.Label }

// APIVersion returns Version.
func (f *FakeWorker) APIVersion(context.Context) (uint32, error) { return f.Version, nil }

// Run records input and returns the scripted reply.
func (f *FakeWorker) Run(_ context.Context, input []byte) ([]byte, error) {
	f.mu.Lock()
	f.Inputs = append(f.Inputs, append([]byte(nil), input...))
	f.mu.Unlock()

	if f.RunFunc != nil {
		return f.RunFunc(input)
	}
	if f.RunErr != nil {
		return nil, f.RunErr
	}
	return append([]byte(nil), f.Reply...), nil
}

// Close counts calls.
func (f *FakeWorker) Close(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed++
	return nil
}
