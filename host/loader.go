package host

import (
	"context"
	"log/slog"
	"maps"
	"os"

	"github.com/shuv-amp/sp-differ/domain/errors"
	"github.com/shuv-amp/sp-differ/domain/ports"
)

// Compile-time interface compliance check
var _ ports.WorkerOpener = (*Loader)(nil)

// Loader opens workers by alias or path.
type Loader struct {
	cfg loaderConfig
}

// NewLoader creates a Loader with the given options.
func NewLoader(opts ...Option) *Loader {
	cfg := defaultLoaderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Loader{cfg: cfg}
}

// Open resolves name, loads the worker with the matching adapter and checks
// its API version. A worker that fails the check is closed before returning.
func (l *Loader) Open(ctx context.Context, name string) (ports.Worker, error) {
	location := ResolveWorkerPath(name, l.cfg.aliases)
	kind := KindOf(location)
	logger := l.cfg.logger.With("worker", name, "location", location, "kind", kind)

	w, err := l.load(ctx, kind, location)
	if err != nil {
		logger.ErrorContext(ctx, "worker load failed", "error", err)
		return nil, err
	}

	got, err := w.APIVersion(ctx)
	if err != nil {
		closeQuietly(ctx, logger, w)
		return nil, err
	}
	if got != l.cfg.expectedVersion {
		closeQuietly(ctx, logger, w)
		err := &errors.VersionMismatchError{Worker: location, Want: l.cfg.expectedVersion, Got: got}
		logger.ErrorContext(ctx, "worker rejected", "error", err)
		return nil, err
	}

	logger.DebugContext(ctx, "worker loaded", "api_version", got)
	return w, nil
}

// Aliases returns the alias table the loader resolves against, defaults
// included.
func (l *Loader) Aliases() map[string]string {
	out := defaultAliases()
	maps.Copy(out, l.cfg.aliases)
	out[BuiltinWorker] = BuiltinWorker
	return out
}

func (l *Loader) load(ctx context.Context, kind Kind, location string) (ports.Worker, error) {
	switch kind {
	case KindBuiltin:
		return NewInProcessWorker(), nil
	case KindWasm:
		bin, err := os.ReadFile(location)
		if err != nil {
			return nil, &errors.LoadError{Path: location, Err: err}
		}
		return OpenWasm(ctx, location, bin, l.cfg.maxReplySize)
	default:
		return OpenNative(location, l.cfg.maxReplySize)
	}
}

// Open is a convenience wrapper around NewLoader(opts...).Open.
func Open(ctx context.Context, name string, opts ...Option) (ports.Worker, error) {
	return NewLoader(opts...).Open(ctx, name)
}

// closeQuietly closes w and logs any failure.
func closeQuietly(ctx context.Context, logger *slog.Logger, w ports.Worker) {
	if err := w.Close(ctx); err != nil {
		logger.WarnContext(ctx, "worker close failed", "worker", w.Name(), "error", err)
	}
}
