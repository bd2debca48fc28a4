package host

import (
	"log/slog"
	"math"

	"github.com/shuv-amp/sp-differ/worker"
)

const (
	// DefaultMaxReplySize bounds how many reply bytes a host copies out of a worker.
	DefaultMaxReplySize = 1 << 20

	// MaxReplySizeLimit is the largest reply cap a host accepts; replies
	// are copied with a C int length.
	MaxReplySizeLimit = math.MaxInt32
)

// loaderConfig holds configuration for the Loader.
type loaderConfig struct {
	logger          *slog.Logger
	aliases         map[string]string
	expectedVersion uint32
	maxReplySize    uint32
}

func defaultLoaderConfig() loaderConfig {
	return loaderConfig{
		logger:          slog.Default(),
		expectedVersion: worker.APIVersion,
		maxReplySize:    DefaultMaxReplySize,
	}
}

// Option configures the Loader.
type Option func(*loaderConfig)

// WithLogger sets the logger used for load and run diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *loaderConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithAliases adds worker aliases (name -> path) consulted before the
// built-in cpp/rust names.
func WithAliases(aliases map[string]string) Option {
	return func(c *loaderConfig) {
		c.aliases = aliases
	}
}

// WithExpectedVersion sets the API version a worker must report.
func WithExpectedVersion(v uint32) Option {
	return func(c *loaderConfig) {
		c.expectedVersion = v
	}
}

// WithMaxReplySize caps the reply size accepted from a worker. Values above
// MaxReplySizeLimit are clamped.
func WithMaxReplySize(n uint32) Option {
	return func(c *loaderConfig) {
		c.maxReplySize = clampReplySize(n)
	}
}

func clampReplySize(n uint32) uint32 {
	if n > MaxReplySizeLimit {
		return MaxReplySizeLimit
	}
	return n
}
