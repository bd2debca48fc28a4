package ports

import (
	"context"

	"github.com/shuv-amp/sp-differ/domain/entities"
)

// Worker is a loaded worker exposing the three ABI entry points.
type Worker interface {
	// Name identifies the worker in logs and errors.
	Name() string

	// APIVersion calls the worker's version entry point.
	APIVersion(ctx context.Context) (uint32, error)

	// Run passes input to the worker's run entry point, copies the reply
	// out and releases it through the worker's own free entry point.
	// A non-zero return from run is reported as *errors.CallError.
	Run(ctx context.Context, input []byte) ([]byte, error)

	// Close unloads the worker. Further calls fail with errors.ErrClosed.
	Close(ctx context.Context) error
}

// WorkerOpener loads a worker from a resolved location.
type WorkerOpener interface {
	Open(ctx context.Context, location string) (Worker, error)
}

// CasePayloadReader loads case bytes from storage.
type CasePayloadReader interface {
	ReadCasePayload(path string) ([]byte, error)
}

// ConfigParser decodes runner configuration documents.
type ConfigParser interface {
	// Parse decodes data into a RunnerConfig.
	Parse(data []byte) (*entities.RunnerConfig, error)

	// Document decodes data into generic maps and slices for schema checks.
	Document(data []byte) (any, error)
}

// DocumentValidator checks a generic document against a schema.
type DocumentValidator interface {
	Validate(doc any) (*entities.ValidationResult, error)
}

// TemplateEngine renders text templates.
type TemplateEngine interface {
	Render(name, text string, data any) ([]byte, error)
}
