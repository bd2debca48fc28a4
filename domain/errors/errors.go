// Package errors provides the host-side error types for worker calls.
// All error types support error unwrapping via errors.As() and errors.Is().
//
// A CallError means the worker's run entry point itself failed. A case the
// worker rejects is not an error: its verdict travels in the reply status.
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/shuv-amp/sp-differ/domain/entities"
)

var (
	// ErrAllocation is returned when reply memory cannot be allocated.
	ErrAllocation = stdErrors.New("reply allocation failed")

	// ErrNullOutput is returned when a worker reports success but leaves
	// the reply pointer null.
	ErrNullOutput = stdErrors.New("null output buffer")

	// ErrClosed is returned when a worker is used after Close.
	ErrClosed = stdErrors.New("worker closed")
)

// DetailedError is implemented by errors that can describe themselves as a
// structured ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to our structured ErrorDetail.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    "internal",
	}
}

// CallError reports a non-zero return from a worker entry point.
type CallError struct {
	Worker string
	Code   int32
}

func (e *CallError) Error() string {
	if e.Worker != "" {
		return fmt.Sprintf("worker run failed (%s): code %d", e.Worker, e.Code)
	}
	return fmt.Sprintf("worker run failed: code %d", e.Code)
}

// ToErrorDetail implements DetailedError.
func (e *CallError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "call", Code: fmt.Sprintf("rc_%d", e.Code)}
}

// VersionMismatchError reports a worker built for a different API version.
type VersionMismatchError struct {
	Worker string
	Want   uint32
	Got    uint32
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("worker ABI version mismatch for %s: want %d, got %d", e.Worker, e.Want, e.Got)
}

// ToErrorDetail implements DetailedError.
func (e *VersionMismatchError) ToErrorDetail() *entities.ErrorDetail {
	return entities.NewErrorDetail("version", e.Error()).
		WithDetails(map[string]any{"want": e.Want, "got": e.Got})
}

// LoadError reports a worker artifact that could not be loaded.
type LoadError struct {
	Err  error
	Path string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load worker library %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *LoadError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "load", Code: e.Path}
}

// MissingSymbolError reports a worker that lacks a required entry point.
type MissingSymbolError struct {
	Path   string
	Symbol string
}

func (e *MissingSymbolError) Error() string {
	return fmt.Sprintf("worker %s is missing required symbol %s", e.Path, e.Symbol)
}

// ToErrorDetail implements DetailedError.
func (e *MissingSymbolError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "load", Code: e.Symbol}
}

// PayloadError reports a reply buffer that violates the reply format.
type PayloadError struct {
	Err    error
	Worker string
}

func (e *PayloadError) Error() string {
	if e.Worker != "" {
		return fmt.Sprintf("%s output invalid: %v", e.Worker, e.Err)
	}
	return fmt.Sprintf("output invalid: %v", e.Err)
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *PayloadError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "payload"}
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "config", Code: e.Field}
}

// CaseError reports a case payload that could not be read or parsed.
type CaseError struct {
	Err  error
	Path string
}

func (e *CaseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("case %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("case: %v", e.Err)
}

func (e *CaseError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *CaseError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "case"}
}
