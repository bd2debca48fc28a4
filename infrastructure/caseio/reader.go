// Package caseio loads case payloads from disk.
package caseio

import (
	"encoding/hex"
	stdErrors "errors"
	"fmt"
	"os"

	"github.com/shuv-amp/sp-differ/domain/errors"
	"github.com/shuv-amp/sp-differ/domain/ports"
)

var (
	// ErrUnreadable is returned when the case file cannot be read.
	ErrUnreadable = stdErrors.New("unable to read case file")
	// ErrInvalidHex is returned for hex text of odd length.
	ErrInvalidHex = stdErrors.New("invalid hex encoding")
)

// FileReader implements ports.CasePayloadReader over the local filesystem.
type FileReader struct{}

// NewFileReader creates a new FileReader.
func NewFileReader() ports.CasePayloadReader {
	return &FileReader{}
}

// ReadCasePayload delegates to the package-level ReadCasePayload.
func (r *FileReader) ReadCasePayload(path string) ([]byte, error) {
	return ReadCasePayload(path)
}

// ReadCasePayload reads a case file. A non-empty file made only of hex digits
// and whitespace is hex-decoded with the whitespace dropped; anything else is
// returned verbatim.
func ReadCasePayload(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.CaseError{Path: path, Err: fmt.Errorf("%w: %w", ErrUnreadable, err)}
	}
	if !LooksLikeHex(raw) {
		return raw, nil
	}
	decoded, err := DecodeHex(raw)
	if err != nil {
		return nil, &errors.CaseError{Path: path, Err: err}
	}
	return decoded, nil
}

// LooksLikeHex reports whether buf is non-empty and every non-space byte is a
// hex digit.
func LooksLikeHex(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	for _, b := range buf {
		if isSpace(b) {
			continue
		}
		if !isHexDigit(b) {
			return false
		}
	}
	return true
}

// DecodeHex decodes buf ignoring whitespace.
func DecodeHex(buf []byte) ([]byte, error) {
	cleaned := make([]byte, 0, len(buf))
	for _, b := range buf {
		if !isSpace(b) {
			cleaned = append(cleaned, b)
		}
	}
	out := make([]byte, hex.DecodedLen(len(cleaned)))
	if _, err := hex.Decode(out, cleaned); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHex, err)
	}
	return out, nil
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isHexDigit(b byte) bool {
	return ('0' <= b && b <= '9') || ('a' <= b && b <= 'f') || ('A' <= b && b <= 'F')
}
