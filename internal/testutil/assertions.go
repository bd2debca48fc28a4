// Package testutil provides shared fixtures and assertions for host-side tests.
package testutil

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertJSONEqual compares two JSON strings for equality, ignoring formatting
func AssertJSONEqual(t *testing.T, expected, actual string, msgAndArgs ...interface{}) {
	t.Helper()

	var expectedJSON, actualJSON interface{}
	require.NoError(t, json.Unmarshal([]byte(expected), &expectedJSON), "expected JSON is invalid")
	require.NoError(t, json.Unmarshal([]byte(actual), &actualJSON), "actual JSON is invalid")

	assert.Equal(t, expectedJSON, actualJSON, msgAndArgs...)
}

// RequireErrorAs asserts err matches target via errors.As and returns it.
func RequireErrorAs[T error](t *testing.T, err error) T {
	t.Helper()
	var target T
	require.True(t, errors.As(err, &target), "expected %T, got %v", target, err)
	return target
}

// AssertReply asserts a reply buffer equals the four-byte v1 header for status.
func AssertReply(t *testing.T, status byte, reply []byte, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, []byte{1, status, 0, 0}, reply, msgAndArgs...)
}
