package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuv-amp/sp-differ/domain/errors"
	"github.com/shuv-amp/sp-differ/domain/ports"
	"github.com/shuv-amp/sp-differ/host"
	"github.com/shuv-amp/sp-differ/internal/testutil"
)

type fakeOpener map[string]*testutil.FakeWorker

func (f fakeOpener) Open(_ context.Context, name string) (ports.Worker, error) {
	w, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("unknown worker %s", name)
	}
	return w, nil
}

type result struct {
	stdout string
	stderr string
	code   int
}

func runCLI(t *testing.T, opener ports.WorkerOpener, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	r := newRunner(&stdout, &stderr)
	r.opener = opener
	code := execute(context.Background(), r, append([]string{"sp-differ-runner"}, args...))
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func hexCase(t *testing.T, payload []byte) string {
	t.Helper()
	return writeFile(t, "case.hex", []byte(hex.EncodeToString(payload)+"\n"))
}

func TestRun_Builtin(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		status  string
		reply   string
	}{
		{"header only", testutil.HeaderBytes(1, 17), "ok", "01000000"},
		{"full case", testutil.MinimalCase(42), "ok", "01000000"},
		{"wrong version", testutil.HeaderBytes(7, 20), "invalid_input", "01010000"},
		{"short", testutil.HeaderBytes(1, 3), "invalid_input", "01010000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := hexCase(t, tt.payload)

			res := runCLI(t, nil, "run", "--worker", "builtin", path)
			require.Equal(t, 0, res.code, res.stderr)
			assert.Equal(t, "OK: output valid\n", res.stdout)

			res = runCLI(t, nil, "run", "--json", path)
			require.Equal(t, 0, res.code, res.stderr)
			testutil.AssertJSONEqual(t,
				`{"worker":"builtin","status":"`+tt.status+`","reply":"`+tt.reply+`"}`,
				res.stdout)
		})
	}
}

func TestRun_Failures(t *testing.T) {
	path := hexCase(t, testutil.HeaderBytes(1, 17))
	cfg := writeFile(t, "cfg.yaml", []byte("expected_api_version: 2\n"))

	tests := []struct {
		name   string
		opener ports.WorkerOpener
		args   []string
		want   string
	}{
		{name: "no case", args: []string{"run"}, want: "FAIL: case path required"},
		{name: "extra argument", args: []string{"run", path, "extra"}, want: "FAIL: unexpected argument: extra"},
		{name: "missing file", args: []string{"run", filepath.Join(t.TempDir(), "nope")}, want: "unable to read case file"},
		{name: "bad hex", args: []string{"run", writeFile(t, "odd.hex", []byte("abc"))}, want: "invalid hex encoding"},
		{name: "version mismatch", args: []string{"--config", cfg, "run", path}, want: "worker ABI version mismatch for builtin: want 2, got 1"},
		{name: "missing worker", args: []string{"run", "--worker", filepath.Join(t.TempDir(), "libnone.so"), path}, want: "failed to load worker library"},
		{
			name:   "run returns non-zero",
			opener: fakeOpener{"builtin": {Label: "builtin", RunErr: &errors.CallError{Worker: "builtin", Code: -1}}},
			args:   []string{"run", path},
			want:   "FAIL: worker run failed (builtin): code -1",
		},
		{
			name:   "malformed reply",
			opener: fakeOpener{"builtin": {Label: "builtin", Reply: []byte{1, 1, 0, 0, 0}}},
			args:   []string{"run", path},
			want:   "FAIL: builtin output invalid: non-ok status must have empty payload",
		},
		{name: "bad log level", args: []string{"--log-level", "loud", "run", path}, want: "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, tt.opener, tt.args...)
			assert.Equal(t, exitFailure, res.code)
			assert.Contains(t, res.stderr, tt.want)
			assert.Empty(t, res.stdout)
		})
	}
}

func TestRun_ClosesWorker(t *testing.T) {
	w := &testutil.FakeWorker{Label: "fake", Reply: []byte{1, 0, 0, 0}}
	path := hexCase(t, testutil.HeaderBytes(1, 17))

	res := runCLI(t, fakeOpener{"fake": w}, "run", "--worker", "fake", path)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, 1, w.Closed)
	assert.Equal(t, [][]byte{testutil.HeaderBytes(1, 17)}, w.Inputs)
}

func TestCompare(t *testing.T) {
	path := hexCase(t, testutil.HeaderBytes(1, 17))

	t.Run("builtin match", func(t *testing.T) {
		res := runCLI(t, nil, "compare", "--left", "builtin", "--right", "builtin", path)
		require.Equal(t, 0, res.code, res.stderr)
		assert.Equal(t, "OK: outputs match\n", res.stdout)
	})

	t.Run("defaults", func(t *testing.T) {
		left := &testutil.FakeWorker{Label: "cpp", Reply: []byte{1, 0, 0, 0}}
		right := &testutil.FakeWorker{Label: "rust", Reply: []byte{1, 0, 0, 0}}
		res := runCLI(t, fakeOpener{"cpp": left, "rust": right}, "compare", path)
		require.Equal(t, 0, res.code, res.stderr)
		assert.Len(t, left.Inputs, 1)
		assert.Len(t, right.Inputs, 1)
		assert.Equal(t, 1, left.Closed)
		assert.Equal(t, 1, right.Closed)
	})

	t.Run("status mismatch", func(t *testing.T) {
		opener := fakeOpener{
			"a": {Label: "a", Reply: []byte{1, 0, 0, 0}},
			"b": {Label: "b", Reply: []byte{1, 1, 0, 0}},
		}
		res := runCLI(t, opener, "compare", "--left", "a", "--right", "b", path)
		assert.Equal(t, exitFailure, res.code)
		assert.Contains(t, res.stderr, "MISMATCH: outputs differ")
		assert.Contains(t, res.stderr, "  left_len: 4\n  right_len: 4\n")
		assert.Contains(t, res.stderr, "first_diff: 1 left=0x00 right=0x01")
	})

	t.Run("output count mismatch", func(t *testing.T) {
		opener := fakeOpener{
			"a": {Label: "a", Reply: []byte{1, 0, 0, 0}},
			"b": {Label: "b", Reply: append([]byte{1, 0, 1, 0}, make([]byte, 65)...)},
		}
		res := runCLI(t, opener, "compare", "--left", "a", "--right", "b", path)
		assert.Equal(t, exitFailure, res.code)
		assert.Contains(t, res.stderr, "  left_len: 4\n  right_len: 69\n")
		assert.Contains(t, res.stderr, "first_diff: 2 left=0x00 right=0x01")
	})

	t.Run("right fails to load", func(t *testing.T) {
		opener := fakeOpener{"a": {Label: "a", Reply: []byte{1, 0, 0, 0}}}
		res := runCLI(t, opener, "compare", "--left", "a", "--right", "zzz", path)
		assert.Equal(t, exitFailure, res.code)
		assert.Contains(t, res.stderr, "FAIL: right: unknown worker zzz")
		assert.Equal(t, 1, opener["a"].Closed)
	})

	t.Run("invalid right output", func(t *testing.T) {
		opener := fakeOpener{
			"a": {Label: "a", Reply: []byte{1, 0, 0, 0}},
			"b": {Label: "b", Reply: []byte{3, 0, 0, 0}},
		}
		res := runCLI(t, opener, "compare", "--left", "a", "--right", "b", path)
		assert.Equal(t, exitFailure, res.code)
		assert.Contains(t, res.stderr, "FAIL: right: b output invalid: unsupported output version")
	})
}

func TestMismatchError_PrintLength(t *testing.T) {
	var buf bytes.Buffer
	e := &mismatchError{cmp: &host.Comparison{
		LeftRaw:    []byte{1, 0, 0, 0},
		RightRaw:   []byte{1, 0, 0, 0, 0},
		FirstDiff:  -1,
		LengthDiff: true,
	}}
	e.print(&buf)
	assert.Equal(t, "MISMATCH: outputs differ\n  left_len: 4\n  right_len: 5\n  first_diff: 4 (length mismatch)\n", buf.String())
}

func TestInspect(t *testing.T) {
	path := hexCase(t, testutil.MinimalCase(7))

	res := runCLI(t, nil, "inspect", path)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "case v1 seed=7 flags=0x00000000\n")
	assert.Contains(t, res.stdout, "inputs: 0 outputs: 0\n")
	assert.Contains(t, res.stdout, "scan_pubkey:  "+strings.Repeat("02", 33))
	assert.Contains(t, res.stdout, "labels: []")

	res = runCLI(t, nil, "inspect", "--json", path)
	require.Equal(t, 0, res.code, res.stderr)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	header, ok := out["header"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(7), header["seed"])
	assert.Contains(t, out, "scan_pubkey")

	res = runCLI(t, nil, "inspect", hexCase(t, testutil.HeaderBytes(1, 17)))
	assert.Equal(t, exitFailure, res.code)
	assert.Contains(t, res.stderr, "FAIL: unexpected end of data")
}

func TestVersionAndSchema(t *testing.T) {
	res := runCLI(t, nil, "version")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "worker api: 1")

	res = runCLI(t, nil, "schema")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, `"log_level"`)
	assert.Contains(t, res.stdout, `"workers"`)
}

func TestWorkers(t *testing.T) {
	cfg := writeFile(t, "cfg.yaml", []byte("workers:\n  mine: /opt/mine.wasm\n"))
	res := runCLI(t, nil, "--config", cfg, "workers")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "mine")
	assert.Contains(t, res.stdout, "/opt/mine.wasm")
	assert.Contains(t, res.stdout, "builtin")
}
