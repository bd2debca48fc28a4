package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuv-amp/sp-differ/domain/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sp-differ.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Empty(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "builtin", cfg.Worker)
	assert.Equal(t, "cpp", cfg.Left)
	assert.Equal(t, "rust", cfg.Right)
	assert.Equal(t, uint32(1), cfg.ExpectedAPIVersion)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
workers:
  cpp: /opt/libcpp.so
right: builtin
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, map[string]string{"cpp": "/opt/libcpp.so"}, cfg.Workers)
	assert.Equal(t, "cpp", cfg.Left)
	assert.Equal(t, "builtin", cfg.Right)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantField string
	}{
		{name: "bad level", content: "log_level: loud\n", wantField: "log_level"},
		{name: "bad format", content: "log_format: xml\n", wantField: "log_format"},
		{name: "unknown key", content: "lgo_level: debug\n", wantField: ""},
		{name: "wrong type", content: "expected_api_version: one\n", wantField: "expected_api_version"},
		{name: "alias not a string", content: "workers:\n  cpp: [a]\n", wantField: "workers.cpp"},
		{name: "empty alias path", content: "workers:\n  cpp: \"\"\n", wantField: "RunnerConfig.Workers[cpp]"},
		{name: "tiny reply cap", content: "max_reply_size: 2\n", wantField: "RunnerConfig.MaxReplySize"},
		{name: "huge reply cap", content: "max_reply_size: 3000000000\n", wantField: "RunnerConfig.MaxReplySize"},
		{name: "zero api version", content: "expected_api_version: 0\n", wantField: "expected_api_version"},
		{name: "malformed yaml", content: "workers: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			var cfgErr *errors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	var cfgErr *errors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSchema(t *testing.T) {
	out, err := Schema()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	props, ok := decoded["properties"].(map[string]any)
	require.True(t, ok, "schema should have properties")
	for _, key := range []string{"workers", "log_level", "log_format", "left", "right", "expected_api_version"} {
		assert.Contains(t, props, key)
	}
}

func TestValidate_Struct(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	cfg.LogLevel = "loud"
	err := Validate(cfg)
	var cfgErr *errors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "RunnerConfig.LogLevel", cfgErr.Field)

	cfg = Default()
	cfg.ExpectedAPIVersion = 0
	require.ErrorAs(t, Validate(cfg), &cfgErr)
	assert.Equal(t, "RunnerConfig.ExpectedAPIVersion", cfgErr.Field)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
