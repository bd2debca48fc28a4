package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYamlConfigParser_Parse(t *testing.T) {
	data := []byte(`
log_level: debug
log_format: json
workers:
  cpp: /opt/sp/libcpp.so
  rust: /opt/sp/librust.so
left: cpp
right: rust
expected_api_version: 1
`)
	cfg, err := NewYamlConfigParser().Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "/opt/sp/libcpp.so", cfg.Workers["cpp"])
	assert.Equal(t, "cpp", cfg.Left)
	assert.Equal(t, "rust", cfg.Right)
	assert.Equal(t, uint32(1), cfg.ExpectedAPIVersion)
}

func TestYamlConfigParser_Invalid(t *testing.T) {
	_, err := NewYamlConfigParser().Parse([]byte("workers: [unclosed"))
	assert.Error(t, err)
}

func TestYamlConfigParser_Document(t *testing.T) {
	p := NewYamlConfigParser()

	doc, err := p.Document([]byte("log_level: debug\nworkers:\n  cpp: a.so\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"log_level": "debug",
		"workers":   map[string]any{"cpp": "a.so"},
	}, doc)

	doc, err = p.Document(nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, doc)
}
