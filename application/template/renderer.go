// Package template renders the runner's text reports.
package template

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"text/template"

	"github.com/shuv-amp/sp-differ/domain/ports"
)

// templateConfig holds configuration for the GoTemplateEngine.
type templateConfig struct {
	funcs  template.FuncMap
	strict bool // Fail on missing keys
}

func defaultTemplateConfig() templateConfig {
	return templateConfig{
		strict: true,
		funcs: template.FuncMap{
			"hex": hex.EncodeToString,
		},
	}
}

// TemplateOption configures a GoTemplateEngine.
type TemplateOption func(*templateConfig)

// WithStrict enables/disables strict mode for missing keys.
// When enabled (default), rendering fails if a referenced map key is missing.
func WithStrict(enabled bool) TemplateOption {
	return func(c *templateConfig) {
		c.strict = enabled
	}
}

// WithFuncs adds template functions. The hex function is always present.
func WithFuncs(funcs template.FuncMap) TemplateOption {
	return func(c *templateConfig) {
		for name, fn := range funcs {
			c.funcs[name] = fn
		}
	}
}

// GoTemplateEngine implements TemplateEngine using standard text/template.
type GoTemplateEngine struct {
	config templateConfig
}

// NewGoTemplateEngine creates a new GoTemplateEngine.
func NewGoTemplateEngine(opts ...TemplateOption) ports.TemplateEngine {
	cfg := defaultTemplateConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &GoTemplateEngine{config: cfg}
}

// Render parses text and executes it against data.
func (e *GoTemplateEngine) Render(name, text string, data any) ([]byte, error) {
	tmpl := template.New(name).Funcs(e.config.funcs)

	if e.config.strict {
		tmpl = tmpl.Option("missingkey=error")
	}

	tmpl, err := tmpl.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute %s template: %w", name, err)
	}

	return buf.Bytes(), nil
}
